package observations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/models/store"
	"github.com/de-tools/nutrition-atlas/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:    db,
		store: s,
	}
}

func (f *fixture) insert(t *testing.T, table string) {
	t.Helper()
	_, err := f.db.Exec(`INSERT INTO ` + table + ` VALUES
		('Peru', 'Americas', 2013, 'male', 'child', 3.2, 2.1, 4.3, 2.2, 'Low'),
		('Kenya', 'Africa', 2012, 'female', 'adult', 9.5, 7.5, 11.5, 4.0, 'Low'),
		('Kenya', 'Africa', 2013, 'female', 'adult', 10.1, 8.0, 12.2, 4.2, 'Moderate')`)
	require.NoError(t, err)
}

func TestObservationStore_Snapshot(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.insert(t, store.TableObesity)

	result, err := f.store.Snapshot(ctx, store.TableObesity)
	require.NoError(t, err)

	expected, err := store.TableColumns(store.TableObesity)
	require.NoError(t, err)
	assert.Equal(t, expected, result.ColumnNames())
	require.Equal(t, 3, result.Len())

	// ordered by country, year
	assert.Equal(t, "Kenya", result.Rows[0][0])
	assert.Equal(t, int64(2012), result.Rows[0][2])
	assert.Equal(t, "Peru", result.Rows[2][0])
	assert.Equal(t, 3.2, result.Rows[2][5])
	assert.Equal(t, "Low", result.Rows[2][9])

	empty, err := f.store.Snapshot(ctx, store.TableMalnutrition)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Len(t, empty.Columns, 10)
}

func TestObservationStore_RowsPerYear(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.insert(t, store.TableObesity)

	counts, err := f.store.RowsPerYear(ctx, store.TableObesity)
	require.NoError(t, err)
	assert.Equal(t, []domain.YearCount{
		{Year: 2012, Rows: 1},
		{Year: 2013, Rows: 2},
	}, counts)
}

func TestObservationStore_OutageIsConnectionError(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.insert(t, store.TableObesity)
	require.NoError(t, f.db.Close())

	_, err := f.store.Snapshot(ctx, store.TableObesity)
	require.Error(t, err)
	assert.True(t, domain.IsConnectionError(err))

	_, err = f.store.RowsPerYear(ctx, store.TableObesity)
	require.Error(t, err)
	assert.True(t, domain.IsConnectionError(err))
}

func TestObservationStore_BadStatementIsNotConnectionError(t *testing.T) {
	f := setupFixture(t)
	_, err := f.db.Exec(`DROP TABLE malnutrition`)
	require.NoError(t, err)

	_, err = f.store.Snapshot(context.Background(), store.TableMalnutrition)
	require.Error(t, err)
	assert.False(t, domain.IsConnectionError(err))
}

func TestObservationStore_UnknownTable(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.store.Snapshot(ctx, "vitamins")
	assert.Error(t, err)
	_, err = f.store.RowsPerYear(ctx, "vitamins")
	assert.Error(t, err)
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}
