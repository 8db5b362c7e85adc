package store

import "fmt"

const (
	TableObesity      = "obesity"
	TableMalnutrition = "malnutrition"
)

// ObservationColumns is the projection shared by both observation tables,
// without the table specific level column.
var ObservationColumns = []string{
	"country",
	"region",
	"year",
	"gender",
	"age_group",
	"mean_estimate",
	"lower_bound",
	"upper_bound",
	"CI_Width",
}

// LevelColumn returns the categorical level column of a table, e.g. obesity_level
func LevelColumn(table string) string {
	return table + "_level"
}

// TableColumns returns the full column list of an observation table
func TableColumns(table string) ([]string, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	cols := make([]string, 0, len(ObservationColumns)+1)
	cols = append(cols, ObservationColumns...)
	return append(cols, LevelColumn(table)), nil
}

// Schema maps every observation table to its columns
func Schema() map[string][]string {
	schema := make(map[string][]string, 2)
	for _, table := range []string{TableObesity, TableMalnutrition} {
		cols, _ := TableColumns(table)
		schema[table] = cols
	}
	return schema
}

// ValidateTable guards table names that have to be spliced into SQL text
func ValidateTable(table string) error {
	switch table {
	case TableObesity, TableMalnutrition:
		return nil
	default:
		return fmt.Errorf("unknown observation table %q", table)
	}
}
