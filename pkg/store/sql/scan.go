package sql

import (
	"database/sql"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/nutrition-atlas/pkg/catalogue"
	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
)

// ScanResult drains rows into a TabularResult with normalized values
func ScanResult(rows *sql.Rows) (*domain.TabularResult, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	columns := make([]domain.Column, len(names))
	for i, name := range names {
		columns[i] = domain.Column{Name: name}
	}
	if types, err := rows.ColumnTypes(); err == nil && len(types) == len(columns) {
		for i, ct := range types {
			columns[i].DatabaseType = strings.ToUpper(ct.DatabaseTypeName())
		}
	}

	result := &domain.TabularResult{
		Columns: columns,
		Rows:    make([][]any, 0),
	}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			values[i] = normalize(v, columns[i].DatabaseType)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

func normalize(v any, dbType string) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return normalizeText(string(val), dbType)
	case string:
		return normalizeText(val, dbType)
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	case bool:
		return val
	case time.Time:
		return val
	case *big.Int:
		if val.IsInt64() {
			return val.Int64()
		}
		f, _ := new(big.Float).SetInt(val).Float64()
		return f
	case interface{ Float64() float64 }:
		return val.Float64()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// normalizeText converts textual numerics, as returned by text protocol drivers
func normalizeText(s, dbType string) any {
	switch {
	case strings.Contains(dbType, "INT"):
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case strings.Contains(dbType, "DECIMAL"), strings.Contains(dbType, "NUMERIC"),
		strings.Contains(dbType, "FLOAT"), strings.Contains(dbType, "DOUBLE"), strings.Contains(dbType, "REAL"):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// BindParams resolves raw values against declared params, in declaration order
func BindParams(declared []domain.Param, values map[string]string) ([]any, error) {
	known := make(map[string]bool, len(declared))
	for _, p := range declared {
		known[p.Name] = true
	}
	for name := range values {
		if !known[name] {
			return nil, fmt.Errorf("unknown parameter %q", name)
		}
	}

	args := make([]any, 0, len(declared))
	for _, p := range declared {
		raw, ok := values[p.Name]
		if !ok || raw == "" {
			raw = p.Default
		}
		if raw == "" && p.Type != domain.ParamTypeString {
			return nil, fmt.Errorf("missing parameter %q", p.Name)
		}
		v, err := catalogue.ParseParam(p, raw)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}
