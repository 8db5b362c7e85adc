package domain

import (
	"strings"
	"time"
)

type Column struct {
	Name         string
	DatabaseType string
}

// TabularResult is the normalized output of a single query execution.
// Row values are one of string, int64, float64, bool, time.Time or nil.
type TabularResult struct {
	ExecutionID string
	Columns     []Column
	Rows        [][]any
	Duration    time.Duration
}

func (r *TabularResult) ColumnNames() []string {
	names := make([]string, 0, len(r.Columns))
	for _, c := range r.Columns {
		names = append(names, c.Name)
	}
	return names
}

// ColumnIndex finds a column by exact name, then case-insensitively
func (r *TabularResult) ColumnIndex(name string) (int, bool) {
	for i, c := range r.Columns {
		if c.Name == name {
			return i, true
		}
	}
	for i, c := range r.Columns {
		if strings.EqualFold(c.Name, name) {
			return i, true
		}
	}
	return -1, false
}

func (r *TabularResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}
