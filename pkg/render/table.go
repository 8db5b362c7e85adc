package render

import (
	"io"
	"strconv"
	"time"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/olekukonko/tablewriter"
)

// WriteTable prints a result verbatim, keeping column and row order
func WriteTable(w io.Writer, result *domain.TabularResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(result.ColumnNames())
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatValue(v)
		}
		table.Append(cells)
	}
	table.Render()
}

// FormatValue prints a normalized result value; NULL is printed as empty
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(time.DateOnly)
	default:
		return keyOf(val)
	}
}
