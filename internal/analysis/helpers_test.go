package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var baseDay = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// day returns baseDay shifted by n days
func day(n int) time.Time {
	return baseDay.AddDate(0, 0, n)
}

// cellOf converts test literals into values: nil is null, float64 and int
// are numbers, time.Time is a date, strings are text.
func cellOf(t *testing.T, v any) Value {
	t.Helper()
	switch x := v.(type) {
	case nil:
		return Null()
	case float64:
		return Number(x)
	case int:
		return Number(float64(x))
	case time.Time:
		return Date(x)
	case string:
		return Text(x)
	default:
		require.Failf(t, "unsupported literal", "%T", v)
		return Null()
	}
}

// tableOf builds a table from column names and literal rows
func tableOf(t *testing.T, columns []string, rows ...[]any) *Table {
	t.Helper()
	out := make([][]Value, 0, len(rows))
	for _, r := range rows {
		row := make([]Value, len(r))
		for i, v := range r {
			row[i] = cellOf(t, v)
		}
		out = append(out, row)
	}
	return NewTable(columns, out)
}

// priceSeries builds a canonical Date/Close table on consecutive days
func priceSeries(t *testing.T, closes ...any) *Table {
	t.Helper()
	rows := make([][]any, len(closes))
	for i, c := range closes {
		rows[i] = []any{day(i), c}
	}
	return tableOf(t, []string{DateColumn, "Close"}, rows...)
}

// columnFloats extracts a numeric column of a result table
func columnFloats(t *testing.T, tbl *Table, column string) []float64 {
	t.Helper()
	values, err := tbl.ColumnValues(column)
	require.NoError(t, err)
	out := make([]float64, len(values))
	for i, v := range values {
		f, ok := v.Float()
		require.True(t, ok, "row %d of %s is not a number", i, column)
		out[i] = f
	}
	return out
}
