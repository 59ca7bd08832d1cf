package exporter

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"tsquality/internal/analysis"
)

// formatValue renders a cell for text output. Nulls render empty and dates
// use the layout chosen for their column.
func formatValue(v analysis.Value, dateLayout string) string {
	switch {
	case v.IsNull():
		return ""
	case v.Kind == analysis.KindNumber:
		return formatFloat(v.Num)
	case v.Kind == analysis.KindDate:
		return v.Time.Format(dateLayout)
	default:
		return v.Str
	}
}

// formatFloat uses the shortest representation that reads back to the same value
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatPercent always shows two decimal places
func formatPercent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(2) + "%"
}

// formatMegabytes shows a byte count in MiB with two decimal places
func formatMegabytes(n int64) string {
	return decimal.NewFromInt(n).Div(decimal.NewFromInt(1 << 20)).StringFixed(2)
}

// dateLayouts picks a layout per column: date only when every date in the
// column falls on midnight, date and time otherwise.
func dateLayouts(t *analysis.Table) []string {
	layouts := make([]string, t.Width())
	for c := range layouts {
		layouts[c] = analysis.DateLayout
		for i := range t.Rows {
			v := t.Cell(i, c)
			if v.Kind != analysis.KindDate {
				continue
			}
			h, m, s := v.Time.Clock()
			if h != 0 || m != 0 || s != 0 || v.Time.Nanosecond() != 0 {
				layouts[c] = analysis.DateTimeLayout
				break
			}
		}
	}
	return layouts
}

// tableRecords converts a table into string records ready for a CSV writer
func tableRecords(t *analysis.Table) [][]string {
	layouts := dateLayouts(t)
	records := make([][]string, t.Len())
	for i := range t.Rows {
		record := make([]string, t.Width())
		for c := range record {
			record[c] = formatValue(t.Cell(i, c), layouts[c])
		}
		records[i] = record
	}
	return records
}
