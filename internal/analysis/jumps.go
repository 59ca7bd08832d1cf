package analysis

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	// DefaultJumpThreshold is a 10% move between consecutive rows
	DefaultJumpThreshold = 0.10
	// PctChangeColumn names the computed change in jump findings
	PctChangeColumn = "pct_change"
)

// PercentChange returns (v[i]-v[i-1])/v[i-1] for each row. The first row,
// and any row where either value is missing, is NaN. A zero predecessor
// gives an infinite change, or NaN when both values are zero.
func PercentChange(values []Value) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		out[i] = math.NaN()
		if i == 0 {
			continue
		}
		cur, ok1 := values[i].Float()
		prev, ok2 := values[i-1].Float()
		if ok1 && ok2 {
			out[i] = (cur - prev) / prev
		}
	}
	return out
}

// DetectJumps flags rows whose change from the previous row exceeds the
// threshold in absolute value. Findings carry Date, the column and
// pct_change, sorted by Date. The change series is local; t is not modified.
func DetectJumps(t *Table, column string, threshold float64) Result {
	values, err := t.numericColumn(column)
	if err != nil {
		return NewFailure(CheckJumps, column, err)
	}
	dateIdx := t.ColumnIndex(DateColumn)
	if dateIdx < 0 {
		return NewFailure(CheckJumps, column, ErrMissingDate)
	}

	context := map[string]float64{"threshold": threshold}
	pct := PercentChange(values)

	var rows [][]Value
	for i, p := range pct {
		if math.IsNaN(p) || math.Abs(p) <= threshold {
			continue
		}
		rows = append(rows, []Value{cell(t.Rows[i], dateIdx), values[i], Number(p)})
	}

	if len(rows) == 0 {
		return NewNoFindings(CheckJumps, column,
			fmt.Sprintf("No significant price jumps detected in column '%s' (threshold: %s%%)",
				column, thresholdPercent(threshold)),
			context)
	}

	out := NewTable([]string{DateColumn, column, PctChangeColumn}, rows)
	out.sortByColumn(0)
	return NewFindings(CheckJumps, column, out, context)
}

// thresholdPercent renders a fraction as a percentage without float noise,
// so 0.07 prints as 7 rather than 7.000000000000001.
func thresholdPercent(threshold float64) string {
	return decimal.NewFromFloat(threshold).Mul(decimal.NewFromInt(100)).String()
}
