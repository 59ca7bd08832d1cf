package analysis

import "github.com/shopspring/decimal"

// MissingColumn is the missing value count of one column
type MissingColumn struct {
	Column     string  `json:"column"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MissingReport lists columns with at least one missing value, in table
// column order. An empty report means there is no missing data.
type MissingReport []MissingColumn

// Lookup returns the entry for a column
func (m MissingReport) Lookup(column string) (MissingColumn, bool) {
	for _, mc := range m {
		if mc.Column == column {
			return mc, true
		}
	}
	return MissingColumn{}, false
}

// CheckMissing counts missing values per column. Columns without missing
// values are omitted. Percentages are relative to the row count and rounded
// to two decimals.
func CheckMissing(t *Table) MissingReport {
	report := MissingReport{}
	total := t.Len()
	if total == 0 {
		return report
	}

	for c, name := range t.Columns {
		count := 0
		for _, row := range t.Rows {
			if cell(row, c).IsNull() {
				count++
			}
		}
		if count == 0 {
			continue
		}
		report = append(report, MissingColumn{
			Column:     name,
			Count:      count,
			Percentage: percentOf(count, total),
		})
	}
	return report
}

func percentOf(count, total int) float64 {
	pct := decimal.NewFromInt(int64(count)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
	f, _ := pct.Float64()
	return f
}
