package analysis

import "math"

// DetectDuplicates flags every row whose Date is shared with at least one
// other row, so both members of a pair are reported. Findings are sorted by
// Date. A table without a Date column yields an error result.
func DetectDuplicates(t *Table) Result {
	dateIdx := t.ColumnIndex(DateColumn)
	if dateIdx < 0 {
		return NewFailure(CheckDuplicates, DateColumn, ErrMissingDate)
	}

	keys := make([]cellKey, t.Len())
	counts := make(map[cellKey]int, t.Len())
	for i, row := range t.Rows {
		k := keyOf(cell(row, dateIdx))
		keys[i] = k
		counts[k]++
	}

	var rows []int
	for i, k := range keys {
		if counts[k] > 1 {
			rows = append(rows, i)
		}
	}

	if len(rows) == 0 {
		return NewNoFindings(CheckDuplicates, DateColumn, "No duplicate dates found", nil)
	}

	out := t.Select(rows)
	out.sortByColumn(dateIdx)
	return NewFindings(CheckDuplicates, DateColumn, out, map[string]float64{
		"duplicate_rows": float64(len(rows)),
	})
}

// cellKey is a comparable identity for exact value matching.
type cellKey struct {
	kind  ValueKind
	num   uint64
	nanos int64
	text  string
}

func keyOf(v Value) cellKey {
	if v.IsNull() {
		return cellKey{kind: KindNull}
	}
	switch v.Kind {
	case KindNumber:
		return cellKey{kind: KindNumber, num: math.Float64bits(v.Num)}
	case KindDate:
		return cellKey{kind: KindDate, nanos: v.Time.UnixNano()}
	default:
		return cellKey{kind: v.Kind, text: v.Str}
	}
}
