package analysis

// Preprocess returns the canonical form of a validated table: Date values
// parsed to dates normalized to UTC and rows stable-sorted ascending by Date. Row identity is
// the slice position, so the result has no gaps. The input is not modified.
//
// An unparseable Date value fails with the same *StructuralError Validate
// would report instead of producing a partially converted table.
func Preprocess(t *Table) (*Table, error) {
	dateIdx := t.ColumnIndex(DateColumn)
	if dateIdx < 0 {
		return nil, newStructuralError(ReasonMissingDate)
	}

	out := t.Clone()
	for _, row := range out.Rows {
		ts, err := parseDateValue(row[dateIdx])
		if err != nil {
			return nil, newStructuralError(ReasonInvalidDate)
		}
		row[dateIdx] = Date(ts.UTC())
	}

	out.sortByColumn(dateIdx)
	return out, nil
}
