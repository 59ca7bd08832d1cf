package analysis

// ValidationSuccessful is the message reported for a table that passes Validate.
const ValidationSuccessful = "Data validation successful"

// Validate checks the minimum structure needed before preprocessing.
// Checks run in order and stop at the first failure:
//
//  1. the table has at least one record and one column
//  2. a column named exactly Date exists
//  3. every Date value parses as a date (missing dates do not)
//  4. at least one other column is numeric
//
// The returned error is a *StructuralError. The table is not modified.
func Validate(t *Table) error {
	if t.Len() == 0 || t.Width() == 0 {
		return newStructuralError(ReasonEmpty)
	}

	dateIdx := t.ColumnIndex(DateColumn)
	if dateIdx < 0 {
		return newStructuralError(ReasonMissingDate)
	}

	for _, row := range t.Rows {
		if _, err := parseDateValue(cell(row, dateIdx)); err != nil {
			return newStructuralError(ReasonInvalidDate)
		}
	}

	if len(t.NumericColumns()) == 0 {
		return newStructuralError(ReasonNoNumeric)
	}

	return nil
}

// ValidationMessage returns the human readable outcome of Validate.
func ValidationMessage(err error) string {
	if err == nil {
		return ValidationSuccessful
	}
	return err.Error()
}
