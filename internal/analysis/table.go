package analysis

import (
	"encoding/json"
	"sort"
)

// DateColumn is the column every analyzable table must carry.
const DateColumn = "Date"

// Table is an ordered collection of records. Rows are aligned with Columns;
// a row shorter than Columns is treated as padded with nulls.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// NewTable creates a table owning a copy of the column names.
func NewTable(columns []string, rows [][]Value) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols, Rows: rows}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Width returns the number of columns
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// ColumnIndex returns the position of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has a column with exactly this name
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the value at row i, column c
func (t *Table) Cell(i, c int) Value {
	return cell(t.Rows[i], c)
}

func cell(row []Value, c int) Value {
	if c < 0 || c >= len(row) {
		return Null()
	}
	return row[c]
}

// ColumnValues returns a copy of one column in row order.
func (t *Table) ColumnValues(name string) ([]Value, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, &ColumnError{Column: name, Err: ErrColumnNotFound}
	}
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = cell(row, idx)
	}
	return out, nil
}

// numericColumn is ColumnValues restricted to numeric columns.
func (t *Table) numericColumn(name string) ([]Value, error) {
	values, err := t.ColumnValues(name)
	if err != nil {
		return nil, err
	}
	if name == DateColumn || !isNumeric(values) {
		return nil, &ColumnError{Column: name, Err: ErrColumnNotNumeric}
	}
	return values, nil
}

// Numbers returns the non-missing values of a numeric column in table order.
func (t *Table) Numbers(name string) ([]float64, error) {
	values, err := t.numericColumn(name)
	if err != nil {
		return nil, err
	}
	return numbers(values), nil
}

// IsNumeric reports whether the column holds at least one number and
// nothing but numbers and nulls. Date is never numeric.
func (t *Table) IsNumeric(name string) bool {
	if name == DateColumn {
		return false
	}
	values, err := t.ColumnValues(name)
	if err != nil {
		return false
	}
	return isNumeric(values)
}

func isNumeric(values []Value) bool {
	seen := false
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if v.Kind != KindNumber {
			return false
		}
		seen = true
	}
	return seen
}

// NumericColumns returns the numeric column names in table order.
func (t *Table) NumericColumns() []string {
	var out []string
	if t == nil {
		return out
	}
	for _, c := range t.Columns {
		if t.IsNumeric(c) {
			out = append(out, c)
		}
	}
	return out
}

// Clone deep-copies the table. Every row of the copy has exactly Width cells.
func (t *Table) Clone() *Table {
	rows := make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = t.copyRow(row)
	}
	return NewTable(t.Columns, rows)
}

// Select returns a new table holding copies of the given rows, in the given order.
func (t *Table) Select(indices []int) *Table {
	rows := make([][]Value, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, t.copyRow(t.Rows[i]))
	}
	return NewTable(t.Columns, rows)
}

// Head returns the first n rows
func (t *Table) Head(n int) *Table {
	if n > t.Len() {
		n = t.Len()
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return t.Select(indices)
}

func (t *Table) copyRow(row []Value) []Value {
	out := make([]Value, len(t.Columns))
	copy(out, row)
	return out
}

// sortByColumn stable-sorts rows ascending by the column at idx.
func (t *Table) sortByColumn(idx int) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return compareValues(cell(t.Rows[i], idx), cell(t.Rows[j], idx)) < 0
	})
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...], ...]}
func (t *Table) MarshalJSON() ([]byte, error) {
	rows := t.Rows
	if rows == nil {
		rows = [][]Value{}
	}
	return json.Marshal(struct {
		Columns []string  `json:"columns"`
		Rows    [][]Value `json:"rows"`
	}{Columns: t.Columns, Rows: rows})
}
