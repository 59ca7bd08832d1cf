package analysis

import (
	"time"
	"unsafe"
)

// PreviewRows is the number of leading rows included in an Overview
const PreviewRows = 5

// DateRange is the first and last Date of a table
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overview describes the shape and content of a canonical table
type Overview struct {
	Rows           int        `json:"rows"`
	Columns        int        `json:"columns"`
	ColumnNames    []string   `json:"column_names"`
	NumericColumns []string   `json:"numeric_columns"`
	DateRange      *DateRange `json:"date_range,omitempty"`
	MemoryBytes    int64      `json:"memory_bytes"`
	Preview        *Table     `json:"preview"`
}

// valueSize is the in-memory size of one cell without its text payload
const valueSize = int64(unsafe.Sizeof(Value{}))

// MemoryUsage estimates the bytes held by the table: every cell, the text
// of text cells and the column names.
func (t *Table) MemoryUsage() int64 {
	var n int64
	for _, c := range t.Columns {
		n += int64(len(c))
	}
	for _, row := range t.Rows {
		n += int64(len(row)) * valueSize
		for _, v := range row {
			if v.Kind == KindText {
				n += int64(len(v.Str))
			}
		}
	}
	return n
}

// DateRange returns the earliest and latest Date values. ok is false when
// the table has no Date column or no parsed dates.
func (t *Table) DateRange() (DateRange, bool) {
	idx := t.ColumnIndex(DateColumn)
	if idx < 0 {
		return DateRange{}, false
	}
	var r DateRange
	found := false
	for _, row := range t.Rows {
		v := cell(row, idx)
		if v.Kind != KindDate {
			continue
		}
		if !found || v.Time.Before(r.Start) {
			r.Start = v.Time
		}
		if !found || v.Time.After(r.End) {
			r.End = v.Time
		}
		found = true
	}
	return r, found
}

// Summarize builds the Overview of a table
func Summarize(t *Table) Overview {
	o := Overview{
		Rows:           t.Len(),
		Columns:        t.Width(),
		ColumnNames:    append([]string(nil), t.Columns...),
		NumericColumns: t.NumericColumns(),
		MemoryBytes:    t.MemoryUsage(),
		Preview:        t.Head(PreviewRows),
	}
	if o.NumericColumns == nil {
		o.NumericColumns = []string{}
	}
	if r, ok := t.DateRange(); ok {
		o.DateRange = &r
	}
	return o
}
