package analysis

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// ValueKind identifies the payload carried by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindDate
	KindText
)

// String returns the kind name
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a single typed table cell. The zero Value is null.
type Value struct {
	Kind ValueKind
	Num  float64
	Time time.Time
	Str  string
}

// Null returns a missing value
func Null() Value { return Value{} }

// Number returns a numeric value
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Date returns a date value
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

// Text returns a free-form value
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// IsNull reports whether the value is missing
func (v Value) IsNull() bool {
	return v.Kind == KindNull || (v.Kind == KindNumber && math.IsNaN(v.Num))
}

// Float returns the numeric payload and whether v holds a usable number.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber || math.IsNaN(v.Num) {
		return 0, false
	}
	return v.Num, true
}

// Equal compares kind and payload. Dates compare as instants.
func (v Value) Equal(o Value) bool {
	if v.IsNull() || o.IsNull() {
		return v.IsNull() && o.IsNull()
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindDate:
		return v.Time.Equal(o.Time)
	default:
		return v.Str == o.Str
	}
}

// String renders the value for display. Nulls render as the empty string.
func (v Value) String() string {
	switch {
	case v.IsNull():
		return ""
	case v.Kind == KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case v.Kind == KindDate:
		if isMidnight(v.Time) {
			return v.Time.Format(DateLayout)
		}
		return v.Time.Format(DateTimeLayout)
	default:
		return v.Str
	}
}

// MarshalJSON encodes numbers as JSON numbers and dates as RFC 3339.
// Non-finite numbers are encoded as strings since JSON has no literal for them.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.Kind == KindNumber && math.IsNaN(v.Num):
		return []byte(`"NaN"`), nil
	case v.IsNull():
		return []byte("null"), nil
	case v.Kind == KindNumber:
		switch {
		case math.IsInf(v.Num, 1):
			return []byte(`"Infinity"`), nil
		case math.IsInf(v.Num, -1):
			return []byte(`"-Infinity"`), nil
		}
		return []byte(strconv.FormatFloat(v.Num, 'f', -1, 64)), nil
	case v.Kind == KindDate:
		return json.Marshal(v.Time.Format(time.RFC3339))
	default:
		return json.Marshal(v.Str)
	}
}

// compareValues orders values for sorting: dates by instant, numbers
// numerically, everything else by text. Nulls sort last.
func compareValues(a, b Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return 1
	case b.IsNull():
		return -1
	}
	if a.Kind == KindDate && b.Kind == KindDate {
		return a.Time.Compare(b.Time)
	}
	if a.Kind == KindNumber && b.Kind == KindNumber {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		}
		return 0
	}
	as, bs := a.String(), b.String()
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}
