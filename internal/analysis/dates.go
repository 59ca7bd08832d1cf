package analysis

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// dateLayouts lists accepted date spellings, most common first.
var dateLayouts = []string{
	DateLayout,
	DateTimeLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05.000",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"02-Jan-2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102",
}

// ParseDate parses a date or datetime string in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// parseDateValue interprets a cell of the Date column. Compact numeric dates
// such as 20240131 are accepted because delimited readers type them as numbers.
func parseDateValue(v Value) (time.Time, error) {
	switch v.Kind {
	case KindDate:
		return v.Time, nil
	case KindText:
		return ParseDate(v.Str)
	case KindNumber:
		if v.Num == math.Trunc(v.Num) && v.Num >= 10000101 && v.Num <= 99991231 {
			return ParseDate(fmt.Sprintf("%08d", int64(v.Num)))
		}
	}
	return time.Time{}, ErrInvalidDate
}
