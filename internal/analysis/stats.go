package analysis

import (
	"math"
	"sort"
	"strconv"
)

// Measure is a statistic that may be undefined, for example the standard
// deviation of a single observation.
type Measure struct {
	Value float64
	Valid bool
}

// Defined wraps v, treating NaN and infinities as undefined.
func Defined(v float64) Measure {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Measure{}
	}
	return Measure{Value: v, Valid: true}
}

// String renders the value or "undefined"
func (m Measure) String() string {
	if !m.Valid {
		return "undefined"
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// MarshalJSON encodes undefined measures as null
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(m.Value, 'f', -1, 64)), nil
}

// numbers returns the usable numeric payloads, skipping missing values.
func numbers(values []Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

func sortedCopy(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	sort.Float64s(out)
	return out
}

// quantile interpolates linearly between the closest ranks of a sorted
// sample: position q*(n-1), the usual definition for quartile fences.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
