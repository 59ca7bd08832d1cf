package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultMAWindow is the default moving-average window in rows
const DefaultMAWindow = 30

// Trend labels the direction of the moving average at a row
type Trend string

const (
	TrendUpward   Trend = "Upward"
	TrendDownward Trend = "Downward"
)

// BaselinePolicy decides the label of a row whose predecessor has no
// moving average, which always includes the first row of the output.
type BaselinePolicy string

const (
	// BaselineDownward labels such rows Downward, since a comparison
	// against a missing value is false.
	BaselineDownward BaselinePolicy = "downward"
	// BaselineNone leaves such rows without a label.
	BaselineNone BaselinePolicy = "none"
)

// ParseBaselinePolicy accepts "downward", "none" or the empty string,
// which selects BaselineDownward.
func ParseBaselinePolicy(s string) (BaselinePolicy, error) {
	switch BaselinePolicy(s) {
	case "", BaselineDownward:
		return BaselineDownward, nil
	case BaselineNone:
		return BaselineNone, nil
	}
	return "", fmt.Errorf("unknown trend baseline policy %q", s)
}

type trendOptions struct {
	baseline BaselinePolicy
}

// TrendOption configures DetectTrends
type TrendOption func(*trendOptions)

// WithBaseline selects the label policy for rows without a prior average
func WithBaseline(p BaselinePolicy) TrendOption {
	return func(o *trendOptions) {
		o.baseline = p
	}
}

// TrendRow is one output row of DetectTrends
type TrendRow struct {
	Index    int     `json:"index"`
	Date     Value   `json:"date"`
	Value    float64 `json:"value"`
	MA       float64 `json:"ma"`
	MAStd    Measure `json:"ma_std"`
	Trend    Trend   `json:"trend,omitempty"`
	HasPrior bool    `json:"has_prior"`
}

// TrendTable is the canonical table reduced to rows with a full window and
// augmented with MA, MA_std and Trend.
type TrendTable struct {
	Column   string         `json:"column"`
	Window   int            `json:"window"`
	Baseline BaselinePolicy `json:"baseline"`
	Rows     []TrendRow     `json:"rows"`
}

// Len returns the number of rows
func (tt *TrendTable) Len() int {
	return len(tt.Rows)
}

// Table renders the trend rows as a Table with columns
// Date, <column>, MA, MA_std, Trend.
func (tt *TrendTable) Table() *Table {
	rows := make([][]Value, 0, len(tt.Rows))
	for _, r := range tt.Rows {
		std := Null()
		if r.MAStd.Valid {
			std = Number(r.MAStd.Value)
		}
		label := Null()
		if r.Trend != "" {
			label = Text(string(r.Trend))
		}
		rows = append(rows, []Value{r.Date, Number(r.Value), Number(r.MA), std, label})
	}
	return NewTable([]string{DateColumn, tt.Column, "MA", "MA_std", "Trend"}, rows)
}

// DetectTrends computes a trailing moving average and moving sample
// standard deviation over window rows ending at each row. Rows without a
// complete window of non-missing values are dropped. A row is Upward when
// its average exceeds the previous row's average, otherwise Downward; rows
// whose previous row has no average follow the baseline policy.
//
// With window 1 the moving standard deviation is undefined and rows are kept.
func DetectTrends(t *Table, column string, window int, opts ...TrendOption) (*TrendTable, error) {
	options := trendOptions{baseline: BaselineDownward}
	for _, opt := range opts {
		opt(&options)
	}

	values, err := t.numericColumn(column)
	if err != nil {
		return nil, err
	}
	if window < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}
	dateIdx := t.ColumnIndex(DateColumn)
	if dateIdx < 0 {
		return nil, ErrMissingDate
	}

	n := len(values)
	ma := make([]float64, n)
	sd := make([]float64, n)
	buf := make([]float64, 0, window)
	for i := range values {
		ma[i], sd[i] = math.NaN(), math.NaN()
		if i < window-1 {
			continue
		}
		buf = buf[:0]
		for _, v := range values[i-window+1 : i+1] {
			x, ok := v.Float()
			if !ok {
				break
			}
			buf = append(buf, x)
		}
		if len(buf) < window {
			continue
		}
		ma[i] = stat.Mean(buf, nil)
		if window > 1 {
			sd[i] = stat.StdDev(buf, nil)
		}
	}

	out := &TrendTable{Column: column, Window: window, Baseline: options.baseline, Rows: []TrendRow{}}
	for i := range values {
		if math.IsNaN(ma[i]) {
			continue
		}
		x, _ := values[i].Float()
		row := TrendRow{
			Index:    i,
			Date:     cell(t.Rows[i], dateIdx),
			Value:    x,
			MA:       ma[i],
			MAStd:    Defined(sd[i]),
			HasPrior: i > 0 && !math.IsNaN(ma[i-1]),
		}
		switch {
		case row.HasPrior && ma[i] > ma[i-1]:
			row.Trend = TrendUpward
		case row.HasPrior || options.baseline == BaselineDownward:
			row.Trend = TrendDownward
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
