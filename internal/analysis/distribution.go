package analysis

import "gonum.org/v1/gonum/stat"

// Distribution holds descriptive statistics of one column, computed over
// its non-missing values.
type Distribution struct {
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Mean     Measure `json:"mean"`
	Median   Measure `json:"median"`
	Std      Measure `json:"std"`
	Min      Measure `json:"min"`
	Max      Measure `json:"max"`
	Skewness Measure `json:"skewness"`
	Kurtosis Measure `json:"kurtosis"`
}

// NamedMeasure pairs a statistic with its display name
type NamedMeasure struct {
	Name    string
	Measure Measure
}

// Measures returns the statistics in report order
func (d Distribution) Measures() []NamedMeasure {
	return []NamedMeasure{
		{"mean", d.Mean},
		{"median", d.Median},
		{"std", d.Std},
		{"min", d.Min},
		{"max", d.Max},
		{"skewness", d.Skewness},
		{"kurtosis", d.Kurtosis},
	}
}

// AnalyzeDistribution computes mean, median, sample standard deviation
// (n-1), min, max, adjusted Fisher-Pearson skewness and bias-corrected
// excess kurtosis.
//
// Statistics that need more observations than are available are left
// undefined: std below 2 values, skewness below 3, kurtosis below 4.
// A column with zero variance has skewness and kurtosis of 0.
func AnalyzeDistribution(t *Table, column string) (Distribution, error) {
	xs, err := t.Numbers(column)
	if err != nil {
		return Distribution{}, err
	}

	d := Distribution{Column: column, Count: len(xs)}
	n := len(xs)
	if n == 0 {
		return d, nil
	}

	sorted := sortedCopy(xs)
	d.Mean = Defined(stat.Mean(xs, nil))
	d.Median = Defined(quantile(sorted, 0.5))
	d.Min = Defined(sorted[0])
	d.Max = Defined(sorted[n-1])

	if n < 2 {
		return d, nil
	}
	std := stat.StdDev(xs, nil)
	d.Std = Defined(std)

	if n >= 3 {
		if std == 0 {
			d.Skewness = Defined(0)
		} else {
			d.Skewness = Defined(stat.Skew(xs, nil))
		}
	}
	if n >= 4 {
		if std == 0 {
			d.Kurtosis = Defined(0)
		} else {
			d.Kurtosis = Defined(stat.ExKurtosis(xs, nil))
		}
	}
	return d, nil
}
