package analysis

import "fmt"

// DefaultIQRMultiplier is the conventional Tukey fence multiplier
const DefaultIQRMultiplier = 1.5

// Fences holds the quartiles and bounds used by DetectOutliers
type Fences struct {
	Q1    float64
	Q3    float64
	IQR   float64
	Lower float64
	Upper float64
}

// IQRFences computes quartile fences over the non-missing values.
func IQRFences(values []float64, multiplier float64) Fences {
	sorted := sortedCopy(values)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	return Fences{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - multiplier*iqr,
		Upper: q3 + multiplier*iqr,
	}
}

// DetectOutliers flags rows whose value lies strictly outside
// [Q1 - multiplier*IQR, Q3 + multiplier*IQR]. Findings keep every column
// and table order. When IQR is zero any value different from the quartiles
// is an outlier.
func DetectOutliers(t *Table, column string, multiplier float64) Result {
	values, err := t.numericColumn(column)
	if err != nil {
		return NewFailure(CheckOutliers, column, err)
	}

	f := IQRFences(numbers(values), multiplier)
	context := map[string]float64{
		"q1":          f.Q1,
		"q3":          f.Q3,
		"iqr":         f.IQR,
		"lower_bound": f.Lower,
		"upper_bound": f.Upper,
		"multiplier":  multiplier,
	}

	var rows []int
	for i, v := range values {
		x, ok := v.Float()
		if ok && (x < f.Lower || x > f.Upper) {
			rows = append(rows, i)
		}
	}

	if len(rows) == 0 {
		return NewNoFindings(CheckOutliers, column,
			fmt.Sprintf("No outliers found in column '%s'", column), context)
	}
	return NewFindings(CheckOutliers, column, t.Select(rows), context)
}
