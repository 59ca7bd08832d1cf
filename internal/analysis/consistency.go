package analysis

// Consistency summarizes value-level sanity checks for one column
type Consistency struct {
	Column        string `json:"column"`
	ZeroCount     int    `json:"zero_values"`
	NegativeCount int    `json:"negative_values"`
	IsConstant    bool   `json:"constant_values"`
	MissingCount  int    `json:"gaps"`
}

// CheckConsistency counts zeros, negatives and missing values, and reports
// whether the column holds exactly one distinct non-missing value.
func CheckConsistency(t *Table, column string) (Consistency, error) {
	values, err := t.numericColumn(column)
	if err != nil {
		return Consistency{}, err
	}

	c := Consistency{Column: column}
	distinct := make(map[float64]struct{})
	for _, v := range values {
		x, ok := v.Float()
		if !ok {
			c.MissingCount++
			continue
		}
		switch {
		case x == 0:
			c.ZeroCount++
		case x < 0:
			c.NegativeCount++
		}
		distinct[x] = struct{}{}
	}
	c.IsConstant = len(distinct) == 1
	return c, nil
}
