// Package analysis implements the data-quality engine for dated financial
// time series.
//
// The engine works on a single in-memory Table per call. A raw table coming
// from an upload is first checked with Validate and then normalized with
// Preprocess into canonical form: the Date column holds parsed dates and rows
// are sorted ascending by Date. Every other function in this package takes
// the canonical table and a target column and returns a new, independent
// result without touching its input.
//
// # Components
//
//   - validate.go: structural checks on a raw table
//   - preprocess.go: date parsing, stable sort, dense row identity
//   - missing.go: per-column missing value counts
//   - duplicates.go: rows sharing a Date value
//   - outliers.go: IQR fences with linearly interpolated quartiles
//   - jumps.go: row-over-row percentage change above a threshold
//   - consistency.go: zero, negative, constant and missing counts
//   - distribution.go: descriptive statistics over non-missing values
//   - trends.go: rolling mean, rolling std and trend labels
//
// # Results
//
// Quality checks that produce records return a Result, a tagged value with
// three variants:
//
//	ResultFindings    offending records in Result.Records
//	ResultNoFindings  nothing found, Result.Message explains what was checked
//	ResultError       the check could not run, Result.Err says why
//
// A missing column is reported per check and never stops the other checks.
// Structural problems with the table itself surface as *StructuralError from
// Validate and Preprocess, before any check runs.
//
// # Usage
//
//	if err := analysis.Validate(raw); err != nil {
//	    return err
//	}
//	table, err := analysis.Preprocess(raw)
//	if err != nil {
//	    return err
//	}
//	outliers := analysis.DetectOutliers(table, "Close", 1.5)
//	switch outliers.Kind {
//	case analysis.ResultFindings:
//	    // render outliers.Records
//	case analysis.ResultNoFindings:
//	    // show outliers.Message
//	case analysis.ResultError:
//	    // show outliers.Err
//	}
package analysis
