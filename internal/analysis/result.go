package analysis

import (
	"encoding/json"
	"errors"
)

// Check names used in results and metrics
const (
	CheckDuplicates = "duplicates"
	CheckOutliers   = "outliers"
	CheckJumps      = "jumps"
)

// ResultKind tags the variant held by a Result
type ResultKind string

const (
	ResultFindings   ResultKind = "findings"
	ResultNoFindings ResultKind = "no_findings"
	ResultError      ResultKind = "error"
)

// ErrorKind classifies why a check could not run
type ErrorKind string

const (
	ErrorColumnNotFound   ErrorKind = "column_not_found"
	ErrorColumnNotNumeric ErrorKind = "column_not_numeric"
	ErrorMissingDate      ErrorKind = "missing_date"
	ErrorInvalidInput     ErrorKind = "invalid_input"
)

// Result is the outcome of a record-producing quality check.
// Exactly one of Records (findings), Message (no findings) or Err (error)
// is meaningful, as selected by Kind.
type Result struct {
	Check   string
	Column  string
	Kind    ResultKind
	Records *Table
	Message string
	Context map[string]float64
	ErrKind ErrorKind
	Err     error
}

// NewFindings wraps the offending records of a check
func NewFindings(check, column string, records *Table, context map[string]float64) Result {
	return Result{
		Check:   check,
		Column:  column,
		Kind:    ResultFindings,
		Records: records,
		Context: context,
	}
}

// NewNoFindings reports that the check ran and found nothing
func NewNoFindings(check, column, message string, context map[string]float64) Result {
	return Result{
		Check:   check,
		Column:  column,
		Kind:    ResultNoFindings,
		Message: message,
		Context: context,
	}
}

// NewFailure reports that the check could not run
func NewFailure(check, column string, err error) Result {
	return Result{
		Check:   check,
		Column:  column,
		Kind:    ResultError,
		Message: err.Error(),
		ErrKind: classify(err),
		Err:     err,
	}
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrColumnNotFound):
		return ErrorColumnNotFound
	case errors.Is(err, ErrColumnNotNumeric):
		return ErrorColumnNotNumeric
	case errors.Is(err, ErrMissingDate):
		return ErrorMissingDate
	default:
		return ErrorInvalidInput
	}
}

// IsFindings reports whether records were found
func (r Result) IsFindings() bool { return r.Kind == ResultFindings }

// IsNoFindings reports whether the check ran cleanly and found nothing
func (r Result) IsNoFindings() bool { return r.Kind == ResultNoFindings }

// IsError reports whether the check failed to run
func (r Result) IsError() bool { return r.Kind == ResultError }

// Count returns the number of offending records, zero unless IsFindings.
func (r Result) Count() int {
	if r.Kind != ResultFindings {
		return 0
	}
	return r.Records.Len()
}

type resultError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// MarshalJSON encodes only the fields that belong to the variant
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Check   string             `json:"check"`
		Column  string             `json:"column"`
		Kind    ResultKind         `json:"kind"`
		Count   int                `json:"count"`
		Records *Table             `json:"records,omitempty"`
		Message string             `json:"message,omitempty"`
		Context map[string]float64 `json:"context,omitempty"`
		Error   *resultError       `json:"error,omitempty"`
	}{
		Check:   r.Check,
		Column:  r.Column,
		Kind:    r.Kind,
		Count:   r.Count(),
		Context: r.Context,
	}

	switch r.Kind {
	case ResultFindings:
		out.Records = r.Records
	case ResultNoFindings:
		out.Message = r.Message
	case ResultError:
		out.Error = &resultError{Kind: r.ErrKind, Message: r.Message}
	}
	return json.Marshal(out)
}
