package analysis

import (
	"errors"
	"fmt"
)

var (
	ErrColumnNotFound   = errors.New("column not found")
	ErrColumnNotNumeric = errors.New("column is not numeric")
	ErrMissingDate      = errors.New("no Date column found in the table")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidWindow    = errors.New("window must be at least 1")
)

// Reason classifies a structural validation failure
type Reason string

const (
	ReasonEmpty       Reason = "empty_file"
	ReasonMissingDate Reason = "missing_date_column"
	ReasonInvalidDate Reason = "invalid_date_format"
	ReasonNoNumeric   Reason = "no_numeric_column"
)

var reasonMessages = map[Reason]string{
	ReasonEmpty:       "The uploaded file is empty",
	ReasonMissingDate: "The file must contain a 'Date' column",
	ReasonInvalidDate: "The 'Date' column contains invalid date formats",
	ReasonNoNumeric:   "The file must contain at least one numeric column",
}

// StructuralError means the table cannot be analyzed at all.
// It halts the pipeline before any check runs.
type StructuralError struct {
	Reason  Reason
	Message string
}

func newStructuralError(reason Reason) *StructuralError {
	return &StructuralError{Reason: reason, Message: reasonMessages[reason]}
}

// Error implements the error interface
func (e *StructuralError) Error() string {
	return e.Message
}

// ColumnError reports a problem with the requested target column.
type ColumnError struct {
	Column string
	Err    error
}

// Error implements the error interface
func (e *ColumnError) Error() string {
	switch {
	case errors.Is(e.Err, ErrColumnNotFound):
		return fmt.Sprintf("Column '%s' not found in table", e.Column)
	case errors.Is(e.Err, ErrColumnNotNumeric):
		return fmt.Sprintf("Column '%s' is not numeric", e.Column)
	default:
		return fmt.Sprintf("column '%s': %v", e.Column, e.Err)
	}
}

// Unwrap returns the underlying sentinel
func (e *ColumnError) Unwrap() error {
	return e.Err
}
