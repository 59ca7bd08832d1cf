package services

import "errors"

// Analysis service errors
var (
	// ErrNoFile means the request carried no upload
	ErrNoFile = errors.New("no file uploaded")
	// ErrInvalidParams wraps validator failures on AnalysisParams
	ErrInvalidParams = errors.New("invalid analysis parameters")
	// ErrUnknownFormat is returned for export formats other than csv, xlsx and report
	ErrUnknownFormat = errors.New("unknown export format")
)
