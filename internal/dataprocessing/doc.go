// Package dataprocessing reads uploaded price files into analysis tables.
//
// # Formats
//
// Three inputs are accepted, selected by file extension:
//
//	.csv, .txt  comma separated, first line is the header
//	.xlsx       first worksheet, first row is the header
//
// # Cell inference
//
// Every cell is trimmed and classified independently. The usual spellings of
// a missing value (empty, NA, N/A, NaN, null, None, #N/A and friends) become
// null, finite numbers become numbers, and everything else is kept as text.
// The Date column is left as text here and parsed by analysis.Preprocess;
// Excel serial dates in that column are converted while reading the workbook.
//
// # Usage
//
//	table, err := dataprocessing.ParseFile("prices.csv")
//	if err != nil {
//	    return err
//	}
//	if err := analysis.Validate(table); err != nil {
//	    return err
//	}
//
// # Errors
//
// ErrUnsupportedFormat is returned for unknown extensions and
// ErrMalformedInput for unreadable content, including data rows with more
// fields than the header. Short rows are padded with nulls.
package dataprocessing
