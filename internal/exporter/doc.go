// Package exporter writes processed tables and analysis reports.
//
// Three outputs are supported:
//
// WriteTableCSV: the canonical table as CSV with an optional UTF-8 BOM for
// Excel. Dates are written date-only when every value in the column is at
// midnight. A CSV export read back with dataprocessing.ParseCSV validates
// and preprocesses to the same rows in the same order.
//
// WriteTableXLSX: the same table as a single-sheet workbook.
//
// WriteReport: a plain-text "Data Quality Analysis Report".
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	path, err := writer.WriteTableFile("processed_data.csv", table, exporter.CSVOptions{BOM: true})
package exporter
