package exporter

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"tsquality/internal/analysis"
)

// ReportTitle heads every text report
const ReportTitle = "Data Quality Analysis Report"

// ReportInput carries everything printed in a text report
type ReportInput struct {
	FileName     string
	GeneratedAt  time.Time
	Overview     analysis.Overview
	Missing      analysis.MissingReport
	Column       string
	Distribution *analysis.Distribution
}

// WriteReport writes a plain-text summary: dataset shape, date range,
// columns, missing values and the distribution of the selected column.
// Undefined statistics are printed as "undefined".
func WriteReport(w io.Writer, in ReportInput) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, ReportTitle)
	fmt.Fprintln(bw, strings.Repeat("=", len(ReportTitle)))
	fmt.Fprintln(bw)

	if in.FileName != "" {
		fmt.Fprintf(bw, "Source: %s\n", in.FileName)
	}
	if !in.GeneratedAt.IsZero() {
		fmt.Fprintf(bw, "Generated: %s\n", in.GeneratedAt.UTC().Format(time.RFC3339))
	}
	if in.FileName != "" || !in.GeneratedAt.IsZero() {
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, "Dataset Information:")
	fmt.Fprintf(bw, "- Shape: (%d, %d)\n", in.Overview.Rows, in.Overview.Columns)
	if r := in.Overview.DateRange; r != nil {
		layout := analysis.DateLayout
		if !isMidnight(r.Start) || !isMidnight(r.End) {
			layout = analysis.DateTimeLayout
		}
		fmt.Fprintf(bw, "- Date Range: %s to %s\n", r.Start.Format(layout), r.End.Format(layout))
	} else {
		fmt.Fprintln(bw, "- Date Range: undefined")
	}
	fmt.Fprintf(bw, "- Columns: %s\n", strings.Join(in.Overview.ColumnNames, ", "))
	fmt.Fprintf(bw, "- Memory Usage: %s MB\n", formatMegabytes(in.Overview.MemoryBytes))
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Missing Values:")
	if len(in.Missing) == 0 {
		fmt.Fprintln(bw, "No missing values")
	} else {
		tw := tabwriter.NewWriter(bw, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Column\tMissing Values\tPercentage")
		for _, m := range in.Missing {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", m.Column, m.Count, formatPercent(m.Percentage))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	fmt.Fprintln(bw)

	if in.Distribution != nil {
		fmt.Fprintf(bw, "Distribution Statistics for %s:\n", in.Column)
		tw := tabwriter.NewWriter(bw, 0, 0, 2, ' ', 0)
		for _, m := range in.Distribution.Measures() {
			fmt.Fprintf(tw, "%s\t%s\n", m.Name, m.Measure)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	} else if in.Column != "" {
		fmt.Fprintf(bw, "Distribution Statistics for %s:\nundefined\n", in.Column)
	}

	return bw.Flush()
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}
