package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tsquality/internal/analysis"
	"tsquality/internal/infrastructure"
	"tsquality/pkg/contracts/domain"
)

type analyzeOptions struct {
	file     string
	column   string
	iqr      float64
	jump     float64
	window   int
	baseline string
	out      string
	report   string
	json     bool
}

func newAnalyzeCmd(e *env) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run every quality check on a price file",
		Long: `Run the full check suite over one numeric column. Unset parameters
fall back to the configured defaults. Checks that cannot run on the
selected column are listed under errors while the rest still run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, e, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "Input file (.csv, .txt or .xlsx)")
	f.StringVarP(&opts.column, "column", "c", "", "Numeric column to analyze (default: first numeric column)")
	f.Float64Var(&opts.iqr, "iqr", 0, "IQR multiplier for outlier fences, 1.0 to 3.0")
	f.Float64Var(&opts.jump, "jump", 0, "Day-over-day change flagged as a jump, 0.05 to 0.50")
	f.IntVar(&opts.window, "window", 0, "Moving-average window, 5 to 100")
	f.StringVar(&opts.baseline, "baseline", "", "Trend baseline before the window fills: downward or none")
	f.StringVar(&opts.out, "out", "", "Write the processed table as CSV to this path")
	f.StringVar(&opts.report, "report", "", "Write the text report to this path")
	f.BoolVar(&opts.json, "json", false, "Print the full report as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runAnalyze(cmd *cobra.Command, e *env, opts analyzeOptions) error {
	svc, err := e.service()
	if err != nil {
		return err
	}
	ctx := infrastructure.EnsureTraceID(cmd.Context())

	raw, err := svc.LoadFile(ctx, opts.file)
	if err != nil {
		return err
	}

	a, err := svc.Run(ctx, filepath.Base(opts.file), raw, domain.AnalysisParams{
		Column:        opts.column,
		IQRMultiplier: opts.iqr,
		JumpThreshold: opts.jump,
		MAWindow:      opts.window,
		TrendBaseline: opts.baseline,
	})
	if err != nil {
		return err
	}

	if opts.out != "" {
		path, err := filepath.Abs(opts.out)
		if err != nil {
			return err
		}
		if _, err := svc.WriteCSVFile(ctx, a.Table, path); err != nil {
			return err
		}
	}
	if opts.report != "" {
		path, err := filepath.Abs(opts.report)
		if err != nil {
			return err
		}
		if err := svc.WriteReportFile(ctx, a, path); err != nil {
			return err
		}
	}

	if opts.json {
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(a.Report)
	}
	return printSummary(e, a.Report)
}

// printSummary writes a one-line-per-check overview of a report
func printSummary(e *env, r *domain.AnalysisReport) error {
	fmt.Fprintf(e.out, "File:    %s\n", r.FileName)
	fmt.Fprintf(e.out, "Shape:   %d rows x %d columns\n", r.Overview.Rows, r.Overview.Columns)
	if dr := r.Overview.DateRange; dr != nil {
		fmt.Fprintf(e.out, "Dates:   %s to %s\n", dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))
	}
	fmt.Fprintf(e.out, "Column:  %s\n\n", r.Params.Column)

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tRESULT\tCOUNT")
	for _, res := range []analysis.Result{r.Duplicates, r.Outliers, r.Jumps} {
		fmt.Fprintf(w, "%s\t%s\t%d\n", res.Check, res.Kind, res.Count())
	}
	missing := 0
	for _, mc := range r.Missing {
		missing += mc.Count
	}
	fmt.Fprintf(w, "missing\t%d columns\t%d\n", len(r.Missing), missing)
	if r.Trends != nil {
		fmt.Fprintf(w, "trends\t%s\t%d\n", r.Trends.Baseline, r.Trends.Len())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if r.HasErrors() {
		fmt.Fprintln(e.out, "\nErrors:")
		for _, ce := range r.Errors {
			fmt.Fprintf(e.out, "  %s: %s\n", ce.Check, ce.Message)
		}
	}
	return nil
}
