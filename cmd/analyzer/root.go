package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tsquality/internal/config"
	apierrors "tsquality/internal/errors"
	"tsquality/internal/infrastructure"
	"tsquality/internal/services"
)

// env carries what every subcommand needs
type env struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
}

// newRootCmd builds the analyzer command tree writing results to out and
// logs to errOut
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	e := &env{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "analyzer",
		Short: "Data-quality analyzer for daily price series",
		Long: `analyzer checks a CSV, TXT or XLSX price table for missing values,
duplicate rows, IQR outliers, day-over-day jumps, OHLC consistency and
moving-average trends, and writes the cleaned table and a text report.

Example usage:
  analyzer analyze --file prices.csv                  # Summary on stdout
  analyzer analyze --file prices.csv --column Close   # Pick the series
  analyzer analyze --file prices.csv --json           # Full JSON report
  analyzer validate --file prices.csv                 # Structure only`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(newAnalyzeCmd(e), newValidateCmd(e), newVersionCmd(e))
	return root
}

// service wires an analysis service for one command run. Relative output
// paths resolve against the working directory.
func (e *env) service() (*services.AnalysisService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, apierrors.NewConfigError("failed to load configuration", err)
	}

	logging := cfg.Logging
	logging.Output = "console"
	if e.verbose {
		logging.Level = "debug"
	}
	logger, err := infrastructure.NewLogger(logging, e.errOut)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	slog.SetDefault(logger)

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	return services.NewAnalysisService(cfg, config.NewPaths(wd, cfg.Paths), metrics, logger), nil
}
