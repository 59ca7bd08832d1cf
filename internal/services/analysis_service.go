package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tsquality/internal/analysis"
	"tsquality/internal/config"
	"tsquality/internal/dataprocessing"
	apierrors "tsquality/internal/errors"
	"tsquality/internal/exporter"
	"tsquality/internal/infrastructure"
	"tsquality/internal/validation"
	"tsquality/pkg/contracts/domain"
)

// Checks run by the service in addition to the record-producing ones
const (
	CheckConsistency  = "consistency"
	CheckDistribution = "distribution"
	CheckTrends       = "trends"
)

// Export formats
const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatReport = "report"
)

// ExportFile describes the attachment produced for an export format
type ExportFile struct {
	Name        string
	ContentType string
}

var exportFiles = map[string]ExportFile{
	FormatCSV:    {Name: "processed_data.csv", ContentType: "text/csv; charset=utf-8"},
	FormatXLSX:   {Name: "processed_data.xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	FormatReport: {Name: "analysis_report.txt", ContentType: "text/plain; charset=utf-8"},
}

// ExportFileFor returns the attachment name and media type of format
func ExportFileFor(format string) (ExportFile, error) {
	f, ok := exportFiles[format]
	if !ok {
		return ExportFile{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return f, nil
}

// Parameter domains offered to clients. They mirror the validate tags on
// domain.AnalysisParams.
var (
	iqrDomain    = domain.ParamRange{Min: 1.0, Max: 3.0, Step: 0.1}
	jumpDomain   = domain.ParamRange{Min: 0.05, Max: 0.50, Step: 0.01}
	windowDomain = domain.ParamRange{Min: 5, Max: 100, Step: 1}
	baselines    = []string{string(analysis.BaselineDownward), string(analysis.BaselineNone)}
)

// Upload is one file handed to the service
type Upload struct {
	Name string
	Size int64
	Body io.Reader
}

// Analysis is a completed run: the report and the canonical table it was
// computed from
type Analysis struct {
	Report *domain.AnalysisReport
	Table  *analysis.Table
}

// AnalysisService runs the data-quality pipeline for one upload at a time.
// It holds no per-request state and is safe for concurrent use.
type AnalysisService struct {
	defaults config.AnalysisConfig
	files    *validation.FileValidator
	csv      *exporter.CSVWriter
	validate *validator.Validate
	tracer   trace.Tracer
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewAnalysisService creates the analysis service. paths locates relative
// CSV output files and metrics may be nil.
func NewAnalysisService(cfg *config.Config, paths *config.Paths, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *AnalysisService {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "analysis_service")

	v := validator.New()
	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	logger.Info("AnalysisService initialized",
		slog.Float64("iqr_multiplier", cfg.Analysis.IQRMultiplier),
		slog.Float64("jump_threshold", cfg.Analysis.JumpThreshold),
		slog.Int("ma_window", cfg.Analysis.MAWindow),
		slog.Int64("max_upload_bytes", cfg.Upload.MaxBytes()))

	return &AnalysisService{
		defaults: cfg.Analysis,
		files:    validation.NewFileValidator(logger, cfg.Upload),
		csv:      exporter.NewCSVWriter(paths),
		validate: v,
		tracer:   otel.Tracer(infrastructure.MeterName),
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Defaults returns the configuration surface: every tunable parameter with
// its domain and configured default
func (s *AnalysisService) Defaults() domain.AnalysisDefaults {
	iqr, jump, window := iqrDomain, jumpDomain, windowDomain
	iqr.Default = s.defaults.IQRMultiplier
	jump.Default = s.defaults.JumpThreshold
	window.Default = float64(s.defaults.MAWindow)

	return domain.AnalysisDefaults{
		IQRMultiplier: iqr,
		JumpThreshold: jump,
		MAWindow:      window,
		TrendBaseline: domain.ParamChoice{
			Options: baselines,
			Default: s.defaults.TrendBaseline,
		},
		AllowedExtensions: s.files.Extensions(),
		MaxUploadBytes:    s.files.MaxBytes(),
	}
}

// ResolveParams fills unset parameters from the configured defaults and
// validates the result. The column is left empty when unset; Run picks the
// first numeric column.
func (s *AnalysisService) ResolveParams(p domain.AnalysisParams) (domain.AnalysisParams, error) {
	if p.IQRMultiplier == 0 {
		p.IQRMultiplier = s.defaults.IQRMultiplier
	}
	if p.JumpThreshold == 0 {
		p.JumpThreshold = s.defaults.JumpThreshold
	}
	if p.MAWindow == 0 {
		p.MAWindow = s.defaults.MAWindow
	}
	if p.TrendBaseline == "" {
		p.TrendBaseline = s.defaults.TrendBaseline
	}
	p.Column = strings.TrimSpace(p.Column)

	if err := s.validate.Struct(p); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return p, nil
}

// Load checks an upload against the configured limits and parses it into a
// raw table
func (s *AnalysisService) Load(ctx context.Context, up Upload) (*analysis.Table, error) {
	if up.Body == nil || up.Name == "" {
		return nil, ErrNoFile
	}
	if err := s.files.ValidateUpload(up.Name, up.Size); err != nil {
		return nil, err
	}
	infrastructure.RecordUpload(ctx, s.metrics, up.Size)

	return s.parse(ctx, up.Name, func() (*analysis.Table, error) {
		return dataprocessing.Parse(up.Name, up.Body)
	})
}

// LoadFile is Load for a file on disk
func (s *AnalysisService) LoadFile(ctx context.Context, path string) (*analysis.Table, error) {
	if err := s.files.ValidateFile(path); err != nil {
		return nil, err
	}
	return s.parse(ctx, filepath.Base(path), func() (*analysis.Table, error) {
		return dataprocessing.ParseFile(path)
	})
}

func (s *AnalysisService) parse(ctx context.Context, name string, fn func() (*analysis.Table, error)) (*analysis.Table, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.parse",
		trace.WithAttributes(attribute.String("file.name", name)))
	defer span.End()

	raw, err := fn()
	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(s.logger, err).WarnContext(ctx, "failed to parse upload",
			slog.String("file_name", name))
		return nil, apierrors.NewParsingError(fmt.Sprintf("failed to parse %s", name), err).
			WithContext("file_name", name)
	}

	span.SetAttributes(
		attribute.Int("table.rows", raw.Len()),
		attribute.Int("table.columns", raw.Width()))
	return raw, nil
}

// Validate runs the structural checks on a raw table. A failure is returned
// both in the result and as the *analysis.StructuralError.
func (s *AnalysisService) Validate(ctx context.Context, raw *analysis.Table) (domain.ValidationResult, error) {
	err := analysis.Validate(raw)
	result := domain.ValidationResult{
		Valid:   err == nil,
		Message: analysis.ValidationMessage(err),
	}

	var structural *analysis.StructuralError
	if errors.As(err, &structural) {
		result.Reason = string(structural.Reason)
		infrastructure.RecordValidationFailure(ctx, s.metrics, result.Reason)
		s.logger.InfoContext(ctx, "table failed validation",
			slog.String("reason", result.Reason),
			slog.Int("rows", raw.Len()))
	}
	return result, err
}

// ValidateUpload parses an upload and validates its structure
func (s *AnalysisService) ValidateUpload(ctx context.Context, up Upload) (domain.ValidationResult, error) {
	raw, err := s.Load(ctx, up)
	if err != nil {
		return domain.ValidationResult{Valid: false, Message: err.Error()}, err
	}
	return s.Validate(ctx, raw)
}

// Prepare validates a raw table and returns its canonical form
func (s *AnalysisService) Prepare(ctx context.Context, raw *analysis.Table) (*analysis.Table, error) {
	if _, err := s.Validate(ctx, raw); err != nil {
		return nil, err
	}
	return analysis.Preprocess(raw)
}

// Analyze loads an upload and runs every check on it
func (s *AnalysisService) Analyze(ctx context.Context, up Upload, params domain.AnalysisParams) (*Analysis, error) {
	params, err := s.ResolveParams(params)
	if err != nil {
		return nil, err
	}
	raw, err := s.Load(ctx, up)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, up.Name, raw, params)
}

// Run validates and preprocesses raw, then runs every check over the
// selected column. A structural failure halts the run; a check that cannot
// run on the column is recorded in the report and the others still run.
func (s *AnalysisService) Run(ctx context.Context, fileName string, raw *analysis.Table, params domain.AnalysisParams) (result *Analysis, err error) {
	params, err = s.ResolveParams(params)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "analysis.run",
		trace.WithAttributes(
			attribute.String("file.name", fileName),
			attribute.Int("table.rows", raw.Len()),
		))
	defer span.End()

	start := time.Now()
	defer func() {
		rows := 0
		if result != nil {
			rows = result.Table.Len()
		}
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
		infrastructure.RecordAnalysisMetrics(ctx, s.metrics, params.Column, rows, time.Since(start), err)
	}()

	table, err := s.Prepare(ctx, raw)
	if err != nil {
		return nil, err
	}

	column := params.Column
	if column == "" {
		if numeric := table.NumericColumns(); len(numeric) > 0 {
			column = numeric[0]
		}
	}
	params.Column = column
	span.SetAttributes(attribute.String("analysis.column", column))

	policy, err := analysis.ParseBaselinePolicy(params.TrendBaseline)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	report := &domain.AnalysisReport{
		ID:          uuid.New().String(),
		FileName:    fileName,
		GeneratedAt: s.now().UTC(),
		Params:      params,
		Validation: domain.ValidationResult{
			Valid:   true,
			Message: analysis.ValidationSuccessful,
		},
		Overview: analysis.Summarize(table),
		Missing:  analysis.CheckMissing(table),
	}

	s.observe(ctx, report, analysis.CheckDuplicates, column, func() (string, int, error) {
		report.Duplicates = analysis.DetectDuplicates(table)
		return resultOutcome(report.Duplicates)
	})
	s.observe(ctx, report, analysis.CheckOutliers, column, func() (string, int, error) {
		report.Outliers = analysis.DetectOutliers(table, column, params.IQRMultiplier)
		return resultOutcome(report.Outliers)
	})
	s.observe(ctx, report, analysis.CheckJumps, column, func() (string, int, error) {
		report.Jumps = analysis.DetectJumps(table, column, params.JumpThreshold)
		return resultOutcome(report.Jumps)
	})
	s.observe(ctx, report, CheckConsistency, column, func() (string, int, error) {
		c, err := analysis.CheckConsistency(table, column)
		if err != nil {
			return string(analysis.ResultError), 0, err
		}
		report.Consistency = &c
		return outcomeOK, c.ZeroCount + c.NegativeCount, nil
	})
	s.observe(ctx, report, CheckDistribution, column, func() (string, int, error) {
		d, err := analysis.AnalyzeDistribution(table, column)
		if err != nil {
			return string(analysis.ResultError), 0, err
		}
		report.Distribution = &d
		return outcomeOK, 0, nil
	})
	s.observe(ctx, report, CheckTrends, column, func() (string, int, error) {
		tt, err := analysis.DetectTrends(table, column, params.MAWindow, analysis.WithBaseline(policy))
		if err != nil {
			return string(analysis.ResultError), 0, err
		}
		report.Trends = tt
		return outcomeOK, 0, nil
	})

	s.logger.InfoContext(ctx, "analysis completed",
		slog.String("report_id", report.ID),
		slog.String("file_name", fileName),
		slog.String("column", column),
		slog.Int("rows", table.Len()),
		slog.Int("duplicates", report.Duplicates.Count()),
		slog.Int("outliers", report.Outliers.Count()),
		slog.Int("jumps", report.Jumps.Count()),
		slog.Int("check_errors", len(report.Errors)),
		slog.Duration("duration", time.Since(start)))

	return &Analysis{Report: report, Table: table}, nil
}

const outcomeOK = "ok"

func resultOutcome(r analysis.Result) (string, int, error) {
	return string(r.Kind), r.Count(), r.Err
}

// observe runs one check inside its own span and records the outcome. A
// failed check becomes an entry in report.Errors.
func (s *AnalysisService) observe(ctx context.Context, report *domain.AnalysisReport, check, column string, fn func() (string, int, error)) {
	ctx, span := s.tracer.Start(ctx, "analysis.check."+check,
		trace.WithAttributes(
			attribute.String("analysis.check", check),
			attribute.String("analysis.column", column),
		))
	defer span.End()

	kind, flagged, err := fn()
	span.SetAttributes(
		attribute.String("analysis.outcome", kind),
		attribute.Int("analysis.flagged", flagged),
	)
	infrastructure.RecordCheckResult(ctx, s.metrics, check, kind, flagged)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		failure := analysis.NewFailure(check, column, err)
		report.Errors = append(report.Errors, domain.CheckError{
			Check:   check,
			Column:  column,
			Kind:    string(failure.ErrKind),
			Message: failure.Message,
		})
		s.logger.DebugContext(ctx, "check could not run",
			slog.String("check", check),
			slog.String("column", column),
			slog.String("error", err.Error()))
	}
}

// ExportCSV writes the canonical table of an upload as CSV
func (s *AnalysisService) ExportCSV(ctx context.Context, up Upload, w io.Writer) error {
	table, err := s.prepareUpload(ctx, up)
	if err != nil {
		return err
	}
	if err := exporter.WriteTableCSV(w, table, exporter.CSVOptions{}); err != nil {
		return exportError(FormatCSV, err)
	}
	infrastructure.RecordExport(ctx, s.metrics, FormatCSV)
	return nil
}

// ExportXLSX writes the canonical table of an upload as an Excel workbook
func (s *AnalysisService) ExportXLSX(ctx context.Context, up Upload, w io.Writer) error {
	table, err := s.prepareUpload(ctx, up)
	if err != nil {
		return err
	}
	if err := exporter.WriteTableXLSX(w, table); err != nil {
		return exportError(FormatXLSX, err)
	}
	infrastructure.RecordExport(ctx, s.metrics, FormatXLSX)
	return nil
}

// ExportReport analyzes an upload and writes the plain-text report
func (s *AnalysisService) ExportReport(ctx context.Context, up Upload, params domain.AnalysisParams, w io.Writer) error {
	a, err := s.Analyze(ctx, up, params)
	if err != nil {
		return err
	}
	if err := s.WriteReport(ctx, a, w); err != nil {
		return err
	}
	return nil
}

// WriteReport writes the plain-text report of a completed run
func (s *AnalysisService) WriteReport(ctx context.Context, a *Analysis, w io.Writer) error {
	err := exporter.WriteReport(w, exporter.ReportInput{
		FileName:     a.Report.FileName,
		GeneratedAt:  a.Report.GeneratedAt,
		Overview:     a.Report.Overview,
		Missing:      a.Report.Missing,
		Column:       a.Report.Params.Column,
		Distribution: a.Report.Distribution,
	})
	if err != nil {
		return exportError(FormatReport, err)
	}
	infrastructure.RecordExport(ctx, s.metrics, FormatReport)
	return nil
}

// WriteCSVFile writes a canonical table to path. Relative paths land in
// the exports directory. It returns the path written.
func (s *AnalysisService) WriteCSVFile(ctx context.Context, table *analysis.Table, path string) (string, error) {
	written, err := s.csv.WriteTableFile(path, table, exporter.CSVOptions{})
	if err != nil {
		return "", exportError(FormatCSV, err)
	}
	infrastructure.RecordExport(ctx, s.metrics, FormatCSV)
	return written, nil
}

// WriteReportFile writes the report of a completed run to path
func (s *AnalysisService) WriteReportFile(ctx context.Context, a *Analysis, path string) error {
	if err := s.files.ValidateOutputDirectory(filepath.Dir(path)); err != nil {
		return exportError(FormatReport, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return exportError(FormatReport, err)
	}
	if err := s.WriteReport(ctx, a, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return exportError(FormatReport, err)
	}
	return nil
}

func (s *AnalysisService) prepareUpload(ctx context.Context, up Upload) (*analysis.Table, error) {
	raw, err := s.Load(ctx, up)
	if err != nil {
		return nil, err
	}
	return s.Prepare(ctx, raw)
}

func exportError(format string, err error) error {
	return apierrors.NewStorageError(fmt.Sprintf("failed to write %s export", format), err).
		WithContext("format", format)
}
