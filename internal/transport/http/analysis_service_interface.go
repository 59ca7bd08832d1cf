package http

import (
	"context"
	"io"

	"tsquality/internal/services"
	"tsquality/pkg/contracts"
	"tsquality/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the analysis operations the handler needs
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, up services.Upload, params domain.AnalysisParams) (*services.Analysis, error)
	ValidateUpload(ctx context.Context, up services.Upload) (domain.ValidationResult, error)
	ExportCSV(ctx context.Context, up services.Upload, w io.Writer) error
	ExportXLSX(ctx context.Context, up services.Upload, w io.Writer) error
	ExportReport(ctx context.Context, up services.Upload, params domain.AnalysisParams, w io.Writer) error
	Defaults() domain.AnalysisDefaults
}

// HealthServiceInterface defines the health operations the handler needs
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() contracts.VersionInfo
}
