package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"tsquality/internal/config"
	"tsquality/internal/infrastructure"
	"tsquality/pkg/contracts"
)

// DirectoryChecker verifies that a directory exists and is writable
type DirectoryChecker interface {
	ValidateOutputDirectory(dir string) error
}

// HealthService provides health check functionality
type HealthService struct {
	paths     *config.Paths
	dirs      DirectoryChecker
	system    *infrastructure.SystemMetrics
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   *RuntimeInfo             `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// RuntimeInfo is the liveness view of the process
type RuntimeInfo struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	GoVersion     string  `json:"go_version"`
	Goroutines    int     `json:"goroutines"`
	MemoryBytes   uint64  `json:"memory_bytes"`
	GCCount       uint32  `json:"gc_count"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health states
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// NewHealthService creates a new health service. system may be nil, in
// which case liveness reports runtime figures without recording gauges.
func NewHealthService(paths *config.Paths, dirs DirectoryChecker, system *infrastructure.SystemMetrics, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	startTime := time.Now()
	if system == nil {
		system, _ = infrastructure.NewSystemMetrics(nil, startTime)
	}

	logger.Info("HealthService initialized",
		slog.String("version", contracts.Version))

	return &HealthService{
		paths:     paths,
		dirs:      dirs,
		system:    system,
		startTime: startTime,
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   contracts.Version,
	}
}

// ReadinessCheck reports whether the exports directory can take output
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services: map[string]ServiceHealth{
			"analysis": {Status: StatusReady, Message: "Analysis engine is loaded"},
			"exports":  hs.checkExports(),
		},
	}

	for name, service := range status.Services {
		if service.Status != StatusReady {
			status.Status = StatusNotReady
			hs.logger.WarnContext(ctx, "service not ready",
				slog.String("service", name),
				slog.String("message", service.Message))
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	stats := hs.system.Collect(ctx)
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: stats.Timestamp,
		Version:   contracts.Version,
		Runtime: &RuntimeInfo{
			UptimeSeconds: stats.ProcessUptime.Seconds(),
			GoVersion:     runtime.Version(),
			Goroutines:    stats.GoRoutines,
			MemoryBytes:   stats.MemoryUsage,
			GCCount:       stats.GCCount,
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

func (hs *HealthService) checkExports() ServiceHealth {
	if hs.paths == nil || hs.dirs == nil {
		return ServiceHealth{Status: StatusReady, Message: "Exports are streamed to the client"}
	}
	if err := hs.dirs.ValidateOutputDirectory(hs.paths.ExportsDir); err != nil {
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: fmt.Sprintf("Exports directory unavailable: %v", err),
		}
	}
	return ServiceHealth{Status: StatusReady, Message: "Exports directory is writable"}
}
