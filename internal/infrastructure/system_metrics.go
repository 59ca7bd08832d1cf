package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// SystemStats holds a snapshot of runtime statistics
type SystemStats struct {
	GoRoutines    int           `json:"goroutines"`
	MemoryUsage   uint64        `json:"memory_usage_bytes"`
	MemorySystem  uint64        `json:"memory_system_bytes"`
	GCCount       uint32        `json:"gc_count"`
	CPUCount      int           `json:"cpu_count"`
	ProcessUptime time.Duration `json:"uptime_ns"`
	Timestamp     time.Time     `json:"timestamp"`
}

// SystemMetrics samples the Go runtime and records the samples as gauges
type SystemMetrics struct {
	startTime   time.Time
	goRoutines  metric.Int64Gauge
	memoryUsage metric.Int64Gauge
	uptime      metric.Float64Gauge
}

// NewSystemMetrics creates a sampler whose uptime counts from startTime
func NewSystemMetrics(meter metric.Meter, startTime time.Time) (*SystemMetrics, error) {
	if meter == nil {
		meter = otel.Meter(MeterName)
	}

	goRoutines, err := meter.Int64Gauge("system_goroutines",
		metric.WithDescription("Number of active goroutines"))
	if err != nil {
		return nil, err
	}
	memoryUsage, err := meter.Int64Gauge("system_memory_usage_bytes",
		metric.WithDescription("Heap bytes in use"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}
	uptime, err := meter.Float64Gauge("system_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &SystemMetrics{
		startTime:   startTime,
		goRoutines:  goRoutines,
		memoryUsage: memoryUsage,
		uptime:      uptime,
	}, nil
}

// Collect samples the runtime and records the gauges
func (sm *SystemMetrics) Collect(ctx context.Context) SystemStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := SystemStats{
		GoRoutines:    runtime.NumGoroutine(),
		MemoryUsage:   memStats.Alloc,
		MemorySystem:  memStats.Sys,
		GCCount:       memStats.NumGC,
		CPUCount:      runtime.NumCPU(),
		ProcessUptime: time.Since(sm.startTime),
		Timestamp:     time.Now(),
	}

	sm.goRoutines.Record(ctx, int64(stats.GoRoutines))
	sm.memoryUsage.Record(ctx, int64(stats.MemoryUsage))
	sm.uptime.Record(ctx, stats.ProcessUptime.Seconds())

	return stats
}
