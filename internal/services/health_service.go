package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/SuperSnake427/DosecheckDashboard/internal/config"
)

// BuildReporter exposes the outcome of the last dashboard build.
type BuildReporter interface {
	SourceID() string
	LastBuild() BuildStatus
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	repoURL   string
	buildTime string
	paths     config.PathsConfig
	builds    BuildReporter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a new health service. builds may be nil, in which
// case readiness ignores the dashboard pipeline.
func NewHealthService(version, repoURL, buildTime string, paths config.PathsConfig, builds BuildReporter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("repo_url", repoURL),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		repoURL:   repoURL,
		buildTime: buildTime,
		paths:     paths,
		builds:    builds,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status. The service is ready when the
// exports directory is usable and the last dashboard build, if any, succeeded.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["dashboard"] = hs.checkDashboardHealth()
	status.Services["exports"] = hs.checkExportsHealth()

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	if status.Status != "ready" {
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready", slog.Any("services", status.Services))
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"repo_url":     hs.repoURL,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

// checkDashboardHealth reports the outcome of the most recent build. A
// service that has not built yet is ready; the first request builds lazily.
func (hs *HealthService) checkDashboardHealth() ServiceHealth {
	if hs.builds == nil {
		return ServiceHealth{Status: "ready", Message: "dashboard pipeline not attached"}
	}

	last := hs.builds.LastBuild()
	switch {
	case last.At.IsZero():
		return ServiceHealth{
			Status:  "ready",
			Message: fmt.Sprintf("no build yet for %s", hs.builds.SourceID()),
		}
	case last.Err != nil:
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("last build failed: %v", last.Err),
		}
	default:
		return ServiceHealth{
			Status:  "ready",
			Message: fmt.Sprintf("snapshot %s built %s ago", last.SnapshotID, time.Since(last.At).Round(time.Second)),
			Uptime:  time.Since(hs.startTime).String(),
		}
	}
}

// checkExportsHealth checks the exports directory can be created
func (hs *HealthService) checkExportsHealth() ServiceHealth {
	dir := hs.paths.ExportsDir
	if dir == "" {
		return ServiceHealth{Status: "ready", Message: "exports are streamed"}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Cannot create exports directory: %v", err),
		}
	}
	return ServiceHealth{Status: "ready", Message: "exports directory is writable"}
}
