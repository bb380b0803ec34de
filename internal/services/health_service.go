package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"bacicli/internal/config"
	"bacicli/pkg/contracts"
)

// ReportState is what the health service needs to know about reports
type ReportState interface {
	Latest() (*Report, error)
	Running() bool
}

// HealthService answers the health, readiness, liveness and version probes
type HealthService struct {
	build     contracts.BuildInfo
	paths     *config.Paths
	reports   ReportState
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the body of every health probe
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth is the outcome of one readiness check
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// VersionStatus is the body of GET /api/version
type VersionStatus struct {
	contracts.BuildInfo
	StartTime     time.Time `json:"start_time"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

const (
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

func ready(msg string) ServiceHealth { return ServiceHealth{Status: statusReady, Message: msg} }

func notReady(format string, args ...interface{}) ServiceHealth {
	return ServiceHealth{Status: statusNotReady, Message: fmt.Sprintf(format, args...)}
}

// NewHealthService creates a health service. reports may be nil when the
// pipeline is not wired, in which case the service never reports ready.
func NewHealthService(build contracts.BuildInfo, paths *config.Paths, reports ReportState, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		build:     build,
		paths:     paths,
		reports:   reports,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

func (hs *HealthService) status(s string) HealthStatus {
	return HealthStatus{Status: s, Timestamp: time.Now(), Version: hs.build.Version}
}

// HealthCheck answers as long as the process serves requests
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return hs.status("ok")
}

// ReadinessCheck is ready once the input directory exists, the output
// directory can be created and a report has been produced
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	checks := map[string]ServiceHealth{
		"input":  hs.checkInput(),
		"output": hs.checkOutput(),
		"report": hs.checkReport(),
	}

	status := hs.status(statusReady)
	status.Services = make(map[string]interface{}, len(checks))
	for name, check := range checks {
		status.Services[name] = check
		if check.Status != statusReady {
			status.Status = statusNotReady
		}
	}

	if status.Status != statusReady {
		hs.logger.DebugContext(ctx, "not ready", slog.Any("services", status.Services))
	}
	return status
}

// LivenessCheck reports runtime figures along with "alive"
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	status := hs.status("alive")
	status.Runtime = map[string]interface{}{
		"uptime":     time.Since(hs.startTime).Seconds(),
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
	}
	return status
}

// Version returns build details and process uptime
func (hs *HealthService) Version() VersionStatus {
	return VersionStatus{
		BuildInfo:     hs.build,
		StartTime:     hs.startTime,
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
	}
}

func (hs *HealthService) checkInput() ServiceHealth {
	if hs.paths == nil {
		return notReady("paths not configured")
	}
	if info, err := os.Stat(hs.paths.InputDir); err != nil || !info.IsDir() {
		return notReady("Input directory not found: %s", hs.paths.InputDir)
	}
	return ready("Input directory is readable")
}

func (hs *HealthService) checkOutput() ServiceHealth {
	if hs.paths == nil {
		return notReady("paths not configured")
	}
	if err := os.MkdirAll(hs.paths.OutputDir, 0755); err != nil {
		return notReady("Cannot write to output directory: %v", err)
	}
	return ready("Output directory is writable")
}

func (hs *HealthService) checkReport() ServiceHealth {
	if hs.reports == nil {
		return notReady("report pipeline not initialized")
	}

	report, err := hs.reports.Latest()
	if err != nil {
		if hs.reports.Running() {
			return notReady("First report run in progress")
		}
		return notReady("No report generated yet")
	}

	check := ready(fmt.Sprintf("Report %s completed with %d skipped analyses", report.ID, len(report.Skipped)))
	check.Uptime = time.Since(report.FinishedAt).Round(time.Second).String()
	return check
}
