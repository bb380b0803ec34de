package services

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bacicli/internal/config"
	"bacicli/internal/shared/testutil"
	"bacicli/pkg/contracts"
)

// MockReportState implements ReportState for health checks
type MockReportState struct {
	mock.Mock
}

func (m *MockReportState) Latest() (*Report, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Report), args.Error(1)
}

func (m *MockReportState) Running() bool {
	return m.Called().Bool(0)
}

func healthPaths(t *testing.T, withInput bool) *config.Paths {
	t.Helper()
	base := t.TempDir()
	paths, err := config.ResolvePaths(config.PathsConfig{BaseDir: base})
	require.NoError(t, err)
	if withInput {
		fixture := testutil.NewBACIFixture(t)
		paths.InputDir = fixture.Dir
	} else {
		paths.InputDir = filepath.Join(base, "missing")
	}
	return paths
}

func TestHealthService(t *testing.T) {
	t.Run("Health_Check_Basic", func(t *testing.T) {
		hs := NewHealthService(contracts.BuildInfo{Version: "1.2.0"}, nil, nil, nil)
		status := hs.HealthCheck(context.Background())
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, "1.2.0", status.Version)
		assert.WithinDuration(t, time.Now(), status.Timestamp, time.Second)
	})

	t.Run("Liveness_Check", func(t *testing.T) {
		hs := NewHealthService(contracts.BuildInfo{Version: "1.2.0"}, nil, nil, nil)
		status := hs.LivenessCheck(context.Background())
		assert.Equal(t, "alive", status.Status)
		assert.Contains(t, status.Runtime, "goroutines")
		assert.Contains(t, status.Runtime, "go_version")
	})

	t.Run("Version_Information", func(t *testing.T) {
		build := contracts.BuildInfo{Version: "1.2.0", BuildTime: "2026-01-02T03:04:05Z", DataRelease: "V202401"}
		v := NewHealthService(build, nil, nil, nil).Version()
		assert.Equal(t, "1.2.0", v.Version)
		assert.Equal(t, "2026-01-02T03:04:05Z", v.BuildTime)
		assert.GreaterOrEqual(t, v.UptimeSeconds, 0.0)

		data, err := json.Marshal(NewHealthService(contracts.BuildInfo{Version: "1.2.0"}, nil, nil, nil).Version())
		require.NoError(t, err)
		assert.NotContains(t, string(data), "build_time")
		assert.Contains(t, string(data), `"version":"1.2.0"`)
	})
}

func TestReadinessCheck(t *testing.T) {
	completed := &Report{ID: "r1", Status: ReportStatusCompleted, FinishedAt: time.Now()}

	tests := []struct {
		name       string
		withInput  bool
		setup      func(m *MockReportState)
		wantStatus string
		wantReport string
	}{
		{
			name:      "ready_after_first_report",
			withInput: true,
			setup: func(m *MockReportState) {
				m.On("Latest").Return(completed, nil)
			},
			wantStatus: "ready",
			wantReport: "ready",
		},
		{
			name:      "not_ready_while_first_run_in_progress",
			withInput: true,
			setup: func(m *MockReportState) {
				m.On("Latest").Return(nil, ErrReportNotReady)
				m.On("Running").Return(true)
			},
			wantStatus: "not_ready",
			wantReport: "not_ready",
		},
		{
			name:      "not_ready_without_input",
			withInput: false,
			setup: func(m *MockReportState) {
				m.On("Latest").Return(completed, nil)
			},
			wantStatus: "not_ready",
			wantReport: "ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := &MockReportState{}
			tt.setup(reports)
			logger, _ := testutil.NewTestLogger(t)

			hs := NewHealthService(contracts.BuildInfo{Version: "1.0.0"}, healthPaths(t, tt.withInput), reports, logger)
			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			report, ok := status.Services["report"].(ServiceHealth)
			require.True(t, ok)
			assert.Equal(t, tt.wantReport, report.Status)
			assert.Equal(t, "ready", status.Services["output"].(ServiceHealth).Status)
			reports.AssertExpectations(t)
		})
	}

	t.Run("not_ready_without_pipeline", func(t *testing.T) {
		hs := NewHealthService(contracts.BuildInfo{Version: "1.0.0"}, healthPaths(t, true), nil, nil)
		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, "not_ready", status.Status)
		assert.Equal(t, "report pipeline not initialized", status.Services["report"].(ServiceHealth).Message)
	})
}
