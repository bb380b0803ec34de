package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bacicli/internal/shared/testutil"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error",
			err:        ErrReportRunning,
			wantStatus: http.StatusConflict,
			wantType:   TypeReportRunning,
		},
		{
			name:       "analysis error",
			err:        NewAnalysisError("cluster import products", errors.New("too few entities")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeAnalysisSkipped,
		},
		{
			name:       "parsing error",
			err:        NewParsingError("bad header", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataCorrupted,
		},
		{
			name:       "plain not found",
			err:        errors.New("graph for kind not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			r := httptest.NewRequest(http.MethodGet, "/api/report", nil)
			w := httptest.NewRecorder()
			h.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "/api/report", body["instance"])
			assert.True(t, logs.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, logs.Count())
	assert.Empty(t, w.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("unexpected state")
	})

	w := httptest.NewRecorder()
	RecoveryMiddleware(h)(panicking).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/report", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unexpected state", body["panic"])
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeReportNotReady, "Not Found", "", "/api/report").
		WithExtension("trace_id", "abc")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "abc", body["trace_id"])
	assert.NotContains(t, body, "detail")
	assert.EqualValues(t, http.StatusNotFound, body["status"])
}

func TestErrorHandler_LogLevel(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	h.HandleError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/report", nil), ErrReportNotReady)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request failed")
	testutil.AssertNoErrors(t, logs)

	h.HandleError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/report", nil), errors.New("boom"))
	testutil.AssertLogContains(t, logs, slog.LevelError, "request failed")
}

func TestErrorHandler_RouteFallbacks(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	h.NotFound(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeNotFound, body["type"])
	assert.Equal(t, "Not Found", body["title"])

	w = httptest.NewRecorder()
	h.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/report", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeMethodNotAllowed, body["type"])
	assert.Contains(t, body["detail"], "DELETE")
}
