package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppValidationError("top must be positive"),
			want: "[VALIDATION] top must be positive",
		},
		{
			name: "with cause",
			err:  NewParsingError("read trade file", fmt.Errorf("row 3: bad value")),
			want: "[PARSING] read trade file: row 3: bad value",
		},
		{
			name: "not found",
			err:  NewNotFoundError("country code table"),
			want: "[NOT_FOUND] country code table not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	sentinel := errors.New("too few entities")
	err := NewAnalysisError("cluster export partners", sentinel)

	assert.True(t, errors.Is(err, sentinel))

	wrapped := fmt.Errorf("run report: %w", err)
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeAnalysis, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewStorageError("write workbook", nil).
		WithContext("path", "out/report.xlsx").
		WithContext("sheet", "clusters")

	assert.Equal(t, "out/report.xlsx", err.Context["path"])
	assert.Equal(t, "clusters", err.Context["sheet"])

	empty := &AppError{Type: ErrTypeConfig}
	empty.WithContext("key", 1)
	assert.Equal(t, 1, empty.Context["key"])
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("load: %w", NewParsingError("bad header", nil))

	assert.True(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(err, ErrTypeStorage))
	assert.False(t, IsType(errors.New("plain"), ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeParsing))
}

func TestAPIError_Problem(t *testing.T) {
	tests := []struct {
		name       string
		apiError   *APIError
		wantStatus int
		wantType   string
	}{
		{"report not ready", ErrReportNotReady, http.StatusNotFound, TypeReportNotReady},
		{"report running", ErrReportRunning, http.StatusConflict, TypeReportRunning},
		{"analysis skipped", AnalysisSkippedError("export_partner", "too few entities"), http.StatusUnprocessableEntity, TypeAnalysisSkipped},
		{"rate limited", RateLimited(2), http.StatusTooManyRequests, TypeRateLimit},
		{"unknown code", New(http.StatusTeapot, "KETTLE", "short and stout"), http.StatusTeapot, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := tt.apiError.Problem("/api/report")

			assert.Equal(t, tt.wantStatus, pd.Status)
			assert.Equal(t, tt.wantType, pd.Type)
			assert.Equal(t, http.StatusText(tt.wantStatus), pd.Title)
			assert.Equal(t, tt.apiError.ErrorCode, pd.Extensions["error_code"])
			assert.Equal(t, tt.apiError.Details, pd.Extensions["details"])
		})
	}
}

func TestAppError_Problem(t *testing.T) {
	pd := NewStorageError("write workbook", errors.New("disk full")).Problem("/api/report/run")
	assert.Equal(t, http.StatusInternalServerError, pd.Status)
	assert.Equal(t, TypeInternal, pd.Type)
	assert.Equal(t, "write workbook", pd.Detail, "the cause is not exposed")

	pd = NewNotFoundError("trade files").Problem("/api/report/run")
	assert.Equal(t, http.StatusNotFound, pd.Status)
	assert.Equal(t, TypeDataNotFound, pd.Type)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("kind", "unknown entity kind")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "kind", details.Field)
}
