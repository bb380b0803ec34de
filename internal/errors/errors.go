package errors

import (
	"fmt"
	"net/http"
)

// Codes sent in the error_code member of API problems
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeReportNotReady   = "REPORT_NOT_READY"
	CodeReportRunning    = "REPORT_RUNNING"
	CodeReportFailed     = "REPORT_FAILED"
	CodeAnalysisSkipped  = "ANALYSIS_SKIPPED"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeTimeout          = "REQUEST_TIMEOUT"
)

var codeTypes = map[string]string{
	CodeInvalidRequest:   TypeValidation,
	CodeValidationFailed: TypeValidation,
	CodeNotFound:         TypeNotFound,
	CodeReportNotReady:   TypeReportNotReady,
	CodeReportRunning:    TypeReportRunning,
	CodeReportFailed:     TypeReportFailed,
	CodeAnalysisSkipped:  TypeAnalysisSkipped,
	CodeRateLimited:      TypeRateLimit,
	CodeTimeout:          TypeTimeout,
}

// APIError is an error the HTTP layer answers with a fixed status and code
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Details    interface{}
}

func (e *APIError) Error() string {
	return e.Message
}

// Problem renders e as a problem for the request path instance
func (e *APIError) Problem(instance string) *ProblemDetails {
	problemType, ok := codeTypes[e.ErrorCode]
	if !ok {
		problemType = TypeInternal
	}
	pd := NewProblemDetails(e.StatusCode, problemType, "", e.Message, instance).
		WithExtension("error_code", e.ErrorCode)
	if e.Details != nil {
		pd.WithExtension("details", e.Details)
	}
	return pd
}

// ValidationError names one rejected field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the details payload for a multi-field rejection
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates an APIError without details
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// NewWithDetails creates an APIError carrying a details payload
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

var (
	ErrReportNotReady = New(http.StatusNotFound, CodeReportNotReady, "No report has been generated yet")
	ErrReportRunning  = New(http.StatusConflict, CodeReportRunning, "A report run is already in progress")
)

// InvalidRequestWithError rejects a request body that could not be checked
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation rejects a single field
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed",
		ValidationError{Field: field, Message: message})
}

// NewValidationErrors rejects several fields at once
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed",
		ValidationErrors{Errors: errs})
}

func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// ErrReportExecution wraps a run failure that has no more specific mapping
func ErrReportExecution(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, CodeReportFailed, "Report run failed", err.Error())
}

// AnalysisSkippedError reports why clustering or the graph is missing for kind
func AnalysisSkippedError(kind, reason string) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeAnalysisSkipped,
		fmt.Sprintf("Analysis %s was skipped", kind), reason)
}

// RateLimited tells the client to come back after retryAfter seconds
func RateLimited(retryAfter int) *APIError {
	return NewWithDetails(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds", retryAfter),
		map[string]interface{}{"retry_after": retryAfter})
}

func RequestTimeout() *APIError {
	return New(http.StatusGatewayTimeout, CodeTimeout, "The request took too long to process")
}
