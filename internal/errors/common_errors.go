package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies a pipeline failure
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeAnalysis   ErrorType = "ANALYSIS"
	ErrTypeRender     ErrorType = "RENDER"
)

type problemKind struct {
	status int
	typ    string
	title  string
}

// Storage, config and render failures are the server's fault and share the
// internal problem type.
var errorTypeProblems = map[ErrorType]problemKind{
	ErrTypeNotFound:   {http.StatusNotFound, TypeDataNotFound, "Data Not Found"},
	ErrTypeParsing:    {http.StatusUnprocessableEntity, TypeDataCorrupted, "Data Corrupted"},
	ErrTypeAnalysis:   {http.StatusUnprocessableEntity, TypeAnalysisSkipped, "Analysis Failed"},
	ErrTypeValidation: {http.StatusBadRequest, TypeValidation, "Validation Failed"},
	ErrTypeStorage:    {http.StatusInternalServerError, TypeInternal, "Storage Error"},
	ErrTypeConfig:     {http.StatusInternalServerError, TypeInternal, "Configuration Error"},
	ErrTypeRender:     {http.StatusInternalServerError, TypeInternal, "Render Error"},
}

// AppError is a typed failure raised while loading, analyzing or writing a
// report. Context holds the file, sheet or kind the failure concerns.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext records key on the error and returns it for chaining
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Problem renders e for the request path instance. The cause stays out of
// the response; only the message is exposed.
func (e *AppError) Problem(instance string) *ProblemDetails {
	kind, ok := errorTypeProblems[e.Type]
	if !ok {
		kind = problemKind{http.StatusInternalServerError, TypeInternal, ""}
	}
	return NewProblemDetails(kind.status, kind.typ, kind.title, e.Message, instance)
}

func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Cause: cause}
}

func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError rejects an input or setting that has no cause
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError reports a missing resource as "<resource> not found"
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, resource+" not found", nil)
}

func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewAnalysisError wraps a failure of one analytics step
func NewAnalysisError(message string, cause error) *AppError {
	return NewAppError(ErrTypeAnalysis, message, cause)
}

// NewRenderError wraps a failure while writing an output artifact
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// IsType reports whether err wraps an AppError of errType
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}
