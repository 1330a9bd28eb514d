package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// ErrorCode is a stable, machine readable error identifier.
type ErrorCode string

const (
	// General
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"

	// Stream key and webhook parsing
	ErrCodeMalformedToken    ErrorCode = "MALFORMED_TOKEN"
	ErrCodeInvalidURLScheme  ErrorCode = "INVALID_URL_SCHEME"
	ErrCodeMissingPathPrefix ErrorCode = "MISSING_PATH_PREFIX"

	// Signatures and authorization
	ErrCodeSignatureRecovery  ErrorCode = "SIGNATURE_RECOVERY_ERROR"
	ErrCodeUnknownSchema      ErrorCode = "UNKNOWN_SCHEMA"
	ErrCodeUnauthorizedSigner ErrorCode = "UNAUTHORIZED_SIGNER"
	ErrCodeStaleBlockHash     ErrorCode = "STALE_BLOCK_HASH"

	// Remote collaborators
	ErrCodeRemoteFetch ErrorCode = "REMOTE_FETCH_ERROR"
	ErrCodeExternalAPI ErrorCode = "EXTERNAL_API_ERROR"
	ErrCodeCacheError  ErrorCode = "CACHE_ERROR"

	// Asset import
	ErrCodeImportFailed  ErrorCode = "IMPORT_FAILED"
	ErrCodeImportTimeout ErrorCode = "IMPORT_TIMEOUT"
)

// AppError is the typed application error carried through services and handlers.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Context   map[string]string      `json:"context,omitempty"`
	Stack     []string               `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsInternal reports whether the error is a server-side fault rather than bad input.
func (e *AppError) IsInternal() bool {
	switch e.Code {
	case ErrCodeInternal, ErrCodeCacheError, ErrCodeRemoteFetch, ErrCodeExternalAPI:
		return true
	}
	return false
}

// IsValidation reports whether the error was caused by the caller's input.
func (e *AppError) IsValidation() bool {
	switch e.Code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeMalformedToken,
		ErrCodeInvalidURLScheme, ErrCodeMissingPathPrefix, ErrCodePayloadTooLarge:
		return true
	}
	return false
}

func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New creates an application error with a captured stack.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

// Wrap attaches a code and message to an existing error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

func NewMalformedTokenError(reason string, cause error) *AppError {
	return Wrap(cause, ErrCodeMalformedToken, "malformed stream key: "+reason)
}

func NewRemoteFetchError(resource string, err error) *AppError {
	return Wrap(err, ErrCodeRemoteFetch, fmt.Sprintf("failed to fetch %s", resource)).
		WithDetail("resource", resource)
}

func NewExternalAPIError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeExternalAPI, fmt.Sprintf("external API operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewCacheError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeCacheError, fmt.Sprintf("cache operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err == nil {
		return nil, false
	}
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// HTTPStatus maps an error to the status code used by JSON endpoints.
func HTTPStatus(err error) int {
	appErr, ok := AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeMalformedToken,
		ErrCodeInvalidURLScheme, ErrCodeMissingPathPrefix, ErrCodeUnknownSchema:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorizedSigner:
		return http.StatusForbidden
	case ErrCodeStaleBlockHash, ErrCodeSignatureRecovery:
		return http.StatusUnprocessableEntity
	case ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeRemoteFetch, ErrCodeExternalAPI, ErrCodeImportFailed:
		return http.StatusBadGateway
	case ErrCodeImportTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeCacheError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
