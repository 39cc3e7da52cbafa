package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// ErrorCategory drives logging level and retry behavior.
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryNetwork       ErrorCategory = "network"
	CategoryTimeout       ErrorCategory = "timeout"
	CategoryRateLimit     ErrorCategory = "rate_limit"
	CategoryExternalAPI   ErrorCategory = "external_api"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryInternal      ErrorCategory = "internal"
)

// AppError wraps an errbuilder error with HTTP and category context.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(string(e.Category)), e.ErrBuilder.Msg)
}

func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// MarshalJSON emits the error envelope returned to HTTP clients. The embedded
// builder's own marshaller requires a cause, which errors like validation
// failures never carry.
func (e *AppError) MarshalJSON() ([]byte, error) {
	payload := map[string]interface{}{
		"error":       e.ErrBuilder.Msg,
		"code":        e.ErrBuilder.Code,
		"category":    e.Category,
		"http_status": e.HTTPStatus,
		"timestamp":   e.Timestamp,
	}
	if e.ErrBuilder.Cause != nil {
		payload["cause"] = e.ErrBuilder.Cause.Error()
	}
	return json.Marshal(payload)
}

func newAppError(code errbuilder.ErrCode, msg string, cause error, category ErrorCategory, status int) *AppError {
	builder := errbuilder.New().WithCode(code).WithMsg(msg)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: status,
		Timestamp:  time.Now(),
	}
}

// NewValidationError flags bad caller input. Note that malformed document
// markup is NOT a validation error; the parser tolerates it.
func NewValidationError(message string) *AppError {
	return newAppError(errbuilder.CodeInvalidArgument, message, nil, CategoryValidation, http.StatusBadRequest)
}

func NewNetworkError(message string, cause error) *AppError {
	return newAppError(errbuilder.CodeUnavailable, message, cause, CategoryNetwork, http.StatusBadGateway)
}

func NewTimeoutError(message string, cause error) *AppError {
	return newAppError(errbuilder.CodeDeadlineExceeded, message, cause, CategoryTimeout, http.StatusGatewayTimeout)
}

func NewRateLimitError(retryAfter time.Duration) *AppError {
	err := newAppError(errbuilder.CodeResourceExhausted, "rate limit exceeded", nil, CategoryRateLimit, http.StatusTooManyRequests)
	details := errbuilder.ErrorMap{}
	details.Set("retry_after", errors.New(retryAfter.String()))
	err.ErrBuilder = err.ErrBuilder.WithDetails(errbuilder.NewErrDetails(details))
	return err
}

// NewExternalAPIError marks a collaborator failure. Callers at the
// collaborator boundary must catch it and degrade to "feature unavailable"
// rather than letting it reach the scoring core.
func NewExternalAPIError(apiName string, cause error) *AppError {
	return newAppError(errbuilder.CodeUnavailable, fmt.Sprintf("%s API error", apiName), cause, CategoryExternalAPI, http.StatusBadGateway)
}

// NewConfigurationError marks invalid startup configuration, the only hard
// failure the pipeline recognizes.
func NewConfigurationError(message string, cause error) *AppError {
	return newAppError(errbuilder.CodeFailedPrecondition, message, cause, CategoryConfiguration, http.StatusInternalServerError)
}

func NewInternalError(message string, cause error) *AppError {
	return newAppError(errbuilder.CodeInternal, message, cause, CategoryInternal, http.StatusInternalServerError)
}

// ToAppError normalizes any error into an AppError.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("request deadline exceeded", err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "network is unreachable"):
		return NewNetworkError("network connection failed", err)
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"):
		return NewTimeoutError("request timeout", err)
	}

	return NewInternalError("an unexpected error occurred", err)
}

// IsRetryable reports whether the error is worth retrying with backoff.
func IsRetryable(err error) bool {
	switch ToAppError(err).Category {
	case CategoryNetwork, CategoryTimeout, CategoryExternalAPI, CategoryRateLimit:
		return true
	}
	return false
}

// LogError logs an AppError at the level its category warrants.
func LogError(c *gin.Context, err *AppError) {
	entry := slog.With(
		"error_category", err.Category,
		"http_status", err.HTTPStatus,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"ip", c.ClientIP(),
	)

	switch err.Category {
	case CategoryValidation, CategoryRateLimit:
		entry.Warn(err.ErrBuilder.Msg)
	case CategoryNetwork, CategoryTimeout, CategoryExternalAPI:
		entry.Info(err.ErrBuilder.Msg, "cause", err.Unwrap())
	default:
		entry.Error(err.ErrBuilder.Msg, "cause", err.Unwrap())
	}
}

// ErrorHandler centralizes error responses for handlers that push errors onto
// the gin context.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		appErr := ToAppError(c.Errors.Last().Err)
		LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
	}
}

// RecoveryHandler converts panics into structured internal errors.
func RecoveryHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		appErr := NewInternalError(fmt.Sprintf("panic recovered: %v", recovered), fmt.Errorf("%v", recovered))
		LogError(c, appErr)
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
	})
}
