// Package llm holds the text-generation backends the trip planner can call.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Backend is one addressable text-generation endpoint.
type Backend interface {
	// ID identifies the backend as provider:model.
	ID() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Reason tags why a backend call failed.
type Reason string

const (
	ReasonTransient Reason = "transient"
	ReasonPermanent Reason = "permanent"
	ReasonQuota     Reason = "quota"
)

var (
	ErrEmptyResponse   = errors.New("backend returned no content")
	ErrMissingAPIKey   = errors.New("missing api key")
	ErrUnknownProvider = errors.New("unknown provider")
)

// BackendError is a classified failure of one backend call.
type BackendError struct {
	Backend    string
	Reason     Reason
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Backend, e.Reason, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Reason, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt against the same backend may succeed.
func (e *BackendError) Retryable() bool { return e.Reason == ReasonTransient }

// ClassifyStatus maps an HTTP status and error message to a failure reason.
func ClassifyStatus(code int, message string) Reason {
	msg := strings.ToLower(message)
	switch {
	case code == http.StatusTooManyRequests:
		if isQuotaMessage(msg) {
			return ReasonQuota
		}
		return ReasonTransient
	case code == http.StatusRequestTimeout,
		code == http.StatusInternalServerError,
		code == http.StatusBadGateway,
		code == http.StatusServiceUnavailable,
		code == http.StatusGatewayTimeout,
		code == 529: // overloaded
		return ReasonTransient
	case code == http.StatusPaymentRequired:
		return ReasonQuota
	case code >= 500:
		return ReasonTransient
	case code >= 400:
		return ReasonPermanent
	}
	return classifyMessage(msg)
}

// classifyMessage is the fallback for errors that carry no status code.
func classifyMessage(msg string) Reason {
	switch {
	case isQuotaMessage(msg):
		return ReasonQuota
	case strings.Contains(msg, "not found"),
		strings.Contains(msg, "not_found"),
		strings.Contains(msg, "invalid_argument"),
		strings.Contains(msg, "permission_denied"),
		strings.Contains(msg, "api key not valid"),
		strings.Contains(msg, "unauthenticated"):
		return ReasonPermanent
	default:
		// Unknown errors are usually network failures.
		return ReasonTransient
	}
}

func isQuotaMessage(msg string) bool {
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "insufficient_quota") ||
		strings.Contains(msg, "billing") ||
		strings.Contains(msg, "credit balance")
}

// Wrap classifies err as a BackendError for backend id. Existing BackendErrors pass through.
func Wrap(id string, err error) *BackendError {
	var be *BackendError
	if errors.As(err, &be) {
		return be
	}
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return &BackendError{Backend: id, Reason: ReasonPermanent, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &BackendError{Backend: id, Reason: ReasonTransient, Err: err}
	}
	return &BackendError{Backend: id, Reason: classifyMessage(strings.ToLower(err.Error())), Err: err}
}
