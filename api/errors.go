package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Kind classifies an outbound API failure for retry decisions.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransient
	KindRateLimited
	KindAuth
	KindClientError
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindRateLimited:
		return "rate_limited"
	case KindAuth:
		return "auth"
	case KindClientError:
		return "client_error"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a classified failure from an external API call. RetryAfter is
// only set when the provider sent a usable Retry-After header.
type Error struct {
	Kind       Kind
	StatusCode int
	RetryAfter time.Duration
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api error (%s, status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%s): %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status to an error kind per the retry policy:
// 429 is rate-limited, other 4xx are terminal, 5xx are transient.
func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindClientError
	case status >= 500:
		return KindTransient
	default:
		return KindUnknown
	}
}

// Classify returns the failure kind for any error coming out of a provider
// call. Network-level failures count as transient; anything unrecognized is
// unknown and retried fail-open.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindClientError
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransient
	}
	return KindUnknown
}

// IsRetryable reports whether the retry policy should attempt again.
func IsRetryable(err error) bool {
	switch Classify(err) {
	case KindTransient, KindRateLimited, KindUnknown:
		return true
	default:
		return false
	}
}

// RetryAfter extracts the provider-supplied delay, if any.
func RetryAfter(err error) (time.Duration, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter, true
	}
	return 0, false
}

// IsNotFound reports whether the provider said the resource does not exist.
func IsNotFound(err error) bool {
	return Classify(err) == KindNotFound
}
