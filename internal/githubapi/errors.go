package githubapi

import (
	"fmt"
)

const (
	statusErrorTemplateConstant    = "%s %s returned status %d: %s"
	rateLimitErrorTemplateConstant = "%s %s rate limited after %d attempts"
	requestErrorTemplateConstant   = "%s %s request failed: %s"
)

// StatusError reports a non-success API response after retries were exhausted
// or deemed inapplicable.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

// Error describes the failed response.
func (statusError StatusError) Error() string {
	return fmt.Sprintf(statusErrorTemplateConstant, statusError.Method, statusError.Path, statusError.StatusCode, statusError.Body)
}

// RateLimitError indicates the bounded retry budget was consumed by rate-limit responses.
type RateLimitError struct {
	Method   string
	Path     string
	Attempts int
}

// Error describes the exhausted retry budget.
func (rateLimitError RateLimitError) Error() string {
	return fmt.Sprintf(rateLimitErrorTemplateConstant, rateLimitError.Method, rateLimitError.Path, rateLimitError.Attempts)
}

// RequestError wraps transport-level failures.
type RequestError struct {
	Method string
	Path   string
	Cause  error
}

// Error describes the transport failure.
func (requestError RequestError) Error() string {
	return fmt.Sprintf(requestErrorTemplateConstant, requestError.Method, requestError.Path, requestError.Cause)
}

// Unwrap exposes the underlying cause.
func (requestError RequestError) Unwrap() error {
	return requestError.Cause
}
