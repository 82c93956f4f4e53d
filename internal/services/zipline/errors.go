package zipline

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrZipline is the root of every error produced by this package.
var ErrZipline = errors.New("zipline")

// Status-mapped outcomes. An *APIError unwraps to exactly one of these.
var (
	ErrBadRequest       = fmt.Errorf("%w: bad request", ErrZipline)
	ErrNotAuthenticated = fmt.Errorf("%w: not authenticated", ErrZipline)
	ErrForbidden        = fmt.Errorf("%w: forbidden", ErrZipline)
	ErrNotFound         = fmt.Errorf("%w: not found", ErrZipline)
	ErrPayloadTooLarge  = fmt.Errorf("%w: payload too large", ErrZipline)
	ErrRateLimited      = fmt.Errorf("%w: rate limited", ErrZipline)
	ErrClientError      = fmt.Errorf("%w: client error", ErrZipline)
	ErrServerError      = fmt.Errorf("%w: server error", ErrZipline)
)

// ErrClientClosed is returned by requests made after Close.
var ErrClientClosed = fmt.Errorf("%w: client closed", ErrZipline)

// APIError is returned for every non-2xx response.
type APIError struct {
	kind    error
	Message string
	Code    int

	// RetryAfter is the server's advised wait for 429 responses. It is
	// informational; the client never retries on its own.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (%d)", e.kind, e.Code)
	}
	return fmt.Sprintf("%v (%d): %s", e.kind, e.Code, e.Message)
}

// Unwrap returns the outcome sentinel, e.g. ErrNotFound.
func (e *APIError) Unwrap() error {
	return e.kind
}

// UnhandledError signals a status code that reached the mapper without an
// outcome. It indicates a bug in this package, not a server condition.
type UnhandledError struct {
	Code int
}

func (e *UnhandledError) Error() string {
	return fmt.Sprintf("zipline: unhandled status code %d", e.Code)
}

func (e *UnhandledError) Unwrap() error {
	return ErrZipline
}

// DecodeError is returned when a response body does not match the expected shape.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("zipline: decoding %s: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrZipline, e.Err}
}

// statusKind maps a status code to its outcome sentinel. ok is true for 2xx.
func statusKind(status int) (kind error, ok bool) {
	switch {
	case status >= 200 && status < 300:
		return nil, true
	case status == http.StatusBadRequest:
		return ErrBadRequest, false
	case status == http.StatusUnauthorized:
		return ErrNotAuthenticated, false
	case status == http.StatusForbidden:
		return ErrForbidden, false
	case status == http.StatusNotFound:
		return ErrNotFound, false
	case status == http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge, false
	case status == http.StatusTooManyRequests:
		return ErrRateLimited, false
	case status >= 405 && status < 500:
		return ErrClientError, false
	case status >= 500 && status < 600:
		return ErrServerError, false
	}
	return nil, false
}

// NewAPIError builds the error the client would return for status and message.
// It returns nil for 2xx statuses.
func NewAPIError(status int, message string) error {
	return checkStatus(status, http.Header{}, Body{Kind: BodyText, Text: message})
}

// checkStatus returns nil for 2xx and the typed error for everything else.
func checkStatus(status int, header http.Header, body Body) error {
	kind, ok := statusKind(status)
	if ok {
		return nil
	}
	if kind == nil {
		return &UnhandledError{Code: status}
	}

	apiErr := &APIError{kind: kind, Message: body.errorMessage(), Code: status}
	if kind == ErrRateLimited {
		apiErr.RetryAfter = retryAfterDelay(header.Get("Retry-After"), 0)
	}
	return apiErr
}

// retryAfterDelay parses an HTTP Retry-After header value and returns the advised
// delay. If parsing fails or the header is empty, fallback is returned.
func retryAfterDelay(header string, fallback time.Duration) time.Duration {
	if header == "" {
		return fallback
	}

	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}

	if ts, err := http.ParseTime(header); err == nil {
		now := time.Now()
		if ts.After(now) {
			return ts.Sub(now)
		}
		return 0
	}

	return fallback
}

// IsAuthError reports whether err is a 401 or 403 response.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrForbidden)
}
