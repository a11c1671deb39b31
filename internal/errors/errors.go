// Package errors provides custom error types for the repository chat client.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrEmptyRepoURL    = errors.New("repository URL cannot be empty")
	ErrEmptyQuestion   = errors.New("question cannot be empty")
	ErrBusy            = errors.New("a request is already in progress")
	ErrNotInitialized  = errors.New("no repository has been initialized")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrCancelled       = errors.New("request cancelled")
)

// notInitializedDetail is the detail the backend returns from /chat before
// any repository was indexed
const notInitializedDetail = "initialize a repository first"

// APIError represents a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Detail     string // "detail" field of the response body, if any
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// Is matches ErrNotInitialized when the backend rejected a chat because no
// repository is loaded
func (e *APIError) Is(target error) bool {
	if target == ErrNotInitialized {
		return strings.Contains(strings.ToLower(e.Detail), notInitializedDetail)
	}
	_, ok := target.(*APIError)
	return ok
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// WithBody attaches the raw response body and its parsed detail
func (e *APIError) WithBody(body, detail string) *APIError {
	e.Body = body
	e.Detail = detail
	return e
}

// NetworkError represents a transport failure (connection refused, DNS, reset)
type NetworkError struct {
	Operation string
	Endpoint  string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("network error during %s", e.Operation)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, cause error) *NetworkError {
	return &NetworkError{
		Operation: operation,
		Endpoint:  endpoint,
		Cause:     cause,
	}
}

// TimeoutError represents a request that exceeded its deadline
type TimeoutError struct {
	Message  string
	Endpoint string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message, endpoint string) *TimeoutError {
	return &TimeoutError{Message: message, Endpoint: endpoint}
}

// ParseError represents a response body that could not be interpreted
type ParseError struct {
	Message  string
	Path     string
	Endpoint string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %q: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path, endpoint string) *ParseError {
	return &ParseError{Message: message, Path: path, Endpoint: endpoint}
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint the failing request targeted, if known
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Endpoint
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Endpoint
	}
	return ""
}

// GetDetail returns the backend's "detail" message, if any
func GetDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// IsAPIError reports whether err is a non-2xx backend response
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsParseError reports whether err is a response parsing failure
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// IsNotInitialized reports whether the backend refused the request because
// no repository is loaded
func IsNotInitialized(err error) bool {
	return errors.Is(err, ErrNotInitialized)
}

// IsCancelled reports whether the request was cancelled by the user
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
