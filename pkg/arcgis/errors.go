// Package arcgis provides the HTTP plumbing for the ArcGIS Location
// Services REST APIs: authentication, rate limiting, error translation
// and strict parsing of compound coordinate parameters.
package arcgis

import "fmt"

// Kind classifies an Error so callers can translate it into the right
// tool-level failure without string matching.
type Kind string

const (
	// KindConfiguration indicates a missing or invalid API key.
	KindConfiguration Kind = "configuration"

	// KindValidation indicates a malformed or missing request argument.
	KindValidation Kind = "validation"

	// KindUpstream indicates a non-2xx response or an error envelope
	// returned by an ArcGIS service.
	KindUpstream Kind = "upstream"

	// KindNetwork indicates a timeout or connection failure before any
	// response was received.
	KindNetwork Kind = "network"
)

// Error is the error type returned by all functions in this package.
type Error struct {
	Kind       Kind
	StatusCode int // HTTP status or ArcGIS error code, 0 if not applicable
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// NewConfigurationError creates an Error for credential problems.
func NewConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// NewValidationError creates an Error for malformed request arguments.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewUpstreamError creates an Error for an ArcGIS service failure.
func NewUpstreamError(statusCode int, message string) *Error {
	return &Error{Kind: KindUpstream, StatusCode: statusCode, Message: message}
}

// NewNetworkError creates an Error for a transport-level failure.
func NewNetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error()}
}
