package faults

import (
	"errors"
	"fmt"
)

// Code identifies a failure class.
type Code string

const (
	// Capture layer
	CodeDeviceUnavailable Code = "DEVICE_UNAVAILABLE"
	CodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// Pipeline layer
	CodeNetworkFailure    Code = "NETWORK_FAILURE"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeServerError       Code = "SERVER_ERROR"
	CodeMalformedResponse Code = "MALFORMED_RESPONSE"

	// Aggregation layer
	CodeEmptyResultSet Code = "EMPTY_RESULT_SET"

	// Session layer
	CodeRefreshFailed Code = "REFRESH_FAILED"

	// Orchestrator
	CodeAlreadyRunning Code = "ALREADY_RUNNING"
)

// Fault is a typed error carried across the capture, pipeline, aggregation
// and session layers.
type Fault struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Code, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (f *Fault) Unwrap() error {
	return f.Err
}

// Is matches when err (or anything it wraps) is a Fault with the given code.
func Is(err error, code Code) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code == code
	}
	return false
}

// NewDeviceUnavailable reports that the microphone or recording backend
// cannot be used.
func NewDeviceUnavailable(msg string, err error) *Fault {
	return &Fault{Code: CodeDeviceUnavailable, Message: msg, Err: err}
}

// NewUnsupportedFormat rejects a file whose extension is outside the allow-list.
func NewUnsupportedFormat(name string) *Fault {
	return &Fault{
		Code:    CodeUnsupportedFormat,
		Message: fmt.Sprintf("unsupported audio format: %s", name),
	}
}

// NewNetworkFailure reports that a request produced no response at all.
func NewNetworkFailure(err error) *Fault {
	return &Fault{Code: CodeNetworkFailure, Message: "no response from server", Err: err}
}

// NewUnauthorized reports a 401 that could not be resolved by a token refresh.
func NewUnauthorized(msg string) *Fault {
	return &Fault{Code: CodeUnauthorized, Message: msg}
}

// NewServerError reports a non-401 HTTP failure status.
func NewServerError(status int, body string) *Fault {
	return &Fault{
		Code:    CodeServerError,
		Message: fmt.Sprintf("server returned HTTP %d: %s", status, body),
	}
}

// NewMalformedResponse reports a response body that does not match the
// expected schema. The raw payload is discarded.
func NewMalformedResponse(msg string, err error) *Fault {
	return &Fault{Code: CodeMalformedResponse, Message: msg, Err: err}
}

// NewEmptyResultSet reports an aggregation over zero utterances.
func NewEmptyResultSet(what string) *Fault {
	return &Fault{
		Code:    CodeEmptyResultSet,
		Message: fmt.Sprintf("nothing to aggregate: %s is empty", what),
	}
}

// NewRefreshFailed reports that the token refresh call itself failed.
func NewRefreshFailed(err error) *Fault {
	return &Fault{Code: CodeRefreshFailed, Message: "token refresh failed", Err: err}
}

// NewAlreadyRunning rejects a pipeline run started while another is in flight.
func NewAlreadyRunning() *Fault {
	return &Fault{Code: CodeAlreadyRunning, Message: "an analysis is already running"}
}
