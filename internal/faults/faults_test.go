package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestFault_Error(t *testing.T) {
	err := NewUnsupportedFormat("session.mov")

	expected := "UNSUPPORTED_FORMAT: unsupported audio format: session.mov"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestFault_ErrorWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkFailure(cause)

	expected := "NETWORK_FAILURE: no response from server: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through to the cause")
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := NewEmptyResultSet("diarized conversation")

	if !Is(err, CodeEmptyResultSet) {
		t.Error("Is(err, CodeEmptyResultSet) = false, want true")
	}
	if Is(err, CodeServerError) {
		t.Error("Is(err, CodeServerError) = true, want false")
	}
}

func TestIs_MatchesWrapped(t *testing.T) {
	inner := NewRefreshFailed(errors.New("HTTP 400"))
	wrapped := fmt.Errorf("logging in again required: %w", inner)

	if !Is(wrapped, CodeRefreshFailed) {
		t.Error("Is should match a Fault wrapped with %w")
	}
}

func TestIs_NonFault(t *testing.T) {
	if Is(errors.New("plain"), CodeUnauthorized) {
		t.Error("Is should be false for non-Fault errors")
	}
	if Is(nil, CodeUnauthorized) {
		t.Error("Is should be false for nil")
	}
}

func TestNewServerError_Message(t *testing.T) {
	err := NewServerError(503, "upstream down")

	if err.Code != CodeServerError {
		t.Errorf("Code = %q, want %q", err.Code, CodeServerError)
	}
	expected := "server returned HTTP 503: upstream down"
	if err.Message != expected {
		t.Errorf("Message = %q, want %q", err.Message, expected)
	}
}
