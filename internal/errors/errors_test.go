package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(500, "/initialize", "initialize failed")

	expected := "API error [500] at /initialize: initialize failed"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "/chat", "boom")
	if noStatus.Error() != "API error at /chat: boom" {
		t.Errorf("Unexpected error text: %s", noStatus.Error())
	}
}

func TestAPIError_NotInitialized(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		want   bool
	}{
		{"backend detail", "Please initialize a repository first", true},
		{"other detail", "internal server error", false},
		{"no detail", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError(400, "/chat", "chat failed").WithBody(`{}`, tt.detail)
			if got := IsNotInitialized(err); got != tt.want {
				t.Errorf("IsNotInitialized() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("check status", "/status", cause)

	if err.Error() != "network error during check status: connection refused" {
		t.Errorf("Unexpected error text: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected NetworkError to unwrap to its cause")
	}
	if !IsNetworkError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("Expected wrapped NetworkError to be detected")
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("", "/chat")
	if err.Error() != "request timed out" {
		t.Errorf("Unexpected error text: %s", err.Error())
	}

	err = NewTimeoutError("after 30s", "/chat")
	if err.Error() != "request timed out: after 30s" {
		t.Errorf("Unexpected error text: %s", err.Error())
	}
	if !IsTimeoutError(err) {
		t.Error("Expected IsTimeoutError to be true")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing field", "answer", "/chat")

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected ParseError to match ErrInvalidResponse")
	}
	if !IsParseError(fmt.Errorf("chat: %w", err)) {
		t.Error("Expected wrapped ParseError to be detected")
	}
	if IsParseError(errors.New("parse error")) {
		t.Error("Plain error should not be a ParseError")
	}
}

func TestGetHelpers(t *testing.T) {
	apiErr := NewAPIError(404, "/status", "not found").WithBody(`{"detail":"Not Found"}`, "Not Found")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantEP     string
		wantDetail string
	}{
		{"api error", apiErr, 404, "/status", "Not Found"},
		{"wrapped api error", fmt.Errorf("outer: %w", apiErr), 404, "/status", "Not Found"},
		{"network error", NewNetworkError("chat", "/chat", nil), 0, "/chat", ""},
		{"timeout", NewTimeoutError("", "/initialize"), 0, "/initialize", ""},
		{"parse", NewParseError("bad", "", "/status"), 0, "/status", ""},
		{"plain", errors.New("x"), 0, "", ""},
		{"nil", nil, 0, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatus(tt.err); got != tt.wantStatus {
				t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.wantStatus)
			}
			if got := GetEndpoint(tt.err); got != tt.wantEP {
				t.Errorf("GetEndpoint() = %q, want %q", got, tt.wantEP)
			}
			if got := GetDetail(tt.err); got != tt.wantDetail {
				t.Errorf("GetDetail() = %q, want %q", got, tt.wantDetail)
			}
		})
	}
}

func TestIsCancelled(t *testing.T) {
	if !IsCancelled(fmt.Errorf("send: %w", ErrCancelled)) {
		t.Error("Expected wrapped ErrCancelled to be detected")
	}
	if IsCancelled(ErrBusy) {
		t.Error("ErrBusy is not a cancellation")
	}
}
