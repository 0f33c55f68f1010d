package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPlayerNotStartedMessage(t *testing.T) {
	if got := ErrPlayerNotStarted.Error(); got != "Player not started." {
		t.Errorf("Error() = %q, want %q", got, "Player not started.")
	}
}

func TestSpircStartError(t *testing.T) {
	inner := errors.New("connection reset")
	err := error(&SpircStartError{Err: inner})

	if got := err.Error(); got != "Failed to start spirc: connection reset" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"explicit", WithSuggestion(errors.New("boom"), "try again"), "try again"},
		{"not authenticated", fmt.Errorf("session: %w", ErrNotAuthenticated), "minispot auth login"},
		{"not started", ErrPlayerNotStarted, "Select this device"},
		{"rate limited", errors.New("status 429"), "Too many requests"},
		{"network", errors.New("dial tcp: connection refused"), "internet connection"},
		{"config", ErrInvalidConfig, "minispot setup"},
		{"unknown", errors.New("something odd"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("GetSuggestion() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("GetSuggestion() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}

	got := Format(errors.New("plain"))
	if got != "Error: plain" {
		t.Errorf("Format() = %q", got)
	}

	got = Format(ErrPlayerNotStarted)
	if !strings.Contains(got, "Suggestion:") {
		t.Errorf("Format() = %q, want a suggestion", got)
	}
}
