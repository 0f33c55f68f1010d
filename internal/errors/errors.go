package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrPlayerNotStarted = errors.New("Player not started.")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUserMismatch     = errors.New("authenticated user does not match discovered user")
	ErrSpircClosed      = errors.New("spirc endpoint closed")
	ErrCommandQueueFull = errors.New("spirc command queue full")
	ErrNoCovers         = errors.New("track has no album covers")
	ErrDiscoveryClosed  = errors.New("discovery closed")
	ErrNoAudioDevice    = errors.New("no audio output device")
	ErrRateLimited      = errors.New("rate limited")
	ErrNetworkError     = errors.New("network error")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// SpircStartError reports a failed Connect endpoint construction.
type SpircStartError struct {
	Err error
}

func (e *SpircStartError) Error() string {
	return fmt.Sprintf("Failed to start spirc: %v", e.Err)
}

func (e *SpircStartError) Unwrap() error {
	return e.Err
}

// MiniError wraps an error with a user-friendly suggestion.
type MiniError struct {
	Err        error
	Suggestion string
}

func (e *MiniError) Error() string {
	return e.Err.Error()
}

func (e *MiniError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &MiniError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var miniErr *MiniError
	if errors.As(err, &miniErr) && miniErr.Suggestion != "" {
		return miniErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrNotAuthenticated) || strings.Contains(errStr, "not authenticated") ||
		strings.Contains(errStr, "invalid access token") || strings.Contains(errStr, "token expired") {
		return "Run 'minispot auth login' to authenticate with Spotify"
	}

	if errors.Is(err, ErrUserMismatch) {
		return "Log in with the same account the controller uses, or run 'minispot auth login' again"
	}

	if errors.Is(err, ErrPlayerNotStarted) {
		return "Select this device from a Spotify app on the same network first"
	}

	if errors.Is(err, ErrNoAudioDevice) {
		return "Connect an audio output device or set audio.backend in the config"
	}

	if errors.Is(err, ErrRateLimited) || strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") {
		return "Too many requests. Wait a moment and try again"
	}

	if errors.Is(err, ErrNetworkError) || strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "timeout") || strings.Contains(errStr, "connection refused") {
		return "Check your internet connection and try again"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) {
		return "Run 'minispot setup' to write a fresh configuration"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
