package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tessro/minispot/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "minispot.log")

	logger, err := New(config.LogConfig{Level: "debug", File: path}, false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("hello from test")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file = %q, want the debug line", string(data))
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}, false); err == nil {
		t.Error("New() with an unknown level should fail")
	}
}

func TestNewDefaultsLevel(t *testing.T) {
	logger, err := New(config.LogConfig{}, true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger == nil {
		t.Fatal("logger should not be nil")
	}
}
