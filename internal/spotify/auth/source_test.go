package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	minierrors "github.com/tessro/minispot/internal/errors"
)

func newTestStorage(t *testing.T) *TokenStorage {
	t.Helper()
	storage, err := NewTokenStorage(filepath.Join(t.TempDir(), "token.json"), "client")
	if err != nil {
		t.Fatalf("NewTokenStorage() error = %v", err)
	}
	return storage
}

func TestSourceNoToken(t *testing.T) {
	src := NewSource(newTestStorage(t))

	if src.HasToken() {
		t.Error("HasToken() = true on empty storage")
	}
	_, err := src.Token(context.Background())
	if !errors.Is(err, minierrors.ErrNotAuthenticated) {
		t.Errorf("Token() error = %v, want ErrNotAuthenticated", err)
	}
}

func TestSourceValidToken(t *testing.T) {
	storage := newTestStorage(t)
	if err := storage.Save(&Token{AccessToken: "valid", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	src := NewSource(storage)
	tok, err := src.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.AccessToken != "valid" {
		t.Errorf("AccessToken = %q, want valid", tok.AccessToken)
	}
}

func TestSourceRefreshesExpiredToken(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "refreshed", ExpiresIn: 3600})
	}))
	defer server.Close()
	withTokenURL(t, server.URL)

	storage := newTestStorage(t)
	if err := storage.Save(&Token{
		AccessToken:  "stale",
		RefreshToken: "keep_me",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}); err != nil {
		t.Fatal(err)
	}

	src := NewSource(storage)
	for i := 0; i < 2; i++ {
		tok, err := src.Token(context.Background())
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if tok.AccessToken != "refreshed" {
			t.Errorf("AccessToken = %q, want refreshed", tok.AccessToken)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("token endpoint called %d times, want 1", calls.Load())
	}

	persisted, err := storage.Load()
	if err != nil {
		t.Fatal(err)
	}
	if persisted.RefreshToken != "keep_me" {
		t.Errorf("persisted RefreshToken = %q, want keep_me", persisted.RefreshToken)
	}
}

func TestSourceClear(t *testing.T) {
	storage := newTestStorage(t)
	src := NewSource(storage)

	if err := src.Set(&Token{AccessToken: "a", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if !src.HasToken() {
		t.Fatal("HasToken() = false after Set")
	}
	if err := src.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if storage.Exists() {
		t.Error("token file still exists after Clear")
	}
}
