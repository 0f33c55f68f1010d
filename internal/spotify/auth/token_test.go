package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestToken_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "expired",
			expiresAt: time.Now().Add(-1 * time.Hour),
			want:      true,
		},
		{
			name:      "expires soon (within buffer)",
			expiresAt: time.Now().Add(30 * time.Second),
			want:      true,
		},
		{
			name:      "valid",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &Token{ExpiresAt: tt.expiresAt}
			if got := token.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

// withTokenURL points token requests at url for the duration of the test.
func withTokenURL(t *testing.T, url string) {
	t.Helper()
	orig := tokenURL
	tokenURL = url
	t.Cleanup(func() { tokenURL = orig })
}

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}

		if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
			t.Errorf("Expected Content-Type application/x-www-form-urlencoded")
		}

		if err := r.ParseForm(); err != nil {
			t.Errorf("Failed to parse form: %v", err)
		}

		if r.FormValue("grant_type") != "authorization_code" {
			t.Errorf("Expected grant_type authorization_code")
		}
		if r.FormValue("code") != "test_code" {
			t.Errorf("Expected code test_code")
		}
		if r.FormValue("client_id") != "test_client" {
			t.Errorf("Expected client_id test_client")
		}
		if r.FormValue("code_verifier") != "test_verifier" {
			t.Errorf("Expected code_verifier test_verifier")
		}

		resp := tokenResponse{
			AccessToken:  "access_token_123",
			TokenType:    "Bearer",
			Scope:        "streaming",
			ExpiresIn:    3600,
			RefreshToken: "refresh_token_456",
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()
	withTokenURL(t, server.URL)

	token, err := ExchangeCode(context.Background(), "test_client", "test_code", "http://127.0.0.1:8888/callback", "test_verifier")
	if err != nil {
		t.Fatalf("ExchangeCode() error = %v", err)
	}
	if token.AccessToken != "access_token_123" {
		t.Errorf("AccessToken = %q, want access_token_123", token.AccessToken)
	}
	if token.RefreshToken != "refresh_token_456" {
		t.Errorf("RefreshToken = %q, want refresh_token_456", token.RefreshToken)
	}
	if token.IsExpired() {
		t.Error("fresh token reports expired")
	}
	if token.Bearer() != "Bearer access_token_123" {
		t.Errorf("Bearer() = %q", token.Bearer())
	}
}

func TestExchangeCodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := tokenResponse{
			Error:     "invalid_grant",
			ErrorDesc: "Authorization code expired",
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()
	withTokenURL(t, server.URL)

	_, err := ExchangeCode(context.Background(), "c", "code", "http://127.0.0.1/callback", "v")
	if err == nil {
		t.Fatal("ExchangeCode() expected error")
	}
	if !strings.Contains(err.Error(), "invalid_grant") {
		t.Errorf("error = %v, want invalid_grant", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("Failed to parse form: %v", err)
		}

		if r.FormValue("grant_type") != "refresh_token" {
			t.Errorf("Expected grant_type refresh_token")
		}
		if r.FormValue("refresh_token") != "old_refresh" {
			t.Errorf("refresh_token = %q, want old_refresh", r.FormValue("refresh_token"))
		}

		resp := tokenResponse{
			AccessToken:  "new_access_token",
			TokenType:    "Bearer",
			ExpiresIn:    3600,
			RefreshToken: "new_refresh_token",
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()
	withTokenURL(t, server.URL)

	token, err := RefreshAccessToken(context.Background(), "client", "old_refresh")
	if err != nil {
		t.Fatalf("RefreshAccessToken() error = %v", err)
	}
	if token.AccessToken != "new_access_token" {
		t.Errorf("AccessToken = %q, want new_access_token", token.AccessToken)
	}
}

func TestRequestTokenContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := ExchangeCode(ctx, "client", "code", "http://localhost/callback", "verifier")
	if err == nil {
		t.Error("Expected error for cancelled context")
	}
}
