package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestLogin(t *testing.T) {
	challenges := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.FormValue("code") != "granted" {
			t.Errorf("code = %q, want granted", r.FormValue("code"))
		}
		if got, want := challengeFor(r.FormValue("code_verifier")), <-challenges; got != want {
			t.Errorf("code_verifier does not match the challenge sent: %q != %q", got, want)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "logged_in", ExpiresIn: 3600})
	}))
	defer server.Close()
	withTokenURL(t, server.URL)

	// Port 0 in the redirect makes the callback server pick a free port,
	// so the fake browser has to learn it from the listener instead.
	cfg := NewConfig("client", "http://127.0.0.1:0/callback")

	var messages []string
	opts := LoginOptions{
		Open: func(authURL string) error {
			u, err := url.Parse(authURL)
			if err != nil {
				return err
			}
			state := u.Query().Get("state")
			challenges <- u.Query().Get("code_challenge")
			go simulateRedirect(t, state)
			return nil
		},
		Notify: func(msg string) { messages = append(messages, msg) },
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tok, err := loginWithPortHook(ctx, cfg, opts)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tok.AccessToken != "logged_in" {
		t.Errorf("AccessToken = %q, want logged_in", tok.AccessToken)
	}
	if len(messages) == 0 {
		t.Error("Notify never called")
	}
}

func TestLoginTimeout(t *testing.T) {
	cfg := NewConfig("client", "http://127.0.0.1:0/callback")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Login(ctx, cfg, LoginOptions{Open: func(string) error { return nil }})
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("Login() error = %v, want timeout", err)
	}
}

var callbackPort = make(chan int, 1)

func simulateRedirect(t *testing.T, state string) {
	port := <-callbackPort
	u := fmt.Sprintf("http://127.0.0.1:%d/callback?code=granted&state=%s", port, url.QueryEscape(state))
	resp, err := http.Get(u)
	if err != nil {
		t.Errorf("redirect request failed: %v", err)
		return
	}
	_ = resp.Body.Close()
}

// loginWithPortHook runs Login while publishing the callback port.
func loginWithPortHook(ctx context.Context, cfg *Config, opts LoginOptions) (*Token, error) {
	orig := onCallbackListen
	onCallbackListen = func(port int) { callbackPort <- port }
	defer func() { onCallbackListen = orig }()
	return Login(ctx, cfg, opts)
}

func TestNewVerifier(t *testing.T) {
	v, err := newVerifier()
	if err != nil {
		t.Fatalf("newVerifier() error = %v", err)
	}
	if len(v.code) != verifierLength || len(v.state) != stateLength {
		t.Errorf("lengths = %d/%d, want %d/%d", len(v.code), len(v.state), verifierLength, stateLength)
	}

	sum := sha256.Sum256([]byte(v.code))
	if v.challenge != base64.RawURLEncoding.EncodeToString(sum[:]) {
		t.Errorf("challenge = %q, not the S256 of the verifier", v.challenge)
	}

	other, _ := newVerifier()
	if v.code == other.code || v.state == other.state {
		t.Error("two logins produced the same secret")
	}
}

func TestRandomStringIsURLSafe(t *testing.T) {
	for _, n := range []int{16, 43, 128} {
		s, err := randomString(n)
		if err != nil {
			t.Fatalf("randomString(%d) error = %v", n, err)
		}
		if len(s) != n {
			t.Errorf("len = %d, want %d", len(s), n)
		}
		if strings.Trim(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_") != "" {
			t.Errorf("randomString(%d) = %q has characters outside base64url", n, s)
		}
	}
}
