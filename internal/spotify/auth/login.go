package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// verifierLength is within the 43-128 characters Spotify accepts.
	verifierLength = 64
	stateLength    = 32
)

// onCallbackListen is invoked with the bound callback port.
var onCallbackListen = func(int) {}

// LoginOptions controls the interactive PKCE login.
type LoginOptions struct {
	// Open is called with the authorization URL. An error means the caller
	// must show the URL to the user some other way.
	Open func(url string) error
	// Notify receives progress messages. Optional.
	Notify func(msg string)
}

// Login runs the authorization code flow with PKCE: it serves the redirect
// URI locally, opens the authorization page, and exchanges the returned
// code for a token. The token is not persisted.
func Login(ctx context.Context, cfg *Config, opts LoginOptions) (*Token, error) {
	notify := opts.Notify
	if notify == nil {
		notify = func(string) {}
	}

	pkce, err := newVerifier()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PKCE: %w", err)
	}

	cs, err := NewCallbackServer(cfg.CallbackPort(), cfg.CallbackPath())
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	cs.Start()
	onCallbackListen(cs.Port())
	defer func() { _ = cs.Shutdown(context.Background()) }()

	authURL := cfg.AuthURL(pkce.challenge, pkce.state)
	notify("Opening browser for Spotify authentication...")
	if opts.Open == nil || opts.Open(authURL) != nil {
		notify("Please open this URL in your browser:\n\n" + authURL + "\n")
	}

	notify("Waiting for authentication...")
	result, err := cs.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication timed out: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("authentication failed: %s", result.Error)
	}
	if result.State != pkce.state {
		return nil, errors.New("state mismatch: possible CSRF attack")
	}

	notify("Exchanging code for tokens...")
	return ExchangeCode(ctx, cfg.ClientID, result.Code, cfg.RedirectURI, pkce.code)
}

// verifier is the per-login PKCE secret with its S256 challenge and the
// CSRF state echoed back on the redirect.
type verifier struct {
	code      string
	challenge string
	state     string
}

func newVerifier() (verifier, error) {
	code, err := randomString(verifierLength)
	if err != nil {
		return verifier{}, err
	}
	state, err := randomString(stateLength)
	if err != nil {
		return verifier{}, err
	}
	return verifier{code: code, challenge: challengeFor(code), state: state}, nil
}

// randomString returns n URL-safe base64 characters.
func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}

// challengeFor is base64url(sha256(code)).
func challengeFor(code string) string {
	sum := sha256.Sum256([]byte(code))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
