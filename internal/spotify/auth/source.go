package auth

import (
	"context"
	"fmt"
	"sync"

	minierrors "github.com/tessro/minispot/internal/errors"
)

// Source hands out access tokens backed by TokenStorage, refreshing them
// when they are about to expire. It is safe for concurrent use.
type Source struct {
	storage *TokenStorage

	mu    sync.Mutex
	token *Token
}

// NewSource creates a token source refreshing with the storage's client id.
// The stored token, if any, is loaded lazily.
func NewSource(storage *TokenStorage) *Source {
	return &Source{storage: storage}
}

// Token returns a valid token, refreshing and persisting it if needed.
func (s *Source) Token(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		tok, err := s.storage.Load()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return nil, minierrors.ErrNotAuthenticated
		}
		s.token = tok
	}

	if !s.token.IsExpired() {
		return s.token, nil
	}
	if s.token.RefreshToken == "" {
		return nil, minierrors.ErrNotAuthenticated
	}

	fresh, err := RefreshAccessToken(ctx, s.storage.ClientID(), s.token.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	// Spotify may omit the refresh token on refresh.
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = s.token.RefreshToken
	}
	if err := s.storage.Save(fresh); err != nil {
		return nil, err
	}
	s.token = fresh
	return fresh, nil
}

// Set replaces the current token and persists it.
func (s *Source) Set(tok *Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Save(tok); err != nil {
		return err
	}
	s.token = tok
	return nil
}

// HasToken reports whether a token is held or stored, expired or not.
func (s *Source) HasToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != nil || s.storage.Exists()
}

// Clear forgets the token and removes it from storage.
func (s *Source) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return s.storage.Delete()
}
