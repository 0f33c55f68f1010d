package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultTokenFileName is the file name used when spotify.token_file is unset.
const DefaultTokenFileName = "token.json"

// storedToken is the on-disk record. A refresh token only works with the
// client it was issued to, so the client id is kept alongside it.
type storedToken struct {
	ClientID string `json:"client_id"`
	Token    *Token `json:"token"`
}

// TokenStorage persists the token of one client id in one file.
type TokenStorage struct {
	path     string
	clientID string
}

// NewTokenStorage opens the token file at path for clientID. An empty path
// means $XDG_CONFIG_HOME/minispot/token.json.
func NewTokenStorage(path, clientID string) (*TokenStorage, error) {
	if clientID == "" {
		return nil, errors.New("client id must not be empty")
	}
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(dir, "minispot", DefaultTokenFileName)
	}
	return &TokenStorage{path: path, clientID: clientID}, nil
}

// Save writes the token, owner-readable only.
func (s *TokenStorage) Save(token *Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(storedToken{ClientID: s.clientID, Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load returns the stored token, or nil when there is none for this client.
// A token issued to another client id is treated as absent.
func (s *TokenStorage) Load() (*Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var rec storedToken
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	if rec.ClientID != s.clientID || rec.Token == nil {
		return nil, nil
	}
	return rec.Token, nil
}

// Delete removes the token file.
func (s *TokenStorage) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// Exists reports whether a token for this client is stored.
func (s *TokenStorage) Exists() bool {
	tok, err := s.Load()
	return err == nil && tok != nil
}

// Path returns the path to the token file.
func (s *TokenStorage) Path() string {
	return s.path
}

// ClientID returns the client the stored token belongs to.
func (s *TokenStorage) ClientID() string {
	return s.clientID
}
