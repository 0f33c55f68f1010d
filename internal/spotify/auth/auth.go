package auth

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// SpotifyAuthURL is the Spotify authorization endpoint.
	SpotifyAuthURL = "https://accounts.spotify.com/authorize"

	// SpotifyTokenURL is the Spotify token endpoint.
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultRedirectURI is the default callback URI for the local server.
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"

	defaultCallbackPort = 8888
	defaultCallbackPath = "/callback"
)

// DefaultScopes cover what the Connect endpoint needs: reading the user's
// profile to match discovered credentials, and reading and steering playback.
var DefaultScopes = []string{
	"streaming",
	"user-read-private",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
}

// Config holds the OAuth configuration.
type Config struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
}

// NewConfig creates an OAuth configuration for clientID. An empty
// redirectURI falls back to DefaultRedirectURI.
func NewConfig(clientID, redirectURI string) *Config {
	if redirectURI == "" {
		redirectURI = DefaultRedirectURI
	}
	return &Config{
		ClientID:    clientID,
		RedirectURI: redirectURI,
		Scopes:      DefaultScopes,
	}
}

// AuthURL builds the authorization page URL for an S256 challenge.
func (c *Config) AuthURL(challenge, state string) string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("code_challenge_method", "S256")
	q.Set("code_challenge", challenge)
	q.Set("state", state)
	if len(c.Scopes) > 0 {
		q.Set("scope", strings.Join(c.Scopes, " "))
	}
	return SpotifyAuthURL + "?" + q.Encode()
}

// CallbackPort returns the port of the redirect URI, or 8888 if it has none.
func (c *Config) CallbackPort() int {
	u, err := url.Parse(c.RedirectURI)
	if err != nil || u.Port() == "" {
		return defaultCallbackPort
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return defaultCallbackPort
	}
	return port
}

// CallbackPath returns the path of the redirect URI.
func (c *Config) CallbackPath() string {
	u, err := url.Parse(c.RedirectURI)
	if err != nil || u.Path == "" {
		return defaultCallbackPath
	}
	return u.Path
}
