package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CallbackResult contains the result of the OAuth callback.
type CallbackResult struct {
	Code  string
	State string
	Error string
}

// CallbackServer receives the OAuth redirect from Spotify on the loopback
// interface.
type CallbackServer struct {
	server   *http.Server
	listener net.Listener
	result   chan CallbackResult
}

// NewCallbackServer creates a callback server listening on 127.0.0.1:port
// that answers redirects to path. Port 0 picks a free port.
func NewCallbackServer(port int, path string) (*CallbackServer, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	if path == "" {
		path = "/callback"
	}

	cs := &CallbackServer{
		listener: listener,
		result:   make(chan CallbackResult, 1),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET(path, cs.handleCallback)

	cs.server = &http.Server{
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return cs, nil
}

// Start begins serving HTTP requests in the background.
func (cs *CallbackServer) Start() {
	go func() {
		if err := cs.server.Serve(cs.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case cs.result <- CallbackResult{Error: err.Error()}:
			default:
			}
		}
	}()
}

// Wait blocks until a callback is received or context is cancelled.
func (cs *CallbackServer) Wait(ctx context.Context) (CallbackResult, error) {
	select {
	case result := <-cs.result:
		return result, nil
	case <-ctx.Done():
		return CallbackResult{}, ctx.Err()
	}
}

// Shutdown gracefully shuts down the server.
func (cs *CallbackServer) Shutdown(ctx context.Context) error {
	return cs.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (cs *CallbackServer) Port() int {
	return cs.listener.Addr().(*net.TCPAddr).Port
}

func (cs *CallbackServer) handleCallback(c echo.Context) error {
	result := CallbackResult{
		Code:  c.QueryParam("code"),
		State: c.QueryParam("state"),
		Error: c.QueryParam("error"),
	}

	// Duplicate callbacks are dropped.
	select {
	case cs.result <- result:
	default:
	}

	if result.Error != "" {
		return c.HTML(http.StatusBadRequest, fmt.Sprintf(pageTemplate,
			"Authentication Failed", "Error: "+html.EscapeString(result.Error)))
	}
	return c.HTML(http.StatusOK, fmt.Sprintf(pageTemplate,
		"Authentication Successful", "Mini Spotify is now linked to your account."))
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head><title>%[1]s</title></head>
<body>
<h1>%[1]s</h1>
<p>%[2]s</p>
<p>You can close this window.</p>
</body>
</html>`
