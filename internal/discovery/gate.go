// Package discovery implements the zeroconf side of Spotify Connect: it
// advertises the device on the LAN and hands out the first credentials a
// controller pushes to it.
package discovery

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/core"
	minierrors "github.com/tessro/minispot/internal/errors"
)

// Status codes of the zeroconf API.
const (
	statusOK         = 101
	statusBadRequest = 102
)

const (
	libraryVersion = "minispot-1.0"
	brandName      = "minispot"
	shutdownWait   = 2 * time.Second
)

// Options controls how the gate is exposed.
type Options struct {
	Port       int    // 0 picks a free port
	Path       string // default "/"
	Advertiser Advertiser
	Logger     *zap.Logger
}

// Gate is a running discovery endpoint.
type Gate struct {
	cfg    core.DiscoveryConfig
	logger *zap.Logger

	listener net.Listener
	server   *http.Server
	adv      Advertiser
	served   chan struct{}

	creds     chan core.Credentials
	once      sync.Once
	closed    chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	activeUser string
}

// infoResponse is the getInfo payload.
type infoResponse struct {
	Status           int    `json:"status"`
	StatusString     string `json:"statusString"`
	SpotifyError     int    `json:"spotifyError"`
	Version          string `json:"version"`
	DeviceID         string `json:"deviceID"`
	RemoteName       string `json:"remoteName"`
	DeviceType       string `json:"deviceType"`
	ActiveUser       string `json:"activeUser"`
	Volume           int    `json:"volume"`
	VoiceSupport     string `json:"voiceSupport"`
	LibraryVersion   string `json:"libraryVersion"`
	BrandDisplayName string `json:"brandDisplayName"`
	ModelDisplayName string `json:"modelDisplayName"`
	ClientID         string `json:"clientID"`
}

type statusResponse struct {
	Status       int    `json:"status"`
	StatusString string `json:"statusString"`
	SpotifyError int    `json:"spotifyError"`
}

// Launch starts the HTTP endpoint and advertises it. Either failing is fatal
// to the launch; nothing is retried.
func Launch(ctx context.Context, cfg core.DiscoveryConfig, opts Options) (*Gate, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	path := opts.Path
	if path == "" {
		path = "/"
	}
	adv := opts.Advertiser
	if adv == nil {
		adv = &MDNS{}
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", opts.Port))
	if err != nil {
		return nil, fmt.Errorf("discovery listen: %w", err)
	}

	g := &Gate{
		cfg:      cfg,
		logger:   logger.Named("discovery"),
		listener: listener,
		adv:      adv,
		served:   make(chan struct{}),
		creds:    make(chan core.Credentials, 1),
		closed:   make(chan struct{}),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET(path, g.handleGet)
	e.POST(path, g.handlePost)
	g.server = &http.Server{
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer close(g.served)
		if err := g.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("discovery server stopped", zap.Error(err))
		}
	}()

	port := listener.Addr().(*net.TCPAddr).Port
	txt := []string{"CPath=" + path, "VERSION=1.0", "Stack=SP"}
	if err := adv.Advertise(cfg.Name, port, txt); err != nil {
		g.shutdownServer()
		return nil, fmt.Errorf("discovery advertise: %w", err)
	}

	g.logger.Info("advertising",
		zap.String("name", cfg.Name),
		zap.String("device_id", cfg.DeviceID),
		zap.Int("port", port))
	return g, nil
}

// Addr returns the address the endpoint listens on.
func (g *Gate) Addr() net.Addr {
	return g.listener.Addr()
}

// NextCredential blocks until a controller pushes credentials. Only the first
// credentials are ever delivered.
func (g *Gate) NextCredential(ctx context.Context) (core.Credentials, error) {
	select {
	case c := <-g.creds:
		return c, nil
	case <-g.closed:
		return core.Credentials{}, minierrors.ErrDiscoveryClosed
	case <-ctx.Done():
		return core.Credentials{}, ctx.Err()
	}
}

// Close withdraws the advertisement and stops the endpoint.
func (g *Gate) Close() error {
	var err error
	g.closeOnce.Do(func() {
		close(g.closed)
		g.adv.Shutdown()
		err = g.shutdownServer()
	})
	return err
}

func (g *Gate) shutdownServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	err := g.server.Shutdown(ctx)
	<-g.served
	return err
}

func (g *Gate) handleGet(c echo.Context) error {
	if action := c.QueryParam("action"); action != "getInfo" {
		return c.JSON(http.StatusBadRequest, statusResponse{
			Status:       statusBadRequest,
			StatusString: "ERROR-INVALID-ACTION",
		})
	}

	g.mu.Lock()
	active := g.activeUser
	g.mu.Unlock()

	return c.JSON(http.StatusOK, infoResponse{
		Status:           statusOK,
		StatusString:     "OK",
		Version:          "2.7.1",
		DeviceID:         g.cfg.DeviceID,
		RemoteName:       g.cfg.Name,
		DeviceType:       g.cfg.DeviceType.WireName(),
		ActiveUser:       active,
		Volume:           volumeToWire(g.cfg.InitialVolume),
		VoiceSupport:     "NO",
		LibraryVersion:   libraryVersion,
		BrandDisplayName: brandName,
		ModelDisplayName: brandName,
		ClientID:         g.cfg.ClientID,
	})
}

func (g *Gate) handlePost(c echo.Context) error {
	if action := c.FormValue("action"); action != "addUser" {
		return c.JSON(http.StatusBadRequest, statusResponse{
			Status:       statusBadRequest,
			StatusString: "ERROR-INVALID-ACTION",
		})
	}

	username := c.FormValue("userName")
	blob := c.FormValue("blob")
	if username == "" || blob == "" {
		g.logger.Warn("rejected malformed addUser", zap.String("remote", c.RealIP()))
		return c.JSON(http.StatusBadRequest, statusResponse{
			Status:       statusBadRequest,
			StatusString: "ERROR-MISSING-FIELDS",
		})
	}

	creds := core.Credentials{
		Username:  username,
		AuthType:  c.FormValue("tokenType"),
		Blob:      decodeBlob(blob),
		ClientKey: c.FormValue("clientKey"),
	}

	delivered := false
	g.once.Do(func() {
		g.mu.Lock()
		g.activeUser = username
		g.mu.Unlock()
		g.creds <- creds
		delivered = true
	})
	if delivered {
		g.logger.Info("credentials received", zap.String("user", username))
	} else {
		g.logger.Debug("ignoring additional addUser", zap.String("user", username))
	}

	return c.JSON(http.StatusOK, statusResponse{
		Status:       statusOK,
		StatusString: "OK",
	})
}

// decodeBlob accepts base64 blobs and falls back to the raw bytes.
func decodeBlob(s string) []byte {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b
	}
	return []byte(s)
}

// volumeToWire maps 0-100 onto the 0-65535 scale controllers expect.
func volumeToWire(v int) int {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return v * 65535 / 100
}
