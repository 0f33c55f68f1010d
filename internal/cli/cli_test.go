package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/config"
	"github.com/tessro/minispot/internal/connect"
	"github.com/tessro/minispot/internal/core"
	minierrors "github.com/tessro/minispot/internal/errors"
)

func TestConnectConfigFromDefaults(t *testing.T) {
	got, err := connectConfig(config.Default())
	if err != nil {
		t.Fatalf("connectConfig() error = %v", err)
	}
	if got != connect.DefaultConfig() {
		t.Errorf("connectConfig(defaults) = %+v, want %+v", got, connect.DefaultConfig())
	}
}

func TestConnectConfigOverrides(t *testing.T) {
	c := config.Default()
	c.Device.Name = "Kitchen "
	c.Device.AdvertisedType = "Speaker"
	off := false
	c.Device.VolumeControl = &off

	got, err := connectConfig(c)
	if err != nil {
		t.Fatalf("connectConfig() error = %v", err)
	}
	if got.DeviceName != "Kitchen " {
		t.Errorf("DeviceName = %q, the name must not be normalised", got.DeviceName)
	}
	if got.AdvertisedType != core.DeviceTypeSpeaker {
		t.Errorf("AdvertisedType = %v, want speaker", got.AdvertisedType)
	}
	if got.HasVolumeCtrl {
		t.Error("HasVolumeCtrl = true, want false")
	}

	c.Device.ConnectType = "toaster"
	if _, err := connectConfig(c); err == nil {
		t.Error("connectConfig() should reject an unknown device type")
	}
}

func TestDesktopFactoryFailureLeavesNoSurface(t *testing.T) {
	c := config.Default()
	c.Device.ConnectType = "bogus"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := desktopFactory(c, zap.NewNop())(ctx, nil)
	if err == nil {
		t.Fatal("factory should fail on an unknown device type")
	}
	// A nil *Orchestrator wrapped in the interface would pass the app's
	// unbound check and panic on the first bound call.
	if s != nil {
		t.Fatalf("surface = %#v, want a nil interface", s)
	}
}

func TestAudioFormat(t *testing.T) {
	c := config.Default()
	c.Audio.SampleRate = 48000
	c.Audio.Channels = 1

	f := audioFormat(c)
	if f.SampleRate != 48000 || f.Channels != 1 || f.BitDepth != 16 {
		t.Errorf("audioFormat() = %+v", f)
	}
}

func TestNewLauncher(t *testing.T) {
	c := config.Default()
	c.Discovery.Port = 4070
	c.Discovery.Interfaces = []string{"eth0"}

	l := newLauncher(c, nil)
	if l.Options.Port != 4070 || l.Options.Path != "/" {
		t.Errorf("Options = %+v", l.Options)
	}
	if len(l.Interfaces) != 1 || l.Interfaces[0] != "eth0" {
		t.Errorf("Interfaces = %v", l.Interfaces)
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(*config.Config) bool
		wantErr bool
	}{
		{"string", "device.name", "Den", func(c *config.Config) bool { return c.Device.Name == "Den" }, false},
		{"int", "device.initial_volume", "70", func(c *config.Config) bool { return c.Device.InitialVolume == 70 }, false},
		{"bool", "device.volume_control", "false", func(c *config.Config) bool { return !c.Device.HasVolumeControl() }, false},
		{"list", "discovery.interfaces", "eth0, wlan0", func(c *config.Config) bool { return len(c.Discovery.Interfaces) == 2 }, false},
		{"not an int", "discovery.port", "abc", nil, true},
		{"out of range", "device.initial_volume", "150", nil, true},
		{"bad backend", "audio.backend", "oss", nil, true},
		{"unknown key", "device.colour", "red", nil, true},
		{"bad format", "name", "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]interface{}{}
			got, err := setConfigValue(raw, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("setConfigValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !tt.check(got) {
				t.Errorf("setConfigValue(%s=%s) produced %+v", tt.key, tt.value, got)
			}
		})
	}
}

func TestSetConfigValueValidationError(t *testing.T) {
	_, err := setConfigValue(map[string]interface{}{}, "log.level", "trace")
	if !errors.Is(err, minierrors.ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
	}
}

func TestSetupAnswers(t *testing.T) {
	c := config.Default()
	a := answersFrom(c)
	if a.Name != "Mini Spotify" || a.Volume != "50" || a.AdvertisedType != "computer" {
		t.Fatalf("answersFrom(defaults) = %+v", a)
	}

	a.Name = "Living Room"
	a.Volume = " 35 "
	a.AdvertisedType = "speaker"
	a.Backend = "null"
	if err := a.apply(c); err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if c.Device.Name != "Living Room" || c.Device.InitialVolume != 35 || c.Audio.Backend != "null" {
		t.Errorf("apply() produced %+v", c)
	}

	bad := []setupAnswers{
		{Name: "  ", Volume: "50", AdvertisedType: "computer"},
		{Name: "x", Volume: "loud", AdvertisedType: "computer"},
		{Name: "x", Volume: "-1", AdvertisedType: "computer"},
		{Name: "x", Volume: "50", AdvertisedType: "computer", LogLevel: "chatty"},
	}
	for _, b := range bad {
		if err := b.apply(config.Default()); err == nil {
			t.Errorf("apply(%+v) should fail", b)
		}
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableWriter(&buf, "NAME", "DEVICE ID")
	tbl.Row("Mini Spotify", core.DeviceID("Mini Spotify"))
	tbl.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "NAME") || !strings.Contains(lines[1], core.DeviceID("Mini Spotify")) {
		t.Errorf("unexpected table:\n%s", buf.String())
	}
}

func TestCommandTree(t *testing.T) {
	want := []string{"run", "tui", "headless", "auth", "config", "setup", "device-id", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == rootCmd {
			t.Errorf("command %q not registered", name)
		}
	}
}
