package core

import (
	"regexp"
	"testing"
)

var hex40 = regexp.MustCompile(`^[0-9a-f]{40}$`)

func TestDeviceID(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"Mini Spotify", "261c8afb85db368abd3c2eb073119b0e369c6c97"},
		{"mini spotify", "9d826045aca9bc2fe3c5bce50ccf25cd364c11c7"},
		{"Café", "7d640861339732865c0b8115ba34f943e54fd3d4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeviceID(tt.name)
			if got != tt.want {
				t.Errorf("DeviceID(%q) = %q, want %q", tt.name, got, tt.want)
			}
			if !hex40.MatchString(got) {
				t.Errorf("DeviceID(%q) = %q, want 40 lowercase hex characters", tt.name, got)
			}
		})
	}
}

func TestDeviceIDIsNotNormalised(t *testing.T) {
	if DeviceID("Mini Spotify") == DeviceID(" Mini Spotify") {
		t.Error("leading whitespace must change the identifier")
	}
	if DeviceID("Mini Spotify") == DeviceID("mini spotify") {
		t.Error("case must change the identifier")
	}
}

func TestParseDeviceType(t *testing.T) {
	tests := []struct {
		in      string
		want    DeviceType
		wantErr bool
	}{
		{"computer", DeviceTypeComputer, false},
		{"Observer", DeviceTypeObserver, false},
		{" speaker ", DeviceTypeSpeaker, false},
		{"audio_dongle", DeviceTypeAudioDongle, false},
		{"toaster", DeviceTypeUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDeviceType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDeviceType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDeviceType(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeviceTypeWireName(t *testing.T) {
	if got := DeviceTypeComputer.WireName(); got != "COMPUTER" {
		t.Errorf("WireName() = %q, want COMPUTER", got)
	}
	if got := DeviceTypeObserver.String(); got != "observer" {
		t.Errorf("String() = %q, want observer", got)
	}
}
