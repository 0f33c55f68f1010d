package core

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// DeviceType is the kind of device a Connect endpoint presents as.
type DeviceType int

const (
	DeviceTypeUnknown DeviceType = iota
	DeviceTypeComputer
	DeviceTypeTablet
	DeviceTypeSmartphone
	DeviceTypeSpeaker
	DeviceTypeTV
	DeviceTypeAVR
	DeviceTypeSTB
	DeviceTypeAudioDongle
	DeviceTypeGameConsole
	DeviceTypeCastAudio
	DeviceTypeCastVideo
	DeviceTypeAutomobile
	DeviceTypeSmartwatch
	DeviceTypeChromebook
	DeviceTypeUnknownSpotify
	DeviceTypeCarThing
	DeviceTypeObserver
	DeviceTypeHomeThing
)

var deviceTypeNames = map[DeviceType]string{
	DeviceTypeUnknown:        "unknown",
	DeviceTypeComputer:       "computer",
	DeviceTypeTablet:         "tablet",
	DeviceTypeSmartphone:     "smartphone",
	DeviceTypeSpeaker:        "speaker",
	DeviceTypeTV:             "tv",
	DeviceTypeAVR:            "avr",
	DeviceTypeSTB:            "stb",
	DeviceTypeAudioDongle:    "audio_dongle",
	DeviceTypeGameConsole:    "game_console",
	DeviceTypeCastAudio:      "cast_audio",
	DeviceTypeCastVideo:      "cast_video",
	DeviceTypeAutomobile:     "automobile",
	DeviceTypeSmartwatch:     "smartwatch",
	DeviceTypeChromebook:     "chromebook",
	DeviceTypeUnknownSpotify: "unknown_spotify",
	DeviceTypeCarThing:       "car_thing",
	DeviceTypeObserver:       "observer",
	DeviceTypeHomeThing:      "home_thing",
}

// String returns the lowercase config name of the device type.
func (t DeviceType) String() string {
	if name, ok := deviceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DeviceType(%d)", int(t))
}

// WireName returns the uppercase form used in discovery responses.
func (t DeviceType) WireName() string {
	return strings.ToUpper(t.String())
}

// ParseDeviceType maps a config name (case-insensitive) to a DeviceType.
func ParseDeviceType(s string) (DeviceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range deviceTypeNames {
		if name == s {
			return t, nil
		}
	}
	return DeviceTypeUnknown, fmt.Errorf("unknown device type: %q", s)
}

// DeviceID derives the Connect device identifier from a device name: the
// lowercase hex SHA-1 of the name's bytes. The name is used verbatim.
func DeviceID(name string) string {
	sum := sha1.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}

// ConnectConfig describes the Connect endpoint handed to the supervisor.
type ConnectConfig struct {
	Name          string
	DeviceType    DeviceType
	InitialVolume int // 0-100
	HasVolumeCtrl bool
}

// DiscoveryConfig describes how the device is advertised during launch.
type DiscoveryConfig struct {
	Name          string
	DeviceID      string
	ClientID      string
	DeviceType    DeviceType
	InitialVolume int // 0-100
	HasVolumeCtrl bool
}
