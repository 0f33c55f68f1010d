package audio

import (
	"encoding/binary"
	"sync/atomic"
)

// MaxVolume is full scale on the Connect volume range.
const MaxVolume = 65535

// Volume reports the gain a player applies to its output.
type Volume interface {
	Attenuation() float64
}

// NoOpVolume leaves samples untouched regardless of the mixer setting.
type NoOpVolume struct{}

// Attenuation always returns 1.
func (NoOpVolume) Attenuation() float64 { return 1 }

// SoftMixer tracks the Connect volume and scales samples in software.
type SoftMixer struct {
	volume atomic.Uint32
}

// NewSoftMixer returns a mixer at full volume.
func NewSoftMixer() *SoftMixer {
	m := &SoftMixer{}
	m.volume.Store(MaxVolume)
	return m
}

// Volume returns the current volume in 0..65535.
func (m *SoftMixer) Volume() uint16 {
	return uint16(m.volume.Load())
}

// SetVolume sets the volume in 0..65535.
func (m *SoftMixer) SetVolume(v uint16) {
	m.volume.Store(uint32(v))
}

// SetPercent sets the volume from a 0-100 value.
func (m *SoftMixer) SetPercent(p int) {
	m.SetVolume(PercentToVolume(p))
}

// Attenuation returns the linear gain for the current volume.
func (m *SoftMixer) Attenuation() float64 {
	return float64(m.volume.Load()) / MaxVolume
}

// ScaleS16LE multiplies every 16-bit little endian sample by gain.
func ScaleS16LE(pcm []byte, gain float64) {
	if gain >= 1 {
		return
	}
	for i := 0; i+1 < len(pcm); i += 2 {
		s := int16(binary.LittleEndian.Uint16(pcm[i:]))
		binary.LittleEndian.PutUint16(pcm[i:], uint16(int16(float64(s)*gain)))
	}
}

// PercentToVolume maps 0-100 onto 0..65535, clamping out of range input.
func PercentToVolume(p int) uint16 {
	if p <= 0 {
		return 0
	}
	if p >= 100 {
		return MaxVolume
	}
	return uint16(p * MaxVolume / 100)
}

// VolumeToPercent maps 0..65535 onto 0-100, rounding to nearest.
func VolumeToPercent(v uint16) int {
	return (int(v)*100 + MaxVolume/2) / MaxVolume
}
