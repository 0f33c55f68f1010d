// Package audio provides PCM output: sink discovery over malgo, a ring
// buffered sink, and volume handling.
package audio

// Format describes interleaved PCM samples.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Encoding   string
}

// DefaultFormat is signed 16-bit little endian stereo at 44.1 kHz.
var DefaultFormat = Format{
	SampleRate: 44100,
	Channels:   2,
	BitDepth:   16,
	Encoding:   "pcm_s16le",
}

// FrameSize returns the size in bytes of one frame across all channels.
func (f Format) FrameSize() int {
	return f.Channels * f.BitDepth / 8
}

// BytesFor returns the number of bytes that hold ms milliseconds of audio,
// rounded down to a whole frame.
func (f Format) BytesFor(ms int) int {
	frames := f.SampleRate * ms / 1000
	return frames * f.FrameSize()
}
