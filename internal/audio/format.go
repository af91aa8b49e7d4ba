// Package audio turns synthesized speech into playable sound: L16 decoding,
// WAV wrapping and a single-flight player.
package audio

import (
	"fmt"
	"time"
)

// Format is mono signed 16-bit little-endian PCM at the given sample rate in Hz.
type Format int

// SpeechFormat is what every speech provider delivers.
const SpeechFormat Format = 24000

const (
	channels = 1
	depth    = 16
)

// SampleRate returns the sample rate in Hz.
func (f Format) SampleRate() int { return int(f) }

// Channels returns the number of audio channels.
func (f Format) Channels() int { return channels }

// Depth returns the bit depth.
func (f Format) Depth() int { return depth }

// BytesRate returns the byte rate of the audio data.
func (f Format) BytesRate() int {
	return f.SampleRate() * channels * depth / 8
}

// Duration returns how long the given number of PCM bytes plays for.
func (f Format) Duration(bytes int64) time.Duration {
	if f <= 0 {
		return 0
	}
	return time.Duration(bytes) * time.Second / time.Duration(f.BytesRate())
}

// String returns the MIME form of the format.
func (f Format) String() string {
	return fmt.Sprintf("audio/L16; rate=%d; channels=%d", f.SampleRate(), channels)
}
