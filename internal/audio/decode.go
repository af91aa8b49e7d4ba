package audio

import (
	"encoding/binary"
	"math"
)

// DecodeL16 converts signed 16-bit little-endian PCM to float samples in
// [-1, 1). A trailing odd byte is ignored.
func DecodeL16(data []byte) []float32 {
	n := len(data) / 2
	out := make([]float32, n)
	for i := range n {
		s := int16(binary.LittleEndian.Uint16(data[2*i:]))
		out[i] = float32(s) / 32768
	}
	return out
}

// EncodeFloat32LE packs samples as little-endian IEEE floats, the layout
// float32 sound devices consume.
func EncodeFloat32LE(samples []float32) []byte {
	out := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(s))
	}
	return out
}
