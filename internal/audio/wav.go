package audio

import "encoding/binary"

const wavHeaderSize = 44

// EncodeWAV wraps raw PCM in a RIFF/WAVE container.
func EncodeWAV(f Format, pcm []byte) []byte {
	out := make([]byte, wavHeaderSize+len(pcm))
	le := binary.LittleEndian

	copy(out[0:], "RIFF")
	le.PutUint32(out[4:], uint32(36+len(pcm)))
	copy(out[8:], "WAVE")

	copy(out[12:], "fmt ")
	le.PutUint32(out[16:], 16) // PCM chunk size
	le.PutUint16(out[20:], 1)  // linear PCM
	le.PutUint16(out[22:], uint16(f.Channels()))
	le.PutUint32(out[24:], uint32(f.SampleRate()))
	le.PutUint32(out[28:], uint32(f.BytesRate()))
	le.PutUint16(out[32:], uint16(f.Channels()*f.Depth()/8))
	le.PutUint16(out[34:], uint16(f.Depth()))

	copy(out[36:], "data")
	le.PutUint32(out[40:], uint32(len(pcm)))
	copy(out[wavHeaderSize:], pcm)
	return out
}
