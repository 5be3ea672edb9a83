package recorder

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWAVEncoderHeader(t *testing.T) {
	enc := NewWAVEncoder(48000, 1, 16)
	pcm := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	assert.NoError(t, enc.Write(pcm[:4]))
	assert.NoError(t, enc.Write(pcm[4:]))

	out, err := enc.Finalize()
	assert.NoError(t, err)
	assert.Len(t, out, 44+len(pcm))

	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(out[4:8]))
	assert.Equal(t, "WAVE", string(out[8:12]))

	assert.Equal(t, "fmt ", string(out[12:16]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(out[16:20]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[20:22]))     // PCM
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[22:24]))     // mono
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(out[24:28])) // sample rate
	assert.Equal(t, uint32(96000), binary.LittleEndian.Uint32(out[28:32])) // byte rate
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(out[32:34]))     // block align
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(out[34:36]))    // bit depth

	assert.Equal(t, "data", string(out[36:40]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(out[40:44]))
	assert.Equal(t, pcm, out[44:])
}

// A session with zero captured samples still produces a well-formed container.
func TestWAVEncoderEmptyPayload(t *testing.T) {
	enc := NewWAVEncoder(0, 0, 0) // zero values fall back to 48kHz mono 16-bit

	out, err := enc.Finalize()
	assert.NoError(t, err)
	assert.Len(t, out, 44)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(out[40:44]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(out[24:28]))
}
