package recorder

import (
	"bytes"
	"encoding/binary"
)

// WAVEncoder is the guaranteed last-resort strategy: raw PCM wrapped in a
// RIFF/WAVE container. No codec needed, always available.
type WAVEncoder struct {
	sampleRate int
	channels   int
	bitDepth   int
	pcm        bytes.Buffer
}

func NewWAVEncoder(sampleRate, channels, bitDepth int) *WAVEncoder {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	if channels <= 0 {
		channels = 1
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	return &WAVEncoder{sampleRate: sampleRate, channels: channels, bitDepth: bitDepth}
}

func (e *WAVEncoder) Write(chunk []byte) error {
	_, err := e.pcm.Write(chunk)
	return err
}

func (e *WAVEncoder) Finalize() ([]byte, error) {
	data := e.pcm.Bytes()

	blockAlign := e.channels * e.bitDepth / 8
	byteRate := e.sampleRate * blockAlign

	var out bytes.Buffer
	out.Grow(44 + len(data))

	// RIFF chunk
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(36+len(data)))
	out.WriteString("WAVE")

	// fmt chunk (PCM)
	out.WriteString("fmt ")
	binary.Write(&out, binary.LittleEndian, uint32(16))
	binary.Write(&out, binary.LittleEndian, uint16(1)) // PCM format tag
	binary.Write(&out, binary.LittleEndian, uint16(e.channels))
	binary.Write(&out, binary.LittleEndian, uint32(e.sampleRate))
	binary.Write(&out, binary.LittleEndian, uint32(byteRate))
	binary.Write(&out, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&out, binary.LittleEndian, uint16(e.bitDepth))

	// data chunk
	out.WriteString("data")
	binary.Write(&out, binary.LittleEndian, uint32(len(data)))
	out.Write(data)

	return out.Bytes(), nil
}
