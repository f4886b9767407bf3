package decoder

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWAV_RoundTrip(t *testing.T) {
	samples := []int16{0, 16384, -16384, 32767, -32768, 1}
	buf, err := ParseWAV(encodeWAV(samples, 44100, 2))
	require.NoError(t, err)

	assert.Equal(t, 2, buf.Channels)
	assert.Equal(t, 44100, buf.SampleRate)
	assert.Equal(t, 3, buf.Frames())
	require.Len(t, buf.Samples, 6)
	assert.Equal(t, 0.0, buf.Samples[0])
	assert.Equal(t, 0.5, buf.Samples[1])
	assert.Equal(t, -0.5, buf.Samples[2])
	assert.Equal(t, -1.0, buf.Samples[4])
}

func TestParseWAV_StreamedSizes(t *testing.T) {
	data := encodeWAV([]int16{100, 200, 300, 400}, 44100, 1)
	// piped output has no seekable header, so sizes are placeholders
	binary.LittleEndian.PutUint32(data[4:8], unknownChunkSize)
	binary.LittleEndian.PutUint32(data[40:44], unknownChunkSize)

	buf, err := ParseWAV(data)
	require.NoError(t, err)
	assert.Equal(t, 4, buf.Frames())
}

func TestParseWAV_SkipsUnknownChunks(t *testing.T) {
	data := encodeWAV([]int16{1, 2, 3}, 8000, 1)
	list := append([]byte("LIST"), 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(list[4:8], 3)
	list = append(list, 'a', 'b', 'c', 0) // odd chunk plus pad byte

	withList := append([]byte{}, data[:36]...)
	withList = append(withList, list...)
	withList = append(withList, data[36:]...)

	buf, err := ParseWAV(withList)
	require.NoError(t, err)
	assert.Equal(t, 3, buf.Frames())
	assert.Equal(t, 8000, buf.SampleRate)
}

func TestParseWAV_DropsPartialFrame(t *testing.T) {
	data := encodeWAV([]int16{1, 2, 3, 4}, 8000, 2)
	data = append(data, 0x01) // dangling byte
	binary.LittleEndian.PutUint32(data[40:44], unknownChunkSize)

	buf, err := ParseWAV(data)
	require.NoError(t, err)
	assert.Equal(t, 2, buf.Frames())
	assert.Len(t, buf.Samples, 4)
}

func TestParseWAV_Invalid(t *testing.T) {
	eightBit := encodeWAV([]int16{1, 2}, 8000, 1)
	binary.LittleEndian.PutUint16(eightBit[34:36], 8)

	float := encodeWAV([]int16{1, 2}, 8000, 1)
	binary.LittleEndian.PutUint16(float[20:22], 3)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not riff", []byte("OggS\x00\x02\x00\x00\x00\x00\x00\x00\x00\x00")},
		{"header only", []byte("RIFF\x00\x00\x00\x00WAVE")},
		{"unsupported bit depth", eightBit},
		{"float samples", float},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWAV(tt.data)
			assert.ErrorIs(t, err, ErrInvalidWAV)
		})
	}
}

// encodeWAV writes interleaved 16-bit samples as a canonical PCM WAV container
func encodeWAV(samples []int16, sampleRate, channels int) []byte {
	dataSize := len(samples) * 2
	byteRate := sampleRate * channels * 2
	blockAlign := channels * 2

	buf := &bytes.Buffer{}
	buf.Grow(44 + dataSize)

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(formatPCM))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	_ = binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}
