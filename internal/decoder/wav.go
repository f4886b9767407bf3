package decoder

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/RMahshie/pitchscope/internal/audio"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE

	// streamed RIFF output carries this placeholder in place of a chunk size
	unknownChunkSize = 0xFFFFFFFF
)

// ErrInvalidWAV is returned when bytes are not a 16-bit PCM RIFF/WAVE stream
var ErrInvalidWAV = errors.New("invalid WAV data")

type wavFormat struct {
	tag        uint16
	channels   uint16
	sampleRate uint32
	blockAlign uint16
	bits       uint16
}

// ParseWAV decodes a 16-bit little-endian PCM WAV container into normalized samples
func ParseWAV(data []byte) (*audio.PCMBuffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE header", ErrInvalidWAV)
	}

	var format *wavFormat
	var pcm []byte

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8
		remaining := len(data) - offset

		switch id {
		case "fmt ":
			if size < 16 || int(size) > remaining {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			format = parseFormat(data[offset : offset+int(size)])
		case "data":
			if size == unknownChunkSize || size == 0 || int64(size) > int64(remaining) {
				size = uint32(remaining)
			}
			pcm = data[offset : offset+int(size)]
		}

		if pcm != nil {
			break
		}
		if int64(size) > int64(remaining) {
			break
		}
		offset += int(size) + int(size&1)
	}

	if format == nil {
		return nil, fmt.Errorf("%w: no fmt chunk", ErrInvalidWAV)
	}
	if pcm == nil {
		return nil, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
	}
	if format.tag != formatPCM {
		return nil, fmt.Errorf("%w: unsupported format tag 0x%04x", ErrInvalidWAV, format.tag)
	}
	if format.bits != 16 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidWAV, format.bits)
	}
	if format.channels == 0 || format.sampleRate == 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidWAV, format.channels, format.sampleRate)
	}

	blockAlign := int(format.channels) * 2
	frames := len(pcm) / blockAlign
	samples := make([]float64, frames*int(format.channels))
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
		samples[i] = float64(v) / 32768.0
	}

	return &audio.PCMBuffer{
		Samples:    samples,
		Channels:   int(format.channels),
		SampleRate: int(format.sampleRate),
	}, nil
}

func parseFormat(chunk []byte) *wavFormat {
	f := &wavFormat{
		tag:        binary.LittleEndian.Uint16(chunk[0:2]),
		channels:   binary.LittleEndian.Uint16(chunk[2:4]),
		sampleRate: binary.LittleEndian.Uint32(chunk[4:8]),
		blockAlign: binary.LittleEndian.Uint16(chunk[12:14]),
		bits:       binary.LittleEndian.Uint16(chunk[14:16]),
	}
	// WAVE_FORMAT_EXTENSIBLE stores the real tag at the head of the sub-format GUID
	if f.tag == formatExtensible && len(chunk) >= 26 {
		f.tag = binary.LittleEndian.Uint16(chunk[24:26])
	}
	return f
}
