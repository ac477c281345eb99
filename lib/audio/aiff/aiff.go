// Package aiff reads AIFF and AIFF-C audio files.
package aiff

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/depp/extended"
)

// PCMType is the compression type for PCM (uncompressed) audio.
const PCMType = "NONE"

// ErrNotAIFF indicates that the file is not an AIFF file.
var ErrNotAIFF = errors.New("not an AIFF file")

var errUnexpectedEOF = errors.New("unexpected end of file in AIFF data")

// An AIFF is a decoded AIFF or AIFF-C file. Only the common and sound
// data chunks are interpreted; other chunks are skipped.
type AIFF struct {
	NumChannels int
	NumFrames   int
	SampleSize  int
	SampleRate  extended.Extended
	Compression [4]byte
	Data        []byte
}

// IsCompressed returns true if this is a compressed AIFF file.
func (a *AIFF) IsCompressed() bool {
	return string(a.Compression[:]) != PCMType
}

func (a *AIFF) parseCommon(data []byte, compressed bool) error {
	if compressed {
		if len(data) < 22 {
			return fmt.Errorf("invalid common chunk: len = %d, should be at least 22", len(data))
		}
	} else {
		if len(data) != 18 {
			return fmt.Errorf("invalid common chunk: len = %d, should be 18", len(data))
		}
	}
	a.NumChannels = int(binary.BigEndian.Uint16(data[0:2]))
	a.NumFrames = int(binary.BigEndian.Uint32(data[2:6]))
	a.SampleSize = int(binary.BigEndian.Uint16(data[6:8]))
	a.SampleRate = extended.FromBytesBigEndian(data[8:])
	if compressed {
		copy(a.Compression[:], data[18:22])
	} else {
		copy(a.Compression[:], PCMType)
	}
	return nil
}

// Parse an AIFF or AIFF-C file.
func Parse(data []byte) (*AIFF, error) {
	if len(data) < 12 {
		return nil, ErrNotAIFF
	}
	header := data[0:12:12]
	if string(header[0:4]) != "FORM" {
		return nil, ErrNotAIFF
	}
	var compressed bool
	switch string(header[8:12]) {
	case "AIFF":
	case "AIFC":
		compressed = true
	default:
		return nil, ErrNotAIFF
	}
	flen := binary.BigEndian.Uint32(header[4:8])
	if int(flen) < len(data)-8 {
		return nil, errors.New("AIFF file shorter than header indicates")
	}
	rest := data[12:]
	var a AIFF
	var hasCommon, hasData bool
	for len(rest) > 0 {
		if len(rest) < 8 {
			return nil, errUnexpectedEOF
		}
		ch := rest[0:8:8]
		rest = rest[8:]
		clen := binary.BigEndian.Uint32(ch[4:])
		if int(clen) > len(rest) {
			return nil, errUnexpectedEOF
		}
		cdata := rest[:clen]
		rest = rest[clen:]
		if clen&1 != 0 {
			if len(rest) == 0 {
				return nil, errUnexpectedEOF
			}
			rest = rest[1:]
		}
		switch string(ch[:4]) {
		case "COMM":
			if hasCommon {
				return nil, errors.New("multiple common chunks")
			}
			if err := a.parseCommon(cdata, compressed); err != nil {
				return nil, err
			}
			hasCommon = true
		case "SSND":
			if hasData {
				return nil, errors.New("multiple sound data chunks")
			}
			if len(cdata) < 8 {
				return nil, errors.New("sound data chunk too short")
			}
			d := make([]byte, len(cdata)-8)
			copy(d, cdata[8:])
			a.Data = d
			hasData = true
		}
	}
	if !hasCommon {
		return nil, errors.New("missing common chunk")
	}
	if !hasData {
		return nil, errors.New("missing sound data chunk")
	}
	return &a, nil
}

// Rate returns the sample rate rounded to the nearest integer.
func (a *AIFF) Rate() int {
	return int(a.SampleRate.Float64() + 0.5)
}

// GetSamples16 returns the samples in an AIFF file, which must contain
// uncompressed 16-bit PCM.
func (a *AIFF) GetSamples16() ([]int16, error) {
	if a.IsCompressed() {
		return nil, fmt.Errorf("unsupported compression: %q", a.Compression[:])
	}
	if a.SampleSize != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d", a.SampleSize)
	}
	raw := a.Data
	dec := make([]int16, len(raw)/2)
	for i := 0; i < len(dec); i++ {
		dec[i] = int16(binary.BigEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return dec, nil
}
