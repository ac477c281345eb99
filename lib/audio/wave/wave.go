// Package wave reads uncompressed RIFF/WAVE files.
package wave

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrNotWAVE indicates that the file is not a WAVE file.
var ErrNotWAVE = errors.New("not a WAVE file")

var errUnexpectedEOF = errors.New("unexpected end of file in WAVE data")

const formatPCM = 1

// A WAV is a decoded WAVE file.
type WAV struct {
	NumChannels   int
	SampleRate    int
	BitsPerSample int
	Data          []byte
}

// Parse a WAVE file. Only uncompressed PCM data is supported.
func Parse(data []byte) (*WAV, error) {
	if len(data) < 12 {
		return nil, ErrNotWAVE
	}
	header := data[0:12:12]
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, ErrNotWAVE
	}
	flen := binary.LittleEndian.Uint32(header[4:8])
	if int(flen) < len(data)-8 {
		return nil, errors.New("WAVE file shorter than header indicates")
	}
	rest := data[12:]
	var w WAV
	var hasFormat, hasData bool
	for len(rest) > 0 {
		if len(rest) < 8 {
			return nil, errUnexpectedEOF
		}
		ch := rest[0:8:8]
		rest = rest[8:]
		clen := binary.LittleEndian.Uint32(ch[4:])
		if int(clen) > len(rest) {
			return nil, errUnexpectedEOF
		}
		cdata := rest[:clen]
		rest = rest[clen:]
		if clen&1 != 0 && len(rest) > 0 {
			rest = rest[1:]
		}
		switch string(ch[:4]) {
		case "fmt ":
			if hasFormat {
				return nil, errors.New("multiple format chunks")
			}
			if len(cdata) < 16 {
				return nil, fmt.Errorf("format chunk is %d bytes, should be at least 16", len(cdata))
			}
			format := binary.LittleEndian.Uint16(cdata[0:2])
			if format != formatPCM {
				return nil, fmt.Errorf("unsupported WAVE format tag: %d", format)
			}
			w.NumChannels = int(binary.LittleEndian.Uint16(cdata[2:4]))
			w.SampleRate = int(binary.LittleEndian.Uint32(cdata[4:8]))
			w.BitsPerSample = int(binary.LittleEndian.Uint16(cdata[14:16]))
			hasFormat = true
		case "data":
			if hasData {
				return nil, errors.New("multiple data chunks")
			}
			d := make([]byte, len(cdata))
			copy(d, cdata)
			w.Data = d
			hasData = true
		}
	}
	if !hasFormat {
		return nil, errors.New("missing format chunk")
	}
	if !hasData {
		return nil, errors.New("missing data chunk")
	}
	return &w, nil
}

// GetSamples16 returns the samples in a WAVE file, which must contain
// signed 16-bit PCM.
func (w *WAV) GetSamples16() ([]int16, error) {
	if w.BitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d", w.BitsPerSample)
	}
	raw := w.Data
	dec := make([]int16, len(raw)/2)
	for i := 0; i < len(dec); i++ {
		dec[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return dec, nil
}
