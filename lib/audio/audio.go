// Package audio loads PCM audio clips for encoding.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/depp/upd7759/lib/audio/aiff"
	"github.com/depp/upd7759/lib/audio/wave"
)

// ErrUnknownFormat indicates that the input is neither a WAVE nor an
// AIFF file.
var ErrUnknownFormat = errors.New("unknown audio format")

// A Clip is a mono 16-bit PCM audio clip.
type Clip struct {
	Rate    int
	Samples []int16
}

// ReadClip reads a WAVE or AIFF file, identified by its magic number.
// The file must contain single-channel 16-bit PCM.
func ReadClip(data []byte) (*Clip, error) {
	if len(data) < 4 {
		return nil, ErrUnknownFormat
	}
	switch string(data[:4]) {
	case "RIFF":
		w, err := wave.Parse(data)
		if err != nil {
			return nil, err
		}
		if w.NumChannels != 1 {
			return nil, fmt.Errorf("clip has %d channels, but only one is supported", w.NumChannels)
		}
		samples, err := w.GetSamples16()
		if err != nil {
			return nil, err
		}
		return &Clip{Rate: w.SampleRate, Samples: samples}, nil
	case "FORM":
		a, err := aiff.Parse(data)
		if err != nil {
			return nil, err
		}
		if a.NumChannels != 1 {
			return nil, fmt.Errorf("clip has %d channels, but only one is supported", a.NumChannels)
		}
		samples, err := a.GetSamples16()
		if err != nil {
			return nil, err
		}
		return &Clip{Rate: a.Rate(), Samples: samples}, nil
	}
	return nil, ErrUnknownFormat
}

// ReadRaw reads headerless signed 16-bit little-endian PCM.
func ReadRaw(data []byte, rate int) (*Clip, error) {
	if len(data)&1 != 0 {
		return nil, errors.New("raw PCM has an odd number of bytes")
	}
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
	}
	return &Clip{Rate: rate, Samples: samples}, nil
}
