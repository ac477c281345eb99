package upd7759

import (
	"bytes"
	"fmt"
	"io"
)

// A Marker is the byte that identifies the stream's sample rate class.
// It appears as the first byte of the stream and again after every
// block of packed sample data.
type Marker byte

const (
	// MarkerNone is the unset marker. It never appears in a stream.
	MarkerNone Marker = 0

	// Marker5kHz marks a 5000 Hz stream.
	Marker5kHz Marker = 0x5f

	// Marker6kHz marks a 6000 Hz stream.
	Marker6kHz Marker = 0x59

	// Marker8kHz marks an 8000 Hz stream.
	Marker8kHz Marker = 0x53
)

// Rate returns the sample rate the marker identifies, or 0 if the
// byte is not a valid marker.
func (m Marker) Rate() int {
	switch m {
	case Marker5kHz:
		return 5000
	case Marker6kHz:
		return 6000
	case Marker8kHz:
		return 8000
	}
	return 0
}

// BlockSize is the number of packed sample bytes between rate markers.
const BlockSize = 256

// RateMarker returns the marker for a sample rate. Only 5000, 6000,
// and 8000 Hz are supported by the chip.
func RateMarker(rate int) (Marker, error) {
	switch rate {
	case 5000:
		return Marker5kHz, nil
	case 6000:
		return Marker6kHz, nil
	case 8000:
		return Marker8kHz, nil
	}
	return MarkerNone, fmt.Errorf("unsupported sample rate: %d (must be 5000, 6000, or 8000)", rate)
}

// A Writer encodes samples and writes the packed bitstream to an
// underlying io.Writer. Samples may be supplied across any number of
// WriteSamples calls; Flush must be called after the last sample.
type Writer struct {
	w       io.Writer
	marker  Marker
	enc     Encoder
	pending byte
	odd     bool
	nbytes  int
}

// NewWriter creates a writer for a stream at the given sample rate and
// writes the leading rate marker. Fails if the rate is unsupported or
// the marker cannot be written.
func NewWriter(w io.Writer, rate int) (*Writer, error) {
	marker, err := RateMarker(rate)
	if err != nil {
		return nil, err
	}
	uw := &Writer{w: w, marker: marker}
	if err := uw.writeMarker(); err != nil {
		return nil, err
	}
	return uw, nil
}

func (w *Writer) writeMarker() error {
	_, err := w.w.Write([]byte{byte(w.marker)})
	return err
}

// writeByte emits one packed sample byte, repeating the rate marker
// after every BlockSize of them.
func (w *Writer) writeByte(b byte) error {
	if _, err := w.w.Write([]byte{b}); err != nil {
		return err
	}
	w.nbytes++
	if w.nbytes == BlockSize {
		w.nbytes = 0
		return w.writeMarker()
	}
	return nil
}

// WriteSamples encodes and packs the given samples. Two samples pack
// into one byte, the earlier sample in the high nibble. Any write
// error is fatal to the stream.
func (w *Writer) WriteSamples(samples []int16) error {
	for _, s := range samples {
		n := w.enc.EncodeSample(s)
		if w.odd {
			w.odd = false
			if err := w.writeByte(w.pending<<4 | n); err != nil {
				return err
			}
		} else {
			w.pending = n
			w.odd = true
		}
	}
	return nil
}

// Flush writes any pending unpaired nibble as a final byte with the
// nibble in the high position and a zero low nibble.
func (w *Writer) Flush() error {
	if !w.odd {
		return nil
	}
	w.odd = false
	return w.writeByte(w.pending << 4)
}

// Encode encodes a complete stream of samples into memory.
func Encode(samples []int16, rate int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, rate)
	if err != nil {
		return nil, err
	}
	if err := w.WriteSamples(samples); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
