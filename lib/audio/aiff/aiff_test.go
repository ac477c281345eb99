package aiff

import (
	"encoding/binary"
	"testing"
)

// putRate writes an 80-bit extended rate. Valid for rates in
// [4096, 8191], which covers the rates these tests use: the mantissa
// is normalized with its integer bit at position 63, so the biased
// exponent is 16383+12.
func putRate(d []byte, rate int) {
	binary.BigEndian.PutUint16(d[0:2], 0x400b)
	binary.BigEndian.PutUint64(d[2:10], uint64(rate)<<51)
}

func makeAIFF(channels, rate, bits int, samples []int16) []byte {
	dlen := len(samples) * 2
	b := make([]byte, 12+8+18+8+8+dlen)
	copy(b[0:4], "FORM")
	binary.BigEndian.PutUint32(b[4:8], uint32(len(b)-8))
	copy(b[8:12], "AIFF")
	copy(b[12:16], "COMM")
	binary.BigEndian.PutUint32(b[16:20], 18)
	comm := b[20:38]
	binary.BigEndian.PutUint16(comm[0:2], uint16(channels))
	binary.BigEndian.PutUint32(comm[2:6], uint32(len(samples)/channels))
	binary.BigEndian.PutUint16(comm[6:8], uint16(bits))
	putRate(comm[8:18], rate)
	copy(b[38:42], "SSND")
	binary.BigEndian.PutUint32(b[42:46], uint32(8+dlen))
	for i, s := range samples {
		binary.BigEndian.PutUint16(b[54+i*2:], uint16(s))
	}
	return b
}

func TestParse(t *testing.T) {
	samples := []int16{0, 896, -1, 256, -32768, 32767}
	data := makeAIFF(1, 8000, 16, samples)
	a, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if a.NumChannels != 1 || a.SampleSize != 16 {
		t.Errorf("parsed %d channels, %d bits; want 1, 16", a.NumChannels, a.SampleSize)
	}
	if a.Rate() != 8000 {
		t.Errorf("rate = %d, want 8000", a.Rate())
	}
	if a.IsCompressed() {
		t.Error("uncompressed file reported as compressed")
	}
	got, err := a.GetSamples16()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		if got[i] != s {
			t.Errorf("sample %d = %d, want %d", i, got[i], s)
		}
	}
}

func TestParseRates(t *testing.T) {
	for _, rate := range []int{5000, 6000, 8000} {
		a, err := Parse(makeAIFF(1, rate, 16, []int16{1, 2}))
		if err != nil {
			t.Fatalf("rate %d: %v", rate, err)
		}
		if a.Rate() != rate {
			t.Errorf("parsed rate = %d, want %d", a.Rate(), rate)
		}
	}
}

func TestParseErrors(t *testing.T) {
	good := makeAIFF(1, 8000, 16, []int16{1, 2, 3, 4})
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"badMagic", append([]byte("RIFF"), good[4:]...)},
		{"badForm", append(append([]byte{}, good[:8]...), append([]byte("WAVE"), good[12:]...)...)},
		{"truncated", good[:30]},
	}
	for _, c := range cases {
		if _, err := Parse(c.data); err == nil {
			t.Errorf("%s: Parse succeeded, want error", c.name)
		}
	}
}

func TestGetSamples16BadDepth(t *testing.T) {
	a, err := Parse(makeAIFF(1, 8000, 8, []int16{1, 2}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.GetSamples16(); err == nil {
		t.Error("GetSamples16 succeeded on 8-bit data, want error")
	}
}
