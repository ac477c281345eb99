package main

import (
	"encoding/binary"
	"testing"
)

func makeWAV(samples []int16) []byte {
	dlen := len(samples) * 2
	b := make([]byte, 44+dlen)
	copy(b[0:4], "RIFF")
	binary.LittleEndian.PutUint32(b[4:8], uint32(36+dlen))
	copy(b[8:12], "WAVE")
	copy(b[12:16], "fmt ")
	binary.LittleEndian.PutUint32(b[16:20], 16)
	binary.LittleEndian.PutUint16(b[20:22], 1)
	binary.LittleEndian.PutUint16(b[22:24], 1)
	binary.LittleEndian.PutUint32(b[24:28], 8000)
	binary.LittleEndian.PutUint32(b[28:32], 16000)
	binary.LittleEndian.PutUint16(b[32:34], 2)
	binary.LittleEndian.PutUint16(b[34:36], 16)
	copy(b[36:40], "data")
	binary.LittleEndian.PutUint32(b[40:44], uint32(dlen))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[44+i*2:], uint16(s))
	}
	return b
}

func TestParseInput(t *testing.T) {
	raw := []byte{0x80, 0x03, 0x00, 0x01} // 896, 256 as s16le

	// Raw extension dispatches on the name.
	clip, err := parseInput("speech.raw", raw, 6000)
	if err != nil {
		t.Fatal(err)
	}
	if clip.Rate != 6000 || len(clip.Samples) != 2 || clip.Samples[0] != 896 {
		t.Errorf("raw clip = %d Hz, samples %v", clip.Rate, clip.Samples)
	}
	if _, err := parseInput("speech.raw", raw, 0); err == nil {
		t.Error("raw input without a rate succeeded, want error")
	}

	// Headerless data from stdin falls through to raw when a rate
	// is given.
	clip, err = parseInput("stdin", raw, 8000)
	if err != nil {
		t.Fatal(err)
	}
	if clip.Rate != 8000 || len(clip.Samples) != 2 {
		t.Errorf("stdin raw clip = %d Hz, %d samples; want 8000 Hz, 2", clip.Rate, len(clip.Samples))
	}
	if _, err := parseInput("stdin", raw, 0); err == nil {
		t.Error("headerless input without a rate succeeded, want error")
	}

	// Recognized containers are never treated as raw, with or
	// without a rate.
	for _, rate := range []int{0, 8000} {
		clip, err = parseInput("stdin", makeWAV([]int16{896, 256, 896}), rate)
		if err != nil {
			t.Fatalf("rate %d: %v", rate, err)
		}
		if clip.Rate != 8000 || len(clip.Samples) != 3 {
			t.Errorf("rate %d: wav clip = %d Hz, %d samples; want 8000 Hz, 3", rate, clip.Rate, len(clip.Samples))
		}
	}
}
