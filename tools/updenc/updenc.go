package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/depp/upd7759/lib/audio"
	"github.com/depp/upd7759/lib/upd7759"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type fileError struct {
	name string
	err  error
}

func (e *fileError) Error() string {
	return fmt.Sprintf("%q: %v", e.name, e.err)
}

func getPath(filename string) string {
	if wd := os.Getenv("BUILD_WORKING_DIRECTORY"); wd != "" && filename != "" && !filepath.IsAbs(filename) {
		return filepath.Join(wd, filename)
	}
	return filename
}

var cmdRoot = cobra.Command{
	Use:           "updenc",
	Short:         "UPDenc encodes PCM audio into uPD7759 speech chip bitstreams.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

var encodeFlags struct {
	output  string
	rate    int
	verbose bool
}

// parseInput decodes the input as WAV or AIFF. Data with a raw
// extension, or with no recognized magic when a rate is given (raw
// PCM piped through stdin), is read as headerless PCM.
func parseInput(name string, data []byte, rate int) (*audio.Clip, error) {
	switch ext := filepath.Ext(name); strings.ToLower(ext) {
	case ".raw", ".pcm":
		if rate == 0 {
			return nil, errors.New("raw PCM input requires -rate")
		}
		return audio.ReadRaw(data, rate)
	}
	clip, err := audio.ReadClip(data)
	if errors.Is(err, audio.ErrUnknownFormat) && rate != 0 {
		return audio.ReadRaw(data, rate)
	}
	return clip, err
}

func readInput(name string) (*audio.Clip, int, error) {
	var data []byte
	var err error
	if name == "" || name == "-" {
		data, err = ioutil.ReadAll(os.Stdin)
		name = "stdin"
	} else {
		data, err = ioutil.ReadFile(name)
	}
	if err != nil {
		return nil, 0, err
	}
	clip, err := parseInput(name, data, encodeFlags.rate)
	if err != nil {
		return nil, 0, &fileError{name, err}
	}
	return clip, len(data), nil
}

var cmdEncode = cobra.Command{
	Use:   "encode [<input>]",
	Short: "Encode a WAV, AIFF, or raw PCM file as a uPD7759 bitstream.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var inpath string
		if len(args) > 0 {
			inpath = getPath(args[0])
		}
		clip, insize, err := readInput(inpath)
		if err != nil {
			return err
		}
		if encodeFlags.rate != 0 && clip.Rate != encodeFlags.rate {
			logrus.Warnf("input sample rate is %d Hz, ignoring -rate %d", clip.Rate, encodeFlags.rate)
		}

		// Validate before touching the output so a bad rate
		// produces no partial file.
		if _, err := upd7759.RateMarker(clip.Rate); err != nil {
			return err
		}
		data, err := upd7759.Encode(clip.Samples, clip.Rate)
		if err != nil {
			return err
		}

		if encodeFlags.verbose {
			p := message.NewPrinter(language.English)
			p.Fprintf(os.Stderr, "Samples:     %v\n", len(clip.Samples))
			p.Fprintf(os.Stderr, "Sample Rate: %v Hz\n", clip.Rate)
			p.Fprintf(os.Stderr, "Duration:    %.3f s\n", float64(len(clip.Samples))/float64(clip.Rate))
			p.Fprintf(os.Stderr, "Input:       %v bytes\n", insize)
			p.Fprintf(os.Stderr, "Output:      %v bytes\n", len(data))
		}

		if encodeFlags.output == "" || encodeFlags.output == "-" {
			_, err := os.Stdout.Write(data)
			return err
		}
		return ioutil.WriteFile(getPath(encodeFlags.output), data, 0666)
	},
}

var cmdInfo = cobra.Command{
	Use:   "info <file.upd>",
	Short: "Describe the framing of an encoded uPD7759 bitstream.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		name := getPath(args[0])
		data, err := ioutil.ReadFile(name)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return &fileError{name, errors.New("empty file")}
		}
		marker := upd7759.Marker(data[0])
		rate := marker.Rate()
		if rate == 0 {
			return &fileError{name, fmt.Errorf("leading byte %#02x is not a rate marker", data[0])}
		}
		// A marker precedes every block of packed bytes.
		stride := upd7759.BlockSize + 1
		var nmarkers int
		for i := 0; i < len(data); i += stride {
			if data[i] != byte(marker) {
				return &fileError{name, fmt.Errorf("marker mismatch at offset %d: %#02x, want %#02x", i, data[i], byte(marker))}
			}
			nmarkers++
		}
		packed := len(data) - nmarkers
		samples := packed * 2
		p := message.NewPrinter(language.English)
		p.Printf("Sample Rate:  %v Hz\n", rate)
		p.Printf("Markers:      %v\n", nmarkers)
		p.Printf("Packed Bytes: %v\n", packed)
		p.Printf("Samples:      %v (at most)\n", samples)
		p.Printf("Duration:     %.3f s\n", float64(samples)/float64(rate))
		return nil
	},
}

func init() {
	f := cmdEncode.Flags()
	f.StringVarP(&encodeFlags.output, "output", "o", "", "output file (default stdout)")
	f.IntVar(&encodeFlags.rate, "rate", 0, "sample rate for raw PCM input")
	f.BoolVarP(&encodeFlags.verbose, "verbose", "v", false, "describe the input and output")
	cmdRoot.AddCommand(&cmdEncode)
	cmdRoot.AddCommand(&cmdInfo)
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
