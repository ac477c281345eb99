// Command updstats encodes a directory of audio files at every
// supported chip rate and reports the encoded sizes as CSV.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

var sampleRates = []int{
	5000,
	6000,
	8000,
}

const (
	updencPath   = "tools/updenc/updenc"
	originalPath = "original"
)

var (
	rootDir string
	soxPath string
)

type fileinfo struct {
	name string
	src  string
}

func listFiles(dir string) ([]fileinfo, error) {
	original := filepath.Join(dir, originalPath)
	fs, err := os.ReadDir(original)
	if err != nil {
		return nil, err
	}
	var r []fileinfo
	for _, f := range fs {
		name := f.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		i := strings.LastIndexByte(name, '.')
		if i == -1 {
			continue
		}
		if name[i:] == ".txt" {
			continue
		}
		r = append(r, fileinfo{name: name[:i], src: name})
	}
	return r, nil
}

// processFile resamples one source file to each supported rate,
// encodes it, and returns the encoded size in bytes per rate.
func processFile(fi fileinfo) ([]int64, error) {
	original := filepath.Join(rootDir, originalPath, fi.src)
	sizes := make([]int64, len(sampleRates))
	for i, rate := range sampleRates {
		dir := filepath.Join(rootDir, "rate_"+strconv.Itoa(rate))
		pcm := filepath.Join(dir, fi.name+".wav")
		upd := filepath.Join(dir, fi.name+".upd")
		for _, p := range [...]string{pcm, upd} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return nil, err
			}
		}
		cmd := exec.Command(soxPath,
			original,
			"-V1",
			"--channels=1",
			"--bits=16",
			"--rate="+strconv.Itoa(rate),
			pcm)
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return nil, err
		}
		cmd = exec.Command(updencPath, "encode", "-o", upd, pcm)
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return nil, err
		}
		st, err := os.Stat(upd)
		if err != nil {
			return nil, err
		}
		sizes[i] = st.Size()
	}
	return sizes, nil
}

func writeCSV(outPath string, files []fileinfo, sizes [][]int64) error {
	fp, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer fp.Close()
	w := csv.NewWriter(fp)
	row := make([]string, len(sampleRates)+1)
	row[0] = "File"
	for i, r := range sampleRates {
		row[i+1] = strconv.Itoa(r)
	}
	if err := w.Write(row); err != nil {
		return err
	}
	for i, fi := range files {
		row[0] = fi.name
		for j, s := range sizes[i] {
			row[j+1] = strconv.FormatInt(s, 10)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return fp.Close()
}

func mainE() error {
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 || 2 < len(args) {
		fmt.Fprintln(os.Stderr, "Usage: updstats <dir> [<out>]")
		return nil
	}
	rootDir = args[0]
	var outPath string
	if len(args) >= 2 {
		outPath = args[1]
	}

	var err error
	soxPath, err = exec.LookPath("sox")
	if err != nil {
		return err
	}

	files, err := listFiles(rootDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("found no files")
	}

	for _, rate := range sampleRates {
		if err := os.Mkdir(filepath.Join(rootDir, "rate_"+strconv.Itoa(rate)), 0777); err != nil && !os.IsExist(err) {
			return err
		}
	}

	var wg sync.WaitGroup
	n := runtime.NumCPU()
	wg.Add(n)
	var pos, nerrors uint32
	sizes := make([][]int64, len(files))
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddUint32(&pos, 1) - 1)
				if i >= len(files) {
					break
				}
				sz, err := processFile(files[i])
				if err != nil {
					fmt.Fprintln(os.Stderr, "Error:", err)
					atomic.AddUint32(&nerrors, 1)
					continue
				}
				sizes[i] = sz
			}
		}()
	}
	wg.Wait()
	if n := atomic.LoadUint32(&nerrors); n > 0 {
		return fmt.Errorf("%d errors occurred during processing", n)
	}

	if outPath != "" {
		if err := writeCSV(outPath, files, sizes); err != nil {
			return err
		}
	}

	var total int64
	var seconds float64
	for _, ss := range sizes {
		for j, s := range ss {
			total += s
			// Two samples per packed byte, minus markers.
			blocks := s / 257
			seconds += float64((s-1-blocks)*2) / float64(sampleRates[j])
		}
	}
	fmt.Printf("Encoded %d bytes, %.1f seconds of speech\n", total, seconds)

	return nil
}

func main() {
	if err := mainE(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
