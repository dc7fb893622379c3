// Package dta reads sequest DTA files: a single spectrum per file, with a
// header line holding the (M+H)+ mass and the charge state, followed by
// one peak per line.
package dta

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chemdata/mzio/scan"
	"github.com/chemdata/mzio/spectrum"
)

// Reader reads the single spectrum of a DTA file.
type Reader struct {
	lines *scan.Reader
	name  string
	done  bool
}

// Open opens the DTA file at path.
func Open(path string, opts ...scan.ReaderOption) (*Reader, error) {
	lines, err := scan.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("dta: %w", err)
	}

	return &Reader{lines: lines, name: filepath.Base(path)}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.lines.Close()
}

// Next returns the file's spectrum on the first call and io.EOF afterwards.
//
// The header's first value is reported verbatim as PrecursorMz; it is the
// (M+H)+ mass as written, not divided back down to m/z.
func (r *Reader) Next() (*spectrum.Spectrum, error) {
	if r.done {
		return nil, io.EOF
	}
	r.done = true

	sp := &spectrum.Spectrum{ID: r.name}
	sawHeader := false

	for {
		line, ok := r.lines.ReadLine()
		if !ok {
			break
		}
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		fields := strings.Fields(text)
		if !sawHeader {
			if len(fields) < 2 {
				return nil, fmt.Errorf("dta: header needs mass and charge, got %q", text)
			}
			mh, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, fmt.Errorf("dta: bad header mass: %w", err)
			}
			charge, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("dta: bad header charge: %w", err)
			}
			sp.PrecursorMz = mh
			sp.Charges = []int{charge}
			sawHeader = true

			continue
		}

		if len(fields) < 2 {
			return nil, fmt.Errorf("dta: bad peak line at offset %d: %q", line.Start, text)
		}
		mz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("dta: bad peak line at offset %d: %w", line.Start, err)
		}
		intensity, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("dta: bad peak line at offset %d: %w", line.Start, err)
		}
		sp.Peaks = append(sp.Peaks, spectrum.Peak{Mz: mz, Intensity: intensity})
	}

	if !sawHeader {
		return nil, fmt.Errorf("dta: %s has no header line", r.name)
	}

	return sp, nil
}
