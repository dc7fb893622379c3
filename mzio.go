// Package mzio reads mass-spectrometry data files.
//
// The module is organized as a small set of composable packages:
//
//   - scan: sliding-window bidirectional line reader with encoding
//     detection, the engine under the text formats
//   - codec: base64 numeric-array codec with explicit endianness and an
//     optional deflate-compressed path, the engine under the XML formats
//   - mgf, dta, mzxml, mzdata: format readers yielding spectrum.Spectrum
//     records through the spectrum.Source interface
//   - compress: payload codecs (flate, zstd, s2, lz4) for wire payloads
//     and cached derived data
//
// This package adds the convenience entry point: Open picks the reader
// from the file extension.
//
//	src, err := mzio.Open("run01.mzxml")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	for {
//	    sp, err := src.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    process(sp)
//	}
//
// Callers needing format-specific capabilities, such as the MGF title
// index or mzXML decode warnings, open through the format package
// directly.
package mzio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chemdata/mzio/dta"
	"github.com/chemdata/mzio/mgf"
	"github.com/chemdata/mzio/mzdata"
	"github.com/chemdata/mzio/mzxml"
	"github.com/chemdata/mzio/spectrum"
)

// ErrUnknownFormat reports a file extension no reader is registered for.
var ErrUnknownFormat = errors.New("unknown format")

// Open opens the file at path with the reader matching its extension:
// .mgf, .dta, .mzxml or .mzdata (case-insensitive).
func Open(path string) (spectrum.Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mgf":
		return mgf.Open(path)
	case ".dta":
		return dta.Open(path)
	case ".mzxml":
		return mzxml.Open(path)
	case ".mzdata":
		return mzdata.Open(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// ReadAll drains src and returns every remaining spectrum. The source is
// not closed.
func ReadAll(src spectrum.Source) ([]*spectrum.Spectrum, error) {
	var spectra []*spectrum.Spectrum
	for {
		sp, err := src.Next()
		if err == io.EOF {
			return spectra, nil
		}
		if err != nil {
			return nil, err
		}
		spectra = append(spectra, sp)
	}
}
