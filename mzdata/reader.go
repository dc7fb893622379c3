// Package mzdata reads mzData documents: XML spectra whose m/z and
// intensity arrays travel as separate base64 <data> elements with
// per-array precision and byte-order attributes.
package mzdata

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chemdata/mzio/codec"
	"github.com/chemdata/mzio/endian"
	"github.com/chemdata/mzio/internal/options"
	"github.com/chemdata/mzio/spectrum"
)

// Reader streams the spectra of an mzData file.
//
// A Reader owns its file handle and is not safe for concurrent use.
type Reader struct {
	file   *os.File
	tokens *xml.Decoder
	warn   func(msg string)
}

// ReaderOption represents a functional option for configuring a Reader.
type ReaderOption = options.Option[*Reader]

// WithWarnHandler registers the callback receiving recoverable decode
// warnings, such as an array whose value count disagrees with its declared
// length. The default discards them.
func WithWarnHandler(fn func(msg string)) ReaderOption {
	return options.New(func(r *Reader) error {
		if fn == nil {
			return fmt.Errorf("warn handler must not be nil")
		}
		r.warn = fn

		return nil
	})
}

// Open opens the mzData file at path.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{warn: func(string) {}}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mzdata: %w", err)
	}
	r.file = f
	r.tokens = xml.NewDecoder(f)

	return r, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil

	return err
}

// cvParam is a controlled-vocabulary name/value attribute pair.
type cvParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// binaryData is one <data> element of a binary array.
type binaryData struct {
	Precision string `xml:"precision,attr"`
	Endian    string `xml:"endian,attr"`
	Length    int    `xml:"length,attr"`
	Text      string `xml:",chardata"`
}

type xmlSpectrum struct {
	ID         string `xml:"id,attr"`
	Instrument struct {
		MSLevel int       `xml:"msLevel,attr"`
		Params  []cvParam `xml:"cvParam"`
	} `xml:"spectrumDesc>spectrumSettings>spectrumInstrument"`
	Precursors []struct {
		Ion struct {
			Params []cvParam `xml:"cvParam"`
		} `xml:"ionSelection"`
	} `xml:"spectrumDesc>precursorList>precursor"`
	Mz    binaryData `xml:"mzArrayBinary>data"`
	Inten binaryData `xml:"intenArrayBinary>data"`
}

// Next reads the next <spectrum> element and returns its record. Returns
// io.EOF after the last spectrum.
func (r *Reader) Next() (*spectrum.Spectrum, error) {
	for {
		tok, err := r.tokens.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("mzdata: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "spectrum" {
			continue
		}

		var xs xmlSpectrum
		if err := r.tokens.DecodeElement(&xs, &start); err != nil {
			return nil, fmt.Errorf("mzdata: %w", err)
		}

		return r.build(&xs)
	}
}

func (r *Reader) build(xs *xmlSpectrum) (*spectrum.Spectrum, error) {
	sp := &spectrum.Spectrum{
		ID:      xs.ID,
		MSLevel: xs.Instrument.MSLevel,
	}

	for _, param := range xs.Instrument.Params {
		switch param.Name {
		case "TimeInMinutes":
			if v, err := strconv.ParseFloat(param.Value, 64); err == nil {
				sp.RetentionTime = v * 60
			}
		case "TimeInSeconds":
			if v, err := strconv.ParseFloat(param.Value, 64); err == nil {
				sp.RetentionTime = v
			}
		}
	}

	for _, precursor := range xs.Precursors {
		for _, param := range precursor.Ion.Params {
			switch param.Name {
			case "MassToChargeRatio", "mz":
				if v, err := strconv.ParseFloat(param.Value, 64); err == nil {
					sp.PrecursorMz = v
				}
			case "ChargeState", "charge":
				if v, err := strconv.Atoi(param.Value); err == nil {
					sp.Charges = append(sp.Charges, v)
				}
			case "Intensity", "intensity":
				if v, err := strconv.ParseFloat(param.Value, 64); err == nil {
					sp.PrecursorIntensity = v
				}
			}
		}
	}

	mz, err := r.decodeArray("mzArrayBinary", xs.ID, &xs.Mz)
	if err != nil {
		return nil, err
	}
	inten, err := r.decodeArray("intenArrayBinary", xs.ID, &xs.Inten)
	if err != nil {
		return nil, err
	}

	n := len(mz)
	if len(inten) != n {
		r.warn(fmt.Sprintf("spectrum %s: %d m/z values but %d intensities; pairing the shorter run",
			xs.ID, len(mz), len(inten)))
		if len(inten) < n {
			n = len(inten)
		}
	}

	sp.Peaks = make([]spectrum.Peak, n)
	for i := range sp.Peaks {
		sp.Peaks[i] = spectrum.Peak{Mz: mz[i], Intensity: inten[i]}
	}

	return sp, nil
}

// decodeArray turns one <data> element into float64 values, honoring its
// precision and endian attributes. The default byte order is big-endian;
// most writers state endian="little" explicitly.
func (r *Reader) decodeArray(kind, id string, data *binaryData) ([]float64, error) {
	text := strings.TrimSpace(data.Text)
	if text == "" {
		return nil, nil
	}

	engine := endian.GetBigEndianEngine()
	if data.Endian == "little" {
		engine = endian.GetLittleEndianEngine()
	}

	dec, err := codec.NewDecoder(engine, codec.WithWarnHandler(r.warn))
	if err != nil {
		return nil, err
	}

	var values []float64
	switch data.Precision {
	case "64":
		values, err = dec.Float64s(text)
	case "32", "":
		var narrow []float32
		narrow, err = dec.Float32s(text)
		if err == nil {
			values = make([]float64, len(narrow))
			for i, v := range narrow {
				values[i] = float64(v)
			}
		}
	default:
		return nil, fmt.Errorf("mzdata: spectrum %s: unsupported precision %q", id, data.Precision)
	}
	if err != nil {
		return nil, fmt.Errorf("mzdata: spectrum %s %s: %w", id, kind, err)
	}

	if data.Length > 0 && data.Length != len(values) {
		r.warn(fmt.Sprintf("spectrum %s: %s declares %d values but carries %d",
			id, kind, data.Length, len(values)))
	}

	return values, nil
}
