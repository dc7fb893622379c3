// Package mzxml reads mzXML documents: XML-wrapped spectrum scans whose
// peak lists travel as base64 binary in network byte order, optionally
// zlib-compressed.
//
// The reader streams <scan> elements through an XML tokenizer without
// materializing the document, so arbitrarily large runs read in constant
// memory. Nested MS2 scans are flattened: each <scan> element yields its
// own record, parents before children.
package mzxml

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

// Reader streams the scans of an mzXML file.
//
// A Reader owns its file handle and is not safe for concurrent use.
type Reader struct {
	file    *os.File
	tokens  *xml.Decoder
	pending *xml.StartElement
	warn    func(msg string)
}

// ReaderOption represents a functional option for configuring a Reader.
type ReaderOption = options.Option[*Reader]

// WithWarnHandler registers the callback receiving recoverable decode
// warnings, such as a peak payload whose decompressed size disagrees with
// its declared length. The default discards them.
func WithWarnHandler(fn func(msg string)) ReaderOption {
	return options.New(func(r *Reader) error {
		if fn == nil {
			return fmt.Errorf("warn handler must not be nil")
		}
		r.warn = fn

		return nil
	})
}

// Open opens the mzXML file at path.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{warn: func(string) {}}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mzxml: %w", err)
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

// Next reads the next <scan> element and returns its spectrum. Returns
// io.EOF after the last scan.
func (r *Reader) Next() (*spectrum.Spectrum, error) {
	start, err := r.nextScanStart()
	if err != nil {
		return nil, err
	}

	return r.readScan(start)
}

// nextScanStart advances to the next <scan> start tag, honoring one pushed
// back by a previous nested-scan cut.
func (r *Reader) nextScanStart() (xml.StartElement, error) {
	if r.pending != nil {
		start := *r.pending
		r.pending = nil

		return start, nil
	}

	for {
		tok, err := r.tokens.Token()
		if err == io.EOF {
			return xml.StartElement{}, io.EOF
		}
		if err != nil {
			return xml.StartElement{}, fmt.Errorf("mzxml: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "scan" {
			return start, nil
		}
	}
}

// readScan consumes the children of one <scan> element. A nested <scan>
// start ends the current record early and is replayed on the next call.
func (r *Reader) readScan(start xml.StartElement) (*spectrum.Spectrum, error) {
	sp := &spectrum.Spectrum{}
	declaredPeaks := -1

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "num":
			sp.ID = attr.Value
		case "msLevel":
			level, err := strconv.Atoi(attr.Value)
			if err != nil {
				return nil, fmt.Errorf("mzxml: bad msLevel %q: %w", attr.Value, err)
			}
			sp.MSLevel = level
		case "retentionTime":
			rt, err := parseRetentionTime(attr.Value)
			if err != nil {
				return nil, fmt.Errorf("mzxml: bad retentionTime %q: %w", attr.Value, err)
			}
			sp.RetentionTime = rt
		case "peaksCount":
			if n, err := strconv.Atoi(attr.Value); err == nil {
				declaredPeaks = n
			}
		}
	}

	var (
		elem      string
		elemAttrs []xml.Attr
		text      strings.Builder
	)

	for {
		tok, err := r.tokens.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("mzxml: scan %s is truncated", sp.ID)
		}
		if err != nil {
			return nil, fmt.Errorf("mzxml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "scan" {
				nested := t.Copy()
				r.pending = &nested
				r.checkPeakCount(sp, declaredPeaks)

				return sp, nil
			}
			elem = t.Name.Local
			elemAttrs = t.Attr
			text.Reset()

		case xml.CharData:
			if elem == "precursorMz" || elem == "peaks" {
				text.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "precursorMz":
				if err := applyPrecursor(sp, elemAttrs, text.String()); err != nil {
					return nil, err
				}
			case "peaks":
				peaks, err := r.decodePeaks(elemAttrs, text.String())
				if err != nil {
					return nil, fmt.Errorf("mzxml: scan %s: %w", sp.ID, err)
				}
				sp.Peaks = peaks
			case "scan":
				r.checkPeakCount(sp, declaredPeaks)

				return sp, nil
			}
			elem = ""
		}
	}
}

func (r *Reader) checkPeakCount(sp *spectrum.Spectrum, declared int) {
	if declared >= 0 && declared != len(sp.Peaks) {
		r.warn(fmt.Sprintf("scan %s declares %d peaks but carries %d", sp.ID, declared, len(sp.Peaks)))
	}
}

func applyPrecursor(sp *spectrum.Spectrum, attrs []xml.Attr, text string) error {
	mz, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return fmt.Errorf("mzxml: bad precursorMz %q: %w", text, err)
	}
	sp.PrecursorMz = mz

	for _, attr := range attrs {
		switch attr.Name.Local {
		case "precursorIntensity":
			if v, err := strconv.ParseFloat(attr.Value, 64); err == nil {
				sp.PrecursorIntensity = v
			}
		case "precursorCharge":
			if v, err := strconv.Atoi(attr.Value); err == nil {
				sp.Charges = []int{v}
			}
		}
	}

	return nil
}

// decodePeaks turns a <peaks> payload into m/z–intensity pairs. The
// default byte order is network (big-endian) per the mzXML schema.
func (r *Reader) decodePeaks(attrs []xml.Attr, text string) ([]spectrum.Peak, error) {
	precision := "32"
	byteOrder := "network"
	compression := "none"
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "precision":
			precision = attr.Value
		case "byteOrder":
			byteOrder = attr.Value
		case "compressionType":
			compression = attr.Value
		}
	}

	engine := endian.GetBigEndianEngine()
	if byteOrder == "little" {
		engine = endian.GetLittleEndianEngine()
	}

	opts := []codec.DecoderOption{codec.WithWarnHandler(r.warn)}
	switch compression {
	case "none", "":
	case "zlib":
		opts = append(opts, codec.WithCompressed())
	default:
		return nil, fmt.Errorf("unsupported compressionType %q", compression)
	}

	dec, err := codec.NewDecoder(engine, opts...)
	if err != nil {
		return nil, err
	}

	payload := strings.TrimSpace(text)
	var values []float64
	switch precision {
	case "64":
		values, err = dec.Float64s(payload)
	case "32":
		var narrow []float32
		narrow, err = dec.Float32s(payload)
		if err == nil {
			values = make([]float64, len(narrow))
			for i, v := range narrow {
				values[i] = float64(v)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported precision %q", precision)
	}
	if err != nil {
		return nil, err
	}

	if len(values)%2 != 0 {
		return nil, fmt.Errorf("peak payload holds %d values, not an even count", len(values))
	}

	peaks := make([]spectrum.Peak, len(values)/2)
	for i := range peaks {
		peaks[i] = spectrum.Peak{Mz: values[i*2], Intensity: values[i*2+1]}
	}

	return peaks, nil
}

// parseRetentionTime accepts the schema's xs:duration form ("PT812.4S",
// "PT13.5M") as well as a bare number of seconds.
func parseRetentionTime(value string) (float64, error) {
	v := strings.TrimSpace(value)
	scale := 1.0
	if strings.HasPrefix(v, "PT") {
		v = v[2:]
		switch {
		case strings.HasSuffix(v, "S"):
			v = v[:len(v)-1]
		case strings.HasSuffix(v, "M"):
			v = v[:len(v)-1]
			scale = 60
		}
	}

	seconds, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}

	return seconds * scale, nil
}
