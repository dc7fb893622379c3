package codec

import (
	"encoding/base64"
	"fmt"
	"math"

	"github.com/chemdata/mzio/compress"
	"github.com/chemdata/mzio/endian"
	"github.com/chemdata/mzio/format"
	"github.com/chemdata/mzio/internal/options"
)

// Byte-source labels used in width-validation errors. They tell the caller
// which upstream step produced the offending byte count.
const (
	sourceBase64  = "direct base64 decode"
	sourceDeflate = "deflate decompression"
)

// Decoder decodes base64 peak payloads into typed numeric arrays.
//
// A Decoder is configured once with the payload byte order and whether
// payloads are deflate-compressed, then reused for every payload of a
// stream. It holds no per-call state and is safe for concurrent use.
type Decoder struct {
	engine     endian.EndianEngine
	flate      compress.FlateCompressor
	compressed bool
	warn       func(msg string)
}

// DecoderOption represents a functional option for configuring a Decoder.
type DecoderOption = options.Option[*Decoder]

// WithCompressed marks payloads as compressed: a 2-byte header followed by
// a raw deflate stream, as emitted by mzXML and mzData writers.
func WithCompressed() DecoderOption {
	return options.NoError(func(d *Decoder) {
		d.compressed = true
	})
}

// WithWarnHandler registers a handler for recoverable decode conditions,
// currently only the deflate output-length mismatch. The handler must not
// retain the message past the call.
func WithWarnHandler(fn func(msg string)) DecoderOption {
	return options.New(func(d *Decoder) error {
		if fn == nil {
			return fmt.Errorf("warn handler must not be nil")
		}
		d.warn = fn

		return nil
	})
}

// NewDecoder creates a Decoder that interprets payloads in the byte order
// of the given engine.
//
// Parameters:
//   - engine: Endian engine matching the payload's declared byte order
//   - opts: Optional configuration (WithCompressed, WithWarnHandler)
func NewDecoder(engine endian.EndianEngine, opts ...DecoderOption) (*Decoder, error) {
	if engine == nil {
		return nil, fmt.Errorf("endian engine must not be nil")
	}

	d := &Decoder{engine: engine}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// DecodeBytes base64-decodes text into raw bytes.
//
// Width-1 elements have no typed decode variant and no compressed path;
// this is the plain base64 counterpart of Encoder.Bytes.
func DecodeBytes(text string) ([]byte, error) {
	return decodeBase64(text)
}

// Int16s decodes the payload as 16-bit signed integers.
func (d *Decoder) Int16s(text string) ([]int16, error) {
	raw, source, err := d.payload(text)
	if err != nil {
		return nil, err
	}
	if err := validateWidth(raw, format.ElementInt16, source); err != nil {
		return nil, err
	}

	values := make([]int16, len(raw)/2)
	for i := range values {
		values[i] = int16(d.engine.Uint16(raw[i*2 : i*2+2]))
	}

	return values, nil
}

// Int32s decodes the payload as 32-bit signed integers.
func (d *Decoder) Int32s(text string) ([]int32, error) {
	raw, source, err := d.payload(text)
	if err != nil {
		return nil, err
	}
	if err := validateWidth(raw, format.ElementInt32, source); err != nil {
		return nil, err
	}

	values := make([]int32, len(raw)/4)
	for i := range values {
		values[i] = int32(d.engine.Uint32(raw[i*4 : i*4+4]))
	}

	return values, nil
}

// Float32s decodes the payload as IEEE 754 single-precision floats.
func (d *Decoder) Float32s(text string) ([]float32, error) {
	raw, source, err := d.payload(text)
	if err != nil {
		return nil, err
	}
	if err := validateWidth(raw, format.ElementFloat32, source); err != nil {
		return nil, err
	}

	values := make([]float32, len(raw)/4)
	for i := range values {
		values[i] = math.Float32frombits(d.engine.Uint32(raw[i*4 : i*4+4]))
	}

	return values, nil
}

// Float64s decodes the payload as IEEE 754 double-precision floats.
func (d *Decoder) Float64s(text string) ([]float64, error) {
	raw, source, err := d.payload(text)
	if err != nil {
		return nil, err
	}
	if err := validateWidth(raw, format.ElementFloat64, source); err != nil {
		return nil, err
	}

	values := make([]float64, len(raw)/8)
	for i := range values {
		values[i] = math.Float64frombits(d.engine.Uint64(raw[i*8 : i*8+8]))
	}

	return values, nil
}

// payload base64-decodes text and, if the decoder was built with
// WithCompressed, inflates the result. It returns the raw element bytes
// and the source label for subsequent width validation errors.
func (d *Decoder) payload(text string) ([]byte, string, error) {
	raw, err := decodeBase64(text)
	if err != nil {
		return nil, sourceBase64, err
	}

	if !d.compressed {
		return raw, sourceBase64, nil
	}

	out, produced, estimated, err := d.flate.DecompressEstimate(raw)
	if err != nil {
		return nil, sourceDeflate, err
	}
	if produced != estimated && d.warn != nil {
		d.warn(fmt.Sprintf("deflate decompression produced %d bytes where the output buffer reported %d; returning the actual length", produced, estimated))
	}

	return out, sourceDeflate, nil
}

// decodeBase64 accepts both padded and padding-stripped standard-alphabet
// base64, since encoders may strip the trailing '=' characters.
func decodeBase64(text string) ([]byte, error) {
	enc := base64.StdEncoding
	if len(text)%4 != 0 {
		enc = base64.RawStdEncoding
	}

	raw, err := enc.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("malformed base64 peak payload: %w", err)
	}

	return raw, nil
}

func validateWidth(raw []byte, elem format.ElementType, source string) error {
	width := elem.Width()
	if len(raw)%width != 0 {
		return fmt.Errorf("%s yielded %d bytes, not a multiple of the %d-byte %s element width", source, len(raw), width, elem)
	}

	return nil
}
