package codec

import (
	"encoding/base64"
	"fmt"
	"math"

	"github.com/chemdata/mzio/endian"
	"github.com/chemdata/mzio/format"
	"github.com/chemdata/mzio/internal/options"
	"github.com/chemdata/mzio/internal/pool"
)

// Result carries an encoded payload together with the metadata callers
// annotate serialized output with: the element precision in bits and the
// coarse type name ("byte", "int" or "float"). Both integer widths report
// "int" and both float widths report "float"; the precision disambiguates.
type Result struct {
	Text      string
	Precision int
	TypeName  string
}

// Encoder encodes typed numeric arrays into base64 peak payloads.
//
// An Encoder is configured once with the target byte order and reused for
// every array of a stream. It holds no per-call state and is safe for
// concurrent use.
type Encoder struct {
	engine      endian.EndianEngine
	trimPadding bool
}

// EncoderOption represents a functional option for configuring an Encoder.
type EncoderOption = options.Option[*Encoder]

// WithTrimPadding strips the trailing base64 '=' padding characters from
// encoded payloads. Some writers omit padding; decoders here accept both.
func WithTrimPadding() EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.trimPadding = true
	})
}

// NewEncoder creates an Encoder that packs elements in the byte order of
// the given engine.
func NewEncoder(engine endian.EndianEngine, opts ...EncoderOption) (*Encoder, error) {
	if engine == nil {
		return nil, fmt.Errorf("endian engine must not be nil")
	}

	e := &Encoder{engine: engine}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Bytes encodes raw bytes. Byte order does not apply to width-1 elements;
// the payload is the input itself.
func (e *Encoder) Bytes(data []byte) Result {
	if len(data) == 0 {
		return e.emptyResult(format.ElementByte)
	}

	return e.finish(data, format.ElementByte)
}

// Int16s encodes 16-bit signed integers.
func (e *Encoder) Int16s(values []int16) Result {
	if len(values) == 0 {
		return e.emptyResult(format.ElementInt16)
	}

	bb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(bb)

	bb.Grow(len(values) * 2)
	buf := bb.Bytes()
	for _, v := range values {
		buf = e.engine.AppendUint16(buf, uint16(v)) //nolint:gosec
	}

	return e.finish(buf, format.ElementInt16)
}

// Int32s encodes 32-bit signed integers.
func (e *Encoder) Int32s(values []int32) Result {
	if len(values) == 0 {
		return e.emptyResult(format.ElementInt32)
	}

	bb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(bb)

	bb.Grow(len(values) * 4)
	buf := bb.Bytes()
	for _, v := range values {
		buf = e.engine.AppendUint32(buf, uint32(v)) //nolint:gosec
	}

	return e.finish(buf, format.ElementInt32)
}

// Float32s encodes IEEE 754 single-precision floats.
func (e *Encoder) Float32s(values []float32) Result {
	if len(values) == 0 {
		return e.emptyResult(format.ElementFloat32)
	}

	bb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(bb)

	bb.Grow(len(values) * 4)
	buf := bb.Bytes()
	for _, v := range values {
		buf = e.engine.AppendUint32(buf, math.Float32bits(v))
	}

	return e.finish(buf, format.ElementFloat32)
}

// Float64s encodes IEEE 754 double-precision floats.
func (e *Encoder) Float64s(values []float64) Result {
	if len(values) == 0 {
		return e.emptyResult(format.ElementFloat64)
	}

	bb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(bb)

	bb.Grow(len(values) * 8)
	buf := bb.Bytes()
	for _, v := range values {
		buf = e.engine.AppendUint64(buf, math.Float64bits(v))
	}

	return e.finish(buf, format.ElementFloat64)
}

func (e *Encoder) emptyResult(elem format.ElementType) Result {
	return Result{
		Text:      "",
		Precision: elem.Precision(),
		TypeName:  elem.Name(),
	}
}

func (e *Encoder) finish(packed []byte, elem format.ElementType) Result {
	enc := base64.StdEncoding
	if e.trimPadding {
		enc = base64.RawStdEncoding
	}

	return Result{
		Text:      enc.EncodeToString(packed),
		Precision: elem.Precision(),
		TypeName:  elem.Name(),
	}
}
