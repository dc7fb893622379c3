package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"

	"github.com/chemdata/mzio/internal/pool"
)

// flateHeaderSize is the number of header bytes preceding the raw deflate
// stream in a compressed peak payload. mzXML and mzData writers emit
// zlib-framed payloads, but decoders must treat them as an opaque 2-byte
// header followed by raw deflate: the trailer is not always present, so the
// stream cannot be handed to a conforming zlib reader.
const flateHeaderSize = 2

// decompressChunkSize is the read granularity of the chunked inflate loop.
const decompressChunkSize = 4096

// ErrFlateTooShort reports a compressed payload shorter than its 2-byte header.
var ErrFlateTooShort = errors.New("flate payload shorter than its 2-byte header")

var flateWriterPool = sync.Pool{
	New: func() any {
		w, err := flate.NewWriter(io.Discard, flate.DefaultCompression)
		if err != nil {
			// Only reachable with an invalid level constant.
			panic(fmt.Sprintf("failed to create flate writer for pool: %v", err))
		}
		return w
	},
}

// FlateCompressor implements the deflate framing used by XML peak payloads:
// a 2-byte header followed by a raw deflate stream with no trailer.
//
// Compress emits the standard zlib CMF/FLG header bytes so that payloads
// written by this codec look like the ones produced by the common mzXML and
// mzData writers; Decompress never inspects the header bytes, it skips them.
type FlateCompressor struct{}

var _ Codec = (*FlateCompressor)(nil)

// NewFlateCompressor creates a new flate codec.
func NewFlateCompressor() FlateCompressor {
	return FlateCompressor{}
}

// Compress compresses the input data as a 2-byte header plus raw deflate stream.
func (c FlateCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	// CMF/FLG for deflate with a 32KB window, default level.
	buf.MustWrite([]byte{0x78, 0x9c})

	w, _ := flateWriterPool.Get().(*flate.Writer)
	defer flateWriterPool.Put(w)
	w.Reset(buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("flate compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flate compression failed: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// Decompress skips the 2-byte header and inflates the remaining raw deflate stream.
func (c FlateCompressor) Decompress(data []byte) ([]byte, error) {
	out, _, _, err := c.DecompressEstimate(data)
	return out, err
}

// DecompressEstimate decompresses like Decompress and additionally reports
// the number of bytes produced together with the output buffer's estimated
// capacity. Callers that treat a produced/estimated mismatch as a
// recoverable condition (the numeric codec does) can compare the two; the
// returned slice is always sized to the bytes actually produced.
func (c FlateCompressor) DecompressEstimate(data []byte) (out []byte, produced int, estimated int, err error) {
	if len(data) == 0 {
		return nil, 0, 0, nil
	}
	if len(data) < flateHeaderSize {
		return nil, 0, 0, ErrFlateTooShort
	}

	fr := flate.NewReader(bytes.NewReader(data[flateHeaderSize:]))
	defer fr.Close()

	scratch := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(scratch)

	// Deflate carries no decompressed-size field; start from a fixed
	// expansion estimate and read in fixed-size chunks until exhausted.
	estimated = len(data) * 4
	scratch.Grow(estimated)

	for {
		start := scratch.Len()
		scratch.ExtendOrGrow(decompressChunkSize)
		n, rerr := fr.Read(scratch.Slice(start, start+decompressChunkSize))
		scratch.SetLength(start + n)

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, 0, estimated, fmt.Errorf("deflate decompression failed: %w", rerr)
		}
	}

	produced = scratch.Len()
	out = make([]byte, produced)
	copy(out, scratch.Bytes())

	return out, produced, estimated, nil
}
