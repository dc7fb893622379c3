// Package compress provides compression and decompression codecs for peak payloads.
//
// One codec is a wire format: Flate implements the framing mzXML and mzData
// writers use for compressed peak data, a 2-byte header followed by a raw
// deflate stream with no recognizable zlib trailer. The numeric codec
// (package codec) uses it for the compressed decode path.
//
// The remaining codecs compress derived artifacts this library produces
// itself, such as cached peak payloads extracted from large runs:
//   - None: no compression (fastest, largest)
//   - Zstd: excellent compression ratio, moderate speed
//   - S2:   balanced compression and speed
//   - LZ4:  fast decompression, moderate compression
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Codecs are selected by format.CompressionType through the factory:
//
//	codec, err := compress.GetCodec(format.CompressionFlate)
//	if err != nil {
//	    return err
//	}
//	raw, err := codec.Decompress(payload)
//
// # Flate framing
//
// Flate.Compress emits the standard zlib CMF/FLG bytes (0x78 0x9c) ahead of
// the raw deflate stream so its output matches what common writers emit.
// Flate.Decompress never validates those bytes; it skips exactly two and
// inflates the rest. Payloads whose trailer was truncated by the writer
// therefore still decode.
//
// # Zstd build variants
//
// By default Zstd uses the pure-Go klauspost/compress implementation.
// Building with the "gozstd" tag swaps in the cgo binding from
// valyala/gozstd for faster bulk decompression of cached payloads.
//
// # Thread safety
//
// All codecs in this package are stateless values and safe for concurrent
// use; internal encoder/decoder instances are pooled.
package compress
