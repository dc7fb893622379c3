// Package codec converts between the textual wire form of peak data and
// typed numeric arrays.
//
// mzXML and mzData carry peak arrays as base64 text wrapping a densely
// packed, fixed-width binary payload. The element width (2, 4 or 8 bytes)
// is implied by the declared element type and the byte order is declared
// out of band, so both are explicit parameters here rather than sniffed
// from the data.
//
// # Decoding
//
//	decoder, err := codec.NewDecoder(endian.GetBigEndianEngine())
//	if err != nil {
//	    return err
//	}
//	values, err := decoder.Float64s(peaksText)
//
// Compressed payloads (a 2-byte header followed by a raw deflate stream)
// are handled by constructing the decoder with codec.WithCompressed; the
// decompression is delegated to compress.FlateCompressor.
//
// Malformed base64 and payload lengths that are not a multiple of the
// element width are hard failures: they indicate corrupt input, never a
// transient condition, and the returned error names which step produced
// the bad byte count. A deflate output-length mismatch against the decoder
// buffer's estimate is recoverable: the truncated result is returned and
// the warning handler, if any, is invoked.
//
// # Encoding
//
//	encoder, err := codec.NewEncoder(endian.GetLittleEndianEngine())
//	if err != nil {
//	    return err
//	}
//	res := encoder.Float64s(values)
//	// res.Text, res.Precision (bits), res.TypeName ("float")
//
// Encoding an empty or nil array yields an empty Text while still
// reporting the element type's precision and name, which callers use to
// annotate serialized output.
//
// Both Decoder and Encoder are stateless after construction and safe for
// concurrent use.
package codec
