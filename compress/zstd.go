package compress

// ZstdCompressor provides Zstandard compression for peak payloads.
//
// Zstd is not a wire format any of the supported mass-spectrometry file
// formats use; it exists for derived artifacts this library writes itself,
// such as cached peak payloads and extracted-spectrum scratch files, where
// compression ratio matters more than speed:
//   - Cold storage of extracted peak arrays
//   - Long-term retention of per-file scan caches
//   - Scenarios where decompression happens infrequently
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(payload)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
