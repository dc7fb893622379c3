package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
//
// Spectrum titles in MGF files can run to hundreds of characters; index
// entries key on this 64-bit hash instead of the title itself.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// PayloadID computes the xxHash64 of a raw byte payload.
//
// Used to fingerprint decoded peak payloads when deduplicating records
// that appear more than once in a file.
func PayloadID(data []byte) uint64 {
	return xxhash.Sum64(data)
}
