package scan

import (
	"unicode/utf16"

	"github.com/chemdata/mzio/endian"
)

// Encoding identifies the text encoding of an open stream.
//
// It is set once per Open or MoveToBeginning by BOM sniffing with a
// statistical fallback, and may be overridden by the caller at any time
// through SetEncoding.
type Encoding uint8

const (
	// EncodingASCII is the single-byte default, compatible with UTF-8
	// streams that carry no byte-order mark.
	EncodingASCII Encoding = iota
	// EncodingUTF8 is UTF-8 identified by its 3-byte mark.
	EncodingUTF8
	// EncodingUTF16LE is UTF-16 little-endian.
	EncodingUTF16LE
	// EncodingUTF16BE is UTF-16 big-endian.
	EncodingUTF16BE
)

// CharSize returns the number of bytes per code unit: 1 or 2.
func (e Encoding) CharSize() int {
	switch e {
	case EncodingUTF16LE, EncodingUTF16BE:
		return 2
	default:
		return 1
	}
}

func (e Encoding) String() string {
	switch e {
	case EncodingASCII:
		return "ASCII"
	case EncodingUTF8:
		return "UTF-8"
	case EncodingUTF16LE:
		return "UTF-16LE"
	case EncodingUTF16BE:
		return "UTF-16BE"
	default:
		return "Unknown"
	}
}

// zeroThreshold is the alternation ratio above which a BOM-less stream is
// assumed to be UTF-16, and the zero-byte fraction above which a failed
// terminator scan is assumed to have started inside a code unit. The
// heuristic is best effort on short or adversarial prefixes; the threshold
// and sampling scope are kept as-is for compatibility with existing files.
const zeroThreshold = 0.95

// detectEncoding sniffs the buffered prefix b, which must start at stream
// offset zero. Returns the encoding and the byte-order-mark length.
func detectEncoding(b []byte) (Encoding, int) {
	switch {
	case len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE:
		return EncodingUTF16LE, 2
	case len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF:
		return EncodingUTF16BE, 2
	case len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF:
		return EncodingUTF8, 3
	}

	// No BOM. Mostly-ASCII UTF-16 text alternates non-zero and zero bytes;
	// the alignment of the zero bytes picks the byte order.
	if alternationRatio(b, 0) >= zeroThreshold {
		return EncodingUTF16LE, 0
	}
	if alternationRatio(b, 1) >= zeroThreshold {
		return EncodingUTF16BE, 0
	}

	return EncodingASCII, 0
}

// alternationRatio samples b in steps of 2 from the given alignment and
// reports the fraction of pairs matching the (non-zero, zero) pattern of a
// 16-bit code unit holding a single-byte character.
func alternationRatio(b []byte, align int) float64 {
	tested, matched := 0, 0
	for i := align; i+1 < len(b); i += 2 {
		tested++
		if b[i] != 0 && b[i+1] == 0 {
			matched++
		}
	}
	if tested == 0 {
		return 0
	}

	return float64(matched) / float64(tested)
}

// decodeText converts raw line content into a string under the given encoding.
func decodeText(b []byte, enc Encoding) string {
	switch enc {
	case EncodingUTF16LE, EncodingUTF16BE:
		engine := endian.GetLittleEndianEngine()
		if enc == EncodingUTF16BE {
			engine = endian.GetBigEndianEngine()
		}
		units := make([]uint16, len(b)/2)
		for i := range units {
			units[i] = engine.Uint16(b[i*2 : i*2+2])
		}

		return string(utf16.Decode(units))
	default:
		return string(b)
	}
}
