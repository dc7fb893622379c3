package format

type (
	ElementType     uint8
	CompressionType uint8
)

const (
	// ElementByte represents 8-bit unsigned bytes (no endianness).
	ElementByte ElementType = 0x1
	// ElementInt16 represents 16-bit signed integers.
	ElementInt16 ElementType = 0x2
	// ElementInt32 represents 32-bit signed integers.
	ElementInt32 ElementType = 0x3
	// ElementFloat32 represents IEEE 754 single-precision floats.
	ElementFloat32 ElementType = 0x4
	// ElementFloat64 represents IEEE 754 double-precision floats.
	ElementFloat64 ElementType = 0x5

	CompressionNone  CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionFlate CompressionType = 0x2 // CompressionFlate represents raw deflate as found in mzXML/mzData peak payloads.
	CompressionZstd  CompressionType = 0x3 // CompressionZstd represents Zstandard compression.
	CompressionS2    CompressionType = 0x4 // CompressionS2 represents S2 compression.
	CompressionLZ4   CompressionType = 0x5 // CompressionLZ4 represents LZ4 compression.
)

// Width returns the element's byte width: 1, 2, 4, 4 or 8.
func (e ElementType) Width() int {
	switch e {
	case ElementByte:
		return 1
	case ElementInt16:
		return 2
	case ElementInt32, ElementFloat32:
		return 4
	case ElementFloat64:
		return 8
	default:
		return 0
	}
}

// Precision returns the element's precision in bits (Width * 8).
func (e ElementType) Precision() int {
	return e.Width() * 8
}

// Name returns the type name reported alongside encoded payloads.
// Both integer widths report "int" and both float widths report "float";
// the exact width is carried separately as the precision.
func (e ElementType) Name() string {
	switch e {
	case ElementByte:
		return "byte"
	case ElementInt16, ElementInt32:
		return "int"
	case ElementFloat32, ElementFloat64:
		return "float"
	default:
		return "unknown"
	}
}

func (e ElementType) String() string {
	switch e {
	case ElementByte:
		return "Byte"
	case ElementInt16:
		return "Int16"
	case ElementInt32:
		return "Int32"
	case ElementFloat32:
		return "Float32"
	case ElementFloat64:
		return "Float64"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionFlate:
		return "Flate"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
