package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementType(t *testing.T) {
	tests := []struct {
		elem      ElementType
		width     int
		precision int
		name      string
		str       string
	}{
		{elem: ElementByte, width: 1, precision: 8, name: "byte", str: "Byte"},
		{elem: ElementInt16, width: 2, precision: 16, name: "int", str: "Int16"},
		{elem: ElementInt32, width: 4, precision: 32, name: "int", str: "Int32"},
		{elem: ElementFloat32, width: 4, precision: 32, name: "float", str: "Float32"},
		{elem: ElementFloat64, width: 8, precision: 64, name: "float", str: "Float64"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.width, tt.elem.Width())
			assert.Equal(t, tt.precision, tt.elem.Precision())
			assert.Equal(t, tt.name, tt.elem.Name())
			assert.Equal(t, tt.str, tt.elem.String())
		})
	}

	unknown := ElementType(0xF)
	assert.Equal(t, 0, unknown.Width())
	assert.Equal(t, "unknown", unknown.Name())
	assert.Equal(t, "Unknown", unknown.String())
}

func TestCompressionTypeString(t *testing.T) {
	assert.Equal(t, "None", CompressionNone.String())
	assert.Equal(t, "Flate", CompressionFlate.String())
	assert.Equal(t, "Zstd", CompressionZstd.String())
	assert.Equal(t, "S2", CompressionS2.String())
	assert.Equal(t, "LZ4", CompressionLZ4.String())
	assert.Equal(t, "Unknown", CompressionType(0xF).String())
}
