package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantEnc Encoding
		wantBOM int
	}{
		{
			name:    "utf16le bom",
			data:    []byte{0xFF, 0xFE, 'a', 0, 'b', 0},
			wantEnc: EncodingUTF16LE,
			wantBOM: 2,
		},
		{
			name:    "utf16be bom",
			data:    []byte{0xFE, 0xFF, 0, 'a', 0, 'b'},
			wantEnc: EncodingUTF16BE,
			wantBOM: 2,
		},
		{
			name:    "utf8 bom",
			data:    []byte{0xEF, 0xBB, 0xBF, 'a', 'b'},
			wantEnc: EncodingUTF8,
			wantBOM: 3,
		},
		{
			name:    "plain ascii",
			data:    []byte("BEGIN IONS\nTITLE=run01\n"),
			wantEnc: EncodingASCII,
			wantBOM: 0,
		},
		{
			name:    "bomless utf16le by alternation",
			data:    []byte{'a', 0, 'b', 0, 'c', 0, '\r', 0, '\n', 0},
			wantEnc: EncodingUTF16LE,
			wantBOM: 0,
		},
		{
			name:    "bomless utf16be by alternation",
			data:    []byte{0, 'a', 0, 'b', 0, 'c', 0, '\r', 0, '\n'},
			wantEnc: EncodingUTF16BE,
			wantBOM: 0,
		},
		{
			name:    "empty",
			data:    nil,
			wantEnc: EncodingASCII,
			wantBOM: 0,
		},
		{
			name:    "single byte",
			data:    []byte{'x'},
			wantEnc: EncodingASCII,
			wantBOM: 0,
		},
		{
			name:    "binary with scattered zeros stays ascii",
			data:    []byte{'a', 'b', 0, 0, 'c', 'd', 0, 'e', 'f', 0},
			wantEnc: EncodingASCII,
			wantBOM: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, bom := detectEncoding(tt.data)
			assert.Equal(t, tt.wantEnc, enc)
			assert.Equal(t, tt.wantBOM, bom)
		})
	}
}

func TestEncodingCharSize(t *testing.T) {
	assert.Equal(t, 1, EncodingASCII.CharSize())
	assert.Equal(t, 1, EncodingUTF8.CharSize())
	assert.Equal(t, 2, EncodingUTF16LE.CharSize())
	assert.Equal(t, 2, EncodingUTF16BE.CharSize())
}

func TestEncodingString(t *testing.T) {
	assert.Equal(t, "ASCII", EncodingASCII.String())
	assert.Equal(t, "UTF-8", EncodingUTF8.String())
	assert.Equal(t, "UTF-16LE", EncodingUTF16LE.String())
	assert.Equal(t, "UTF-16BE", EncodingUTF16BE.String())
	assert.Equal(t, "Unknown", Encoding(0xFF).String())
}

func TestDecodeText(t *testing.T) {
	require.Equal(t, "abc", decodeText([]byte("abc"), EncodingASCII))
	require.Equal(t, "ab", decodeText([]byte{'a', 0, 'b', 0}, EncodingUTF16LE))
	require.Equal(t, "ab", decodeText([]byte{0, 'a', 0, 'b'}, EncodingUTF16BE))
	require.Equal(t, "", decodeText(nil, EncodingUTF16LE))
}
