package dta

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemdata/mzio/spectrum"
)

func writeDTA(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan0101.dta")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestNext(t *testing.T) {
	r, err := Open(writeDTA(t, "890.44 2\n100.1 200.5\n101.2 300.75\n"))
	require.NoError(t, err)
	defer r.Close()

	sp, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "scan0101.dta", sp.ID)
	assert.InDelta(t, 890.44, sp.PrecursorMz, 1e-9)
	assert.Equal(t, []int{2}, sp.Charges)
	require.Len(t, sp.Peaks, 2)
	assert.Equal(t, spectrum.Peak{Mz: 100.1, Intensity: 200.5}, sp.Peaks[0])
	assert.Equal(t, spectrum.Peak{Mz: 101.2, Intensity: 300.75}, sp.Peaks[1])

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestNext_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{name: "header missing charge", content: "890.44\n", errPart: "header needs mass and charge"},
		{name: "bad mass", content: "heavy 2\n", errPart: "bad header mass"},
		{name: "bad charge", content: "890.44 two\n", errPart: "bad header charge"},
		{name: "bad peak", content: "890.44 2\n100.1 oops\n", errPart: "bad peak line"},
		{name: "blank only", content: "\n\n", errPart: "no header line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(writeDTA(t, tt.content))
			require.NoError(t, err)
			defer r.Close()

			_, err = r.Next()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}
