package mgf

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemdata/mzio/spectrum"
)

const sampleMGF = `# exported by test fixture
SEARCH=MIS

BEGIN IONS
TITLE=run01 scan 101
PEPMASS=445.120025 23981.5
CHARGE=2+
RTINSECONDS=812.4
100.1 200.5
101.2 300.75
102.3 12.0
END IONS

; comment between blocks
BEGIN IONS
TITLE=run01 scan 102
PEPMASS=512.77
CHARGE=2+ and 3+
RTINSECONDS=1200-1260
150.5 1.25
END IONS

BEGIN IONS
PEPMASS=333.3
201.0 5.0
END IONS
`

func writeMGF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mgf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestNext(t *testing.T) {
	r, err := Open(writeMGF(t, sampleMGF))
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "run01 scan 101", first.Title)
	assert.Equal(t, "run01 scan 101", first.ID)
	assert.InDelta(t, 445.120025, first.PrecursorMz, 1e-9)
	assert.InDelta(t, 23981.5, first.PrecursorIntensity, 1e-9)
	assert.Equal(t, []int{2}, first.Charges)
	assert.InDelta(t, 812.4, first.RetentionTime, 1e-9)
	require.Len(t, first.Peaks, 3)
	assert.Equal(t, spectrum.Peak{Mz: 100.1, Intensity: 200.5}, first.Peaks[0])
	assert.Equal(t, spectrum.Peak{Mz: 102.3, Intensity: 12.0}, first.Peaks[2])

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, second.Charges)
	assert.InDelta(t, 1200, second.RetentionTime, 1e-9)
	require.Len(t, second.Peaks, 1)

	third, err := r.Next()
	require.NoError(t, err)
	assert.Empty(t, third.Title)
	assert.Contains(t, third.ID, "offset=")
	assert.Zero(t, third.RetentionTime)
	require.Len(t, third.Peaks, 1)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReset(t *testing.T) {
	r, err := Open(writeMGF(t, sampleMGF))
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)

	require.NoError(t, r.Reset())
	again, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestBuildIndexAndSeek(t *testing.T) {
	r, err := Open(writeMGF(t, sampleMGF))
	require.NoError(t, err)
	defer r.Close()

	n, err := r.BuildIndex()
	require.NoError(t, err)
	assert.Equal(t, 2, n) // the untitled block is not indexed

	require.NoError(t, r.Seek("run01 scan 102"))
	sp, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "run01 scan 102", sp.Title)
	assert.InDelta(t, 512.77, sp.PrecursorMz, 1e-9)

	// Seeking backwards works too.
	require.NoError(t, r.Seek("run01 scan 101"))
	sp, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "run01 scan 101", sp.Title)

	err = r.Seek("no such title")
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestSeek_BuildsIndexLazily(t *testing.T) {
	r, err := Open(writeMGF(t, sampleMGF))
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Seek("run01 scan 101"))
	sp, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "run01 scan 101", sp.Title)
}

func TestNext_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "missing end ions",
			content: "BEGIN IONS\nTITLE=x\n100.0 1.0\n",
			errPart: "no END IONS",
		},
		{
			name:    "bad peak line",
			content: "BEGIN IONS\n100.0 oops\nEND IONS\n",
			errPart: "bad peak line",
		},
		{
			name:    "bad pepmass",
			content: "BEGIN IONS\nPEPMASS=heavy\nEND IONS\n",
			errPart: "bad PEPMASS",
		},
		{
			name:    "bad charge",
			content: "BEGIN IONS\nCHARGE=two\nEND IONS\n",
			errPart: "bad CHARGE",
		},
		{
			name:    "bad rtinseconds",
			content: "BEGIN IONS\nRTINSECONDS=noon\nEND IONS\n",
			errPart: "bad RTINSECONDS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(writeMGF(t, tt.content))
			require.NoError(t, err)
			defer r.Close()

			_, err = r.Next()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestParseCharges(t *testing.T) {
	tests := []struct {
		value string
		want  []int
	}{
		{value: "2+", want: []int{2}},
		{value: "3-", want: []int{-3}},
		{value: "2+ and 3+", want: []int{2, 3}},
		{value: "1+, 2+, 3+", want: []int{1, 2, 3}},
		{value: "-2", want: []int{-2}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseCharges(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
