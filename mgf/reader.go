// Package mgf reads Mascot Generic Format files: plain-text spectrum
// blocks delimited by BEGIN IONS / END IONS, each carrying KEY=VALUE
// headers followed by whitespace-separated peak lines.
//
// The reader streams blocks in file order through Next, and supports
// random access by title through an offset index keyed by the xxhash64 of
// each TITLE header. MGF files routinely reach gigabytes, so the index
// stores only hashes and byte offsets; the title itself is re-checked
// after the seek.
package mgf

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chemdata/mzio/internal/hash"
	"github.com/chemdata/mzio/scan"
	"github.com/chemdata/mzio/spectrum"
)

const (
	beginIons = "BEGIN IONS"
	endIons   = "END IONS"
)

// ErrTitleNotFound reports a Seek for a title absent from the file.
var ErrTitleNotFound = errors.New("title not found")

// Reader streams the spectrum blocks of an MGF file.
//
// A Reader owns its underlying line reader and is not safe for concurrent
// use.
type Reader struct {
	lines *scan.Reader
	index map[uint64]int64
}

// Open opens the MGF file at path. Line-reader options such as
// scan.WithMacintoshTerminator may be passed through.
func Open(path string, opts ...scan.ReaderOption) (*Reader, error) {
	lines, err := scan.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("mgf: %w", err)
	}

	return &Reader{lines: lines}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.lines.Close()
}

// Reset repositions the reader so that Next returns the first block again.
func (r *Reader) Reset() error {
	if err := r.lines.MoveToBeginning(); err != nil {
		return fmt.Errorf("mgf: %w", err)
	}

	return nil
}

// Next reads the next BEGIN IONS block and returns its spectrum. Lines
// outside blocks, blank lines and comment lines (#, ;, ! or /) are
// skipped. Returns io.EOF after the last block.
func (r *Reader) Next() (*spectrum.Spectrum, error) {
	for {
		line, ok := r.lines.ReadLine()
		if !ok {
			return nil, io.EOF
		}
		if strings.TrimSpace(line.Text) == beginIons {
			return r.readBlock(line.Start)
		}
	}
}

// readBlock parses header and peak lines until END IONS.
func (r *Reader) readBlock(blockStart int64) (*spectrum.Spectrum, error) {
	sp := &spectrum.Spectrum{}

	for {
		line, ok := r.lines.ReadLine()
		if !ok {
			return nil, fmt.Errorf("mgf: block at offset %d has no END IONS", blockStart)
		}

		text := strings.TrimSpace(line.Text)
		switch {
		case text == "" || isComment(text):
			continue
		case text == endIons:
			if sp.ID == "" {
				sp.ID = fmt.Sprintf("offset=%d", blockStart)
			}
			return sp, nil
		case strings.Contains(text, "="):
			if err := r.applyHeader(sp, text, line.Start); err != nil {
				return nil, err
			}
		default:
			peak, err := parsePeak(text, line.Start)
			if err != nil {
				return nil, err
			}
			sp.Peaks = append(sp.Peaks, peak)
		}
	}
}

func (r *Reader) applyHeader(sp *spectrum.Spectrum, text string, offset int64) error {
	key, value, _ := strings.Cut(text, "=")
	key = strings.ToUpper(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case "TITLE":
		sp.Title = value
		sp.ID = value
	case "PEPMASS":
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return fmt.Errorf("mgf: empty PEPMASS at offset %d", offset)
		}
		mz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("mgf: bad PEPMASS at offset %d: %w", offset, err)
		}
		sp.PrecursorMz = mz
		if len(fields) > 1 {
			if intensity, err := strconv.ParseFloat(fields[1], 64); err == nil {
				sp.PrecursorIntensity = intensity
			}
		}
	case "CHARGE":
		charges, err := parseCharges(value)
		if err != nil {
			return fmt.Errorf("mgf: bad CHARGE at offset %d: %w", offset, err)
		}
		sp.Charges = charges
	case "RTINSECONDS":
		// Ranges like "1200-1260" report their start.
		first := value
		if i := strings.IndexByte(value, '-'); i > 0 {
			first = value[:i]
		}
		rt, err := strconv.ParseFloat(first, 64)
		if err != nil {
			return fmt.Errorf("mgf: bad RTINSECONDS at offset %d: %w", offset, err)
		}
		sp.RetentionTime = rt
	default:
		// Unknown headers (SCANS, instrument hints, search parameters)
		// are tolerated and skipped.
	}

	return nil
}

// BuildIndex scans the whole file and records the starting offset of every
// titled block, keyed by the xxhash64 of the title. It returns the number
// of indexed blocks and leaves the reader positioned at the beginning.
func (r *Reader) BuildIndex() (int, error) {
	if err := r.lines.MoveToBeginning(); err != nil {
		return 0, fmt.Errorf("mgf: %w", err)
	}

	index := make(map[uint64]int64)
	var blockStart int64 = -1

	for {
		line, ok := r.lines.ReadLine()
		if !ok {
			break
		}
		text := strings.TrimSpace(line.Text)
		switch {
		case text == beginIons:
			blockStart = line.Start
		case blockStart >= 0 && strings.HasPrefix(text, "TITLE="):
			title := strings.TrimSpace(text[len("TITLE="):])
			index[hash.ID(title)] = blockStart
			blockStart = -1
		case text == endIons:
			blockStart = -1
		}
	}

	r.index = index
	if err := r.lines.MoveToBeginning(); err != nil {
		return 0, fmt.Errorf("mgf: %w", err)
	}

	return len(index), nil
}

// Seek positions the reader at the block whose TITLE equals title, so that
// the next call to Next returns it. The index is built on first use.
// Returns ErrTitleNotFound when no block carries the title; a hash
// collision on a different title reports the same.
func (r *Reader) Seek(title string) error {
	if r.index == nil {
		if _, err := r.BuildIndex(); err != nil {
			return err
		}
	}

	offset, ok := r.index[hash.ID(title)]
	if !ok {
		return fmt.Errorf("mgf: %w: %q", ErrTitleNotFound, title)
	}
	if err := r.lines.MoveToByteOffset(offset); err != nil {
		return fmt.Errorf("mgf: %w", err)
	}

	// Guard against a hash collision mapping to a different title.
	found, err := r.peekTitle()
	if err != nil {
		return err
	}
	if found != title {
		return fmt.Errorf("mgf: %w: %q", ErrTitleNotFound, title)
	}

	return r.moveBack(offset)
}

func (r *Reader) peekTitle() (string, error) {
	for {
		line, ok := r.lines.ReadLine()
		if !ok {
			return "", fmt.Errorf("mgf: truncated block")
		}
		text := strings.TrimSpace(line.Text)
		if strings.HasPrefix(text, "TITLE=") {
			return strings.TrimSpace(text[len("TITLE="):]), nil
		}
		if text == endIons {
			return "", nil
		}
	}
}

func (r *Reader) moveBack(offset int64) error {
	if err := r.lines.MoveToByteOffset(offset); err != nil {
		return fmt.Errorf("mgf: %w", err)
	}

	return nil
}

func isComment(text string) bool {
	switch text[0] {
	case '#', ';', '!', '/':
		return true
	default:
		return false
	}
}

// parsePeak splits a peak line into m/z and intensity. A bare m/z is
// accepted with zero intensity; any trailing fields (per-peak charge) are
// ignored.
func parsePeak(text string, offset int64) (spectrum.Peak, error) {
	fields := strings.Fields(text)
	mz, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return spectrum.Peak{}, fmt.Errorf("mgf: bad peak line at offset %d: %w", offset, err)
	}

	peak := spectrum.Peak{Mz: mz}
	if len(fields) > 1 {
		intensity, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return spectrum.Peak{}, fmt.Errorf("mgf: bad peak line at offset %d: %w", offset, err)
		}
		peak.Intensity = intensity
	}

	return peak, nil
}

// parseCharges parses CHARGE values like "2+", "3-", or lists joined by
// "and" or commas.
func parseCharges(value string) ([]int, error) {
	value = strings.ReplaceAll(value, " and ", ",")
	parts := strings.Split(value, ",")
	charges := make([]int, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		sign := 1
		switch part[len(part)-1] {
		case '+':
			part = part[:len(part)-1]
		case '-':
			sign = -1
			part = part[:len(part)-1]
		}

		n, err := strconv.Atoi(strings.TrimPrefix(part, "+"))
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n, sign = -n, -1
		}
		charges = append(charges, sign*n)
	}

	return charges, nil
}
