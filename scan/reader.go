package scan

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chemdata/mzio/internal/options"
)

// DefaultWindowSize is the initial capacity of the buffer window.
// Window capacities are always powers of two so that doubling and
// whole-window slides preserve 2-byte character alignment.
const DefaultWindowSize = 4096

var (
	// ErrEmptyPath reports an Open call with an empty path.
	ErrEmptyPath = errors.New("empty path")
	// ErrZeroLength reports an Open call on a zero-length file.
	ErrZeroLength = errors.New("zero-length file")
)

// Line is the most recently produced line of a Reader. Offsets are
// absolute stream byte offsets; End excludes the terminator while
// EndWithTerminator includes it. Terminator holds the literal terminator
// bytes found, decoded to a string, and is empty for a line synthesized at
// a stream boundary.
type Line struct {
	Text              string
	Start             int64
	End               int64
	EndWithTerminator int64
	Terminator        string
}

// Direction selects the scan direction of a read.
type Direction uint8

const (
	// Forward reads the next line toward the end of the stream.
	Forward Direction = iota
	// Reverse reads the previous line toward the beginning of the stream.
	Reverse
)

// Reader scans an open byte stream for line boundaries through a sliding
// buffer window, in either direction, without loading the whole stream.
//
// A Reader exclusively owns its file handle and window; it is not safe for
// concurrent use. Every read mutates the window and position state.
type Reader struct {
	file   *os.File
	length int64

	enc      Encoding
	charSize int
	bomLen   int
	term     Terminator

	errHandler func(error)
	windowSize int

	buf             []byte // capacity is always a power of two
	count           int    // valid bytes in buf
	fileOffsetStart int64  // absolute stream offset of buf[0]
	nextLineStart   int    // index in buf where the next forward line begins

	cur        Line
	lineNumber int64

	memoValid bool
	memoDir   Direction
	memoStart int64
	memoText  string
}

// ReaderOption represents a functional option for configuring a Reader.
type ReaderOption = options.Option[*Reader]

// WithTerminator sets the line-terminator convention. The default is
// TerminatorWindows, which also matches plain Unix LF endings.
func WithTerminator(t Terminator) ReaderOption {
	return options.New(func(r *Reader) error {
		if t.Second == 0 {
			return fmt.Errorf("terminator requires a second code")
		}
		r.term = t

		return nil
	})
}

// WithMacintoshTerminator selects bare-CR line endings.
func WithMacintoshTerminator() ReaderOption {
	return WithTerminator(TerminatorMacintosh)
}

// WithWindowSize sets the initial window capacity. The value is rounded up
// to the next power of two; the window only ever grows from there.
func WithWindowSize(n int) ReaderOption {
	return options.New(func(r *Reader) error {
		if n <= 0 {
			return fmt.Errorf("window size must be positive, got %d", n)
		}
		r.windowSize = nextPowerOfTwo(n)

		return nil
	})
}

// WithErrorHandler registers the error-notification side channel invoked
// when an unexpected I/O failure interrupts a scan. The failing read
// reports "no line"; the handler receives the underlying error.
func WithErrorHandler(fn func(error)) ReaderOption {
	return options.New(func(r *Reader) error {
		if fn == nil {
			return fmt.Errorf("error handler must not be nil")
		}
		r.errHandler = fn

		return nil
	})
}

// Open opens the file at path read-only with shared-read access, positions
// the window at the beginning of the stream and runs encoding detection.
//
// It fails if the path is empty, the file does not exist or cannot be
// opened, or the file is zero-length.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	r := &Reader{
		term:       TerminatorWindows,
		windowSize: DefaultWindowSize,
	}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open stream: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot stat stream: %w", err)
	}
	if info.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrZeroLength, path)
	}

	r.file = f
	r.length = info.Size()
	r.buf = make([]byte, r.windowSize)

	if err := r.MoveToBeginning(); err != nil {
		f.Close()
		return nil, err
	}

	return r, nil
}

// Close releases the underlying file handle. The Reader must not be used
// afterwards.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil

	return err
}

// MoveToBeginning reloads the window from offset 0, re-runs encoding
// detection and resets the line counter.
func (r *Reader) MoveToBeginning() error {
	if err := r.load(0); err != nil {
		return fmt.Errorf("cannot read stream head: %w", err)
	}

	r.enc, r.bomLen = detectEncoding(r.buf[:r.count])
	r.charSize = r.enc.CharSize()
	r.nextLineStart = r.bomLen
	r.lineNumber = 0
	r.cur = Line{}
	r.memoValid = false

	return nil
}

// MoveToEnd repositions to the stream's total length, so that the next
// Reverse read starts from EOF.
func (r *Reader) MoveToEnd() error {
	return r.MoveToByteOffset(r.length)
}

// MoveToByteOffset repositions the reader at the given absolute offset,
// clamped into [0, Length()]. If the offset falls outside the current
// window, the window slides by whole window lengths until it covers the
// offset, preserving character alignment; otherwise only the position
// inside the window changes.
func (r *Reader) MoveToByteOffset(offset int64) error {
	if offset < 0 {
		offset = 0
	}
	if offset > r.length {
		offset = r.length
	}

	idx := offset - r.fileOffsetStart
	if idx < 0 || idx > int64(r.count) {
		window := int64(len(r.buf))
		start := r.fileOffsetStart
		for offset < start {
			start -= window
		}
		for offset >= start+window {
			start += window
		}
		if start < 0 {
			start = 0
		}
		if err := r.load(start); err != nil {
			r.notify(err)
			return fmt.Errorf("cannot slide window to offset %d: %w", offset, err)
		}
		idx = offset - r.fileOffsetStart
	}

	r.nextLineStart = int(idx)
	r.memoValid = false

	return nil
}

// SetEncoding overrides the detected encoding. The derived character size
// updates accordingly; the byte-order-mark length is left as detected.
func (r *Reader) SetEncoding(enc Encoding) {
	r.enc = enc
	r.charSize = enc.CharSize()
}

// SetTerminator changes the line-terminator convention for future scans.
func (r *Reader) SetTerminator(t Terminator) {
	r.term = t
}

// ByteAtBOF reports whether pos sits at the beginning of the stream's
// content, i.e. at or before the end of the byte-order mark.
func (r *Reader) ByteAtBOF(pos int64) bool {
	return pos <= int64(r.bomLen)
}

// ByteAtEOF reports whether pos sits at or past the end of the stream.
func (r *Reader) ByteAtEOF(pos int64) bool {
	return pos >= r.length
}

// CurrentLine returns the line produced by the most recent read.
func (r *Reader) CurrentLine() Line { return r.cur }

// LineNumber returns the count of forward reads minus backward reads since
// the reader was opened or moved to the beginning.
func (r *Reader) LineNumber() int64 { return r.lineNumber }

// Length returns the stream's total byte length.
func (r *Reader) Length() int64 { return r.length }

// Encoding returns the active text encoding.
func (r *Reader) Encoding() Encoding { return r.enc }

// CharSize returns the active encoding's bytes per code unit.
func (r *Reader) CharSize() int { return r.charSize }

// BOMLength returns the detected byte-order mark length: 0, 2 or 3.
func (r *Reader) BOMLength() int { return r.bomLen }

// Terminator returns the active line-terminator convention.
func (r *Reader) Terminator() Terminator { return r.term }

// load fills the window from the given absolute offset.
func (r *Reader) load(offset int64) error {
	n, err := r.file.ReadAt(r.buf, offset)
	if err != nil && err != io.EOF {
		return err
	}
	r.fileOffsetStart = offset
	r.count = n

	return nil
}

// growForward discards the consumed prefix before keepFrom, doubles the
// window if it is still full, and appends newly read bytes. It returns the
// number of positions existing indices shifted down by. The field
// nextLineStart is kept consistent so that a failed scan leaves the reader
// usable.
func (r *Reader) growForward(keepFrom int) (int, error) {
	shifted := keepFrom
	if shifted > 0 {
		copy(r.buf, r.buf[shifted:r.count])
		r.fileOffsetStart += int64(shifted)
		r.count -= shifted
		r.nextLineStart = max(0, r.nextLineStart-shifted)
	}

	if r.count == len(r.buf) {
		grown := make([]byte, len(r.buf)*2)
		copy(grown, r.buf[:r.count])
		r.buf = grown
	}

	n, err := r.file.ReadAt(r.buf[r.count:], r.fileOffsetStart+int64(r.count))
	if err != nil && err != io.EOF {
		return shifted, err
	}
	r.count += n

	return shifted, nil
}

// growBackward shifts the window toward its end and prepends earlier
// stream bytes, doubling the window first if it is full. It never reads
// before the byte-order mark. It returns the number of positions existing
// indices shifted up by; zero means the beginning of content is already in
// the window.
func (r *Reader) growBackward() (int, error) {
	avail := r.fileOffsetStart - int64(r.bomLen)
	if avail <= 0 {
		return 0, nil
	}

	free := len(r.buf) - r.count
	if free == 0 {
		grown := make([]byte, len(r.buf)*2)
		copy(grown, r.buf[:r.count])
		r.buf = grown
		free = len(r.buf) - r.count
	}

	delta := free
	if int64(delta) > avail {
		delta = int(avail)
	}
	delta -= delta % r.charSize
	if delta == 0 {
		return 0, nil
	}

	copy(r.buf[delta:delta+r.count], r.buf[:r.count])

	if _, err := r.file.ReadAt(r.buf[:delta], r.fileOffsetStart-int64(delta)); err != nil && err != io.EOF {
		// Undo the shift so indices stay valid for a later move.
		copy(r.buf[:r.count], r.buf[delta:delta+r.count])
		return 0, err
	}

	r.fileOffsetStart -= int64(delta)
	r.count += delta
	r.nextLineStart += delta

	return delta, nil
}

func (r *Reader) notify(err error) {
	if r.errHandler != nil {
		r.errHandler(err)
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p *= 2
	}

	return p
}
