package scan

import (
	"context"
)

// ReadLine reads the next line in the Forward direction.
func (r *Reader) ReadLine() (Line, bool) {
	return r.ReadLineDirection(Forward)
}

// ReadLineDirection reads the next line in the given direction. The second
// return value is false when no more data exists in that direction, or
// when an I/O failure interrupted the scan (reported through the error
// handler); it is never an error value, since running out of stream is the
// ordinary way iteration ends.
func (r *Reader) ReadLineDirection(dir Direction) (Line, bool) {
	return r.ReadLineContext(context.Background(), dir)
}

// ReadLineContext reads like ReadLineDirection but stops early when ctx is
// cancelled. Cancellation matters for pathological inputs: a stream whose
// final "line" is unterminated forces the window to grow toward the full
// remaining stream size before the boundary is reached.
func (r *Reader) ReadLineContext(ctx context.Context, dir Direction) (Line, bool) {
	if r.file == nil {
		return Line{}, false
	}

	line, ok := r.scan(ctx, dir)
	if !ok {
		r.memoValid = false
		return Line{}, false
	}

	// A direction flip right after a read lands on the line that was just
	// produced; skip it once so the caller never sees the duplicate. The
	// memo is invalidated first, bounding this to a single retry.
	if r.memoValid && r.memoDir != dir && r.memoStart == line.Start && r.memoText == line.Text {
		r.memoValid = false
		line, ok = r.scan(ctx, dir)
		if !ok {
			return Line{}, false
		}
	}

	r.memoValid = true
	r.memoDir = dir
	r.memoStart = line.Start
	r.memoText = line.Text

	if dir == Forward {
		r.lineNumber++
	} else {
		r.lineNumber--
	}

	return line, true
}

func (r *Reader) scan(ctx context.Context, dir Direction) (Line, bool) {
	if dir == Reverse {
		return r.scanBackward(ctx)
	}

	return r.scanForward(ctx)
}

// unitAt splits the code unit starting at index i into its value byte (the
// one carrying a single-byte character) and its sibling byte (the one that
// is zero for such characters). For single-byte encodings the sibling is
// reported as zero.
func (r *Reader) unitAt(i int) (value, sibling byte) {
	if r.charSize == 1 {
		return r.buf[i], 0
	}
	if r.enc == EncodingUTF16LE {
		return r.buf[i], r.buf[i+1]
	}

	return r.buf[i+1], r.buf[i]
}

// matchUnit reports whether the code unit at index i encodes the byte code c.
func (r *Reader) matchUnit(i int, c byte) bool {
	value, sibling := r.unitAt(i)
	return value == c && (r.charSize == 1 || sibling == 0)
}

func (r *Reader) scanForward(ctx context.Context) (Line, bool) {
	cs := r.charSize
	if r.fileOffsetStart+int64(r.nextLineStart) >= r.length {
		return Line{}, false
	}

	lineStart := r.nextLineStart
	i := lineStart
	corrections := 0
	tested, zeroish := 0, 0

	for {
		if err := ctx.Err(); err != nil {
			r.notify(err)
			return Line{}, false
		}

		for i+cs <= r.count {
			value, _ := r.unitAt(i)
			tested++
			if cs == 2 && value == 0 {
				zeroish++
			}

			if r.matchUnit(i, r.term.Second) {
				termStart := i
				termStr := string(rune(r.term.Second))
				if r.term.First != 0 && termStart-cs >= lineStart && r.matchUnit(termStart-cs, r.term.First) {
					termStart -= cs
					termStr = string([]byte{r.term.First, r.term.Second})
				}

				line := r.commit(lineStart, termStart, i+cs, termStr)
				r.nextLineStart = i + cs

				return line, true
			}

			i += cs
		}

		// Buffer boundary. A scan start that split a 16-bit code unit reads
		// the zero padding as the value byte nearly everywhere; re-sync by
		// shifting the start once per surplus byte of the character width.
		if corrections < cs-1 && tested > 0 && float64(zeroish)/float64(tested) >= zeroThreshold {
			corrections++
			lineStart++
			i = lineStart
			tested, zeroish = 0, 0

			continue
		}

		if r.fileOffsetStart+int64(r.count) >= r.length {
			// Stream boundary: synthesize the end of line at EOF.
			line := r.commit(lineStart, r.count, r.count, "")
			r.nextLineStart = r.count

			return line, true
		}

		shifted, err := r.growForward(lineStart)
		if err != nil {
			r.notify(err)
			return Line{}, false
		}
		lineStart -= shifted
		i -= shifted
	}
}

func (r *Reader) scanBackward(ctx context.Context) (Line, bool) {
	cs := r.charSize
	if r.fileOffsetStart+int64(r.nextLineStart) <= int64(r.bomLen) {
		return Line{}, false
	}

	p := r.nextLineStart

	// Make sure the two code units preceding p are in the window, so the
	// terminator that ends the returned line can be identified.
	for p < 2*cs && r.fileOffsetStart > int64(r.bomLen) {
		delta, err := r.growBackward()
		if err != nil {
			r.notify(err)
			return Line{}, false
		}
		if delta == 0 {
			break
		}
		p += delta
	}

	contentEnd := p
	termStr := ""
	if p-cs >= 0 && r.matchUnit(p-cs, r.term.Second) {
		contentEnd = p - cs
		termStr = string(rune(r.term.Second))
		if r.term.First != 0 && contentEnd-cs >= 0 && r.matchUnit(contentEnd-cs, r.term.First) {
			contentEnd -= cs
			termStr = string([]byte{r.term.First, r.term.Second})
		}
	}

	j := contentEnd - cs
	corrections := 0
	tested, zeroish := 0, 0

	for {
		if err := ctx.Err(); err != nil {
			r.notify(err)
			return Line{}, false
		}

		for j >= 0 {
			value, _ := r.unitAt(j)
			tested++
			if cs == 2 && value == 0 {
				zeroish++
			}

			if r.matchUnit(j, r.term.Second) {
				start := j + cs
				line := r.commit(start, contentEnd, p, termStr)
				r.nextLineStart = start

				return line, true
			}

			j -= cs
		}

		// Window start reached without a terminator; same code-unit
		// re-sync as the forward scan, shifting the scan start down.
		if corrections < cs-1 && tested > 0 && float64(zeroish)/float64(tested) >= zeroThreshold {
			corrections++
			j = contentEnd - cs - corrections
			tested, zeroish = 0, 0

			continue
		}

		delta, err := r.growBackward()
		if err != nil {
			r.notify(err)
			return Line{}, false
		}
		if delta == 0 {
			// Stream boundary: the line starts right after the BOM.
			start := int(int64(r.bomLen) - r.fileOffsetStart)
			if start < 0 {
				start = 0
			}
			line := r.commit(start, contentEnd, p, termStr)
			r.nextLineStart = start

			return line, true
		}

		j += delta
		contentEnd += delta
		p += delta
	}
}

// commit records and returns the scanned line. A degenerate span clamps to
// an empty line at its start offset.
func (r *Reader) commit(startIdx, endIdx, endWithIdx int, termStr string) Line {
	if endIdx < startIdx {
		endIdx = startIdx
	}
	if endWithIdx < endIdx {
		endWithIdx = endIdx
	}

	r.cur = Line{
		Text:              decodeText(r.buf[startIdx:endIdx], r.enc),
		Start:             r.fileOffsetStart + int64(startIdx),
		End:               r.fileOffsetStart + int64(endIdx),
		EndWithTerminator: r.fileOffsetStart + int64(endWithIdx),
		Terminator:        termStr,
	}

	return r.cur
}
