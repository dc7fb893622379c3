// Package scan provides a bidirectional, encoding-aware line reader over
// large byte streams.
//
// Mass-spectrometry text formats routinely reach multiple gigabytes, and
// the interesting records often sit at arbitrary offsets recorded in an
// index. Reader therefore never loads the whole stream: it slides a
// power-of-two buffer window over the file and scans for line terminators
// inside the window, growing or sliding it only when a line crosses the
// window edge.
//
// Key behaviors:
//
//   - Encoding detection: Open sniffs the byte-order mark (UTF-16LE,
//     UTF-16BE or UTF-8) and falls back to a statistical test that
//     recognizes BOM-less UTF-16 by its alternating zero bytes. The first
//     line read never includes the mark.
//
//   - Bidirectional iteration: ReadLineDirection scans Forward or Reverse
//     from the current position, and MoveToByteOffset repositions the
//     reader anywhere in the stream in O(1) window slides. Reversing
//     direction never yields the line that was just produced.
//
//   - Terminator policies: TerminatorWindows accepts both CRLF and bare
//     LF; TerminatorMacintosh accepts bare CR. The policy is a pair of
//     byte codes, so other single- or two-code conventions work too.
//
//   - 16-bit alignment: for UTF-16 streams all window arithmetic preserves
//     2-byte code-unit alignment, and a scan that starts mid-unit detects
//     the resulting zero-byte skew and re-syncs itself.
//
// Basic usage:
//
//	r, err := scan.Open("run01.mgf")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for line, ok := r.ReadLine(); ok; line, ok = r.ReadLine() {
//	    process(line.Text, line.Start)
//	}
//
// A Reader owns its file handle and is not safe for concurrent use.
package scan
