package scan

// Terminator describes a line-terminator convention as two byte codes: an
// optional first code (0 when absent) and a required second code. A line
// ends wherever the second code appears; the first code, when present
// immediately before it, is folded into the terminator.
type Terminator struct {
	First  byte
	Second byte
}

var (
	// TerminatorWindows matches both Windows CRLF and Unix LF endings:
	// a required LF optionally preceded by CR.
	TerminatorWindows = Terminator{First: '\r', Second: '\n'}

	// TerminatorMacintosh matches classic Mac OS endings: a bare CR.
	TerminatorMacintosh = Terminator{Second: '\r'}
)
