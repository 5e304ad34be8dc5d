package codebase

// LineColToOffset converts a 1-based line and column to a byte offset
// into src. Columns count bytes. Positions past the end of a line clamp
// to the line's newline; lines past the end clamp to len(src).
func LineColToOffset(src []byte, line, col int) int {
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	offset := 0
	for line > 1 && offset < len(src) {
		if src[offset] == '\n' {
			line--
		}
		offset++
	}
	for col > 1 && offset < len(src) && src[offset] != '\n' {
		col--
		offset++
	}
	return offset
}

// OffsetToLineCol converts a byte offset into 1-based line and column.
func OffsetToLineCol(src []byte, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	line, col = 1, 1
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// PrefixAt returns the identifier fragment ending at offset: the
// partially typed word a completion request should treat as its filter.
func PrefixAt(src []byte, offset int) string {
	if offset > len(src) {
		offset = len(src)
	}
	start := offset
	for start > 0 && isIdentByte(src[start-1]) {
		start--
	}
	// An identifier cannot start with a digit; a fragment that does is a
	// number literal, not a prefix.
	for start < offset && src[start] >= '0' && src[start] <= '9' {
		start++
	}
	return string(src[start:offset])
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' ||
		b >= 0x80
}
