// Package scanner provides the lexical primitives used to find translation
// keys in script source without parsing it.
//
// Every Skip/Scan function takes the full text and the byte offset of the
// first byte of a construct (the quote, the backtick, the slash) and
// returns the offset just past it. Unterminated input is consumed to the
// end of the text; nothing here returns an error.
//
// The scanner works on bytes. Bytes of multi-byte UTF-8 sequences are
// treated as identifier characters, which is what word-boundary checks need.
package scanner

// IsIdentChar reports whether b can be part of a script identifier.
func IsIdentChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_' || b == '$':
		return true
	}
	return b >= 0x80
}

// IsSpace reports whether b is ASCII whitespace.
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// SkipSpace returns the offset of the first non-space byte at or after i.
func SkipSpace(text string, i int) int {
	for i < len(text) && IsSpace(text[i]) {
		i++
	}
	return i
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// skipNested consumes the literal or comment starting at i, if any.
// It is the shared rule set of every balanced scan in this package.
func skipNested(text string, i int) (int, bool) {
	c := text[i]
	var next byte
	if i+1 < len(text) {
		next = text[i+1]
	}
	switch {
	case c == '\'' || c == '"':
		return SkipString(text, i), true
	case c == '`':
		return SkipTemplate(text, i), true
	case c == '/' && next == '/':
		return SkipLineComment(text, i), true
	case c == '/' && next == '*':
		return SkipBlockComment(text, i), true
	case c == '/' && CanStartRegex(text, i):
		return SkipRegex(text, i), true
	}
	return i, false
}
