package scanner

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

var simpleEscapes = map[byte]string{
	'b':  "\b",
	'f':  "\f",
	'n':  "\n",
	'r':  "\r",
	't':  "\t",
	'v':  "\v",
	'0':  "\x00",
	'\\': "\\",
	'\'': "'",
	'"':  "\"",
	'`':  "`",
	'$':  "$",
}

// DecodeEscape decodes the escape sequence whose first byte (the one after
// the backslash) is at i. It returns the decoded text and the offset just
// past the sequence. Unknown escapes decode to the escaped character itself.
func DecodeEscape(text string, i int) (string, int) {
	if i >= len(text) {
		return "\\", i
	}

	c := text[i]
	if s, ok := simpleEscapes[c]; ok {
		return s, i + 1
	}

	switch c {
	case 'x':
		if i+2 < len(text) && isHex(text[i+1]) && isHex(text[i+2]) {
			n, _ := strconv.ParseUint(text[i+1:i+3], 16, 8)
			return string(rune(n)), i + 3
		}
	case 'u':
		if i+1 < len(text) && text[i+1] == '{' {
			if end := strings.IndexByte(text[i+2:], '}'); end > 0 {
				hex := text[i+2 : i+2+end]
				if allHex(hex) {
					if n, err := strconv.ParseUint(hex, 16, 32); err == nil && n <= unicode.MaxRune {
						return string(rune(n)), i + 2 + end + 1
					}
				}
			}
		} else if r, ok := hex4(text, i+1); ok {
			next := i + 5
			if utf16.IsSurrogate(r) && next+1 < len(text) && text[next] == '\\' && text[next+1] == 'u' {
				if lo, ok := hex4(text, next+2); ok {
					if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
						return string(pair), next + 6
					}
				}
			}
			return string(r), next
		}
	}

	// Multi-byte characters are copied whole.
	if c >= utf8.RuneSelf {
		_, size := utf8.DecodeRuneInString(text[i:])
		return text[i : i+size], i + size
	}
	return string(c), i + 1
}

// hex4 reads the four hex digits at i.
func hex4(text string, i int) (rune, bool) {
	if i+4 > len(text) || !allHex(text[i:i+4]) {
		return 0, false
	}
	n, _ := strconv.ParseUint(text[i:i+4], 16, 16)
	return rune(n), true
}

func allHex(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isHex(s[i]) {
			return false
		}
	}
	return s != ""
}

// SkipString consumes a single- or double-quoted literal starting at the
// quote. Escapes are consumed whole, so an escaped quote never ends it.
func SkipString(text string, start int) int {
	quote := text[start]
	for i := start + 1; i < len(text); {
		switch text[i] {
		case '\\':
			_, i = DecodeEscape(text, i+1)
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return len(text)
}

// SkipLineComment consumes a // comment including its newline.
func SkipLineComment(text string, start int) int {
	if n := strings.IndexByte(text[start:], '\n'); n >= 0 {
		return start + n + 1
	}
	return len(text)
}

// SkipBlockComment consumes a /* */ comment.
func SkipBlockComment(text string, start int) int {
	if start+2 > len(text) {
		return len(text)
	}
	if n := strings.Index(text[start+2:], "*/"); n >= 0 {
		return start + 2 + n + 2
	}
	return len(text)
}

const regexPrefixChars = "({[,:;=!?&|^~<>+-*%"

// CanStartRegex reports whether the slash at i opens a regex literal rather
// than being a division: the nearest previous non-space byte is absent or
// an operator or opening punctuation.
func CanStartRegex(text string, i int) bool {
	j := i - 1
	for j >= 0 && IsSpace(text[j]) {
		j--
	}
	if j < 0 {
		return true
	}
	return strings.IndexByte(regexPrefixChars, text[j]) >= 0
}

// SkipRegex consumes a regex literal and its flags. A raw line break
// before the closing slash means the slash was not a regex after all; the
// scan then resumes one byte later.
func SkipRegex(text string, start int) int {
	inClass := false
	for i := start + 1; i < len(text); {
		switch c := text[i]; {
		case c == '\\':
			i += 2
		case c == '[' && !inClass:
			inClass = true
			i++
		case c == ']' && inClass:
			inClass = false
			i++
		case c == '/' && !inClass:
			i++
			for i < len(text) && isAlpha(text[i]) {
				i++
			}
			return i
		case c == '\n' || c == '\r':
			return start + 1
		default:
			i++
		}
	}
	return len(text)
}
