package scanner

import (
	"strconv"
	"strings"
)

// Span is a half-open byte range [Start, End) of the scanned text.
type Span struct {
	Start int
	End   int
}

// Template is the result of scanning a template literal.
type Template struct {
	End              int    // offset just past the closing backtick
	Text             string // literal text with escapes decoded
	HasInterpolation bool
	Complete         bool   // closing backtick found
	Interpolations   []Span // inner expression of each non-empty ${...}
}

// ScanTemplate scans the template literal whose backtick is at start.
// With placeholders set, every interpolation is replaced in Text by its
// positional placeholder ${0}, ${1}, ...; otherwise it is dropped.
func ScanTemplate(text string, start int, placeholders bool) Template {
	var (
		b  strings.Builder
		t  Template
		nr int
	)
	for i := start + 1; i < len(text); {
		c := text[i]
		switch {
		case c == '\\':
			var s string
			s, i = DecodeEscape(text, i+1)
			b.WriteString(s)
		case c == '`':
			t.End = i + 1
			t.Text = b.String()
			t.Complete = true
			return t
		case c == '$' && i+1 < len(text) && text[i+1] == '{':
			t.HasInterpolation = true
			exprStart := i + 2
			end, closed := skipExpression(text, exprStart)
			exprEnd := end
			if closed {
				exprEnd = end - 1
			}
			if exprEnd > exprStart {
				t.Interpolations = append(t.Interpolations, Span{Start: exprStart, End: exprEnd})
			}
			if placeholders {
				b.WriteString("${")
				b.WriteString(strconv.Itoa(nr))
				b.WriteByte('}')
				nr++
			}
			i = end
		default:
			b.WriteByte(c)
			i++
		}
	}
	t.End = len(text)
	t.Text = b.String()
	return t
}

// SkipTemplate consumes a template literal without building its text.
func SkipTemplate(text string, start int) int {
	for i := start + 1; i < len(text); {
		switch c := text[i]; {
		case c == '\\':
			_, i = DecodeEscape(text, i+1)
		case c == '`':
			return i + 1
		case c == '$' && i+1 < len(text) && text[i+1] == '{':
			i, _ = skipExpression(text, i+2)
		default:
			i++
		}
	}
	return len(text)
}

// SkipExpression consumes an interpolation body that starts at start (just
// after "${") and returns the offset past its closing brace. Literals,
// comments and regexes inside the body are skipped whole, so braces inside
// them do not count.
func SkipExpression(text string, start int) int {
	end, _ := skipExpression(text, start)
	return end
}

func skipExpression(text string, start int) (int, bool) {
	depth := 1
	for i := start; i < len(text); {
		if next, ok := skipNested(text, i); ok {
			i = next
			continue
		}
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
		i++
	}
	return len(text), false
}
