package scanner

import "strings"

// SplitArgs splits the argument list of the call whose opening parenthesis
// is at openParen into raw top-level argument texts. Commas nested in
// literals, comments, regexes, calls, objects or arrays do not split.
//
// It returns the offset past the closing parenthesis. ok is false when the
// parenthesis never closes, in which case end is len(text).
func SplitArgs(text string, openParen int) (end int, args []string, ok bool) {
	var (
		parens   = 1
		braces   int
		brackets int
		argStart = openParen + 1
	)
	for i := openParen + 1; i < len(text); {
		if next, nested := skipNested(text, i); nested {
			i = next
			continue
		}
		switch text[i] {
		case '(':
			parens++
		case ')':
			parens--
			if parens == 0 {
				args = append(args, text[argStart:i])
				return i + 1, args, true
			}
		case '{':
			braces++
		case '}':
			braces = max(0, braces-1)
		case '[':
			brackets++
		case ']':
			brackets = max(0, brackets-1)
		case ',':
			if parens == 1 && braces == 0 && brackets == 0 {
				args = append(args, text[argStart:i])
				argStart = i + 1
			}
		}
		i++
	}
	return len(text), nil, false
}

// ScanAssignment returns the right-hand side of an assignment that starts
// at start. The expression ends at the next top-level semicolon, which is
// consumed, or before an unbalanced closing brace that ends the enclosing
// block.
func ScanAssignment(text string, start int) (end int, expr string) {
	var parens, braces, brackets int
	for i := start; i < len(text); {
		if next, nested := skipNested(text, i); nested {
			i = next
			continue
		}
		switch text[i] {
		case '(':
			parens++
		case ')':
			parens = max(0, parens-1)
		case '{':
			braces++
		case '}':
			if braces == 0 && parens == 0 && brackets == 0 {
				return i, text[start:i]
			}
			braces = max(0, braces-1)
		case '[':
			brackets++
		case ']':
			brackets = max(0, brackets-1)
		case ';':
			if parens == 0 && braces == 0 && brackets == 0 {
				return i + 1, text[start:i]
			}
		}
		i++
	}
	return len(text), text[start:]
}

// StaticValue resolves raw argument text to a constant string: a quoted
// literal with escapes decoded, or a template literal with no
// interpolation. Anything else (identifiers, concatenation, calls,
// interpolated templates, unterminated literals) is not static.
func StaticValue(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	switch s[0] {
	case '\'', '"':
		return quotedValue(s)
	case '`':
		t := ScanTemplate(s, 0, false)
		if !t.Complete || t.End != len(s) || t.HasInterpolation {
			return "", false
		}
		return t.Text, true
	}
	return "", false
}

func quotedValue(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); {
		switch c := s[i]; c {
		case '\\':
			var dec string
			dec, i = DecodeEscape(s, i+1)
			b.WriteString(dec)
		case quote:
			if strings.TrimSpace(s[i+1:]) != "" {
				return "", false
			}
			return b.String(), true
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", false
}
