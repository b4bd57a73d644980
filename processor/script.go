package processor

import (
	"strings"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/ZaguanLabs/i18nsync/scanner"
)

// ScriptExtractor finds translation keys in JavaScript and TypeScript
// sources with a single forward scan. At every offset the matchers are
// tried in order and the first one that matches moves the cursor; when none
// matches the cursor advances one byte.
type ScriptExtractor struct {
	html     *HTMLExtractor
	binding  BindingDetector
	noise    NoiseFilter
	dataset  string // "dataset.i18n" for the default marker, empty if the marker is not data-*
	matchers []matcher
}

// matcher tries to recognize a construct at offset i. ok reports a match;
// next is the offset to resume scanning from.
type matcher func(s *scriptScan, i int) (next int, ok bool)

type scriptScan struct {
	x      *ScriptExtractor
	text   string
	out    *Entries
	bindsT bool
}

// NewScriptExtractor creates a script extractor.
func NewScriptExtractor(opts ...Option) *ScriptExtractor {
	return newScriptExtractor(NewHTMLExtractor(opts...), newOptions(opts))
}

func newScriptExtractor(h *HTMLExtractor, o options) *ScriptExtractor {
	x := &ScriptExtractor{
		html:    h,
		binding: o.binding,
		noise:   o.noise,
		dataset: datasetProperty(h.Marker()),
	}
	x.matchers = []matcher{
		(*scriptScan).literal,
		(*scriptScan).tCall,
		(*scriptScan).translateCall,
		(*scriptScan).applyLocaleCall,
		attrCall("attr"),
		attrCall("setAttribute"),
		(*scriptScan).datasetAssign,
	}
	return x
}

// Extract scans one script source.
func (x *ScriptExtractor) Extract(content string) (*Entries, error) {
	return x.scan(content), nil
}

// ContentType returns "script".
func (x *ScriptExtractor) ContentType() string {
	return "script"
}

func (x *ScriptExtractor) scan(text string) *Entries {
	s := &scriptScan{
		x:      x,
		text:   text,
		out:    i18nsync.NewEntries(),
		bindsT: x.binding(text),
	}
	for i := 0; i < len(text); {
		matched := false
		for _, m := range x.matchers {
			if next, ok := m(s, i); ok {
				i, matched = next, true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return s.out
}

// literal skips comments, strings, templates and regexes. Strings and
// templates holding markup are fed to the markup extractor, and template
// interpolations are scanned recursively.
func (s *scriptScan) literal(i int) (int, bool) {
	text := s.text
	c := text[i]
	var next byte
	if i+1 < len(text) {
		next = text[i+1]
	}

	switch {
	case c == '/' && next == '/':
		return scanner.SkipLineComment(text, i), true
	case c == '/' && next == '*':
		return scanner.SkipBlockComment(text, i), true
	case c == '\'' || c == '"':
		end := scanner.SkipString(text, i)
		if v, ok := scanner.StaticValue(text[i:end]); ok && strings.Contains(v, s.x.html.marker) {
			s.out.Merge(s.x.html.ExtractMarkupText(v))
		}
		return end, true
	case c == '`':
		t := scanner.ScanTemplate(text, i, true)
		if t.Complete && strings.Contains(t.Text, s.x.html.marker) {
			s.out.Merge(s.x.html.ExtractMarkupText(t.Text))
		}
		for _, sp := range t.Interpolations {
			s.out.Merge(s.x.scan(text[sp.Start:sp.End]))
		}
		return t.End, true
	case c == '/' && scanner.CanStartRegex(text, i):
		return scanner.SkipRegex(text, i), true
	}
	return i, false
}

// tCall handles t`...` and, when the script binds t, t("...").
func (s *scriptScan) tCall(i int) (int, bool) {
	text := s.text
	if text[i] != 't' || !s.wordAt(i, "t", true) {
		return i, false
	}

	j := scanner.SkipSpace(text, i+1)
	if j >= len(text) {
		return i, false
	}
	switch {
	case text[j] == '`':
		t := scanner.ScanTemplate(text, j, true)
		if t.Complete && t.Text != "" {
			s.out.Set(t.Text, t.Text)
		}
		return t.End, true
	case text[j] == '(' && s.bindsT:
		end, args, ok := scanner.SplitArgs(text, j)
		if ok {
			if v, static := scanner.StaticValue(args[0]); static && v != "" && !s.x.noise(v) {
				s.out.Set(v, v)
			}
		}
		return end, true
	}
	return i, false
}

// translateCall handles translate(text, key): the key defaults to the text.
func (s *scriptScan) translateCall(i int) (int, bool) {
	j, ok := s.callAt(i, "translate", true)
	if !ok {
		return i, false
	}
	end, args, ok := scanner.SplitArgs(s.text, j)
	if !ok {
		return end, true
	}

	text, hasText := scanner.StaticValue(args[0])
	key := ""
	if len(args) > 1 {
		key, _ = scanner.StaticValue(args[1])
	}
	if key == "" && hasText {
		key = text
	}
	if key != "" {
		value := key
		if hasText {
			value = text
		}
		s.out.Set(key, value)
	}
	return end, true
}

// applyLocaleCall handles applyLocale("<markup>").
func (s *scriptScan) applyLocaleCall(i int) (int, bool) {
	j, ok := s.callAt(i, "applyLocale", false)
	if !ok {
		return i, false
	}
	end, args, ok := scanner.SplitArgs(s.text, j)
	if !ok {
		return i, false
	}
	markup, static := scanner.StaticValue(args[0])
	if !static || !strings.Contains(markup, s.x.html.marker) {
		return i, false
	}
	s.out.Merge(s.x.html.ExtractFragment(markup))
	return end, true
}

// attrCall handles name("<marker>", "<tokens>"), as in jQuery's attr or the
// DOM's setAttribute.
func attrCall(name string) matcher {
	return func(s *scriptScan, i int) (int, bool) {
		j, ok := s.callAt(i, name, false)
		if !ok {
			return i, false
		}
		end, args, ok := scanner.SplitArgs(s.text, j)
		if !ok || len(args) < 2 {
			return i, false
		}
		target, static := scanner.StaticValue(args[0])
		if !static || target != s.x.html.marker {
			return i, false
		}
		tokens, static := scanner.StaticValue(args[1])
		if !static || tokens == "" {
			return i, false
		}
		s.out.Merge(DecodeTokenList(tokens))
		return end, true
	}
}

// datasetAssign handles el.dataset.i18n = "<tokens>".
func (s *scriptScan) datasetAssign(i int) (int, bool) {
	text := s.text
	prop := s.x.dataset
	if prop == "" || text[i] != prop[0] || !strings.HasPrefix(text[i:], prop) {
		return i, false
	}
	if i > 0 && scanner.IsIdentChar(text[i-1]) {
		return i, false
	}
	j := scanner.SkipSpace(text, i+len(prop))
	if j >= len(text) || text[j] != '=' || (j+1 < len(text) && text[j+1] == '=') {
		return i, false
	}

	end, expr := scanner.ScanAssignment(text, scanner.SkipSpace(text, j+1))
	tokens, static := scanner.StaticValue(expr)
	if !static || tokens == "" {
		return i, false
	}
	s.out.Merge(DecodeTokenList(tokens))
	return end, true
}

// wordAt reports whether word starts at i as a whole identifier. With
// noProperty set, a property access (obj.word) does not count.
func (s *scriptScan) wordAt(i int, word string, noProperty bool) bool {
	text := s.text
	if !strings.HasPrefix(text[i:], word) {
		return false
	}
	if i > 0 {
		prev := text[i-1]
		if scanner.IsIdentChar(prev) || (noProperty && prev == '.') {
			return false
		}
	}
	after := i + len(word)
	return after >= len(text) || !scanner.IsIdentChar(text[after])
}

// callAt matches word followed by optional space and "(", returning the
// offset of the parenthesis.
func (s *scriptScan) callAt(i int, word string, noProperty bool) (int, bool) {
	if s.text[i] != word[0] || !s.wordAt(i, word, noProperty) {
		return 0, false
	}
	j := scanner.SkipSpace(s.text, i+len(word))
	if j >= len(s.text) || s.text[j] != '(' {
		return 0, false
	}
	return j, true
}

// datasetProperty maps a data-* marker to its dataset property access:
// "data-i18n" becomes "dataset.i18n", "data-i18n-key" "dataset.i18nKey".
func datasetProperty(marker string) string {
	name, ok := strings.CutPrefix(marker, "data-")
	if !ok || name == "" {
		return ""
	}
	parts := strings.Split(name, "-")
	var b strings.Builder
	b.WriteString("dataset.")
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// Verify ScriptExtractor implements KeyExtractor
var _ KeyExtractor = (*ScriptExtractor)(nil)
