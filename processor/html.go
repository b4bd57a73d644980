package processor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/i18nsync"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLExtractor finds the elements carrying the marker attribute and turns
// each token of its value into a key.
//
// A token is either "key", whose default value is the element's trimmed
// text, or "[attr]key", whose default value is the element's trimmed attr
// attribute. Tokens are separated by ";".
type HTMLExtractor struct {
	marker   string
	selector string
	attrRe   *regexp.Regexp
}

// NewHTMLExtractor creates a markup extractor.
func NewHTMLExtractor(opts ...Option) *HTMLExtractor {
	o := newOptions(opts)
	marker := strings.ToLower(o.marker)
	return &HTMLExtractor{
		marker:   marker,
		selector: "[" + marker + "]",
		attrRe:   regexp.MustCompile(`(?is)` + regexp.QuoteMeta(marker) + `\s*=\s*(?:"(.*?)"|'(.*?)')`),
	}
}

// Marker returns the attribute name the extractor looks for.
func (p *HTMLExtractor) Marker() string {
	return p.marker
}

// Extract parses a whole markup document.
func (p *HTMLExtractor) Extract(content string) (*Entries, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &i18nsync.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}
	return p.collect(doc.Selection), nil
}

// ExtractFragment runs the structural pass over a markup fragment, such as
// a string built in script. Fragments are parsed in template context, so
// table rows or list items without their parents are kept.
func (p *HTMLExtractor) ExtractFragment(markup string) *Entries {
	doc, err := parseFragment(markup)
	if err != nil {
		return i18nsync.NewEntries()
	}
	return p.collect(doc.Selection)
}

// ExtractMarkupText extracts keys from markup-shaped text that may not be
// well formed: the structural pass plus a raw scan for marker="..." whose
// tokens map to themselves. Text without the marker yields nothing.
func (p *HTMLExtractor) ExtractMarkupText(text string) *Entries {
	out := i18nsync.NewEntries()
	if text == "" || !strings.Contains(text, p.marker) {
		return out
	}

	out.Merge(p.ExtractFragment(text))
	for _, m := range p.attrRe.FindAllStringSubmatch(text, -1) {
		value := m[1]
		if value == "" {
			value = m[2]
		}
		out.Merge(DecodeTokenList(value))
	}
	return out
}

// ContentType returns "html".
func (p *HTMLExtractor) ContentType() string {
	return "html"
}

func (p *HTMLExtractor) collect(root *goquery.Selection) *Entries {
	out := i18nsync.NewEntries()
	root.Find(p.selector).Each(func(_ int, el *goquery.Selection) {
		value, _ := el.Attr(p.marker)
		out.Merge(elementEntries(el, value))
	})
	return out
}

// elementEntries decodes one element's marker value. The first token for a
// key wins within the element.
func elementEntries(el *goquery.Selection, value string) *Entries {
	out := i18nsync.NewEntries()
	for _, token := range strings.Split(value, ";") {
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, "[") {
			end := strings.IndexByte(token, ']')
			if end < 0 {
				continue
			}
			name, key := token[1:end], token[end+1:]
			if key == "" {
				continue
			}
			attr, _ := el.Attr(strings.ToLower(name))
			out.SetIfAbsent(key, strings.TrimSpace(attr))
			continue
		}
		out.SetIfAbsent(token, strings.TrimSpace(el.Text()))
	}
	return out
}

// DecodeTokenList decodes a marker value without element context: "key"
// and "[attr]key" both map key to itself.
func DecodeTokenList(value string) *Entries {
	out := i18nsync.NewEntries()
	for _, token := range strings.Split(value, ";") {
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, "[") {
			end := strings.IndexByte(token, ']')
			if end < 0 {
				continue
			}
			if key := token[end+1:]; key != "" {
				out.SetIfAbsent(key, key)
			}
			continue
		}
		out.SetIfAbsent(token, token)
	}
	return out
}

func parseFragment(markup string) (*goquery.Document, error) {
	context := &html.Node{Type: html.ElementNode, Data: "template", DataAtom: atom.Template}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// Verify HTMLExtractor implements KeyExtractor
var _ KeyExtractor = (*HTMLExtractor)(nil)
