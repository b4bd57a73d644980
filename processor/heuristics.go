package processor

import (
	"regexp"
	"strings"
)

// BindingDetector reports whether a script binds the identifier t to a
// translation function. It is evaluated once per script.
type BindingDetector func(script string) bool

// NoiseFilter reports whether a static t(...) argument is noise (a module
// path, a hash) rather than translatable text.
type NoiseFilter func(candidate string) bool

const moduleHint = `[^"'\n]*(?:i18n|locale|l10n|translation|translator)[^"'\n]*`

var bindingRe = regexp.MustCompile(strings.Join([]string{
	// import { t } from "./i18n"
	`\bimport\s*\{[^}]*\bt\b[^}]*\}\s*from\s*(?:"` + moduleHint + `"|'` + moduleHint + `')`,
	// import t from "./locale"
	`\bimport\s+t\s+from\s*(?:"` + moduleHint + `"|'` + moduleHint + `')`,
	// const { t } = i18n
	`\b(?:const|let|var)\s*\{[^}]*\bt\b[^}]*\}\s*=\s*(?:i18n|i18next|locale|translator|translation)\b`,
	// const t = translate
	`\b(?:const|let|var)\s+t\s*=\s*(?:translate|i18n\.t|window\.t)\b`,
	`\bthis\.t\s*=\s*(?:translate|i18n\.t|window\.t)\b`,
}, "|"))

// DefaultBindingDetector recognizes imports of t from a translation-sounding
// module, destructuring t from an i18n object, and assigning t from
// translate, i18n.t or window.t.
func DefaultBindingDetector(script string) bool {
	return bindingRe.MatchString(script)
}

var (
	sourceFileRe = regexp.MustCompile(`(?i)\.(?:js|mjs|cjs|wasm|json|ts|tsx)(?:\?|$)`)
	hexFragRe    = regexp.MustCompile(`(?i)^\?[0-9a-f]{3,}$`)
)

// DefaultNoiseFilter rejects empty text, relative or absolute paths, query
// strings, bundler paths, markup, source file names and hex fragments.
func DefaultNoiseFilter(candidate string) bool {
	text := strings.TrimSpace(candidate)
	switch {
	case text == "":
		return true
	case strings.HasPrefix(text, "./"), strings.HasPrefix(text, "../"),
		strings.HasPrefix(text, "/"), strings.HasPrefix(text, "?"):
		return true
	case strings.Contains(text, "node_modules/"), strings.Contains(text, "/src/"),
		strings.Contains(text, "dist/"):
		return true
	case strings.ContainsAny(text, "<>"):
		return true
	}
	return sourceFileRe.MatchString(text) || hexFragRe.MatchString(text)
}
