package i18nsync

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// NormalizeLocale folds a locale code to lower case with "-" separators
// (e.g., "zh_TW" → "zh-tw"). It is used for comparisons and cache keys,
// never for the code sent to a backend.
func NormalizeLocale(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}

// LocaleFromPath derives a catalog's locale from its file name: the base
// name up to the first dot ("locales/zh-tw.json" → "zh-tw").
func LocaleFromPath(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	base := p[strings.LastIndex(p, "/")+1:]
	locale, _, _ := strings.Cut(base, ".")
	return locale
}

// RegionalizeLocale upper-cases the region subtag ("zh-tw" → "zh-TW",
// "pt_br" → "pt-BR"). Codes without a region are returned unchanged.
func RegionalizeLocale(code string) string {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if tag, err := language.Parse(code); err == nil {
		if _, conf := tag.Region(); conf == language.Exact {
			return tag.String()
		}
		return code
	}
	parts := strings.Split(code, "-")
	if len(parts) < 2 {
		return code
	}
	return strings.ToLower(parts[0]) + "-" + strings.ToUpper(parts[1])
}

// BaseLanguage returns the primary language subtag ("zh-TW" → "zh").
func BaseLanguage(code string) string {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if tag, err := language.Parse(code); err == nil {
		base, _ := tag.Base()
		return base.String()
	}
	base, _, _ := strings.Cut(code, "-")
	return strings.ToLower(base)
}

// LocaleFallbacks lists the codes to try for a target locale, in order:
// the code as given, its regionalized form, then the base language.
// Duplicates are dropped, so the list holds at most three codes.
func LocaleFallbacks(code string) []string {
	candidates := []string{code, RegionalizeLocale(code), BaseLanguage(code)}
	out := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// GetLanguageName returns the English display name for a locale code
// ("fr" → "French"). Falls back to the code itself.
func GetLanguageName(code string) string {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}

// IsSourceLocale reports whether target has the same base language as
// source, in which case the default value is used untranslated.
func IsSourceLocale(source, target string) bool {
	return BaseLanguage(source) == BaseLanguage(target)
}
