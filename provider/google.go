package provider

import (
	"context"
	"strings"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/bregydoc/gtranslate"
)

// googleLanguages are the target codes the Google web translator accepts.
// Codes are matched exactly: "zh-TW" is supported, "zh-tw" is not.
var googleLanguages = []string{
	"af", "ak", "am", "ar", "as", "ay", "az", "be", "bg", "bho", "bm", "bn",
	"bs", "ca", "ceb", "ckb", "co", "cs", "cy", "da", "de", "doi", "dv", "ee",
	"el", "en", "eo", "es", "et", "eu", "fa", "fi", "fr", "fy", "ga", "gd",
	"gl", "gn", "gom", "gu", "ha", "haw", "he", "hi", "hmn", "hr", "ht", "hu",
	"hy", "id", "ig", "ilo", "is", "it", "iw", "ja", "jw", "ka", "kk", "km",
	"kn", "ko", "kri", "ku", "ky", "la", "lb", "lg", "ln", "lo", "lt", "lus",
	"lv", "mai", "mg", "mi", "mk", "ml", "mn", "mni-Mtei", "mr", "ms", "mt",
	"my", "ne", "nl", "no", "nso", "ny", "om", "or", "pa", "pl", "ps", "pt",
	"qu", "ro", "ru", "rw", "sa", "sd", "si", "sk", "sl", "sm", "sn", "so",
	"sq", "sr", "st", "su", "sv", "sw", "ta", "te", "tg", "th", "ti", "tk",
	"tl", "tr", "ts", "tt", "ug", "uk", "ur", "uz", "vi", "xh", "yi", "yo",
	"zh-CN", "zh-TW", "zu",
}

// GoogleConfig holds configuration for the Google provider.
type GoogleConfig struct {
	// Languages overrides the accepted target codes.
	Languages []string
}

// GoogleProvider translates through the free Google web endpoint, one text
// at a time. It rejects target codes it does not know with an
// *i18nsync.UnsupportedLocaleError, so callers can retry with a
// renormalized code.
type GoogleProvider struct {
	translate func(text string, params gtranslate.TranslationParams) (string, error)
	supported map[string]bool
}

// NewGoogleProvider creates a new Google provider.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = googleLanguages
	}
	supported := make(map[string]bool, len(langs))
	for _, l := range langs {
		supported[l] = true
	}
	return &GoogleProvider{
		translate: gtranslate.TranslateWithParams,
		supported: supported,
	}
}

// Supports reports whether code is an accepted target code.
func (p *GoogleProvider) Supports(code string) bool {
	return p.supported[code]
}

// Translate translates each text in turn.
func (p *GoogleProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if !p.Supports(req.TargetLang) {
		return nil, &i18nsync.UnsupportedLocaleError{Locale: req.TargetLang}
	}
	source := req.SourceLang
	if source == "" {
		source = "en"
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			results[i] = text
			continue
		}
		translated, err := p.translate(text, gtranslate.TranslationParams{
			From: source,
			To:   req.TargetLang,
		})
		if err != nil {
			return nil, &i18nsync.ProviderError{
				Message:   "Google translate call failed",
				Cause:     err,
				Retryable: true,
			}
		}
		results[i] = translated
	}
	return results, nil
}

// Verify GoogleProvider implements Provider
var _ Provider = (*GoogleProvider)(nil)
