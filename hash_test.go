package i18nsync

import "testing"

func TestHashText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple text",
			input:    "Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HashText(tt.input)
			if result != tt.expected {
				t.Errorf("HashText(%q) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestHashText_WhitespaceSignificant(t *testing.T) {
	if HashText("Save") == HashText(" Save ") {
		t.Error("surrounding whitespace must change the hash")
	}
}

func TestCacheKey(t *testing.T) {
	hash := HashText("Save settings")

	a := CacheKey(hash, "en", "zh-TW")
	b := CacheKey(hash, "en", "zh_TW")
	if a != b {
		t.Errorf("locale spelling should not change cache key: %s vs %s", a, b)
	}

	if CacheKey(hash, "en", "fr") == CacheKey(hash, "en", "de") {
		t.Error("different targets must produce different keys")
	}
}
