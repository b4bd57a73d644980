package i18nsync

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText computes the SHA-256 hash of a source string. Unlike markup text,
// catalog defaults are hashed verbatim: leading and trailing whitespace is
// part of the translation.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// CacheKey builds the translation cache key for a text hash and a
// source/target locale pair.
func CacheKey(hash, sourceLang, targetLang string) string {
	return hash + ":" + NormalizeLocale(sourceLang) + ":" + NormalizeLocale(targetLang)
}
