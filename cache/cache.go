// Package cache provides translation memo implementations: an in-process
// map that can be persisted between runs, and a shared Redis store.
package cache

import "github.com/ZaguanLabs/i18nsync"

// TranslationCache is an alias to the main package interface.
type TranslationCache = i18nsync.TranslationCache
