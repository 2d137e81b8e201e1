// Package language maps human-readable language names to the ISO-639-1
// codes shared by the transcription and translation engines.
package language

import "strings"

// codes maps lowercase language names to ISO-639-1 codes.
var codes = map[string]string{
	"english":    "en",
	"hindi":      "hi",
	"french":     "fr",
	"spanish":    "es",
	"german":     "de",
	"portuguese": "pt",
	"chinese":    "zh",
	"japanese":   "ja",
	"korean":     "ko",
	"russian":    "ru",
	"arabic":     "ar",
	"italian":    "it",
	"dutch":      "nl",
	"polish":     "pl",
	"turkish":    "tr",
	"vietnamese": "vi",
	"thai":       "th",
}

// Resolve maps a language name to its ISO-639-1 code. Input is trimmed and
// lowercased first. Unknown names pass through unchanged (lowercased) on the
// assumption they are already valid codes; unknown languages are not an
// error.
func Resolve(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if code, ok := codes[normalized]; ok {
		return code
	}
	return normalized
}

// Known reports whether name resolves through the lookup table rather than
// the passthrough fallback.
func Known(name string) bool {
	_, ok := codes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
