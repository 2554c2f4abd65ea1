// Package langmeta provides locale display metadata (English names for
// prompts, native names and emoji flags for CLI output) on top of BCP 47
// parsing from golang.org/x/text.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes locale display metadata.
type Meta struct {
	// Native is the language's own name for itself.
	Native string
	// Flag is an emoji flag for status output.
	Flag string
}

// registry holds native names and flags for the locales a content site
// plausibly configures. English names come from x/text, not from here.
var registry = map[string]Meta{
	"ar":    {Native: "العربية", Flag: "🇸🇦"},
	"cs":    {Native: "Čeština", Flag: "🇨🇿"},
	"da":    {Native: "Dansk", Flag: "🇩🇰"},
	"de":    {Native: "Deutsch", Flag: "🇩🇪"},
	"el":    {Native: "Ελληνικά", Flag: "🇬🇷"},
	"en":    {Native: "English", Flag: "🇺🇸"},
	"es":    {Native: "Español", Flag: "🇪🇸"},
	"fi":    {Native: "Suomi", Flag: "🇫🇮"},
	"fr":    {Native: "Français", Flag: "🇫🇷"},
	"he":    {Native: "עברית", Flag: "🇮🇱"},
	"hi":    {Native: "हिन्दी", Flag: "🇮🇳"},
	"hu":    {Native: "Magyar", Flag: "🇭🇺"},
	"id":    {Native: "Bahasa Indonesia", Flag: "🇮🇩"},
	"it":    {Native: "Italiano", Flag: "🇮🇹"},
	"ja":    {Native: "日本語", Flag: "🇯🇵"},
	"ko":    {Native: "한국어", Flag: "🇰🇷"},
	"nl":    {Native: "Nederlands", Flag: "🇳🇱"},
	"pl":    {Native: "Polski", Flag: "🇵🇱"},
	"pt":    {Native: "Português", Flag: "🇵🇹"},
	"pt-BR": {Native: "Português (Brasil)", Flag: "🇧🇷"},
	"ro":    {Native: "Română", Flag: "🇷🇴"},
	"ru":    {Native: "Русский", Flag: "🇷🇺"},
	"sv":    {Native: "Svenska", Flag: "🇸🇪"},
	"th":    {Native: "ไทย", Flag: "🇹🇭"},
	"tr":    {Native: "Türkçe", Flag: "🇹🇷"},
	"uk":    {Native: "Українська", Flag: "🇺🇦"},
	"vi":    {Native: "Tiếng Việt", Flag: "🇻🇳"},
	"zh":    {Native: "中文", Flag: "🇨🇳"},
	"zh-TW": {Native: "繁體中文", Flag: "🇹🇼"},
}

// Canonical parses a locale code and returns its canonical BCP 47 form.
// Underscore separators are tolerated (pt_BR → pt-BR).
func Canonical(code string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}

// EnglishName returns the English display name of a locale for use in
// translation prompts ("ru" → "Russian"). Unparseable codes come back
// unchanged — the prompt degrades, it does not fail.
func EnglishName(code string) string {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// Resolve returns best-effort native-name metadata, with base-language
// fallback for regional variants (pt-BR → pt when unregistered).
func Resolve(code string) Meta {
	if m, ok := registry[code]; ok {
		return m
	}
	normalized := canonicalOrSelf(code)
	if m, ok := registry[normalized]; ok {
		return m
	}
	if base, _, found := strings.Cut(normalized, "-"); found {
		if m, ok := registry[base]; ok {
			return m
		}
	}
	return Meta{Native: code}
}

func canonicalOrSelf(code string) string {
	c, err := Canonical(code)
	if err != nil {
		return code
	}
	return c
}
