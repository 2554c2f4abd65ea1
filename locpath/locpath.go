// Package locpath maps content file paths to locales and back.
//
// The convention is directory-per-locale: documents in the default locale
// live at their base path unprefixed, every other locale's variant lives
// under a leading "locale/" segment:
//
//	content/posts/hello.md       → default locale
//	content/ru/posts/hello.md    → ru
//
// All functions are pure string manipulation, total and deterministic.
// The set of recognized locale codes comes from the caller's
// configuration; an unconfigured leading segment is ordinary content.
package locpath

import (
	"path"
	"strings"
)

// Resolver resolves between relative content paths and locales for one
// configured locale set. The zero value treats every path as default.
type Resolver struct {
	// Default is the default locale code.
	Default string
	// Locales is the full configured locale list in iteration order,
	// including the default.
	Locales []string
}

// nonDefault reports whether code is a configured non-default locale.
func (r Resolver) nonDefault(code string) bool {
	if code == r.Default {
		return false
	}
	for _, l := range r.Locales {
		if l == code {
			return true
		}
	}
	return false
}

// LocaleOf returns the locale a relative path belongs to: the first path
// segment when it is a configured non-default locale, the default
// otherwise.
func (r Resolver) LocaleOf(rel string) string {
	seg, _, _ := strings.Cut(path.Clean(filepathToSlash(rel)), "/")
	if r.nonDefault(seg) {
		return seg
	}
	return r.Default
}

// BasePath strips the leading locale segment from rel. For default-locale
// paths it is the identity.
func (r Resolver) BasePath(rel, locale string) string {
	rel = filepathToSlash(rel)
	if locale == r.Default {
		return rel
	}
	return strings.TrimPrefix(rel, locale+"/")
}

// TargetPath returns the path a variant of base must occupy in the target
// locale: "target/base", or base itself for the default locale.
func (r Resolver) TargetPath(base, target string) string {
	base = filepathToSlash(base)
	if target == r.Default {
		return base
	}
	return path.Join(target, base)
}

// Siblings returns the candidate paths of every locale variant of base,
// keyed by locale, in configured locale order. Existence is the caller's
// concern; this is pure path arithmetic.
func (r Resolver) Siblings(base string) []Sibling {
	out := make([]Sibling, 0, len(r.Locales))
	for _, l := range r.Locales {
		out = append(out, Sibling{Locale: l, Path: r.TargetPath(base, l)})
	}
	return out
}

// Sibling is one (locale, path) pair of a locale sibling set.
type Sibling struct {
	Locale string
	Path   string
}

// filepathToSlash normalizes OS separators so the convention works on
// paths produced by filepath walks as well as hand-written ones.
func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
