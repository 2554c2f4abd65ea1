// Package pagefile implements reading of locale-organized content pages:
// Markdown documents with a YAML front matter header carrying the
// translation opt-in marker, the alternates map, and (in generated
// variants) the translation provenance block.
package pagefile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/sitekit/frontmatter"
	"github.com/minios-linux/sitekit/locpath"
)

// ---------------------------------------------------------------------------
// Opt-in marker
// ---------------------------------------------------------------------------

// MarkerKey is the header field that declares translation targets.
const MarkerKey = "_translateTo"

// WildcardToken in the marker means "all configured locales except mine".
const WildcardToken = "all"

// AlternatesKey is the header field holding the locale → permalink map.
const AlternatesKey = "alternates"

// HashLen is the hex-prefix length of the content digest recorded in the
// provenance block.
const HashLen = 12

// Targets is the decoded opt-in marker.
type Targets struct {
	// Disabled is true for an explicit false marker.
	Disabled bool
	// All is true for the wildcard token.
	All bool
	// Locales is the explicit locale list (single string markers yield
	// one element).
	Locales []string
}

// None reports whether the marker requests no translation at all.
func (t Targets) None() bool {
	return t.Disabled || (!t.All && len(t.Locales) == 0)
}

// Resolve expands the marker against the configured locale list, removing
// the page's own locale. Absent/disabled markers resolve to nil.
func (t Targets) Resolve(configured []string, own string) []string {
	if t.Disabled {
		return nil
	}
	var out []string
	if t.All {
		for _, l := range configured {
			if l != own {
				out = append(out, l)
			}
		}
		return out
	}
	for _, l := range t.Locales {
		if l != own {
			out = append(out, l)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Page model
// ---------------------------------------------------------------------------

// Page is one content document, parsed just far enough to drive
// translation and alternate-link synchronization.
type Page struct {
	// Path is the document path relative to the content root.
	Path string
	// Locale is the locale the path resolves to.
	Locale string
	// Header is the raw front matter text (without delimiters), empty
	// when the document has no header.
	Header string
	// Body is everything after the closing delimiter.
	Body string
	// Hash is the hex prefix of the SHA-256 digest over the raw
	// untranslated file bytes.
	Hash string
	// HasHeader is true when the delimiter pair was found.
	HasHeader bool
	// Marker is the decoded opt-in marker; zero when absent.
	Marker Targets
	// HasMarker is true when the marker field is present at all.
	// Absence means "not opted in", which is different from an explicit
	// false marker only in intent, not in effect.
	HasMarker bool
}

// Load reads and parses the page at root/rel.
func Load(root, rel string, res locpath.Resolver) (*Page, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	return Parse(rel, data, res)
}

// Parse builds a Page from raw file bytes.
func Parse(rel string, data []byte, res locpath.Resolver) (*Page, error) {
	p := &Page{
		Path:   rel,
		Locale: res.LocaleOf(rel),
		Hash:   ContentHash(data),
	}
	header, body, ok := frontmatter.SplitDocument(string(data))
	if !ok {
		p.Body = string(data)
		return p, nil
	}
	p.HasHeader = true
	p.Header = header
	p.Body = body

	lines := frontmatter.Parse(header)
	if span := frontmatter.FieldSpan(lines, MarkerKey); span != "" {
		p.HasMarker = true
		p.Marker = decodeMarker(span)
	}
	return p, nil
}

// ContentHash digests raw document bytes down to the fixed-length hex
// prefix recorded in provenance blocks.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:HashLen]
}

// decodeMarker interprets the marker field span leniently. Any value
// that decodes to none of the recognized shapes counts as absent intent,
// never as an error.
func decodeMarker(span string) Targets {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(span), &doc); err != nil {
		return Targets{}
	}
	switch v := doc[MarkerKey].(type) {
	case bool:
		if !v {
			return Targets{Disabled: true}
		}
		return Targets{All: true}
	case string:
		if v == WildcardToken {
			return Targets{All: true}
		}
		return Targets{Locales: []string{v}}
	case []any:
		var langs []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				langs = append(langs, s)
			}
		}
		return Targets{Locales: langs}
	}
	return Targets{}
}

// ---------------------------------------------------------------------------
// Alternates and provenance access
// ---------------------------------------------------------------------------

// Alternates returns the page's alternates map, and whether the field is
// present. Presence with an empty or unparseable value still counts as
// opted in; the map is just empty.
func (p *Page) Alternates() (map[string]string, bool) {
	if !p.HasHeader {
		return nil, false
	}
	lines := frontmatter.Parse(p.Header)
	if !frontmatter.HasField(lines, AlternatesKey) {
		return nil, false
	}
	span := frontmatter.FieldSpan(lines, AlternatesKey)
	var doc map[string]map[string]string
	if err := yaml.Unmarshal([]byte(span), &doc); err != nil {
		return map[string]string{}, true
	}
	m := doc[AlternatesKey]
	if m == nil {
		m = map[string]string{}
	}
	return m, true
}

// SourceHash returns the provenance hash stored in a generated variant,
// or "" when no provenance block exists.
func (p *Page) SourceHash() string {
	if !p.HasHeader {
		return ""
	}
	lines := frontmatter.Parse(p.Header)
	span := frontmatter.FieldSpan(lines, frontmatter.MetadataKey)
	if span == "" {
		return ""
	}
	var doc map[string]struct {
		Hash string `yaml:"hash"`
	}
	if err := yaml.Unmarshal([]byte(span), &doc); err != nil {
		return ""
	}
	return doc[frontmatter.MetadataKey].Hash
}

// Field returns the scalar value of a top-level header field.
func (p *Page) Field(key string) (string, bool) {
	if !p.HasHeader {
		return "", false
	}
	lines := frontmatter.Parse(p.Header)
	for _, l := range lines {
		if l.Kind == frontmatter.KindField && l.Key == key {
			return l.Value, true
		}
	}
	return "", false
}

// ---------------------------------------------------------------------------
// Discovery
// ---------------------------------------------------------------------------

// markdownExts are the file extensions scanned for content pages.
var markdownExts = map[string]bool{".md": true, ".markdown": true}

// Scan walks the content root and returns the relative slash-separated
// paths of all Markdown documents, in walk order.
func Scan(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !markdownExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return paths, nil
}
