package frontmatter

import (
	"strings"
)

// ---------------------------------------------------------------------------
// Document splitting
// ---------------------------------------------------------------------------

// Delimiter is the line that opens and closes a front matter block.
const Delimiter = "---"

// SplitDocument separates a document into header text and body text.
// The document must start with a Delimiter line and contain a second one;
// otherwise ok is false and the document has no header. The body keeps
// everything after the closing delimiter line, byte-exact.
func SplitDocument(doc string) (header, body string, ok bool) {
	rest, found := strings.CutPrefix(doc, Delimiter+"\n")
	if !found {
		return "", "", false
	}
	if b, found := strings.CutPrefix(rest, Delimiter+"\n"); found {
		// Empty header block.
		return "", b, true
	}
	if h, b, found := strings.Cut(rest, "\n"+Delimiter+"\n"); found {
		return h + "\n", b, true
	}
	// Header closed by a delimiter at EOF without trailing newline.
	if h, found := strings.CutSuffix(rest, "\n"+Delimiter); found {
		return h + "\n", "", true
	}
	return "", "", false
}

// JoinDocument reassembles header and body into full document text.
func JoinDocument(header, body string) string {
	return Delimiter + "\n" + header + Delimiter + "\n" + body
}

// ---------------------------------------------------------------------------
// Field values
// ---------------------------------------------------------------------------

// MapEntry is one ordered key/value pair of a map-valued field. Order is
// caller-chosen and preserved verbatim, which is what makes repeated
// patches with the same entries byte-stable.
type MapEntry struct {
	Key   string
	Value string
}

// Value is a renderable field value: either a scalar or an ordered map.
// Exactly one of the two constructors applies.
type Value struct {
	scalar  string
	entries []MapEntry
	isMap   bool
}

// Scalar returns a scalar field value.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// Map returns a map field value with the given entry order.
func Map(entries []MapEntry) Value {
	return Value{entries: entries, isMap: true}
}

// render emits the full field block for the given key.
func (v Value) render(b *strings.Builder, key string) {
	if !v.isMap {
		renderScalar(b, key, v.scalar)
		return
	}
	b.WriteString(key)
	b.WriteString(":\n")
	for _, e := range v.entries {
		b.WriteString("  ")
		b.WriteString(e.Key)
		b.WriteString(": ")
		b.WriteString(quoteIfNeeded(e.Value))
		b.WriteByte('\n')
	}
}

// quoteIfNeeded double-quotes values that YAML would otherwise mangle:
// absolute URLs (the "scheme:" prefix reads as a map key) and empty
// strings (a bare empty value reads as null).
func quoteIfNeeded(s string) string {
	if s == "" || isAbsoluteURL(s) {
		return `"` + s + `"`
	}
	return s
}

// isAbsoluteURL reports whether s looks like an absolute external URL.
// Such values are opaque pass-through material, never resolved to files.
func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "//")
}

// ---------------------------------------------------------------------------
// Patching
// ---------------------------------------------------------------------------

// Patch updates or appends exactly one top-level header field in a full
// document, preserving every other header byte. Duplicate occurrences of
// the field collapse into the single patched one. The returned changed flag
// is false when the document has no header delimiters (nothing to do, not
// an error) or when the rewritten document is byte-identical to the input.
func Patch(doc, fieldName string, value Value) (out string, changed bool) {
	header, body, ok := SplitDocument(doc)
	if !ok {
		return doc, false
	}

	lines := Parse(header)
	var b strings.Builder
	replaced := false

	for i := 0; i < len(lines); i++ {
		l := lines[i]
		if l.Kind == KindField && l.Key == fieldName {
			// The first occurrence becomes the patched value; later
			// duplicates are dropped, since a surviving duplicate would
			// win on YAML re-read and shadow the patch.
			if !replaced {
				value.render(&b, fieldName)
				replaced = true
			}
			i = skipContinuations(lines, i)
			continue
		}
		b.WriteString(l.Raw)
		b.WriteByte('\n')
	}
	if !replaced {
		value.render(&b, fieldName)
	}

	out = JoinDocument(b.String(), body)
	return out, out != doc
}
