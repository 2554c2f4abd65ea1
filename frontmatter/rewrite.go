package frontmatter

import (
	"strings"
)

// ---------------------------------------------------------------------------
// Metadata block
// ---------------------------------------------------------------------------

// MetadataKey is the header field under which translation provenance is
// recorded in generated documents.
const MetadataKey = "_ai-translator"

// Metadata describes where a translated document came from. It renders as
// a nested field: the MetadataKey line followed by one indented line per
// set attribute, in a fixed order so output is canonical.
type Metadata struct {
	// Source is the source document's relative path.
	Source string
	// Hash is the fixed-length hex prefix of the source content digest.
	Hash string
	// Model is the translation model identifier.
	Model string
	// Translated is the translation date (calendar date, no time).
	Translated string
}

// render emits the metadata block, one line per non-empty attribute.
func (m Metadata) render(b *strings.Builder) {
	b.WriteString(MetadataKey)
	b.WriteString(":\n")
	for _, attr := range []struct{ key, val string }{
		{"source", m.Source},
		{"hash", m.Hash},
		{"model", m.Model},
		{"translated", m.Translated},
	} {
		if attr.val == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(attr.key)
		b.WriteString(": ")
		b.WriteString(attr.val)
		b.WriteByte('\n')
	}
}

// ---------------------------------------------------------------------------
// Replacements
// ---------------------------------------------------------------------------

// Replacements describes the field edits a rewrite applies. Fields named
// in Set are re-rendered with the new value; fields named in Delete are
// removed together with their continuation lines. Every field named in
// neither passes through verbatim.
type Replacements struct {
	Set    map[string]string
	Delete map[string]bool
}

func (r Replacements) deleted(key string) bool {
	return r.Delete != nil && r.Delete[key]
}

// ---------------------------------------------------------------------------
// Rewriting
// ---------------------------------------------------------------------------

// Rewrite consumes a parsed header and emits a new header text with the
// given replacements applied. Single forward pass, each line visited once:
//
//  1. Comment and Blank lines are emitted verbatim.
//  2. A Field whose key starts with privatePrefix is dropped with its
//     continuations. If the key equals markerKey and meta is non-nil and
//     not yet injected, the metadata block is emitted in its place.
//  3. A Field present in repl.Set is re-rendered; its original
//     continuations are dropped (they belonged to the old value).
//     A Field present in repl.Delete is dropped with its continuations.
//  4. Any other Field is emitted raw with all its continuations.
//
// If the marker field never occurred, the metadata block is appended at
// the end. Every line rules 2–3 do not touch is reproduced byte-for-byte.
func Rewrite(lines []Line, repl Replacements, privatePrefix, markerKey string, meta *Metadata) string {
	var b strings.Builder
	injected := false

	for i := 0; i < len(lines); i++ {
		l := lines[i]
		switch l.Kind {
		case KindComment, KindBlank:
			b.WriteString(l.Raw)
			b.WriteByte('\n')

		case KindField:
			switch {
			case privatePrefix != "" && strings.HasPrefix(l.Key, privatePrefix):
				i = skipContinuations(lines, i)
				if l.Key == markerKey && meta != nil && !injected {
					meta.render(&b)
					injected = true
				}

			case repl.deleted(l.Key):
				i = skipContinuations(lines, i)

			case hasReplacement(repl, l.Key):
				renderScalar(&b, l.Key, repl.Set[l.Key])
				i = skipContinuations(lines, i)

			default:
				b.WriteString(l.Raw)
				b.WriteByte('\n')
			}

		case KindContinuation:
			// Reached only for continuations of untouched fields (the
			// touched branches skip theirs) and for leading orphans.
			b.WriteString(l.Raw)
			b.WriteByte('\n')
		}
	}

	if meta != nil && !injected {
		meta.render(&b)
	}
	return b.String()
}

func hasReplacement(repl Replacements, key string) bool {
	if repl.Set == nil {
		return false
	}
	_, ok := repl.Set[key]
	return ok
}

// skipContinuations returns the index of the last continuation line owned
// by the field at position i.
func skipContinuations(lines []Line, i int) int {
	for i+1 < len(lines) && lines[i+1].Kind == KindContinuation {
		i++
	}
	return i
}

// renderScalar writes "key: value". Values containing line breaks render
// as a folded block scalar so multi-line translations stay valid:
//
//	key: >-
//	  first line
//	  second line
func renderScalar(b *strings.Builder, key, value string) {
	if value == "" {
		b.WriteString(key)
		b.WriteString(`: ""` + "\n")
		return
	}
	if !strings.Contains(value, "\n") {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
		return
	}
	b.WriteString(key)
	b.WriteString(": >-\n")
	for _, part := range strings.Split(value, "\n") {
		b.WriteString("  ")
		b.WriteString(part)
		b.WriteByte('\n')
	}
}
