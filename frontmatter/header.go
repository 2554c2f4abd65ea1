// Package frontmatter implements structural editing of YAML front matter
// headers without reinterpreting them.
//
// A header is modeled as an ordered sequence of tagged lines rather than a
// deserialized map, so that every line the editor does not actively touch
// is reproduced byte-for-byte: comments stay where the author put them,
// field order is preserved, and nested values the editor has no business
// understanding travel through as opaque text.
//
// Four line kinds exist:
//
//   - Comment:      trimmed line starts with "#"
//   - Blank:        trimmed line is empty
//   - Field:        "key: value" at exactly zero indentation
//   - Continuation: anything else; belongs to the nearest preceding Field
//
// A Field is only recognized at indentation zero. Nested maps, list items
// and folded scalars are all Continuation material bound positionally to
// their owning field, which means the parser never needs a recursive
// grammar for values it will not modify.
package frontmatter

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Line model
// ---------------------------------------------------------------------------

// Kind classifies a header line.
type Kind int

const (
	// KindComment is a line whose trimmed form starts with "#".
	KindComment Kind = iota
	// KindBlank is a trimmed-empty line.
	KindBlank
	// KindField is a zero-indent "key: value" line.
	KindField
	// KindContinuation is any other line, owned by the preceding Field.
	KindContinuation
)

// Line is one classified header line. Raw always holds the original text
// without its trailing newline; Key and Value are only set for KindField,
// Indent only for KindContinuation.
type Line struct {
	Kind   Kind
	Raw    string
	Key    string
	Value  string
	Indent int
}

// fieldLine matches a top-level "identifier: value" line. The value part
// may be empty (nested map or folded scalar follows as continuations).
var fieldLine = regexp.MustCompile(`^([A-Za-z0-9_][A-Za-z0-9_.-]*):(?:\s(.*))?$`)

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Parse classifies headerText into an ordered line sequence. It is total:
// no input fails, a line that fits no other class degrades to a
// Continuation attached to whatever field precedes it.
func Parse(headerText string) []Line {
	if headerText == "" {
		return nil
	}
	raw := strings.Split(strings.TrimSuffix(headerText, "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, classify(l))
	}
	return lines
}

func classify(l string) Line {
	trimmed := strings.TrimSpace(l)
	switch {
	case trimmed == "":
		return Line{Kind: KindBlank, Raw: l}
	case strings.HasPrefix(trimmed, "#"):
		return Line{Kind: KindComment, Raw: l}
	}
	if indent := leadingWhitespace(l); indent == 0 {
		if m := fieldLine.FindStringSubmatch(l); m != nil {
			return Line{Kind: KindField, Raw: l, Key: m[1], Value: m[2]}
		}
	}
	return Line{Kind: KindContinuation, Raw: l, Indent: leadingWhitespace(l)}
}

// leadingWhitespace counts raw leading whitespace characters.
func leadingWhitespace(l string) int {
	for i := 0; i < len(l); i++ {
		if l[i] != ' ' && l[i] != '\t' {
			return i
		}
	}
	return len(l)
}

// ---------------------------------------------------------------------------
// Querying
// ---------------------------------------------------------------------------

// Fields returns the top-level field values keyed by field name.
// Later duplicates win, matching how YAML consumers resolve them.
func Fields(lines []Line) map[string]string {
	m := make(map[string]string)
	for _, l := range lines {
		if l.Kind == KindField {
			m[l.Key] = l.Value
		}
	}
	return m
}

// FieldSpan returns the raw text of the named field together with all of
// its continuation lines, newline-terminated, or "" if the field is absent.
// The span is what a YAML decoder needs to interpret just that one value.
func FieldSpan(lines []Line, key string) string {
	var b strings.Builder
	found := false
	for i := 0; i < len(lines); i++ {
		if lines[i].Kind != KindField || lines[i].Key != key {
			continue
		}
		found = true
		b.WriteString(lines[i].Raw)
		b.WriteByte('\n')
		for j := i + 1; j < len(lines); j++ {
			if lines[j].Kind != KindContinuation {
				break
			}
			b.WriteString(lines[j].Raw)
			b.WriteByte('\n')
		}
		break
	}
	if !found {
		return ""
	}
	return b.String()
}

// HasField reports whether a top-level field with the given key exists.
func HasField(lines []Line, key string) bool {
	for _, l := range lines {
		if l.Kind == KindField && l.Key == key {
			return true
		}
	}
	return false
}
