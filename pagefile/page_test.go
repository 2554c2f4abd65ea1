package pagefile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/minios-linux/sitekit/locpath"
)

var res = locpath.Resolver{Default: "en", Locales: []string{"en", "ru", "de"}}

func TestParse_NoHeader(t *testing.T) {
	p, err := Parse("posts/a.md", []byte("just a body\n"), res)
	if err != nil {
		t.Fatal(err)
	}
	if p.HasHeader {
		t.Error("expected no header")
	}
	if p.Body != "just a body\n" {
		t.Errorf("body: got %q", p.Body)
	}
	if p.HasMarker {
		t.Error("no header means no marker")
	}
}

func TestParse_HeaderAndLocale(t *testing.T) {
	p, err := Parse("ru/posts/a.md", []byte("---\ntitle: Привет\n---\nтело\n"), res)
	if err != nil {
		t.Fatal(err)
	}
	if p.Locale != "ru" {
		t.Errorf("locale: got %q", p.Locale)
	}
	if !p.HasHeader || p.Header != "title: Привет\n" {
		t.Errorf("header: got %q", p.Header)
	}
	if len(p.Hash) != HashLen {
		t.Errorf("hash length: got %d", len(p.Hash))
	}
}

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash([]byte("same"))
	b := ContentHash([]byte("same"))
	c := ContentHash([]byte("different"))
	if a != b {
		t.Error("hash not deterministic")
	}
	if a == c {
		t.Error("distinct content must hash differently")
	}
}

// ---------------------------------------------------------------------------
// Opt-in marker tests
// ---------------------------------------------------------------------------

func TestMarker_Forms(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		hasMarker bool
		want      []string
	}{
		{"absent", "---\ntitle: A\n---\n", false, nil},
		{"explicit false", "---\n_translateTo: false\n---\n", true, nil},
		{"flow list", "---\n_translateTo: [ru, de]\n---\n", true, []string{"ru", "de"}},
		{"block list", "---\n_translateTo:\n  - ru\n---\n", true, []string{"ru"}},
		{"wildcard", "---\n_translateTo: all\n---\n", true, []string{"ru", "de"}},
		{"single string", "---\n_translateTo: de\n---\n", true, []string{"de"}},
		{"own locale excluded", "---\n_translateTo: [en, ru]\n---\n", true, []string{"ru"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse("posts/a.md", []byte(tt.doc), res)
			if err != nil {
				t.Fatal(err)
			}
			if p.HasMarker != tt.hasMarker {
				t.Fatalf("HasMarker = %v, want %v", p.HasMarker, tt.hasMarker)
			}
			got := p.Marker.Resolve(res.Locales, p.Locale)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarker_WildcardExcludesOwnLocale(t *testing.T) {
	p, err := Parse("ru/posts/a.md", []byte("---\n_translateTo: all\n---\n"), res)
	if err != nil {
		t.Fatal(err)
	}
	got := p.Marker.Resolve(res.Locales, p.Locale)
	if !reflect.DeepEqual(got, []string{"en", "de"}) {
		t.Errorf("wildcard from ru: got %v", got)
	}
}

func TestMarker_GarbageIsLenient(t *testing.T) {
	p, err := Parse("a.md", []byte("---\n_translateTo: {broken\n---\n"), res)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Marker.None() {
		t.Error("unparseable marker should resolve to nothing")
	}
}

// ---------------------------------------------------------------------------
// Alternates and provenance tests
// ---------------------------------------------------------------------------

func TestAlternates(t *testing.T) {
	doc := "---\ntitle: A\nalternates:\n  en: /a/\n  de: \"https://example.de/a/\"\n---\n"
	p, err := Parse("a.md", []byte(doc), res)
	if err != nil {
		t.Fatal(err)
	}
	alts, ok := p.Alternates()
	if !ok {
		t.Fatal("expected alternates field")
	}
	want := map[string]string{"en": "/a/", "de": "https://example.de/a/"}
	if !reflect.DeepEqual(alts, want) {
		t.Errorf("got %v, want %v", alts, want)
	}
}

func TestAlternates_AbsentMeansNotOptedIn(t *testing.T) {
	p, err := Parse("a.md", []byte("---\ntitle: A\n---\n"), res)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Alternates(); ok {
		t.Error("absent field must not count as opted in")
	}
}

func TestAlternates_EmptyFieldIsOptedIn(t *testing.T) {
	p, err := Parse("a.md", []byte("---\nalternates:\n---\n"), res)
	if err != nil {
		t.Fatal(err)
	}
	alts, ok := p.Alternates()
	if !ok {
		t.Fatal("empty alternates field still opts in")
	}
	if len(alts) != 0 {
		t.Errorf("got %v", alts)
	}
}

func TestSourceHash(t *testing.T) {
	doc := "---\ntitle: A\n_ai-translator:\n  source: a.md\n  hash: abc123def456\n---\n"
	p, err := Parse("ru/a.md", []byte(doc), res)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.SourceHash(); got != "abc123def456" {
		t.Errorf("SourceHash = %q", got)
	}

	plain, _ := Parse("a.md", []byte("---\ntitle: A\n---\n"), res)
	if plain.SourceHash() != "" {
		t.Error("page without provenance should have empty source hash")
	}
}

func TestField(t *testing.T) {
	p, _ := Parse("a.md", []byte("---\ntitle: Hello\ndraft: false\n---\n"), res)
	if v, ok := p.Field("title"); !ok || v != "Hello" {
		t.Errorf("Field(title) = %q, %v", v, ok)
	}
	if _, ok := p.Field("missing"); ok {
		t.Error("missing field reported present")
	}
}

// ---------------------------------------------------------------------------
// Discovery tests
// ---------------------------------------------------------------------------

func TestScan(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"posts/a.md",
		"posts/b.markdown",
		"ru/posts/a.md",
		"assets/style.css",
		".hidden/skipped.md",
	}
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"posts/a.md", "posts/b.markdown", "ru/posts/a.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan = %v, want %v", got, want)
	}
}
