package altsync

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/minios-linux/sitekit/locpath"
	"github.com/minios-linux/sitekit/pagefile"
)

var res = locpath.Resolver{Default: "en", Locales: []string{"en", "ru", "de"}}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func alternatesOf(t *testing.T, root, rel string) map[string]string {
	t.Helper()
	p, err := pagefile.Load(root, rel, res)
	if err != nil {
		t.Fatal(err)
	}
	alts, ok := p.Alternates()
	if !ok {
		t.Fatalf("%s: no alternates field", rel)
	}
	return alts
}

func TestSyncBase_UnionWithOptInGating(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "---\ntitle: A\nalternates:\n  en: \"\"\n  ru: x\n---\nbody\n")
	writeFile(t, root, "ru/a.md", "---\ntitle: Б\nalternates:\n  de: y\n---\nтело\n")
	cNoOptIn := "---\ntitle: C\n---\nbody\n"
	writeFile(t, root, "de/a.md", cNoOptIn)

	s := &Syncer{Root: root, Resolver: res}
	modified, err := s.SyncBase("a.md")
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(modified)
	if !reflect.DeepEqual(modified, []string{"a.md", "ru/a.md"}) {
		t.Errorf("modified = %v", modified)
	}

	want := map[string]string{"en": "", "ru": "x", "de": "y"}
	if got := alternatesOf(t, root, "a.md"); !reflect.DeepEqual(got, want) {
		t.Errorf("a.md alternates = %v, want %v", got, want)
	}
	if got := alternatesOf(t, root, "ru/a.md"); !reflect.DeepEqual(got, want) {
		t.Errorf("ru/a.md alternates = %v, want %v", got, want)
	}

	// The sibling without an alternates field is never forced to opt in.
	if got := readFile(t, root, "de/a.md"); got != cNoOptIn {
		t.Errorf("non-participant modified: %q", got)
	}

	// A second pass over a converged set writes nothing.
	again, err := s.SyncBase("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Errorf("second sync modified %v", again)
	}
}

func TestSyncBase_ConflictFirstLocaleOrderWins(t *testing.T) {
	root := t.TempDir()
	// en and ru disagree about the value for "de". The en sibling is
	// visited first under the configured locale order, so its value wins.
	writeFile(t, root, "a.md", "---\nalternates:\n  de: /from-en/\n---\n")
	writeFile(t, root, "ru/a.md", "---\nalternates:\n  de: /from-ru/\n  ru: /ru/a/\n---\n")

	s := &Syncer{Root: root, Resolver: res}
	if _, err := s.SyncBase("a.md"); err != nil {
		t.Fatal(err)
	}
	for _, rel := range []string{"a.md", "ru/a.md"} {
		if got := alternatesOf(t, root, rel)["de"]; got != "/from-en/" {
			t.Errorf("%s: de = %q, want first-visited value", rel, got)
		}
	}
}

func TestSyncBase_ExternalURLsPassThrough(t *testing.T) {
	root := t.TempDir()
	// The absolute URL value must be carried into the union verbatim
	// even though no file exists for that locale.
	writeFile(t, root, "a.md", "---\nalternates:\n  de: https://legacy.example.de/a/\n---\n")
	writeFile(t, root, "ru/a.md", "---\nalternates:\n  ru: /ru/a/\n---\n")

	s := &Syncer{Root: root, Resolver: res}
	if _, err := s.SyncBase("a.md"); err != nil {
		t.Fatal(err)
	}
	if got := alternatesOf(t, root, "ru/a.md")["de"]; got != "https://legacy.example.de/a/" {
		t.Errorf("external URL mangled: %q", got)
	}
}

func TestSyncBase_UnconfiguredLocaleEntriesSurvive(t *testing.T) {
	root := t.TempDir()
	// "fr" is not in the configured locale list; its entry must survive a
	// sync that rewrites the document's alternates field, and must join
	// the union on the sibling.
	writeFile(t, root, "a.md", "---\nalternates:\n  en: /a/\n  fr: https://legacy.example.fr/a/\n---\n")
	writeFile(t, root, "ru/a.md", "---\nalternates:\n  ru: /ru/a/\n---\n")

	s := &Syncer{Root: root, Resolver: res}
	if _, err := s.SyncBase("a.md"); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"en": "/a/",
		"ru": "/ru/a/",
		"fr": "https://legacy.example.fr/a/",
	}
	for _, rel := range []string{"a.md", "ru/a.md"} {
		if got := alternatesOf(t, root, rel); !reflect.DeepEqual(got, want) {
			t.Errorf("%s alternates = %v, want %v", rel, got, want)
		}
	}
	// Configured locales render first, extras after.
	got := readFile(t, root, "a.md")
	if !strings.Contains(got, "  ru: /ru/a/\n  fr: \"https://legacy.example.fr/a/\"\n") {
		t.Errorf("extra entry not rendered after configured locales:\n%s", got)
	}
}

func TestSyncBase_NoParticipants(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "---\ntitle: A\n---\n")

	s := &Syncer{Root: root, Resolver: res}
	modified, err := s.SyncBase("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if modified != nil {
		t.Errorf("modified = %v", modified)
	}
}

func TestSyncBase_PreservesSurroundingHeader(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "---\n# keep me\ntitle: A\nalternates:\n  en: /a/\ntags:\n  - x\n---\nbody\n")
	writeFile(t, root, "ru/a.md", "---\nalternates:\n  ru: /ru/a/\n---\n")

	s := &Syncer{Root: root, Resolver: res}
	if _, err := s.SyncBase("a.md"); err != nil {
		t.Fatal(err)
	}
	got := readFile(t, root, "a.md")
	want := "---\n# keep me\ntitle: A\nalternates:\n  en: /a/\n  ru: /ru/a/\ntags:\n  - x\n---\nbody\n"
	if got != want {
		t.Errorf("header disturbed:\nwant %q\ngot  %q", want, got)
	}
}

func TestSyncAll_GroupsSiblingSets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "---\nalternates:\n  en: /a/\n---\n")
	writeFile(t, root, "ru/a.md", "---\nalternates:\n  ru: /ru/a/\n---\n")
	writeFile(t, root, "b.md", "---\nalternates:\n  en: /b/\n---\n")

	s := &Syncer{Root: root, Resolver: res}
	paths := []string{"a.md", "ru/a.md", "b.md"}
	modified, err := s.SyncAll(paths)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(modified)
	// Both a-siblings gain each other's entry; b has nothing to gain.
	if !reflect.DeepEqual(modified, []string{"a.md", "ru/a.md"}) {
		t.Errorf("modified = %v", modified)
	}
}
