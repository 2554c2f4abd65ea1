package langmeta

import "testing"

func TestCanonical(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"en", "en"},
		{"pt_BR", "pt-BR"},
		{"  ru ", "ru"},
		{"zh-tw", "zh-TW"},
	}
	for _, tt := range tests {
		got, err := Canonical(tt.in)
		if err != nil {
			t.Errorf("Canonical(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := Canonical("not a locale"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestEnglishName(t *testing.T) {
	if got := EnglishName("ru"); got != "Russian" {
		t.Errorf("ru = %q", got)
	}
	if got := EnglishName("pt_BR"); got != "Brazilian Portuguese" {
		t.Errorf("pt_BR = %q", got)
	}
	// Unparseable codes pass through so prompts stay usable.
	if got := EnglishName("???"); got != "???" {
		t.Errorf("??? = %q", got)
	}
}

func TestResolve(t *testing.T) {
	if m := Resolve("ru"); m.Native != "Русский" || m.Flag == "" {
		t.Errorf("ru = %+v", m)
	}
	// Regional variant falls back to base language.
	if m := Resolve("de-AT"); m.Native != "Deutsch" {
		t.Errorf("de-AT = %+v", m)
	}
	// Underscore form resolves through canonicalization.
	if m := Resolve("pt_BR"); m.Native != "Português (Brasil)" {
		t.Errorf("pt_BR = %+v", m)
	}
	// Unknown locales keep the raw code as the name.
	if m := Resolve("xx"); m.Native != "xx" {
		t.Errorf("xx = %+v", m)
	}
}
