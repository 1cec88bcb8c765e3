package prompt

import (
	"errors"
	"testing"
)

const fixtureYAML = `styles:
  terse:
    name: Terse
    description: Minimal
    system: Output only the post text.
    template: "{commit_message}"
platforms:
  micro:
    name: Micro
    max_length: 100
    default_hashtags: ["#dev"]
defaults:
  style: terse
  platform: micro
`

func TestParseLibrary(t *testing.T) {
	lib, err := parse([]byte(fixtureYAML), "fixture")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, err := lib.Style("terse")
	if err != nil {
		t.Fatalf("style lookup failed: %v", err)
	}
	if st.Key != "terse" || st.Name != "Terse" {
		t.Fatalf("style key not filled in: %+v", st)
	}
	p, err := lib.Platform("micro")
	if err != nil {
		t.Fatalf("platform lookup failed: %v", err)
	}
	if p.MaxLength != 100 {
		t.Fatalf("unexpected max_length %d", p.MaxLength)
	}
	if lib.DefaultStyle() != "terse" || lib.DefaultPlatform() != "micro" {
		t.Fatalf("defaults not parsed: %+v", lib.Defaults)
	}
}

func TestUnknownStyleAndPlatform(t *testing.T) {
	lib, err := parse([]byte(fixtureYAML), "fixture")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var serr *UnknownStyleError
	if _, err := lib.Style("nope"); !errors.As(err, &serr) {
		t.Fatalf("expected UnknownStyleError, got %v", err)
	}
	if len(serr.Available) != 1 || serr.Available[0] != "terse" {
		t.Fatalf("error should list available styles, got %v", serr.Available)
	}
	var perr *UnknownPlatformError
	if _, err := lib.Platform("nope"); !errors.As(err, &perr) {
		t.Fatalf("expected UnknownPlatformError, got %v", err)
	}
}

func TestParseLibrary_RejectsUnknownPlaceholderAtLoad(t *testing.T) {
	bad := `styles:
  broken:
    template: "{made_up}"
platforms:
  micro:
    max_length: 100
`
	_, err := parse([]byte(bad), "fixture")
	var perr *UnknownPlaceholderError
	if !errors.As(err, &perr) || perr.Name != "made_up" {
		t.Fatalf("expected load-time placeholder error, got %v", err)
	}
}

func TestParseLibrary_RejectsTinyMaxLength(t *testing.T) {
	bad := `styles:
  terse:
    template: "{commit_message}"
platforms:
  nano:
    max_length: 3
`
	_, err := parse([]byte(bad), "fixture")
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestBuiltinLibraryIsValid(t *testing.T) {
	lib, err := Builtin()
	if err != nil {
		t.Fatalf("builtin library must validate: %v", err)
	}
	for _, key := range []string{"casual", "professional", "technical"} {
		if _, err := lib.Style(key); err != nil {
			t.Fatalf("missing builtin style %q", key)
		}
	}
	if _, err := lib.Platform("twitter"); err != nil {
		t.Fatal("missing builtin twitter platform")
	}
}
