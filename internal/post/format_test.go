package post

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/roivaz/buildpost/internal/prompt"
)

func microPlatform(max uint, tags ...string) prompt.Platform {
	return prompt.Platform{Key: "micro", Name: "Micro", MaxLength: max, DefaultHashtags: tags}
}

func TestFormat_AppendsHashtagsWhenTheyFit(t *testing.T) {
	p := microPlatform(280, "#BuildInPublic", "#coding")
	got := Format("Shipped the new parser today.", p, true)
	if !strings.HasSuffix(got, "\n\n#BuildInPublic #coding") {
		t.Fatalf("expected hashtags appended, got %q", got)
	}
	if utf8.RuneCountInString(got) > 280 {
		t.Fatalf("result exceeds max length")
	}
}

func TestFormat_SkipsHashtagsWhenTextAlreadyHasOne(t *testing.T) {
	p := microPlatform(280, "#BuildInPublic")
	got := Format("Shipped it! #golang", p, true)
	if strings.Contains(got, "#BuildInPublic") {
		t.Fatalf("should not append when a hashtag is present: %q", got)
	}
}

func TestFormat_OmitsHashtagsInsteadOfTruncatingContent(t *testing.T) {
	text := strings.Repeat("word ", 60) // 300 chars
	p := microPlatform(280, "#BuildInPublic")
	got := Format(text, p, true)
	if strings.Contains(got, "#BuildInPublic") {
		t.Fatalf("hashtag should be dropped on overflow: %q", got)
	}
	if utf8.RuneCountInString(got) > 280 {
		t.Fatalf("result exceeds max length: %d", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("truncated text must end with ellipsis: %q", got)
	}
}

func TestFormat_AppendsAtMostThreeHashtags(t *testing.T) {
	p := microPlatform(500, "#one", "#two", "#three", "#four")
	got := Format("Small change.", p, true)
	if strings.Contains(got, "#four") {
		t.Fatalf("more than %d hashtags appended: %q", maxAppendedHashtags, got)
	}
}

func TestFormat_NormalizesBareTags(t *testing.T) {
	p := microPlatform(500, "golang")
	got := Format("Small change.", p, true)
	if !strings.HasSuffix(got, "\n\n#golang") {
		t.Fatalf("bare tag should gain # prefix: %q", got)
	}
}

func TestFormat_TruncatesAtWhitespaceBoundary(t *testing.T) {
	p := microPlatform(20)
	got := Format("alpha beta gamma delta epsilon", p, false)
	if utf8.RuneCountInString(got) > 20 {
		t.Fatalf("result exceeds max: %q", got)
	}
	trimmed := strings.TrimSuffix(got, "…")
	if strings.HasSuffix(trimmed, " ") {
		t.Fatalf("trailing whitespace before ellipsis: %q", got)
	}
	// No word may be cut in half: every token of the output (bar the
	// ellipsis) must appear whole in the input.
	for _, tok := range strings.Fields(trimmed) {
		if !strings.Contains("alpha beta gamma delta epsilon", tok) {
			t.Fatalf("token %q not in source text", tok)
		}
	}
}

func TestFormat_Idempotent(t *testing.T) {
	p := microPlatform(50)
	text := strings.Repeat("chunk ", 30)
	once := Format(text, p, false)
	twice := Format(once, p, false)
	if once != twice {
		t.Fatalf("re-formatting compliant text must be a no-op:\n%q\n%q", once, twice)
	}
}

func TestFormat_NeverExceedsMaxLength(t *testing.T) {
	inputs := []string{
		strings.Repeat("é", 300),
		strings.Repeat("fix 🎉 ", 100),
		"short",
		"",
	}
	p := microPlatform(280, "#BuildInPublic")
	for _, in := range inputs {
		got := Format(in, p, true)
		if utf8.RuneCountInString(got) > 280 {
			t.Fatalf("result exceeds max for input %q", in)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("invalid UTF-8 in output for input %q", in)
		}
	}
}

func TestFormat_DoesNotSplitHashtagToken(t *testing.T) {
	p := microPlatform(10)
	got := Format("#averyverylonghashtagtoken", p, false)
	if strings.Contains(got, "#a") {
		t.Fatalf("partial hashtag survived truncation: %q", got)
	}
}

func TestFormat_TinyLimitYieldsEmptyString(t *testing.T) {
	p := microPlatform(1)
	if got := Format("anything", p, false); got != "" {
		t.Fatalf("expected empty output for unusable limit, got %q", got)
	}
}
