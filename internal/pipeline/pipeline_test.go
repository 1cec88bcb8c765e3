package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-logr/logr"

	"github.com/roivaz/buildpost/internal/gitrepo"
	"github.com/roivaz/buildpost/internal/prompt"
)

type stubSource struct {
	summary gitrepo.CommitSummary
}

func (s stubSource) Extract(ctx context.Context, ref string) (gitrepo.CommitSummary, error) {
	return s.summary, nil
}

func (s stubSource) ExtractRange(ctx context.Context, rangeSpec string) (gitrepo.CommitSummary, error) {
	return s.summary, nil
}

type stubGenerator struct {
	out    string
	err    error
	called bool
}

func (g *stubGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	g.called = true
	return g.out, g.err
}

func testLibrary() *prompt.Library {
	return &prompt.Library{
		Styles: map[string]prompt.Style{
			"terse": {
				Key:      "terse",
				System:   "Output only the post text.",
				Template: "Post about: {commit_message} ({short_hash})",
			},
		},
		Platforms: map[string]prompt.Platform{
			"micro": {Key: "micro", MaxLength: 60, DefaultHashtags: []string{"#dev"}},
		},
	}
}

func testSummary() gitrepo.CommitSummary {
	return gitrepo.CommitSummary{
		CommitHash:  "a1b2c3d4e5f60718293a4b5c6d7e8f9012345678",
		ShortHash:   "a1b2c3d",
		Message:     "add parser",
		DiffSummary: "a.py (+10/-2)",
		FilesCount:  1,
		Insertions:  10,
		Deletions:   2,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	gen := &stubGenerator{out: "Just shipped a parser improvement."}
	p := New(stubSource{summary: testSummary()}, testLibrary(), gen, logr.Discard())

	res, err := p.Run(context.Background(), Request{Style: "terse", Platform: "micro", IncludeHashtags: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gen.called {
		t.Fatal("generator was not invoked")
	}
	if res.UserPrompt != "Post about: add parser (a1b2c3d)" {
		t.Fatalf("unexpected rendered prompt %q", res.UserPrompt)
	}
	if utf8.RuneCountInString(res.Post) > 60 {
		t.Fatalf("post exceeds platform limit: %q", res.Post)
	}
	if !strings.Contains(res.Post, "#dev") {
		t.Fatalf("expected hashtag in post: %q", res.Post)
	}
}

func TestRun_DryRunStopsBeforeGeneration(t *testing.T) {
	gen := &stubGenerator{out: "never used"}
	p := New(stubSource{summary: testSummary()}, testLibrary(), gen, logr.Discard())

	res, err := p.Run(context.Background(), Request{Style: "terse", Platform: "micro", DryRun: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.called {
		t.Fatal("generator must not be invoked in dry-run mode")
	}
	if res.SystemPrompt == "" || res.UserPrompt == "" {
		t.Fatal("dry run should still render prompts")
	}
	if res.Post != "" {
		t.Fatalf("dry run should not produce a post, got %q", res.Post)
	}
}

func TestRun_UnknownStyleFailsBeforeGeneration(t *testing.T) {
	gen := &stubGenerator{}
	p := New(stubSource{summary: testSummary()}, testLibrary(), gen, logr.Discard())

	_, err := p.Run(context.Background(), Request{Style: "nope", Platform: "micro"})
	var serr *prompt.UnknownStyleError
	if !errors.As(err, &serr) {
		t.Fatalf("expected UnknownStyleError, got %v", err)
	}
	if gen.called {
		t.Fatal("generator must not run after a lookup failure")
	}
}

func TestRun_GeneratorFailureAbortsFormatting(t *testing.T) {
	genErr := errors.New("quota exceeded")
	gen := &stubGenerator{err: genErr}
	p := New(stubSource{summary: testSummary()}, testLibrary(), gen, logr.Discard())

	res, err := p.Run(context.Background(), Request{Style: "terse", Platform: "micro"})
	if !errors.Is(err, genErr) {
		t.Fatalf("provider error should propagate verbatim, got %v", err)
	}
	if res.Post != "" {
		t.Fatal("no post should be produced when generation fails")
	}
}
