// Package pipeline chains the three pipeline stages once per invocation:
// extract, render, generate, format. Stages before and after the generation
// call are pure; a failed generation aborts the run without retry.
package pipeline

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/roivaz/buildpost/internal/genai"
	"github.com/roivaz/buildpost/internal/gitrepo"
	"github.com/roivaz/buildpost/internal/logging"
	"github.com/roivaz/buildpost/internal/post"
	"github.com/roivaz/buildpost/internal/prompt"
)

// SummarySource yields commit summaries. *gitrepo.Repo implements it; tests
// inject fixtures.
type SummarySource interface {
	Extract(ctx context.Context, ref string) (gitrepo.CommitSummary, error)
	ExtractRange(ctx context.Context, rangeSpec string) (gitrepo.CommitSummary, error)
}

// Generator is the single I/O boundary between rendering and formatting.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

type Request struct {
	Ref             string // single commit reference; ignored when Range is set
	Range           string
	Style           string
	Platform        string
	IncludeHashtags bool
	DryRun          bool // stop after rendering, leaving Generated and Post empty
}

type Result struct {
	Summary      gitrepo.CommitSummary
	Style        prompt.Style
	Platform     prompt.Platform
	SystemPrompt string
	UserPrompt   string
	Generated    string
	Post         string
}

type Pipeline struct {
	source  SummarySource
	library *prompt.Library
	gen     Generator
	log     logging.Logger
}

func New(source SummarySource, library *prompt.Library, gen Generator, base logr.Logger) *Pipeline {
	return &Pipeline{
		source:  source,
		library: library,
		gen:     gen,
		log:     logging.New(base).WithName("pipeline"),
	}
}

func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	var res Result

	style, err := p.library.Style(req.Style)
	if err != nil {
		return res, err
	}
	res.Style = style

	platform, err := p.library.Platform(req.Platform)
	if err != nil {
		return res, err
	}
	res.Platform = platform

	if req.Range != "" {
		res.Summary, err = p.source.ExtractRange(ctx, req.Range)
	} else {
		ref := req.Ref
		if ref == "" {
			ref = "HEAD"
		}
		res.Summary, err = p.source.Extract(ctx, ref)
	}
	if err != nil {
		return res, err
	}

	res.SystemPrompt, res.UserPrompt, err = prompt.Render(style, res.Summary)
	if err != nil {
		return res, err
	}
	p.log.Debug("prompt rendered",
		"style", style.Key,
		"commit", res.Summary.ShortHash,
		"prompt_tokens", genai.EstimateTokens(res.SystemPrompt+"\n"+res.UserPrompt),
	)

	if req.DryRun {
		return res, nil
	}

	res.Generated, err = p.gen.Generate(ctx, res.SystemPrompt, res.UserPrompt)
	if err != nil {
		return res, err
	}

	res.Post = post.Format(res.Generated, platform, req.IncludeHashtags)
	return res, nil
}
