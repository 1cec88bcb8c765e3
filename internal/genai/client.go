// Package genai wraps the supported text-generation providers behind a
// single Generate capability. Provider identity is decided here, once, from
// configuration; nothing downstream branches on it.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/roivaz/buildpost/internal/logging"
)

const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderOllama = "ollama"
)

// Providers lists the supported provider keys.
func Providers() []string {
	return []string{ProviderGroq, ProviderOllama, ProviderOpenAI}
}

type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string // groq API base or ollama server URL
	Temperature float64
	MaxTokens   int
	CallTimeout time.Duration
	Logger      logr.Logger
}

// ProviderError wraps a generation failure, keeping the provider's message
// intact for the user. The call is never retried here.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

type Client struct {
	cfg Config
	llm llms.Model
	log logging.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	var (
		model llms.Model
		err   error
	)
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api key is required for provider %q", cfg.Provider)
		}
		model, err = openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		)
	case ProviderGroq:
		// Groq speaks the OpenAI chat API; only the base URL differs.
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api key is required for provider %q", cfg.Provider)
		}
		model, err = openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
			openai.WithBaseURL(cfg.BaseURL),
		)
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
			opts = append(opts, ollama.WithServerURL(trimmed))
		}
		model, err = ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q (supported: %s)", cfg.Provider, strings.Join(Providers(), ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}

	return &Client{cfg: cfg, llm: model, log: logging.New(cfg.Logger)}, nil
}

// Generate runs a single (system, user) completion. Failures are wrapped as
// ProviderError and propagated verbatim to the caller.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	c.log.Debug("calling provider",
		"provider", c.cfg.Provider,
		"model", c.cfg.Model,
		"prompt_tokens", EstimateTokens(system+"\n"+user),
	)

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(c.cfg.Temperature),
		llms.WithMaxTokens(c.cfg.MaxTokens),
	)
	if err != nil {
		return "", &ProviderError{Provider: c.cfg.Provider, Err: c.annotateError(err)}
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", &ProviderError{Provider: c.cfg.Provider, Err: errors.New("no text generated")}
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.CallTimeout)
}

func (c *Client) annotateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("call timed out after %s: %w", c.cfg.CallTimeout, err)
	}
	return err
}
