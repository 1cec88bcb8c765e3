package genai

import (
	"strings"
	"testing"
)

func TestNew_RejectsUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "aol", Model: "whatever"})
	if err == nil || !strings.Contains(err.Error(), "unsupported provider") {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}
	for _, p := range Providers() {
		if !strings.Contains(err.Error(), p) {
			t.Fatalf("error should list provider %q: %v", p, err)
		}
	}
}

func TestNew_RequiresModel(t *testing.T) {
	_, err := New(Config{Provider: ProviderOpenAI})
	if err == nil || !strings.Contains(err.Error(), "model name") {
		t.Fatalf("expected model name error, got %v", err)
	}
}

func TestNew_RequiresAPIKeyForHostedProviders(t *testing.T) {
	for _, provider := range []string{ProviderOpenAI, ProviderGroq} {
		_, err := New(Config{Provider: provider, Model: "m"})
		if err == nil || !strings.Contains(err.Error(), "api key") {
			t.Fatalf("provider %s: expected api key error, got %v", provider, err)
		}
	}
}

func TestEstimateTokens_NeverZero(t *testing.T) {
	if got := EstimateTokens(""); got < 1 {
		t.Fatalf("estimate must be at least 1, got %d", got)
	}
	short := EstimateTokens("fix typo")
	long := EstimateTokens(strings.Repeat("a longer prompt with many words ", 50))
	if long <= short {
		t.Fatalf("longer text should estimate more tokens (%d <= %d)", long, short)
	}
}
