package config

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"
)

// Settings is the persisted shape of config.yaml. Viper layers env vars and
// flags on top of it at read time; writes always go through this struct so
// the file stays a plain YAML document a user can edit by hand.
type Settings struct {
	Provider        string            `json:"provider,omitempty"`
	LogLevel        string            `json:"log_level,omitempty"`
	OllamaURL       string            `json:"ollama_url,omitempty"`
	Temperature     *float64          `json:"temperature,omitempty"`
	MaxTokens       *int              `json:"max_tokens,omitempty"`
	LLMCallTimeout  string            `json:"llm_call_timeout,omitempty"`
	DefaultStyle    string            `json:"default_style,omitempty"`
	DefaultPlatform string            `json:"default_platform,omitempty"`
	IncludeHashtags *bool             `json:"include_hashtags,omitempty"`
	CopyToClipboard *bool             `json:"copy_to_clipboard,omitempty"`
	APIKeys         map[string]string `json:"api_keys,omitempty"`
	Models          map[string]string `json:"models,omitempty"`
}

func LoadSettings() (Settings, error) {
	var s Settings
	data, err := os.ReadFile(ConfigPath())
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read %s: %w", ConfigPath(), err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse %s: %w", ConfigPath(), err)
	}
	return s, nil
}

func SaveSettings(s Settings) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(), data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", ConfigPath(), err)
	}
	return nil
}

// SetAPIKey stores an API key for the given provider in config.yaml.
func SetAPIKey(provider, key string) error {
	s, err := LoadSettings()
	if err != nil {
		return err
	}
	if s.APIKeys == nil {
		s.APIKeys = map[string]string{}
	}
	s.APIKeys[provider] = key
	return SaveSettings(s)
}

// SetProvider switches the active provider, optionally pinning a model.
func SetProvider(provider, model string) error {
	s, err := LoadSettings()
	if err != nil {
		return err
	}
	s.Provider = provider
	if model != "" {
		if s.Models == nil {
			s.Models = map[string]string{}
		}
		s.Models[provider] = model
	}
	return SaveSettings(s)
}

// Reset rewrites config.yaml with defaults only.
func Reset() error {
	return SaveSettings(defaultSettings())
}

// InitFile creates config.yaml with defaults unless it already exists.
func InitFile() error {
	if _, err := os.Stat(ConfigPath()); err == nil {
		return nil
	}
	return Reset()
}

func defaultSettings() Settings {
	temp := 0.7
	maxTokens := 500
	hashtags := true
	clipboard := true
	return Settings{
		Provider:        "openai",
		LogLevel:        "info",
		Temperature:     &temp,
		MaxTokens:       &maxTokens,
		LLMCallTimeout:  "2m",
		DefaultStyle:    "casual",
		DefaultPlatform: "twitter",
		IncludeHashtags: &hashtags,
		CopyToClipboard: &clipboard,
	}
}

// Render returns config.yaml as a string with API keys masked, suitable for
// `buildpost config show`.
func Render() (string, error) {
	s, err := LoadSettings()
	if err != nil {
		return "", err
	}
	for provider, key := range s.APIKeys {
		s.APIKeys[provider] = maskKey(key)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}

func maskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
