package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const dirName = ".buildpost"

// ProviderEnvVars maps a provider key to the environment variable consulted
// when no API key is stored in config.yaml.
var ProviderEnvVars = map[string]string{
	"openai": "OPENAI_API_KEY",
	"groq":   "GROQ_API_KEY",
}

// DefaultModels holds the model used for each provider unless overridden
// under models.<provider> in config.yaml.
var DefaultModels = map[string]string{
	"openai": "gpt-4o-mini",
	"groq":   "qwen/qwen3-32b",
	"ollama": "llama3",
}

func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	_ = godotenv.Load(".env")
	if root != nil {
		_ = viper.BindPFlags(root.PersistentFlags())
	}
	setDefaults()
	viper.SetConfigFile(ConfigPath())
	// A missing config file is fine; `buildpost config init` creates one.
	_ = viper.ReadInConfig()
}

func setDefaults() {
	viper.SetDefault(KeyProvider, "openai")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyOllamaURL, "http://localhost:11434")
	viper.SetDefault(KeyGroqBaseURL, "https://api.groq.com/openai/v1")
	viper.SetDefault(KeyTemperature, 0.7)
	viper.SetDefault(KeyMaxTokens, 500)
	viper.SetDefault(KeyLLMCallTimeout, "2m")
	viper.SetDefault(KeyDefaultStyle, "casual")
	viper.SetDefault(KeyDefaultPlatform, "twitter")
	viper.SetDefault(KeyIncludeHashtags, true)
	viper.SetDefault(KeyCopyToClipboard, true)
	viper.SetDefault(KeyConfigDir, defaultDir())
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(home, dirName)
}

func Provider() string        { return strings.ToLower(viper.GetString(KeyProvider)) }
func LogLevel() string        { return viper.GetString(KeyLogLevel) }
func OllamaURL() string       { return viper.GetString(KeyOllamaURL) }
func GroqBaseURL() string     { return viper.GetString(KeyGroqBaseURL) }
func Temperature() float64    { return viper.GetFloat64(KeyTemperature) }
func MaxTokens() int          { return viper.GetInt(KeyMaxTokens) }
func DefaultStyle() string    { return viper.GetString(KeyDefaultStyle) }
func DefaultPlatform() string { return viper.GetString(KeyDefaultPlatform) }
func IncludeHashtags() bool   { return viper.GetBool(KeyIncludeHashtags) }
func CopyToClipboard() bool   { return viper.GetBool(KeyCopyToClipboard) }
func Dir() string             { return viper.GetString(KeyConfigDir) }

func ConfigPath() string  { return filepath.Join(Dir(), "config.yaml") }
func PromptsPath() string { return filepath.Join(Dir(), "prompts.yaml") }

// CallTimeout returns the per-call LLM timeout, falling back to two minutes
// when the configured value does not parse.
func CallTimeout() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(viper.GetString(KeyLLMCallTimeout)))
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// APIKey resolves the key for a provider: config.yaml first, then the
// provider's environment variable.
func APIKey(provider string) string {
	keys := viper.GetStringMapString(KeyAPIKeys)
	if key := strings.TrimSpace(keys[provider]); key != "" {
		return key
	}
	if env := ProviderEnvVars[provider]; env != "" {
		return os.Getenv(env)
	}
	return ""
}

// Model resolves the model name for a provider, preferring models.<provider>
// from config.yaml over the compiled-in default.
func Model(provider string) string {
	models := viper.GetStringMapString(KeyModels)
	if m := strings.TrimSpace(models[provider]); m != "" {
		return m
	}
	return DefaultModels[provider]
}
