package config

const (
	KeyProvider        = "provider"
	KeyLogLevel        = "log_level"
	KeyOllamaURL       = "ollama_url"
	KeyGroqBaseURL     = "groq_base_url"
	KeyTemperature     = "temperature"
	KeyMaxTokens       = "max_tokens"
	KeyLLMCallTimeout  = "llm_call_timeout"
	KeyDefaultStyle    = "default_style"
	KeyDefaultPlatform = "default_platform"
	KeyIncludeHashtags = "include_hashtags"
	KeyCopyToClipboard = "copy_to_clipboard"
	KeyConfigDir       = "config_dir"
)

// Per-provider values live under nested maps so credentials and model picks
// for several providers can sit side by side in config.yaml.
const (
	KeyAPIKeys = "api_keys"
	KeyModels  = "models"
)
