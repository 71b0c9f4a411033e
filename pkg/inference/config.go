package inference

import "time"

// Provider names accepted by Config.Provider.
const (
	ProviderCloudflare = "cloudflare"
	ProviderOllama     = "ollama"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
)

// Default models per provider, used when Config.Model is empty.
const (
	DefaultCloudflareModel = "@cf/mistral/mistral-7b-instruct-v0.1"
	DefaultOllamaModel     = "mistral"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultGeminiModel     = "gemini-1.5-flash"
)

// Default endpoints per provider, used when Config.BaseURL is empty.
const (
	DefaultCloudflareBaseURL = "https://api.cloudflare.com/client/v4"
	DefaultOllamaBaseURL     = "http://localhost:11434"
)

// Config selects and configures the inference provider.
type Config struct {
	// Provider is one of the Provider* constants.
	Provider string

	// Model is the fixed model identifier every request is sent to.
	Model string

	// BaseURL overrides the provider endpoint. For the openai provider this is
	// the API root including the version segment (e.g. ".../v1").
	BaseURL string

	// AccountID is the Cloudflare account owning the Workers AI binding.
	AccountID string

	// APIKey is the bearer token or API key for the provider.
	APIKey string

	// MaxTokens caps generated tokens. Zero leaves the provider default.
	MaxTokens int

	// Timeout bounds each upstream call. Zero means no client-side timeout.
	Timeout time.Duration
}

// ModelOrDefault returns the configured model or the provider's default.
func (c Config) ModelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}

	switch c.Provider {
	case ProviderOllama:
		return DefaultOllamaModel
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderGemini:
		return DefaultGeminiModel
	default:
		return DefaultCloudflareModel
	}
}
