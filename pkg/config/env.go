package config

import "github.com/papercomputeco/dreamlens/pkg/inference"

// Environment variables read by Load.
const (
	EnvListen    = "DREAMLENS_LISTEN"
	EnvProvider  = "DREAMLENS_PROVIDER"
	EnvModel     = "DREAMLENS_MODEL"
	EnvAPIKey    = "DREAMLENS_API_KEY"
	EnvAccountID = "CLOUDFLARE_ACCOUNT_ID"
)

// providerKeyEnv is the provider's conventional credential variable, used
// when neither the file nor DREAMLENS_API_KEY sets a key.
var providerKeyEnv = map[string]string{
	inference.ProviderCloudflare: "CLOUDFLARE_API_TOKEN",
	inference.ProviderOpenAI:     "OPENAI_API_KEY",
	inference.ProviderGemini:     "GEMINI_API_KEY",
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) {
	setFromEnv(lookup, EnvListen, &c.Server.Listen)
	setFromEnv(lookup, EnvProvider, &c.Inference.Provider)
	setFromEnv(lookup, EnvModel, &c.Inference.Model)
	setFromEnv(lookup, EnvAPIKey, &c.Inference.APIKey)

	if c.Inference.AccountID == "" {
		setFromEnv(lookup, EnvAccountID, &c.Inference.AccountID)
	}

	if c.Inference.APIKey == "" {
		if key, ok := providerKeyEnv[c.Inference.Provider]; ok {
			setFromEnv(lookup, key, &c.Inference.APIKey)
		}
	}
}

func setFromEnv(lookup lookupFunc, key string, dst *string) {
	if v, ok := lookup(key); ok && v != "" {
		*dst = v
	}
}
