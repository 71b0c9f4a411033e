// Package config loads the dreamlens TOML configuration file and applies
// defaults and environment overrides.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/dreamlens/pkg/inference"
	"github.com/papercomputeco/dreamlens/server"
)

// DefaultPath is read when no --config flag is given and the file exists.
const DefaultPath = "dreamlens.toml"

// Config is the top-level configuration file layout.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Inference InferenceConfig `toml:"inference"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig configures the HTTP endpoint.
type ServerConfig struct {
	Listen         string `toml:"listen"`
	AllowedOrigins string `toml:"allowed_origins"`
	BodyLimit      int    `toml:"body_limit"`
}

// InferenceConfig configures the inference provider.
type InferenceConfig struct {
	Provider  string        `toml:"provider"`
	Model     string        `toml:"model"`
	BaseURL   string        `toml:"base_url"`
	AccountID string        `toml:"account_id"`
	APIKey    string        `toml:"api_key"`
	MaxTokens int           `toml:"max_tokens"`
	Timeout   time.Duration `toml:"timeout"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Debug bool `toml:"debug"`
	JSON  bool `toml:"json"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:         ":8787",
			AllowedOrigins: "*",
			BodyLimit:      4 * 1024 * 1024,
		},
		Inference: InferenceConfig{
			Provider: inference.ProviderCloudflare,
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path loads DefaultPath if it exists and defaults otherwise; an
// explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not load config %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports configuration that cannot produce a working server.
func (c *Config) Validate() error {
	switch c.Inference.Provider {
	case inference.ProviderCloudflare, inference.ProviderOllama,
		inference.ProviderOpenAI, inference.ProviderGemini:
	default:
		return fmt.Errorf("invalid inference.provider %q", c.Inference.Provider)
	}

	if c.Server.Listen == "" {
		return errors.New("server.listen must not be empty")
	}
	if c.Server.BodyLimit < 0 {
		return errors.New("server.body_limit must not be negative")
	}
	if c.Inference.MaxTokens < 0 {
		return errors.New("inference.max_tokens must not be negative")
	}
	if c.Inference.MaxTokens > math.MaxInt32 {
		return fmt.Errorf("inference.max_tokens must not exceed %d", math.MaxInt32)
	}
	if c.Inference.Timeout < 0 {
		return errors.New("inference.timeout must not be negative")
	}

	return nil
}

// ServerConfig returns the server package configuration.
func (c *Config) ServerConfig() server.Config {
	return server.Config{
		ListenAddr:     c.Server.Listen,
		AllowedOrigins: c.Server.AllowedOrigins,
		BodyLimit:      c.Server.BodyLimit,
	}
}

// InferenceConfig returns the inference package configuration.
func (c *Config) InferenceConfig() inference.Config {
	return inference.Config{
		Provider:  c.Inference.Provider,
		Model:     c.Inference.Model,
		BaseURL:   c.Inference.BaseURL,
		AccountID: c.Inference.AccountID,
		APIKey:    c.Inference.APIKey,
		MaxTokens: c.Inference.MaxTokens,
		Timeout:   c.Inference.Timeout,
	}
}
