package inference

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// New builds the Generator for cfg.Provider. An empty provider selects
// Cloudflare Workers AI.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Generator, error) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderCloudflare
	}

	logger.Info("configuring inference provider",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.ModelOrDefault()),
	)

	var (
		g   Generator
		err error
	)

	switch cfg.Provider {
	case ProviderCloudflare:
		g, err = NewCloudflare(cfg, logger)
	case ProviderOllama:
		g = NewOllama(cfg, logger)
	case ProviderOpenAI:
		g, err = NewOpenAI(cfg, logger)
	case ProviderGemini:
		g, err = NewGemini(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported inference provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("could not configure %s provider: %w", cfg.Provider, err)
	}

	return g, nil
}

// Close releases resources held by g when it holds any.
func Close(g Generator) error {
	if c, ok := g.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
