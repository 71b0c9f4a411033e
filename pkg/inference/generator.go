// Package inference binds dreamlens to hosted large-language-model providers.
//
// Every provider is exposed through the single-method Generator interface so
// the HTTP handler, the MCP tool, and tests can substitute one for another.
package inference

import (
	"context"

	"github.com/papercomputeco/dreamlens/pkg/llm"
)

// Generator runs a chat prompt against a fixed model and returns the
// provider's result. The result is opaque to callers and is relayed as-is.
type Generator interface {
	Generate(ctx context.Context, messages []llm.Message) (any, error)
}

// GeneratorFunc adapts an ordinary function to the Generator interface.
type GeneratorFunc func(ctx context.Context, messages []llm.Message) (any, error)

// Generate calls f(ctx, messages).
func (f GeneratorFunc) Generate(ctx context.Context, messages []llm.Message) (any, error) {
	return f(ctx, messages)
}
