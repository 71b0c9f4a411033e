package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/papercomputeco/dreamlens/pkg/llm"
)

// Gemini runs prompts on Google's Gemini API.
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewGemini creates a Gemini generator. APIKey is required; BaseURL, when
// set, replaces the API endpoint.
func NewGemini(ctx context.Context, cfg Config, logger *zap.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini provider requires an api key")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client:    client,
		model:     cfg.ModelOrDefault(),
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}, nil
}

// Generate sends system messages as the model's system instruction and the
// remaining messages as content, returning the reply as an llm.Result.
func (g *Gemini) Generate(ctx context.Context, messages []llm.Message) (any, error) {
	// GenerativeModel carries per-call settings, so each call gets its own.
	model := g.client.GenerativeModel(g.model)
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(min(g.maxTokens, math.MaxInt32)))
	}

	var parts []genai.Part
	for _, msg := range messages {
		if msg.Role == llm.RoleSystem {
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(msg.Content)}}
			continue
		}
		parts = append(parts, genai.Text(msg.Content))
	}

	g.logger.Debug("generating gemini content",
		zap.String("model", g.model),
		zap.Int("part_count", len(parts)),
	)

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return nil, errors.New("gemini returned no text")
	}

	return llm.Result{Response: text}, nil
}

// Close releases the underlying client connection.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		break
	}
	return sb.String()
}
