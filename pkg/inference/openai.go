package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/papercomputeco/dreamlens/pkg/llm"
)

// OpenAI runs prompts on any OpenAI-compatible chat completions endpoint,
// including the Workers AI compatibility route.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewOpenAI creates an OpenAI-compatible generator. APIKey is required.
func NewOpenAI(cfg Config, logger *zap.Logger) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai provider requires an api key")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAI{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.ModelOrDefault(),
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}, nil
}

// Generate creates a chat completion and returns the first choice as an
// llm.Result.
func (o *OpenAI) Generate(ctx context.Context, messages []llm.Message) (any, error) {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	o.logger.Debug("creating chat completion",
		zap.String("model", o.model),
		zap.Int("message_count", len(openaiMessages)),
	)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		Messages:  openaiMessages,
		MaxTokens: o.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	return llm.Result{Response: resp.Choices[0].Message.Content}, nil
}
