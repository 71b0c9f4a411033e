package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/dreamlens/pkg/llm"
)

// Ollama runs prompts on an Ollama server's chat API.
type Ollama struct {
	config     Config
	model      string
	logger     *zap.Logger
	httpClient *http.Client
}

// NewOllama creates an Ollama generator. No credentials are needed.
func NewOllama(cfg Config, logger *zap.Logger) *Ollama {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOllamaBaseURL
	}

	return &Ollama{
		config:     cfg,
		model:      cfg.ModelOrDefault(),
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Generate sends a non-streaming chat request and returns the assistant's
// reply as an llm.Result.
func (o *Ollama) Generate(ctx context.Context, messages []llm.Message) (any, error) {
	streaming := false
	req := llm.ChatRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   &streaming,
	}
	if o.config.MaxTokens > 0 {
		numPredict := o.config.MaxTokens
		req.Options = &llm.Options{NumPredict: &numPredict}
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	chatURL := strings.TrimRight(o.config.BaseURL, "/") + "/api/chat"
	o.logger.Debug("forwarding request to ollama",
		zap.String("url", chatURL),
		zap.Int("body_size", len(reqBody)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, chatURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr llm.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("ollama returned %d: %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("ollama returned %d: %s", httpResp.StatusCode, string(body))
	}

	var resp llm.ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	o.logger.Debug("received response from ollama",
		zap.String("model", resp.Model),
		zap.Int("eval_count", resp.EvalCount),
	)

	return llm.Result{Response: resp.Message.Content}, nil
}
