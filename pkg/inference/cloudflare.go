package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/dreamlens/pkg/llm"
)

// Cloudflare runs prompts on Workers AI through the account-scoped REST API.
type Cloudflare struct {
	config     Config
	model      string
	logger     *zap.Logger
	httpClient *http.Client
}

// cloudflareEnvelope is the v4 API wrapper around every Workers AI result.
type cloudflareEnvelope struct {
	Result  json.RawMessage   `json:"result"`
	Success bool              `json:"success"`
	Errors  []cloudflareError `json:"errors"`
}

type cloudflareError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewCloudflare creates a Workers AI generator. AccountID and APIKey are
// required.
func NewCloudflare(cfg Config, logger *zap.Logger) (*Cloudflare, error) {
	if cfg.AccountID == "" {
		return nil, errors.New("cloudflare provider requires an account id")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("cloudflare provider requires an api token")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultCloudflareBaseURL
	}

	return &Cloudflare{
		config:     cfg,
		model:      cfg.ModelOrDefault(),
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Generate runs messages on the configured model and returns the raw
// "result" object of the response, e.g. {"response": "..."}.
func (c *Cloudflare) Generate(ctx context.Context, messages []llm.Message) (any, error) {
	reqBody, err := json.Marshal(llm.ChatRequest{
		Messages:  messages,
		MaxTokens: c.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	runURL := fmt.Sprintf("%s/accounts/%s/ai/run/%s",
		strings.TrimRight(c.config.BaseURL, "/"), c.config.AccountID, c.model)

	c.logger.Debug("running workers ai model",
		zap.String("model", c.model),
		zap.Int("body_size", len(reqBody)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, runURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var envelope cloudflareEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("workers ai returned %d: %s", httpResp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK || !envelope.Success {
		return nil, fmt.Errorf("workers ai returned %d: %s", httpResp.StatusCode, envelope.errorMessage())
	}

	return envelope.Result, nil
}

func (e cloudflareEnvelope) errorMessage() string {
	if len(e.Errors) == 0 {
		return "request unsuccessful"
	}

	msgs := make([]string, 0, len(e.Errors))
	for _, apiErr := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s (code %d)", apiErr.Message, apiErr.Code))
	}
	return strings.Join(msgs, "; ")
}
