package llm

import "time"

// ChatResponse represents a non-streaming Ollama chat response.
type ChatResponse struct {
	Model     string    `json:"model"`      // Model that generated the response
	CreatedAt time.Time `json:"created_at"` // Response timestamp
	Message   Message   `json:"message"`    // The assistant's response
	Done      bool      `json:"done"`       // Whether generation is complete

	EvalCount int `json:"eval_count,omitempty"` // Generated tokens
}

// Result is the analysis value produced by providers that return plain text.
// It serializes to the same shape as a Workers AI text generation result, so
// callers see one form regardless of which provider produced it.
type Result struct {
	Response string `json:"response"`
}
