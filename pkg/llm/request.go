package llm

// ChatRequest represents a chat inference request.
//
// The same shape is accepted by Workers AI text generation models and by the
// Ollama chat API; fields a provider does not understand are left empty and
// omitted from the wire.
type ChatRequest struct {
	Model     string    `json:"model,omitempty"`      // Model name, only sent where the URL does not carry it
	Messages  []Message `json:"messages"`             // System message first, then the user message
	Stream    *bool     `json:"stream,omitempty"`     // Always false; responses are never streamed
	MaxTokens int       `json:"max_tokens,omitempty"` // Workers AI generation cap

	// Ollama generation options
	Options *Options `json:"options,omitempty"`
}
