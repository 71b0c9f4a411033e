package llm

// Options contains Ollama model inference parameters.
type Options struct {
	// Sampling parameters
	Temperature *float64 `json:"temperature,omitempty"` // Creativity (0.0-2.0)
	TopP        *float64 `json:"top_p,omitempty"`       // Nucleus sampling threshold

	// Length parameters
	NumPredict *int `json:"num_predict,omitempty"` // Max tokens to generate
}
