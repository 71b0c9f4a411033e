// Package llm provides the chat message and request types exchanged with
// hosted inference providers.
package llm

// ErrorResponse represents an error body from an inference API.
type ErrorResponse struct {
	Error string `json:"error"`
}
