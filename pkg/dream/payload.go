package dream

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingPrompt is returned when a request carries no usable dreamPrompt.
var ErrMissingPrompt = errors.New("missing dreamPrompt in request body")

// PromptField is the request body field holding the dream description.
const PromptField = "dreamPrompt"

// Request is the JSON body accepted by the analysis endpoint.
type Request struct {
	DreamPrompt string `json:"dreamPrompt"`
}

// Response is the JSON body returned on success. Analysis holds the
// provider result unmodified.
type Response struct {
	Analysis any `json:"analysis"`
}

// ParsePrompt extracts the dream description from a request body.
//
// A body that is not JSON, or is JSON null, is a handling failure and its
// error is returned as-is. Any other body without a non-empty string
// dreamPrompt yields ErrMissingPrompt, including truthy non-strings like 7.
func ParsePrompt(body []byte) (string, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("invalid JSON body: %w", err)
	}

	switch v := payload.(type) {
	case nil:
		return "", fmt.Errorf("cannot read %s from a null body", PromptField)
	case map[string]any:
		if prompt, ok := v[PromptField].(string); ok && prompt != "" {
			return prompt, nil
		}
	}

	return "", ErrMissingPrompt
}
