package dream

import (
	"context"
	"encoding/json"

	"github.com/papercomputeco/dreamlens/pkg/inference"
)

// Analyzer runs dream descriptions through an inference Generator.
// It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	generator inference.Generator
}

// NewAnalyzer creates an Analyzer backed by generator.
func NewAnalyzer(generator inference.Generator) *Analyzer {
	return &Analyzer{generator: generator}
}

// Analyze sends prompt with the system instruction and returns the
// generator's result unmodified. Generator errors are returned unwrapped so
// their message reaches the caller intact.
func (a *Analyzer) Analyze(ctx context.Context, prompt string) (any, error) {
	if prompt == "" {
		return nil, ErrMissingPrompt
	}

	return a.generator.Generate(ctx, Messages(prompt))
}

// analysisTextKeys are checked in order when an analysis is an object.
var analysisTextKeys = []string{"response", "result", "output"}

// AnalysisText extracts displayable text from a raw analysis value: either a
// JSON string, or the first string field among "response", "result" and
// "output" of a JSON object. It reports false when neither form matches.
func AnalysisText(raw json.RawMessage) (string, bool) {
	if text, ok := decodeString(raw); ok {
		return text, true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}

	for _, key := range analysisTextKeys {
		if text, ok := decodeString(obj[key]); ok {
			return text, true
		}
	}

	return "", false
}

func decodeString(raw json.RawMessage) (string, bool) {
	var text *string
	if len(raw) == 0 || json.Unmarshal(raw, &text) != nil || text == nil {
		return "", false
	}
	return *text, true
}
