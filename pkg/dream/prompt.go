// Package dream turns a dream description into a chat prompt and runs it
// through an inference provider.
package dream

import "github.com/papercomputeco/dreamlens/pkg/llm"

// SystemPrompt sets the analyst persona for every request.
const SystemPrompt = `You are a knowledgeable and approachable sleep and dream expert.
Analyze dream descriptions and provide insights, but maintain a tone
that suggests you're offering possibilities rather than definitive answers.
Suggest a few potential reasons for why the dream might have occurred.

The response should read just like another human directly responding naturally.

This is a one-off response and must not prompt the user to continue the conversation.`

const userPrefix = "Analyze this dream: "

// Messages builds the two-message chat for prompt: the system instruction
// first, then a user message embedding prompt verbatim.
func Messages(prompt string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: userPrefix + prompt},
	}
}
