package dream_test

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/dreamlens/pkg/dream"
	"github.com/papercomputeco/dreamlens/pkg/inference"
	"github.com/papercomputeco/dreamlens/pkg/llm"
)

var _ = Describe("Messages", func() {
	It("puts the system instruction before the user message", func() {
		messages := dream.Messages("I was flying over a city")

		Expect(messages).To(HaveLen(2))
		Expect(messages[0].Role).To(Equal(llm.RoleSystem))
		Expect(messages[0].Content).To(Equal(dream.SystemPrompt))
		Expect(messages[1].Role).To(Equal(llm.RoleUser))
	})

	It("embeds the prompt verbatim in the user message", func() {
		prompt := "  teeth falling out,\n then a \"door\" {that} wouldn't open  "
		messages := dream.Messages(prompt)

		Expect(messages[1].Content).To(Equal("Analyze this dream: " + prompt))
	})

	It("keeps the persona one-off and hedged", func() {
		Expect(dream.SystemPrompt).To(ContainSubstring("possibilities rather than definitive answers"))
		Expect(dream.SystemPrompt).To(ContainSubstring("must not prompt the user to continue the conversation"))
	})
})

var _ = Describe("ParsePrompt", func() {
	It("returns the dreamPrompt field", func() {
		prompt, err := dream.ParsePrompt([]byte(`{"dreamPrompt": "I was flying over a city"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(prompt).To(Equal("I was flying over a city"))
	})

	It("ignores unrelated fields", func() {
		prompt, err := dream.ParsePrompt([]byte(`{"dreamPrompt": "falling", "mood": "anxious"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(prompt).To(Equal("falling"))
	})

	DescribeTable("reports a missing prompt",
		func(body string) {
			_, err := dream.ParsePrompt([]byte(body))
			Expect(err).To(MatchError(dream.ErrMissingPrompt))
		},
		Entry("empty object", `{}`),
		Entry("empty string", `{"dreamPrompt": ""}`),
		Entry("null prompt", `{"dreamPrompt": null}`),
		Entry("numeric prompt", `{"dreamPrompt": 42}`),
		Entry("false prompt", `{"dreamPrompt": false}`),
		Entry("true prompt", `{"dreamPrompt": true}`),
		Entry("object prompt", `{"dreamPrompt": {"text": "x"}}`),
		Entry("wrong case", `{"dreamprompt": "flying"}`),
		Entry("array body", `["flying"]`),
		Entry("string body", `"flying"`),
		Entry("number body", `7`),
	)

	DescribeTable("fails on unusable bodies",
		func(body string) {
			_, err := dream.ParsePrompt([]byte(body))
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, dream.ErrMissingPrompt)).To(BeFalse())
		},
		Entry("empty body", ``),
		Entry("not JSON", `dreamPrompt=flying`),
		Entry("truncated JSON", `{"dreamPrompt": "fly`),
		Entry("null body", `null`),
	)
})

var _ = Describe("Analyzer", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("passes the built messages to the generator and returns its result unmodified", func() {
		var got []llm.Message
		result := map[string]any{"response": "You may feel a desire for freedom.", "usage": 12}

		analyzer := dream.NewAnalyzer(inference.GeneratorFunc(
			func(_ context.Context, messages []llm.Message) (any, error) {
				got = messages
				return result, nil
			}))

		analysis, err := analyzer.Analyze(ctx, "I was flying over a city")
		Expect(err).NotTo(HaveOccurred())
		Expect(analysis).To(Equal(result))
		Expect(got).To(Equal(dream.Messages("I was flying over a city")))
	})

	It("returns generator errors with their message intact", func() {
		analyzer := dream.NewAnalyzer(inference.GeneratorFunc(
			func(context.Context, []llm.Message) (any, error) {
				return nil, errors.New("timeout")
			}))

		_, err := analyzer.Analyze(ctx, "falling")
		Expect(err).To(MatchError("timeout"))
	})

	It("does not call the generator for an empty prompt", func() {
		analyzer := dream.NewAnalyzer(inference.GeneratorFunc(
			func(context.Context, []llm.Message) (any, error) {
				Fail("generator should not be called")
				return nil, nil
			}))

		_, err := analyzer.Analyze(ctx, "")
		Expect(err).To(MatchError(dream.ErrMissingPrompt))
	})

	It("tolerates differing results for identical prompts", func() {
		replies := []string{"Perhaps freedom.", "Maybe ambition."}
		calls := 0
		analyzer := dream.NewAnalyzer(inference.GeneratorFunc(
			func(context.Context, []llm.Message) (any, error) {
				reply := replies[calls%len(replies)]
				calls++
				return reply, nil
			}))

		first, err := analyzer.Analyze(ctx, "flying")
		Expect(err).NotTo(HaveOccurred())
		second, err := analyzer.Analyze(ctx, "flying")
		Expect(err).NotTo(HaveOccurred())
		Expect(first).NotTo(Equal(second))
	})
})

var _ = Describe("AnalysisText", func() {
	DescribeTable("extracts text",
		func(raw, want string) {
			text, ok := dream.AnalysisText(json.RawMessage(raw))
			Expect(ok).To(BeTrue())
			Expect(text).To(Equal(want))
		},
		Entry("bare string", `"Perhaps freedom."`, "Perhaps freedom."),
		Entry("response field", `{"response": "Perhaps freedom."}`, "Perhaps freedom."),
		Entry("result field", `{"result": "Maybe change."}`, "Maybe change."),
		Entry("output field", `{"output": "Possibly stress."}`, "Possibly stress."),
		Entry("response wins", `{"output": "b", "response": "a"}`, "a"),
		Entry("skips non-string fields", `{"response": 3, "result": "ok"}`, "ok"),
	)

	DescribeTable("reports unknown shapes",
		func(raw string) {
			_, ok := dream.AnalysisText(json.RawMessage(raw))
			Expect(ok).To(BeFalse())
		},
		Entry("null", `null`),
		Entry("number", `12`),
		Entry("array", `["a"]`),
		Entry("object without text", `{"usage": {"tokens": 3}}`),
		Entry("null response", `{"response": null}`),
	)
})
