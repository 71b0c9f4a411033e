package mcpcmder

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/dreamlens/pkg/dream"
	"github.com/papercomputeco/dreamlens/pkg/inference"
	"github.com/papercomputeco/dreamlens/pkg/llm"
)

var _ = Describe("MCP Command", func() {
	var (
		ctx      context.Context
		cancel   context.CancelFunc
		calls    int
		received []llm.Message
		reply    any
		replyErr error
		session  *mcp.ClientSession
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		calls = 0
		reply = json.RawMessage(`{"response":"Perhaps you crave freedom."}`)
		replyErr = nil

		gen := inference.GeneratorFunc(func(_ context.Context, messages []llm.Message) (any, error) {
			calls++
			received = messages
			return reply, replyErr
		})
		server := newServer("test", dream.NewAnalyzer(gen), zap.NewNop())

		serverTransport, clientTransport := mcp.NewInMemoryTransports()
		serverSession, err := server.Connect(ctx, serverTransport, nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = serverSession.Close() })

		client := mcp.NewClient(&mcp.Implementation{Name: "dreamlens-test", Version: "test"}, nil)
		session, err = client.Connect(ctx, clientTransport, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = session.Close()
		cancel()
	})

	callTool := func(args map[string]any) *mcp.CallToolResult {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      toolName,
			Arguments: args,
		})
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	textOf := func(res *mcp.CallToolResult) string {
		Expect(res.Content).To(HaveLen(1))
		text, ok := res.Content[0].(*mcp.TextContent)
		Expect(ok).To(BeTrue())
		return text.Text
	}

	It("lists the analyze_dream tool", func() {
		res, err := session.ListTools(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Tools).To(HaveLen(1))
		Expect(res.Tools[0].Name).To(Equal(toolName))
	})

	It("returns the analysis text", func() {
		res := callTool(map[string]any{"dream_prompt": "I was flying over a city"})

		Expect(res.IsError).To(BeFalse())
		Expect(textOf(res)).To(Equal("Perhaps you crave freedom."))
		Expect(calls).To(Equal(1))
		Expect(received).To(HaveLen(2))
		Expect(received[0].Role).To(Equal(llm.RoleSystem))
		Expect(received[1].Content).To(HaveSuffix("I was flying over a city"))
	})

	It("reports an empty dream as a tool error", func() {
		res := callTool(map[string]any{"dream_prompt": ""})

		Expect(res.IsError).To(BeTrue())
		Expect(textOf(res)).To(ContainSubstring(dream.ErrMissingPrompt.Error()))
		Expect(calls).To(BeZero())
	})

	It("reports provider failures as tool errors", func() {
		replyErr = errors.New("timeout")

		res := callTool(map[string]any{"dream_prompt": "falling"})

		Expect(res.IsError).To(BeTrue())
		Expect(textOf(res)).To(ContainSubstring("timeout"))
	})

	Describe("analysisText", func() {
		It("returns plain strings as-is", func() {
			Expect(analysisText("A wish for freedom.")).To(Equal("A wish for freedom."))
		})

		It("falls back to JSON for unknown shapes", func() {
			Expect(analysisText(map[string]int{"tokens": 3})).To(Equal(`{"tokens":3}`))
		})
	})
})
