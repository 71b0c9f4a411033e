package mcpcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/dreamlens/pkg/config"
	"github.com/papercomputeco/dreamlens/pkg/dream"
	"github.com/papercomputeco/dreamlens/pkg/inference"
	"github.com/papercomputeco/dreamlens/pkg/logger"
)

const mcpLongDesc string = `Serve dream analysis as an MCP tool over stdio.

Exposes a single "analyze_dream" tool that sends the dream to the
configured inference provider, exactly as "dreamlens serve" would, and
returns the analysis text. Logs go to stderr; stdout carries the protocol.

Example MCP client entry:
  {"command": "dreamlens", "args": ["mcp", "--config", "/etc/dreamlens.toml"]}`

const mcpShortDesc string = "Serve dream analysis as an MCP tool"

const toolName = "analyze_dream"

type mcpCommander struct {
	version    string
	configPath string
	debug      bool
}

// analyzeInput is the analyze_dream tool's argument schema.
type analyzeInput struct {
	DreamPrompt string `json:"dream_prompt" jsonschema:"the dream to interpret, in the dreamer's own words"`
}

func NewMCPCmd(version string) *cobra.Command {
	cmder := &mcpCommander{version: version}

	cmd := &cobra.Command{
		Use:          "mcp",
		Short:        mcpShortDesc,
		Long:         mcpLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file (default: ./dreamlens.toml if present)")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *mcpCommander) run(ctx context.Context) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	log := logger.New(os.Stderr, cfg.Log.Debug || c.debug, cfg.Log.JSON)
	defer func() { _ = log.Sync() }()

	gen, err := inference.New(ctx, cfg.InferenceConfig(), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := inference.Close(gen); err != nil {
			log.Warn("could not close inference provider", zap.Error(err))
		}
	}()

	server := newServer(c.version, dream.NewAnalyzer(gen), log)

	log.Info("serving MCP over stdio", zap.String("tool", toolName))
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server failed: %w", err)
	}
	return nil
}

// newServer creates an MCP server exposing the analyze_dream tool.
func newServer(version string, analyzer *dream.Analyzer, log *zap.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "dreamlens",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        toolName,
		Description: "Interpret a dream the way a friendly sleep and dream expert would.",
	}, analyzeTool(analyzer, log))

	return server
}

func analyzeTool(analyzer *dream.Analyzer, log *zap.Logger) mcp.ToolHandlerFor[analyzeInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input analyzeInput) (*mcp.CallToolResult, any, error) {
		analysis, err := analyzer.Analyze(ctx, input.DreamPrompt)
		if err != nil {
			log.Error("dream analysis failed", zap.Error(err))
			return nil, nil, err
		}

		text, err := analysisText(analysis)
		if err != nil {
			return nil, nil, err
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// analysisText reduces a provider result to display text, falling back to
// its JSON encoding.
func analysisText(analysis any) (string, error) {
	raw, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("could not encode analysis: %w", err)
	}

	if text, ok := dream.AnalysisText(raw); ok {
		return text, nil
	}
	return string(raw), nil
}
