package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	analyzecmder "github.com/papercomputeco/dreamlens/cmd/dreamlens/analyze"
	mcpcmder "github.com/papercomputeco/dreamlens/cmd/dreamlens/mcp"
	servecmder "github.com/papercomputeco/dreamlens/cmd/dreamlens/serve"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const rootLongDesc string = `dreamlens interprets dreams with a hosted language model.

Run "dreamlens serve" to expose the analysis endpoint, "dreamlens analyze"
to ask a running server about a dream, or "dreamlens mcp" to offer the
same analysis as an MCP tool over stdio.`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dreamlens",
		Short:         "Dream analysis over HTTP",
		Long:          rootLongDesc,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(analyzecmder.NewAnalyzeCmd())
	cmd.AddCommand(mcpcmder.NewMCPCmd(version))

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
