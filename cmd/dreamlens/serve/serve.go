package servecmder

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/dreamlens/pkg/config"
	"github.com/papercomputeco/dreamlens/pkg/dream"
	"github.com/papercomputeco/dreamlens/pkg/inference"
	"github.com/papercomputeco/dreamlens/pkg/logger"
	"github.com/papercomputeco/dreamlens/server"
)

const serveLongDesc string = `Serve the dream analysis endpoint.

Any POST with a JSON body of the form {"dreamPrompt": "..."} is sent to the
configured inference provider together with a fixed system prompt, and the
model's reply is returned as {"analysis": ...}.

Settings are read from dreamlens.toml in the working directory (or --config),
then from DREAMLENS_* environment variables. Flags win over both.

Examples:
  dreamlens serve
  dreamlens serve --listen :9000 --debug
  CLOUDFLARE_ACCOUNT_ID=... CLOUDFLARE_API_TOKEN=... dreamlens serve`

const serveShortDesc string = "Serve the dream analysis endpoint"

type serveCommander struct {
	configPath string
	listen     string
	debug      bool
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        serveShortDesc,
		Long:         serveLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file (default: ./dreamlens.toml if present)")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (overrides config)")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *serveCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Log.Debug, cfg.Log.JSON)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen, err := inference.New(ctx, cfg.InferenceConfig(), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := inference.Close(gen); err != nil {
			log.Warn("could not close inference provider", zap.Error(err))
		}
	}()

	log.Info("dreamlens starting",
		zap.String("listen", cfg.Server.Listen),
		zap.String("provider", cfg.Inference.Provider),
		zap.String("model", cfg.InferenceConfig().ModelOrDefault()),
		zap.Bool("debug", cfg.Log.Debug),
	)

	srv := server.New(cfg.ServerConfig(), dream.NewAnalyzer(gen), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			return fmt.Errorf("could not shut down server: %w", err)
		}
		return <-errCh
	}
}

// loadConfig reads the config file and lets explicitly set flags override it.
func (c *serveCommander) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("listen") {
		cfg.Server.Listen = c.listen
	}
	if c.debug {
		cfg.Log.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
