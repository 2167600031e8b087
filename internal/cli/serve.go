package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"claimlens/internal/model"
	"claimlens/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveProvider string
	serveModel    string
	serveRPS      float64
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the claim extraction HTTP service",
	Long: `Serve starts the HTTP API:

  POST /generate/claims  extract claims from {"source_text": "..."}
  GET  /health           liveness probe
  GET  /                 browser UI

The LLM API key is read from GEMINI_API_KEY (or OPENAI_API_KEY when
--llm-provider openai). Without a key the service still starts and
serves health checks, but the generate endpoint returns 503.

Example:
  claimlens serve
  claimlens serve --addr :9000 --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")
	serveCmd.Flags().StringVar(&serveProvider, "llm-provider", "gemini", "LLM provider (gemini, openai)")
	serveCmd.Flags().StringVar(&serveModel, "llm-model", "", "LLM model name (default: provider default)")
	serveCmd.Flags().Float64Var(&serveRPS, "rps", 0, "max LLM requests per second (0 = unlimited)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	cfg.Server.Addr = serveAddr
	cfg.LLM.Provider = serveProvider
	if serveModel != "" {
		cfg.LLM.Model = serveModel
	}
	cfg.LLM.RPS = serveRPS
	cfg.LLM.APIKey = apiKeyFromEnv(serveProvider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var svc server.ClaimService
	if cfg.LLM.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: no LLM API key set, claim extraction disabled")
	} else {
		p, err := buildPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		svc = p
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Listening on %s (provider: %s, model: %s)\n",
			cfg.Server.Addr, cfg.LLM.Provider, cfg.LLM.Model)
	}

	srv := server.New(svc, cfg.Server)
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
