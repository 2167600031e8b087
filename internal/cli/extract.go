package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"claimlens/internal/cache"
	"claimlens/internal/model"
	"claimlens/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON        string
	outCSV         string
	outMD          string
	extractTimeout time.Duration
	userAgent      string
	maxBytes       int64
	noCache        bool
	llmProvider    string
	llmModel       string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <url|file|->",
	Short: "Extract claims from a URL, file or stdin",
	Long: `Extract runs the two-step claim extraction on a single source and
prints the claims. The source may be a web page URL, a local text file,
or - to read from stdin. Web pages are fetched with robots.txt respected
and reduced to visible text before extraction.

By default the claims are written to stdout as JSON. Use the output
flags to write files in other formats instead.

Example:
  claimlens extract https://example.com/article
  claimlens extract notes.txt --csv claims.csv
  cat transcript.txt | claimlens extract - --md claims.md`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Output flags
	extractCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	extractCmd.Flags().StringVar(&outCSV, "csv", "", "output CSV path")
	extractCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")

	// HTTP flags
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 3*time.Minute, "overall extraction timeout")
	extractCmd.Flags().StringVar(&userAgent, "ua", "Claimlens/0.1 (+https://github.com/claimlens/claimlens)", "HTTP User-Agent")
	extractCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	extractCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable page cache (force fresh fetch)")

	// LLM flags
	extractCmd.Flags().StringVar(&llmProvider, "llm-provider", "gemini", "LLM provider (gemini, openai)")
	extractCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default: provider default)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = extractTimeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.Cache.Enabled = !noCache
	cfg.LLM.Provider = llmProvider
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	cfg.LLM.APIKey = apiKeyFromEnv(llmProvider)
	if cfg.LLM.APIKey == "" {
		switch llmProvider {
		case "openai":
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		default:
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	}

	text, err := readSource(ctx, source, cfg)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Extracting claims from %d characters...\n", len(text))
	}

	claims, err := p.GenerateClaims(ctx, text)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims\n", len(claims))
	}

	return writeOutputs(claims)
}

// readSource resolves the argument into source text: stdin for -, a
// fetched page for http(s) URLs, a local file otherwise.
func readSource(ctx context.Context, source string, cfg *model.Config) (string, error) {
	switch {
	case source == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		var pages cache.Cache
		if cfg.Cache.Enabled {
			pages = cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL)
		}
		fetcher := pipeline.NewFetcher(cfg.HTTP, pages, cfg.Cache.TTL)
		return fetcher.FetchText(ctx, source)
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// writeOutputs renders the claims to every requested output path, or
// JSON to stdout when none was given.
func writeOutputs(claims []model.Claim) error {
	r := pipeline.NewRenderer()

	if outJSON == "" && outCSV == "" && outMD == "" {
		return r.WriteJSON(os.Stdout, claims)
	}

	write := func(path string, render func(io.Writer, []model.Claim) error) error {
		if path == "" {
			return nil
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		if err := render(f, claims); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
		}
		return nil
	}

	if err := write(outJSON, r.WriteJSON); err != nil {
		return err
	}
	if err := write(outCSV, r.WriteCSV); err != nil {
		return err
	}
	return write(outMD, r.WriteMarkdown)
}
