package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/benvon/tle-advisor/internal/config"
	"github.com/benvon/tle-advisor/internal/curated"
	"github.com/benvon/tle-advisor/internal/logger"
	"github.com/benvon/tle-advisor/internal/services/analysis"
	"github.com/benvon/tle-advisor/internal/services/codeforces"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbose bool
	json    bool
}

// NewRootCmd creates the tle command tree
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "tle",
		Short:         "Codeforces practice advisor",
		Long:          "Analyze Codeforces handles, browse curated problems and generate study plans from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log upstream and LLM calls to stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print JSON instead of text")

	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newProblemsetCmd(opts))
	rootCmd.AddCommand(newAdviceCmd(opts))
	rootCmd.AddCommand(newCuratedCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))

	return rootCmd
}

// env is what a command needs from configuration
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *curated.Catalog
	client  *codeforces.Client
}

func loadEnv(opts *globalOptions) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	zapLogger := zap.NewNop()
	if opts.verbose {
		zapLogger, err = logger.NewDevelopmentLogger(true)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	catalog, err := curated.Load(cfg.CuratedProblemsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load curated problems: %w", err)
	}

	return &env{
		cfg:     cfg,
		logger:  zapLogger,
		catalog: catalog,
		client:  codeforces.NewClient(cfg.CodeforcesURL, cfg.CodeforcesTimeout, zapLogger),
	}, nil
}

func (e *env) analyzer() *analysis.Service {
	return analysis.NewService(e.client, e.catalog,
		analysis.WithWeakThreshold(e.cfg.WeakTopicThreshold),
		analysis.WithSuggestionsPerTag(e.cfg.SuggestionsPerTag),
		analysis.WithLogger(e.logger),
	)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
