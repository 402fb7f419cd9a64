package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/tle-advisor/internal/services/ai"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check configuration and upstream reachability",
		Long:  "Load the configuration, parse the curated catalog, ping the Codeforces API and build the configured AI provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "✓ Configuration loaded")
			fmt.Fprintf(out, "✓ Curated catalog loaded (%d tags)\n", e.catalog.Len())

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			fmt.Fprintf(out, "\nTesting Codeforces API: %s\n", e.cfg.CodeforcesURL)
			if err := e.client.Ping(ctx); err != nil {
				return fmt.Errorf("codeforces API is not reachable: %w", err)
			}
			fmt.Fprintln(out, "✓ Codeforces API is reachable")

			fmt.Fprintf(out, "\nTesting AI provider: %s\n", e.cfg.AIProvider)
			provider, err := ai.DefaultRegistry().GetProvider(ctx, e.cfg.AIProvider, ai.ProviderConfig{
				APIKey:  e.cfg.APIKey(),
				BaseURL: e.cfg.AIBaseURL,
				Model:   e.cfg.AIModel,
				Logger:  e.logger,
			})
			if err != nil {
				fmt.Fprintf(out, "✗ AI advice disabled: %v\n", err)
			} else {
				fmt.Fprintf(out, "✓ AI provider %s configured (key %s)\n", provider.Name(), ai.SanitizeAPIKey(e.cfg.APIKey()))
			}

			fmt.Fprintln(out, "\n✓ Check passed")
			return nil
		},
	}
}
