package commands

import (
	"fmt"

	"github.com/benvon/tle-advisor/internal/services/ai"
	"github.com/benvon/tle-advisor/internal/validation"
	"github.com/spf13/cobra"
)

func newAdviceCmd(opts *globalOptions) *cobra.Command {
	var weak []string
	var provider string

	cmd := &cobra.Command{
		Use:   "advice <handle>",
		Short: "Generate an AI study plan",
		Long: "Ask the configured LLM for a study plan. Without --weak the handle is analyzed first " +
			"and its weak topics are sent with solve counts and average ratings.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := validation.ValidateHandle(args[0])
			if err != nil {
				return err
			}
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			if provider != "" {
				e.cfg.AIProvider = provider
			}

			llm, err := ai.DefaultRegistry().GetProvider(cmd.Context(), e.cfg.AIProvider, ai.ProviderConfig{
				APIKey:    e.cfg.APIKey(),
				BaseURL:   e.cfg.AIBaseURL,
				Model:     e.cfg.AIModel,
				Timeout:   e.cfg.AITimeout(),
				Logger:    e.logger,
				DebugMode: opts.verbose,
			})
			if err != nil {
				return err
			}

			req := ai.PlanRequest{Handle: handle, WeakTopics: cleanList(weak)}
			if len(req.WeakTopics) == 0 {
				result, err := e.analyzer().Analyze(cmd.Context(), handle)
				if err != nil {
					return err
				}
				req.Topics = ai.TopicDetails(result.Stats)
				for _, topic := range result.Stats.WeakTopics {
					req.WeakTopics = append(req.WeakTopics, topic.Tag)
				}
			}

			suggestion, err := llm.StudyPlan(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("%s: %w", ai.ClientMessage(err), err)
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"suggestion": suggestion,
					"handle":     handle,
					"topics":     req.WeakTopics,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), suggestion)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&weak, "weak", nil, "Weak topics (comma-separated); skips the analysis")
	cmd.Flags().StringVar(&provider, "provider", "", "AI provider: openai, anthropic or gemini (default from AI_PROVIDER)")

	return cmd
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = validation.SanitizeText(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
