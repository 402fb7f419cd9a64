package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/benvon/tle-advisor/internal/models"
	"github.com/benvon/tle-advisor/internal/validation"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	var threshold, perTag int

	cmd := &cobra.Command{
		Use:   "analyze <handle>",
		Short: "Analyze the solved problems of a handle",
		Long:  "Fetch accepted submissions, print per-tag statistics, weak topics and curated suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := validation.ValidateHandle(args[0])
			if err != nil {
				return err
			}
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}

			if threshold > 0 {
				e.cfg.WeakTopicThreshold = threshold
			}
			if perTag > 0 {
				e.cfg.SuggestionsPerTag = perTag
			}

			result, err := e.analyzer().Analyze(cmd.Context(), handle)
			if err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), result)
			}
			return printAnalysis(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 0, "Solve count below which a tag is weak (default from WEAK_TOPIC_THRESHOLD)")
	cmd.Flags().IntVar(&perTag, "per-tag", 0, "Curated problems per weak tag (default from SUGGESTIONS_PER_TAG)")

	return cmd
}

func printAnalysis(w io.Writer, result *models.AnalysisResult) error {
	fmt.Fprintf(w, "Handle: %s\n\n", result.Handle)

	if result.Stats.TagStats.Len() == 0 {
		fmt.Fprintln(w, "No solved problems yet")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TAG\tSOLVED\tAVG RATING")
		for _, tag := range result.Stats.TagStats.Tags() {
			stat, _ := result.Stats.TagStats.Get(tag)
			avg := "-"
			if v, ok := stat.AverageRating(); ok {
				avg = fmt.Sprintf("%.0f", v)
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", tag, stat.Count, avg)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	if len(result.Stats.WeakTopics) == 0 {
		fmt.Fprintln(w, "Weak topics: none")
	} else {
		weak := make([]string, 0, len(result.Stats.WeakTopics))
		for _, topic := range result.Stats.WeakTopics {
			weak = append(weak, fmt.Sprintf("%s (%d)", topic.Tag, topic.Count))
		}
		fmt.Fprintf(w, "Weak topics: %s\n", strings.Join(weak, ", "))
	}

	if len(result.Suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggested practice:")
		for _, s := range result.Suggestions {
			fmt.Fprintf(w, "  %s\n", s.Tag)
			printCurated(w, "    ", s.Problems)
		}
	}
	return nil
}

func printCurated(w io.Writer, indent string, problems []models.CuratedProblem) {
	for _, p := range problems {
		fmt.Fprintf(w, "%s- %s (%d) %s\n", indent, p.Name, p.Rating, p.Link)
	}
}
