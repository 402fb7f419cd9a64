package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/benvon/tle-advisor/internal/services/codeforces"
	"github.com/spf13/cobra"
)

func newProblemsetCmd(opts *globalOptions) *cobra.Command {
	var minRating, maxRating, tags string
	var limit int

	cmd := &cobra.Command{
		Use:   "problemset",
		Short: "Search the Codeforces problemset",
		Long:  "Filter the problemset by rating range and tags. A problem matches when it has any of the tags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}

			problems, err := e.client.Problemset(cmd.Context())
			if err != nil {
				return err
			}
			matched := codeforces.FilterProblems(problems, codeforces.ProblemFilter{
				MinRating: codeforces.ParseRatingBound(minRating),
				MaxRating: codeforces.ParseRatingBound(maxRating),
				Tags:      codeforces.ParseTags(tags),
				Limit:     limit,
			})

			if opts.json {
				return printJSON(cmd.OutOrStdout(), matched)
			}
			if len(matched) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching problems")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PROBLEM\tRATING\tNAME\tTAGS")
			for _, p := range matched {
				fmt.Fprintf(tw, "%d%s\t%d\t%s\t%s\n", p.ContestID, p.Index, p.RatingOrZero(), p.Name, strings.Join(p.Tags, ", "))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&minRating, "min", "0", "Minimum rating")
	cmd.Flags().StringVar(&maxRating, "max", "3500", "Maximum rating")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	cmd.Flags().IntVar(&limit, "limit", codeforces.DefaultProblemsetLimit, "Maximum number of problems")

	return cmd
}
