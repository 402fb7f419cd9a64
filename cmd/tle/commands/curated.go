package commands

import (
	"fmt"

	"github.com/benvon/tle-advisor/internal/curated"
	"github.com/spf13/cobra"
)

func newCuratedCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curated",
		Short: "Browse and validate curated practice problems",
	}
	cmd.AddCommand(newCuratedListCmd(opts))
	cmd.AddCommand(newCuratedShowCmd(opts))
	cmd.AddCommand(newCuratedValidateCmd())
	return cmd
}

func newCuratedListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags with curated problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), e.catalog.Tags())
			}
			for _, tag := range e.catalog.Tags() {
				problems, _ := e.catalog.Problems(tag)
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", tag, len(problems))
			}
			return nil
		},
	}
}

func newCuratedShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tag>",
		Short: "Show the curated problems of a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			problems, ok := e.catalog.Problems(args[0])
			if !ok {
				return fmt.Errorf("no curated problems for tag %q", args[0])
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), problems)
			}
			printCurated(cmd.OutOrStdout(), "", problems)
			return nil
		},
	}
}

func newCuratedValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a curated problems file",
		Long:  "Parse a YAML or JSON tag → problems file and check every entry has a name, a URL link and a rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := curated.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid (%d tags)\n", args[0], catalog.Len())
			return nil
		},
	}
}
