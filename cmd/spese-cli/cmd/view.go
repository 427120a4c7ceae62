package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"spese/internal/cli"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"view"},
	Short:   "List all expenses with their positions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(_ context.Context, s *cli.Session) error {
			s.List()
			return nil
		})
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the total and the total per category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(_ context.Context, s *cli.Session) error {
			s.Summary()
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Find expenses by category (case-insensitive) or date",
	Long: `Find expenses whose category contains the keyword, ignoring case,
or whose date contains it.

Example:
  spese-cli search food
  spese-cli search 2024-01`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword := strings.Join(args, " ")
		return withSession(cmd, func(_ context.Context, s *cli.Session) error {
			s.Search(keyword)
			return nil
		})
	},
}
