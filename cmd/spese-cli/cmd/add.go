package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"spese/internal/cli"
)

var addCmd = &cobra.Command{
	Use:   "add <amount> <category>",
	Short: "Record an expense dated today",
	Long: `Record an expense dated today. The amount accepts a dot or a comma
as decimal separator and is rounded to cents. Words after the amount form
the category.

Example:
  spese-cli add 12,50 Food
  spese-cli add 3.20 Coffee and snacks`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := strings.Join(args[1:], " ")
		return withSession(cmd, func(ctx context.Context, s *cli.Session) error {
			return s.Add(ctx, args[0], category)
		})
	},
}
