package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"spese/internal/cli"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <position>",
	Short: "Delete the expense at a position shown by list",
	Long: `Delete the expense at the given position. Positions start at 1,
as printed by "spese-cli list".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *cli.Session) error {
			return s.Delete(ctx, args[0])
		})
	},
}
