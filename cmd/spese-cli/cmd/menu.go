package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"spese/internal/cli"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive menu",
	Args:  cobra.NoArgs,
	RunE:  runMenu,
}

func runMenu(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *cli.Session) error {
		return cli.NewMenu(s, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
	})
}
