package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"spese/internal/cli"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the ledger as CSV",
	Long: `Write the ledger as CSV with an amount,category,date header.
The default path is EXPORT_PATH (expenses.csv).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(_ context.Context, s *cli.Session) error {
			return s.Export(exportOut)
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default EXPORT_PATH)")
}
