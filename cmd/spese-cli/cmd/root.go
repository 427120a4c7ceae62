// Package cmd provides the spese-cli commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spese/internal/cli"
	"spese/internal/log"
)

var (
	envFile string
	debug   bool
	logger  = log.Discard()
)

// rootCmd runs the interactive menu when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "spese-cli",
	Short: "Track personal expenses from the terminal",
	Long: `spese-cli records expenses (amount, category, date) in the ledger
configured by DATA_BACKEND and friends, the same one the web UI uses.

Without a subcommand it starts the interactive menu.

Example:
  spese-cli add 12.50 Food
  spese-cli list
  spese-cli delete 2`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var paths []string
		if envFile != "" {
			paths = append(paths, envFile)
		}
		if err := cli.LoadEnvFile(paths...); err != nil {
			return reportErr(cmd, fmt.Errorf("load env file: %w", err))
		}

		level := os.Getenv("LOG_LEVEL")
		if debug {
			level = "debug"
		}
		// stderr keeps log lines out of the menu
		logger = cli.SetupLogger(level, os.Stderr).WithComponent(log.ComponentCLI)
		return nil
	},
	RunE: runMenu,
}

// Execute runs the root command. It is called once by main.main().
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(menuCmd)
}

// withSession opens the configured ledger, runs fn against it and releases
// the backend.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *cli.Session) error) error {
	ctx := cmd.Context()

	cfg, err := cli.LoadConfig()
	if err != nil {
		return reportErr(cmd, err)
	}
	res, err := cli.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return reportErr(cmd, err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err)
		}
	}()

	s, err := cli.NewSession(ctx, res.Store, cmd.OutOrStdout(), cfg.ExportPath)
	if err != nil {
		return reportErr(cmd, err)
	}
	return fn(ctx, s)
}

func reportErr(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return err
}
