// Package main is the entry point for spese-cli.
package main

import (
	"os"

	"spese/cmd/spese-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
