package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkozel/shopfloor/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shopctl",
		Short: "shopctl - operator tooling for the shopfloor server",
		Long: `shopctl manages the shopfloor data file directly, without going through
the HTTP API. The store is single-writer: stop the server before running
any mutating command.`,
	}

	rootCmd.AddCommand(cli.UsersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
