package main

import (
	"os"

	"github.com/spf13/cobra"

	"academos/internal/interfaces/cli/migrate"
	"academos/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "academos",
		Short: "Academos - multi-tenant learning platform",
		Long:  `Academos hosts isolated establishments, each with its own database, behind a single routing server.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
