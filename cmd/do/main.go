package main

import (
	"os"

	"github.com/resolved-app/resolved/cmd/do/cmd"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "do",
		Short: "Development and operations tools for resolved",
	}

	rootCmd.AddCommand(cmd.MigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
