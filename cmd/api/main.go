package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "manutencao",
		Short:        "Sistema de Manutenção - maintenance ticket service",
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newCreateAdminCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
