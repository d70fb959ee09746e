package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/sadaqa/internal/app"
	"github.com/MrJamesThe3rd/sadaqa/internal/config"
)

// services is filled in by the root command before any subcommand runs.
var services *app.App

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sadaqa-admin",
		Short:         "Administer members, agents and collections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			services, err = app.New(cmd.Context(), cfg)

			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if services != nil {
				services.Close()
			}
		},
	}

	rootCmd.PersistentFlags().String("agent", "", "restrict reports to the members of an agent (AGT####)")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(agentCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(remindCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(exportCmd())

	return rootCmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := services.Migrate(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")

			return nil
		},
	}
}
