package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/sadaqa/internal/importer"
)

func importCmd() *cobra.Command {
	var (
		kind     string
		assignTo string
	)

	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Import a member roster or a fund ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var opts importer.Options

			if assignTo != "" {
				sc, err := agentScope(cmd.Context(), assignTo)
				if err != nil {
					return err
				}

				id, _ := sc.AgentID()
				opts.AssignTo = &id
			}

			sum, err := services.Import.Import(cmd.Context(), importer.Kind(kind), f, opts)
			if sum != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "imported %d %s\n", sum.Imported, sum.Kind)

				for _, s := range sum.Skipped {
					fmt.Fprintf(out, "  skipped %v\n", s)
				}
			}

			return err
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(importer.KindMembers), "members or funds")
	cmd.Flags().StringVar(&assignTo, "assign-to", "", "assign imported members to an agent (AGT####)")

	return cmd
}

func exportCmd() *cobra.Command {
	var (
		output   string
		balances bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the payment history or member balances as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := resolveScope(cmd)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()

			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()

				w = f
			}

			if balances {
				return services.Export.Balances(cmd.Context(), sc, nil, w)
			}

			return services.Export.History(cmd.Context(), sc, nil, w)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&balances, "balances", false, "export member balances instead of the history")

	return cmd
}
