package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
)

func agentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage collection agents",
	}

	cmd.AddCommand(agentAddCmd())
	cmd.AddCommand(agentListCmd())

	return cmd
}

func agentAddCmd() *cobra.Command {
	var params agent.CreateParams

	var joined string

	cmd := &cobra.Command{
		Use:   "add [full name]",
		Short: "Register an agent and print their secret code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.FullName = strings.Join(args, " ")

			if joined != "" {
				d, err := time.Parse(time.DateOnly, joined)
				if err != nil {
					return fmt.Errorf("invalid --joined date: %w", err)
				}

				params.JoiningDate = &d
			}

			created, err := services.Agents.Create(cmd.Context(), params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Agent ID:    %s\n", created.Agent.AgentID)
			fmt.Fprintf(out, "Secret code: %s\n", created.Secret)
			fmt.Fprintln(out, "The secret code is not stored and cannot be shown again.")

			return nil
		},
	}

	cmd.Flags().StringVar(&params.Email, "email", "", "email address")
	cmd.Flags().StringVar(&params.ContactNumber, "phone", "", "contact number")
	cmd.Flags().StringVar(&params.AssignedArea, "area", "", "assigned area")
	cmd.Flags().StringVar(&params.Gender, "gender", "", "gender")
	cmd.Flags().StringVar(&params.AgentType, "type", "", "agent type")
	cmd.Flags().StringVar(&joined, "joined", "", "joining date (YYYY-MM-DD)")

	return cmd
}

func agentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List agents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			agents, err := services.Agents.List(cmd.Context())
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("AGENT", "NAME", "AREA", "CONTACT", "ID")

			for _, a := range agents {
				t.Row(a.AgentID, a.FullName, a.AssignedArea, a.ContactNumber, a.ID.String())
			}

			fmt.Fprintln(cmd.OutOrStdout(), t.Render())

			return nil
		},
	}
}
