package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
	"github.com/MrJamesThe3rd/sadaqa/internal/reconcile"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

// resolveScope turns the --agent flag into a scope. Without it the admin
// scope is used.
func resolveScope(cmd *cobra.Command) (scope.Scope, error) {
	agentID, _ := cmd.Flags().GetString("agent")
	if agentID == "" {
		return scope.Admin(), nil
	}

	return agentScope(cmd.Context(), agentID)
}

func agentScope(ctx context.Context, agentID string) (scope.Scope, error) {
	agents, err := services.Agents.List(ctx)
	if err != nil {
		return scope.Scope{}, err
	}

	for _, a := range agents {
		if strings.EqualFold(a.AgentID, agentID) {
			return scope.Agent(a.ID), nil
		}
	}

	return scope.Scope{}, fmt.Errorf("%w: %s", agent.ErrNotFound, agentID)
}

// resolveType reads the --type flag.
func resolveType(cmd *cobra.Command) (*fund.Type, error) {
	s, _ := cmd.Flags().GetString("type")
	if s == "" || s == "all" {
		return nil, nil
	}

	t := fund.Type(s)
	if !t.Valid() {
		return nil, fmt.Errorf("unknown type %q", s)
	}

	return &t, nil
}

func lkr(d decimal.Decimal) string {
	return money.Currency + " " + money.Format(d)
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print collection reports",
	}

	cmd.PersistentFlags().String("type", "", "only count one donation type (Monthly, Yearly, One-time)")

	cmd.AddCommand(dashboardCmd())
	cmd.AddCommand(pendingCmd())
	cmd.AddCommand(balancesCmd())

	return cmd
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Portfolio totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := resolveScope(cmd)
			if err != nil {
				return err
			}

			typ, err := resolveType(cmd)
			if err != nil {
				return err
			}

			d, err := services.Reports.Dashboard(cmd.Context(), sc, typ)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTotals(d.Totals, d.AgentCount, sc.IsAdmin()))

			return nil
		},
	}
}

func renderTotals(t reconcile.Totals, agents int, admin bool) string {
	tbl := table.New().Border(lipgloss.RoundedBorder())

	tbl.Row("Members", fmt.Sprint(t.MemberCount))
	if admin {
		tbl.Row("Agents", fmt.Sprint(agents))
	}

	tbl.Row("Expected", lkr(t.TotalExpected))
	tbl.Row("Paid", lkr(t.TotalPaid))
	tbl.Row("Pending", lkr(t.TotalPending))

	for _, typ := range fund.Types() {
		tbl.Row("  "+string(typ), lkr(t.ByType[typ]))
	}

	tbl.Row("Members with pending", fmt.Sprint(t.PendingMemberCount))

	if t.UnmatchedCount > 0 {
		tbl.Row("Unmatched records", fmt.Sprintf("%d (%s)", t.UnmatchedCount, lkr(t.UnmatchedPaid)))
	}

	return tbl.Render()
}

func pendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Members who still owe money",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := resolveScope(cmd)
			if err != nil {
				return err
			}

			typ, err := resolveType(cmd)
			if err != nil {
				return err
			}

			text, err := services.Export.Summary(cmd.Context(), sc, typ)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), text)

			return nil
		},
	}
}

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Paid and pending amounts per member",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := resolveScope(cmd)
			if err != nil {
				return err
			}

			typ, err := resolveType(cmd)
			if err != nil {
				return err
			}

			b, err := services.Reports.Balances(cmd.Context(), sc, typ)
			if err != nil {
				return err
			}

			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("MEMBER", "NAME", "EXPECTED", "PAID", "PENDING")

			for _, r := range b.Rows {
				tbl.Row(
					r.Member.MemberID,
					r.Member.DisplayName(),
					money.Format(r.Member.ExpectedAmount),
					money.Format(r.TotalPaid),
					money.Format(r.PendingAmount),
				)
			}

			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())

			return nil
		},
	}
}
