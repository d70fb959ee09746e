package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sadaqa/internal/report"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

const barWidth = 30

type DashboardModel struct {
	CommonModel
	reports *report.Service

	dashboard *report.Dashboard
	typeIdx   int
	loading   bool
	err       error
}

func NewDashboardModel(reports *report.Service) DashboardModel {
	return DashboardModel{reports: reports, loading: true}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | t: type filter | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDashboardMsg:
		m.loading = false
		m.err = msg.err
		m.dashboard = msg.dashboard

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.typeIdx = (m.typeIdx + 1) % len(typeLabels)
			m.loading = true

			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	t := m.dashboard.Totals

	card := lipgloss.NewStyle().
		Padding(0, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card.Render(fmt.Sprintf("Members\n%d", t.MemberCount)),
		card.Render(fmt.Sprintf("Agents\n%d", m.dashboard.AgentCount)),
		card.Render("Expected\n"+FormatAmount(t.TotalExpected)),
		card.Render("Paid\n"+lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(FormatAmount(t.TotalPaid))),
		card.Render("Pending\n"+errorStyle(FormatAmount(t.TotalPending))),
	)

	counts := fmt.Sprintf("%d transactions | %d members with pending balances | %d pending donations",
		t.TransactionCount, t.PendingMemberCount, t.PendingTransactionCount)
	if t.UnmatchedCount > 0 {
		counts += fmt.Sprintf(" | %d without a member (%s)", t.UnmatchedCount, FormatAmount(t.UnmatchedPaid))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Filter: [t] Type: "+activeStyle(typeLabels[m.typeIdx])),
		cards,
		"",
		lipgloss.NewStyle().Faint(true).Render(counts),
		"",
		"Paid by type",
		bars(m.dashboard.Distribution),
		"",
		"Collection",
		bars(m.dashboard.Collection),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// bars renders chart points as horizontal bars scaled to the largest amount.
func bars(points []report.ChartPoint) string {
	largest := decimal.Zero
	for _, p := range points {
		largest = decimal.Max(largest, p.Amount)
	}

	var b strings.Builder

	for _, p := range points {
		n := 0
		if largest.IsPositive() {
			n = int(p.Amount.Mul(decimal.NewFromInt(barWidth)).Div(largest).IntPart())
		}

		n = max(0, min(n, barWidth))

		fmt.Fprintf(&b, "%-10s %s %s\n", p.Label,
			activeStyle(strings.Repeat("█", n)+strings.Repeat("·", barWidth-n)),
			FormatAmount(p.Amount))
	}

	return b.String()
}

// Messages

type loadDashboardMsg struct {
	dashboard *report.Dashboard
	err       error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	typ := typeFilter(m.typeIdx)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.reports.Dashboard(ctx, scope.Admin(), typ)
		return loadDashboardMsg{dashboard: d, err: err}
	}
}
