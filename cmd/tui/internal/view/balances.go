package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/sadaqa/internal/report"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

type BalancesModel struct {
	CommonModel
	reports *report.Service

	table    table.Model
	balances *report.Balances
	typeIdx  int

	loading bool
	err     error
}

func NewBalancesModel(reports *report.Service) BalancesModel {
	columns := []table.Column{
		{Title: "Member ID", Width: 10},
		{Title: "Name", Width: 24},
		{Title: "Preference", Width: 11},
		{Title: "Expected", Width: 16},
		{Title: "Paid", Width: 16},
		{Title: "Pending", Width: 16},
		{Title: "Last Payment", Width: 12},
	}

	return BalancesModel{
		reports: reports,
		table:   newTable(columns),
		loading: true,
	}
}

func (m BalancesModel) Title() string { return "Member Balances" }

func (m BalancesModel) ShortHelp() string {
	return "Esc: back | t: type filter | r: refresh"
}

func (m BalancesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BalancesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBalancesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.balances = msg.balances
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
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

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BalancesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading balances...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	t := m.balances.Totals
	header := fmt.Sprintf(
		"Filter: [t] Type: %s\n\nMembers: %d | Expected: %s | Paid: %s | Pending: %s",
		activeStyle(typeLabels[m.typeIdx]),
		t.MemberCount,
		FormatAmount(t.TotalExpected),
		FormatAmount(t.TotalPaid),
		errorStyle(FormatAmount(t.TotalPending)),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableFrame(m.table),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *BalancesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.balances.Rows))
	for _, r := range m.balances.Rows {
		last := "-"
		if r.LastTransaction != nil {
			last = FormatDate(r.LastTransaction.Date)
		}

		rows = append(rows, table.Row{
			r.Member.MemberID,
			dash(r.Member.FullName),
			string(r.Member.DonationPreference),
			FormatAmount(r.Member.ExpectedAmount),
			FormatAmount(r.TotalPaid),
			FormatAmount(r.PendingAmount),
			last,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadBalancesMsg struct {
	balances *report.Balances
	err      error
}

func (m BalancesModel) loadCmd() tea.Cmd {
	typ := typeFilter(m.typeIdx)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		b, err := m.reports.Balances(ctx, scope.Admin(), typ)
		return loadBalancesMsg{balances: b, err: err}
	}
}
