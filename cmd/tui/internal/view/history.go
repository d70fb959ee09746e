package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sadaqa/internal/report"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

type HistoryModel struct {
	CommonModel
	reports *report.Service

	table     table.Model
	history   *report.PaymentHistory
	visible   []report.HistoryEntry
	typeIdx   int
	timeframe Timeframe

	loading bool
	err     error
}

func NewHistoryModel(reports *report.Service) HistoryModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Member ID", Width: 10},
		{Title: "Name", Width: 24},
		{Title: "Kind", Width: 9},
		{Title: "Type", Width: 9},
		{Title: "Status", Width: 8},
		{Title: "Amount", Width: 16},
	}

	return HistoryModel{
		reports: reports,
		table:   newTable(columns),
		loading: true,
	}
}

func (m HistoryModel) Title() string { return "Payment History" }

func (m HistoryModel) ShortHelp() string {
	return "Esc: back | t: type filter | d: date filter | r: refresh"
}

func (m HistoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadHistoryMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.history = msg.history
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
		case "d":
			m.timeframe = m.timeframe.Next()
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m HistoryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading payment history...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	paid := decimal.Zero
	for _, e := range m.visible {
		if e.Transaction.IsPaid() {
			paid = paid.Add(e.Transaction.Amount)
		}
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s\n\nShowing %d of %d transactions | Paid: %s",
		activeStyle(typeLabels[m.typeIdx]),
		activeStyle(m.timeframe.String()),
		len(m.visible),
		len(m.history.Entries),
		FormatAmount(paid),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableFrame(m.table),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// refreshTable applies the date filter locally; the type filter is applied
// by the report.
func (m *HistoryModel) refreshTable() {
	if m.history == nil {
		return
	}

	now := time.Now()

	var visible []report.HistoryEntry
	for _, e := range m.history.Entries {
		if m.timeframe.Contains(e.Transaction.Date, now) {
			visible = append(visible, e)
		}
	}
	m.visible = visible

	rows := make([]table.Row, 0, len(m.visible))
	for _, e := range m.visible {
		tx := e.Transaction

		name := "(unknown member)"
		if e.Member != nil {
			name = dash(e.Member.FullName)
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.MemberID,
			name,
			string(tx.Kind),
			string(tx.Type),
			string(tx.EffectiveStatus()),
			FormatAmount(tx.Amount),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// Messages

type loadHistoryMsg struct {
	history *report.PaymentHistory
	err     error
}

func (m HistoryModel) loadCmd() tea.Cmd {
	typ := typeFilter(m.typeIdx)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		h, err := m.reports.PaymentHistory(ctx, scope.Admin(), typ)
		return loadHistoryMsg{history: h, err: err}
	}
}
