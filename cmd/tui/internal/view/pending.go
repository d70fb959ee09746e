package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/sadaqa/internal/notify"
	"github.com/MrJamesThe3rd/sadaqa/internal/reconcile"
	"github.com/MrJamesThe3rd/sadaqa/internal/report"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

type pendingState int

const (
	pendingStateBrowse pendingState = iota
	pendingStateRemind
)

type PendingModel struct {
	CommonModel
	reports *report.Service
	notify  *notify.Service

	state   pendingState
	table   table.Model
	pending *report.Pending
	form    *huh.Form
	typeIdx int

	loading bool
	err     error
	status  string

	reminder *reminderForm
}

// reminderForm holds the form bindings. Models are copied on every update, so
// it is always referenced through a pointer.
type reminderForm struct {
	channel notify.Channel
	message string
}

func NewPendingModel(reports *report.Service, notifier *notify.Service) PendingModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Member ID", Width: 10},
		{Title: "Name", Width: 24},
		{Title: "Contact", Width: 14},
		{Title: "Email", Width: 26},
		{Title: "Expected", Width: 16},
		{Title: "Paid", Width: 16},
		{Title: "Pending", Width: 16},
	}

	return PendingModel{
		reports: reports,
		notify:  notifier,
		table:   newTable(columns),
		loading: true,
	}
}

func (m PendingModel) Title() string { return "Pending Collection" }

func (m PendingModel) ShortHelp() string {
	if m.state == pendingStateRemind {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | s: send SMS | e: send email | t: type filter | r: refresh"
}

func (m PendingModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m PendingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPendingMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.pending = msg.pending
		m.refreshTable()

		return m, nil

	case remindSentMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to send reminder: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Reminder sent to %s", msg.name)
		}

		m.state = pendingStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case pendingStateBrowse:
		return m.updateBrowse(msg)
	case pendingStateRemind:
		return m.updateRemind(msg)
	}

	return m, nil
}

func (m PendingModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.typeIdx = (m.typeIdx + 1) % len(typeLabels)
			m.loading = true

			return m, m.loadCmd()
		case "s":
			return m.enterRemindMode(notify.ChannelSMS)
		case "e":
			return m.enterRemindMode(notify.ChannelEmail)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m PendingModel) selected() (reconcile.Result, bool) {
	if m.pending == nil {
		return reconcile.Result{}, false
	}

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.pending.Rows) {
		return reconcile.Result{}, false
	}

	return m.pending.Rows[idx], true
}

func (m PendingModel) enterRemindMode(ch notify.Channel) (tea.Model, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.reminder = &reminderForm{
		channel: ch,
		message: notify.ComposeReminder(row.Member.FullName, row.PendingAmount),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[notify.Channel]().
				Key("channel").
				Title("Channel").
				Options(
					huh.NewOption("SMS "+dash(row.Member.ContactNumber), notify.ChannelSMS),
					huh.NewOption("Email "+dash(row.Member.Email), notify.ChannelEmail),
				).
				Value(&m.reminder.channel),

			huh.NewText().
				Key("message").
				Title("Message").
				Lines(5).
				Value(&m.reminder.message).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("message cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = pendingStateRemind
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m PendingModel) updateRemind(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = pendingStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.remindCmd()
}

func (m PendingModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading pending collection...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s\n\nTotal Pending: %s | Total Paid: %s | Members with Pending: %d",
		activeStyle(typeLabels[m.typeIdx]),
		errorStyle(FormatAmount(m.pending.Outstanding)),
		FormatAmount(m.pending.Totals.TotalPaid),
		len(m.pending.Rows),
	)

	body := tableFrame(m.table)
	if len(m.pending.Rows) == 0 {
		body = "No members with pending payments!"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		body,
	)

	if m.state == pendingStateRemind && m.form != nil {
		row, _ := m.selected()

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(
				fmt.Sprintf("Send reminder to %s\n\n%s", row.Member.DisplayName(), m.form.View()),
			)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *PendingModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.pending.Rows))
	for i, r := range m.pending.Rows {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.Member.MemberID,
			dash(r.Member.FullName),
			dash(r.Member.ContactNumber),
			dash(r.Member.Email),
			FormatAmount(r.Member.ExpectedAmount),
			FormatAmount(r.TotalPaid),
			FormatAmount(r.PendingAmount),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadPendingMsg struct {
	pending *report.Pending
	err     error
}

func (m PendingModel) loadCmd() tea.Cmd {
	typ := typeFilter(m.typeIdx)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		p, err := m.reports.PendingCollection(ctx, scope.Admin(), typ)
		return loadPendingMsg{pending: p, err: err}
	}
}

type remindSentMsg struct {
	name string
	err  error
}

func (m PendingModel) remindCmd() tea.Cmd {
	row, ok := m.selected()
	if !ok {
		return nil
	}

	ch := m.reminder.channel
	message := m.reminder.message

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.notify.Remind(ctx, row, ch, message)
		return remindSentMsg{name: row.Member.DisplayName(), err: err}
	}
}
