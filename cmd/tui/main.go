package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/sadaqa/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/sadaqa/internal/app"
	"github.com/MrJamesThe3rd/sadaqa/internal/config"
)

type model struct {
	app *app.App

	currentView View

	dashboardView view.DashboardModel
	pendingView   view.PendingModel
	balancesView  view.BalancesModel
	historyView   view.HistoryModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewPending   View = 2
	ViewBalances  View = 3
	ViewHistory   View = 4
	ViewImport    View = 5
	ViewExport    View = 6
)

func initialModel(a *app.App) model {
	return model{
		app:           a,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(a.Reports),
		pendingView:   view.NewPendingModel(a.Reports, a.Notify),
		balancesView:  view.NewBalancesModel(a.Reports),
		historyView:   view.NewHistoryModel(a.Reports),
		importView:    view.NewImportModel(a.Import),
		exportView:    view.NewExportModel(a.Export),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.app.Reports)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewPending
				m.pendingView = view.NewPendingModel(m.app.Reports, m.app.Notify)

				return m, m.pendingView.Init()
			case "3":
				m.currentView = ViewBalances
				m.balancesView = view.NewBalancesModel(m.app.Reports)

				return m, m.balancesView.Init()
			case "4":
				m.currentView = ViewHistory
				m.historyView = view.NewHistoryModel(m.app.Reports)

				return m, m.historyView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Import)

				return m, m.importView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewPending:
		var newModel tea.Model
		newModel, cmd = m.pendingView.Update(msg)
		m.pendingView = newModel.(view.PendingModel)
	case ViewBalances:
		var newModel tea.Model
		newModel, cmd = m.balancesView.Update(msg)
		m.balancesView = newModel.(view.BalancesModel)
	case ViewHistory:
		var newModel tea.Model
		newModel, cmd = m.historyView.Update(msg)
		m.historyView = newModel.(view.HistoryModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Sadaqa Admin\n\n" +
				"1. Dashboard\n" +
				"2. Pending Collection\n" +
				"3. Member Balances\n" +
				"4. Payment History\n" +
				"5. Import CSV\n" +
				"6. Export Ledger\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.withHelp(m.dashboardView)
	case ViewPending:
		return m.withHelp(m.pendingView)
	case ViewBalances:
		return m.withHelp(m.balancesView)
	case ViewHistory:
		return m.withHelp(m.historyView)
	case ViewImport:
		return m.withHelp(m.importView)
	case ViewExport:
		return m.withHelp(m.exportView)
	}

	return "Unknown View"
}

func (m model) withHelp(v view.View) string {
	title := lipgloss.NewStyle().Bold(true).Padding(1, 1, 0).Render(v.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, v.View(), help)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialise services", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())

	_, err = p.Run()
	a.Close()

	if err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
