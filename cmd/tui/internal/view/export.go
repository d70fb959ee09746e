package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/sadaqa/internal/export"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state   exportState
	err     error
	form    *huh.Form
	options *exportOptions
	spinner spinner.Model
	summary string
	files   []string
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	opts := &exportOptions{dir: "./exports", typeLabel: typeLabels[0]}

	return ExportModel{
		exportService: svc,
		state:         exportStateForm,
		form:          buildExportForm(opts),
		options:       opts,
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "Export Ledger" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}
	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.options.dir, typeFilterIndex(m.options.typeLabel)))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.summary = result.summary
		m.files = result.files

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

type exportOptions struct {
	dir       string
	typeLabel string
}

func buildExportForm(opts *exportOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&opts.dir),

			huh.NewSelect[string]().
				Key("type").
				Title("Donation Type").
				Options(huh.NewOptions(typeLabels...)...).
				Value(&opts.typeLabel),
		),
	).WithWidth(50).WithShowHelp(false)
}

func typeFilterIndex(label string) int {
	for i, l := range typeLabels {
		if l == label {
			return i
		}
	}

	return 0
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Exporting payment history and balances...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	lines := []string{header, ""}
	for _, f := range m.files {
		lines = append(lines, "  "+f)
	}

	lines = append(lines, "", "Summary:", "", m.summary)

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

type exportResultMsg struct {
	summary string
	files   []string
	err     error
}

func (m ExportModel) runExportCmd(dir string, typeIdx int) tea.Cmd {
	if dir == "" {
		dir = "./exports"
	}

	typ := typeFilter(typeIdx)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating export directory: %w", err)}
		}

		stamp := time.Now().Format("20060102")
		writers := []struct {
			name  string
			write func(ctx context.Context, sc scope.Scope, f *os.File) error
		}{
			{"payment-history", func(ctx context.Context, sc scope.Scope, f *os.File) error {
				return m.exportService.History(ctx, sc, typ, f)
			}},
			{"balances", func(ctx context.Context, sc scope.Scope, f *os.File) error {
				return m.exportService.Balances(ctx, sc, typ, f)
			}},
		}

		var files []string

		for _, w := range writers {
			path := filepath.Join(dir, fmt.Sprintf("%s-%s.csv", w.name, stamp))

			f, err := os.Create(path)
			if err != nil {
				return exportResultMsg{err: fmt.Errorf("creating %s: %w", path, err)}
			}

			err = w.write(ctx, scope.Admin(), f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}

			if err != nil {
				return exportResultMsg{err: fmt.Errorf("writing %s: %w", path, err)}
			}

			files = append(files, path)
		}

		summary, err := m.exportService.Summary(ctx, scope.Admin(), typ)
		if err != nil {
			return exportResultMsg{files: files, err: err}
		}

		return exportResultMsg{summary: summary, files: files}
	}
}
