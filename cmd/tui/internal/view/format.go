package view

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
)

const dbTimeout = 5 * time.Second

// typeLabels is indexed by the type filter position; 0 means every type.
var typeLabels = []string{"All", string(fund.TypeMonthly), string(fund.TypeYearly), string(fund.TypeOneTime)}

// FormatAmount formats an amount with the currency label, e.g. "LKR 1,250.00".
func FormatAmount(d decimal.Decimal) string {
	return money.Currency + " " + money.Format(d)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// typeFilter maps a type filter position to the report filter.
func typeFilter(idx int) *fund.Type {
	if idx <= 0 || idx >= len(typeLabels) {
		return nil
	}

	return new(fund.Type(typeLabels[idx]))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func tableFrame(t table.Model) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(t.View())
}
