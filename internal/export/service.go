// Package export renders report views as CSV files and plain-text summaries.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
	"github.com/MrJamesThe3rd/sadaqa/internal/reconcile"
	"github.com/MrJamesThe3rd/sadaqa/internal/report"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

// unknownMember is printed for transactions whose member no longer exists.
const unknownMember = "(unknown member)"

type Service struct {
	reports *report.Service
}

func NewService(reports *report.Service) *Service {
	return &Service{reports: reports}
}

// History writes the payment history visible to the scope as CSV.
func (s *Service) History(ctx context.Context, sc scope.Scope, typ *fund.Type, w io.Writer) error {
	h, err := s.reports.PaymentHistory(ctx, sc, typ)
	if err != nil {
		return err
	}

	return WriteHistoryCSV(w, h.Entries)
}

// Balances writes the reconciled balance of every member in scope as CSV.
func (s *Service) Balances(ctx context.Context, sc scope.Scope, typ *fund.Type, w io.Writer) error {
	b, err := s.reports.Balances(ctx, sc, typ)
	if err != nil {
		return err
	}

	return WriteBalancesCSV(w, b.Rows)
}

// Summary returns a plain-text digest of the pending collection, suitable for
// pasting into an email.
func (s *Service) Summary(ctx context.Context, sc scope.Scope, typ *fund.Type) (string, error) {
	p, err := s.reports.PendingCollection(ctx, sc, typ)
	if err != nil {
		return "", err
	}

	return PendingSummary(p), nil
}

var historyHeader = []string{"date", "memberId", "memberName", "kind", "type", "status", "amount"}

func WriteHistoryCSV(w io.Writer, entries []report.HistoryEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(historyHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range entries {
		t := e.Transaction

		name := unknownMember
		if e.Member != nil {
			name = e.Member.FullName
		}

		record := []string{
			t.Date.Format("2006-01-02"),
			t.MemberID,
			name,
			string(t.Kind),
			string(t.Type),
			string(t.EffectiveStatus()),
			t.Amount.StringFixed(2),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", t.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

var balancesHeader = []string{"memberId", "memberName", "contactNumber", "expected", "paid", "pending", "lastPayment"}

func WriteBalancesCSV(w io.Writer, rows []reconcile.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(balancesHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range rows {
		last := ""
		if r.LastTransaction != nil {
			last = r.LastTransaction.Date.Format("2006-01-02")
		}

		record := []string{
			r.Member.MemberID,
			r.Member.FullName,
			r.Member.ContactNumber,
			r.Member.ExpectedAmount.StringFixed(2),
			r.TotalPaid.StringFixed(2),
			r.PendingAmount.StringFixed(2),
			last,
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing member %s: %w", r.Member.MemberID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// PendingSummary formats one line per member who still owes money, followed
// by the portfolio totals.
func PendingSummary(p *report.Pending) string {
	var sb strings.Builder

	for _, r := range p.Rows {
		contact := r.Member.ContactNumber
		if contact == "" {
			contact = "no contact"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s %s pending | %s\n",
			r.Member.MemberID, r.Member.DisplayName(), money.Currency, money.Format(r.PendingAmount), contact)
	}

	if len(p.Rows) == 0 {
		sb.WriteString("No members with pending payments.\n")
	}

	fmt.Fprintf(&sb, "\nExpected: %s %s\n", money.Currency, money.Format(p.Totals.TotalExpected))
	fmt.Fprintf(&sb, "Paid:     %s %s\n", money.Currency, money.Format(p.Totals.TotalPaid))
	fmt.Fprintf(&sb, "Pending:  %s %s\n", money.Currency, money.Format(p.Totals.TotalPending))

	return sb.String()
}
