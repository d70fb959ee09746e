package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
)

// Filter narrows an aggregation. Type restricts the transactions to one
// donation type. IncludeUnmatched adds transactions whose member is not in
// the list to the paid, per-type and per-status totals, which only makes
// sense for an unscoped view.
type Filter struct {
	Type             *fund.Type
	IncludeUnmatched bool
}

// Totals are the portfolio figures for a list of members.
//
// TotalPending is computed at portfolio level as TotalExpected minus
// TotalPaid, so it may differ from the sum of member pendings when a member
// has overpaid.
type Totals struct {
	MemberCount             int
	TransactionCount        int
	TotalExpected           decimal.Decimal
	TotalPaid               decimal.Decimal
	TotalPending            decimal.Decimal
	ByType                  map[fund.Type]decimal.Decimal
	ByStatus                map[fund.Status]decimal.Decimal
	PendingTransactionCount int
	PendingMemberCount      int
	UnmatchedCount          int
	UnmatchedPaid           decimal.Decimal
}

// Aggregate rolls members and transactions up into Totals. Members are taken
// as given: scoping to an agent is done by the caller before this is called.
func Aggregate(members []*member.Member, transactions []*fund.Transaction, filter Filter) Totals {
	if filter.Type != nil {
		transactions = OfType(transactions, *filter.Type)
	}

	totals := Totals{
		TotalExpected: decimal.Zero,
		TotalPaid:     decimal.Zero,
		ByType:        make(map[fund.Type]decimal.Decimal, 3),
		ByStatus: map[fund.Status]decimal.Decimal{
			fund.StatusPaid:    decimal.Zero,
			fund.StatusPending: decimal.Zero,
		},
		UnmatchedPaid: decimal.Zero,
	}

	for _, t := range fund.Types() {
		totals.ByType[t] = decimal.Zero
	}

	known := make(map[string]struct{}, len(members))

	for _, m := range members {
		if m == nil {
			continue
		}

		known[m.MemberID] = struct{}{}
		totals.MemberCount++
		totals.TotalExpected = totals.TotalExpected.Add(m.ExpectedAmount)
	}

	for _, t := range transactions {
		if t == nil {
			continue
		}

		if _, ok := known[t.MemberID]; !ok {
			totals.UnmatchedCount++
			if t.IsPaid() {
				totals.UnmatchedPaid = totals.UnmatchedPaid.Add(t.Amount)
			}

			if !filter.IncludeUnmatched {
				continue
			}
		}

		totals.TransactionCount++

		status := t.EffectiveStatus()
		totals.ByStatus[status] = totals.ByStatus[status].Add(t.Amount)

		if !t.IsPaid() {
			totals.PendingTransactionCount++
			continue
		}

		totals.TotalPaid = totals.TotalPaid.Add(t.Amount)
		totals.ByType[t.Type] = totals.ByType[t.Type].Add(t.Amount)
	}

	totals.TotalPending = Pending(totals.TotalExpected, totals.TotalPaid)

	for _, r := range ReconcileAll(members, transactions) {
		if r.PendingAmount.IsPositive() {
			totals.PendingMemberCount++
		}
	}

	return totals
}
