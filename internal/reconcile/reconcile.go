// Package reconcile computes member balances and portfolio totals from
// already fetched members and transactions. Every function is pure: the same
// snapshot always yields the same output, and nothing is read from or
// written to a store.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
)

// Result is one member's reconciled balance.
type Result struct {
	Member          *member.Member
	TotalPaid       decimal.Decimal
	PendingAmount   decimal.Decimal
	Transactions    []*fund.Transaction
	LastTransaction *fund.Transaction
}

// Reconcile selects the member's transactions from the full set and sums the
// paid ones. Transactions keep the order they were given in, and
// LastTransaction is the last of them in that order, not the latest by date.
func Reconcile(m *member.Member, transactions []*fund.Transaction) Result {
	if m == nil {
		return Result{}
	}

	var own []*fund.Transaction

	for _, t := range transactions {
		if t != nil && t.MemberID == m.MemberID {
			own = append(own, t)
		}
	}

	return settle(m, own)
}

// ReconcileAll reconciles every member against the same transaction set,
// returning results in member order. It indexes the transactions once
// instead of scanning them per member.
func ReconcileAll(members []*member.Member, transactions []*fund.Transaction) []Result {
	byMember := make(map[string][]*fund.Transaction, len(members))

	for _, t := range transactions {
		if t != nil {
			byMember[t.MemberID] = append(byMember[t.MemberID], t)
		}
	}

	results := make([]Result, 0, len(members))

	for _, m := range members {
		if m == nil {
			continue
		}

		results = append(results, settle(m, byMember[m.MemberID]))
	}

	return results
}

func settle(m *member.Member, own []*fund.Transaction) Result {
	res := Result{
		Member:       m,
		TotalPaid:    decimal.Zero,
		Transactions: own,
	}

	for _, t := range own {
		if t.IsPaid() {
			res.TotalPaid = res.TotalPaid.Add(t.Amount)
		}
	}

	res.PendingAmount = Pending(m.ExpectedAmount, res.TotalPaid)

	if len(own) > 0 {
		res.LastTransaction = own[len(own)-1]
	}

	return res
}

// Pending is the shortfall between expected and paid, never below zero.
func Pending(expected, paid decimal.Decimal) decimal.Decimal {
	d := expected.Sub(paid)
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

// OfType keeps the transactions of one donation type, preserving order.
// OfMembers keeps the transactions that belong to one of the members,
// preserving order.
func OfMembers(transactions []*fund.Transaction, members []*member.Member) []*fund.Transaction {
	known := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m != nil {
			known[m.MemberID] = struct{}{}
		}
	}

	out := make([]*fund.Transaction, 0, len(transactions))

	for _, tx := range transactions {
		if tx == nil {
			continue
		}

		if _, ok := known[tx.MemberID]; ok {
			out = append(out, tx)
		}
	}

	return out
}

func OfType(transactions []*fund.Transaction, t fund.Type) []*fund.Transaction {
	out := make([]*fund.Transaction, 0, len(transactions))

	for _, tx := range transactions {
		if tx != nil && tx.Type == t {
			out = append(out, tx)
		}
	}

	return out
}
