// Package report builds the dashboard, balance, pending collection and
// payment history views. Each view fetches a fresh snapshot and projects it
// through the reconcile package. A failed fetch aborts the view.
package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/reconcile"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

// recentLimit is the number of entries in PaymentHistory.Recent.
const recentLimit = 5

type Service struct {
	members *member.Service
	funds   *fund.Service
	agents  *agent.Service
}

func NewService(members *member.Service, funds *fund.Service, agents *agent.Service) *Service {
	return &Service{members: members, funds: funds, agents: agents}
}

type ChartPoint struct {
	Label  string
	Amount decimal.Decimal
}

// Dashboard is the portfolio summary. AgentCount is only filled in for
// admins. Distribution is the paid amount per donation type and Collection
// compares the paid and pending totals.
type Dashboard struct {
	Totals       reconcile.Totals
	AgentCount   int
	Distribution []ChartPoint
	Collection   []ChartPoint
}

type Balances struct {
	Rows   []reconcile.Result
	Totals reconcile.Totals
}

// Pending lists members who still owe money. Outstanding is the sum of their
// pending amounts and can exceed Totals.TotalPending when other members have
// overpaid.
type Pending struct {
	Rows        []reconcile.Result
	Totals      reconcile.Totals
	Outstanding decimal.Decimal
}

// HistoryEntry is a transaction with its member. Member is nil when the
// transaction references a member that no longer exists.
type HistoryEntry struct {
	Transaction *fund.Transaction
	Member      *member.Member
}

// PaymentHistory holds every visible transaction in store order. Recent holds
// the latest few by date, newest first.
type PaymentHistory struct {
	Entries []HistoryEntry
	Recent  []HistoryEntry
	Totals  reconcile.Totals
}

type snapshot struct {
	members      []*member.Member
	transactions []*fund.Transaction
}

func (s *Service) fetch(ctx context.Context, sc scope.Scope, typ *fund.Type) (*snapshot, error) {
	members, err := s.members.List(ctx, sc.MemberFilter())
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	txs, err := s.funds.List(ctx, fund.ListFilter{Type: typ})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	members = sc.Filter(members)

	// Agents only ever see their own members' records.
	if !sc.IsAdmin() {
		txs = reconcile.OfMembers(txs, members)
	}

	return &snapshot{members: members, transactions: txs}, nil
}

// Dashboard summarises the portfolio. For admins the totals also include
// transactions whose member no longer exists.
func (s *Service) Dashboard(ctx context.Context, sc scope.Scope, typ *fund.Type) (*Dashboard, error) {
	snap, err := s.fetch(ctx, sc, typ)
	if err != nil {
		return nil, err
	}

	var agentCount int

	if sc.IsAdmin() {
		agents, err := s.agents.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing agents: %w", err)
		}

		agentCount = len(agents)
	}

	totals := reconcile.Aggregate(snap.members, snap.transactions, reconcile.Filter{
		Type:             typ,
		IncludeUnmatched: sc.IsAdmin(),
	})

	d := &Dashboard{
		Totals:     totals,
		AgentCount: agentCount,
		Collection: []ChartPoint{
			{Label: string(fund.StatusPaid), Amount: totals.TotalPaid},
			{Label: string(fund.StatusPending), Amount: totals.TotalPending},
		},
	}

	for _, t := range fund.Types() {
		d.Distribution = append(d.Distribution, ChartPoint{Label: string(t), Amount: totals.ByType[t]})
	}

	return d, nil
}

// Balances reconciles every member in scope.
func (s *Service) Balances(ctx context.Context, sc scope.Scope, typ *fund.Type) (*Balances, error) {
	snap, err := s.fetch(ctx, sc, typ)
	if err != nil {
		return nil, err
	}

	return &Balances{
		Rows:   reconcile.ReconcileAll(snap.members, snap.transactions),
		Totals: reconcile.Aggregate(snap.members, snap.transactions, reconcile.Filter{Type: typ}),
	}, nil
}

// PendingCollection lists the members in scope who still owe money.
func (s *Service) PendingCollection(ctx context.Context, sc scope.Scope, typ *fund.Type) (*Pending, error) {
	snap, err := s.fetch(ctx, sc, typ)
	if err != nil {
		return nil, err
	}

	p := &Pending{
		Totals:      reconcile.Aggregate(snap.members, snap.transactions, reconcile.Filter{Type: typ}),
		Outstanding: decimal.Zero,
	}

	for _, r := range reconcile.ReconcileAll(snap.members, snap.transactions) {
		if !r.PendingAmount.IsPositive() {
			continue
		}

		p.Rows = append(p.Rows, r)
		p.Outstanding = p.Outstanding.Add(r.PendingAmount)
	}

	return p, nil
}

// PaymentHistory lists transactions in store order with their members. Agents
// only see transactions of their own members. Admins also see transactions
// whose member is gone.
func (s *Service) PaymentHistory(ctx context.Context, sc scope.Scope, typ *fund.Type) (*PaymentHistory, error) {
	snap, err := s.fetch(ctx, sc, typ)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*member.Member, len(snap.members))
	for _, m := range snap.members {
		byID[m.MemberID] = m
	}

	h := &PaymentHistory{
		Totals: reconcile.Aggregate(snap.members, snap.transactions, reconcile.Filter{
			Type:             typ,
			IncludeUnmatched: sc.IsAdmin(),
		}),
	}

	for _, t := range snap.transactions {
		m := byID[t.MemberID]
		if m == nil && !sc.IsAdmin() {
			continue
		}

		h.Entries = append(h.Entries, HistoryEntry{Transaction: t, Member: m})
	}

	h.Recent = slices.Clone(h.Entries)
	slices.SortStableFunc(h.Recent, func(a, b HistoryEntry) int {
		return cmp.Compare(b.Transaction.Date.UnixNano(), a.Transaction.Date.UnixNano())
	})

	if len(h.Recent) > recentLimit {
		h.Recent = h.Recent[:recentLimit]
	}

	return h, nil
}

// Statement reconciles a single member by business key. Members outside the
// scope are reported as not found.
func (s *Service) Statement(ctx context.Context, sc scope.Scope, memberID string) (*reconcile.Result, error) {
	m, err := s.members.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if !sc.Allows(m) {
		return nil, member.ErrNotFound
	}

	txs, err := s.funds.List(ctx, fund.ListFilter{MemberID: &memberID})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	res := reconcile.Reconcile(m, txs)

	return &res, nil
}
