package report

import (
	"time"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
	"github.com/MrJamesThe3rd/sadaqa/internal/reconcile"
	"github.com/MrJamesThe3rd/sadaqa/internal/report"
)

type totalsResponse struct {
	MemberCount             int                          `json:"memberCount"`
	TransactionCount        int                          `json:"transactionCount"`
	TotalExpected           money.Amount                 `json:"totalExpected"`
	TotalPaid               money.Amount                 `json:"totalPaid"`
	TotalPending            money.Amount                 `json:"totalPending"`
	ByType                  map[fund.Type]money.Amount   `json:"byType"`
	ByStatus                map[fund.Status]money.Amount `json:"byStatus"`
	PendingTransactionCount int                          `json:"pendingTransactionCount"`
	PendingMemberCount      int                          `json:"pendingMemberCount"`
	UnmatchedCount          int                          `json:"unmatchedCount"`
	UnmatchedPaid           money.Amount                 `json:"unmatchedPaid"`
}

type chartPoint struct {
	Label  string       `json:"label"`
	Amount money.Amount `json:"amount"`
}

type dashboardResponse struct {
	Totals       totalsResponse `json:"totals"`
	AgentCount   int            `json:"agentCount"`
	Distribution []chartPoint   `json:"distribution"`
	Collection   []chartPoint   `json:"collection"`
}

type transactionResponse struct {
	ID       string       `json:"id"`
	MemberID string       `json:"memberId"`
	Kind     fund.Kind    `json:"kind"`
	Type     fund.Type    `json:"type"`
	Amount   money.Amount `json:"amount"`
	Status   fund.Status  `json:"status"`
	Date     time.Time    `json:"date"`
}

type balanceResponse struct {
	MemberID        string               `json:"memberId"`
	FullName        string               `json:"fullName"`
	ContactNumber   string               `json:"contactNumber,omitempty"`
	Email           string               `json:"email,omitempty"`
	ExpectedAmount  money.Amount         `json:"expectedAmount"`
	TotalPaid       money.Amount         `json:"totalPaid"`
	PendingAmount   money.Amount         `json:"pendingAmount"`
	LastTransaction *transactionResponse `json:"lastTransaction,omitempty"`
}

type statementResponse struct {
	balanceResponse
	Transactions []transactionResponse `json:"transactions"`
}

type balancesResponse struct {
	Rows   []balanceResponse `json:"rows"`
	Totals totalsResponse    `json:"totals"`
}

type pendingResponse struct {
	Rows        []balanceResponse `json:"rows"`
	Totals      totalsResponse    `json:"totals"`
	Outstanding money.Amount      `json:"outstanding"`
}

type historyEntry struct {
	transactionResponse
	MemberName string `json:"memberName,omitempty"`
	Orphaned   bool   `json:"orphaned"`
}

type historyResponse struct {
	Entries []historyEntry `json:"entries"`
	Recent  []historyEntry `json:"recent"`
	Totals  totalsResponse `json:"totals"`
}

func toTotals(t reconcile.Totals) totalsResponse {
	resp := totalsResponse{
		MemberCount:             t.MemberCount,
		TransactionCount:        t.TransactionCount,
		TotalExpected:           money.NewAmount(t.TotalExpected),
		TotalPaid:               money.NewAmount(t.TotalPaid),
		TotalPending:            money.NewAmount(t.TotalPending),
		ByType:                  make(map[fund.Type]money.Amount, len(t.ByType)),
		ByStatus:                make(map[fund.Status]money.Amount, len(t.ByStatus)),
		PendingTransactionCount: t.PendingTransactionCount,
		PendingMemberCount:      t.PendingMemberCount,
		UnmatchedCount:          t.UnmatchedCount,
		UnmatchedPaid:           money.NewAmount(t.UnmatchedPaid),
	}

	for k, v := range t.ByType {
		resp.ByType[k] = money.NewAmount(v)
	}

	for k, v := range t.ByStatus {
		resp.ByStatus[k] = money.NewAmount(v)
	}

	return resp
}

func toChart(points []report.ChartPoint) []chartPoint {
	resp := make([]chartPoint, len(points))
	for i, p := range points {
		resp[i] = chartPoint{Label: p.Label, Amount: money.NewAmount(p.Amount)}
	}

	return resp
}

func toTransaction(tx *fund.Transaction) transactionResponse {
	return transactionResponse{
		ID:       tx.ID.String(),
		MemberID: tx.MemberID,
		Kind:     tx.Kind,
		Type:     tx.Type,
		Amount:   money.NewAmount(tx.Amount),
		Status:   tx.EffectiveStatus(),
		Date:     tx.Date,
	}
}

func toBalance(r reconcile.Result) balanceResponse {
	resp := balanceResponse{
		MemberID:       r.Member.MemberID,
		FullName:       r.Member.FullName,
		ContactNumber:  r.Member.ContactNumber,
		Email:          r.Member.Email,
		ExpectedAmount: money.NewAmount(r.Member.ExpectedAmount),
		TotalPaid:      money.NewAmount(r.TotalPaid),
		PendingAmount:  money.NewAmount(r.PendingAmount),
	}

	if r.LastTransaction != nil {
		last := toTransaction(r.LastTransaction)
		resp.LastTransaction = &last
	}

	return resp
}

func toBalances(rows []reconcile.Result) []balanceResponse {
	resp := make([]balanceResponse, len(rows))
	for i, r := range rows {
		resp[i] = toBalance(r)
	}

	return resp
}

func toStatement(r *reconcile.Result) statementResponse {
	resp := statementResponse{
		balanceResponse: toBalance(*r),
		Transactions:    make([]transactionResponse, len(r.Transactions)),
	}

	for i, tx := range r.Transactions {
		resp.Transactions[i] = toTransaction(tx)
	}

	return resp
}

func toHistory(entries []report.HistoryEntry) []historyEntry {
	resp := make([]historyEntry, len(entries))

	for i, e := range entries {
		resp[i] = historyEntry{transactionResponse: toTransaction(e.Transaction), Orphaned: e.Member == nil}
		if e.Member != nil {
			resp[i].MemberName = e.Member.FullName
		}
	}

	return resp
}
