package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
	"github.com/MrJamesThe3rd/sadaqa/internal/export"
	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/reconcile"
	"github.com/MrJamesThe3rd/sadaqa/internal/report"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

func TestWriteHistoryCSV(t *testing.T) {
	aisha := &member.Member{MemberID: "MBR0001", FullName: "Aisha, Rahman"}
	date := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)

	entries := []report.HistoryEntry{
		{
			Member: aisha,
			Transaction: &fund.Transaction{
				MemberID: "MBR0001",
				Kind:     fund.KindFund,
				Type:     fund.TypeMonthly,
				Amount:   decimal.NewFromInt(500),
				Date:     date,
			},
		},
		{
			Transaction: &fund.Transaction{
				MemberID: "MBR0404",
				Kind:     fund.KindDonation,
				Type:     fund.TypeYearly,
				Amount:   decimal.RequireFromString("12.5"),
				Status:   new(fund.StatusPending),
				Date:     date,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteHistoryCSV(&buf, entries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"date", "memberId", "memberName", "kind", "type", "status", "amount"}, records[0])
	assert.Equal(t, []string{"2025-02-14", "MBR0001", "Aisha, Rahman", "fund", "Monthly", "Paid", "500.00"}, records[1])
	assert.Equal(t, []string{"2025-02-14", "MBR0404", "(unknown member)", "donation", "Yearly", "Pending", "12.50"}, records[2])
}

func TestWriteBalancesCSV(t *testing.T) {
	m := &member.Member{MemberID: "MBR0001", FullName: "Aisha", ExpectedAmount: decimal.NewFromInt(1000)}
	txs := []*fund.Transaction{
		{MemberID: "MBR0001", Type: fund.TypeMonthly, Amount: decimal.NewFromInt(300), Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteBalancesCSV(&buf, reconcile.ReconcileAll([]*member.Member{m}, txs)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "MBR0001,Aisha,,1000.00,300.00,700.00,2025-03-01", lines[1])
}

func TestPendingSummary(t *testing.T) {
	m := &member.Member{MemberID: "MBR0001", FullName: "Aisha", ContactNumber: "+94771234567"}

	p := &report.Pending{
		Rows: []reconcile.Result{{Member: m, PendingAmount: decimal.NewFromInt(1700)}},
		Totals: reconcile.Totals{
			TotalExpected: decimal.NewFromInt(2000),
			TotalPaid:     decimal.NewFromInt(300),
			TotalPending:  decimal.NewFromInt(1700),
		},
	}

	got := export.PendingSummary(p)

	assert.Contains(t, got, "* MBR0001 | Aisha | LKR 1,700.00 pending | +94771234567\n")
	assert.Contains(t, got, "Expected: LKR 2,000.00\n")
	assert.Contains(t, got, "Pending:  LKR 1,700.00\n")

	empty := export.PendingSummary(&report.Pending{})
	assert.True(t, strings.HasPrefix(empty, "No members with pending payments."))
}

func TestService_History_FetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	members := member.NewMockRepository(ctrl)
	members.EXPECT().ListMembers(gomock.Any(), gomock.Any()).Return(nil, errors.New("unavailable"))

	reports := report.NewService(
		member.NewService(members),
		fund.NewService(fund.NewMockRepository(ctrl)),
		agent.NewService(agent.NewMockRepository(ctrl)),
	)

	var buf bytes.Buffer

	err := export.NewService(reports).History(context.Background(), scope.Admin(), nil, &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
