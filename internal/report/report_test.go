package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/reconcile"
	"github.com/MrJamesThe3rd/sadaqa/internal/report"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

type mocks struct {
	members *member.MockRepository
	funds   *fund.MockRepository
	agents  *agent.MockRepository
}

func newService(t *testing.T) (*report.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		members: member.NewMockRepository(ctrl),
		funds:   fund.NewMockRepository(ctrl),
		agents:  agent.NewMockRepository(ctrl),
	}

	svc := report.NewService(
		member.NewService(m.members),
		fund.NewService(m.funds),
		agent.NewService(m.agents),
	)

	return svc, m
}

var (
	agentA = uuid.New()
	agentB = uuid.New()
)

func fixtures() ([]*member.Member, []*fund.Transaction) {
	members := []*member.Member{
		{MemberID: "MBR0001", FullName: "Aisha", ExpectedAmount: decimal.NewFromInt(1000), AssignedAgentID: &agentA},
		{MemberID: "MBR0002", FullName: "Bilal", ExpectedAmount: decimal.NewFromInt(500), AssignedAgentID: &agentB},
		{MemberID: "MBR0003", FullName: "Fatima", ExpectedAmount: decimal.NewFromInt(200), AssignedAgentID: &agentA},
	}

	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

	txs := []*fund.Transaction{
		{MemberID: "MBR0001", Type: fund.TypeMonthly, Amount: decimal.NewFromInt(300), Date: day(3)},
		{MemberID: "MBR0001", Type: fund.TypeMonthly, Amount: decimal.NewFromInt(200), Status: new(fund.StatusPending), Date: day(9)},
		{MemberID: "MBR0002", Type: fund.TypeYearly, Amount: decimal.NewFromInt(600), Date: day(1)},
		{MemberID: "MBR0003", Type: fund.TypeOneTime, Amount: decimal.NewFromInt(200), Date: day(5)},
		{MemberID: "MBR0999", Type: fund.TypeMonthly, Amount: decimal.NewFromInt(50), Date: day(7)},
	}

	return members, txs
}

func scoped(members []*member.Member, agentID uuid.UUID) []*member.Member {
	return scope.Agent(agentID).Filter(members)
}

func TestService_Dashboard_Admin(t *testing.T) {
	svc, m := newService(t)
	members, txs := fixtures()

	m.members.EXPECT().ListMembers(gomock.Any(), member.ListFilter{}).Return(members, nil)
	m.funds.EXPECT().ListTransactions(gomock.Any(), fund.ListFilter{}).Return(txs, nil)
	m.agents.EXPECT().ListAgents(gomock.Any()).Return([]*agent.Agent{{}, {}}, nil)

	d, err := svc.Dashboard(context.Background(), scope.Admin(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, d.AgentCount)
	assert.Equal(t, 3, d.Totals.MemberCount)
	assert.Equal(t, "1700", d.Totals.TotalExpected.String())
	assert.Equal(t, "1150", d.Totals.TotalPaid.String())
	assert.Equal(t, "550", d.Totals.TotalPending.String())
	assert.Equal(t, 1, d.Totals.UnmatchedCount)

	require.Len(t, d.Distribution, 3)
	assert.Equal(t, "Monthly", d.Distribution[0].Label)
	assert.Equal(t, "350", d.Distribution[0].Amount.String())
	assert.Equal(t, "600", d.Distribution[1].Amount.String())
	assert.Equal(t, "200", d.Distribution[2].Amount.String())

	require.Len(t, d.Collection, 2)
	assert.Equal(t, "1150", d.Collection[0].Amount.String())
	assert.Equal(t, "550", d.Collection[1].Amount.String())
}

func TestService_Dashboard_Agent(t *testing.T) {
	svc, m := newService(t)
	members, txs := fixtures()

	m.members.EXPECT().
		ListMembers(gomock.Any(), member.ListFilter{AssignedAgentID: &agentA}).
		Return(scoped(members, agentA), nil)
	m.funds.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(txs, nil)

	d, err := svc.Dashboard(context.Background(), scope.Agent(agentA), nil)
	require.NoError(t, err)

	assert.Zero(t, d.AgentCount)
	assert.Equal(t, 2, d.Totals.MemberCount)
	assert.Equal(t, "1200", d.Totals.TotalExpected.String())
	assert.Equal(t, "500", d.Totals.TotalPaid.String())
	assert.Equal(t, "700", d.Totals.TotalPending.String())
}

func TestService_AgentTotalsHideOtherMembers(t *testing.T) {
	type testCase struct {
		name   string
		totals func(svc *report.Service) (reconcile.Totals, error)
	}

	ctx := context.Background()
	sc := scope.Agent(agentA)

	tests := []testCase{
		{
			name: "dashboard",
			totals: func(svc *report.Service) (reconcile.Totals, error) {
				d, err := svc.Dashboard(ctx, sc, nil)
				if err != nil {
					return reconcile.Totals{}, err
				}
				return d.Totals, nil
			},
		},
		{
			name: "balances",
			totals: func(svc *report.Service) (reconcile.Totals, error) {
				b, err := svc.Balances(ctx, sc, nil)
				if err != nil {
					return reconcile.Totals{}, err
				}
				return b.Totals, nil
			},
		},
		{
			name: "pending",
			totals: func(svc *report.Service) (reconcile.Totals, error) {
				p, err := svc.PendingCollection(ctx, sc, nil)
				if err != nil {
					return reconcile.Totals{}, err
				}
				return p.Totals, nil
			},
		},
		{
			name: "history",
			totals: func(svc *report.Service) (reconcile.Totals, error) {
				h, err := svc.PaymentHistory(ctx, sc, nil)
				if err != nil {
					return reconcile.Totals{}, err
				}
				return h.Totals, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			members, txs := fixtures()

			m.members.EXPECT().ListMembers(gomock.Any(), gomock.Any()).Return(scoped(members, agentA), nil)
			m.funds.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(txs, nil)

			got, err := tt.totals(svc)
			require.NoError(t, err)

			assert.Zero(t, got.UnmatchedCount)
			assert.True(t, got.UnmatchedPaid.IsZero())
			assert.Equal(t, 3, got.TransactionCount)
			assert.Equal(t, "500", got.TotalPaid.String())
		})
	}
}

func TestService_Dashboard_FetchErrors(t *testing.T) {
	t.Run("Members", func(t *testing.T) {
		svc, m := newService(t)
		m.members.EXPECT().ListMembers(gomock.Any(), gomock.Any()).Return(nil, errors.New("unavailable"))

		d, err := svc.Dashboard(context.Background(), scope.Admin(), nil)
		assert.Error(t, err)
		assert.Nil(t, d)
	})

	t.Run("Transactions", func(t *testing.T) {
		svc, m := newService(t)
		m.members.EXPECT().ListMembers(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.funds.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, errors.New("unavailable"))

		d, err := svc.Dashboard(context.Background(), scope.Admin(), nil)
		assert.Error(t, err)
		assert.Nil(t, d)
	})

	t.Run("Agents", func(t *testing.T) {
		svc, m := newService(t)
		m.members.EXPECT().ListMembers(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.funds.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.agents.EXPECT().ListAgents(gomock.Any()).Return(nil, errors.New("unavailable"))

		d, err := svc.Dashboard(context.Background(), scope.Admin(), nil)
		assert.Error(t, err)
		assert.Nil(t, d)
	})
}

func TestService_Balances_TypeFilter(t *testing.T) {
	svc, m := newService(t)
	members, txs := fixtures()

	monthly := fund.TypeMonthly

	var onlyMonthly []*fund.Transaction

	for _, tx := range txs {
		if tx.Type == monthly {
			onlyMonthly = append(onlyMonthly, tx)
		}
	}

	m.members.EXPECT().ListMembers(gomock.Any(), gomock.Any()).Return(members, nil)
	m.funds.EXPECT().ListTransactions(gomock.Any(), fund.ListFilter{Type: &monthly}).Return(onlyMonthly, nil)

	b, err := svc.Balances(context.Background(), scope.Admin(), &monthly)
	require.NoError(t, err)

	require.Len(t, b.Rows, 3)
	assert.Equal(t, "300", b.Rows[0].TotalPaid.String())
	assert.Equal(t, "700", b.Rows[0].PendingAmount.String())
	assert.Equal(t, "0", b.Rows[1].TotalPaid.String())
	assert.Equal(t, "300", b.Totals.TotalPaid.String())
	assert.Equal(t, 1, b.Totals.UnmatchedCount)
}

func TestService_PendingCollection(t *testing.T) {
	svc, m := newService(t)
	members, txs := fixtures()

	m.members.EXPECT().ListMembers(gomock.Any(), gomock.Any()).Return(members, nil)
	m.funds.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(txs, nil)

	p, err := svc.PendingCollection(context.Background(), scope.Admin(), nil)
	require.NoError(t, err)

	require.Len(t, p.Rows, 1)
	assert.Equal(t, "MBR0001", p.Rows[0].Member.MemberID)
	assert.Equal(t, "700", p.Outstanding.String())
	assert.Equal(t, "600", p.Totals.TotalPending.String())
}

func TestService_PaymentHistory(t *testing.T) {
	t.Run("AdminSeesOrphans", func(t *testing.T) {
		svc, m := newService(t)
		members, txs := fixtures()

		m.members.EXPECT().ListMembers(gomock.Any(), gomock.Any()).Return(members, nil)
		m.funds.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(txs, nil)

		h, err := svc.PaymentHistory(context.Background(), scope.Admin(), nil)
		require.NoError(t, err)

		require.Len(t, h.Entries, 5)
		assert.Nil(t, h.Entries[4].Member)
		assert.Equal(t, "Aisha", h.Entries[0].Member.FullName)

		require.Len(t, h.Recent, 5)
		assert.Equal(t, "MBR0001", h.Recent[0].Transaction.MemberID)
		assert.Equal(t, "MBR0999", h.Recent[1].Transaction.MemberID)
		assert.Equal(t, "MBR0002", h.Recent[4].Transaction.MemberID)
	})

	t.Run("AgentSeesOwnMembersOnly", func(t *testing.T) {
		svc, m := newService(t)
		members, txs := fixtures()

		m.members.EXPECT().ListMembers(gomock.Any(), gomock.Any()).Return(scoped(members, agentB), nil)
		m.funds.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(txs, nil)

		h, err := svc.PaymentHistory(context.Background(), scope.Agent(agentB), nil)
		require.NoError(t, err)

		require.Len(t, h.Entries, 1)
		assert.Equal(t, "Bilal", h.Entries[0].Member.FullName)
		assert.Equal(t, "600", h.Totals.TotalPaid.String())
	})
}

func TestService_Statement(t *testing.T) {
	members, txs := fixtures()
	aisha := members[0]

	t.Run("InScope", func(t *testing.T) {
		svc, m := newService(t)

		m.members.EXPECT().GetMemberByMemberID(gomock.Any(), "MBR0001").Return(aisha, nil)
		m.funds.EXPECT().
			ListTransactions(gomock.Any(), fund.ListFilter{MemberID: new("MBR0001")}).
			Return(txs[:2], nil)

		res, err := svc.Statement(context.Background(), scope.Agent(agentA), "MBR0001")
		require.NoError(t, err)
		assert.Equal(t, "300", res.TotalPaid.String())
		assert.Equal(t, "700", res.PendingAmount.String())
		assert.Same(t, txs[1], res.LastTransaction)
	})

	t.Run("OutOfScope", func(t *testing.T) {
		svc, m := newService(t)

		m.members.EXPECT().GetMemberByMemberID(gomock.Any(), "MBR0001").Return(aisha, nil)

		_, err := svc.Statement(context.Background(), scope.Agent(agentB), "MBR0001")
		assert.ErrorIs(t, err, member.ErrNotFound)
	})

	t.Run("Missing", func(t *testing.T) {
		svc, m := newService(t)

		m.members.EXPECT().GetMemberByMemberID(gomock.Any(), "MBR4040").Return(nil, member.ErrNotFound)

		_, err := svc.Statement(context.Background(), scope.Admin(), "MBR4040")
		assert.ErrorIs(t, err, member.ErrNotFound)
	})
}
