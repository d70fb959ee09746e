package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
	"github.com/MrJamesThe3rd/sadaqa/internal/app"
	"github.com/MrJamesThe3rd/sadaqa/internal/export"
	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/notify"
	"github.com/MrJamesThe3rd/sadaqa/internal/report"
)

type mocks struct {
	members *member.MockRepository
	funds   *fund.MockRepository
	agents  *agent.MockRepository
	sms     *notify.MockSMSSender
	email   *notify.MockEmailSender
}

var (
	agentA = uuid.New()
	agentB = uuid.New()
)

func fixtures() ([]*member.Member, []*fund.Transaction) {
	members := []*member.Member{
		{
			MemberID:        "MBR0001",
			FullName:        "Aisha",
			ContactNumber:   "0771234567",
			Email:           "aisha@example.com",
			ExpectedAmount:  decimal.NewFromInt(1000),
			AssignedAgentID: &agentA,
		},
		{
			MemberID:        "MBR0002",
			FullName:        "Bilal",
			ExpectedAmount:  decimal.NewFromInt(500),
			AssignedAgentID: &agentB,
		},
		{
			MemberID:        "MBR0003",
			FullName:        "Fatima",
			ContactNumber:   "0777654321",
			ExpectedAmount:  decimal.NewFromInt(200),
			AssignedAgentID: &agentA,
		},
	}

	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

	txs := []*fund.Transaction{
		{MemberID: "MBR0001", Type: fund.TypeMonthly, Amount: decimal.NewFromInt(300), Date: day(3)},
		{MemberID: "MBR0003", Type: fund.TypeOneTime, Amount: decimal.NewFromInt(200), Date: day(5)},
		{MemberID: "MBR0999", Type: fund.TypeMonthly, Amount: decimal.NewFromInt(50), Date: day(7)},
	}

	return members, txs
}

// setup swaps the package services for ones backed by mocked stores. The
// stores answer from the fixtures; senders are left to each test.
func setup(t *testing.T) mocks {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		members: member.NewMockRepository(ctrl),
		funds:   fund.NewMockRepository(ctrl),
		agents:  agent.NewMockRepository(ctrl),
		sms:     notify.NewMockSMSSender(ctrl),
		email:   notify.NewMockEmailSender(ctrl),
	}

	members, txs := fixtures()

	m.members.EXPECT().
		ListMembers(gomock.Any(), gomock.Any()).
		Return(members, nil).
		AnyTimes()
	m.members.EXPECT().
		GetMemberByMemberID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) (*member.Member, error) {
			for _, mb := range members {
				if mb.MemberID == id {
					return mb, nil
				}
			}

			return nil, member.ErrNotFound
		}).
		AnyTimes()
	m.funds.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f fund.ListFilter) ([]*fund.Transaction, error) {
			if f.MemberID == nil {
				return txs, nil
			}

			var out []*fund.Transaction
			for _, tx := range txs {
				if tx.MemberID == *f.MemberID {
					out = append(out, tx)
				}
			}

			return out, nil
		}).
		AnyTimes()
	m.agents.EXPECT().
		ListAgents(gomock.Any()).
		Return([]*agent.Agent{
			{ID: agentA, AgentID: "AGT0001", FullName: "Yusuf"},
			{ID: agentB, AgentID: "AGT0002", FullName: "Zainab"},
		}, nil).
		AnyTimes()

	membersSvc := member.NewService(m.members)
	fundsSvc := fund.NewService(m.funds)
	agentsSvc := agent.NewService(m.agents)
	reports := report.NewService(membersSvc, fundsSvc, agentsSvc)

	prev := services
	services = &app.App{
		Members: membersSvc,
		Funds:   fundsSvc,
		Agents:  agentsSvc,
		Reports: reports,
		Notify:  notify.NewService(m.sms, m.email),
		Export:  export.NewService(reports),
	}

	t.Cleanup(func() { services = prev })

	return m
}

// execute runs the full command tree without connecting to a store.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	root.PersistentPreRunE = nil
	root.PersistentPostRun = nil

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func TestResolveType(t *testing.T) {
	type args struct {
		value string
	}

	type testCase struct {
		name    string
		args    args
		want    *fund.Type
		wantErr bool
	}

	tests := []testCase{
		{name: "Unset", args: args{value: ""}},
		{name: "All", args: args{value: "all"}},
		{name: "Monthly", args: args{value: "Monthly"}, want: new(fund.TypeMonthly)},
		{name: "OneTime", args: args{value: "One-time"}, want: new(fund.TypeOneTime)},
		{name: "Unknown", args: args{value: "Weekly"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.Flags().String("type", "", "")
			require.NoError(t, cmd.Flags().Set("type", tc.args.value))

			got, err := resolveType(cmd)
			if tc.wantErr {
				assert.ErrorContains(t, err, "unknown type")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReportDashboard(t *testing.T) {
	type args struct {
		argv []string
	}

	type testCase struct {
		name        string
		args        args
		wantErr     error
		contains    []string
		notContains []string
	}

	tests := []testCase{
		{
			name:     "Admin",
			args:     args{argv: []string{"report", "dashboard"}},
			contains: []string{"Agents", "Unmatched records", "1 (LKR 50.00)"},
		},
		{
			name:        "Agent",
			args:        args{argv: []string{"--agent", "agt0001", "report", "dashboard"}},
			contains:    []string{"Members with pending"},
			notContains: []string{"Agents", "Unmatched records"},
		},
		{
			name:    "UnknownAgent",
			args:    args{argv: []string{"--agent", "AGT9999", "report", "dashboard"}},
			wantErr: agent.ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setup(t)

			out, err := execute(t, tc.args.argv...)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)

			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}

			for _, s := range tc.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}
