package fund_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	fundHandler "github.com/MrJamesThe3rd/sadaqa/internal/http/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

type mocks struct {
	funds   *fund.MockRepository
	members *member.MockRepository
}

func serve(t *testing.T, sc scope.Scope, setup func(m mocks), method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		funds:   fund.NewMockRepository(ctrl),
		members: member.NewMockRepository(ctrl),
	}
	setup(m)

	h := fundHandler.NewHandler(fund.NewService(m.funds), member.NewService(m.members))

	router := chi.NewRouter()
	router.Route("/funds", h.Routes)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(scope.NewContext(req.Context(), sc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Record(t *testing.T) {
	agentID := uuid.New()
	own := &member.Member{ID: uuid.New(), MemberID: "MBR1001", AssignedAgentID: &agentID}
	foreign := &member.Member{ID: uuid.New(), MemberID: "MBR2002"}

	type testCase struct {
		name      string
		body      string
		setupMock func(m mocks)
		wantCode  int
	}

	tests := []testCase{
		{
			name: "Fund",
			body: `{"memberId":"MBR1001","type":"Monthly","amount":"500","date":"2025-03-01"}`,
			setupMock: func(m mocks) {
				m.members.EXPECT().GetMemberByMemberID(gomock.Any(), "MBR1001").Return(own, nil)
				m.funds.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *fund.Transaction) error {
						assert.Equal(t, fund.KindFund, tx.Kind)
						assert.True(t, decimal.NewFromInt(500).Equal(tx.Amount))
						assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), tx.Date)
						assert.Equal(t, agentID, *tx.RecordedBy)

						return nil
					})
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "PendingDonation",
			body: `{"memberId":"MBR1001","kind":"donation","type":"Yearly","amount":1200,"status":"Pending"}`,
			setupMock: func(m mocks) {
				m.members.EXPECT().GetMemberByMemberID(gomock.Any(), "MBR1001").Return(own, nil)
				m.funds.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "DonationWithoutStatus",
			body: `{"memberId":"MBR1001","kind":"donation","type":"Yearly","amount":1200}`,
			setupMock: func(m mocks) {
				m.members.EXPECT().GetMemberByMemberID(gomock.Any(), "MBR1001").Return(own, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "OtherAgentsMember",
			body: `{"memberId":"MBR2002","type":"Monthly","amount":500}`,
			setupMock: func(m mocks) {
				m.members.EXPECT().GetMemberByMemberID(gomock.Any(), "MBR2002").Return(foreign, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "ZeroAmount",
			body: `{"memberId":"MBR1001","type":"Monthly","amount":"abc"}`,
			setupMock: func(m mocks) {
				m.members.EXPECT().GetMemberByMemberID(gomock.Any(), "MBR1001").Return(own, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "UnknownType",
			body:      `{"memberId":"MBR1001","type":"Weekly","amount":500}`,
			setupMock: func(mocks) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, scope.Agent(agentID), tc.setupMock, http.MethodPost, "/funds/", tc.body)
			assert.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_List_AgentSeesOwnMembersOnly(t *testing.T) {
	agentID := uuid.New()

	rec := serve(t, scope.Agent(agentID), func(m mocks) {
		m.funds.EXPECT().
			ListTransactions(gomock.Any(), fund.ListFilter{Type: new(fund.TypeMonthly)}).
			Return([]*fund.Transaction{
				{MemberID: "MBR1001", Type: fund.TypeMonthly, Amount: decimal.NewFromInt(100)},
				{MemberID: "MBR2002", Type: fund.TypeMonthly, Amount: decimal.NewFromInt(200)},
				{MemberID: "MBR9999", Type: fund.TypeMonthly, Amount: decimal.NewFromInt(300)},
			}, nil)
		m.members.EXPECT().
			ListMembers(gomock.Any(), member.ListFilter{AssignedAgentID: &agentID}).
			Return([]*member.Member{{MemberID: "MBR1001", AssignedAgentID: &agentID}}, nil)
	}, http.MethodGet, "/funds/?type=Monthly", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []struct {
		MemberID string `json:"memberId"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "MBR1001", resp[0].MemberID)
}

func TestHandler_Correct(t *testing.T) {
	id := uuid.New()
	agentID := uuid.New()

	t.Run("AdminCorrectsAmount", func(t *testing.T) {
		rec := serve(t, scope.Admin(), func(m mocks) {
			tx := &fund.Transaction{ID: id, MemberID: "MBR1001", Kind: fund.KindFund, Type: fund.TypeMonthly, Amount: decimal.NewFromInt(100)}

			m.funds.EXPECT().GetTransaction(gomock.Any(), id).Return(tx, nil).Times(2)
			m.funds.EXPECT().UpdateTransaction(gomock.Any(), tx).Return(nil)
		}, http.MethodPatch, "/funds/"+id.String(), `{"amount":"150","type":"Yearly"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"type":"Yearly"`)
		assert.Contains(t, rec.Body.String(), `"amount":150`)
	})

	t.Run("AgentOrphan", func(t *testing.T) {
		rec := serve(t, scope.Agent(agentID), func(m mocks) {
			m.funds.EXPECT().
				GetTransaction(gomock.Any(), id).
				Return(&fund.Transaction{ID: id, MemberID: "MBR0404"}, nil)
			m.members.EXPECT().
				GetMemberByMemberID(gomock.Any(), "MBR0404").
				Return(nil, member.ErrNotFound)
		}, http.MethodPatch, "/funds/"+id.String(), `{"amount":"150"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	id := uuid.New()

	rec := serve(t, scope.Admin(), func(m mocks) {
		m.funds.EXPECT().GetTransaction(gomock.Any(), id).Return(&fund.Transaction{ID: id}, nil)
		m.funds.EXPECT().DeleteTransaction(gomock.Any(), id).Return(nil)
	}, http.MethodDelete, "/funds/"+id.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
