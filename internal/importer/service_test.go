package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/importer"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
)

func TestService_Import(t *testing.T) {
	agentID := uuid.New()

	type args struct {
		kind  importer.Kind
		input string
		opts  importer.Options
	}

	type testCase struct {
		name         string
		args         args
		setupMock    func(m *member.MockRepository, f *fund.MockRepository)
		wantImported int
		wantSkipped  int
		wantErr      bool
	}

	tests := []testCase{
		{
			name: "MembersAssignedToAgent",
			args: args{
				kind:  importer.KindMembers,
				input: "name,amount\nAisha,100\nOmar,200\n,300\n",
				opts:  importer.Options{AssignTo: &agentID},
			},
			setupMock: func(m *member.MockRepository, _ *fund.MockRepository) {
				m.EXPECT().GetMemberByMemberID(gomock.Any(), gomock.Any()).Return(nil, member.ErrNotFound).Times(2)
				m.EXPECT().
					CreateMember(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mem *member.Member) error {
						assert.Equal(t, agentID, *mem.AssignedAgentID)
						return nil
					}).
					Times(2)
			},
			wantImported: 2,
			wantSkipped:  1,
		},
		{
			name: "Funds",
			args: args{
				kind:  importer.KindFunds,
				input: "memberId,type,amount\nMBR0001,Monthly,100\n",
				opts:  importer.Options{RecordedBy: &agentID},
			},
			setupMock: func(_ *member.MockRepository, f *fund.MockRepository) {
				f.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *fund.Transaction) error {
						assert.Equal(t, &agentID, tx.RecordedBy)
						return nil
					})
			},
			wantImported: 1,
		},
		{
			name: "StoreErrorStops",
			args: args{
				kind:  importer.KindFunds,
				input: "memberId,type,amount\nMBR0001,Monthly,100\nMBR0002,Monthly,100\n",
			},
			setupMock: func(_ *member.MockRepository, f *fund.MockRepository) {
				f.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name:    "UnknownKind",
			args:    args{kind: "agents", input: "x\n"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			memberRepo := member.NewMockRepository(ctrl)
			fundRepo := fund.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(memberRepo, fundRepo)
			}

			svc := importer.NewService(member.NewService(memberRepo), fund.NewService(fundRepo))

			sum, err := svc.Import(context.Background(), tt.args.kind, strings.NewReader(tt.args.input), tt.args.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantImported, sum.Imported)
			assert.Len(t, sum.Skipped, tt.wantSkipped)
		})
	}
}
