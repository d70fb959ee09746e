package agent_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
)

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := agent.NewMockRepository(ctrl)
	repo.EXPECT().GetAgentByAgentID(gomock.Any(), gomock.Any()).Return(nil, agent.ErrNotFound)
	repo.EXPECT().
		CreateAgent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *agent.Agent) error {
			a.ID = uuid.New()
			return nil
		})

	created, err := agent.NewService(repo).Create(context.Background(), agent.CreateParams{
		FullName:     "Mohamed Rifkhan",
		AssignedArea: "Kattankudy North",
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^AGT\d{4}$`), created.Agent.AgentID)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{8}$`), created.Secret)
	assert.NotEqual(t, created.Secret, string(created.Agent.SecretHash))
	assert.NoError(t, bcrypt.CompareHashAndPassword(created.Agent.SecretHash, []byte(created.Secret)))
}

func TestService_Create_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := agent.NewMockRepository(ctrl)
	repo.EXPECT().GetAgentByAgentID(gomock.Any(), gomock.Any()).Return(nil, errors.New("store down"))

	_, err := agent.NewService(repo).Create(context.Background(), agent.CreateParams{FullName: "X"})
	assert.Error(t, err)
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret12"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &agent.Agent{ID: uuid.New(), AgentID: "AGT1234", SecretHash: hash}

	type args struct {
		agentID string
		secret  string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *agent.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{agentID: "AGT1234", secret: "Secret12"},
			setupMock: func(m *agent.MockRepository) {
				m.EXPECT().GetAgentByAgentID(gomock.Any(), "AGT1234").Return(stored, nil)
			},
		},
		{
			name: "WrongSecret",
			args: args{agentID: "AGT1234", secret: "nope"},
			setupMock: func(m *agent.MockRepository) {
				m.EXPECT().GetAgentByAgentID(gomock.Any(), "AGT1234").Return(stored, nil)
			},
			wantErr: agent.ErrInvalidCredentials,
		},
		{
			name: "UnknownAgent",
			args: args{agentID: "AGT0000", secret: "Secret12"},
			setupMock: func(m *agent.MockRepository) {
				m.EXPECT().GetAgentByAgentID(gomock.Any(), "AGT0000").Return(nil, agent.ErrNotFound)
			},
			wantErr: agent.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := agent.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := agent.NewService(repo).Authenticate(context.Background(), tt.args.agentID, tt.args.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, stored.ID, got.ID)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := agent.NewMockRepository(ctrl)
	repo.EXPECT().GetAgent(gomock.Any(), id).Return(&agent.Agent{ID: id, FullName: "Old", AssignedArea: "East"}, nil)
	repo.EXPECT().UpdateAgent(gomock.Any(), gomock.Any()).Return(nil)

	area := "West"

	got, err := agent.NewService(repo).Update(context.Background(), id, agent.UpdateParams{AssignedArea: &area})
	require.NoError(t, err)
	assert.Equal(t, "West", got.AssignedArea)
	assert.Equal(t, "Old", got.FullName)
}
