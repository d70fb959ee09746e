package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
	"github.com/MrJamesThe3rd/sadaqa/internal/auth"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
)

var opts = auth.Options{
	Secret:        "test-secret",
	TTL:           time.Hour,
	AdminEmail:    "admin@mosque.lk",
	AdminPassword: "s3cret",
}

func TestService_LoginAgent(t *testing.T) {
	agentID := uuid.New()

	type testCase struct {
		name      string
		setupMock func(m *auth.MockAgentAuthenticator)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *auth.MockAgentAuthenticator) {
				m.EXPECT().
					Authenticate(gomock.Any(), "AGT1234", "Ab12Cd34").
					Return(&agent.Agent{ID: agentID, AgentID: "AGT1234"}, nil)
			},
		},
		{
			name: "WrongSecret",
			setupMock: func(m *auth.MockAgentAuthenticator) {
				m.EXPECT().
					Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, agent.ErrInvalidCredentials)
			},
			wantErr: auth.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			agents := auth.NewMockAgentAuthenticator(ctrl)
			tt.setupMock(agents)

			svc := auth.NewService(agents, opts)

			sess, err := svc.LoginAgent(context.Background(), "AGT1234", "Ab12Cd34")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, auth.RoleAgent, sess.Role)
			assert.Equal(t, "AGT1234", sess.Agent.AgentID)

			s, err := svc.Parse(sess.Token)
			require.NoError(t, err)
			assert.False(t, s.IsAdmin())

			id, ok := s.AgentID()
			assert.True(t, ok)
			assert.Equal(t, agentID, id)
		})
	}
}

func TestService_LoginAgent_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agents := auth.NewMockAgentAuthenticator(ctrl)
	agents.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := auth.NewService(agents, opts).LoginAgent(context.Background(), "AGT1234", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_LoginAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := auth.NewService(auth.NewMockAgentAuthenticator(ctrl), opts)

	sess, err := svc.LoginAdmin("admin@mosque.lk", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, sess.Role)

	s, err := svc.Parse(sess.Token)
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())

	_, err = svc.LoginAdmin("admin@mosque.lk", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	disabled := auth.NewService(auth.NewMockAgentAuthenticator(ctrl), auth.Options{Secret: "x", TTL: time.Hour})
	_, err = disabled.LoginAdmin("", "")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Parse_Rejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := auth.NewService(auth.NewMockAgentAuthenticator(ctrl), opts)

	sess, err := svc.LoginAdmin("admin@mosque.lk", "s3cret")
	require.NoError(t, err)

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.Parse("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("OtherSecret", func(t *testing.T) {
		other := auth.NewService(auth.NewMockAgentAuthenticator(ctrl), auth.Options{Secret: "other", TTL: time.Hour})
		_, err := other.Parse(sess.Token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		short := auth.NewService(auth.NewMockAgentAuthenticator(ctrl), auth.Options{
			Secret:        opts.Secret,
			TTL:           -time.Minute,
			AdminEmail:    opts.AdminEmail,
			AdminPassword: opts.AdminPassword,
		})

		expired, err := short.LoginAdmin(opts.AdminEmail, opts.AdminPassword)
		require.NoError(t, err)

		_, err = svc.Parse(expired.Token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestService_Parse_RejectedTokensGrantNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := auth.NewService(auth.NewMockAgentAuthenticator(ctrl), opts)

	sign := func(t *testing.T, claims auth.Claims) string {
		t.Helper()

		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))

		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(opts.Secret))
		require.NoError(t, err)

		return token
	}

	type args struct {
		token func(t *testing.T) string
	}

	type testCase struct {
		name string
		args args
	}

	tests := []testCase{
		{
			name: "Garbage",
			args: args{token: func(*testing.T) string { return "not.a.token" }},
		},
		{
			name: "UnknownRole",
			args: args{token: func(t *testing.T) string {
				return sign(t, auth.Claims{Role: "superuser"})
			}},
		},
		{
			name: "EmptyRole",
			args: args{token: func(t *testing.T) string {
				return sign(t, auth.Claims{})
			}},
		},
		{
			name: "BadAgentID",
			args: args{token: func(t *testing.T) string {
				return sign(t, auth.Claims{Role: auth.RoleAgent, AgentID: "AGT1234"})
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := svc.Parse(tc.args.token(t))
			require.ErrorIs(t, err, auth.ErrInvalidToken)

			assert.False(t, s.IsAdmin())
			assert.Empty(t, s.Filter([]*member.Member{{MemberID: "MBR0001"}}))
		})
	}
}
