package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
	"github.com/MrJamesThe3rd/sadaqa/internal/auth"
	authHandler "github.com/MrJamesThe3rd/sadaqa/internal/http/auth"
)

func newRouter(t *testing.T, setup func(m *auth.MockAgentAuthenticator)) http.Handler {
	ctrl := gomock.NewController(t)

	agents := auth.NewMockAgentAuthenticator(ctrl)
	if setup != nil {
		setup(agents)
	}

	svc := auth.NewService(agents, auth.Options{
		Secret:        "test-secret",
		TTL:           time.Hour,
		AdminEmail:    "admin@mosque.lk",
		AdminPassword: "s3cret",
	})

	r := chi.NewRouter()
	r.Route("/auth", authHandler.NewHandler(svc).Routes)

	return r
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_LoginAgent(t *testing.T) {
	id := uuid.New()

	router := newRouter(t, func(m *auth.MockAgentAuthenticator) {
		m.EXPECT().
			Authenticate(gomock.Any(), "AGT2290", "Ab12Cd34").
			Return(&agent.Agent{ID: id, AgentID: "AGT2290", FullName: "Yusuf"}, nil)
		m.EXPECT().
			Authenticate(gomock.Any(), "AGT2290", "wrong").
			Return(nil, agent.ErrInvalidCredentials)
	})

	rec := post(router, "/auth/agent", `{"agentId":"AGT2290","secretCode":"Ab12Cd34"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
		Agent struct {
			ID      string `json:"id"`
			AgentID string `json:"agentId"`
		} `json:"agent"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "agent", resp.Role)
	assert.Equal(t, id.String(), resp.Agent.ID)

	rec = post(router, "/auth/agent", `{"agentId":"AGT2290","secretCode":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(router, "/auth/agent", `{"agentId":"AGT2290"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_LoginAdmin(t *testing.T) {
	router := newRouter(t, nil)

	type testCase struct {
		name string
		body string
		want int
	}

	tests := []testCase{
		{name: "Success", body: `{"email":"admin@mosque.lk","password":"s3cret"}`, want: http.StatusOK},
		{name: "WrongPassword", body: `{"email":"admin@mosque.lk","password":"nope"}`, want: http.StatusUnauthorized},
		{name: "NotAnEmail", body: `{"email":"admin","password":"s3cret"}`, want: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(router, "/auth/admin", tc.body)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
