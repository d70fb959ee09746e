// Package auth issues and verifies the session tokens used by the admin and
// agent portals. A verified token resolves to a scope.Scope.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
)

type Claims struct {
	Role    Role   `json:"role"`
	AgentID string `json:"agentId,omitempty"`
	jwt.RegisteredClaims
}

//go:generate mockgen -source=auth.go -destination=authenticator_mock.go -package=auth
type AgentAuthenticator interface {
	Authenticate(ctx context.Context, agentID, secret string) (*agent.Agent, error)
}

type Options struct {
	Secret        string
	TTL           time.Duration
	AdminEmail    string
	AdminPassword string
}

type Service struct {
	agents AgentAuthenticator
	opts   Options
	now    func() time.Time
}

func NewService(agents AgentAuthenticator, opts Options) *Service {
	return &Service{agents: agents, opts: opts, now: time.Now}
}

// Session is the result of a successful login. Agent is nil for admins.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Role      Role
	Agent     *agent.Agent
}

func (s *Service) LoginAgent(ctx context.Context, agentID, secret string) (*Session, error) {
	a, err := s.agents.Authenticate(ctx, agentID, secret)
	if err != nil {
		if errors.Is(err, agent.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("authenticating agent: %w", err)
	}

	sess, err := s.issue(RoleAgent, a.ID.String())
	if err != nil {
		return nil, err
	}

	sess.Agent = a

	return sess, nil
}

// LoginAdmin checks the configured admin credentials. Admin login is
// disabled while either of them is empty.
func (s *Service) LoginAdmin(email, password string) (*Session, error) {
	if s.opts.AdminEmail == "" || s.opts.AdminPassword == "" {
		return nil, ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.opts.AdminEmail))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.opts.AdminPassword))

	if emailOK&passOK != 1 {
		return nil, ErrInvalidCredentials
	}

	return s.issue(RoleAdmin, "")
}

func (s *Service) issue(role Role, agentID string) (*Session, error) {
	now := s.now()
	expires := now.Add(s.opts.TTL)

	claims := Claims{
		Role:    role,
		AgentID: agentID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &Session{Token: token, ExpiresAt: expires, Role: role}, nil
}

func (s *Service) key(*jwt.Token) (any, error) {
	return []byte(s.opts.Secret), nil
}

// Parse verifies a token and returns the scope it grants.
func (s *Service) Parse(token string) (scope.Scope, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return scope.Agent(uuid.Nil), fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	switch claims.Role {
	case RoleAdmin:
		return scope.Admin(), nil
	case RoleAgent:
		id, err := uuid.Parse(claims.AgentID)
		if err != nil {
			return scope.Agent(uuid.Nil), fmt.Errorf("%w: bad agent id", ErrInvalidToken)
		}

		return scope.Agent(id), nil
	default:
		return scope.Agent(uuid.Nil), fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
}
