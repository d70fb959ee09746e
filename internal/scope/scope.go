// Package scope describes whose members a caller may see.
//
// An admin sees every member. An agent sees only the members assigned to
// them. A Scope is always passed explicitly to the operations that need it.
package scope

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sadaqa/internal/member"
)

// Scope is the zero-privilege agent scope unless built with Admin.
type Scope struct {
	admin   bool
	agentID uuid.UUID
}

func Admin() Scope {
	return Scope{admin: true}
}

func Agent(id uuid.UUID) Scope {
	return Scope{agentID: id}
}

func (s Scope) IsAdmin() bool {
	return s.admin
}

// AgentID returns the agent the scope is restricted to.
func (s Scope) AgentID() (uuid.UUID, bool) {
	if s.admin {
		return uuid.Nil, false
	}

	return s.agentID, true
}

// MemberFilter returns the list filter that applies the scope at the store.
func (s Scope) MemberFilter() member.ListFilter {
	var f member.ListFilter
	if !s.admin {
		f.AssignedAgentID = new(s.agentID)
	}

	return f
}

func (s Scope) Allows(m *member.Member) bool {
	if m == nil {
		return false
	}

	if s.admin {
		return true
	}

	return s.agentID != uuid.Nil && m.AssignedAgentID != nil && *m.AssignedAgentID == s.agentID
}

// Filter returns the members the scope allows, preserving order.
func (s Scope) Filter(members []*member.Member) []*member.Member {
	if s.admin {
		return members
	}

	out := make([]*member.Member, 0, len(members))

	for _, m := range members {
		if s.Allows(m) {
			out = append(out, m)
		}
	}

	return out
}

func (s Scope) String() string {
	if s.admin {
		return "admin"
	}

	return "agent:" + s.agentID.String()
}

type ctxKey struct{}

// NewContext is used by the HTTP layer to hand the authenticated scope to
// handlers, which read it once and pass it on explicitly.
func NewContext(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(ctxKey{}).(Scope)
	return s, ok
}
