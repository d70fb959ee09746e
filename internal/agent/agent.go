package agent

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("agent not found")
	ErrInvalidCredentials = errors.New("invalid agent id or secret code")
	ErrIDSpaceExhausted   = errors.New("could not allocate a free agent id")
)

// Agent is a collector responsible for a subset of members.
type Agent struct {
	ID            uuid.UUID
	AgentID       string // Business key, e.g. AGT2290
	FullName      string
	Gender        string
	ContactNumber string
	Email         string
	AssignedArea  string
	JoiningDate   *time.Time
	AgentType     string
	SecretHash    []byte
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
