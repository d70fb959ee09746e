// Package importer loads member rosters and fund ledgers from CSV exports.
package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
)

type Kind string

const (
	KindMembers Kind = "members"
	KindFunds   Kind = "funds"
)

// Summary reports what an import did. A store error stops the import and
// the summary counts the rows written before it.
type Summary struct {
	Kind     Kind
	Imported int
	Skipped  []RowError
}

type Service struct {
	members *member.Service
	funds   *fund.Service
}

func NewService(members *member.Service, funds *fund.Service) *Service {
	return &Service{members: members, funds: funds}
}

// Options apply to every imported row. AssignTo sets the agent of imported
// members and RecordedBy the agent recorded on imported funds.
type Options struct {
	AssignTo   *uuid.UUID
	RecordedBy *uuid.UUID
}

func (s *Service) Import(ctx context.Context, kind Kind, r io.Reader, opts Options) (*Summary, error) {
	switch kind {
	case KindMembers:
		return s.importMembers(ctx, r, opts)
	case KindFunds:
		return s.importFunds(ctx, r, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func (s *Service) importMembers(ctx context.Context, r io.Reader, opts Options) (*Summary, error) {
	params, skipped, err := ParseMembers(r)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Kind: KindMembers, Skipped: skipped}

	for i, p := range params {
		if opts.AssignTo != nil {
			p.AssignedAgentID = opts.AssignTo
		}

		if _, err := s.members.Create(ctx, p); err != nil {
			return sum, fmt.Errorf("creating member %d of %d: %w", i+1, len(params), err)
		}

		sum.Imported++
	}

	return sum, nil
}

func (s *Service) importFunds(ctx context.Context, r io.Reader, opts Options) (*Summary, error) {
	params, skipped, err := ParseFunds(r)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Kind: KindFunds, Skipped: skipped}

	for i, p := range params {
		p.RecordedBy = opts.RecordedBy

		if _, err := s.funds.Record(ctx, p); err != nil {
			return sum, fmt.Errorf("recording transaction %d of %d: %w", i+1, len(params), err)
		}

		sum.Imported++
	}

	return sum, nil
}
