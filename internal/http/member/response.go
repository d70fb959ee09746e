package member

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
)

type memberResponse struct {
	ID                 uuid.UUID                 `json:"id"`
	MemberID           string                    `json:"memberId"`
	FullName           string                    `json:"fullName"`
	Gender             string                    `json:"gender,omitempty"`
	ContactNumber      string                    `json:"contactNumber,omitempty"`
	Email              string                    `json:"email,omitempty"`
	Address            string                    `json:"address,omitempty"`
	DateJoined         string                    `json:"dateJoined,omitempty"`
	DonationPreference member.DonationPreference `json:"donationPreference"`
	ExpectedAmount     money.Amount              `json:"expectedAmount"`
	AssignedAgentID    *uuid.UUID                `json:"assignedAgentId"`
	CreatedAt          time.Time                 `json:"createdAt"`
	UpdatedAt          *time.Time                `json:"updatedAt,omitempty"`
}

func toResponse(m *member.Member) memberResponse {
	resp := memberResponse{
		ID:                 m.ID,
		MemberID:           m.MemberID,
		FullName:           m.FullName,
		Gender:             m.Gender,
		ContactNumber:      m.ContactNumber,
		Email:              m.Email,
		Address:            m.Address,
		DonationPreference: m.DonationPreference,
		ExpectedAmount:     money.NewAmount(m.ExpectedAmount),
		AssignedAgentID:    m.AssignedAgentID,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}

	if m.DateJoined != nil {
		resp.DateJoined = m.DateJoined.Format(time.DateOnly)
	}

	return resp
}

func toResponseList(members []*member.Member) []memberResponse {
	resp := make([]memberResponse, len(members))
	for i, m := range members {
		resp[i] = toResponse(m)
	}

	return resp
}
