package fund

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
)

type transactionResponse struct {
	ID         uuid.UUID    `json:"id"`
	MemberID   string       `json:"memberId"`
	Kind       fund.Kind    `json:"kind"`
	Type       fund.Type    `json:"type"`
	Amount     money.Amount `json:"amount"`
	Status     *fund.Status `json:"status,omitempty"`
	Date       time.Time    `json:"date"`
	RecordedBy *uuid.UUID   `json:"recordedBy,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  *time.Time   `json:"updatedAt,omitempty"`
}

func toResponse(tx *fund.Transaction) transactionResponse {
	return transactionResponse{
		ID:         tx.ID,
		MemberID:   tx.MemberID,
		Kind:       tx.Kind,
		Type:       tx.Type,
		Amount:     money.NewAmount(tx.Amount),
		Status:     tx.Status,
		Date:       tx.Date,
		RecordedBy: tx.RecordedBy,
		CreatedAt:  tx.CreatedAt,
		UpdatedAt:  tx.UpdatedAt,
	}
}

func toResponseList(txs []*fund.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
