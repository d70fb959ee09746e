package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sadaqa/internal/member"
)

func TestFromDoc_CoercesPaymentAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount any
		want   string
	}{
		{name: "String", amount: "1500", want: "1500"},
		{name: "Double", amount: 2500.5, want: "2500.5"},
		{name: "Int32", amount: int32(300), want: "300"},
		{name: "Missing", amount: nil, want: "0"},
		{name: "Garbage", amount: "twelve", want: "0"},
		{name: "Negative", amount: "-40", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := fromDoc(memberDoc{
				ID:            uuid.NewString(),
				MemberID:      "MBR1000",
				PaymentAmount: tt.amount,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.ExpectedAmount.String())
		})
	}
}

func TestFromDoc_Fields(t *testing.T) {
	agentID := uuid.New()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	m, err := fromDoc(memberDoc{
		ID:            uuid.NewString(),
		MemberID:      "MBR2001",
		FullName:      "Yusuf",
		AssignedAgent: agentID.String(),
		CreatedAt:     created,
	})
	require.NoError(t, err)

	assert.Equal(t, member.PreferenceNone, m.DonationPreference)
	require.NotNil(t, m.AssignedAgentID)
	assert.Equal(t, agentID, *m.AssignedAgentID)
	assert.Equal(t, created, m.CreatedAt)
}

func TestFromDoc_LegacyAgentReference(t *testing.T) {
	m, err := fromDoc(memberDoc{ID: uuid.NewString(), AssignedAgent: "k3JH2fdf9ad"})
	require.NoError(t, err)
	assert.Nil(t, m.AssignedAgentID)
}

func TestFromDoc_BadID(t *testing.T) {
	_, err := fromDoc(memberDoc{ID: "not-a-uuid"})
	assert.Error(t, err)
}
