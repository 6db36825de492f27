package chat

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestConversationID_Commutative(t *testing.T) {
	req := require.New(t)
	f := func(a, b string) bool {
		return ConversationID(a, b) == ConversationID(b, a)
	}
	req.NoError(quick.Check(f, nil))
}

func TestConversationID_SortsLexicographically(t *testing.T) {
	cases := []struct {
		a, b string
		want string
	}{
		{"user123", AssistantID, "ai_assistant-user123"},
		{AssistantID, "user123", "ai_assistant-user123"},
		{"user002", "user123", "user002-user123"},
		{"b", "a", "a-b"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			require.Equal(t, tc.want, ConversationID(tc.a, tc.b))
		})
	}
}

func TestConversationID_SeparatorCollision(t *testing.T) {
	// Known edge case: ids containing the separator are ambiguous.
	require.Equal(t, ConversationID("a-b", "c"), ConversationID("a", "b-c"))
	require.False(t, ValidParticipantID("a-b"))
	require.False(t, ValidParticipantID(" "))
	require.True(t, ValidParticipantID("user123"))
}

func TestPartner(t *testing.T) {
	req := require.New(t)
	cid := ConversationID("user123", AssistantID)

	p, ok := Partner(cid, "user123")
	req.True(ok)
	req.Equal(AssistantID, p)

	p, ok = Partner(cid, AssistantID)
	req.True(ok)
	req.Equal("user123", p)

	_, ok = Partner(cid, "user002")
	req.False(ok)
	req.False(Participates(cid, ""))
}
