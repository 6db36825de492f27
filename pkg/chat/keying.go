package chat

import "strings"

const (
	// AssistantID is the participant id of the automated assistant.
	AssistantID = "ai_assistant"

	// Separator joins the two sorted participant ids of a conversation.
	Separator = "-"
)

// ConversationID maps an unordered pair of participant ids to one stable key:
// the ids are sorted lexicographically and joined with Separator.
//
// Ids that contain Separator can collide ("a-b"+"c" and "a"+"b-c" both give
// "a-b-c"). No escaping is applied; use ValidParticipantID before handing out
// new ids.
func ConversationID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + Separator + b
}

// ValidParticipantID reports whether id can be keyed without ambiguity.
func ValidParticipantID(id string) bool {
	return strings.TrimSpace(id) != "" && !strings.Contains(id, Separator)
}

// Partner returns the participant that shares conversationID with viewer.
func Partner(conversationID, viewer string) (string, bool) {
	if viewer == "" {
		return "", false
	}
	if rest, ok := strings.CutPrefix(conversationID, viewer+Separator); ok && rest != "" {
		if ConversationID(viewer, rest) == conversationID {
			return rest, true
		}
	}
	if rest, ok := strings.CutSuffix(conversationID, Separator+viewer); ok && rest != "" {
		if ConversationID(viewer, rest) == conversationID {
			return rest, true
		}
	}
	return "", false
}

// Participates reports whether viewer is one of the two participants of conversationID.
func Participates(conversationID, viewer string) bool {
	_, ok := Partner(conversationID, viewer)
	return ok
}
