package types

import "github.com/google/uuid"

// ConversationID identifies one voice session from start to stop. It exists
// for logs and the observation API; the daemon holds one session at a time.
type ConversationID string

func NewConversationID() ConversationID {
	return ConversationID(uuid.New().String())
}
