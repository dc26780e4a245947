package models

import "time"

// Conversation kinds, derived from the participant count at creation.
const (
	ConversationKindDirect = "direct"
	ConversationKindGroup  = "group"
)

// Participant roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Conversation groups messages between a fixed set of participants.
// Membership is established at creation and does not change.
type Conversation struct {
	ID             int64     `db:"id" json:"id"`
	Kind           string    `db:"kind" json:"kind"`
	Title          string    `db:"title" json:"title"`
	LastActivityAt time.Time `db:"last_activity_at" json:"last_activity_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ConversationSummary is the listing view, ordered by last activity.
type ConversationSummary struct {
	ID    int64  `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
}

// Participant relates a user to a conversation. The existence of this row is
// the sole authorization predicate for conversation-scoped operations.
type Participant struct {
	ConversationID int64  `db:"conversation_id" json:"conversation_id"`
	UserID         int64  `db:"user_id" json:"user_id"`
	Role           string `db:"role" json:"role"`
}
