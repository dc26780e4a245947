package models

import "time"

// Message is a single message within a conversation.
type Message struct {
	ID             int64     `db:"id" json:"id"`
	ConversationID int64     `db:"conversation_id" json:"conversation_id"`
	SenderID       int64     `db:"sender_id" json:"sender_id"`
	Body           string    `db:"body" json:"msg"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
