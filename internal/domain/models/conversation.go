package models

import (
	"time"
)

// Conversation statuses
const (
	ConversationActive   = "active"
	ConversationArchived = "archived"
)

// Turn roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Conversation is an ordered thread of turns owned by one user.
// TurnCount and LastTurnAt are derived aggregates: they are recomputed by
// the repository whenever a turn is appended or removed, never hand-edited.
type Conversation struct {
	ID         int64      `json:"id" db:"id"`
	UserID     string     `json:"user_id" db:"user_id"`
	Title      string     `json:"title" db:"title"`
	Status     string     `json:"status" db:"status"`
	TurnCount  int        `json:"turn_count" db:"turn_count"`
	LastTurnAt *time.Time `json:"last_turn_at,omitempty" db:"last_turn_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`

	// Populated on single-conversation fetches, never on lists.
	Turns []Turn `json:"turns,omitempty"`
}

// Turn is a single message within a conversation. Content is immutable once
// committed; edits are modeled as the Edited flag plus EditedAt.
// Turns are ordered by creation time, ties broken by id.
type Turn struct {
	ID             int64      `json:"id" db:"id"`
	ConversationID int64      `json:"conversation_id" db:"conversation_id"`
	Role           string     `json:"role" db:"role"`
	Content        string     `json:"content" db:"content"`
	Edited         bool       `json:"edited" db:"edited"`
	EditedAt       *time.Time `json:"edited_at,omitempty" db:"edited_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
