package models

import "time"

// ScopeKind identifies which conversational namespace a turn belongs to:
// one user's private history or one group's shared history.
type ScopeKind string

const (
	ScopeDirect ScopeKind = "direct"
	ScopeGroup  ScopeKind = "group"
)

// ConversationTurn is one exchange unit: an inbound message plus the reply
// it produced, if any. Turns are append-only; once stored they are never
// mutated, only superseded by later turns or erased by an explicit reset.
type ConversationTurn struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	ScopeKind ScopeKind `json:"scope_kind"`
	ScopeKey  int64     `json:"scope_key"`
	Speaker   string    `json:"speaker"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasReply reports whether the turn produced an outbound reply.
// Observation-only turns (the bot overheard but stayed silent) have none.
func (t ConversationTurn) HasReply() bool {
	return t.Reply != ""
}

// UserProfile is one entry per known user. DisplayName is resolved at
// registration time (first name, else username, else "Unknown") and is
// never empty.
type UserProfile struct {
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	ChatID       int64     `json:"chat_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// EngagementDecision is the ephemeral outcome of the engagement policy for
// a single inbound message. It is produced per message and consumed
// immediately by the response pipeline; it is never persisted.
type EngagementDecision int

const (
	// Skip means the message is observed (remembered) but not replied to.
	Skip EngagementDecision = iota
	// EngageDirect means the bot was addressed and replies in-thread.
	EngageDirect
	// EngageProactive means the bot volunteers a freestanding reply.
	EngageProactive
)

func (d EngagementDecision) String() string {
	switch d {
	case EngageDirect:
		return "direct"
	case EngageProactive:
		return "proactive"
	default:
		return "skip"
	}
}
