package storage

import (
	"context"

	"github.com/theshul/ayaka-bot/internal/models"
)

// Storage is the durable backing for conversational memory, the user
// directory and learning progress. Reads on absent keys are not errors:
// RecentTurns degrades to an empty window and GetUser synthesizes a
// placeholder profile, so callers always have something usable.
type Storage interface {
	// AppendTurn appends a turn to the (kind, key) scope, creating the
	// scope if absent. Turns are append-only.
	AppendTurn(ctx context.Context, kind models.ScopeKind, key int64, turn *models.ConversationTurn) error
	// RecentTurns returns the last limit turns of a scope in insertion
	// order (oldest first within the window). Absent scope or a
	// non-positive limit yields an empty slice, never an error.
	RecentTurns(ctx context.Context, kind models.ScopeKind, key int64, limit int) ([]models.ConversationTurn, error)
	// ResetUserMemory clears a user's direct-scope history.
	ResetUserMemory(ctx context.Context, userID int64) error

	// UpsertUser registers or refreshes a profile. Repeated registration
	// updates display name and home chat, never duplicates.
	UpsertUser(ctx context.Context, profile *models.UserProfile) error
	// GetUser returns the stored profile, or a synthesized default with
	// DisplayName "Unknown" when the user never registered.
	GetUser(ctx context.Context, userID int64) (*models.UserProfile, error)

	GetProgress(ctx context.Context, userID int64) (*models.Progress, error)
	SaveProgress(ctx context.Context, progress *models.Progress) error
	ResetProgress(ctx context.Context, userID int64) error

	Close() error
}

// UnknownDisplayName is the placeholder for users that never registered
// or registered without any usable name.
const UnknownDisplayName = "Unknown"
