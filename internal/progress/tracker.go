// Package progress tracks per-user learning state on top of Storage.
package progress

import (
	"context"
	"strings"
	"time"

	"github.com/theshul/ayaka-bot/internal/models"
	"github.com/theshul/ayaka-bot/internal/storage"
	"go.uber.org/zap"
)

const maxRecentTopics = 10

// topicMarkers are the terms worth remembering as "recent topics" when
// they show up in free-form chat.
var topicMarkers = []string{
	"bitcoin", "ethereum", "crypto", "blockchain", "defi", "nft",
	"stocks", "trading", "dividend", "portfolio", "etf", "candlestick",
	"staking", "wallet", "exchange", "futures", "options",
}

type Tracker struct {
	store  storage.Storage
	logger *zap.Logger
	now    func() time.Time
}

func NewTracker(store storage.Storage, logger *zap.Logger) *Tracker {
	return &Tracker{store: store, logger: logger, now: time.Now}
}

func (t *Tracker) Get(ctx context.Context, userID int64) (*models.Progress, error) {
	return t.store.GetProgress(ctx, userID)
}

// Touch records activity for a free-form message: bumps the active-day
// counter on a new day and extracts recognizable topics. Best effort; a
// storage failure is logged and swallowed.
func (t *Tracker) Touch(ctx context.Context, userID int64, messageText string) {
	p, err := t.store.GetProgress(ctx, userID)
	if err != nil {
		t.logger.Error("Failed to load progress", zap.Error(err), zap.Int64("user_id", userID))
		return
	}

	now := t.now()
	if p.LastActiveAt.IsZero() || !sameDay(p.LastActiveAt, now) {
		p.DaysActive++
	}
	p.LastActiveAt = now

	lower := strings.ToLower(messageText)
	for _, topic := range topicMarkers {
		if strings.Contains(lower, topic) {
			p.RecentTopics = appendTopic(p.RecentTopics, topic)
		}
	}

	if err := t.store.SaveProgress(ctx, p); err != nil {
		t.logger.Error("Failed to save progress", zap.Error(err), zap.Int64("user_id", userID))
	}
}

func (t *Tracker) StartModule(ctx context.Context, userID int64, moduleID string) error {
	p, err := t.store.GetProgress(ctx, userID)
	if err != nil {
		return err
	}
	if !contains(p.StartedModules, moduleID) {
		p.StartedModules = append(p.StartedModules, moduleID)
	}
	p.LastActiveAt = t.now()
	return t.store.SaveProgress(ctx, p)
}

func (t *Tracker) CompleteModule(ctx context.Context, userID int64, moduleID string) error {
	p, err := t.store.GetProgress(ctx, userID)
	if err != nil {
		return err
	}
	if !contains(p.CompletedModules, moduleID) {
		p.CompletedModules = append(p.CompletedModules, moduleID)
	}
	p.LastActiveAt = t.now()
	return t.store.SaveProgress(ctx, p)
}

func (t *Tracker) RecordQuiz(ctx context.Context, userID int64) error {
	p, err := t.store.GetProgress(ctx, userID)
	if err != nil {
		return err
	}
	p.QuizzesTaken++
	p.LastActiveAt = t.now()
	return t.store.SaveProgress(ctx, p)
}

func (t *Tracker) Reset(ctx context.Context, userID int64) error {
	return t.store.ResetProgress(ctx, userID)
}

func appendTopic(topics []string, topic string) []string {
	// Re-mentioning a topic moves it to the back of the list.
	out := make([]string, 0, len(topics)+1)
	for _, existing := range topics {
		if existing != topic {
			out = append(out, existing)
		}
	}
	out = append(out, topic)
	if len(out) > maxRecentTopics {
		out = out[len(out)-maxRecentTopics:]
	}
	return out
}

func contains(items []string, item string) bool {
	for _, existing := range items {
		if existing == item {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
