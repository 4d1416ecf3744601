package progress

import (
	"context"
	"testing"
	"time"

	"github.com/theshul/ayaka-bot/internal/storage"
	"go.uber.org/zap"
)

func newTestTracker() (*Tracker, *storage.MemoryStorage) {
	store := storage.NewMemoryStorage()
	tr := NewTracker(store, zap.NewNop())
	return tr, store
}

func TestTouchExtractsTopicsAndCountsDays(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker()

	day := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return day }

	tr.Touch(ctx, 1, "tell me about bitcoin staking")
	p, err := tr.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.DaysActive != 1 {
		t.Errorf("DaysActive = %d, want 1", p.DaysActive)
	}
	if len(p.RecentTopics) != 2 {
		t.Fatalf("RecentTopics = %v, want bitcoin and staking", p.RecentTopics)
	}

	// Same day: no extra active day.
	tr.Touch(ctx, 1, "more about bitcoin")
	p, _ = tr.Get(ctx, 1)
	if p.DaysActive != 1 {
		t.Errorf("DaysActive after same-day touch = %d, want 1", p.DaysActive)
	}

	// Next day bumps the counter.
	tr.now = func() time.Time { return day.Add(24 * time.Hour) }
	tr.Touch(ctx, 1, "hello again")
	p, _ = tr.Get(ctx, 1)
	if p.DaysActive != 2 {
		t.Errorf("DaysActive after next-day touch = %d, want 2", p.DaysActive)
	}
}

func TestCompleteModuleIsIdempotent(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker()

	if err := tr.CompleteModule(ctx, 1, "crypto_basics"); err != nil {
		t.Fatalf("CompleteModule failed: %v", err)
	}
	if err := tr.CompleteModule(ctx, 1, "crypto_basics"); err != nil {
		t.Fatalf("CompleteModule failed: %v", err)
	}

	p, _ := tr.Get(ctx, 1)
	if len(p.CompletedModules) != 1 {
		t.Fatalf("CompletedModules = %v, want a single entry", p.CompletedModules)
	}
}

func TestResetClearsProgress(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker()

	if err := tr.RecordQuiz(ctx, 1); err != nil {
		t.Fatalf("RecordQuiz failed: %v", err)
	}
	if err := tr.Reset(ctx, 1); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	p, _ := tr.Get(ctx, 1)
	if p.QuizzesTaken != 0 {
		t.Errorf("QuizzesTaken after reset = %d, want 0", p.QuizzesTaken)
	}
}
