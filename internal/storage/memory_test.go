package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/theshul/ayaka-bot/internal/models"
)

func TestRecentTurnsReturnsBoundedWindowInOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	for i := 0; i < 10; i++ {
		err := s.AppendTurn(ctx, models.ScopeGroup, 42, &models.ConversationTurn{
			UserID:  7,
			Speaker: "Neel",
			Message: fmt.Sprintf("message %d", i),
		})
		if err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}
	}

	turns, err := s.RecentTurns(ctx, models.ScopeGroup, 42, 3)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	for i, want := range []string{"message 7", "message 8", "message 9"} {
		if turns[i].Message != want {
			t.Errorf("turn %d: got %q, want %q", i, turns[i].Message, want)
		}
	}
}

func TestRecentTurnsAbsentScopeIsEmpty(t *testing.T) {
	s := NewMemoryStorage()

	turns, err := s.RecentTurns(context.Background(), models.ScopeDirect, 99, 5)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty window, got %d turns", len(turns))
	}
}

func TestRecentTurnsLimitLargerThanSequence(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	for i := 0; i < 2; i++ {
		if err := s.AppendTurn(ctx, models.ScopeDirect, 1, &models.ConversationTurn{Message: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}
	}

	turns, err := s.RecentTurns(ctx, models.ScopeDirect, 1, 10)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
}

func TestRecentTurnsNonPositiveLimitIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	if err := s.AppendTurn(ctx, models.ScopeGroup, 1, &models.ConversationTurn{Message: "m"}); err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}

	for _, limit := range []int{0, -1} {
		turns, err := s.RecentTurns(ctx, models.ScopeGroup, 1, limit)
		if err != nil {
			t.Fatalf("RecentTurns(limit=%d) failed: %v", limit, err)
		}
		if len(turns) != 0 {
			t.Errorf("RecentTurns(limit=%d) returned %d turns, want 0", limit, len(turns))
		}
	}
}

func TestScopesAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	if err := s.AppendTurn(ctx, models.ScopeDirect, 1, &models.ConversationTurn{Message: "private"}); err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}
	if err := s.AppendTurn(ctx, models.ScopeGroup, 1, &models.ConversationTurn{Message: "shared"}); err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}

	direct, _ := s.RecentTurns(ctx, models.ScopeDirect, 1, 10)
	group, _ := s.RecentTurns(ctx, models.ScopeGroup, 1, 10)

	if len(direct) != 1 || direct[0].Message != "private" {
		t.Errorf("direct scope polluted: %+v", direct)
	}
	if len(group) != 1 || group[0].Message != "shared" {
		t.Errorf("group scope polluted: %+v", group)
	}
}

func TestResetUserMemoryClearsOnlyDirectScope(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	if err := s.AppendTurn(ctx, models.ScopeDirect, 1, &models.ConversationTurn{Message: "private"}); err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}
	if err := s.AppendTurn(ctx, models.ScopeGroup, 1, &models.ConversationTurn{Message: "shared"}); err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}

	if err := s.ResetUserMemory(ctx, 1); err != nil {
		t.Fatalf("ResetUserMemory failed: %v", err)
	}

	direct, _ := s.RecentTurns(ctx, models.ScopeDirect, 1, 10)
	group, _ := s.RecentTurns(ctx, models.ScopeGroup, 1, 10)

	if len(direct) != 0 {
		t.Errorf("expected empty direct scope after reset, got %d", len(direct))
	}
	if len(group) != 1 {
		t.Errorf("group scope should survive a user reset, got %d turns", len(group))
	}
}

func TestGetUserSynthesizesDefaultProfile(t *testing.T) {
	s := NewMemoryStorage()

	profile, err := s.GetUser(context.Background(), 123)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if profile.DisplayName != UnknownDisplayName {
		t.Errorf("got display name %q, want %q", profile.DisplayName, UnknownDisplayName)
	}
	if profile.UserID != 123 {
		t.Errorf("got user id %d, want 123", profile.UserID)
	}
}

func TestUpsertUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	if err := s.UpsertUser(ctx, &models.UserProfile{UserID: 5, DisplayName: "Neel", ChatID: 10}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	first, _ := s.GetUser(ctx, 5)

	if err := s.UpsertUser(ctx, &models.UserProfile{UserID: 5, DisplayName: "Neel K", ChatID: 20}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	second, _ := s.GetUser(ctx, 5)

	if second.DisplayName != "Neel K" || second.ChatID != 20 {
		t.Errorf("re-registration did not update profile: %+v", second)
	}
	if !second.RegisteredAt.Equal(first.RegisteredAt) {
		t.Errorf("re-registration must not move the registration time")
	}
}

func TestConcurrentAppendsDoNotDropTurns(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = s.AppendTurn(ctx, models.ScopeGroup, 1, &models.ConversationTurn{Message: fmt.Sprintf("m%d", n)})
		}(i)
	}
	wg.Wait()

	turns, err := s.RecentTurns(ctx, models.ScopeGroup, 1, 100)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 50 {
		t.Fatalf("expected 50 turns after concurrent appends, got %d", len(turns))
	}
}
