package storage

import (
	"context"
	"sync"
	"time"

	"github.com/theshul/ayaka-bot/internal/models"
)

type scopeRef struct {
	kind models.ScopeKind
	key  int64
}

// MemoryStorage is an in-process Storage for local runs and tests.
type MemoryStorage struct {
	mu       sync.RWMutex
	turns    map[scopeRef][]models.ConversationTurn
	users    map[int64]*models.UserProfile
	progress map[int64]*models.Progress
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		turns:    make(map[scopeRef][]models.ConversationTurn),
		users:    make(map[int64]*models.UserProfile),
		progress: make(map[int64]*models.Progress),
	}
}

func (s *MemoryStorage) AppendTurn(ctx context.Context, kind models.ScopeKind, key int64, turn *models.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := scopeRef{kind: kind, key: key}
	stored := *turn
	stored.ScopeKind = kind
	stored.ScopeKey = key
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.turns[ref] = append(s.turns[ref], stored)
	return nil
}

func (s *MemoryStorage) RecentTurns(ctx context.Context, kind models.ScopeKind, key int64, limit int) ([]models.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.turns[scopeRef{kind: kind, key: key}]
	if len(seq) == 0 || limit <= 0 {
		return []models.ConversationTurn{}, nil
	}
	if limit > len(seq) {
		limit = len(seq)
	}
	out := make([]models.ConversationTurn, limit)
	copy(out, seq[len(seq)-limit:])
	return out, nil
}

func (s *MemoryStorage) ResetUserMemory(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.turns, scopeRef{kind: models.ScopeDirect, key: userID})
	return nil
}

func (s *MemoryStorage) UpsertUser(ctx context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *profile
	if existing, ok := s.users[profile.UserID]; ok {
		stored.RegisteredAt = existing.RegisteredAt
	} else if stored.RegisteredAt.IsZero() {
		stored.RegisteredAt = time.Now()
	}
	s.users[profile.UserID] = &stored
	return nil
}

func (s *MemoryStorage) GetUser(ctx context.Context, userID int64) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, ok := s.users[userID]; ok {
		copied := *user
		return &copied, nil
	}
	return &models.UserProfile{
		UserID:      userID,
		DisplayName: UnknownDisplayName,
	}, nil
}

func (s *MemoryStorage) GetProgress(ctx context.Context, userID int64) (*models.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.progress[userID]; ok {
		copied := *p
		copied.CompletedModules = append([]string(nil), p.CompletedModules...)
		copied.StartedModules = append([]string(nil), p.StartedModules...)
		copied.RecentTopics = append([]string(nil), p.RecentTopics...)
		return &copied, nil
	}
	return &models.Progress{UserID: userID}, nil
}

func (s *MemoryStorage) SaveProgress(ctx context.Context, progress *models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *progress
	s.progress[progress.UserID] = &copied
	return nil
}

func (s *MemoryStorage) ResetProgress(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.progress, userID)
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
