package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/theshul/ayaka-bot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) AppendTurn(ctx context.Context, kind models.ScopeKind, key int64, turn *models.ConversationTurn) error {
	createdAt := turn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO turns (id, scope_kind, scope_key, user_id, speaker, message, reply, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		turn.ID, string(kind), key, turn.UserID, turn.Speaker, turn.Message, turn.Reply, createdAt)
	if err != nil {
		return fmt.Errorf("error appending turn: %w", err)
	}
	return nil
}

func (s *PostgresStorage) RecentTurns(ctx context.Context, kind models.ScopeKind, key int64, limit int) ([]models.ConversationTurn, error) {
	if limit <= 0 {
		return []models.ConversationTurn{}, nil
	}

	query := `
		SELECT id, scope_kind, scope_key, user_id, speaker, message, reply, created_at
		FROM turns
		WHERE scope_kind = $1 AND scope_key = $2
		ORDER BY seq DESC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, string(kind), key, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying turns: %w", err)
	}
	defer rows.Close()

	var turns []models.ConversationTurn
	for rows.Next() {
		var t models.ConversationTurn
		var k string
		if err := rows.Scan(&t.ID, &k, &t.ScopeKey, &t.UserID, &t.Speaker, &t.Message, &t.Reply, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning turn: %w", err)
		}
		t.ScopeKind = models.ScopeKind(k)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating turns: %w", err)
	}

	// Rows arrive newest-first; callers expect insertion order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *PostgresStorage) ResetUserMemory(ctx context.Context, userID int64) error {
	query := `DELETE FROM turns WHERE scope_kind = $1 AND scope_key = $2`
	if _, err := s.db.ExecContext(ctx, query, string(models.ScopeDirect), userID); err != nil {
		return fmt.Errorf("error resetting user memory: %w", err)
	}
	return nil
}

func (s *PostgresStorage) UpsertUser(ctx context.Context, profile *models.UserProfile) error {
	registeredAt := profile.RegisteredAt
	if registeredAt.IsZero() {
		registeredAt = time.Now()
	}

	query := `
		INSERT INTO users (user_id, username, display_name, chat_id, registered_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    display_name = EXCLUDED.display_name,
		    chat_id = EXCLUDED.chat_id`

	_, err := s.db.ExecContext(ctx, query,
		profile.UserID, profile.Username, profile.DisplayName, profile.ChatID, registeredAt)
	if err != nil {
		return fmt.Errorf("error upserting user: %w", err)
	}
	return nil
}

func (s *PostgresStorage) GetUser(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT user_id, username, display_name, chat_id, registered_at
		FROM users
		WHERE user_id = $1`

	var p models.UserProfile
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.Username, &p.DisplayName, &p.ChatID, &p.RegisteredAt)
	if err == sql.ErrNoRows {
		return &models.UserProfile{
			UserID:      userID,
			DisplayName: UnknownDisplayName,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user: %w", err)
	}
	return &p, nil
}

func (s *PostgresStorage) GetProgress(ctx context.Context, userID int64) (*models.Progress, error) {
	query := `
		SELECT user_id, completed_modules, started_modules, recent_topics,
		       quizzes_taken, days_active, last_active_at
		FROM progress
		WHERE user_id = $1`

	var p models.Progress
	var lastActive sql.NullTime
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		pq.Array(&p.CompletedModules),
		pq.Array(&p.StartedModules),
		pq.Array(&p.RecentTopics),
		&p.QuizzesTaken,
		&p.DaysActive,
		&lastActive,
	)
	if err == sql.ErrNoRows {
		return &models.Progress{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying progress: %w", err)
	}
	if lastActive.Valid {
		p.LastActiveAt = lastActive.Time
	}
	return &p, nil
}

func (s *PostgresStorage) SaveProgress(ctx context.Context, progress *models.Progress) error {
	query := `
		INSERT INTO progress (user_id, completed_modules, started_modules, recent_topics,
		                      quizzes_taken, days_active, last_active_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET completed_modules = EXCLUDED.completed_modules,
		    started_modules = EXCLUDED.started_modules,
		    recent_topics = EXCLUDED.recent_topics,
		    quizzes_taken = EXCLUDED.quizzes_taken,
		    days_active = EXCLUDED.days_active,
		    last_active_at = EXCLUDED.last_active_at`

	var lastActive sql.NullTime
	if !progress.LastActiveAt.IsZero() {
		lastActive = sql.NullTime{Time: progress.LastActiveAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		progress.UserID,
		pq.Array(progress.CompletedModules),
		pq.Array(progress.StartedModules),
		pq.Array(progress.RecentTopics),
		progress.QuizzesTaken,
		progress.DaysActive,
		lastActive,
	)
	if err != nil {
		return fmt.Errorf("error saving progress: %w", err)
	}
	return nil
}

func (s *PostgresStorage) ResetProgress(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM progress WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("error resetting progress: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
