package main

import (
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/theshul/ayaka-bot/internal/bot"
	"github.com/theshul/ayaka-bot/internal/content"
	"github.com/theshul/ayaka-bot/internal/engagement"
	"github.com/theshul/ayaka-bot/internal/generation"
	"github.com/theshul/ayaka-bot/internal/market"
	"github.com/theshul/ayaka-bot/internal/metrics"
	"github.com/theshul/ayaka-bot/internal/penalty"
	"github.com/theshul/ayaka-bot/internal/pipeline"
	"github.com/theshul/ayaka-bot/internal/progress"
	"github.com/theshul/ayaka-bot/internal/prompt"
	"github.com/theshul/ayaka-bot/internal/storage"
	"github.com/theshul/ayaka-bot/internal/video"
	"github.com/theshul/ayaka-bot/pkg/config"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage",
			zap.String("host", cfg.Database.Host),
			zap.String("dbname", cfg.Database.DBName))
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			logger.Fatal("Failed to create storage", zap.Error(err))
		}
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	if cfg.Metrics.ListenAddr != "" {
		go metrics.Serve(cfg.Metrics.ListenAddr, registry, logger)
	}

	system := cfg.Persona.SystemInstruction
	if system == "" {
		system = prompt.DefaultSystemInstruction
	}
	roster := make([]prompt.RosterEntry, 0, len(cfg.Persona.Roster))
	for _, entry := range cfg.Persona.Roster {
		roster = append(roster, prompt.RosterEntry{Name: entry.Name, Handle: entry.Handle})
	}

	generator := generation.NewOpenAIGenerator(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.Temperature,
		logger,
	)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	policy := engagement.NewPolicy(
		cfg.Engagement.BotName,
		cfg.Engagement.TopicalKeywords,
		cfg.Engagement.ProactiveProbability,
	).WithRand(rng.Float64)

	tracker := progress.NewTracker(store, logger)

	penalties, err := penalty.NewManager(
		cfg.Penalty.File,
		cfg.Penalty.LeaderUsername,
		cfg.Penalty.AdminEmail,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to load penalty ledger", zap.Error(err))
	}

	extractor := video.NewExtractor(cfg.Video.DownloadDir, cfg.Video.MaxSizeMB, logger)

	b, err := bot.New(cfg.Telegram.Token, bot.Deps{
		Storage:   store,
		Tracker:   tracker,
		Penalties: penalties,
		Extractor: extractor,
		Prices:    market.NewPriceClient(),
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	b.AttachPipeline(pipeline.New(
		store,
		policy,
		generator,
		b.Dispatcher(),
		tracker,
		m,
		pipeline.Options{
			BotName:          cfg.Engagement.BotName,
			System:           system,
			Roster:           roster,
			GroupWindow:      cfg.Engagement.GroupWindow,
			DirectWindow:     cfg.Engagement.DirectWindow,
			DirectSupplement: cfg.Engagement.DirectSupplement,
			TotalModules:     len(content.Modules),
		},
		logger,
	))

	logger.Info("Starting bot", zap.String("name", cfg.Engagement.BotName))
	if err := b.Start(); err != nil {
		logger.Fatal("Bot stopped", zap.Error(err))
	}
}
