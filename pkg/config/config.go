package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Database   DatabaseConfig   `mapstructure:"database"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Engagement EngagementConfig `mapstructure:"engagement"`
	Persona    PersonaConfig    `mapstructure:"persona"`
	Penalty    PenaltyConfig    `mapstructure:"penalty"`
	Video      VideoConfig      `mapstructure:"video"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// EngagementConfig tunes when the bot speaks up in group chats.
type EngagementConfig struct {
	BotName              string   `mapstructure:"bot_name"`
	ProactiveProbability float64  `mapstructure:"proactive_probability"`
	TopicalKeywords      []string `mapstructure:"topical_keywords"`
	GroupWindow          int      `mapstructure:"group_window"`
	DirectWindow         int      `mapstructure:"direct_window"`
	DirectSupplement     int      `mapstructure:"direct_supplement"`
}

// PersonaConfig carries the prompt text and the group roster. Persona
// content is configuration, not code: persona revisions are reconciled by
// editing the config file, not the binary.
type PersonaConfig struct {
	SystemInstruction string        `mapstructure:"system_instruction"`
	Roster            []RosterEntry `mapstructure:"roster"`
}

type RosterEntry struct {
	Name   string `mapstructure:"name"`
	Handle string `mapstructure:"handle"`
}

type PenaltyConfig struct {
	File           string `mapstructure:"file"`
	LeaderUsername string `mapstructure:"leader_username"`
	AdminEmail     string `mapstructure:"admin_email"`
}

type VideoConfig struct {
	DownloadDir string `mapstructure:"download_dir"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
}

type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_in_memory", false)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("engagement.bot_name", "Ayaka")
	v.SetDefault("engagement.proactive_probability", 0.15)
	v.SetDefault("engagement.topical_keywords", []string{
		"market", "strategy", "loss", "profit", "trade", "trading",
		"crypto", "bitcoin", "stocks", "invest", "portfolio",
	})
	v.SetDefault("engagement.group_window", 5)
	v.SetDefault("engagement.direct_window", 5)
	v.SetDefault("engagement.direct_supplement", 3)
	v.SetDefault("penalty.file", "data/penalties.json")
	v.SetDefault("penalty.leader_username", "Er_Stranger")
	v.SetDefault("video.download_dir", "videos")
	v.SetDefault("video.max_size_mb", 50)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Database = dbConfig
	}

	// Get other environment variables
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	return &config, nil
}
