package config

import (
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	ListenAddr string

	DatabaseURL string
	RedisURL    string

	SocialBaseURL string

	LeaderboardLimit int
	HistoryPageLimit int
	BotSeed          int64

	MsgOverrideDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:       ":8090",
		LeaderboardLimit: 50,
		HistoryPageLimit: 20,
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}

	// Empty DATABASE_URL selects the in-memory repository; empty REDIS_URL
	// disables caching. Both are set in real deployments.
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.SocialBaseURL = strings.TrimSpace(os.Getenv("SOCIAL_BASE_URL"))
	cfg.MsgOverrideDir = strings.TrimSpace(os.Getenv("MSG_OVERRIDE_DIR"))

	if v := strings.TrimSpace(os.Getenv("LEADERBOARD_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LeaderboardLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("HISTORY_PAGE_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryPageLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("BOT_SEED")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.BotSeed = n
		}
	}

	return cfg, nil
}
