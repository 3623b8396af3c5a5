package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"LISTEN_ADDR", "DATABASE_URL", "REDIS_URL", "SOCIAL_BASE_URL", "LEADERBOARD_LIMIT", "HISTORY_PAGE_LIMIT", "BOT_SEED"} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8090" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.LeaderboardLimit != 50 || cfg.HistoryPageLimit != 20 {
		t.Fatalf("limits = %d, %d", cfg.LeaderboardLimit, cfg.HistoryPageLimit)
	}
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Fatalf("expected empty backends by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("LEADERBOARD_LIMIT", "10")
	t.Setenv("HISTORY_PAGE_LIMIT", "5")
	t.Setenv("BOT_SEED", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9999" || cfg.LeaderboardLimit != 10 || cfg.HistoryPageLimit != 5 || cfg.BotSeed != 42 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("LEADERBOARD_LIMIT", "not-a-number")
	t.Setenv("HISTORY_PAGE_LIMIT", "-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LeaderboardLimit != 50 || cfg.HistoryPageLimit != 20 {
		t.Fatalf("bad values should keep defaults: %+v", cfg)
	}
}
