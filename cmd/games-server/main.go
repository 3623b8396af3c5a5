package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/friendschat/games/internal/config"
	"github.com/friendschat/games/internal/leaderboard"
	"github.com/friendschat/games/internal/msgcat"
	"github.com/friendschat/games/internal/notify"
	"github.com/friendschat/games/internal/obslog"
	"github.com/friendschat/games/internal/server"
	"github.com/friendschat/games/internal/service/cache"
	"github.com/friendschat/games/internal/service/games"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	var repo games.Repository
	if cfg.DatabaseURL != "" {
		db, err := games.OpenDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database init failed", zap.Error(err))
		}
		defer func() { _ = db.Close() }()
		repo = games.NewPostgresRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repository")
		repo = games.NewMemRepository()
	}

	var cacheSvc *cache.CacheService
	if cfg.RedisURL != "" {
		cacheSvc, err = cache.New(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis init failed", zap.Error(err))
		}
		defer func() { _ = cacheSvc.Close() }()
	} else {
		logger.Warn("REDIS_URL not set, caching disabled")
	}

	notifier := notify.NewClient(cfg.SocialBaseURL, logger)
	if notifier == nil {
		logger.Warn("SOCIAL_BASE_URL not set, notifications disabled")
	}

	messages, err := msgcat.New(cfg.MsgOverrideDir)
	if err != nil {
		logger.Fatal("message catalog init failed", zap.Error(err))
	}

	svc := games.NewService(repo, cacheSvc, notifier, games.Config{
		HistoryLimit: cfg.HistoryPageLimit,
		BotSeed:      cfg.BotSeed,
	}, logger)
	boards := leaderboard.NewProjector(repo, cacheSvc, cfg.LeaderboardLimit, logger)

	srv := server.New(svc, boards, messages, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(cfg.ListenAddr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
