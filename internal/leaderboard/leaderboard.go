// Package leaderboard projects ranked standings from the stats ledger.
// Rank and win percentage are derived at read time and never stored.
package leaderboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/friendschat/games/internal/domain"
	"github.com/friendschat/games/internal/service/cache"
)

const (
	DefaultLimit = 50
	cacheTTL     = 30 * time.Second
)

// Entry is one ranked leaderboard line. Ranks are dense positions in the
// sorted order, starting at 1; ties share points but not rank.
type Entry struct {
	UserID        int64   `json:"id"`
	Username      string  `json:"username"`
	Avatar        string  `json:"avatar"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	TotalGames    int     `json:"total_games"`
	TotalPoints   int     `json:"total_points"`
	Rating        int     `json:"rating"`
	HighestRating int     `json:"highest_rating"`
	Rank          int     `json:"rank"`
	WinPercentage float64 `json:"win_percentage"`
}

// Source reads the stored standings in ranked order. Unknown filters fall
// back to the overall board.
type Source interface {
	Leaderboard(ctx context.Context, filter domain.GameType, limit int) ([]*domain.LeaderboardRow, error)
}

type Projector struct {
	source   Source
	cache    *cache.CacheService
	maxLimit int
	logger   *zap.Logger
}

// NewProjector builds a projector capping page sizes at maxLimit; zero or
// negative means DefaultLimit.
func NewProjector(source Source, cacheSvc *cache.CacheService, maxLimit int, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLimit <= 0 {
		maxLimit = DefaultLimit
	}
	return &Projector{source: source, cache: cacheSvc, maxLimit: maxLimit, logger: logger}
}

func cacheKey(filter domain.GameType, limit int) string {
	name := string(filter)
	if name == "" {
		name = "overall"
	}
	return fmt.Sprintf("games:leaderboard:%s:%d", name, limit)
}

// Top returns the ranked board for the given filter. filter may be a game
// type name or empty for the overall board; anything unrecognized also
// means overall.
func (p *Projector) Top(ctx context.Context, filter string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > p.maxLimit {
		limit = p.maxLimit
	}
	gameType, ok := domain.ParseGameType(filter)
	if !ok {
		gameType = ""
	}

	key := cacheKey(gameType, limit)
	var cached []Entry
	if err := p.cache.Get(ctx, key, &cached); err != nil {
		p.logger.Warn("leaderboard cache read failed", zap.Error(err))
	} else if len(cached) > 0 {
		return cached, nil
	}

	rows, err := p.source.Leaderboard(ctx, gameType, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, Entry{
			UserID:        row.UserID,
			Username:      row.Username,
			Avatar:        row.Avatar,
			Wins:          row.Wins,
			Losses:        row.Losses,
			Draws:         row.Draws,
			TotalGames:    row.TotalGames,
			TotalPoints:   row.TotalPoints,
			Rating:        row.Rating,
			HighestRating: row.HighestRating,
			Rank:          i + 1,
			WinPercentage: winPercentage(row.Wins, row.TotalGames),
		})
	}

	if err := p.cache.Set(ctx, key, entries, cacheTTL); err != nil {
		p.logger.Warn("leaderboard cache write failed", zap.Error(err))
	}
	return entries, nil
}

func winPercentage(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	pct := float64(wins) * 100.0 / float64(total)
	return float64(int(pct*100+0.5)) / 100
}
