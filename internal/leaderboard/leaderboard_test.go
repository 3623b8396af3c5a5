package leaderboard

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/friendschat/games/internal/domain"
	"github.com/friendschat/games/internal/service/cache"
)

type fakeSource struct {
	rows      map[domain.GameType][]*domain.LeaderboardRow
	calls     int
	lastLimit int
}

func (f *fakeSource) Leaderboard(_ context.Context, filter domain.GameType, limit int) ([]*domain.LeaderboardRow, error) {
	f.calls++
	f.lastLimit = limit
	return f.rows[filter], nil
}

func seedRows() map[domain.GameType][]*domain.LeaderboardRow {
	overall := []*domain.LeaderboardRow{
		{UserID: 1, Username: "alice", Wins: 3, Losses: 1, TotalGames: 4, TotalPoints: 75, Rating: 1245},
		{UserID: 2, Username: "bob", Wins: 2, TotalGames: 2, TotalPoints: 60, Rating: 1230},
		{UserID: 3, Username: "carol", Wins: 1, Losses: 2, TotalGames: 3, TotalPoints: 25, Rating: 1205},
	}
	chessOnly := []*domain.LeaderboardRow{
		{UserID: 1, Username: "alice", Wins: 3, Losses: 1, TotalGames: 4, TotalPoints: 75, Rating: 1245},
	}
	return map[domain.GameType][]*domain.LeaderboardRow{
		"":               overall,
		domain.TypeChess: chessOnly,
	}
}

func newTestProjector(t *testing.T) (*Projector, *fakeSource) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	c, err := cache.New(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	src := &fakeSource{rows: seedRows()}
	return NewProjector(src, c, 0, zap.NewNop()), src
}

func TestTopRanksAndPercentages(t *testing.T) {
	p, _ := newTestProjector(t)

	entries, err := p.Top(context.Background(), "", 50)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d", len(entries))
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Fatalf("entry %d has rank %d", i, e.Rank)
		}
	}
	if entries[0].WinPercentage != 75.0 {
		t.Fatalf("alice win pct = %v", entries[0].WinPercentage)
	}
	if entries[1].WinPercentage != 100.0 {
		t.Fatalf("bob win pct = %v", entries[1].WinPercentage)
	}
	if entries[2].WinPercentage != 33.33 {
		t.Fatalf("carol win pct = %v", entries[2].WinPercentage)
	}
}

func TestTopCachesResults(t *testing.T) {
	p, src := newTestProjector(t)
	ctx := context.Background()

	if _, err := p.Top(ctx, "", 50); err != nil {
		t.Fatalf("Top: %v", err)
	}
	if _, err := p.Top(ctx, "", 50); err != nil {
		t.Fatalf("Top cached: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("source called %d times, want 1", src.calls)
	}

	// Distinct filters have distinct cache keys.
	if _, err := p.Top(ctx, "chess", 50); err != nil {
		t.Fatalf("Top chess: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("source called %d times, want 2", src.calls)
	}
}

func TestTopUnknownFilterFallsBackToOverall(t *testing.T) {
	p, _ := newTestProjector(t)

	entries, err := p.Top(context.Background(), "checkers", 50)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("unknown filter should serve the overall board, got %d rows", len(entries))
	}
}

func TestTopClampsLimit(t *testing.T) {
	p, src := newTestProjector(t)

	if _, err := p.Top(context.Background(), "", 5000); err != nil {
		t.Fatalf("Top: %v", err)
	}
	if src.lastLimit != DefaultLimit {
		t.Fatalf("limit passed to source = %d, want %d", src.lastLimit, DefaultLimit)
	}
}

func TestTopHonorsConfiguredLimit(t *testing.T) {
	src := &fakeSource{rows: seedRows()}
	p := NewProjector(src, nil, 10, zap.NewNop())

	if _, err := p.Top(context.Background(), "", 5000); err != nil {
		t.Fatalf("Top: %v", err)
	}
	if src.lastLimit != 10 {
		t.Fatalf("limit passed to source = %d, want 10", src.lastLimit)
	}
	if _, err := p.Top(context.Background(), "", 4); err != nil {
		t.Fatalf("Top in range: %v", err)
	}
	if src.lastLimit != 4 {
		t.Fatalf("in-range limit passed to source = %d, want 4", src.lastLimit)
	}
}
