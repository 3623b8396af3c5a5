package games

import (
	"context"
	"errors"

	"github.com/friendschat/games/internal/domain"
	"github.com/friendschat/games/internal/rating"
)

// ErrStaleGame is returned by Commit when the game row changed underneath
// the caller. The caller reloads and retries or surfaces a conflict.
var ErrStaleGame = errors.New("game version is stale")

// StatsChange is the ledger increment a finishing game charges to a user.
// Repositories fold the delta into the stored row inside the commit
// transaction, so finishes of different games for the same user serialize
// on the row instead of overwriting each other.
type StatsChange struct {
	UserID int64
	Delta  rating.Delta
}

// MoveCommit bundles everything a single move transaction writes. Move is
// nil for resigns, Stats is nil unless the move finished the game.
type MoveCommit struct {
	Game  *domain.Game
	Move  *domain.MoveRecord
	Stats *StatsChange
}

type Repository interface {
	CreateGame(ctx context.Context, game *domain.Game) error
	// GetOwnedPlaying returns nil, nil when no playing game with that id
	// belongs to ownerID. Missing, foreign and already-finished games are
	// indistinguishable to the caller.
	GetOwnedPlaying(ctx context.Context, id int64, ownerID int64) (*domain.Game, error)
	GetOwned(ctx context.Context, id int64, ownerID int64) (*domain.Game, error)
	// Commit applies the bundled writes in one transaction and returns the
	// id of the inserted move record, or 0 when commit.Move is nil.
	Commit(ctx context.Context, commit *MoveCommit) (int64, error)
	GetStats(ctx context.Context, userID int64) (*domain.Stats, error)
	EnsureStats(ctx context.Context, userID int64) (*domain.Stats, error)
	ListActive(ctx context.Context, userID int64, limit int) ([]*domain.Game, error)
	ListFinished(ctx context.Context, userID int64, gameType domain.GameType, limit, offset int) ([]*domain.Game, error)
	ListMoves(ctx context.Context, gameID int64) ([]*domain.MoveRecord, error)
	Leaderboard(ctx context.Context, filter domain.GameType, limit int) ([]*domain.LeaderboardRow, error)
}
