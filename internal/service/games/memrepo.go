package games

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/friendschat/games/internal/domain"
)

// MemRepository is an in-memory Repository with the same semantics as the
// Postgres implementation, including the version check on Commit. It backs
// tests and DATABASE_URL-less development runs.
type MemRepository struct {
	mu         sync.RWMutex
	games      map[int64]*domain.Game
	moves      map[int64][]*domain.MoveRecord
	stats      map[int64]*domain.Stats
	users      map[int64]memUser
	nextGameID int64
	nextMoveID int64
}

type memUser struct {
	username string
	avatar   string
}

func NewMemRepository() *MemRepository {
	return &MemRepository{
		games: make(map[int64]*domain.Game),
		moves: make(map[int64][]*domain.MoveRecord),
		stats: make(map[int64]*domain.Stats),
		users: make(map[int64]memUser),
	}
}

// RegisterUser records a username and avatar for leaderboard rows. The
// social app owns the real users table; this stands in for the join.
func (r *MemRepository) RegisterUser(userID int64, username, avatar string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = memUser{username: username, avatar: avatar}
}

// PutStats stores a ledger row verbatim, bypassing the delta path. It seeds
// fixtures the way a migrated database would arrive.
func (r *MemRepository) PutStats(stats *domain.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[stats.UserID] = cloneStats(stats)
}

func cloneGame(g *domain.Game) *domain.Game {
	c := *g
	c.State = append([]byte(nil), g.State...)
	return &c
}

func cloneStats(s *domain.Stats) *domain.Stats {
	c := *s
	return &c
}

func (r *MemRepository) CreateGame(_ context.Context, game *domain.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextGameID++
	game.ID = r.nextGameID
	r.games[game.ID] = cloneGame(game)
	return nil
}

func (r *MemRepository) GetOwnedPlaying(_ context.Context, id int64, ownerID int64) (*domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok || g.Player1ID != ownerID || g.Status != domain.StatusPlaying {
		return nil, nil
	}
	return cloneGame(g), nil
}

func (r *MemRepository) GetOwned(_ context.Context, id int64, ownerID int64) (*domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok || g.Player1ID != ownerID {
		return nil, nil
	}
	return cloneGame(g), nil
}

func (r *MemRepository) Commit(_ context.Context, commit *MoveCommit) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.games[commit.Game.ID]
	if !ok || stored.Version != commit.Game.Version {
		return 0, ErrStaleGame
	}

	updated := cloneGame(commit.Game)
	updated.Version++
	r.games[updated.ID] = updated

	var moveID int64
	if commit.Move != nil {
		r.nextMoveID++
		moveID = r.nextMoveID
		commit.Move.ID = moveID
		commit.Move.MoveNumber = len(r.moves[commit.Move.GameID]) + 1
		rec := *commit.Move
		rec.Payload = append([]byte(nil), commit.Move.Payload...)
		r.moves[rec.GameID] = append(r.moves[rec.GameID], &rec)
	}
	if commit.Stats != nil {
		s, ok := r.stats[commit.Stats.UserID]
		if !ok {
			s = domain.NewBaselineStats(commit.Stats.UserID, commit.Game.UpdatedAt)
			r.stats[s.UserID] = s
		}
		commit.Stats.Delta.Fold(s, commit.Game.UpdatedAt)
	}

	commit.Game.Version++
	return moveID, nil
}

func (r *MemRepository) GetStats(_ context.Context, userID int64) (*domain.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stats[userID]
	if !ok {
		return nil, nil
	}
	return cloneStats(s), nil
}

func (r *MemRepository) EnsureStats(_ context.Context, userID int64) (*domain.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stats[userID]; ok {
		return cloneStats(s), nil
	}
	fresh := domain.NewBaselineStats(userID, time.Now().UTC())
	r.stats[userID] = cloneStats(fresh)
	return fresh, nil
}

func (r *MemRepository) ListActive(_ context.Context, userID int64, limit int) ([]*domain.Game, error) {
	if limit <= 0 {
		limit = 10
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Game, 0, limit)
	for _, g := range r.games {
		if g.Player1ID != userID {
			continue
		}
		if g.Status != domain.StatusWaiting && g.Status != domain.StatusPlaying {
			continue
		}
		out = append(out, cloneGame(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemRepository) ListFinished(_ context.Context, userID int64, gameType domain.GameType, limit, offset int) ([]*domain.Game, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Game, 0, limit)
	for _, g := range r.games {
		if g.Player1ID != userID || g.Status != domain.StatusFinished {
			continue
		}
		if gameType != "" && g.Type != gameType {
			continue
		}
		out = append(out, cloneGame(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.After(out[j].FinishedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemRepository) ListMoves(_ context.Context, gameID int64) ([]*domain.MoveRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.moves[gameID]
	out := make([]*domain.MoveRecord, 0, len(stored))
	for _, m := range stored {
		rec := *m
		rec.Payload = append([]byte(nil), m.Payload...)
		out = append(out, &rec)
	}
	return out, nil
}

func (r *MemRepository) Leaderboard(_ context.Context, filter domain.GameType, limit int) ([]*domain.LeaderboardRow, error) {
	if limit <= 0 {
		limit = 50
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.LeaderboardRow, 0, len(r.stats))
	for _, s := range r.stats {
		var wins, losses, draws, total int
		switch filter {
		case domain.TypeChess:
			wins, losses, draws, total = s.ChessWins, s.ChessLosses, s.ChessDraws, s.ChessTotalGames
		case domain.TypeSudoku:
			wins, losses, total = s.SudokuWins, s.SudokuLosses, s.SudokuTotalGames
		default:
			wins = s.ChessWins + s.SudokuWins
			losses = s.ChessLosses + s.SudokuLosses
			draws = s.ChessDraws
			total = s.ChessTotalGames + s.SudokuTotalGames
		}
		if total <= 0 || s.TotalPoints <= 0 {
			continue
		}
		u := r.users[s.UserID]
		out = append(out, &domain.LeaderboardRow{
			UserID:        s.UserID,
			Username:      u.username,
			Avatar:        u.avatar,
			Wins:          wins,
			Losses:        losses,
			Draws:         draws,
			TotalGames:    total,
			TotalPoints:   s.TotalPoints,
			Rating:        s.Rating,
			HighestRating: s.HighestRating,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].HighestRating > out[j].HighestRating
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
