package games

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/friendschat/games/internal/domain"
	"github.com/friendschat/games/internal/engine/chess"
	"github.com/friendschat/games/internal/engine/sudoku"
	"github.com/friendschat/games/internal/rating"
	"github.com/friendschat/games/internal/service/cache"
)

var (
	ErrInvalidGameType = errors.New("unknown game type")
	ErrInvalidMove     = errors.New("malformed move payload")
	ErrIllegalMove     = errors.New("move not allowed by rules")
	ErrGameNotFound    = errors.New("game not found")
)

const statsCacheTTL = 60 * time.Second

func statsCacheKey(userID int64) string {
	return fmt.Sprintf("games:stats:%d", userID)
}

// Notifier delivers game-end events to the social app. Delivery is best
// effort; implementations must not block move handling on failures.
type Notifier interface {
	NotifyGameEnd(ctx context.Context, userID int64, gameType domain.GameType, outcome string, gameID int64)
}

type Config struct {
	HistoryLimit int
	BotSeed      int64
}

type Service struct {
	repo     Repository
	cache    *cache.CacheService
	notifier Notifier
	cfg      Config
	logger   *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewService(repo Repository, cacheSvc *cache.CacheService, notifier Notifier, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	seed := cfg.BotSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Service{
		repo:     repo,
		cache:    cacheSvc,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// GameEnded reports a terminal transition from the mover's perspective.
// Result is one of "win", "loss", "draw".
type GameEnded struct {
	IsEnd  bool   `json:"is_end"`
	Result string `json:"result,omitempty"`
}

// BotMove is the bot's reply when a chess move did not finish the game.
type BotMove struct {
	From [2]int `json:"from"`
	To   [2]int `json:"to"`
}

type MoveResult struct {
	Game    *domain.Game
	MoveID  int64
	BotMove *BotMove
	Ended   GameEnded
}

// ChessMove is the wire payload for a chess move, matching the state's
// board orientation: row 0 is black's back rank, [6,4] is e2.
type ChessMove struct {
	From [2]int `json:"from"`
	To   [2]int `json:"to"`
}

// SudokuMove is the wire payload for filling one sudoku cell. Value 0
// clears the cell.
type SudokuMove struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

func (s *Service) CreateGame(ctx context.Context, userID int64, gameType domain.GameType) (*domain.Game, error) {
	var state []byte
	now := time.Now().UTC()

	switch gameType {
	case domain.TypeChess:
		raw, err := json.Marshal(chess.NewState())
		if err != nil {
			return nil, fmt.Errorf("marshal chess state: %w", err)
		}
		state = raw
	case domain.TypeSudoku:
		s.rngMu.Lock()
		pair := sudoku.Pick(s.rng)
		s.rngMu.Unlock()
		raw, err := json.Marshal(sudoku.NewState(pair, now))
		if err != nil {
			return nil, fmt.Errorf("marshal sudoku state: %w", err)
		}
		state = raw
	default:
		return nil, ErrInvalidGameType
	}

	if _, err := s.repo.EnsureStats(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensure stats: %w", err)
	}

	game := &domain.Game{
		SessionUUID: uuid.NewString(),
		Player1ID:   userID,
		Type:        gameType,
		Mode:        domain.ModeBot,
		Status:      domain.StatusPlaying,
		State:       state,
		CurrentTurn: "player1",
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateGame(ctx, game); err != nil {
		return nil, err
	}
	s.logger.Info("game created",
		zap.Int64("game_id", game.ID),
		zap.Int64("user_id", userID),
		zap.String("type", string(gameType)))
	return game, nil
}

func (s *Service) ApplyMove(ctx context.Context, userID, gameID int64, payload json.RawMessage) (*MoveResult, error) {
	game, err := s.repo.GetOwnedPlaying(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}

	now := time.Now().UTC()
	var result *MoveResult
	switch game.Type {
	case domain.TypeChess:
		result, err = s.applyChessMove(game, payload, now)
	case domain.TypeSudoku:
		result, err = s.applySudokuMove(game, payload, now)
	default:
		return nil, ErrInvalidGameType
	}
	if err != nil {
		return nil, err
	}

	commit := &MoveCommit{
		Game: game,
		Move: &domain.MoveRecord{
			GameID:    game.ID,
			PlayerID:  userID,
			Payload:   payload,
			CreatedAt: now,
		},
	}
	if result.Ended.IsEnd {
		change, statsErr := settleOutcome(userID, game, result.Ended.Result)
		if statsErr != nil {
			return nil, statsErr
		}
		commit.Stats = change
	}

	moveID, err := s.repo.Commit(ctx, commit)
	if err != nil {
		return nil, err
	}
	result.MoveID = moveID
	result.Game = game

	if result.Ended.IsEnd {
		s.invalidateStats(ctx, userID)
		s.notifyEnd(ctx, userID, game.Type, result.Ended.Result, game.ID)
		s.logger.Info("game finished",
			zap.Int64("game_id", game.ID),
			zap.Int64("user_id", userID),
			zap.String("result", result.Ended.Result))
	}
	return result, nil
}

func (s *Service) applyChessMove(game *domain.Game, payload json.RawMessage, now time.Time) (*MoveResult, error) {
	var state chess.State
	if err := json.Unmarshal(game.State, &state); err != nil {
		return nil, fmt.Errorf("unmarshal chess state: %w", err)
	}

	var move ChessMove
	if err := json.Unmarshal(payload, &move); err != nil {
		return nil, ErrInvalidMove
	}
	from := chess.Square{Row: move.From[0], Col: move.From[1]}
	to := chess.Square{Row: move.To[0], Col: move.To[1]}
	if !from.InBounds() || !to.InBounds() {
		return nil, ErrInvalidMove
	}

	if err := state.Apply(from, to, now); err != nil {
		if errors.Is(err, chess.ErrIllegalMove) {
			return nil, ErrIllegalMove
		}
		return nil, err
	}

	result := &MoveResult{}
	_, blackKing := state.Board.FindKings()
	if !blackKing {
		state.GameOver = true
		state.Winner = chess.White
		result.Ended = GameEnded{IsEnd: true, Result: "win"}
		finishGame(game, domain.ResultPlayer1, game.Player1ID, now)
	} else {
		s.rngMu.Lock()
		botFrom, botTo, ok := chess.SelectMove(&state.Board, chess.Black, s.rng)
		s.rngMu.Unlock()
		if ok {
			if err := state.Apply(botFrom, botTo, now); err != nil {
				return nil, fmt.Errorf("apply bot move: %w", err)
			}
			result.BotMove = &BotMove{
				From: [2]int{botFrom.Row, botFrom.Col},
				To:   [2]int{botTo.Row, botTo.Col},
			}
			whiteKing, _ := state.Board.FindKings()
			if !whiteKing {
				state.GameOver = true
				state.Winner = chess.Black
				result.Ended = GameEnded{IsEnd: true, Result: "loss"}
				finishGame(game, domain.ResultPlayer2, 0, now)
			}
		}
		// A bot with no legal move leaves the game open; the human keeps
		// capturing until the black king falls.
	}

	raw, err := json.Marshal(&state)
	if err != nil {
		return nil, fmt.Errorf("marshal chess state: %w", err)
	}
	game.State = raw
	game.CurrentTurn = string(state.CurrentPlayer)
	game.UpdatedAt = now
	return result, nil
}

func (s *Service) applySudokuMove(game *domain.Game, payload json.RawMessage, now time.Time) (*MoveResult, error) {
	var state sudoku.State
	if err := json.Unmarshal(game.State, &state); err != nil {
		return nil, fmt.Errorf("unmarshal sudoku state: %w", err)
	}

	var move SudokuMove
	if err := json.Unmarshal(payload, &move); err != nil {
		return nil, ErrInvalidMove
	}

	if err := state.SetCell(move.Row, move.Col, move.Value); err != nil {
		switch {
		case errors.Is(err, sudoku.ErrOutOfBounds), errors.Is(err, sudoku.ErrBadValue):
			return nil, ErrInvalidMove
		case errors.Is(err, sudoku.ErrGivenCell):
			return nil, ErrIllegalMove
		default:
			return nil, err
		}
	}

	result := &MoveResult{}
	if state.IsComplete() {
		state.Completed = true
		result.Ended = GameEnded{IsEnd: true, Result: "win"}
		finishGame(game, domain.ResultPlayer1, game.Player1ID, now)
	}

	raw, err := json.Marshal(&state)
	if err != nil {
		return nil, fmt.Errorf("marshal sudoku state: %w", err)
	}
	game.State = raw
	game.UpdatedAt = now
	return result, nil
}

func finishGame(game *domain.Game, result domain.GameResult, winnerID int64, now time.Time) {
	game.Status = domain.StatusFinished
	game.Result = result
	game.WinnerID = winnerID
	game.FinishedAt = now
	game.UpdatedAt = now
}

// Resign forfeits a playing game. The loss is charged immediately and no
// move record is written.
func (s *Service) Resign(ctx context.Context, userID, gameID int64) (*domain.Game, error) {
	game, err := s.repo.GetOwnedPlaying(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}

	now := time.Now().UTC()
	finishGame(game, domain.ResultPlayer2, 0, now)

	change, err := settleOutcome(userID, game, "loss")
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Commit(ctx, &MoveCommit{Game: game, Stats: change}); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, userID)
	s.notifyEnd(ctx, userID, game.Type, "loss", game.ID)
	s.logger.Info("game resigned",
		zap.Int64("game_id", game.ID),
		zap.Int64("user_id", userID))
	return game, nil
}

// settleOutcome translates a finished game into the ledger delta the
// repository folds in atomically with the game update. No stats read
// happens here; absolute values never leave the commit transaction.
func settleOutcome(userID int64, game *domain.Game, outcome string) (*StatsChange, error) {
	delta, err := rating.OutcomeDelta(game.Type, rating.Outcome(outcome), game.Mode)
	if err != nil {
		return nil, err
	}
	return &StatsChange{UserID: userID, Delta: delta}, nil
}

func (s *Service) invalidateStats(ctx context.Context, userID int64) {
	if err := s.cache.Delete(ctx, statsCacheKey(userID)); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (s *Service) notifyEnd(ctx context.Context, userID int64, gameType domain.GameType, outcome string, gameID int64) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyGameEnd(ctx, userID, gameType, outcome, gameID)
}

// Stats returns the user's ledger entry, serving the baseline for users
// who never finished a game. Reads go through the cache.
func (s *Service) Stats(ctx context.Context, userID int64) (*domain.Stats, error) {
	key := statsCacheKey(userID)
	var cached domain.Stats
	if err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Warn("stats cache read failed", zap.Int64("user_id", userID), zap.Error(err))
	} else if cached.UserID == userID && userID != 0 {
		return &cached, nil
	}

	stats, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = domain.NewBaselineStats(userID, time.Now().UTC())
	}
	if err := s.cache.Set(ctx, key, stats, statsCacheTTL); err != nil {
		s.logger.Warn("stats cache write failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return stats, nil
}

func (s *Service) Game(ctx context.Context, userID, gameID int64) (*domain.Game, error) {
	game, err := s.repo.GetOwned(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (s *Service) Moves(ctx context.Context, userID, gameID int64) ([]*domain.MoveRecord, error) {
	game, err := s.repo.GetOwned(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return s.repo.ListMoves(ctx, gameID)
}

func (s *Service) ActiveGames(ctx context.Context, userID int64) ([]*domain.Game, error) {
	return s.repo.ListActive(ctx, userID, 10)
}

func (s *Service) FinishedGames(ctx context.Context, userID int64, gameType domain.GameType, offset int) ([]*domain.Game, error) {
	return s.repo.ListFinished(ctx, userID, gameType, s.cfg.HistoryLimit, offset)
}
