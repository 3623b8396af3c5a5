package games

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/friendschat/games/internal/domain"
)

// OpenDB opens a Postgres pool and bootstraps the schema. Statements are
// idempotent so restarts against an initialized database are safe.
func OpenDB(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			avatar TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			id BIGSERIAL PRIMARY KEY,
			session_uuid TEXT NOT NULL UNIQUE,
			player1_id BIGINT NOT NULL,
			player2_id BIGINT,
			game_type TEXT NOT NULL,
			game_mode TEXT NOT NULL,
			status TEXT NOT NULL,
			game_state JSONB NOT NULL,
			current_turn TEXT NOT NULL DEFAULT '',
			result TEXT,
			winner_id BIGINT,
			version BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			finished_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_player1_status ON games (player1_id, status)`,
		`CREATE TABLE IF NOT EXISTS game_moves (
			id BIGSERIAL PRIMARY KEY,
			game_id BIGINT NOT NULL REFERENCES games(id),
			player_id BIGINT NOT NULL,
			move_number INT NOT NULL,
			move_data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (game_id, move_number)
		)`,
		`CREATE TABLE IF NOT EXISTS game_stats (
			user_id BIGINT PRIMARY KEY,
			chess_wins INT NOT NULL DEFAULT 0,
			chess_losses INT NOT NULL DEFAULT 0,
			chess_draws INT NOT NULL DEFAULT 0,
			chess_total_games INT NOT NULL DEFAULT 0,
			chess_bot_wins INT NOT NULL DEFAULT 0,
			chess_pvp_wins INT NOT NULL DEFAULT 0,
			sudoku_wins INT NOT NULL DEFAULT 0,
			sudoku_losses INT NOT NULL DEFAULT 0,
			sudoku_total_games INT NOT NULL DEFAULT 0,
			sudoku_bot_wins INT NOT NULL DEFAULT 0,
			sudoku_pvp_wins INT NOT NULL DEFAULT 0,
			total_points INT NOT NULL DEFAULT 0,
			rating INT NOT NULL DEFAULT 1200,
			highest_rating INT NOT NULL DEFAULT 1200,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const gameColumns = `
	id,
	session_uuid,
	player1_id,
	player2_id,
	game_type,
	game_mode,
	status,
	game_state,
	current_turn,
	result,
	winner_id,
	version,
	created_at,
	updated_at,
	finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*domain.Game, error) {
	var (
		game       domain.Game
		player2ID  sql.NullInt64
		result     sql.NullString
		winnerID   sql.NullInt64
		finishedAt sql.NullTime
	)
	err := row.Scan(
		&game.ID,
		&game.SessionUUID,
		&game.Player1ID,
		&player2ID,
		&game.Type,
		&game.Mode,
		&game.Status,
		&game.State,
		&game.CurrentTurn,
		&result,
		&winnerID,
		&game.Version,
		&game.CreatedAt,
		&game.UpdatedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}
	if player2ID.Valid {
		game.Player2ID = player2ID.Int64
	}
	if result.Valid {
		game.Result = domain.GameResult(result.String)
	}
	if winnerID.Valid {
		game.WinnerID = winnerID.Int64
	}
	if finishedAt.Valid {
		game.FinishedAt = finishedAt.Time
	}
	return &game, nil
}

func nullInt64(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullTime(v time.Time) any {
	if v.IsZero() {
		return nil
	}
	return v
}

func (r *postgresRepository) CreateGame(ctx context.Context, game *domain.Game) error {
	if game == nil {
		return fmt.Errorf("nil game payload")
	}
	const query = `
		INSERT INTO games (
			session_uuid,
			player1_id,
			player2_id,
			game_type,
			game_mode,
			status,
			game_state,
			current_turn,
			version,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, $11)
		RETURNING id`

	err := r.db.QueryRowContext(
		ctx,
		query,
		game.SessionUUID,
		game.Player1ID,
		nullInt64(game.Player2ID),
		game.Type,
		game.Mode,
		game.Status,
		game.State,
		game.CurrentTurn,
		game.Version,
		game.CreatedAt,
		game.UpdatedAt,
	).Scan(&game.ID)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetOwnedPlaying(ctx context.Context, id int64, ownerID int64) (*domain.Game, error) {
	query := `
		SELECT` + gameColumns + `
		FROM games
		WHERE id = $1 AND player1_id = $2 AND status = $3`

	game, err := scanGame(r.db.QueryRowContext(ctx, query, id, ownerID, domain.StatusPlaying))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select playing game: %w", err)
	}
	return game, nil
}

func (r *postgresRepository) GetOwned(ctx context.Context, id int64, ownerID int64) (*domain.Game, error) {
	query := `
		SELECT` + gameColumns + `
		FROM games
		WHERE id = $1 AND player1_id = $2`

	game, err := scanGame(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select game: %w", err)
	}
	return game, nil
}

func (r *postgresRepository) Commit(ctx context.Context, commit *MoveCommit) (int64, error) {
	if commit == nil || commit.Game == nil {
		return 0, fmt.Errorf("nil move commit payload")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin commit tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	game := commit.Game
	const updateGame = `
		UPDATE games SET
			status = $1,
			game_state = $2::jsonb,
			current_turn = $3,
			result = $4,
			winner_id = $5,
			version = version + 1,
			updated_at = $6,
			finished_at = $7
		WHERE id = $8 AND version = $9`

	res, err := tx.ExecContext(
		ctx,
		updateGame,
		game.Status,
		game.State,
		game.CurrentTurn,
		nullString(string(game.Result)),
		nullInt64(game.WinnerID),
		game.UpdatedAt,
		nullTime(game.FinishedAt),
		game.ID,
		game.Version,
	)
	if err != nil {
		return 0, fmt.Errorf("update game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update game rows: %w", err)
	}
	if affected == 0 {
		return 0, ErrStaleGame
	}

	var moveID int64
	if commit.Move != nil {
		const insertMove = `
			INSERT INTO game_moves (game_id, player_id, move_number, move_data, created_at)
			VALUES (
				$1,
				$2,
				(SELECT COALESCE(MAX(move_number), 0) + 1 FROM game_moves WHERE game_id = $1),
				$3::jsonb,
				$4
			)
			RETURNING id, move_number`

		err = tx.QueryRowContext(
			ctx,
			insertMove,
			commit.Move.GameID,
			commit.Move.PlayerID,
			commit.Move.Payload,
			commit.Move.CreatedAt,
		).Scan(&moveID, &commit.Move.MoveNumber)
		if err != nil {
			return 0, fmt.Errorf("insert move: %w", err)
		}
		commit.Move.ID = moveID
	}

	if commit.Stats != nil {
		if err := applyStatsChange(ctx, tx, commit.Stats, game.UpdatedAt); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit move tx: %w", err)
	}
	game.Version++
	return moveID, nil
}

// applyStatsChange folds a ledger delta into the stats row relationally.
// Every counter moves by an increment and the bounds are enforced in SQL,
// so concurrent finishes for the same user serialize on the row lock and
// neither update is lost. The row itself is created on first use.
func applyStatsChange(ctx context.Context, tx *sql.Tx, change *StatsChange, now time.Time) error {
	const ensure = `
		INSERT INTO game_stats (user_id, rating, highest_rating, created_at, updated_at)
		VALUES ($1, $2, $2, $3, $3)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := tx.ExecContext(ctx, ensure, change.UserID, domain.BaselineRating, now); err != nil {
		return fmt.Errorf("ensure stats row: %w", err)
	}

	const query = `
		UPDATE game_stats SET
			chess_wins = chess_wins + $2,
			chess_losses = chess_losses + $3,
			chess_draws = chess_draws + $4,
			chess_total_games = chess_total_games + $5,
			chess_bot_wins = chess_bot_wins + $6,
			chess_pvp_wins = chess_pvp_wins + $7,
			sudoku_wins = sudoku_wins + $8,
			sudoku_losses = sudoku_losses + $9,
			sudoku_total_games = sudoku_total_games + $10,
			sudoku_bot_wins = sudoku_bot_wins + $11,
			sudoku_pvp_wins = sudoku_pvp_wins + $12,
			total_points = GREATEST(total_points + $13, 0),
			rating = LEAST(GREATEST(rating + $14, $15), $16),
			highest_rating = GREATEST(highest_rating, LEAST(GREATEST(rating + $14, $15), $16)),
			updated_at = $17
		WHERE user_id = $1`

	d := change.Delta
	_, err := tx.ExecContext(
		ctx,
		query,
		change.UserID,
		d.ChessWins,
		d.ChessLosses,
		d.ChessDraws,
		d.ChessTotalGames,
		d.ChessBotWins,
		d.ChessPvPWins,
		d.SudokuWins,
		d.SudokuLosses,
		d.SudokuTotalGames,
		d.SudokuBotWins,
		d.SudokuPvPWins,
		d.Points,
		d.Rating,
		domain.MinRating,
		domain.MaxRating,
		now,
	)
	if err != nil {
		return fmt.Errorf("apply stats delta: %w", err)
	}
	return nil
}

const statsColumns = `
	user_id,
	chess_wins,
	chess_losses,
	chess_draws,
	chess_total_games,
	chess_bot_wins,
	chess_pvp_wins,
	sudoku_wins,
	sudoku_losses,
	sudoku_total_games,
	sudoku_bot_wins,
	sudoku_pvp_wins,
	total_points,
	rating,
	highest_rating,
	created_at,
	updated_at`

func scanStats(row rowScanner) (*domain.Stats, error) {
	var stats domain.Stats
	err := row.Scan(
		&stats.UserID,
		&stats.ChessWins,
		&stats.ChessLosses,
		&stats.ChessDraws,
		&stats.ChessTotalGames,
		&stats.ChessBotWins,
		&stats.ChessPvPWins,
		&stats.SudokuWins,
		&stats.SudokuLosses,
		&stats.SudokuTotalGames,
		&stats.SudokuBotWins,
		&stats.SudokuPvPWins,
		&stats.TotalPoints,
		&stats.Rating,
		&stats.HighestRating,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *postgresRepository) GetStats(ctx context.Context, userID int64) (*domain.Stats, error) {
	query := `
		SELECT` + statsColumns + `
		FROM game_stats
		WHERE user_id = $1`

	stats, err := scanStats(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select game stats: %w", err)
	}
	return stats, nil
}

func (r *postgresRepository) EnsureStats(ctx context.Context, userID int64) (*domain.Stats, error) {
	stats, err := r.GetStats(ctx, userID)
	if err != nil || stats != nil {
		return stats, err
	}

	now := time.Now().UTC()
	fresh := domain.NewBaselineStats(userID, now)
	const query = `
		INSERT INTO game_stats (user_id, rating, highest_rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, fresh.Rating, fresh.HighestRating, now, now); err != nil {
		return nil, fmt.Errorf("insert baseline stats: %w", err)
	}
	// A concurrent insert may have won the conflict; read back the row.
	return r.GetStats(ctx, userID)
}

func (r *postgresRepository) ListActive(ctx context.Context, userID int64, limit int) ([]*domain.Game, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT` + gameColumns + `
		FROM games
		WHERE player1_id = $1 AND status IN ($2, $3)
		ORDER BY updated_at DESC
		LIMIT $4`

	rows, err := r.db.QueryContext(ctx, query, userID, domain.StatusWaiting, domain.StatusPlaying, limit)
	if err != nil {
		return nil, fmt.Errorf("select active games: %w", err)
	}
	defer rows.Close()

	return collectGames(rows, limit)
}

func (r *postgresRepository) ListFinished(ctx context.Context, userID int64, gameType domain.GameType, limit, offset int) ([]*domain.Game, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT` + gameColumns + `
		FROM games
		WHERE player1_id = $1 AND status = $2`
	args := []any{userID, domain.StatusFinished}
	if gameType != "" {
		query += ` AND game_type = $3`
		args = append(args, gameType)
	}
	query += fmt.Sprintf(`
		ORDER BY finished_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select finished games: %w", err)
	}
	defer rows.Close()

	return collectGames(rows, limit)
}

func collectGames(rows *sql.Rows, capacity int) ([]*domain.Game, error) {
	games := make([]*domain.Game, 0, capacity)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (r *postgresRepository) ListMoves(ctx context.Context, gameID int64) ([]*domain.MoveRecord, error) {
	const query = `
		SELECT id, game_id, player_id, move_number, move_data, created_at
		FROM game_moves
		WHERE game_id = $1
		ORDER BY move_number ASC`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("select moves: %w", err)
	}
	defer rows.Close()

	moves := make([]*domain.MoveRecord, 0, 16)
	for rows.Next() {
		var move domain.MoveRecord
		if err := rows.Scan(
			&move.ID,
			&move.GameID,
			&move.PlayerID,
			&move.MoveNumber,
			&move.Payload,
			&move.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		moves = append(moves, &move)
	}
	return moves, rows.Err()
}

func (r *postgresRepository) Leaderboard(ctx context.Context, filter domain.GameType, limit int) ([]*domain.LeaderboardRow, error) {
	if limit <= 0 {
		limit = 50
	}

	var wins, losses, draws, total string
	switch filter {
	case domain.TypeChess:
		wins, losses, draws, total = "s.chess_wins", "s.chess_losses", "s.chess_draws", "s.chess_total_games"
	case domain.TypeSudoku:
		wins, losses, draws, total = "s.sudoku_wins", "s.sudoku_losses", "0", "s.sudoku_total_games"
	default:
		wins = "s.chess_wins + s.sudoku_wins"
		losses = "s.chess_losses + s.sudoku_losses"
		draws = "s.chess_draws"
		total = "s.chess_total_games + s.sudoku_total_games"
	}

	query := fmt.Sprintf(`
		SELECT
			u.id,
			u.username,
			u.avatar,
			%s AS wins,
			%s AS losses,
			%s AS draws,
			%s AS total_games,
			s.total_points,
			s.rating,
			s.highest_rating
		FROM game_stats s
		JOIN users u ON u.id = s.user_id
		WHERE %s > 0 AND s.total_points > 0
		ORDER BY s.total_points DESC, s.rating DESC, s.highest_rating DESC
		LIMIT $1`, wins, losses, draws, total, total)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.LeaderboardRow, 0, limit)
	for rows.Next() {
		var row domain.LeaderboardRow
		if err := rows.Scan(
			&row.UserID,
			&row.Username,
			&row.Avatar,
			&row.Wins,
			&row.Losses,
			&row.Draws,
			&row.TotalGames,
			&row.TotalPoints,
			&row.Rating,
			&row.HighestRating,
		); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}
