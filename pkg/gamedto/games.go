// Package gamedto holds the wire types shared between the HTTP handlers
// and external callers of the games service.
package gamedto

import (
	"encoding/json"
	"time"
)

type CreateGameRequest struct {
	GameType string `json:"game_type"`
}

type MoveRequest struct {
	Move json.RawMessage `json:"move"`
}

// GameSummary is the serialized game record. State carries the raw
// type-specific payload so clients render it without another round trip.
type GameSummary struct {
	ID          int64           `json:"id"`
	SessionUUID string          `json:"session_uuid"`
	GameType    string          `json:"game_type"`
	GameMode    string          `json:"game_mode"`
	Status      string          `json:"status"`
	State       json.RawMessage `json:"game_state,omitempty"`
	CurrentTurn string          `json:"current_turn,omitempty"`
	Result      string          `json:"result,omitempty"`
	WinnerID    int64           `json:"winner_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
}

type GameEnded struct {
	IsEnd  bool   `json:"is_end"`
	Result string `json:"result,omitempty"`
}

type BotMove struct {
	From [2]int `json:"from"`
	To   [2]int `json:"to"`
}

type MoveResponse struct {
	Game    GameSummary `json:"game"`
	MoveID  int64       `json:"move_id,omitempty"`
	BotMove *BotMove    `json:"bot_move,omitempty"`
	Ended   GameEnded   `json:"game_ended"`
}

type MoveRecord struct {
	ID         int64           `json:"id"`
	GameID     int64           `json:"game_id"`
	PlayerID   int64           `json:"player_id"`
	MoveNumber int             `json:"move_number"`
	Move       json.RawMessage `json:"move"`
	CreatedAt  time.Time       `json:"created_at"`
}

type StatsResponse struct {
	UserID int64 `json:"user_id"`

	ChessWins       int `json:"chess_wins"`
	ChessLosses     int `json:"chess_losses"`
	ChessDraws      int `json:"chess_draws"`
	ChessTotalGames int `json:"chess_total_games"`
	ChessBotWins    int `json:"chess_bot_wins"`
	ChessPvPWins    int `json:"chess_pvp_wins"`

	SudokuWins       int `json:"sudoku_wins"`
	SudokuLosses     int `json:"sudoku_losses"`
	SudokuTotalGames int `json:"sudoku_total_games"`
	SudokuBotWins    int `json:"sudoku_bot_wins"`
	SudokuPvPWins    int `json:"sudoku_pvp_wins"`

	TotalWins     int     `json:"total_wins"`
	TotalGames    int     `json:"total_games"`
	TotalPoints   int     `json:"total_points"`
	Rating        int     `json:"rating"`
	HighestRating int     `json:"highest_rating"`
	WinPercentage float64 `json:"win_percentage"`
}
