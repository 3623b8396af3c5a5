package domain

import "time"

// GameType selects the rule engine that interprets a game's state payload.
type GameType string

const (
	TypeChess  GameType = "chess"
	TypeSudoku GameType = "sudoku"
)

func ParseGameType(s string) (GameType, bool) {
	switch GameType(s) {
	case TypeChess:
		return TypeChess, true
	case TypeSudoku:
		return TypeSudoku, true
	default:
		return "", false
	}
}

// GameMode distinguishes bot games from player-vs-player games. Move
// application currently covers bot games only; pvp exists in the data model
// for invites created by the social app.
type GameMode string

const (
	ModeBot GameMode = "bot"
	ModePvP GameMode = "pvp"
)

// GameStatus is the lifecycle state of a game. Transitions are monotone:
// waiting -> playing -> finished|cancelled, never backward.
type GameStatus string

const (
	StatusWaiting   GameStatus = "waiting"
	StatusPlaying   GameStatus = "playing"
	StatusFinished  GameStatus = "finished"
	StatusCancelled GameStatus = "cancelled"
)

// GameResult is the stored terminal result. "timeout" is reserved: the data
// model defines it but no code path produces it yet.
type GameResult string

const (
	ResultPlayer1 GameResult = "player1"
	ResultPlayer2 GameResult = "player2"
	ResultDraw    GameResult = "draw"
	ResultTimeout GameResult = "timeout"
)

// Game is the authoritative per-game record. State carries the type-specific
// payload as JSON; its shape must match Type. Version is the optimistic
// concurrency token: every committed mutation increments it, and a commit
// against a stale version is rejected.
type Game struct {
	ID          int64
	SessionUUID string
	Player1ID   int64
	Player2ID   int64 // 0 for bot games
	Type        GameType
	Mode        GameMode
	Status      GameStatus
	State       []byte
	CurrentTurn string
	Result      GameResult // empty while status != finished
	WinnerID    int64      // 0 when there is no winning user
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FinishedAt  time.Time
}

// MoveRecord is one append-only audit entry. MoveNumber is strictly
// increasing per game starting at 1, with no gaps or duplicates; records are
// never mutated or deleted once written.
type MoveRecord struct {
	ID         int64
	GameID     int64
	PlayerID   int64
	MoveNumber int
	Payload    []byte
	CreatedAt  time.Time
}
