package chess

import (
	"errors"
	"time"
)

var ErrIllegalMove = errors.New("illegal chess move")

// Side identifies a chess color. The human player always owns white in bot
// games; the bot replies as black.
type Side string

const (
	White Side = "white"
	Black Side = "black"
)

func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

// Kind is a piece type.
type Kind string

const (
	Pawn   Kind = "pawn"
	Rook   Kind = "rook"
	Knight Kind = "knight"
	Bishop Kind = "bishop"
	Queen  Kind = "queen"
	King   Kind = "king"
)

// Piece is a tagged cell value. The legacy state encoded side by letter case
// (uppercase white, lowercase black); the explicit tag preserves those
// semantics without the implicit encoding.
type Piece struct {
	Kind Kind `json:"kind"`
	Side Side `json:"side"`
}

// Board is the 8x8 grid, row 0 at black's back rank. Empty cells are nil.
type Board [8][8]*Piece

// Square addresses a board cell as [row, col].
type Square struct {
	Row int
	Col int
}

func (sq Square) InBounds() bool {
	return sq.Row >= 0 && sq.Row <= 7 && sq.Col >= 0 && sq.Col <= 7
}

// At returns the piece on sq, nil when empty or out of bounds.
func (b *Board) At(sq Square) *Piece {
	if !sq.InBounds() {
		return nil
	}
	return b[sq.Row][sq.Col]
}

// MoveEntry is one applied move in a state payload's ordered history.
type MoveEntry struct {
	From      [2]int    `json:"from"`
	To        [2]int    `json:"to"`
	Piece     Piece     `json:"piece"`
	Captured  *Piece    `json:"captured,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CapturedPieces lists material taken so far, keyed by the capturing side:
// White holds the black pieces white has taken and vice versa.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

// State is the chess game state payload persisted on the game record.
// InCheck is carried for compatibility with the legacy payload shape and is
// never set: the rule set has no check detection.
type State struct {
	Board         Board          `json:"board"`
	CurrentPlayer Side           `json:"current_player"`
	MoveHistory   []MoveEntry    `json:"move_history"`
	Captured      CapturedPieces `json:"captured_pieces"`
	InCheck       bool           `json:"in_check"`
	GameOver      bool           `json:"is_game_over"`
	Winner        Side           `json:"winner,omitempty"`
}

// NewState returns the initial position with white to move.
func NewState() *State {
	return &State{
		Board:         initialBoard(),
		CurrentPlayer: White,
		MoveHistory:   []MoveEntry{},
		Captured:      CapturedPieces{White: []Piece{}, Black: []Piece{}},
	}
}

func initialBoard() Board {
	var b Board
	back := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < 8; col++ {
		b[0][col] = &Piece{Kind: back[col], Side: Black}
		b[1][col] = &Piece{Kind: Pawn, Side: Black}
		b[6][col] = &Piece{Kind: Pawn, Side: White}
		b[7][col] = &Piece{Kind: back[col], Side: White}
	}
	return b
}

// FindKings reports whether each side's king is still on the board. King
// capture is the only terminal condition the rule set knows.
func (b *Board) FindKings() (white, black bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b[row][col]
			if p == nil || p.Kind != King {
				continue
			}
			if p.Side == White {
				white = true
			} else {
				black = true
			}
		}
	}
	return white, black
}
