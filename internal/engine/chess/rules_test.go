package chess

import (
	"testing"
	"time"
)

func emptyBoard() Board {
	return Board{}
}

func place(b *Board, row, col int, kind Kind, side Side) {
	b[row][col] = &Piece{Kind: kind, Side: side}
}

func TestPawnMoves(t *testing.T) {
	b := NewState().Board

	tests := []struct {
		name string
		from Square
		to   Square
		want bool
	}{
		{"white single step", Square{6, 4}, Square{5, 4}, true},
		{"white two step from start", Square{6, 4}, Square{4, 4}, true},
		{"white three step", Square{6, 4}, Square{3, 4}, false},
		{"white backward", Square{6, 4}, Square{7, 4}, false},
		{"white sideways", Square{6, 4}, Square{6, 5}, false},
		{"white diagonal without capture", Square{6, 4}, Square{5, 5}, false},
		{"black single step", Square{1, 3}, Square{2, 3}, true},
		{"black two step from start", Square{1, 3}, Square{3, 3}, true},
		{"black backward", Square{1, 3}, Square{0, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.IsLegal(tt.from, tt.to); got != tt.want {
				t.Fatalf("IsLegal(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestPawnCapturesDiagonallyOnly(t *testing.T) {
	b := emptyBoard()
	place(&b, 4, 4, Pawn, White)
	place(&b, 3, 5, Pawn, Black)
	place(&b, 3, 4, Pawn, Black)

	if !b.IsLegal(Square{4, 4}, Square{3, 5}) {
		t.Fatalf("diagonal capture should be legal")
	}
	if b.IsLegal(Square{4, 4}, Square{3, 4}) {
		t.Fatalf("forward capture should be illegal")
	}
}

func TestPawnTwoStepIgnoresIntermediateSquare(t *testing.T) {
	b := emptyBoard()
	place(&b, 6, 0, Pawn, White)
	place(&b, 5, 0, Knight, Black)

	// Destination-only checking lets the pawn hop the blocker.
	if !b.IsLegal(Square{6, 0}, Square{4, 0}) {
		t.Fatalf("two step over a blocker should be legal under destination-only rules")
	}
}

func TestSlidingPiecesBlockedByPath(t *testing.T) {
	b := emptyBoard()
	place(&b, 7, 0, Rook, White)
	place(&b, 5, 0, Pawn, White)
	place(&b, 7, 2, Bishop, White)
	place(&b, 6, 3, Pawn, Black)
	place(&b, 3, 3, Queen, Black)
	place(&b, 3, 6, Pawn, White)

	tests := []struct {
		name string
		from Square
		to   Square
		want bool
	}{
		{"rook along clear file", Square{7, 0}, Square{6, 0}, true},
		{"rook through own pawn", Square{7, 0}, Square{3, 0}, false},
		{"rook diagonal", Square{7, 0}, Square{6, 1}, false},
		{"bishop capture through nothing", Square{7, 2}, Square{6, 3}, true},
		{"bishop through blocker", Square{7, 2}, Square{5, 4}, false},
		{"queen along clear rank", Square{3, 3}, Square{3, 5}, true},
		{"queen through blocker", Square{3, 3}, Square{3, 7}, false},
		{"queen knight shape", Square{3, 3}, Square{5, 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.IsLegal(tt.from, tt.to); got != tt.want {
				t.Fatalf("IsLegal(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestKnightAndKing(t *testing.T) {
	b := emptyBoard()
	place(&b, 4, 4, Knight, White)
	place(&b, 0, 4, King, Black)

	if !b.IsLegal(Square{4, 4}, Square{2, 5}) || !b.IsLegal(Square{4, 4}, Square{5, 6}) {
		t.Fatalf("knight L-moves should be legal")
	}
	if b.IsLegal(Square{4, 4}, Square{2, 4}) {
		t.Fatalf("knight straight move should be illegal")
	}
	if !b.IsLegal(Square{0, 4}, Square{1, 5}) {
		t.Fatalf("king single step should be legal")
	}
	if b.IsLegal(Square{0, 4}, Square{2, 4}) {
		t.Fatalf("king two step should be illegal")
	}
}

func TestCannotCaptureOwnPiece(t *testing.T) {
	b := NewState().Board
	if b.IsLegal(Square{7, 0}, Square{6, 0}) {
		t.Fatalf("capturing own pawn should be illegal")
	}
}

func TestMovingIntoCheckIsAllowed(t *testing.T) {
	b := emptyBoard()
	place(&b, 4, 4, King, White)
	place(&b, 0, 5, Rook, Black)

	// No check detection: the king may walk onto an attacked square.
	if !b.IsLegal(Square{4, 4}, Square{4, 5}) {
		t.Fatalf("moving into an attacked square should be legal")
	}
}

func TestApplyOpeningMove(t *testing.T) {
	s := NewState()
	now := time.Now()

	if err := s.Apply(Square{6, 4}, Square{4, 4}, now); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.Board[4][4] == nil || s.Board[4][4].Kind != Pawn || s.Board[4][4].Side != White {
		t.Fatalf("pawn did not land on destination")
	}
	if s.Board[6][4] != nil {
		t.Fatalf("source square not cleared")
	}
	if s.CurrentPlayer != Black {
		t.Fatalf("turn did not pass to black")
	}
	if len(s.MoveHistory) != 1 {
		t.Fatalf("move history length = %d", len(s.MoveHistory))
	}
	entry := s.MoveHistory[0]
	if entry.From != [2]int{6, 4} || entry.To != [2]int{4, 4} {
		t.Fatalf("history entry = %+v", entry)
	}
}

func TestApplyRejectsWrongTurn(t *testing.T) {
	s := NewState()
	if err := s.Apply(Square{1, 4}, Square{3, 4}, time.Now()); err != ErrIllegalMove {
		t.Fatalf("moving black on white's turn: err = %v", err)
	}
	if len(s.MoveHistory) != 0 || s.CurrentPlayer != White {
		t.Fatalf("rejected move mutated state")
	}
}

func TestApplyRejectsIllegalMove(t *testing.T) {
	s := NewState()
	if err := s.Apply(Square{7, 0}, Square{5, 0}, time.Now()); err != ErrIllegalMove {
		t.Fatalf("rook through pawn: err = %v", err)
	}
}

func TestApplyRecordsCapture(t *testing.T) {
	s := NewState()
	s.Board = emptyBoard()
	place(&s.Board, 4, 4, Pawn, White)
	place(&s.Board, 3, 5, Knight, Black)

	if err := s.Apply(Square{4, 4}, Square{3, 5}, time.Now()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(s.Captured.White) != 1 || s.Captured.White[0].Kind != Knight {
		t.Fatalf("captured list = %+v", s.Captured)
	}
	if s.MoveHistory[0].Captured == nil || s.MoveHistory[0].Captured.Kind != Knight {
		t.Fatalf("history capture = %+v", s.MoveHistory[0].Captured)
	}
}

func TestFindKings(t *testing.T) {
	b := NewState().Board
	white, black := b.FindKings()
	if !white || !black {
		t.Fatalf("initial position should have both kings: white=%v black=%v", white, black)
	}

	b[0][4] = nil
	white, black = b.FindKings()
	if !white || black {
		t.Fatalf("after removing black king: white=%v black=%v", white, black)
	}
}
