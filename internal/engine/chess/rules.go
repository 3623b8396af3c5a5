package chess

import "time"

// IsLegal reports whether moving the piece on from to to is allowed by the
// simplified piece-movement rules: per-piece geometry plus path blocking.
// There is no check, checkmate, castling, en-passant, or promotion. A move
// is legal even if it exposes the mover's own king; king capture ends the
// game instead.
func (b *Board) IsLegal(from, to Square) bool {
	if !from.InBounds() || !to.InBounds() {
		return false
	}
	piece := b.At(from)
	if piece == nil {
		return false
	}
	target := b.At(to)
	if target != nil && target.Side == piece.Side {
		return false
	}

	rowDiff := abs(to.Row - from.Row)
	colDiff := abs(to.Col - from.Col)

	switch piece.Kind {
	case Pawn:
		dir := 1
		startRow := 1
		if piece.Side == White {
			dir = -1
			startRow = 6
		}
		if colDiff == 0 && target == nil {
			if to.Row == from.Row+dir {
				return true
			}
			if from.Row == startRow && to.Row == from.Row+2*dir {
				return true
			}
		}
		return colDiff == 1 && to.Row == from.Row+dir && target != nil

	case Rook:
		return (rowDiff == 0 || colDiff == 0) && b.pathClear(from, to)

	case Knight:
		return (rowDiff == 2 && colDiff == 1) || (rowDiff == 1 && colDiff == 2)

	case Bishop:
		return rowDiff == colDiff && b.pathClear(from, to)

	case Queen:
		return (rowDiff == 0 || colDiff == 0 || rowDiff == colDiff) && b.pathClear(from, to)

	case King:
		return rowDiff <= 1 && colDiff <= 1

	default:
		return false
	}
}

// pathClear scans the straight line between from and to, exclusive of both
// endpoints. Pawns never route through here: the legacy rules check only the
// destination square, so a two-step advance can hop an intermediate piece.
func (b *Board) pathClear(from, to Square) bool {
	rowDir := sign(to.Row - from.Row)
	colDir := sign(to.Col - from.Col)

	row, col := from.Row+rowDir, from.Col+colDir
	for row != to.Row || col != to.Col {
		if b[row][col] != nil {
			return false
		}
		row += rowDir
		col += colDir
	}
	return true
}

// Apply validates and applies a move on the state: the piece relocates, the
// source square clears, the move history gains an entry and any capture lands
// on the mover's captured list. The side to move alternates on success.
func (s *State) Apply(from, to Square, now time.Time) error {
	piece := s.Board.At(from)
	if piece == nil || piece.Side != s.CurrentPlayer {
		return ErrIllegalMove
	}
	if !s.Board.IsLegal(from, to) {
		return ErrIllegalMove
	}

	captured := s.Board.At(to)
	s.Board[to.Row][to.Col] = piece
	s.Board[from.Row][from.Col] = nil

	entry := MoveEntry{
		From:      [2]int{from.Row, from.Col},
		To:        [2]int{to.Row, to.Col},
		Piece:     *piece,
		Timestamp: now,
	}
	if captured != nil {
		c := *captured
		entry.Captured = &c
		if captured.Side == White {
			s.Captured.Black = append(s.Captured.Black, c)
		} else {
			s.Captured.White = append(s.Captured.White, c)
		}
	}
	s.MoveHistory = append(s.MoveHistory, entry)
	s.CurrentPlayer = s.CurrentPlayer.Opponent()
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
