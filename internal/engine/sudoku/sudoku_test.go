package sudoku

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	return NewState(Catalog()[0], time.Now())
}

func TestNewStateCopiesPuzzle(t *testing.T) {
	s := newTestState(t)
	if s.UserInput != s.Puzzle {
		t.Fatalf("user input should start as the puzzle")
	}
	if s.Hints != 3 {
		t.Fatalf("hints = %d", s.Hints)
	}
	if len(s.Conflicts) != 0 {
		t.Fatalf("fresh state has conflicts: %v", s.Conflicts)
	}
}

func TestSetCellValidation(t *testing.T) {
	s := newTestState(t)

	if err := s.SetCell(-1, 0, 5); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("row -1: %v", err)
	}
	if err := s.SetCell(0, 9, 5); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("col 9: %v", err)
	}
	if err := s.SetCell(0, 2, 10); !errors.Is(err, ErrBadValue) {
		t.Fatalf("value 10: %v", err)
	}
	// Cell (0,0) is a given in the first catalog puzzle.
	if err := s.SetCell(0, 0, 5); !errors.Is(err, ErrGivenCell) {
		t.Fatalf("given cell: %v", err)
	}
}

func TestSetCellConflictTracking(t *testing.T) {
	s := newTestState(t)

	// (0,2) should be 4; write 9 first.
	if err := s.SetCell(0, 2, 9); err != nil {
		t.Fatalf("SetCell wrong: %v", err)
	}
	if len(s.Conflicts) != 1 || s.Conflicts[0] != "0-2" {
		t.Fatalf("conflicts = %v", s.Conflicts)
	}

	// Writing the same wrong value again must not duplicate the key.
	if err := s.SetCell(0, 2, 9); err != nil {
		t.Fatalf("SetCell repeat: %v", err)
	}
	if len(s.Conflicts) != 1 {
		t.Fatalf("conflicts duplicated: %v", s.Conflicts)
	}

	// Correcting the cell clears the conflict.
	if err := s.SetCell(0, 2, 4); err != nil {
		t.Fatalf("SetCell correct: %v", err)
	}
	if len(s.Conflicts) != 0 {
		t.Fatalf("conflict not cleared: %v", s.Conflicts)
	}
}

func TestSetCellZeroClears(t *testing.T) {
	s := newTestState(t)

	if err := s.SetCell(0, 2, 9); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := s.SetCell(0, 2, 0); err != nil {
		t.Fatalf("SetCell clear: %v", err)
	}
	if s.UserInput[0][2] != 0 {
		t.Fatalf("cell not cleared: %d", s.UserInput[0][2])
	}
	if len(s.Conflicts) != 0 {
		t.Fatalf("clearing should drop the conflict: %v", s.Conflicts)
	}
}

func TestIsComplete(t *testing.T) {
	s := newTestState(t)
	if s.IsComplete() {
		t.Fatalf("fresh puzzle cannot be complete")
	}

	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			if s.Puzzle[row][col] != 0 {
				continue
			}
			if err := s.SetCell(row, col, s.Solution[row][col]); err != nil {
				t.Fatalf("SetCell(%d,%d): %v", row, col, err)
			}
		}
	}
	if !s.IsComplete() {
		t.Fatalf("fully solved puzzle reported incomplete")
	}
	if len(s.Conflicts) != 0 {
		t.Fatalf("solved puzzle has conflicts: %v", s.Conflicts)
	}
}

func TestCatalogGivensAgreeWithSolutions(t *testing.T) {
	for i, pair := range Catalog() {
		for row := 0; row < 9; row++ {
			for col := 0; col < 9; col++ {
				given := pair.Puzzle[row][col]
				if given != 0 && given != pair.Solution[row][col] {
					t.Fatalf("catalog %d cell (%d,%d): given %d disagrees with solution %d",
						i, row, col, given, pair.Solution[row][col])
				}
			}
		}
	}
}

func TestPickCoversCatalog(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	seen := map[Grid]bool{}
	for i := 0; i < 100; i++ {
		seen[Pick(rng).Puzzle] = true
	}
	if len(seen) != len(Catalog()) {
		t.Fatalf("picked %d distinct puzzles, catalog has %d", len(seen), len(Catalog()))
	}
}
