package sudoku

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrOutOfBounds = errors.New("sudoku cell out of bounds")
	ErrGivenCell   = errors.New("sudoku given cell is immutable")
	ErrBadValue    = errors.New("sudoku value must be 0-9")
)

// Grid is a 9x9 number grid; zero marks a blank cell.
type Grid [9][9]int

// State is the sudoku game state payload. UserInput starts as a copy of
// Puzzle; cells that are non-zero in Puzzle are givens and never change.
// Conflicts holds "row-col" keys for cells currently disagreeing with the
// solution. Validation compares against the known solution grid rather than
// checking row/col/box uniqueness, matching the legacy behavior.
type State struct {
	Puzzle    Grid      `json:"puzzle"`
	Solution  Grid      `json:"solution"`
	UserInput Grid      `json:"user_input"`
	Conflicts []string  `json:"errors"`
	Completed bool      `json:"is_completed"`
	Hints     int       `json:"hints"`
	StartedAt time.Time `json:"start_time"`
}

// NewState seeds a fresh state from a catalog puzzle.
func NewState(p PuzzlePair, now time.Time) *State {
	return &State{
		Puzzle:    p.Puzzle,
		Solution:  p.Solution,
		UserInput: p.Puzzle,
		Conflicts: []string{},
		Hints:     3,
		StartedAt: now,
	}
}

// SetCell writes value into the user grid and recomputes that cell's
// membership in the conflict set. Writing zero clears the cell.
func (s *State) SetCell(row, col, value int) error {
	if row < 0 || row > 8 || col < 0 || col > 8 {
		return ErrOutOfBounds
	}
	if value < 0 || value > 9 {
		return ErrBadValue
	}
	if s.Puzzle[row][col] != 0 {
		return ErrGivenCell
	}

	s.UserInput[row][col] = value

	key := conflictKey(row, col)
	if value != 0 && s.Solution[row][col] != value {
		if !contains(s.Conflicts, key) {
			s.Conflicts = append(s.Conflicts, key)
		}
	} else {
		s.Conflicts = remove(s.Conflicts, key)
	}
	return nil
}

// IsComplete reports whether every user-input cell equals the solution.
func (s *State) IsComplete() bool {
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			if s.UserInput[row][col] == 0 || s.UserInput[row][col] != s.Solution[row][col] {
				return false
			}
		}
	}
	return true
}

func conflictKey(row, col int) string {
	return fmt.Sprintf("%d-%d", row, col)
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func remove(keys []string, key string) []string {
	out := keys[:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}

// PuzzlePair couples a fixed puzzle with its known solution.
type PuzzlePair struct {
	Puzzle   Grid
	Solution Grid
}

// Pick selects a random catalog puzzle via the injected rand source.
func Pick(rng *rand.Rand) PuzzlePair {
	return catalog[rng.Intn(len(catalog))]
}

// Catalog returns the fixed puzzles, mainly for tests.
func Catalog() []PuzzlePair {
	out := make([]PuzzlePair, len(catalog))
	copy(out, catalog)
	return out
}
