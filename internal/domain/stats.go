package domain

import "time"

// Baseline values for a lazily created stats row.
const (
	BaselineRating = 1200
	MinRating      = 800
	MaxRating      = 2800
)

// Stats is the per-user aggregate ledger entry. It is created lazily on the
// first game-end event and mutated only by the rating transformation.
// Invariants: Rating stays within [MinRating, MaxRating], HighestRating never
// drops below Rating, TotalPoints never goes negative.
type Stats struct {
	UserID int64

	ChessWins       int
	ChessLosses     int
	ChessDraws      int
	ChessTotalGames int
	ChessBotWins    int
	ChessPvPWins    int

	SudokuWins       int
	SudokuLosses     int
	SudokuTotalGames int
	SudokuBotWins    int
	SudokuPvPWins    int

	TotalPoints   int
	Rating        int
	HighestRating int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaselineStats returns a fresh ledger entry with all counters at zero and
// the rating at its baseline.
func NewBaselineStats(userID int64, now time.Time) *Stats {
	return &Stats{
		UserID:        userID,
		Rating:        BaselineRating,
		HighestRating: BaselineRating,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TotalWins aggregates wins across game types.
func (s *Stats) TotalWins() int { return s.ChessWins + s.SudokuWins }

// TotalGames aggregates finished games across game types.
func (s *Stats) TotalGames() int { return s.ChessTotalGames + s.SudokuTotalGames }

// WinPercentage is the overall win rate rounded to two decimals, 0 when no
// games were played.
func (s *Stats) WinPercentage() float64 {
	total := s.TotalGames()
	if total == 0 {
		return 0
	}
	pct := float64(s.TotalWins()) * 100.0 / float64(total)
	return float64(int(pct*100+0.5)) / 100
}
