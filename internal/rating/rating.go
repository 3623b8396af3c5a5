// Package rating holds the pure stats-ledger transformation applied once per
// finished game, plus the weighted points formula exposed as a read-time
// projection. The incremental deltas are the ground truth for total_points;
// the formula exists for display-consistency checks only.
package rating

import (
	"errors"
	"time"

	"github.com/friendschat/games/internal/domain"
)

var ErrUnknownOutcome = errors.New("unknown game outcome")

// Outcome is a finished game's result from the owning player's perspective.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Fixed deltas per outcome; sudoku has no draw.
const (
	chessWinPoints  = 25
	sudokuWinPoints = 30
	drawPoints      = 5
	lossPoints      = -10

	winRating  = 15
	drawRating = 5
	lossRating = -10
)

// Delta is the ledger increment produced by one finished game. Repositories
// fold it into the stored row atomically so two games of the same user
// finishing at once both land; no caller ever writes absolute counters.
type Delta struct {
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

	Points int
	Rating int
}

// OutcomeDelta translates a finished game into its ledger increment.
// Sudoku draws do not exist and are rejected.
func OutcomeDelta(gameType domain.GameType, outcome Outcome, mode domain.GameMode) (Delta, error) {
	var d Delta
	switch outcome {
	case OutcomeWin:
		d.Rating = winRating
		if gameType == domain.TypeChess {
			d.Points = chessWinPoints
		} else {
			d.Points = sudokuWinPoints
		}
	case OutcomeDraw:
		if gameType != domain.TypeChess {
			return Delta{}, ErrUnknownOutcome
		}
		d.Points = drawPoints
		d.Rating = drawRating
	case OutcomeLoss:
		d.Points = lossPoints
		d.Rating = lossRating
	default:
		return Delta{}, ErrUnknownOutcome
	}

	switch gameType {
	case domain.TypeChess:
		d.ChessTotalGames = 1
		switch outcome {
		case OutcomeWin:
			d.ChessWins = 1
			if mode == domain.ModeBot {
				d.ChessBotWins = 1
			} else {
				d.ChessPvPWins = 1
			}
		case OutcomeLoss:
			d.ChessLosses = 1
		case OutcomeDraw:
			d.ChessDraws = 1
		}
	case domain.TypeSudoku:
		d.SudokuTotalGames = 1
		switch outcome {
		case OutcomeWin:
			d.SudokuWins = 1
			if mode == domain.ModeBot {
				d.SudokuBotWins = 1
			} else {
				d.SudokuPvPWins = 1
			}
		case OutcomeLoss:
			d.SudokuLosses = 1
		}
	default:
		return Delta{}, ErrUnknownOutcome
	}
	return d, nil
}

// Fold applies the delta to a ledger entry in place with the bounds:
// floored points, clamped rating, highest-rating watermark.
func (d Delta) Fold(s *domain.Stats, now time.Time) {
	s.ChessWins += d.ChessWins
	s.ChessLosses += d.ChessLosses
	s.ChessDraws += d.ChessDraws
	s.ChessTotalGames += d.ChessTotalGames
	s.ChessBotWins += d.ChessBotWins
	s.ChessPvPWins += d.ChessPvPWins

	s.SudokuWins += d.SudokuWins
	s.SudokuLosses += d.SudokuLosses
	s.SudokuTotalGames += d.SudokuTotalGames
	s.SudokuBotWins += d.SudokuBotWins
	s.SudokuPvPWins += d.SudokuPvPWins

	s.TotalPoints += d.Points
	if s.TotalPoints < 0 {
		s.TotalPoints = 0
	}
	s.Rating = clampRating(s.Rating + d.Rating)
	if s.Rating > s.HighestRating {
		s.HighestRating = s.Rating
	}
	s.UpdatedAt = now
}

// ApplyOutcome folds one finished game into the ledger entry in place:
// counters, bounded rating, highest-rating watermark and floored points.
func ApplyOutcome(s *domain.Stats, gameType domain.GameType, outcome Outcome, mode domain.GameMode, now time.Time) error {
	d, err := OutcomeDelta(gameType, outcome, mode)
	if err != nil {
		return err
	}
	d.Fold(s, now)
	return nil
}

// ProjectedPoints recomputes total points from the counters via the legacy
// weighted formula. It is a denormalized projection, never written back.
func ProjectedPoints(s *domain.Stats) int {
	ratingBonus := (s.Rating - domain.BaselineRating) / 10
	if ratingBonus < 0 {
		ratingBonus = 0
	}
	return s.ChessWins*25 +
		s.ChessDraws*10 +
		s.SudokuWins*30 +
		s.ChessPvPWins*15 +
		s.SudokuPvPWins*20 +
		ratingBonus
}

func clampRating(r int) int {
	if r < domain.MinRating {
		return domain.MinRating
	}
	if r > domain.MaxRating {
		return domain.MaxRating
	}
	return r
}
