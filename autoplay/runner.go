package autoplay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

var ErrInvariantViolated = errors.New("invariant violated")

// Outcome says why a game stopped.
type Outcome string

const (
	OutcomeWon       Outcome = "won"
	OutcomeGameOver  Outcome = "game_over"
	OutcomeMoveLimit Outcome = "move_limit"
	OutcomeStuck     Outcome = "stuck"
	OutcomeCanceled  Outcome = "canceled"
	OutcomeViolation Outcome = "invariant_violated"
)

// Game is what the runner drives. Both *engine.GameEngine and *engine.Board
// satisfy it.
type Game interface {
	Mover
	Snapshot() engine.Snapshot
	MoveDetailed(d engine.Direction) engine.MoveOutcome
	HasWon() bool
	IsGameOver() bool
}

// GameReport summarises one finished game.
type GameReport struct {
	Outcome  Outcome         `json:"outcome"`
	Moves    int             `json:"moves"`
	Attempts int             `json:"attempts"`
	Score    uint32          `json:"score"`
	MaxTile  uint32          `json:"max_tile"`
	Won      bool            `json:"won"`
	Final    engine.Snapshot `json:"final"`
	Duration time.Duration   `json:"duration"`
}

// Runner plays a single game with a strategy, auditing the board after
// every move.
type Runner struct {
	Strategy  Strategy
	MaxMoves  int
	StopOnWin bool

	// Limiter paces the moves; nil plays as fast as possible.
	Limiter *rate.Limiter

	// OnMove, when set, sees every attempted move.
	OnMove func(attempt int, d engine.Direction, outcome engine.MoveOutcome, snap engine.Snapshot)
}

// NewRunner returns a runner with the default move cap that stops on a win.
func NewRunner(strategy Strategy) *Runner {
	return &Runner{
		Strategy:  strategy,
		MaxMoves:  engine.DefaultMaxMoves,
		StopOnWin: true,
	}
}

// Paced returns a limiter allowing one move per interval, or nil for a zero
// interval.
func Paced(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Play drives g until it is won (with StopOnWin), lost, capped or ctx is
// canceled. The report is returned even alongside an error.
func (r *Runner) Play(ctx context.Context, g Game) (*GameReport, error) {
	if r.Strategy == nil {
		return nil, fmt.Errorf("autoplay: runner has no strategy")
	}
	maxMoves := r.MaxMoves
	if maxMoves <= 0 {
		maxMoves = engine.DefaultMaxMoves
	}

	start := time.Now()
	report := &GameReport{}
	finish := func(outcome Outcome) *GameReport {
		snap := g.Snapshot()
		report.Outcome = outcome
		report.Final = snap
		report.Score = snap.Score
		report.MaxTile = snap.MaxTile
		report.Won = snap.Won
		report.Duration = time.Since(start)
		return report
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(OutcomeCanceled), err
		}
		if r.StopOnWin && g.HasWon() {
			return finish(OutcomeWon), nil
		}
		if g.IsGameOver() {
			return finish(OutcomeGameOver), nil
		}
		if report.Attempts >= maxMoves {
			return finish(OutcomeMoveLimit), nil
		}
		if err := pace(ctx, r.Limiter); err != nil {
			return finish(OutcomeCanceled), err
		}

		before := g.Snapshot()
		d, ok := r.Strategy.Next(before, g)
		if !ok {
			return finish(OutcomeStuck), nil
		}

		outcome := g.MoveDetailed(d)
		report.Attempts++
		after := g.Snapshot()

		if err := audit(before, after, outcome); err != nil {
			log.Error().Err(err).Int("attempt", report.Attempts).Str("direction", d.String()).
				Msg("board audit failed")
			return finish(OutcomeViolation), fmt.Errorf("%w: move %d (%s): %v",
				ErrInvariantViolated, report.Attempts, d, err)
		}
		if outcome.Moved {
			report.Moves++
		}
		if r.OnMove != nil {
			r.OnMove(report.Attempts, d, outcome, after)
		}
	}
}

// pace blocks until lim grants the next move or ctx is done, in which case
// it returns ctx.Err().
func pace(ctx context.Context, lim *rate.Limiter) error {
	if lim == nil {
		return nil
	}
	res := lim.Reserve()
	delay := res.Delay()
	if delay == 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		res.Cancel()
		return ctx.Err()
	}
}

// audit checks the board rules that must hold across any single move.
func audit(before, after engine.Snapshot, outcome engine.MoveOutcome) error {
	if after.Score < before.Score {
		return fmt.Errorf("score decreased from %d to %d", before.Score, after.Score)
	}
	if after.Score-before.Score != outcome.ScoreGained {
		return fmt.Errorf("score rose by %d but the move reported %d",
			after.Score-before.Score, outcome.ScoreGained)
	}
	if bad := engine.InvalidTiles(after.Cells); len(bad) > 0 {
		p := bad[0]
		return fmt.Errorf("tile %d at (%d,%d) is not a power of two", after.Cells[p.Row][p.Col], p.Row, p.Col)
	}

	if !outcome.Moved {
		if after.Cells != before.Cells || after.Score != before.Score {
			return errors.New("a no-op move changed the board")
		}
		return nil
	}

	if after.Cells == before.Cells {
		return errors.New("a reported move left the grid unchanged")
	}
	if outcome.Spawned == nil {
		return errors.New("a grid change placed no new tile")
	}
	want := engine.CountTiles(before.Cells) - outcome.Merges + 1
	if got := engine.CountTiles(after.Cells); got != want {
		return fmt.Errorf("expected %d tiles after %d merges, found %d", want, outcome.Merges, got)
	}
	return nil
}
