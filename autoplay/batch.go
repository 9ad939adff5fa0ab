package autoplay

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

const DefaultWorkers = 4

// Batch plays many independent games concurrently. Each game owns its
// engine, its random sources and its pacing limiter.
type Batch struct {
	Config   *engine.GameConfig
	Strategy string
	Workers  int
	MaxMoves int
	Interval time.Duration

	// ContinueAfterWin keeps a won game going until it is lost or capped.
	// By default a game ends as soon as it reaches the win tile.
	ContinueAfterWin bool

	// Seed makes the batch reproducible: game i plays seed Seed+i. When zero
	// the preset's own seed is used the same way, and an unseeded preset
	// plays from entropy.
	Seed int64

	Metrics *Metrics

	// OnGame is called from the worker goroutine as each game finishes.
	OnGame func(index int, report *GameReport)
}

// Summary aggregates the reports of a batch.
type Summary struct {
	Games       int            `json:"games"`
	Wins        int            `json:"wins"`
	GameOvers   int            `json:"game_overs"`
	MoveLimits  int            `json:"move_limits"`
	Canceled    int            `json:"canceled"`
	TotalMoves  int            `json:"total_moves"`
	TotalScore  uint64         `json:"total_score"`
	MaxScore    uint32         `json:"max_score"`
	MeanScore   float64        `json:"mean_score"`
	StdDevScore float64        `json:"stddev_score"`
	MeanMoves   float64        `json:"mean_moves"`
	BestTile    uint32         `json:"best_tile"`
	Tiles       map[uint32]int `json:"tiles"`
	Elapsed     time.Duration  `json:"elapsed"`
	Reports     []*GameReport  `json:"-"`
}

// Run plays games games and summarises them. On cancellation or an audit
// failure the summary covers the games that finished and the error is
// returned alongside it.
func (b *Batch) Run(ctx context.Context, games int) (*Summary, error) {
	if b.Config == nil {
		return nil, errors.New("autoplay: batch has no preset")
	}
	if err := engine.ValidateGameConfig(b.Config); err != nil {
		return nil, err
	}
	if _, err := NewStrategy(b.Strategy, nil); err != nil {
		return nil, err
	}
	if games <= 0 {
		return nil, fmt.Errorf("autoplay: games must be positive, got %d", games)
	}

	workers := b.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	log.Info().Int("games", games).Int("workers", workers).Str("preset", b.Config.Name).
		Str("strategy", b.Strategy).Msg("starting batch")
	start := time.Now()

	reports := make([]*GameReport, games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < games; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			report, err := b.playOne(gctx, i)
			reports[i] = report
			if report != nil && b.OnGame != nil {
				b.OnGame(i, report)
			}
			return err
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	summary := Summarize(lo.Compact(reports))
	summary.Elapsed = time.Since(start)

	log.Info().Int("games", summary.Games).Int("wins", summary.Wins).Uint32("max_score", summary.MaxScore).
		Float64("mean_score", summary.MeanScore).Dur("elapsed", summary.Elapsed).Msg("batch finished")
	return summary, err
}

func (b *Batch) playOne(ctx context.Context, index int) (*GameReport, error) {
	cfg := *b.Config
	base := b.Seed
	if base == 0 {
		base = cfg.Seed
	}

	var strategyRNG engine.RandomSource
	if base != 0 {
		cfg.Seed = base + int64(index)
		strategyRNG = engine.NewSeededSource(^cfg.Seed)
	}

	eng, err := engine.NewEngine(&cfg)
	if err != nil {
		return nil, err
	}
	strategy, err := NewStrategy(b.Strategy, strategyRNG)
	if err != nil {
		return nil, err
	}

	maxMoves := b.MaxMoves
	if maxMoves <= 0 {
		maxMoves = cfg.MaxMoves
	}
	runner := &Runner{
		Strategy:  strategy,
		MaxMoves:  maxMoves,
		StopOnWin: !b.ContinueAfterWin,
		Limiter:   Paced(b.Interval),
	}

	b.Metrics.started()
	defer b.Metrics.stopped()

	report, err := runner.Play(ctx, eng)
	if report != nil {
		b.Metrics.Observe(report)
		log.Debug().Int("game", index).Str("outcome", string(report.Outcome)).
			Uint32("score", report.Score).Uint32("max_tile", report.MaxTile).Int("moves", report.Moves).
			Msg("game finished")
	}
	if err != nil {
		return report, fmt.Errorf("game %d: %w", index, err)
	}
	return report, nil
}

// Summarize aggregates finished games.
func Summarize(reports []*GameReport) *Summary {
	s := &Summary{
		Games:   len(reports),
		Tiles:   map[uint32]int{},
		Reports: reports,
	}
	if len(reports) == 0 {
		return s
	}

	s.Wins = lo.CountBy(reports, func(r *GameReport) bool { return r.Won })
	s.GameOvers = lo.CountBy(reports, func(r *GameReport) bool { return r.Outcome == OutcomeGameOver })
	s.MoveLimits = lo.CountBy(reports, func(r *GameReport) bool { return r.Outcome == OutcomeMoveLimit })
	s.Canceled = lo.CountBy(reports, func(r *GameReport) bool { return r.Outcome == OutcomeCanceled })
	s.TotalMoves = lo.SumBy(reports, func(r *GameReport) int { return r.Moves })
	s.TotalScore = lo.SumBy(reports, func(r *GameReport) uint64 { return uint64(r.Score) })
	s.MaxScore = lo.Max(lo.Map(reports, func(r *GameReport, _ int) uint32 { return r.Score }))
	s.BestTile = lo.Max(lo.Map(reports, func(r *GameReport, _ int) uint32 { return r.MaxTile }))
	s.Tiles = lo.CountValuesBy(reports, func(r *GameReport) uint32 { return r.MaxTile })

	scores := lo.Map(reports, func(r *GameReport, _ int) float64 { return float64(r.Score) })
	moves := lo.Map(reports, func(r *GameReport, _ int) float64 { return float64(r.Moves) })
	s.MeanScore, s.StdDevScore = stat.MeanStdDev(scores, nil)
	if len(scores) < 2 {
		// the sample deviation is undefined for a single game
		s.StdDevScore = 0
	}
	s.MeanMoves = stat.Mean(moves, nil)
	return s
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "games: %d  wins: %d  game over: %d  move limit: %d", s.Games, s.Wins, s.GameOvers, s.MoveLimits)
	if s.Canceled > 0 {
		fmt.Fprintf(&sb, "  canceled: %d", s.Canceled)
	}
	fmt.Fprintf(&sb, "\nscore: total %d  max %d  mean %.1f  stddev %.1f", s.TotalScore, s.MaxScore, s.MeanScore, s.StdDevScore)
	fmt.Fprintf(&sb, "\nmoves: total %d  mean %.1f", s.TotalMoves, s.MeanMoves)

	tiles := lo.Keys(s.Tiles)
	slices.Sort(tiles)
	sb.WriteString("\nbest tiles:")
	for _, t := range tiles {
		fmt.Fprintf(&sb, " %dx%d", t, s.Tiles[t])
	}
	if s.Elapsed > 0 {
		fmt.Fprintf(&sb, "\nelapsed: %s", s.Elapsed.Round(time.Millisecond))
	}
	return sb.String()
}
