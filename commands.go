package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/autoplay"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

var errChecksFailed = errors.New("mechanics check failed")

func (a *app) autoplayCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "let the computer play a batch of games and print a summary",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Usage: "number of games (default from settings)"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "games played at once (default from settings)"},
			&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: "rule preset to play"},
			&cli.StringFlag{Name: "strategy", Aliases: []string{"s"}, Value: "first", Usage: "first or random"},
			&cli.DurationFlag{Name: "interval", Usage: "pause between moves of a game, e.g. 200ms"},
			&cli.IntFlag{Name: "max-moves", Usage: "move cap per game (default from settings)"},
			&cli.IntFlag{Name: "seed", Usage: "replay the batch: game i plays seed+i"},
			&cli.BoolFlag{Name: "stop-on-win", Value: true, Usage: "end a game as soon as it is won (--stop-on-win=false plays on)"},
			&cli.BoolFlag{Name: "show", Usage: "print the final board of every game"},
			&cli.BoolFlag{Name: "watch", Usage: "play a single game and print the board after every move"},
			&cli.BoolFlag{Name: "metrics", Usage: "print the batch metrics in Prometheus text format"},
		},
		Action: a.runAutoplay,
	}
}

func (a *app) runAutoplay(ctx context.Context, cmd *cli.Command) error {
	s := a.settings
	preset, err := a.loadPreset(cmd.String("preset"))
	if err != nil {
		return err
	}

	games := s.Games
	if cmd.IsSet("games") {
		games = int(cmd.Int("games"))
	}
	workers := s.Workers
	if cmd.IsSet("workers") {
		workers = int(cmd.Int("workers"))
	}
	maxMoves := s.MaxMoves
	if cmd.IsSet("max-moves") {
		maxMoves = int(cmd.Int("max-moves"))
	}
	interval := s.MoveInterval
	if cmd.IsSet("interval") {
		interval = cmd.Duration("interval")
	}

	if cmd.Bool("watch") {
		return a.watch(ctx, preset, cmd.String("strategy"), maxMoves, interval, cmd.Int("seed"), cmd.Bool("stop-on-win"))
	}

	reg := prometheus.NewRegistry()
	batch := &autoplay.Batch{
		Config:   preset,
		Strategy: cmd.String("strategy"),
		Workers:  workers,
		MaxMoves: maxMoves,
		Interval: interval,
		Seed:     cmd.Int("seed"),
		Metrics:  autoplay.NewMetrics(reg),

		ContinueAfterWin: !cmd.Bool("stop-on-win"),
	}
	if cmd.Bool("show") {
		var mu sync.Mutex
		batch.OnGame = func(i int, r *autoplay.GameReport) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(a.out, "game %d: %s after %d moves\n%s\n\n", i+1, r.Outcome, r.Moves,
				engine.RenderGrid(r.Final.Cells, r.Score))
		}
	}

	summary, err := batch.Run(ctx, games)
	if summary != nil {
		fmt.Fprintf(a.out, "preset: %s  strategy: %s\n%s\n", preset.Name, batch.Strategy, summary)
	}
	if cmd.Bool("metrics") {
		if werr := writeMetrics(a.out, reg); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

// watch plays one game in the foreground, drawing every move.
func (a *app) watch(ctx context.Context, preset *engine.GameConfig, strategyName string,
	maxMoves int, interval time.Duration, seed int64, stopOnWin bool) error {
	cfg := *preset
	var strategyRNG engine.RandomSource
	if seed != 0 {
		cfg.Seed = seed
		strategyRNG = engine.NewSeededSource(^seed)
	}

	eng, err := engine.NewEngine(&cfg)
	if err != nil {
		return err
	}
	strategy, err := autoplay.NewStrategy(strategyName, strategyRNG)
	if err != nil {
		return err
	}

	runner := autoplay.NewRunner(strategy)
	runner.MaxMoves = maxMoves
	runner.StopOnWin = stopOnWin
	runner.Limiter = autoplay.Paced(interval)
	runner.OnMove = func(attempt int, d engine.Direction, outcome engine.MoveOutcome, snap engine.Snapshot) {
		if !outcome.Moved {
			fmt.Fprintf(a.out, "#%d %s: nothing moved\n", attempt, d)
			return
		}
		fmt.Fprintf(a.out, "#%d %s +%d\n%s\n", attempt, d, outcome.ScoreGained, engine.RenderGrid(snap.Cells, snap.Score))
	}

	fmt.Fprintln(a.out, engine.RenderGrid(eng.Snapshot().Cells, 0))
	report, err := runner.Play(ctx, eng)
	if report != nil {
		fmt.Fprintf(a.out, "%s: score %d, best tile %d, %d moves\n", report.Outcome, report.Score, report.MaxTile, report.Moves)
	}
	return err
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "verify the merge, slide, game over and win rules on fixed positions",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			results := autoplay.CheckMechanics()
			for _, r := range results {
				status := "PASS"
				if !r.Passed {
					status = "FAIL"
				}
				fmt.Fprintf(a.out, "%s  %s", status, r.Name)
				if r.Detail != "" {
					fmt.Fprintf(a.out, ": %s", r.Detail)
				}
				fmt.Fprintln(a.out)
			}
			if !autoplay.AllPassed(results) {
				return errChecksFailed
			}
			return nil
		},
	}
}

func (a *app) presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "list the rule presets in the config directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configs, err := a.presets()
			if err != nil {
				return err
			}
			infos, err := configs.ListConfigs()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tWIN\tP(2)\tSEEDED\tDESCRIPTION")
			for _, info := range infos {
				seeded := ""
				if info.Seeded {
					seeded = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%s\t%s\n",
					info.ConfigID, info.Name, info.WinTile, info.TwoProbability, seeded, info.Description)
			}
			return tw.Flush()
		},
	}
}
