package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/session"
)

const playHelp = `moves:    up down left right (or u d l r); several at once: "l l u" or "left,up"
new [p]   start a new game, optionally with preset p
reset     restart the current game
switch id continue another game
sessions  list games
cell r c  describe a cell
history   show the last moves
quit      leave`

func (a *app) playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play interactively, or apply --moves and print the result",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: "rule preset to play"},
			&cli.StringFlag{Name: "moves", Aliases: []string{"m"}, Usage: "comma separated moves to apply, e.g. left,up,up"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, sessions, err := a.initializeServices()
			if err != nil {
				return err
			}
			p := &player{svc: svc, sessions: sessions, out: a.out, ttl: a.settings.SessionTTL}
			if err := p.newGame(ctx, cmd.String("preset")); err != nil {
				return err
			}
			if moves := cmd.String("moves"); moves != "" {
				return p.move(ctx, splitMoves(moves))
			}
			return p.loop(ctx, a.in)
		},
	}
}

// player is a line-oriented front end over the game service.
type player struct {
	svc      service.GameService
	sessions *session.Manager
	out      io.Writer
	ttl      time.Duration
	current  string
}

func (p *player) loop(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(p.out, `type "help" for commands`)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(p.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(p.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		quit, err := p.exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(p.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one input line and reports whether the player asked to leave.
func (p *player) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(p.out, playHelp)
		return false, nil
	case "new":
		preset := ""
		if len(fields) > 1 {
			preset = fields[1]
		}
		return false, p.newGame(ctx, preset)
	case "reset":
		state, err := p.svc.Reset(ctx, p.current)
		if err != nil {
			return false, err
		}
		p.printState(state)
		return false, nil
	case "switch":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: switch <id>")
		}
		info, err := p.svc.GetSession(ctx, fields[1])
		if err != nil {
			return false, err
		}
		p.current = info.ID
		p.printState(info.GameState)
		return false, nil
	case "sessions":
		return false, p.listSessions(ctx)
	case "cell":
		return false, p.describeCell(ctx, fields[1:])
	case "history":
		return false, p.history(ctx)
	}

	return false, p.move(ctx, splitMoves(line))
}

func (p *player) newGame(ctx context.Context, preset string) error {
	if n := p.sessions.CleanupExpiredSessions(p.ttl); n > 0 {
		log.Debug().Int("removed", n).Msg("expired games removed")
	}

	info, err := p.svc.CreateSession(ctx, preset)
	if err != nil {
		return err
	}
	p.current = info.ID
	fmt.Fprintf(p.out, "game %s (%s)\n", info.ID, info.ConfigName)
	p.printState(info.GameState)
	return nil
}

func (p *player) move(ctx context.Context, moves []string) error {
	if len(moves) == 1 {
		res, err := p.svc.Move(ctx, p.current, moves[0], false)
		if err != nil {
			return err
		}
		p.printEvents(res.Events)
		p.printState(res.GameState)
		return nil
	}

	res, err := p.svc.BulkMove(ctx, p.current, moves, false)
	if err != nil {
		return err
	}
	p.printEvents(res.Events)
	p.printState(res.GameState)
	fmt.Fprintf(p.out, "%d of %d moves played, +%d", res.MovesExecuted, res.RequestedMoves, res.ScoreDelta)
	if res.StoppedReason != "" {
		fmt.Fprintf(p.out, " (%s)", res.StoppedReason)
	}
	fmt.Fprintln(p.out)
	return nil
}

func (p *player) listSessions(ctx context.Context) error {
	infos, err := p.svc.ListSessions(ctx)
	if err != nil {
		return err
	}
	for _, info := range infos {
		marker := " "
		if info.ID == p.current {
			marker = "*"
		}
		fmt.Fprintf(p.out, "%s %s  %-10s score %d\n", marker, info.ID, info.ConfigName, info.GameState.Score)
	}
	return nil
}

func (p *player) describeCell(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: cell <row> <col>")
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("row: %w", err)
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("col: %w", err)
	}

	cell, err := p.svc.DescribeCell(ctx, p.current, row, col)
	if err != nil {
		return err
	}
	if cell.Empty {
		fmt.Fprintf(p.out, "(%d,%d) is empty\n", row, col)
		return nil
	}
	fmt.Fprintf(p.out, "(%d,%d) holds %d", row, col, cell.Value)
	if len(cell.MergeableWith) > 0 {
		fmt.Fprintf(p.out, ", merges %v", cell.MergeableWith)
	}
	fmt.Fprintln(p.out)
	return nil
}

func (p *player) history(ctx context.Context) error {
	resp, err := p.svc.GetMoveHistory(ctx, p.current, service.HistoryOptions{Limit: 10})
	if err != nil {
		return err
	}
	for _, m := range resp.Moves {
		moved := "no-op"
		if m.Moved {
			moved = fmt.Sprintf("+%d", m.ScoreGained)
		}
		fmt.Fprintf(p.out, "#%d %-5s %-6s score %d\n", m.MoveNumber, m.Direction, moved, m.Score)
	}
	fmt.Fprintf(p.out, "%d moves in total\n", resp.TotalMoves)
	return nil
}

func (p *player) printEvents(events []service.GameEvent) {
	for _, ev := range events {
		if ev.Type == service.EventWon || ev.Type == service.EventGameOver {
			fmt.Fprintf(p.out, "** %s\n", ev.Message)
		}
	}
}

func (p *player) printState(state *engine.GameState) {
	fmt.Fprintln(p.out, engine.RenderGrid(state.Cells, state.Score))
	if state.Message != "" {
		fmt.Fprintln(p.out, state.Message)
	}
}

// splitMoves accepts moves separated by commas or whitespace.
func splitMoves(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
