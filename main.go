// Command game2048 plays 2048 in the terminal.
//
// Commands:
//  1. "play" – interactive game over the in-process game service, or a
//     one-shot move list with --moves
//  2. "autoplay" – headless batch of computer-played games with a summary
//  3. "check" – replays fixed positions to verify the merge rules
//  4. "presets" – lists the rule presets found in the config directory
//
// Settings come from defaults, an optional .env file, GAME2048_* environment
// variables and the global flags, in increasing order of precedence.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/session"
	"github.com/wricardo/mcp-training/game2048/settings"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "game2048"
)

// app carries what the commands share once the root Before hook has run.
type app struct {
	out    io.Writer
	in     io.Reader
	logOut io.Writer

	settings *settings.Settings
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{out: os.Stdout, in: os.Stdin, logOut: os.Stderr}
	if err := a.command().Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("game2048 failed")
		os.Exit(1)
	}
}

// command builds the CLI tree.
func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "play 2048 in the terminal or let the computer play",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Usage: "directory containing rule presets (default \"configs\")"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "console or json"},
			&cli.StringFlag{Name: "env-file", Usage: "environment file to load (default .env when present)"},
		},
		Before: a.before,
		Commands: []*cli.Command{
			a.playCommand(),
			a.autoplayCommand(),
			a.checkCommand(),
			a.presetsCommand(),
		},
	}
}

// before resolves the settings and installs the global logger.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	overrides := map[string]any{}
	for flag, key := range map[string]string{
		"config-dir": settings.KeyConfigDir,
		"log-level":  settings.KeyLogLevel,
		"log-format": settings.KeyLogFormat,
	} {
		if cmd.IsSet(flag) {
			overrides[key] = cmd.String(flag)
		}
	}

	s, err := settings.Load(cmd.String("env-file"), overrides)
	if err != nil {
		return ctx, err
	}
	s.ConfigureLogging(a.logOut)
	a.settings = s

	log.Debug().Str("config_dir", s.ConfigDir).Str("preset", s.DefaultPreset).Msg("settings loaded")
	return ctx, nil
}

// presets opens the config directory and applies the default preset
// setting, falling back to the manager's own choice when it is missing.
func (a *app) presets() (*config.Manager, error) {
	configs, err := config.NewManager(a.settings.ConfigDir)
	if err != nil {
		return nil, err
	}
	if err := configs.SetDefault(a.settings.DefaultPreset); err != nil {
		log.Warn().Err(err).Str("preset", a.settings.DefaultPreset).
			Str("using", configs.GetDefault().Name).Msg("default preset unavailable")
	}
	return configs, nil
}

// loadPreset returns the named preset, or the default one for an empty name.
func (a *app) loadPreset(name string) (*engine.GameConfig, error) {
	configs, err := a.presets()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return configs.GetDefault(), nil
	}
	return configs.LoadConfig(name)
}

// initializeServices wires the in-memory session store and the preset
// manager behind the game service.
func (a *app) initializeServices() (service.GameService, *session.Manager, error) {
	configs, err := a.presets()
	if err != nil {
		return nil, nil, err
	}
	sessions := session.NewManager()
	return service.NewGameService(sessions, configs), sessions, nil
}
