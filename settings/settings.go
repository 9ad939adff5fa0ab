package settings

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GAME2048"

// Keys accepted by Load, both as overrides and (upper-cased, prefixed) as
// environment variables.
const (
	KeyConfigDir     = "config_dir"
	KeyDefaultPreset = "default_preset"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyWorkers       = "workers"
	KeyGames         = "games"
	KeyMoveInterval  = "move_interval"
	KeyMaxMoves      = "max_moves"
	KeySessionTTL    = "session_ttl"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the process-level knobs, as opposed to the rule presets.
type Settings struct {
	ConfigDir     string
	DefaultPreset string
	LogLevel      string
	LogFormat     string
	Workers       int
	Games         int
	MoveInterval  time.Duration
	MaxMoves      int
	SessionTTL    time.Duration
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Settings {
	return Settings{
		ConfigDir:     "configs",
		DefaultPreset: "classic",
		LogLevel:      "info",
		LogFormat:     "console",
		Workers:       4,
		Games:         10,
		MaxMoves:      1000,
		SessionTTL:    24 * time.Hour,
	}
}

// Load resolves settings from, lowest first: defaults, envFile (".env" when
// empty, and then only if present), GAME2048_* environment variables and
// overrides. Variables already in the environment win over the file.
func Load(envFile string, overrides map[string]any) (*Settings, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault(KeyConfigDir, d.ConfigDir)
	v.SetDefault(KeyDefaultPreset, d.DefaultPreset)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyGames, d.Games)
	v.SetDefault(KeyMoveInterval, d.MoveInterval)
	v.SetDefault(KeyMaxMoves, d.MaxMoves)
	v.SetDefault(KeySessionTTL, d.SessionTTL)

	for key, value := range overrides {
		v.Set(key, value)
	}

	s := &Settings{
		ConfigDir:     v.GetString(KeyConfigDir),
		DefaultPreset: v.GetString(KeyDefaultPreset),
		LogLevel:      strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:     strings.ToLower(v.GetString(KeyLogFormat)),
		Workers:       v.GetInt(KeyWorkers),
		Games:         v.GetInt(KeyGames),
		MoveInterval:  v.GetDuration(KeyMoveInterval),
		MaxMoves:      v.GetInt(KeyMaxMoves),
		SessionTTL:    v.GetDuration(KeySessionTTL),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func loadEnvFile(envFile string) error {
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}

	err := godotenv.Load(envFile)
	switch {
	case err == nil:
		log.Debug().Str("file", envFile).Msg("loaded environment file")
		return nil
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
}

// Validate reports the first setting out of range.
func (s *Settings) Validate() error {
	switch {
	case strings.TrimSpace(s.ConfigDir) == "":
		return fmt.Errorf("%w: config dir is required", ErrInvalidSettings)
	case strings.TrimSpace(s.DefaultPreset) == "":
		return fmt.Errorf("%w: default preset is required", ErrInvalidSettings)
	case s.LogLevel == "":
		return fmt.Errorf("%w: log level is required", ErrInvalidSettings)
	case s.LogFormat != "console" && s.LogFormat != "json":
		return fmt.Errorf("%w: log format must be console or json, got %q", ErrInvalidSettings, s.LogFormat)
	case s.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidSettings, s.Workers)
	case s.Games < 1:
		return fmt.Errorf("%w: games must be at least 1, got %d", ErrInvalidSettings, s.Games)
	case s.MoveInterval < 0:
		return fmt.Errorf("%w: move interval cannot be negative, got %s", ErrInvalidSettings, s.MoveInterval)
	case s.MaxMoves < 1:
		return fmt.Errorf("%w: max moves must be at least 1, got %d", ErrInvalidSettings, s.MaxMoves)
	case s.SessionTTL <= 0:
		return fmt.Errorf("%w: session ttl must be positive, got %s", ErrInvalidSettings, s.SessionTTL)
	}

	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q: %v", ErrInvalidSettings, s.LogLevel, err)
	}
	return nil
}

// Logger builds a logger writing to w in the configured format. It does not
// touch the global level; see ConfigureLogging.
func (s *Settings) Logger(w io.Writer) zerolog.Logger {
	if s.LogFormat == "json" {
		return zerolog.New(w).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

// ConfigureLogging installs Logger(w) as the global logger and applies the
// log level.
func (s *Settings) ConfigureLogging(w io.Writer) {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = s.Logger(w)
}
