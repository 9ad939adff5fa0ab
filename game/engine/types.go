package engine

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Size is the width and height of the board.
	Size = 4

	DefaultWinTile        uint32  = 2048
	DefaultTwoProbability float64 = 0.9
	DefaultMaxMoves               = 1000

	// Validation constants
	MinWinTile   uint32 = 8
	MaxWinTile   uint32 = 1 << 17
	MaxBulkMoves        = 50
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrOutOfBounds      = errors.New("cell coordinates out of bounds")
)

// Direction is one of the four ways the tiles can be shifted
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in the order controllers try them.
var Directions = [4]Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// ParseDirection converts names such as "up", "L" or "Right" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MarshalText encodes the direction by name so JSON payloads stay readable.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Position addresses a cell by row and column
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Rules are the tunable parts of the game
type Rules struct {
	WinTile        uint32
	TwoProbability float64
}

// DefaultRules returns the classic 2048 rules.
func DefaultRules() Rules {
	return Rules{
		WinTile:        DefaultWinTile,
		TwoProbability: DefaultTwoProbability,
	}
}

// Spawn describes a tile placed after a move
type Spawn struct {
	Position
	Value uint32 `json:"value"`
}

// MoveOutcome is the detailed result of a single move
type MoveOutcome struct {
	Direction   Direction `json:"direction"`
	Moved       bool      `json:"moved"`
	ScoreGained uint32    `json:"score_gained"`
	Merges      int       `json:"merges"`
	Spawned     *Spawn    `json:"spawned,omitempty"`
}

// Snapshot is an immutable copy of the board that renderers read between frames
type Snapshot struct {
	Cells      [Size][Size]uint32 `json:"cells"`
	Score      uint32             `json:"score"`
	GameOver   bool               `json:"game_over"`
	Won        bool               `json:"won"`
	MaxTile    uint32             `json:"max_tile"`
	EmptyCells int                `json:"empty_cells"`
}

// Cell returns the value at row, col of the snapshot.
func (s Snapshot) Cell(row, col int) uint32 {
	return s.Cells[row][col]
}

// GameConfig represents a rules preset loaded from JSON
type GameConfig struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	WinTile        uint32  `json:"win_tile"`
	TwoProbability float64 `json:"two_probability"`
	Seed           int64   `json:"seed,omitempty"`
	MaxMoves       int     `json:"max_moves,omitempty"`
	Messages       struct {
		Welcome  string `json:"welcome"`
		Moved    string `json:"moved"`
		NoMove   string `json:"no_move"`
		Won      string `json:"won"`
		GameOver string `json:"game_over"`
	} `json:"messages"`
}

// Rules extracts the engine rules from the preset.
func (c *GameConfig) Rules() Rules {
	return Rules{
		WinTile:        c.WinTile,
		TwoProbability: c.TwoProbability,
	}
}

// GameState represents the complete state exposed to controllers
type GameState struct {
	Snapshot
	Message     string             `json:"message"`
	ConfigName  string             `json:"config_name"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. MoveHistory keeps growing.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	PossibleMoves []Direction `json:"possible_moves"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Direction   Direction `json:"direction"`
	Moved       bool      `json:"moved"`
	ScoreGained uint32    `json:"score_gained"`
	Score       uint32    `json:"score"`
	Merges      int       `json:"merges"`
	Spawned     *Spawn    `json:"spawned,omitempty"`
	Timestamp   int64     `json:"timestamp"`
	MoveNumber  int       `json:"move_number"`
}
