package engine

import (
	"fmt"
	"strings"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsGameOver() bool
	HasWon() bool
	GetScore() uint32
	Snapshot() Snapshot

	// Movement operations
	Move(d Direction) bool
	MoveDetailed(d Direction) MoveOutcome
	CanMove(d Direction) bool
	GetPossibleMoves() []Direction

	// Cells
	Cell(row, col int) uint32
	Lookup(row, col int) (uint32, error)

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine couples a Board with its preset, a move history and the
// message shown to the player. Like Board it has a single owner.
type GameEngine struct {
	board  *Board
	config *GameConfig

	message      string
	history      []MoveHistoryEntry
	currentMoves []MoveHistoryEntry
	totalMoves   int
}

// NewEngine creates a new game engine with the provided preset. A non-zero
// seed in the preset makes the game deterministic.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	var rng RandomSource
	if config.Seed != 0 {
		rng = NewSeededSource(config.Seed)
	} else {
		rng = NewRandomSource()
	}
	return newEngine(config, rng), nil
}

// NewEngineWithSource creates an engine that draws from rng, for tests and
// replays.
func NewEngineWithSource(config *GameConfig, rng RandomSource) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return newEngine(config, rng), nil
}

// NewEngineWithDefaults creates a new game engine with the classic preset
func NewEngineWithDefaults() *GameEngine {
	return newEngine(DefaultGameConfig(), NewRandomSource())
}

// NewEngineWithBoard wraps an existing board, typically one built with
// NewBoardFromCells. The board adopts the preset's rules.
func NewEngineWithBoard(config *GameConfig, board *Board) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if board == nil {
		return nil, fmt.Errorf("engine: board is nil")
	}
	board.rules = config.Rules()
	return &GameEngine{
		board:        board,
		config:       config,
		message:      config.Messages.Welcome,
		history:      []MoveHistoryEntry{},
		currentMoves: []MoveHistoryEntry{},
	}, nil
}

func newEngine(config *GameConfig, rng RandomSource) *GameEngine {
	return &GameEngine{
		board:        NewBoardWithRules(rng, config.Rules()),
		config:       config,
		message:      config.Messages.Welcome,
		history:      []MoveHistoryEntry{},
		currentMoves: []MoveHistoryEntry{},
	}
}

// Board exposes the underlying board. Callers must not retain it across
// owners.
func (e *GameEngine) Board() *Board {
	return e.board
}

// GetState returns a fresh view of the game state
func (e *GameEngine) GetState() *GameState {
	return &GameState{
		Snapshot:          e.board.Snapshot(),
		Message:           e.message,
		ConfigName:        e.config.Name,
		MoveHistory:       e.history,
		TotalMoves:        e.totalMoves,
		CurrentMoves:      e.currentMoves,
		CurrentMovesCount: len(e.currentMoves),
		PossibleMoves:     e.board.PossibleMoves(),
	}
}

// Snapshot returns an immutable copy of the board
func (e *GameEngine) Snapshot() Snapshot {
	return e.board.Snapshot()
}

// Reset starts a new game on the same preset. Cumulative history survives;
// the current segment is cleared.
func (e *GameEngine) Reset() *GameState {
	e.board.Reset()
	e.currentMoves = []MoveHistoryEntry{}
	e.message = e.config.Messages.Welcome
	return e.GetState()
}

// IsGameOver returns whether no move can change the grid
func (e *GameEngine) IsGameOver() bool {
	return e.board.IsGameOver()
}

// HasWon returns whether the win tile is on the board
func (e *GameEngine) HasWon() bool {
	return e.board.HasWon()
}

// GetScore returns the current score
func (e *GameEngine) GetScore() uint32 {
	return e.board.Score()
}

// Cell returns the tile at row, col; see Board.Cell for the precondition.
func (e *GameEngine) Cell(row, col int) uint32 {
	return e.board.Cell(row, col)
}

// Lookup returns the tile at row, col or ErrOutOfBounds.
func (e *GameEngine) Lookup(row, col int) (uint32, error) {
	return e.board.Lookup(row, col)
}

// Move shifts the tiles and records the attempt in the history
func (e *GameEngine) Move(d Direction) bool {
	return e.MoveDetailed(d).Moved
}

// MoveDetailed shifts the tiles, records the attempt and updates the message.
func (e *GameEngine) MoveDetailed(d Direction) MoveOutcome {
	wasWon := e.board.HasWon()
	outcome := e.board.MoveDetailed(d)
	e.addMoveToHistory(outcome)

	score := e.board.Score()
	switch {
	case !outcome.Moved:
		e.message = formatMessage(e.config.Messages.NoMove, score)
	case e.board.IsGameOver():
		e.message = formatMessage(e.config.Messages.GameOver, score)
	case !wasWon && e.board.HasWon():
		e.message = formatMessage(e.config.Messages.Won, e.config.WinTile)
	default:
		e.message = formatMessage(e.config.Messages.Moved, score)
	}
	return outcome
}

// CanMove checks if moving in d would change the grid
func (e *GameEngine) CanMove(d Direction) bool {
	return e.board.CanMove(d)
}

// GetPossibleMoves returns all directions that would change the grid
func (e *GameEngine) GetPossibleMoves() []Direction {
	return e.board.PossibleMoves()
}

// GetConfig returns the preset this engine plays
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// BulkMove executes multiple moves in sequence, returning whether each one
// changed the grid. It stops once the game is over.
func (e *GameEngine) BulkMove(moves []Direction) []bool {
	results := make([]bool, 0, len(moves))

	for _, d := range moves {
		if e.IsGameOver() {
			break
		}
		results = append(results, e.Move(d))
	}

	return results
}

func (e *GameEngine) addMoveToHistory(outcome MoveOutcome) {
	entry := MoveHistoryEntry{
		Direction:   outcome.Direction,
		Moved:       outcome.Moved,
		ScoreGained: outcome.ScoreGained,
		Score:       e.board.Score(),
		Merges:      outcome.Merges,
		Spawned:     outcome.Spawned,
		Timestamp:   time.Now().Unix(),
		MoveNumber:  e.totalMoves + 1,
	}
	e.history = append(e.history, entry)
	e.currentMoves = append(e.currentMoves, entry)
	e.totalMoves++
}

func formatMessage(template string, value uint32) string {
	if strings.Contains(template, "%d") {
		return fmt.Sprintf(template, value)
	}
	return template
}
