package service

import (
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Stop reason codes reported by BulkMove
const (
	StopNoChange = "no_change"
	StopGameOver = "game_over"
)

// Event types
const (
	EventMove     = "move"
	EventMerge    = "merge"
	EventSpawn    = "spawn"
	EventWon      = "won"
	EventGameOver = "game_over"
	EventReset    = "reset"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // no_change|game_over
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartScore uint32 `json:"start_score"`
	EndScore   uint32 `json:"end_score"`
	ScoreDelta uint32 `json:"score_delta"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver      bool     `json:"game_over"`
	Won           bool     `json:"won"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx         int           `json:"idx"`
	Dir         string        `json:"dir"`
	Moved       bool          `json:"moved"`
	ScoreBefore uint32        `json:"score_before"`
	ScoreAfter  uint32        `json:"score_after"`
	ScoreGained uint32        `json:"score_gained"`
	Merges      int           `json:"merges"`
	Spawned     *engine.Spawn `json:"spawned,omitempty"`
	MaxTile     uint32        `json:"max_tile"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"` // "move", "merge", "spawn", "won", "game_over", "reset"
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
	Value     uint32           `json:"value,omitempty"`
}

// CellInfo describes one cell and the neighbours it could merge with
type CellInfo struct {
	Row           int                `json:"row"`
	Col           int                `json:"col"`
	Value         uint32             `json:"value"`
	Empty         bool               `json:"empty"`
	MergeableWith []engine.Direction `json:"mergeable_with,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a rules preset
type ConfigInfo struct {
	Filename       string  `json:"filename"`
	ConfigID       string  `json:"config_id"` // The identifier to use for session creation
	Name           string  `json:"name"`      // Display name
	Description    string  `json:"description"`
	WinTile        uint32  `json:"win_tile"`
	TwoProbability float64 `json:"two_probability"`
	Seeded         bool    `json:"seeded"`
}
