package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

var ErrCellOutOfRange = errors.New("cell out of range")

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a preset display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		if cfg, ok := lo.Find(availableConfigs, func(c *ConfigInfo) bool { return c.Name == configName }); ok {
			return cfg.ConfigID
		}
	}
	if configName == "" {
		return "classic"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				ids := lo.Map(availableConfigs, func(c *ConfigInfo, _ int) string { return c.ConfigID })
				return nil, fmt.Errorf("failed to load config %q (available: %v): %w", configName, ids, err)
			}
			return nil, fmt.Errorf("failed to load config %q: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate the ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Debug().Str("session", session.ID).Str("preset", configID).Msg("session created")
	return s.sessionInfo(session, configID), nil
}

// GetSession retrieves session information and marks the session accessed.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session, s.getConfigID(session.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	return lo.Map(sessions, func(sess *Session, _ int) *SessionInfo {
		return s.sessionInfo(sess, s.getConfigID(sess.Config.Name))
	}), nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	d, err := engine.ParseDirection(direction)
	if err != nil {
		log.Debug().Err(err).Str("session", sessionID).Msg("rejected move")
		return nil, fmt.Errorf("move: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		events = append(events, resetGame(sess))
	}

	step, stepEvents := playStep(sess, d, 1)
	state := sess.Engine.GetState()

	return &MoveResult{
		Success:   step.Moved,
		GameState: state,
		Message:   state.Message,
		Events:    append(events, stepEvents...),
		Step:      &step,
	}, nil
}

// BulkMove executes up to MaxBulkMoves moves in sequence. It stops at the
// first move that changes nothing or once the game is over.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	// Parse everything up front so a bad direction executes nothing
	directions := make([]engine.Direction, len(moves))
	for i, move := range moves {
		d, err := engine.ParseDirection(move)
		if err != nil {
			log.Debug().Err(err).Str("session", sessionID).Int("index", i+1).Msg("rejected bulk move")
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		directions[i] = d
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	if reset {
		result.Events = append(result.Events, resetGame(sess))
	}
	result.StartScore = sess.Engine.GetScore()

	for i, d := range directions {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game is over"
			result.StopReasonCode = StopGameOver
			result.StoppedOnMove = i + 1
			break
		}

		step, events := playStep(sess, d, i+1)
		if !step.Moved {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d (%s) changed nothing", i+1, d)
			result.StopReasonCode = StopNoChange
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		result.Steps = append(result.Steps, step)
		result.Events = append(result.Events, events...)
	}

	endState := sess.Engine.GetState()
	result.GameState = endState
	result.EndScore = endState.Score
	result.ScoreDelta = endState.Score - result.StartScore
	result.GameOver = endState.GameOver
	result.Won = endState.Won
	result.Message = endState.Message
	result.PossibleMoves = directionNames(endState.PossibleMoves)

	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = StopGameOver
	}

	return result, nil
}

// Reset resets a game session to a fresh board
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// DescribeCell reports the value at row, col and which neighbours share it
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, row, col int) (*CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	value, err := sess.Engine.Lookup(row, col)
	if err != nil {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrCellOutOfRange, row, col)
	}

	info := &CellInfo{Row: row, Col: col, Value: value, Empty: value == 0}
	if value == 0 {
		return info, nil
	}

	neighbours := map[engine.Direction][2]int{
		engine.Up:    {row - 1, col},
		engine.Down:  {row + 1, col},
		engine.Left:  {row, col - 1},
		engine.Right: {row, col + 1},
	}
	for _, d := range engine.Directions {
		n := neighbours[d]
		if v, err := sess.Engine.Lookup(n[0], n[1]); err == nil && v == value {
			info.MergeableWith = append(info.MergeableWith, d)
		}
	}
	return info, nil
}

// ListConfigs returns available presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		log.Error().Err(err).Str("preset", configName).Msg("failed to save preset")
		return err
	}
	return nil
}

func resetGame(sess *Session) GameEvent {
	sess.Engine.Reset()
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset to a fresh board",
		Timestamp: time.Now(),
	}
}

// playStep moves once and describes what happened
func playStep(sess *Session, d engine.Direction, idx int) (StepInfo, []GameEvent) {
	wasWon := sess.Engine.HasWon()
	scoreBefore := sess.Engine.GetScore()
	outcome := sess.Engine.MoveDetailed(d)
	snap := sess.Engine.Snapshot()

	step := StepInfo{
		Idx:         idx,
		Dir:         d.String(),
		Moved:       outcome.Moved,
		ScoreBefore: scoreBefore,
		ScoreAfter:  snap.Score,
		ScoreGained: outcome.ScoreGained,
		Merges:      outcome.Merges,
		Spawned:     outcome.Spawned,
		MaxTile:     snap.MaxTile,
	}
	if !outcome.Moved {
		return step, nil
	}
	return step, extractMoveEvents(sess, outcome, snap, wasWon)
}

// extractMoveEvents generates events from a move that changed the grid
func extractMoveEvents(sess *Session, outcome engine.MoveOutcome, snap engine.Snapshot, wasWon bool) []GameEvent {
	now := time.Now()
	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("Moved %s", outcome.Direction),
		Timestamp: now,
	}}

	if outcome.Merges > 0 {
		events = append(events, GameEvent{
			Type:      EventMerge,
			Message:   fmt.Sprintf("%d merge(s), +%d points", outcome.Merges, outcome.ScoreGained),
			Timestamp: now,
			Value:     outcome.ScoreGained,
		})
	}

	if sp := outcome.Spawned; sp != nil {
		pos := sp.Position
		events = append(events, GameEvent{
			Type:      EventSpawn,
			Message:   fmt.Sprintf("New %d at (%d,%d)", sp.Value, pos.Row, pos.Col),
			Timestamp: now,
			Position:  &pos,
			Value:     sp.Value,
		})
	}

	if !wasWon && snap.Won {
		events = append(events, GameEvent{
			Type:      EventWon,
			Message:   fmt.Sprintf("Reached the %d tile", sess.Config.WinTile),
			Timestamp: now,
			Value:     sess.Config.WinTile,
		})
	}

	if snap.GameOver {
		events = append(events, GameEvent{
			Type:      EventGameOver,
			Message:   sess.Engine.GetState().Message,
			Timestamp: now,
			Value:     snap.Score,
		})
	}

	return events
}

func directionNames(dirs []engine.Direction) []string {
	return lo.Map(dirs, func(d engine.Direction, _ int) string { return d.String() })
}
