package engine

import (
	"testing"
)

func createTestConfig() *GameConfig {
	config := &GameConfig{
		Name:           "Engine Test Config",
		Description:    "Configuration for engine integration tests",
		WinTile:        2048,
		TwoProbability: 0.9,
		MaxMoves:       100,
	}
	config.Messages.Welcome = "Welcome to engine test!"
	config.Messages.Moved = "Score: %d"
	config.Messages.NoMove = "Nothing moved"
	config.Messages.Won = "You reached %d!"
	config.Messages.GameOver = "Game over! Final score: %d"
	return config
}

func newScriptedEngine(t *testing.T, cells [Size][Size]uint32, rng RandomSource) *GameEngine {
	t.Helper()
	e, err := NewEngineWithSource(createTestConfig(), &scriptedSource{})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	e.board.cells = cells
	e.board.score = 0
	e.board.rng = rng
	return e
}

func TestNewEngine(t *testing.T) {
	config := createTestConfig()
	engine, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create new engine: %v", err)
	}

	if engine == nil {
		t.Fatal("Expected engine to be non-nil")
	}

	state := engine.GetState()
	if state.Score != 0 {
		t.Errorf("Expected initial score 0, got %d", state.Score)
	}
	if CountTiles(state.Cells) != 2 {
		t.Errorf("Expected 2 starting tiles, got %d", CountTiles(state.Cells))
	}
	if state.Message != config.Messages.Welcome {
		t.Errorf("Expected welcome message, got %q", state.Message)
	}
	if state.ConfigName != config.Name {
		t.Errorf("Expected config name %q, got %q", config.Name, state.ConfigName)
	}
	if engine.IsGameOver() {
		t.Error("Expected game not to be over initially")
	}
	if engine.HasWon() {
		t.Error("Expected game not to be won initially")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.Name = "" // Make config invalid

	_, err := NewEngine(config)
	if err == nil {
		t.Error("Expected error for invalid config")
	}

	_, err = NewEngineWithSource(nil, &scriptedSource{})
	if err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestNewEngineWithDefaults(t *testing.T) {
	engine := NewEngineWithDefaults()
	if engine == nil {
		t.Fatal("Expected engine to be non-nil")
	}
	if engine.GetConfig().Name != "classic" {
		t.Errorf("Expected classic preset, got %q", engine.GetConfig().Name)
	}
	if engine.GetScore() != 0 {
		t.Errorf("Expected initial score 0, got %d", engine.GetScore())
	}
}

func TestEngine_SeededReplay(t *testing.T) {
	config := createTestConfig()
	config.Seed = 42

	a, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	b, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if a.Snapshot() != b.Snapshot() {
		t.Fatal("Expected identical starting boards for equal seeds")
	}

	moves := []Direction{Left, Up, Right, Down, Left, Left, Up, Right}
	for i := 0; i < 10; i++ {
		for _, d := range moves {
			a.Move(d)
			b.Move(d)
			if a.Snapshot() != b.Snapshot() {
				t.Fatalf("Boards diverged after move %d", len(a.GetMoveHistory()))
			}
		}
	}
}

func TestEngine_MoveRecordsHistory(t *testing.T) {
	cells := [Size][Size]uint32{}
	cells[3] = [Size]uint32{2, 2, 0, 0}
	e := newScriptedEngine(t, cells, &scriptedSource{})

	if e.GetLastMove() != nil {
		t.Error("Expected no last move before any move")
	}

	if !e.Move(Left) {
		t.Fatal("Expected left to move")
	}
	if e.Move(Left) {
		// row 3 is [4 0 0 0] and the spawn sits at (0,0); nothing moves left
		t.Fatal("Expected second left to be a no-op")
	}

	history := e.GetMoveHistory()
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	if !history[0].Moved || history[0].ScoreGained != 4 || history[0].Score != 4 || history[0].MoveNumber != 1 {
		t.Errorf("Unexpected first entry %+v", history[0])
	}
	if history[1].Moved || history[1].MoveNumber != 2 {
		t.Errorf("Unexpected second entry %+v", history[1])
	}

	last := e.GetLastMove()
	if last == nil || last.MoveNumber != 2 {
		t.Errorf("Expected last move number 2, got %+v", last)
	}

	state := e.GetState()
	if state.Message != "Nothing moved" {
		t.Errorf("Expected no-move message, got %q", state.Message)
	}
	if state.TotalMoves != 2 || state.CurrentMovesCount != 2 {
		t.Errorf("Expected 2 total and current moves, got %d/%d", state.TotalMoves, state.CurrentMovesCount)
	}
}

func TestEngine_MovedMessage(t *testing.T) {
	cells := [Size][Size]uint32{}
	cells[3] = [Size]uint32{4, 4, 0, 0}
	e := newScriptedEngine(t, cells, &scriptedSource{})

	e.Move(Left)
	if msg := e.GetState().Message; msg != "Score: 8" {
		t.Errorf("Expected %q, got %q", "Score: 8", msg)
	}
}

func TestEngine_WonMessage(t *testing.T) {
	cells := [Size][Size]uint32{}
	cells[3] = [Size]uint32{1024, 1024, 0, 0}
	e := newScriptedEngine(t, cells, &scriptedSource{})

	e.Move(Left)
	if !e.HasWon() {
		t.Fatal("Expected the game to be won")
	}
	if msg := e.GetState().Message; msg != "You reached 2048!" {
		t.Errorf("Expected win message, got %q", msg)
	}

	// play continues after the win
	e.Move(Right)
	if msg := e.GetState().Message; msg != "Score: 2048" {
		t.Errorf("Expected moved message after win, got %q", msg)
	}
}

func TestEngine_GameOverMessage(t *testing.T) {
	cells := [Size][Size]uint32{
		{0, 2, 4, 2},
		{4, 2, 4, 8},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
	// the only empty cell after moving left is (0,3); a 4 there ends the game
	e := newScriptedEngine(t, cells, &scriptedSource{floats: []float64{0.95}})

	if !e.Move(Left) {
		t.Fatal("Expected left to move")
	}
	if !e.IsGameOver() {
		t.Fatalf("Expected game over, board:\n%s", e.Board())
	}
	if msg := e.GetState().Message; msg != "Game over! Final score: 0" {
		t.Errorf("Expected game over message, got %q", msg)
	}
	if moves := e.GetPossibleMoves(); len(moves) != 0 {
		t.Errorf("Expected no possible moves, got %v", moves)
	}
}

func TestEngine_Reset(t *testing.T) {
	cells := [Size][Size]uint32{}
	cells[3] = [Size]uint32{2, 2, 4, 4}
	e := newScriptedEngine(t, cells, &scriptedSource{})

	e.Move(Left)
	e.Move(Right)
	state := e.Reset()

	if state.Score != 0 {
		t.Errorf("Expected score 0 after reset, got %d", state.Score)
	}
	if CountTiles(state.Cells) != 2 {
		t.Errorf("Expected 2 tiles after reset, got %d", CountTiles(state.Cells))
	}
	if state.Message != "Welcome to engine test!" {
		t.Errorf("Expected welcome message after reset, got %q", state.Message)
	}
	if state.TotalMoves != 2 || len(state.MoveHistory) != 2 {
		t.Errorf("Expected cumulative history to survive reset, got %d", state.TotalMoves)
	}
	if state.CurrentMovesCount != 0 || len(state.CurrentMoves) != 0 {
		t.Errorf("Expected current moves cleared, got %d", state.CurrentMovesCount)
	}

	e.Move(Left)
	if next := e.GetLastMove(); next.MoveNumber != 3 {
		t.Errorf("Expected move numbering to continue at 3, got %d", next.MoveNumber)
	}
}

func TestEngine_BulkMove(t *testing.T) {
	t.Run("runs every move", func(t *testing.T) {
		cells := [Size][Size]uint32{}
		cells[3] = [Size]uint32{2, 2, 0, 0}
		e := newScriptedEngine(t, cells, &scriptedSource{})

		results := e.BulkMove([]Direction{Left, Left, Right})
		expected := []bool{true, false, true}
		if len(results) != len(expected) {
			t.Fatalf("Expected %d results, got %d", len(expected), len(results))
		}
		for i := range expected {
			if results[i] != expected[i] {
				t.Errorf("Move %d: expected %v, got %v", i, expected[i], results[i])
			}
		}
	})

	t.Run("stops at game over", func(t *testing.T) {
		e := newScriptedEngine(t, checkerboard(), &scriptedSource{})
		results := e.BulkMove([]Direction{Left, Right})
		if len(results) != 0 {
			t.Errorf("Expected no moves on a finished game, got %v", results)
		}
	})
}

func TestNewEngineWithBoard(t *testing.T) {
	config := createTestConfig()
	config.WinTile = 64

	cells := [Size][Size]uint32{}
	cells[0][0] = 64
	e, err := NewEngineWithBoard(config, NewBoardFromCells(cells, 10, &scriptedSource{}))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	if !e.HasWon() {
		t.Error("Expected the board to adopt the preset win tile")
	}
	if e.GetScore() != 10 {
		t.Errorf("Expected score 10, got %d", e.GetScore())
	}

	if _, err := NewEngineWithBoard(config, nil); err == nil {
		t.Error("Expected error for nil board")
	}
}

func TestEngine_CellAccess(t *testing.T) {
	cells := [Size][Size]uint32{}
	cells[2][1] = 64
	e := newScriptedEngine(t, cells, &scriptedSource{})

	if e.Cell(2, 1) != 64 {
		t.Errorf("Expected 64, got %d", e.Cell(2, 1))
	}
	if _, err := e.Lookup(5, 5); err == nil {
		t.Error("Expected out of bounds error")
	}
}
