// Package engine provides the core game logic for 2048.
//
// The engine package implements the game mechanics including:
//   - Directional compaction of the 4x4 grid with single merge per tile per move
//   - Score accounting and randomized tile spawning
//   - Win and game-over detection
//   - Move history and player messages
//   - Preset loading and validation
//
// Core Types:
//
// Board owns the grid, score and random source of one game and is the sole
// owner of the rules. GameEngine wraps a Board with its GameConfig preset,
// the move history and the current message, and implements the Engine
// interface. Snapshot is the immutable view renderers read between frames.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	moved := gameEngine.Move(engine.Left)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Every move slides all tiles toward one edge. Two equal tiles that meet
// merge into one of double value and the new value is added to the score;
// a merged tile cannot merge again in the same move. A move that changes the
// grid spawns a 2 (90%) or a 4 on a random empty cell. The game is won once
// a tile reaches the win tile, and over when the grid is full and no two
// neighbours are equal.
//
// Randomness comes only from a RandomSource. Tests inject scripted sources
// and NewSeededSource replays identical games for identical seeds.
package engine
