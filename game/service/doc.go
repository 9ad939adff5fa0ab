// Package service provides the controller-facing layer for 2048.
//
// The service package implements:
//   - Multi-session game management
//   - Preset lookup and listing
//   - Direction parsing, single and bulk moves
//   - Move history pagination and cell inspection
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages preset loading and validation.
//
// Architecture:
//
// The service layer sits between a controller (CLI, renderer, auto-player)
// and the game engine. Each session owns its own GameEngine; the service
// serialises mutations behind one lock so no engine is ever driven by two
// goroutines at once.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "left", false)
//
// Bulk moves:
//
// BulkMove runs at most engine.MaxBulkMoves moves and stops early at the
// first move that changes nothing (stop code "no_change") or when the game
// is over ("game_over"). Every executed move yields a StepInfo and events of
// type move, merge, spawn, won and game_over.
package service
