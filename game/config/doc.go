// Package config provides rules preset management for 2048.
//
// The config package handles:
//   - Loading presets from JSON files
//   - Preset validation
//   - Default preset management
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets are stored as JSON files in the configs directory. Each preset
// defines:
//   - The win tile (a power of two, 2048 in the classic game)
//   - The probability that a spawned tile is a 2 rather than a 4
//   - An optional seed that makes every game on the preset replay identically
//   - The auto-play move cap
//   - Player messages for moves, wins and game over
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	quick, err := manager.LoadConfig("quick")
//	defaultConfig := manager.GetDefault()
//	presets, err := manager.ListConfigs()
package config
