package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateGameConfig validates a rules preset
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate rules
	if config.WinTile < MinWinTile || config.WinTile > MaxWinTile || !IsPowerOfTwo(config.WinTile) {
		return fmt.Errorf("config validation: win_tile must be a power of two between %d and %d, got %d",
			MinWinTile, MaxWinTile, config.WinTile)
	}
	if config.TwoProbability < 0 || config.TwoProbability > 1 {
		return fmt.Errorf("config validation: two_probability must be between 0 and 1, got %v", config.TwoProbability)
	}
	if config.MaxMoves < 0 {
		return fmt.Errorf("config validation: max_moves cannot be negative, got %d", config.MaxMoves)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Won != "" && strings.Count(config.Messages.Won, "%d") > 1 {
		return fmt.Errorf("config validation: messages.won may contain at most one %%d for the win tile")
	}
	if config.Messages.GameOver != "" && strings.Count(config.Messages.GameOver, "%d") > 1 {
		return fmt.Errorf("config validation: messages.game_over may contain at most one %%d for the score")
	}

	return nil
}

// LoadGameConfig loads a rules preset from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filepath.Base(filename), err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultGameConfig returns the classic preset: 2048 to win, 90% twos.
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:           "classic",
		Description:    "Classic 2048: reach the 2048 tile",
		WinTile:        DefaultWinTile,
		TwoProbability: DefaultTwoProbability,
		MaxMoves:       DefaultMaxMoves,
	}
	config.Messages.Welcome = "Join the tiles, get to 2048!"
	config.Messages.Moved = "Score: %d"
	config.Messages.NoMove = "Nothing moved"
	config.Messages.Won = "You reached %d!"
	config.Messages.GameOver = "Game over! Final score: %d"
	return config
}
