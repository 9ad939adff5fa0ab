// Command validate checks the rule preset JSON files in a directory
// (../configs by default, or the first argument). It checks:
//   - JSON structure, with unknown keys rejected so typos surface
//   - Required fields and message keys
//   - The win tile is a power of two within the supported range
//   - The spawn probability lies in [0, 1]
//   - Message templates use at most one %d
//   - Playability: a short seeded game on the preset passes the board audit
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/game2048/autoplay"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// playabilityMoves caps the trial game played on every valid preset.
const playabilityMoves = 200

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if strings.TrimSpace(config.Name) == "" {
		result.fail("name is required")
	}
	if strings.TrimSpace(config.Description) == "" {
		result.fail("description is required")
	}
	if !engine.IsPowerOfTwo(config.WinTile) || config.WinTile < engine.MinWinTile || config.WinTile > engine.MaxWinTile {
		result.fail("win_tile must be a power of two between %d and %d, got %d",
			engine.MinWinTile, engine.MaxWinTile, config.WinTile)
	}
	if config.TwoProbability < 0 || config.TwoProbability > 1 {
		result.fail("two_probability must be between 0 and 1, got %v", config.TwoProbability)
	}
	if config.MaxMoves < 0 {
		result.fail("max_moves cannot be negative, got %d", config.MaxMoves)
	}

	messages := []struct {
		key, value string
	}{
		{"welcome", config.Messages.Welcome},
		{"moved", config.Messages.Moved},
		{"no_move", config.Messages.NoMove},
		{"won", config.Messages.Won},
		{"game_over", config.Messages.GameOver},
	}
	for _, m := range messages {
		if m.value == "" {
			result.fail("Missing required message: %s", m.key)
		}
		if strings.Count(m.value, "%d") > 1 {
			result.fail("Message %s may contain at most one %%d", m.key)
		}
	}

	// anything the checks above missed
	if result.Valid {
		if err := engine.ValidateGameConfig(&config); err != nil {
			result.fail("%v", err)
		}
	}

	if result.Valid {
		playable := validatePlayability(&config)
		if !playable.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, playable.Errors...)
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Win tile: %d", config.WinTile))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Spawn: %.0f%% twos", config.TwoProbability*100))
		if config.Seed != 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Seed: %d", config.Seed))
		}
		if config.MaxMoves > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Auto-play cap: %d moves", config.MaxMoves))
		}
	}

	return result
}

// validatePlayability plays a short first-movable game with a fixed seed and
// reports any board audit failure.
func validatePlayability(config *engine.GameConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	trial := *config
	if trial.Seed == 0 {
		trial.Seed = 1
	}
	eng, err := engine.NewEngine(&trial)
	if err != nil {
		result.fail("Cannot start a game: %v", err)
		return result
	}

	runner := autoplay.NewRunner(autoplay.FirstMovable{})
	runner.MaxMoves = playabilityMoves
	report, err := runner.Play(context.Background(), eng)
	if err != nil {
		result.fail("Playability failure: %v", err)
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Playability: %s after %d moves, score %d, best tile %d",
		report.Outcome, report.Moves, report.Score, report.MaxTile))
	return result
}

// validateDir validates every *.json file in dir, writes a report to w and
// returns whether all of them are valid.
func validateDir(dir string, w io.Writer) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no presets found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All presets are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some presets have errors")
	}
	return allValid, nil
}

// main validates ../configs, or the directory given as the first argument,
// and exits non-zero if any preset is invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	allValid, err := validateDir(configDir, os.Stdout)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if !allValid {
		os.Exit(1)
	}
}
