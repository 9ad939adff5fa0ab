package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func presetWith(winTile uint32, twoProbability float64, maxMoves int) *engine.GameConfig {
	config := engine.DefaultGameConfig()
	config.Name = "test"
	config.WinTile = winTile
	config.TwoProbability = twoProbability
	config.MaxMoves = maxMoves
	return config
}

func TestAnalyzePreset_Classic(t *testing.T) {
	a := analyzePreset(presetWith(2048, 0.9, 1000))

	if math.Abs(a.ExpectedSpawn-2.2) > 1e-9 {
		t.Errorf("Expected spawn value 2.2, got %v", a.ExpectedSpawn)
	}
	if a.MinMoves != 510 {
		t.Errorf("Expected at least 510 moves, got %d", a.MinMoves)
	}
	if math.Abs(a.ExpectedMoves-(2048/2.2-2)) > 1e-9 {
		t.Errorf("Unexpected expected moves %v", a.ExpectedMoves)
	}
	if math.Abs(a.NoEarlyFour-math.Pow(0.9, openingSpawns)) > 1e-9 {
		t.Errorf("Expected 0.9^%d, got %v", openingSpawns, a.NoEarlyFour)
	}
	if !(a.FoursLow < a.FoursMean && a.FoursMean < a.FoursHigh) {
		t.Errorf("Expected the interval to contain the mean: %v < %v < %v", a.FoursLow, a.FoursMean, a.FoursHigh)
	}
	// 931 spawns at 10% fours
	if math.Abs(a.FoursMean-93.1) > 1e-9 {
		t.Errorf("Expected 93.1 fours, got %v", a.FoursMean)
	}
}

func TestAnalyzePreset_Extremes(t *testing.T) {
	twos := analyzePreset(presetWith(64, 1, 0))
	if twos.ExpectedSpawn != 2 || twos.NoEarlyFour != 1 || twos.FoursMean != 0 {
		t.Errorf("Unexpected all-twos analysis %+v", twos)
	}
	if twos.ExpectedMoves != 30 {
		t.Errorf("Expected 30 moves, got %v", twos.ExpectedMoves)
	}

	fours := analyzePreset(presetWith(8, 0, 0))
	if fours.ExpectedSpawn != 4 || fours.NoEarlyFour != 0 {
		t.Errorf("Unexpected all-fours analysis %+v", fours)
	}
	if fours.MinMoves != 0 || fours.ExpectedMoves != 0 {
		t.Errorf("Expected the two starting fours to suffice, got %d/%v", fours.MinMoves, fours.ExpectedMoves)
	}
}

func TestPrintAnalysis_MoveCap(t *testing.T) {
	tests := []struct {
		name     string
		maxMoves int
		want     string
	}{
		{"no cap", 0, "No move cap"},
		{"unreachable", 100, "CRITICAL"},
		{"tight", 600, "WARNING"},
		{"roomy", 1000, "leaves room"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printAnalysis(&buf, analyzePreset(presetWith(2048, 0.9, tt.maxMoves)))
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected %q in output:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestAnalyzeDir(t *testing.T) {
	dir := t.TempDir()
	good := `{"name":"tiny","description":"d","win_tile":64,"two_probability":0.9,
		"messages":{"welcome":"hi","moved":"%d","no_move":"no","won":"won","game_over":"over"}}`
	if err := os.WriteFile(filepath.Join(dir, "tiny.json"), []byte(good), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := analyzeDir(dir, &buf); err != nil {
		t.Fatalf("analyzeDir failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "=== Analyzing tiny.json ===") || !strings.Contains(out, "Win Tile: 64") {
		t.Errorf("Expected tiny.json analysis:\n%s", out)
	}
	if !strings.Contains(out, "Error loading preset") {
		t.Errorf("Expected bad.json to be reported:\n%s", out)
	}

	if err := analyzeDir(t.TempDir(), &buf); err == nil {
		t.Error("Expected error for an empty directory")
	}
}

func TestAnalyzeRepositoryPresets(t *testing.T) {
	if _, err := os.Stat("../../configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	var buf bytes.Buffer
	if err := analyzeDir("../../configs", &buf); err != nil {
		t.Fatalf("analyzeDir failed: %v", err)
	}
	if strings.Contains(buf.String(), "Error loading preset") || strings.Contains(buf.String(), "CRITICAL") {
		t.Errorf("Expected every shipped preset to load and be winnable:\n%s", buf.String())
	}
}
