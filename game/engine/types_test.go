package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidationConstants(t *testing.T) {
	tests := []struct {
		name     string
		actual   int
		expected int
	}{
		{"Size", Size, 4},
		{"MinWinTile", int(MinWinTile), 8},
		{"MaxWinTile", int(MaxWinTile), 131072},
		{"DefaultWinTile", int(DefaultWinTile), 2048},
		{"DefaultMaxMoves", DefaultMaxMoves, 1000},
		{"MaxBulkMoves", MaxBulkMoves, 50},
	}

	for _, test := range tests {
		if test.actual != test.expected {
			t.Errorf("%s: expected %d, got %d", test.name, test.expected, test.actual)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
	}{
		{"up", Up},
		{"U", Up},
		{"down", Down},
		{"d", Down},
		{"Left", Left},
		{"l", Left},
		{" RIGHT ", Right},
		{"r", Right},
	}

	for _, test := range tests {
		got, err := ParseDirection(test.input)
		if err != nil {
			t.Errorf("ParseDirection(%q): unexpected error %v", test.input, err)
			continue
		}
		if got != test.expected {
			t.Errorf("ParseDirection(%q): expected %v, got %v", test.input, test.expected, got)
		}
	}

	for _, bad := range []string{"", "north", "upp"} {
		if _, err := ParseDirection(bad); !errors.Is(err, ErrInvalidDirection) {
			t.Errorf("ParseDirection(%q): expected ErrInvalidDirection, got %v", bad, err)
		}
	}
}

func TestDirection_String(t *testing.T) {
	for _, d := range Directions {
		parsed, err := ParseDirection(d.String())
		if err != nil || parsed != d {
			t.Errorf("Direction %d does not survive String/Parse: %v", int(d), err)
		}
	}
	if Direction(7).String() != "direction(7)" {
		t.Errorf("Unexpected name for invalid direction: %s", Direction(7))
	}
}

func TestMoveHistoryEntryJSON(t *testing.T) {
	entry := MoveHistoryEntry{
		Direction:   Left,
		Moved:       true,
		ScoreGained: 8,
		Score:       24,
		Merges:      2,
		Spawned:     &Spawn{Position: Position{Row: 1, Col: 3}, Value: 2},
		MoveNumber:  5,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Failed to marshal entry: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to unmarshal entry: %v", err)
	}
	if raw["direction"] != "left" {
		t.Errorf("Expected direction encoded by name, got %v", raw["direction"])
	}
	spawned, ok := raw["spawned"].(map[string]any)
	if !ok || spawned["row"] != float64(1) || spawned["col"] != float64(3) {
		t.Errorf("Expected flattened spawn position, got %v", raw["spawned"])
	}

	if _, err := json.Marshal(MoveHistoryEntry{Direction: Direction(9)}); err == nil {
		t.Error("Expected marshal error for invalid direction")
	}
}

func TestUtils(t *testing.T) {
	cells := [Size][Size]uint32{
		{2, 0, 0, 0},
		{0, 6, 0, 0},
		{0, 0, 512, 0},
		{0, 0, 0, 0},
	}

	if CountEmpty(cells) != 13 || CountTiles(cells) != 3 {
		t.Errorf("Expected 13 empty and 3 tiles, got %d/%d", CountEmpty(cells), CountTiles(cells))
	}
	if MaxTile(cells) != 512 {
		t.Errorf("Expected max tile 512, got %d", MaxTile(cells))
	}
	invalid := InvalidTiles(cells)
	if len(invalid) != 1 || invalid[0] != (Position{Row: 1, Col: 1}) {
		t.Errorf("Expected (1,1) flagged, got %v", invalid)
	}

	for v, expected := range map[uint32]bool{0: false, 1: false, 2: true, 3: false, 64: true, 96: false, 1 << 31: true} {
		if IsPowerOfTwo(v) != expected {
			t.Errorf("IsPowerOfTwo(%d): expected %v", v, expected)
		}
	}
}
