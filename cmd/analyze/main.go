// Command analyze prints quick, human-readable heuristics about the rule
// presets in the project's configs directory (or the directory given as the
// first argument). It summarizes the spawn odds, estimates how many moves a
// win takes and flags presets whose move cap makes the win tile unreachable.
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// openingSpawns is the window used for the "no four early" odds.
const openingSpawns = 20

// Analysis holds the heuristics computed for one preset.
type Analysis struct {
	Name    string
	WinTile uint32

	ExpectedSpawn float64 // mean value of a new tile
	MinMoves      int     // every spawn a four
	ExpectedMoves float64 // every spawn of mean value

	// fours among the spawns of an average winning game
	FoursMean   float64
	FoursLow    float64
	FoursHigh   float64
	NoEarlyFour float64 // no four among the first openingSpawns spawns

	MaxMoves int
}

// analyzePreset derives the heuristics from tile mass: every changing move
// spawns one tile and merges keep the sum of the board, so a win tile of W
// needs spawns worth W in total, two of them placed before the first move.
func analyzePreset(config *engine.GameConfig) Analysis {
	p := config.TwoProbability
	w := float64(config.WinTile)

	a := Analysis{
		Name:          config.Name,
		WinTile:       config.WinTile,
		ExpectedSpawn: 2*p + 4*(1-p),
		MaxMoves:      config.MaxMoves,
	}
	a.MinMoves = max(0, int(math.Ceil(w/4))-2)
	a.ExpectedMoves = math.Max(0, w/a.ExpectedSpawn-2)

	fours := distuv.Binomial{N: math.Round(w / a.ExpectedSpawn), P: 1 - p}
	a.FoursMean = fours.Mean()
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)
	a.FoursLow = math.Max(0, a.FoursMean-z*fours.StdDev())
	a.FoursHigh = math.Min(fours.N, a.FoursMean+z*fours.StdDev())

	switch {
	case p >= 1:
		a.NoEarlyFour = 1
	case p <= 0:
		a.NoEarlyFour = 0
	default:
		a.NoEarlyFour = distuv.Binomial{N: openingSpawns, P: 1 - p}.Prob(0)
	}
	return a
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Win Tile: %d\n", a.WinTile)
	fmt.Fprintf(w, "Expected Spawn Value: %.2f\n", a.ExpectedSpawn)
	fmt.Fprintf(w, "Moves To Win: at least %d, about %.0f on average\n", a.MinMoves, a.ExpectedMoves)
	fmt.Fprintf(w, "Fours Spawned: %.1f expected (95%%: %.0f to %.0f)\n", a.FoursMean, a.FoursLow, a.FoursHigh)
	fmt.Fprintf(w, "No Four In First %d Spawns: %.1f%%\n", openingSpawns, a.NoEarlyFour*100)

	switch {
	case a.MaxMoves == 0:
		fmt.Fprintf(w, "✅ No move cap\n")
	case a.MaxMoves < a.MinMoves:
		fmt.Fprintf(w, "⚠️  CRITICAL: move cap %d is below the %d moves any win needs\n", a.MaxMoves, a.MinMoves)
	case float64(a.MaxMoves) < a.ExpectedMoves:
		fmt.Fprintf(w, "⚠️  WARNING: move cap %d is below the %.0f moves a typical win needs\n", a.MaxMoves, a.ExpectedMoves)
	default:
		fmt.Fprintf(w, "✅ Move cap %d leaves room for a win\n", a.MaxMoves)
	}
}

// analyzeDir loads every preset in dir and prints its analysis.
func analyzeDir(dir string, w io.Writer) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no presets found in %s", dir)
	}

	for _, file := range files {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))
		config, err := engine.LoadGameConfig(file)
		if err != nil {
			fmt.Fprintf(w, "Error loading preset: %v\n", err)
			continue
		}
		printAnalysis(w, analyzePreset(config))
	}
	return nil
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := analyzeDir(dir, os.Stdout); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
