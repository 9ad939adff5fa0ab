package autoplay

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// CheckResult is the verdict of one mechanics scenario.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

type lineScenario struct {
	name  string
	row   [engine.Size]uint32
	want  [engine.Size]uint32
	score uint32
}

var lineScenarios = []lineScenario{
	{"merge pairs", [engine.Size]uint32{2, 2, 4, 4}, [engine.Size]uint32{4, 8, 0, 0}, 12},
	{"merge equal run", [engine.Size]uint32{4, 4, 4, 4}, [engine.Size]uint32{8, 8, 0, 0}, 16},
	{"slide without merge", [engine.Size]uint32{2, 0, 4, 0}, [engine.Size]uint32{2, 4, 0, 0}, 0},
	{"single merge per tile", [engine.Size]uint32{2, 2, 2, 2}, [engine.Size]uint32{4, 4, 0, 0}, 8},
}

// CheckMechanics plays fixed positions on fresh boards and reports whether
// the merge, slide, game over and win rules behave as expected.
func CheckMechanics() []CheckResult {
	results := make([]CheckResult, 0, len(lineScenarios)+2)
	for _, sc := range lineScenarios {
		results = append(results, checkLine(sc))
	}
	results = append(results, checkStuckBoard(), checkWin())
	return results
}

// AllPassed reports whether every check passed.
func AllPassed(results []CheckResult) bool {
	return lo.EveryBy(results, func(r CheckResult) bool { return r.Passed })
}

func checkLine(sc lineScenario) CheckResult {
	var cells [engine.Size][engine.Size]uint32
	cells[0] = sc.row
	b := engine.NewBoardFromCells(cells, 0, engine.NewSeededSource(1))

	outcome := b.MoveDetailed(engine.Left)
	got := b.Snapshot().Cells
	// the new tile may land on the row under test
	if s := outcome.Spawned; s != nil {
		got[s.Row][s.Col] = 0
	}

	res := CheckResult{Name: sc.name, Passed: true}
	switch {
	case got[0] != sc.want:
		res.Passed = false
		res.Detail = fmt.Sprintf("%v left: got %v, want %v", sc.row, got[0], sc.want)
	case b.Score() != sc.score:
		res.Passed = false
		res.Detail = fmt.Sprintf("%v left: score %d, want %d", sc.row, b.Score(), sc.score)
	case !outcome.Moved:
		res.Passed = false
		res.Detail = fmt.Sprintf("%v left: reported no movement", sc.row)
	}
	return res
}

func checkStuckBoard() CheckResult {
	cells := [engine.Size][engine.Size]uint32{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
	b := engine.NewBoardFromCells(cells, 0, engine.NewSeededSource(1))
	res := CheckResult{Name: "full board without pairs", Passed: true}

	if !b.IsGameOver() {
		res.Passed = false
		res.Detail = "not reported as game over"
		return res
	}
	for _, d := range engine.Directions {
		if b.Move(d) || b.Snapshot().Cells != cells {
			res.Passed = false
			res.Detail = fmt.Sprintf("%s changed a stuck board", d)
			return res
		}
	}
	return res
}

func checkWin() CheckResult {
	var cells [engine.Size][engine.Size]uint32
	cells[0] = [engine.Size]uint32{1024, 1024, 0, 0}
	b := engine.NewBoardFromCells(cells, 0, engine.NewSeededSource(1))
	res := CheckResult{Name: "win at 2048", Passed: true}

	if b.HasWon() {
		res.Passed = false
		res.Detail = "won before merging"
		return res
	}
	b.Move(engine.Left)
	if !b.HasWon() {
		res.Passed = false
		res.Detail = fmt.Sprintf("not won after 1024+1024, row is %v", b.Snapshot().Cells[0])
	}
	return res
}
