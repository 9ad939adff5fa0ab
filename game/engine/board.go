package engine

import "fmt"

// Board owns the grid and score of a single game. It is not safe for
// concurrent use; each session drives its own Board.
type Board struct {
	cells [Size][Size]uint32
	score uint32
	rng   RandomSource
	rules Rules
}

// NewBoard creates a board with the classic rules and two seed tiles.
func NewBoard(rng RandomSource) *Board {
	return NewBoardWithRules(rng, DefaultRules())
}

// NewBoardWithRules creates a board with custom rules and two seed tiles.
// A nil rng falls back to NewRandomSource.
func NewBoardWithRules(rng RandomSource, rules Rules) *Board {
	if rng == nil {
		rng = NewRandomSource()
	}
	b := &Board{rng: rng, rules: rules}
	b.Reset()
	return b
}

// NewBoardFromCells builds a board in an exact position without spawning.
func NewBoardFromCells(cells [Size][Size]uint32, score uint32, rng RandomSource) *Board {
	if rng == nil {
		rng = NewRandomSource()
	}
	return &Board{
		cells: cells,
		score: score,
		rng:   rng,
		rules: DefaultRules(),
	}
}

// Reset clears the grid and score and spawns the two starting tiles.
func (b *Board) Reset() {
	b.cells = [Size][Size]uint32{}
	b.score = 0
	b.spawn()
	b.spawn()
}

// Rules returns the rules this board plays by.
func (b *Board) Rules() Rules {
	return b.rules
}

// Cell returns the value at row, col. Both must be in [0, Size); anything
// else is a caller bug and panics.
func (b *Board) Cell(row, col int) uint32 {
	if !inBounds(row, col) {
		panic(fmt.Sprintf("engine: cell (%d,%d) out of range [0,%d)", row, col, Size))
	}
	return b.cells[row][col]
}

// Lookup is the bounds-checked form of Cell.
func (b *Board) Lookup(row, col int) (uint32, error) {
	if !inBounds(row, col) {
		return 0, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	return b.cells[row][col], nil
}

// Score returns the cumulative score
func (b *Board) Score() uint32 {
	return b.score
}

// Move shifts the tiles in direction d and reports whether the grid changed.
func (b *Board) Move(d Direction) bool {
	return b.MoveDetailed(d).Moved
}

// MoveDetailed is Move with the merge and spawn details. A move that does
// not change the grid leaves grid and score untouched and spawns nothing.
func (b *Board) MoveDetailed(d Direction) MoveOutcome {
	outcome := MoveOutcome{Direction: d}
	if !d.Valid() {
		return outcome
	}

	before := b.cells
	gained, merges := b.shift(d)
	if b.cells == before {
		return outcome
	}

	b.score += gained
	outcome.Moved = true
	outcome.ScoreGained = gained
	outcome.Merges = merges
	if spawned, ok := b.spawn(); ok {
		outcome.Spawned = &spawned
	}
	return outcome
}

// CanMove reports whether moving in d would change the grid, without
// touching the board.
func (b *Board) CanMove(d Direction) bool {
	if !d.Valid() {
		return false
	}
	probe := Board{cells: b.cells}
	probe.shift(d)
	return probe.cells != b.cells
}

// PossibleMoves returns the directions that would change the grid
func (b *Board) PossibleMoves() []Direction {
	var possible []Direction
	for _, d := range Directions {
		if b.CanMove(d) {
			possible = append(possible, d)
		}
	}
	return possible
}

// IsGameOver reports whether no move can change the grid: the board is full
// and no two orthogonal neighbours are equal. Sliding needs an empty cell
// and merging needs an equal neighbour, so this scan is exact.
func (b *Board) IsGameOver() bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			current := b.cells[row][col]
			if current == 0 {
				return false
			}
			if row < Size-1 && current == b.cells[row+1][col] {
				return false
			}
			if col < Size-1 && current == b.cells[row][col+1] {
				return false
			}
		}
	}
	return true
}

// HasWon reports whether any tile has reached the win tile. Play may continue.
func (b *Board) HasWon() bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.cells[row][col] == b.rules.WinTile {
				return true
			}
		}
	}
	return false
}

// EmptyCells lists empty positions in row-major order
func (b *Board) EmptyCells() []Position {
	var empty []Position
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.cells[row][col] == 0 {
				empty = append(empty, Position{Row: row, Col: col})
			}
		}
	}
	return empty
}

// Snapshot returns a value copy of the board for read-only consumers.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Cells:      b.cells,
		Score:      b.score,
		GameOver:   b.IsGameOver(),
		Won:        b.HasWon(),
		MaxTile:    MaxTile(b.cells),
		EmptyCells: CountEmpty(b.cells),
	}
}

func (b *Board) String() string {
	return RenderGrid(b.cells, b.score)
}

// spawn places a 2 or a 4 on a uniformly chosen empty cell. It is a no-op
// on a full board.
func (b *Board) spawn() (Spawn, bool) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return Spawn{}, false
	}

	pos := empty[b.rng.Intn(len(empty))]
	value := uint32(4)
	if b.rng.Float64() < b.rules.TwoProbability {
		value = 2
	}
	b.cells[pos.Row][pos.Col] = value
	return Spawn{Position: pos, Value: value}, true
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}
