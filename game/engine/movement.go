package engine

// traversal describes how to walk one line for a direction: the cell at
// step 0 sits on the edge the tiles travel toward.
type traversal struct {
	rowStart, rowStep int
	colStart, colStep int
	lineRow, lineCol  int // line i offsets rows by i*lineRow and columns by i*lineCol
}

var traversals = map[Direction]traversal{
	Left:  {rowStart: 0, rowStep: 0, colStart: 0, colStep: 1, lineRow: 1, lineCol: 0},
	Right: {rowStart: 0, rowStep: 0, colStart: Size - 1, colStep: -1, lineRow: 1, lineCol: 0},
	Up:    {rowStart: 0, rowStep: 1, colStart: 0, colStep: 0, lineRow: 0, lineCol: 1},
	Down:  {rowStart: Size - 1, rowStep: -1, colStart: 0, colStep: 0, lineRow: 0, lineCol: 1},
}

// line returns the positions of line i ordered from the target edge.
func (t traversal) line(i int) [Size]Position {
	var coords [Size]Position
	for k := 0; k < Size; k++ {
		coords[k] = Position{
			Row: t.rowStart + k*t.rowStep + i*t.lineRow,
			Col: t.colStart + k*t.colStep + i*t.lineCol,
		}
	}
	return coords
}

// shift applies direction d to every line and returns the points scored and
// the number of merges. It neither spawns nor touches the score.
func (b *Board) shift(d Direction) (uint32, int) {
	t := traversals[d]
	var gained uint32
	merges := 0
	for i := 0; i < Size; i++ {
		g, m := b.compactLine(t.line(i))
		gained += g
		merges += m
	}
	return gained, merges
}

// compactLine slides every tile of the line toward coords[0]. A tile merges
// into an equal neighbour only if that neighbour has not already merged in
// this move, so 2,2,2,2 becomes 4,4 and never 8.
func (b *Board) compactLine(coords [Size]Position) (uint32, int) {
	var merged [Size]bool
	var gained uint32
	merges := 0

	for i := 1; i < Size; i++ {
		src := coords[i]
		if b.cells[src.Row][src.Col] == 0 {
			continue
		}

		for j := i; j > 0; j-- {
			cur := coords[j]
			next := coords[j-1]
			value := b.cells[cur.Row][cur.Col]
			target := b.cells[next.Row][next.Col]

			if target == 0 {
				b.cells[next.Row][next.Col] = value
				b.cells[cur.Row][cur.Col] = 0
				continue
			}
			if target == value && !merged[j-1] {
				b.cells[next.Row][next.Col] = target * 2
				b.cells[cur.Row][cur.Col] = 0
				merged[j-1] = true
				gained += target * 2
				merges++
			}
			break
		}
	}

	return gained, merges
}
