package engine

import (
	"fmt"
	"math/bits"
	"strings"
)

// IsPowerOfTwo reports whether v is a valid tile value (2, 4, 8, ...)
func IsPowerOfTwo(v uint32) bool {
	return v >= 2 && bits.OnesCount32(v) == 1
}

// MaxTile returns the largest tile on the grid
func MaxTile(cells [Size][Size]uint32) uint32 {
	var highest uint32
	for _, row := range cells {
		for _, v := range row {
			if v > highest {
				highest = v
			}
		}
	}
	return highest
}

// CountEmpty counts the empty cells of the grid
func CountEmpty(cells [Size][Size]uint32) int {
	count := 0
	for _, row := range cells {
		for _, v := range row {
			if v == 0 {
				count++
			}
		}
	}
	return count
}

// CountTiles counts the non-empty cells of the grid
func CountTiles(cells [Size][Size]uint32) int {
	return Size*Size - CountEmpty(cells)
}

// InvalidTiles returns the positions holding a value that is not a power of two.
func InvalidTiles(cells [Size][Size]uint32) []Position {
	var invalid []Position
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if v := cells[row][col]; v != 0 && !IsPowerOfTwo(v) {
				invalid = append(invalid, Position{Row: row, Col: col})
			}
		}
	}
	return invalid
}

// RenderGrid draws the grid as a fixed-width text table followed by the score.
func RenderGrid(cells [Size][Size]uint32, score uint32) string {
	var sb strings.Builder
	border := "+" + strings.Repeat("------+", Size) + "\n"
	sb.WriteString(border)
	for _, row := range cells {
		sb.WriteString("|")
		for _, v := range row {
			if v == 0 {
				sb.WriteString("      |")
				continue
			}
			fmt.Fprintf(&sb, "%6d|", v)
		}
		sb.WriteString("\n")
		sb.WriteString(border)
	}
	fmt.Fprintf(&sb, "Score: %d", score)
	return sb.String()
}
