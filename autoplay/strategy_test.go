package autoplay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// fixedSource replays ints and then returns zeros.
type fixedSource struct {
	ints []int
}

func (f *fixedSource) Intn(n int) int {
	if len(f.ints) == 0 {
		return 0
	}
	v := f.ints[0]
	f.ints = f.ints[1:]
	return v % n
}

func (f *fixedSource) Float64() float64 { return 0 }

func stuckCells() [engine.Size][engine.Size]uint32 {
	return [engine.Size][engine.Size]uint32{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
}

func TestFirstMovable(t *testing.T) {
	for _, tc := range []struct {
		name string
		row0 [engine.Size]uint32
		want engine.Direction
	}{
		// a lone tile in the top row cannot go up
		{"skips up", [engine.Size]uint32{2, 0, 0, 0}, engine.Down},
		{"prefers up", [engine.Size]uint32{0, 0, 0, 0}, engine.Up},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var cells [engine.Size][engine.Size]uint32
			cells[0] = tc.row0
			cells[3][3] = 2
			if tc.row0[0] != 0 {
				cells[3][3] = 0
			}
			b := engine.NewBoardFromCells(cells, 0, &fixedSource{})

			d, ok := FirstMovable{}.Next(b.Snapshot(), b)
			require.True(t, ok)
			assert.Equal(t, tc.want, d)
		})
	}

	t.Run("left when only horizontal moves remain", func(t *testing.T) {
		cells := stuckCells()
		cells[0][0] = 8
		cells[0][1] = 8
		// row 0 is now 8 8 2 4 and no column has a pair
		b := engine.NewBoardFromCells(cells, 0, &fixedSource{})

		d, ok := FirstMovable{}.Next(b.Snapshot(), b)
		require.True(t, ok)
		assert.Equal(t, engine.Left, d)
	})

	t.Run("stuck board", func(t *testing.T) {
		b := engine.NewBoardFromCells(stuckCells(), 0, &fixedSource{})
		_, ok := FirstMovable{}.Next(b.Snapshot(), b)
		assert.False(t, ok)
	})
}

func TestRandomDirection(t *testing.T) {
	b := engine.NewBoardFromCells([engine.Size][engine.Size]uint32{}, 0, &fixedSource{})
	s := NewRandomDirection(&fixedSource{ints: []int{3, 0, 2, 1}})

	var got []engine.Direction
	for i := 0; i < 4; i++ {
		d, ok := s.Next(b.Snapshot(), b)
		require.True(t, ok)
		got = append(got, d)
	}
	assert.Equal(t, []engine.Direction{engine.Right, engine.Up, engine.Left, engine.Down}, got)

	stuck := engine.NewBoardFromCells(stuckCells(), 0, &fixedSource{})
	_, ok := s.Next(stuck.Snapshot(), stuck)
	assert.False(t, ok, "a finished game offers no direction")
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("first", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", s.Name())

	s, err = NewStrategy("", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", s.Name())

	s, err = NewStrategy(" Random ", nil)
	require.NoError(t, err)
	assert.Equal(t, "random", s.Name())

	_, err = NewStrategy("expectimax", nil)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}
