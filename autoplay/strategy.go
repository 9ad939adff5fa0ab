package autoplay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Mover is the part of a game a strategy may probe without mutating it.
type Mover interface {
	CanMove(d engine.Direction) bool
}

// Strategy picks the next direction to play. It returns false when it has
// nothing to offer.
type Strategy interface {
	Name() string
	Next(snap engine.Snapshot, b Mover) (engine.Direction, bool)
}

// FirstMovable tries Up, Down, Left, Right and plays the first direction
// that changes the grid.
type FirstMovable struct{}

func (FirstMovable) Name() string { return "first" }

func (FirstMovable) Next(_ engine.Snapshot, b Mover) (engine.Direction, bool) {
	for _, d := range engine.Directions {
		if b.CanMove(d) {
			return d, true
		}
	}
	return 0, false
}

// RandomDirection picks uniformly among the four directions, whether or not
// the move changes the grid.
type RandomDirection struct {
	rng engine.RandomSource
}

// NewRandomDirection returns a RandomDirection drawing from rng, or from a
// fresh entropy-seeded source when rng is nil.
func NewRandomDirection(rng engine.RandomSource) *RandomDirection {
	if rng == nil {
		rng = engine.NewRandomSource()
	}
	return &RandomDirection{rng: rng}
}

func (*RandomDirection) Name() string { return "random" }

func (r *RandomDirection) Next(snap engine.Snapshot, _ Mover) (engine.Direction, bool) {
	if snap.GameOver {
		return 0, false
	}
	return engine.Directions[r.rng.Intn(len(engine.Directions))], true
}

// NewStrategy builds a strategy by name ("first" or "random").
func NewStrategy(name string, rng engine.RandomSource) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "first":
		return FirstMovable{}, nil
	case "random":
		return NewRandomDirection(rng), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}
