package replay

import "kibitz/types"

// GestureResult reports what a manual gesture did.
type GestureResult int

const (
	GestureIgnored GestureResult = iota
	GestureCleared
	GestureAdded
	GestureRemoved
)

func (r GestureResult) String() string {
	switch r {
	case GestureCleared:
		return "cleared"
	case GestureAdded:
		return "added"
	case GestureRemoved:
		return "removed"
	default:
		return "ignored"
	}
}

// Overlay holds user-drawn arrows in the order they were drawn. Navigation
// never touches it.
type Overlay struct {
	arrows []types.Arrow
}

func NewOverlay() *Overlay {
	return &Overlay{}
}

// Gesture applies a drag from start to end. Squares outside the board are
// NoSquare.
//   - both ends off the board, or start == end: clear everything
//   - exactly one end off the board: ignored
//   - otherwise: toggle the start→end arrow
func (o *Overlay) Gesture(start, end types.Square) GestureResult {
	startOn, endOn := start.Valid(), end.Valid()
	switch {
	case !startOn && !endOn:
		o.Clear()
		return GestureCleared
	case startOn != endOn:
		return GestureIgnored
	case start == end:
		o.Clear()
		return GestureCleared
	}

	a := types.Arrow{From: start, To: end}
	for i, existing := range o.arrows {
		if existing == a {
			o.arrows = append(o.arrows[:i], o.arrows[i+1:]...)
			return GestureRemoved
		}
	}
	o.arrows = append(o.arrows, a)
	return GestureAdded
}

func (o *Overlay) Clear() { o.arrows = nil }

func (o *Overlay) Len() int { return len(o.arrows) }

// Arrows returns the manual arrows in drawing order.
func (o *Overlay) Arrows() []types.Arrow {
	out := make([]types.Arrow, len(o.arrows))
	copy(out, o.arrows)
	return out
}
