package replay

import (
	"fmt"

	"kibitz/types"
)

// ScrollLead is how many rows stay visible above the selected move.
const ScrollLead = 2

// Frame is everything on screen for one cursor position. It is composed in
// full before any view is touched.
type Frame struct {
	Index        int
	Cause        Cause
	FEN          string
	Record       *types.MoveRecord // nil at the starting position
	WinWhite     int
	WinBlack     int
	Selected     int // -1 for no selection
	ScrollRow    int
	Highlights   []types.Square
	AutoArrows   []ArrowMark
	ManualArrows []ArrowMark
	Cue          Cue
	Orientation  Orientation
}

// DesyncError means the cursor points at a record the store does not have.
type DesyncError struct {
	Index int
	Len   int
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("replay: cursor index %d has no record (store has %d)", e.Index, e.Len)
}

// Compose builds the frame for index. It panics with *DesyncError when index
// is outside [-1, store.Len()-1].
func Compose(store *Store, index int, cause Cause, muted bool, manual []types.Arrow, geom Geometry) Frame {
	f := Frame{
		Index:       index,
		Cause:       cause,
		Selected:    -1,
		Orientation: geom.Orientation,
	}

	if index == -1 {
		f.FEN = types.StartFEN
		f.WinWhite, f.WinBlack = 50, 50
		return f
	}

	rec, ok := store.At(index)
	if !ok {
		panic(&DesyncError{Index: index, Len: store.Len()})
	}
	f.Record = &rec
	f.FEN = rec.FEN

	if cause == CauseNavigate && !muted {
		f.Cue = CueMove
		if rec.IsCheck {
			f.Cue = CueCheck
		}
	}

	f.WinWhite, f.WinBlack = rec.WinRateWhite, rec.WinRateBlack
	f.Selected = index
	f.ScrollRow = store.RowOf(index) - ScrollLead
	if f.ScrollRow < 0 {
		f.ScrollRow = 0
	}

	for _, sq := range []types.Square{rec.ActualFrom, rec.ActualTo} {
		if sq.Valid() {
			f.Highlights = append(f.Highlights, sq)
		}
	}

	if a, ok := rec.SuggestedArrow(); ok {
		f.AutoArrows = []ArrowMark{geom.Project(a, SuggestionArrow)}
	}
	f.ManualArrows = projectAll(manual, ManualArrow, geom)
	return f
}

func projectAll(arrows []types.Arrow, kind ArrowKind, geom Geometry) []ArrowMark {
	if len(arrows) == 0 {
		return nil
	}
	out := make([]ArrowMark, 0, len(arrows))
	for _, a := range arrows {
		if a.Valid() {
			out = append(out, geom.Project(a, kind))
		}
	}
	return out
}
