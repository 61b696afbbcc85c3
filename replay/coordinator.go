package replay

import (
	"go.uber.org/zap"

	"kibitz/obslog"
)

// Coordinator renders frames into the views.
type Coordinator struct {
	store   *Store
	overlay *Overlay
	views   Views
	muted   func() bool

	last       Frame
	rendered   bool
	hideManual bool
}

func NewCoordinator(store *Store, overlay *Overlay, views Views, muted func() bool) *Coordinator {
	return &Coordinator{store: store, overlay: overlay, views: views, muted: muted}
}

// Geometry is the current board projection.
func (c *Coordinator) Geometry() Geometry {
	w, h := c.views.Marks.CellSize()
	return Geometry{SquareW: w, SquareH: h, Orientation: c.views.Board.Orientation()}
}

// Render shows the move at index. The starting position (-1) draws no
// arrows, but the manual overlay keeps its contents for later moves.
func (c *Coordinator) Render(index int, cause Cause) {
	c.hideManual = index == -1
	f := Compose(c.store, index, cause, c.muted(), c.overlay.Arrows(), c.Geometry())
	c.apply(f)
}

// Reproject redraws only the manual arrows, e.g. after a flip at the
// starting position. The layer stays empty there until RevealManual.
func (c *Coordinator) Reproject() {
	geom := c.Geometry()
	var marks []ArrowMark
	if !c.hideManual {
		marks = projectAll(c.overlay.Arrows(), ManualArrow, geom)
	}
	c.views.Marks.SetManualArrows(marks)
	c.last.ManualArrows = marks
	c.last.Orientation = geom.Orientation
}

// RevealManual shows the manual layer at the starting position after a
// gesture there.
func (c *Coordinator) RevealManual() {
	c.hideManual = false
	c.Reproject()
}

// LastFrame returns the most recently applied frame.
func (c *Coordinator) LastFrame() (Frame, bool) {
	return c.last, c.rendered
}

func (c *Coordinator) apply(f Frame) {
	c.views.Marks.SetHighlights(f.Highlights)
	c.views.Marks.SetAutoArrows(f.AutoArrows)
	c.views.Marks.SetManualArrows(f.ManualArrows)

	if err := c.views.Board.SetPosition(f.FEN); err != nil {
		obslog.L().Error("board rejected position", zap.Int("index", f.Index), zap.Error(err))
	}
	if f.Cue != CueNone {
		c.views.Audio.Play(f.Cue)
	}
	c.views.WinRate.SetWinRate(f.WinWhite, f.WinBlack)
	c.views.List.Select(f.Selected)
	c.views.List.ScrollTo(f.ScrollRow)

	c.last = f
	c.rendered = true
}
