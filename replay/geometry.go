package replay

import "kibitz/types"

// Point is a position on the mark layer, in layer units.
type Point struct {
	X, Y int
}

// Geometry maps squares to cell centers on an 8x8 grid.
type Geometry struct {
	SquareW, SquareH int
	Orientation      Orientation
}

// cell returns the on-screen column and row of sq, counted from the top left.
func (g Geometry) cell(sq types.Square) (col, row int) {
	if g.Orientation == BlackBottom {
		return 7 - sq.File(), sq.Rank()
	}
	return sq.File(), 7 - sq.Rank()
}

// Center returns the center of sq's cell. The half-cell offset is the same
// in both orientations.
func (g Geometry) Center(sq types.Square) Point {
	col, row := g.cell(sq)
	return Point{X: col*g.SquareW + g.SquareW/2, Y: row*g.SquareH + g.SquareH/2}
}

// SquareAt returns the square under p, or false outside the board.
func (g Geometry) SquareAt(p Point) (types.Square, bool) {
	if g.SquareW <= 0 || g.SquareH <= 0 || p.X < 0 || p.Y < 0 {
		return types.NoSquare, false
	}
	col, row := p.X/g.SquareW, p.Y/g.SquareH
	if col > 7 || row > 7 {
		return types.NoSquare, false
	}
	if g.Orientation == BlackBottom {
		return types.NewSquare(7-col, row), true
	}
	return types.NewSquare(col, 7-row), true
}

// ArrowKind separates engine suggestions from user-drawn arrows.
type ArrowKind int

const (
	SuggestionArrow ArrowKind = iota
	ManualArrow
)

// ArrowMark is an arrow with its endpoints projected through a Geometry.
type ArrowMark struct {
	Arrow    types.Arrow
	Kind     ArrowKind
	From, To Point
}

// Project places a onto the grid.
func (g Geometry) Project(a types.Arrow, kind ArrowKind) ArrowMark {
	return ArrowMark{Arrow: a, Kind: kind, From: g.Center(a.From), To: g.Center(a.To)}
}
