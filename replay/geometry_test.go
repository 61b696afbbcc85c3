package replay

import (
	"testing"

	"kibitz/types"
)

func TestGeometryCenter(t *testing.T) {
	g := Geometry{SquareW: 6, SquareH: 3, Orientation: WhiteBottom}
	tests := []struct {
		sq   string
		want Point
	}{
		{"a8", Point{3, 1}},
		{"h1", Point{45, 22}},
		{"e4", Point{27, 13}},
	}
	for _, tt := range tests {
		if got := g.Center(types.MustSquare(tt.sq)); got != tt.want {
			t.Errorf("Center(%s) = %+v, want %+v", tt.sq, got, tt.want)
		}
	}

	g.Orientation = BlackBottom
	if got := g.Center(types.MustSquare("h1")); got != (Point{3, 1}) {
		t.Errorf("flipped Center(h1) = %+v, want {3 1}", got)
	}
	if got := g.Center(types.MustSquare("a8")); got != (Point{45, 22}) {
		t.Errorf("flipped Center(a8) = %+v, want {45 22}", got)
	}
}

func TestGeometryInverts(t *testing.T) {
	for _, o := range []Orientation{WhiteBottom, BlackBottom} {
		g := Geometry{SquareW: 5, SquareH: 2, Orientation: o}
		for f := 0; f < 8; f++ {
			for r := 0; r < 8; r++ {
				sq := types.NewSquare(f, r)
				got, ok := g.SquareAt(g.Center(sq))
				if !ok || got != sq {
					t.Errorf("%v: SquareAt(Center(%v)) = %v, %v", o, sq, got, ok)
				}
			}
		}
	}
}

func TestGeometryOutside(t *testing.T) {
	g := Geometry{SquareW: 4, SquareH: 2}
	for _, p := range []Point{{-1, 0}, {0, -1}, {32, 0}, {0, 16}, {100, 100}} {
		if sq, ok := g.SquareAt(p); ok || sq != types.NoSquare {
			t.Errorf("SquareAt(%+v) = %v, %v; want off-board", p, sq, ok)
		}
	}
	if _, ok := (Geometry{}).SquareAt(Point{0, 0}); ok {
		t.Error("zero geometry should have no squares")
	}
}

func TestGeometryCellEdges(t *testing.T) {
	g := Geometry{SquareW: 4, SquareH: 2}
	if sq, _ := g.SquareAt(Point{3, 1}); sq != types.MustSquare("a8") {
		t.Errorf("last point of a8 cell = %v", sq)
	}
	if sq, _ := g.SquareAt(Point{4, 1}); sq != types.MustSquare("b8") {
		t.Errorf("first point of b8 cell = %v", sq)
	}
}
