// Package export writes the current frame to a PNG image.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"kibitz/config"
	"kibitz/obslog"
	"kibitz/replay"
	"kibitz/types"
)

const (
	squareSize = 64
	margin     = 20
	boardSize  = squareSize * 8
)

var (
	highlightFill  = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	whitePieceFill = color.NRGBA{R: 250, G: 250, B: 245, A: 255}
	blackPieceFill = color.NRGBA{R: 30, G: 30, B: 34, A: 255}
	backdrop       = color.NRGBA{R: 28, G: 31, B: 46, A: 255}
	coordText      = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
)

// Exporter renders frames with the configured board themes and arrow colors.
type Exporter struct {
	themes *config.ThemeCatalog
	theme  config.Theme
	now    func() time.Time
}

var _ replay.FrameExporter = (*Exporter)(nil)

func NewExporter(themes *config.ThemeCatalog, theme config.Theme) *Exporter {
	return &Exporter{themes: themes, theme: theme, now: time.Now}
}

// ExportFrame writes f to a timestamped PNG under dir and returns its path.
func (e *Exporter) ExportFrame(dir string, f replay.Frame, boardTheme, pieceTheme string) (string, error) {
	data, err := e.Render(f, boardTheme, pieceTheme)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	name := fmt.Sprintf("kibitz-%s-%s.png", e.now().Format("20060102-150405"), frameTag(f))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	obslog.L().Info("frame exported", zap.String("path", path), zap.Int("index", f.Index))
	return path, nil
}

func frameTag(f replay.Frame) string {
	if f.Record == nil {
		return "start"
	}
	side := "w"
	if f.Record.Color == types.Black {
		side = "b"
	}
	return fmt.Sprintf("%03d%s", f.Record.MoveNumber, side)
}

// Render encodes f as PNG bytes.
func (e *Exporter) Render(f replay.Frame, boardTheme, pieceTheme string) ([]byte, error) {
	fenOpt, err := nchess.FEN(f.FEN)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	board := nchess.NewGame(fenOpt).Position().Board()

	bt, ok := e.themes.Board(boardTheme)
	if !ok {
		bt, _ = e.themes.Board(config.DefaultBoardTheme)
	}
	pt, ok := e.themes.Piece(pieceTheme)
	if !ok || !asciiGlyphs(pt) {
		pt = letterTheme
	}

	size := boardSize + margin*2
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backdrop), image.Point{}, imagedraw.Src)

	geom := replay.Geometry{SquareW: squareSize, SquareH: squareSize, Orientation: f.Orientation}
	origin := image.Point{X: margin, Y: margin}

	drawSquares(img, geom, origin, paletteColor(bt.Light), paletteColor(bt.Dark))
	for _, sq := range f.Highlights {
		drawSquareOverlay(img, geom, origin, sq, highlightFill)
	}
	drawPieces(img, board, geom, origin, pt)
	for _, m := range f.AutoArrows {
		drawArrow(img, geom, origin, m.Arrow, withAlpha(paletteColor(e.theme.Colors.SuggestionArrow), 180))
	}
	for _, m := range f.ManualArrows {
		drawArrow(img, geom, origin, m.Arrow, withAlpha(paletteColor(e.theme.Colors.ManualArrow), 180))
	}
	drawCoordinates(img, f.Orientation, origin)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

var letterTheme = config.PieceTheme{Name: "letters", White: "KQRBNP", Black: "kqrbnp"}

// asciiGlyphs reports whether the built-in bitmap font can draw every glyph of p.
func asciiGlyphs(p config.PieceTheme) bool {
	for _, r := range p.White + p.Black {
		if r > 0x7e {
			return false
		}
	}
	return p.White != "" && p.Black != ""
}

// paletteColor converts an xterm-256 index to RGB.
func paletteColor(n int) color.NRGBA {
	r, g, b := tcell.PaletteColor(n).RGB()
	if r < 0 {
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func squareRect(geom replay.Geometry, origin image.Point, sq types.Square) image.Rectangle {
	c := geom.Center(sq)
	x := origin.X + c.X - squareSize/2
	y := origin.Y + c.Y - squareSize/2
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func drawSquares(dst *image.RGBA, geom replay.Geometry, origin image.Point, light, dark color.Color) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			clr := light
			if (rank+file)%2 == 0 {
				clr = dark
			}
			sq := types.NewSquare(file, rank)
			imagedraw.Draw(dst, squareRect(geom, origin, sq), image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawSquareOverlay(dst *image.RGBA, geom replay.Geometry, origin image.Point, sq types.Square, clr color.Color) {
	if !sq.Valid() {
		return
	}
	imagedraw.Draw(dst, squareRect(geom, origin, sq), image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

var pieceKinds = map[nchess.PieceType]rune{
	nchess.King:   'K',
	nchess.Queen:  'Q',
	nchess.Rook:   'R',
	nchess.Bishop: 'B',
	nchess.Knight: 'N',
	nchess.Pawn:   'P',
}

func drawPieces(dst *image.RGBA, board *nchess.Board, geom replay.Geometry, origin image.Point, pt config.PieceTheme) {
	face := basicfont.Face7x13
	for sq, piece := range board.SquareMap() {
		if piece == nchess.NoPiece {
			continue
		}
		kind, ok := pieceKinds[piece.Type()]
		if !ok {
			continue
		}
		white := piece.Color() == nchess.White
		at := types.NewSquare(int(sq.File()), int(sq.Rank()))
		c := geom.Center(at)
		center := image.Point{X: origin.X + c.X, Y: origin.Y + c.Y}

		fill, ink := blackPieceFill, whitePieceFill
		if white {
			fill, ink = whitePieceFill, blackPieceFill
		}
		drawDisc(dst, center, squareSize*3/10, fill)

		glyph := string(pt.Glyph(kind, white))
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(ink), Face: face}
		w := d.MeasureString(glyph).Round()
		d.Dot = fixed.P(center.X-w/2, center.Y+face.Ascent/2)
		d.DrawString(glyph)
	}
}

func drawCoordinates(dst *image.RGBA, o replay.Orientation, origin image.Point) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(coordText), Face: basicfont.Face7x13}
	for i := 0; i < 8; i++ {
		file, rank := i, 7-i
		if o == replay.BlackBottom {
			file, rank = 7-i, i
		}
		d.Dot = fixed.P(origin.X+i*squareSize+squareSize/2-3, origin.Y+boardSize+14)
		d.DrawString(string(rune('a' + file)))
		d.Dot = fixed.P(origin.X-14, origin.Y+i*squareSize+squareSize/2+5)
		d.DrawString(string(rune('1' + rank)))
	}
}

type pointF struct {
	X, Y float64
}

// drawArrow draws a shaft and head between the two square centers.
func drawArrow(dst *image.RGBA, geom replay.Geometry, origin image.Point, a types.Arrow, clr color.Color) {
	if !a.Valid() {
		return
	}
	m := geom.Project(a, replay.ManualArrow)
	start := pointF{X: float64(origin.X + m.From.X), Y: float64(origin.Y + m.From.Y)}
	end := pointF{X: float64(origin.X + m.To.X), Y: float64(origin.Y + m.To.Y)}

	dx, dy := end.X-start.X, end.Y-start.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	dirX, dirY := dx/length, dy/length
	perpX, perpY := -dirY, dirX

	baseLength := length - squareSize*0.45
	if baseLength < squareSize*0.35 {
		baseLength = length * 0.6
	}
	halfWidth := squareSize * 0.09
	headWidth := squareSize * 0.36

	baseX := start.X + dirX*baseLength
	baseY := start.Y + dirY*baseLength

	fillTriangle(dst,
		pointF{start.X - perpX*halfWidth, start.Y - perpY*halfWidth},
		pointF{start.X + perpX*halfWidth, start.Y + perpY*halfWidth},
		pointF{baseX + perpX*halfWidth, baseY + perpY*halfWidth}, clr)
	fillTriangle(dst,
		pointF{start.X - perpX*halfWidth, start.Y - perpY*halfWidth},
		pointF{baseX + perpX*halfWidth, baseY + perpY*halfWidth},
		pointF{baseX - perpX*halfWidth, baseY - perpY*halfWidth}, clr)
	fillTriangle(dst,
		end,
		pointF{baseX - perpX*headWidth/2, baseY - perpY*headWidth/2},
		pointF{baseX + perpX*headWidth/2, baseY + perpY*headWidth/2}, clr)
}

func fillTriangle(dst *image.RGBA, a, b, c pointF, clr color.Color) {
	minX := int(math.Floor(math.Min(a.X, math.Min(b.X, c.X))))
	maxX := int(math.Ceil(math.Max(a.X, math.Max(b.X, c.X))))
	minY := int(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y))))
	maxY := int(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y))))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if inTriangle(float64(x)+0.5, float64(y)+0.5, a, b, c) {
				blend(dst, x, y, clr)
			}
		}
	}
}

func inTriangle(px, py float64, a, b, c pointF) bool {
	d1 := (px-b.X)*(a.Y-b.Y) - (a.X-b.X)*(py-b.Y)
	d2 := (px-c.X)*(b.Y-c.Y) - (b.X-c.X)*(py-c.Y)
	d3 := (px-a.X)*(c.Y-a.Y) - (c.X-a.X)*(py-a.Y)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}

func drawDisc(dst *image.RGBA, center image.Point, radius int, clr color.Color) {
	r2 := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= r2 {
				blend(dst, center.X+x, center.Y+y, clr)
			}
		}
	}
}

func blend(dst *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(dst.Bounds()) {
		return
	}
	imagedraw.Draw(dst, image.Rect(x, y, x+1, y+1), image.NewUniform(clr), image.Point{}, imagedraw.Over)
}
