// Package ui holds the tview controls that draw the replay: the board with its
// mark layer, the move list, the win-rate bar and the panels around them.
package ui

import (
	"fmt"

	nchess "github.com/corentings/chess/v2"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"kibitz/config"
	"kibitz/replay"
	"kibitz/types"
)

const (
	squareW = 5
	squareH = 2
	// rankGutter is the width of the rank labels left of the board.
	rankGutter = 3
)

type boardPiece struct {
	kind  rune // one of KQRBNP, 0 for empty
	white bool
}

var pieceKinds = map[nchess.PieceType]rune{
	nchess.King:   'K',
	nchess.Queen:  'Q',
	nchess.Rook:   'R',
	nchess.Bishop: 'B',
	nchess.Knight: 'N',
	nchess.Pawn:   'P',
}

// ChessBoardUI draws a position with its highlight and arrow layers. It
// implements replay.BoardWidget and replay.MarkLayer.
type ChessBoardUI struct {
	Box    *tview.Box
	cfg    *config.Config
	themes *config.ThemeCatalog

	pieces      [64]boardPiece
	orientation replay.Orientation
	boardTheme  config.BoardTheme
	pieceTheme  config.PieceTheme

	highlights   []types.Square
	autoArrows   []replay.ArrowMark
	manualArrows []replay.ArrowMark

	originX, originY int
	dragFrom         types.Square
	dragging         bool
	onGesture        func(from, to types.Square)

	styles []tcell.Color
}

var (
	_ replay.BoardWidget = (*ChessBoardUI)(nil)
	_ replay.MarkLayer   = (*ChessBoardUI)(nil)
)

func NewChessBoard(c *config.Config, themes *config.ThemeCatalog) *ChessBoardUI {
	b := &ChessBoardUI{
		Box:    tview.NewBox(),
		themes: themes,
	}
	b.boardTheme, _ = themes.Board(config.DefaultBoardTheme)
	b.pieceTheme, _ = themes.Piece(config.DefaultPieceTheme)
	b.SetConfig(c)
	_ = b.SetPosition(types.StartFEN)
	b.Box.SetDrawFunc(b.draw)
	b.Box.SetMouseCapture(b.handleMouse)
	return b
}

func (b *ChessBoardUI) SetConfig(c *config.Config) {
	b.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.WhitePiece),      // 0
		tcell.PaletteColor(c.Theme.Colors.BlackPiece),      // 1
		tcell.PaletteColor(c.Theme.Colors.Coordinates),     // 2
		tcell.PaletteColor(c.Theme.Colors.LastPlayedBG),    // 3
		tcell.PaletteColor(c.Theme.Colors.SuggestionArrow), // 4
		tcell.PaletteColor(c.Theme.Colors.ManualArrow),     // 5
	}
	b.cfg = c
}

// OnGesture registers fn to receive completed drags. Ends outside the
// 8x8 grid arrive as types.NoSquare.
func (b *ChessBoardUI) OnGesture(fn func(from, to types.Square)) {
	b.onGesture = fn
}

// SetPosition replaces the pieces with those of fen.
func (b *ChessBoardUI) SetPosition(fen string) error {
	pieces, err := piecesFromFEN(fen)
	if err != nil {
		return fmt.Errorf("board position: %w", err)
	}
	b.pieces = pieces
	return nil
}

func piecesFromFEN(fen string) ([64]boardPiece, error) {
	var pieces [64]boardPiece
	opt, err := nchess.FEN(fen)
	if err != nil {
		return pieces, err
	}
	for sq, p := range nchess.NewGame(opt).Position().Board().SquareMap() {
		kind, ok := pieceKinds[p.Type()]
		if !ok {
			continue
		}
		at := types.NewSquare(int(sq.File()), int(sq.Rank()))
		pieces[at-1] = boardPiece{kind: kind, white: p.Color() == nchess.White}
	}
	return pieces, nil
}

// Piece returns the glyph on sq, or 0 when it is empty.
func (b *ChessBoardUI) Piece(sq types.Square) rune {
	if !sq.Valid() || b.pieces[sq-1].kind == 0 {
		return 0
	}
	p := b.pieces[sq-1]
	return b.pieceTheme.Glyph(p.kind, p.white)
}

func (b *ChessBoardUI) Orientation() replay.Orientation { return b.orientation }

func (b *ChessBoardUI) Flip() { b.orientation = b.orientation.Flipped() }

// Rebuild swaps the glyph set. The position is kept.
func (b *ChessBoardUI) Rebuild(pieceTheme string) error {
	pt, ok := b.themes.Piece(pieceTheme)
	if !ok {
		return fmt.Errorf("%w: piece theme %q", replay.ErrUnknownTheme, pieceTheme)
	}
	b.pieceTheme = pt
	return nil
}

func (b *ChessBoardUI) ApplyBoardTheme(name string) error {
	bt, ok := b.themes.Board(name)
	if !ok {
		return fmt.Errorf("%w: board theme %q", replay.ErrUnknownTheme, name)
	}
	b.boardTheme = bt
	return nil
}

func (b *ChessBoardUI) CellSize() (w, h int) { return squareW, squareH }

func (b *ChessBoardUI) SetHighlights(squares []types.Square) {
	b.highlights = append([]types.Square(nil), squares...)
}

func (b *ChessBoardUI) SetAutoArrows(arrows []replay.ArrowMark) {
	b.autoArrows = append([]replay.ArrowMark(nil), arrows...)
}

func (b *ChessBoardUI) SetManualArrows(arrows []replay.ArrowMark) {
	b.manualArrows = append([]replay.ArrowMark(nil), arrows...)
}

func (b *ChessBoardUI) geometry() replay.Geometry {
	return replay.Geometry{SquareW: squareW, SquareH: squareH, Orientation: b.orientation}
}

// SquareAt maps a screen position to a square, as of the last draw.
func (b *ChessBoardUI) SquareAt(x, y int) types.Square {
	sq, ok := b.geometry().SquareAt(replay.Point{X: x - b.originX, Y: y - b.originY})
	if !ok {
		return types.NoSquare
	}
	return sq
}

func (b *ChessBoardUI) handleMouse(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
	x, y := event.Position()
	switch action {
	case tview.MouseLeftDown:
		b.dragFrom = b.SquareAt(x, y)
		b.dragging = true
		return action, event
	case tview.MouseLeftUp:
		if !b.dragging {
			return action, event
		}
		b.dragging = false
		if b.onGesture != nil {
			b.onGesture(b.dragFrom, b.SquareAt(x, y))
		}
		return action, nil
	}
	return action, event
}

func (b *ChessBoardUI) highlighted(sq types.Square) bool {
	for _, h := range b.highlights {
		if h == sq {
			return true
		}
	}
	return false
}

func (b *ChessBoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	b.originX, b.originY = x+rankGutter, y
	geom := b.geometry()
	light := tcell.PaletteColor(b.boardTheme.Light)
	dark := tcell.PaletteColor(b.boardTheme.Dark)

	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := types.NewSquare(file, rank)
			bg := light
			if (file+rank)%2 == 0 {
				bg = dark
			}
			marked := b.highlighted(sq)
			if marked && b.cfg.Theme.DrawLastPlayedBackground {
				bg = b.styles[3]
			}
			c := geom.Center(sq)
			left, top := b.originX+c.X-squareW/2, b.originY+c.Y-squareH/2
			style := tcell.StyleDefault.Background(bg)
			for row := 0; row < squareH; row++ {
				for col := 0; col < squareW; col++ {
					screen.SetContent(left+col, top+row, ' ', nil, style)
				}
			}
			if marked && !b.cfg.Theme.DrawLastPlayedBackground {
				screen.SetContent(left, top, '▪', nil, style.Foreground(b.styles[3]))
			}
			if p := b.pieces[sq-1]; p.kind != 0 {
				fg := b.styles[1]
				if p.white {
					fg = b.styles[0]
				}
				screen.SetContent(b.originX+c.X, b.originY+c.Y, b.pieceTheme.Glyph(p.kind, p.white), nil, style.Foreground(fg).Bold(true))
			}
		}
	}

	for _, m := range b.autoArrows {
		b.drawArrow(screen, m, b.styles[4])
	}
	for _, m := range b.manualArrows {
		b.drawArrow(screen, m, b.styles[5])
	}
	if b.cfg.Theme.ShowCoordinates {
		b.drawCoordinates(screen, x, y)
	}
	return x, y, width, height
}

// drawArrow marks the cells on the line between the projected centers. Body
// cells never cover a piece; the head steps back one cell when the target is
// occupied.
func (b *ChessBoardUI) drawArrow(screen tcell.Screen, m replay.ArrowMark, clr tcell.Color) {
	cells := lineCells(m.From, m.To)
	if len(cells) < 2 {
		return
	}
	sym := b.cfg.Theme.Symbols
	put := func(p replay.Point, r rune, overPieces bool) bool {
		sx, sy := b.originX+p.X, b.originY+p.Y
		mainc, _, style, _ := screen.GetContent(sx, sy)
		if !overPieces && mainc != ' ' && mainc != sym.ArrowBody && mainc != 0 {
			return false
		}
		screen.SetContent(sx, sy, r, nil, style.Foreground(clr).Bold(true))
		return true
	}

	put(cells[0], sym.ArrowStart, false)
	for _, p := range cells[1 : len(cells)-1] {
		put(p, sym.ArrowBody, false)
	}
	for i := len(cells) - 1; i > 0; i-- {
		if put(cells[i], sym.ArrowHead, false) {
			break
		}
	}
}

// lineCells returns the cells of the Bresenham line from a to b, inclusive.
func lineCells(a, b replay.Point) []replay.Point {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	errAcc := dx + dy
	var out []replay.Point
	p := a
	for {
		out = append(out, p)
		if p == b {
			return out
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			p.X += sx
		}
		if e2 <= dx {
			errAcc += dx
			p.Y += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (b *ChessBoardUI) drawCoordinates(screen tcell.Screen, x, y int) {
	style := tcell.StyleDefault.Foreground(b.styles[2])
	geom := b.geometry()
	for i := 0; i < 8; i++ {
		file := geom.Center(types.NewSquare(i, 0))
		screen.SetContent(b.originX+file.X, b.originY+8*squareH, rune('a'+i), nil, style)
		rank := geom.Center(types.NewSquare(0, i))
		screen.SetContent(x+1, b.originY+rank.Y, rune('1'+i), nil, style)
	}
}
