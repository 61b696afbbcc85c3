package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"kibitz/config"
	"kibitz/types"
)

// ThemePickerUI selects board and piece themes with a live preview.
type ThemePickerUI struct {
	flex      *tview.Flex
	themeList *tview.List
	preview   *tview.Box
	themes    *config.ThemeCatalog
	onBoard   func(name string)
	onPiece   func(name string)
	onDone    func()

	board        string
	piece        string
	editingPiece bool // true = piece themes, false = board themes
}

// previewFEN is a short Italian game, enough to show every piece kind.
const previewFEN = "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"

// NewThemePicker creates the theme screen. onBoard and onPiece receive the
// confirmed theme name.
func NewThemePicker(themes *config.ThemeCatalog, board, piece string, onBoard, onPiece func(string), onDone func()) *ThemePickerUI {
	tp := &ThemePickerUI{
		themes:  themes,
		board:   board,
		piece:   piece,
		onBoard: onBoard,
		onPiece: onPiece,
		onDone:  onDone,
	}

	tp.themeList = tview.NewList()
	tp.themeList.SetBorder(true)
	tp.themeList.ShowSecondaryText(false)
	tp.populate()

	tp.themeList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if tp.editingPiece {
			if index >= 0 && index < len(themes.Pieces) {
				tp.piece = themes.Pieces[index].Name
			}
		} else if index >= 0 && index < len(themes.Boards) {
			tp.board = themes.Boards[index].Name
		}
	})

	tp.themeList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if tp.editingPiece {
			if tp.onPiece != nil {
				tp.onPiece(tp.piece)
			}
			return
		}
		if tp.onBoard != nil {
			tp.onBoard(tp.board)
		}
	})
	tp.themeList.SetInputCapture(tp.handleInput)

	tp.preview = tview.NewBox()
	tp.preview.SetBorder(true)
	tp.preview.SetTitle(" Preview ")
	tp.preview.SetDrawFunc(tp.drawPreview)

	tp.flex = tview.NewFlex().
		AddItem(tp.themeList, 34, 0, true).
		AddItem(tp.preview, 0, 1, false)
	return tp
}

func (tp *ThemePickerUI) Flex() *tview.Flex {
	return tp.flex
}

// Sync resets the highlighted themes to the ones in use.
func (tp *ThemePickerUI) Sync(board, piece string) {
	tp.board, tp.piece = board, piece
	tp.populate()
}

// Selection returns the highlighted board and piece theme names.
func (tp *ThemePickerUI) Selection() (board, piece string) { return tp.board, tp.piece }

func (tp *ThemePickerUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q'):
		if tp.onDone != nil {
			tp.onDone()
		}
		return nil
	case event.Key() == tcell.KeyTab:
		tp.ToggleMode()
		return nil
	}
	return event
}

// ToggleMode switches between board and piece themes.
func (tp *ThemePickerUI) ToggleMode() {
	tp.editingPiece = !tp.editingPiece
	tp.populate()
}

// populate refills the list. Adding the first item fires the changed
// callback, so the current names are captured first.
func (tp *ThemePickerUI) populate() {
	board, piece := tp.board, tp.piece
	tp.themeList.Clear()
	if tp.editingPiece {
		tp.themeList.SetTitle(" Pieces (Tab: boards) ")
		for i, p := range tp.themes.Pieces {
			tp.themeList.AddItem(fmt.Sprintf("%s %s", string([]rune(p.White)[0])+string([]rune(p.Black)[0]), tview.Escape(p.Label)), "", rune('a'+i), nil)
			if p.Name == piece {
				tp.themeList.SetCurrentItem(i)
			}
		}
		tp.board = board
		return
	}
	tp.themeList.SetTitle(" Boards (Tab: pieces) ")
	for i, b := range tp.themes.Boards {
		tp.themeList.AddItem(fmt.Sprintf("[#%06x]██[#%06x]██[-] %s",
			tcell.PaletteColor(b.Light).Hex(), tcell.PaletteColor(b.Dark).Hex(), tview.Escape(b.Label)),
			"", rune('a'+i), nil)
		if b.Name == board {
			tp.themeList.SetCurrentItem(i)
		}
	}
	tp.piece = piece
}

func (tp *ThemePickerUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if width < 20 || height < 10 {
		return x, y, width, height
	}
	bt, ok := tp.themes.Board(tp.board)
	if !ok {
		bt, _ = tp.themes.Board(config.DefaultBoardTheme)
	}
	pt, ok := tp.themes.Piece(tp.piece)
	if !ok {
		pt, _ = tp.themes.Piece(config.DefaultPieceTheme)
	}
	pieces, err := piecesFromFEN(previewFEN)
	if err != nil {
		return x, y, width, height
	}

	startX, startY := x+2, y+1
	for row := 0; row < 8; row++ {
		for file := 0; file < 8; file++ {
			rank := 7 - row
			bg := tcell.PaletteColor(bt.Light)
			if (file+rank)%2 == 0 {
				bg = tcell.PaletteColor(bt.Dark)
			}
			style := tcell.StyleDefault.Background(bg)
			ch := ' '
			if p := pieces[types.NewSquare(file, rank)-1]; p.kind != 0 {
				ch = pt.Glyph(p.kind, p.white)
				fg := tcell.ColorBlack
				if p.white {
					fg = tcell.ColorWhite
				}
				style = style.Foreground(fg).Bold(true)
			}
			screen.SetContent(startX+file*3, startY+row, ' ', nil, style)
			screen.SetContent(startX+file*3+1, startY+row, ch, nil, style)
			screen.SetContent(startX+file*3+2, startY+row, ' ', nil, style)
		}
	}

	info := fmt.Sprintf("Board: %s  Pieces: %s", bt.Label, pt.Label)
	drawText(screen, startX, startY+9, info, tcell.StyleDefault)
	return x, y, width, height
}
