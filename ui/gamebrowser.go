package ui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"kibitz/config"
	"kibitz/obslog"
	"kibitz/pgn"
	"kibitz/types"
)

// GameBrowserUI lists the PGN files in the library with a preview of each
// game's final position.
type GameBrowserUI struct {
	flex     *tview.Flex
	gameList *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	dir      string
	glyphs   config.PieceTheme
	games    []*pgn.GameInfo
	boards   map[string]*[64]boardPiece // cached final positions by path
	selected int
	onOpen   func(path string)
	onDone   func()
}

// NewGameBrowser creates the browser for the PGN files in dir.
func NewGameBrowser(dir string, glyphs config.PieceTheme, onOpen func(path string), onDone func()) *GameBrowserUI {
	gb := &GameBrowserUI{
		dir:    dir,
		glyphs: glyphs,
		onOpen: onOpen,
		onDone: onDone,
		boards: make(map[string]*[64]boardPiece),
	}

	gb.gameList = tview.NewList()
	gb.gameList.SetBorder(true)
	gb.gameList.SetTitle(" Game Library ")
	gb.gameList.ShowSecondaryText(false)
	gb.gameList.SetHighlightFullLine(true)
	gb.gameList.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	gb.gameList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	gb.preview = tview.NewBox()
	gb.preview.SetBorder(true)
	gb.preview.SetTitle(" Preview ")
	gb.preview.SetDrawFunc(gb.drawPreview)

	gb.hint = tview.NewTextView()
	gb.hint.SetDynamicColors(true)
	gb.hint.SetText("  [gray]⏎[-] analyze  [gray]d[-] delete  [gray]q[-] back")

	gb.gameList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		gb.selected = index
	})
	gb.gameList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index < 0 || index >= len(gb.games) || gb.onOpen == nil {
			return
		}
		gb.onOpen(gb.games[index].FilePath)
	})
	gb.gameList.SetInputCapture(gb.handleInput)

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(gb.gameList, 44, 0, true).
		AddItem(gb.preview, 0, 1, false)

	gb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(gb.hint, 1, 0, false)

	gb.loadGames()
	return gb
}

func (gb *GameBrowserUI) Flex() *tview.Flex {
	return gb.flex
}

// Refresh rescans the library directory.
func (gb *GameBrowserUI) Refresh() {
	gb.boards = make(map[string]*[64]boardPiece)
	gb.loadGames()
}

// Games returns the listed games.
func (gb *GameBrowserUI) Games() []*pgn.GameInfo { return gb.games }

func (gb *GameBrowserUI) loadGames() {
	gb.gameList.Clear()
	gb.games = nil
	gb.selected = 0

	games, err := pgn.ListGames(gb.dir)
	if err != nil {
		obslog.L().Warn("list library", zap.String("dir", gb.dir), zap.Error(err))
	}
	if len(games) == 0 {
		gb.gameList.AddItem("[gray]No games found[-]", "", 0, nil)
		return
	}

	gb.games = games
	for _, g := range games {
		gb.gameList.AddItem(tview.Escape(listLabel(g)), "", 0, nil)
	}
}

func listLabel(g *pgn.GameInfo) string {
	players := g.FileName
	if g.White != "" || g.Black != "" {
		players = fmt.Sprintf("%s - %s", orUnknown(g.White), orUnknown(g.Black))
	}
	result := g.Result
	if result == "" || result == "*" {
		result = "..."
	}
	return fmt.Sprintf("%s  %s", players, result)
}

func orUnknown(s string) string {
	if s == "" || s == "?" {
		return "?"
	}
	return s
}

func (gb *GameBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if gb.onDone != nil {
			gb.onDone()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if gb.onDone != nil {
				gb.onDone()
			}
			return nil
		case 'd':
			gb.deleteSelected()
			return nil
		}
	}
	return event
}

func (gb *GameBrowserUI) deleteSelected() {
	if gb.selected < 0 || gb.selected >= len(gb.games) {
		return
	}
	game := gb.games[gb.selected]
	if err := os.Remove(game.FilePath); err != nil {
		obslog.L().Warn("delete game", zap.String("path", game.FilePath), zap.Error(err))
	}
	gb.Refresh()
}

// finalPosition replays the game once and caches the result.
func (gb *GameBrowserUI) finalPosition(path string) *[64]boardPiece {
	if b, ok := gb.boards[path]; ok {
		return b
	}
	fen, _, err := pgn.ReplayToEnd(path)
	if err != nil && fen == "" {
		gb.boards[path] = nil
		return nil
	}
	pieces, err := piecesFromFEN(fen)
	if err != nil {
		gb.boards[path] = nil
		return nil
	}
	gb.boards[path] = &pieces
	return &pieces
}

func (gb *GameBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if gb.selected < 0 || gb.selected >= len(gb.games) {
		return x, y, width, height
	}
	game := gb.games[gb.selected]
	startX, startY := x+2, y+1
	if width < 20 || height < 14 {
		return x, y, width, height
	}

	if board := gb.finalPosition(game.FilePath); board != nil {
		emptyStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
		whiteStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(255)).Bold(true)
		blackStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))
		for row := 0; row < 8; row++ {
			for file := 0; file < 8; file++ {
				p := board[types.NewSquare(file, 7-row)-1]
				ch, style := '·', emptyStyle
				if p.kind != 0 {
					ch = gb.glyphs.Glyph(p.kind, p.white)
					style = blackStyle
					if p.white {
						style = whiteStyle
					}
				}
				screen.SetContent(startX+file*2, startY+row, ch, nil, style)
			}
		}
	}

	infoY := startY + 9
	infoStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))
	dimStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))
	drawText(screen, startX, infoY, fmt.Sprintf("%d half-moves", game.MoveCount), infoStyle)
	if game.ECO != "" {
		drawText(screen, startX+16, infoY, "| "+game.ECO, dimStyle)
	}
	infoY++
	drawText(screen, startX, infoY, "W: "+orUnknown(game.White), dimStyle)
	infoY++
	drawText(screen, startX, infoY, "B: "+orUnknown(game.Black), dimStyle)
	infoY++
	if game.Event != "" && game.Event != "?" {
		drawText(screen, startX, infoY, game.Event+"  "+game.Date, dimStyle)
		infoY++
	}
	result := game.Result
	if result == "" || result == "*" {
		result = "Unfinished"
	}
	drawText(screen, startX, infoY, "Result: "+result, tcell.StyleDefault.Foreground(tcell.PaletteColor(109)))
	return x, y, width, height
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		screen.SetContent(col, y, ch, nil, style)
		col++
	}
}
