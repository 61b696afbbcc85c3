package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"kibitz/config"
	"kibitz/replay"
)

// WinRateBar is a horizontal bar split between White's and Black's winning
// chances. It implements replay.WinRateView.
type WinRateBar struct {
	*tview.Box
	white, black int
	whiteColor   tcell.Color
	blackColor   tcell.Color
}

var _ replay.WinRateView = (*WinRateBar)(nil)

func NewWinRateBar(c *config.Config) *WinRateBar {
	return &WinRateBar{
		Box:        tview.NewBox(),
		white:      50,
		black:      50,
		whiteColor: tcell.PaletteColor(c.Theme.Colors.WinRateWhite),
		blackColor: tcell.PaletteColor(c.Theme.Colors.WinRateBlack),
	}
}

func (w *WinRateBar) SetWinRate(white, black int) {
	w.white, w.black = white, black
}

// Rates returns the displayed percentages.
func (w *WinRateBar) Rates() (white, black int) { return w.white, w.black }

// Draw renders "W 55% ██████░░░░ 45% B".
func (w *WinRateBar) Draw(screen tcell.Screen) {
	w.Box.DrawForSubclass(screen, w)
	x, y, width, height := w.GetInnerRect()
	if height < 1 {
		return
	}
	labelStyle := tcell.StyleDefault.Foreground(MenuColors.Label)

	left := fmt.Sprintf("W %3d%% ", w.white)
	right := fmt.Sprintf(" %3d%% B", w.black)
	col := x
	for _, ch := range left {
		screen.SetContent(col, y, ch, nil, labelStyle)
		col++
	}

	barWidth := width - len([]rune(left)) - len([]rune(right))
	if barWidth < 2 {
		return
	}
	filled := filledCells(w.white, w.black, barWidth)
	for i := 0; i < barWidth; i++ {
		style := tcell.StyleDefault.Foreground(w.blackColor)
		if i < filled {
			style = tcell.StyleDefault.Foreground(w.whiteColor)
		}
		screen.SetContent(col, y, '█', nil, style)
		col++
	}
	for _, ch := range right {
		screen.SetContent(col, y, ch, nil, labelStyle)
		col++
	}
}

// filledCells is White's share of a bar of the given width.
func filledCells(white, black, width int) int {
	total := white + black
	if total <= 0 {
		return width / 2
	}
	n := (white*width + total/2) / total
	if n > width {
		n = width
	}
	return n
}
