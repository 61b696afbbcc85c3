package ui

import "github.com/rivo/tview"

// moveListWidth fits the number column plus two move columns and borders.
const moveListWidth = 5 + 2*columnW + 2

// ViewerLayout arranges the replay screen: win-rate bar over the board, move
// list and optional summary on the right, status at the bottom.
type ViewerLayout struct {
	*tview.Flex
	boardRow *tview.Flex
	summary  *SummaryCard
}

// NewViewerLayout builds the replay screen and hooks summary visibility to it.
func NewViewerLayout(board *ChessBoardUI, winRate *WinRateBar, list *MoveListUI, summary *SummaryCard, status *StatusBar) *ViewerLayout {
	boardCol := tview.NewFlex().SetDirection(tview.FlexRow)
	boardCol.AddItem(winRate, 1, 0, false)
	boardCol.AddItem(board.Box, 0, 1, true)

	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(boardCol, 0, 1, true)
	boardRow.AddItem(list, moveListWidth, 0, false)
	boardRow.AddItem(summary, 0, 0, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow)
	main.AddItem(boardRow, 0, 1, true)
	main.AddItem(status, 4, 0, false)

	l := &ViewerLayout{Flex: main, boardRow: boardRow, summary: summary}
	summary.OnVisible(l.setSummaryVisible)
	return l
}

func (l *ViewerLayout) setSummaryVisible(visible bool) {
	width := 0
	if visible {
		width = SummaryWidth
	}
	l.boardRow.ResizeItem(l.summary, width, 0)
}

// CreateCenteredForm creates a centered container for a form screen.
func CreateCenteredForm(form tview.Primitive, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(form, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)
	return centered
}
