package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"kibitz/replay"
	"kibitz/types"
)

// SummaryWidth is the card's width in the layout when visible.
const SummaryWidth = 34

var summaryRows = []types.Quality{
	types.BestMove,
	types.Excellent,
	types.Good,
	types.Inaccuracy,
	types.Mistake,
	types.Blunder,
}

// SummaryCard is a rounded card with per-player statistics and the opening
// name. It implements replay.SummaryView.
type SummaryCard struct {
	*tview.Box
	summary   types.Summary
	opening   types.OpeningName
	loaded    bool
	visible   bool
	onVisible func(bool)
}

var _ replay.SummaryView = (*SummaryCard)(nil)

func NewSummaryCard() *SummaryCard {
	return &SummaryCard{Box: tview.NewBox()}
}

// OnVisible registers fn to show or hide the card in its container.
func (c *SummaryCard) OnVisible(fn func(bool)) {
	c.onVisible = fn
}

func (c *SummaryCard) ShowSummary(summary types.Summary, opening types.OpeningName) {
	c.summary = summary
	c.opening = opening
	c.loaded = true
}

func (c *SummaryCard) SetVisible(visible bool) {
	c.visible = visible
	if c.onVisible != nil {
		c.onVisible(visible)
	}
}

func (c *SummaryCard) Visible() bool { return c.visible }

// Lines returns the card body as tview markup, one entry per line.
func (c *SummaryCard) Lines() []string {
	if !c.loaded {
		return []string{"[gray]No analysis loaded[-]"}
	}
	var lines []string
	if c.opening.Empty() {
		lines = append(lines, "[gray]Opening unknown[-]")
	} else {
		lines = append(lines, "[::b]"+tview.Escape(c.opening.EN)+"[::-]")
		if c.opening.ZH != "" {
			lines = append(lines, tview.Escape(c.opening.ZH))
		}
	}
	lines = append(lines, "", fmt.Sprintf("%-11s %6s %6s", "", "White", "Black"))
	for _, q := range summaryRows {
		lines = append(lines, fmt.Sprintf("[%s]%-11s[-] %6d %6d", qualityColor(q), q, c.summary.White.Count(q), c.summary.Black.Count(q)))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("%-11s %6d %6d", "ACPL", c.summary.White.ACPL, c.summary.Black.ACPL),
		fmt.Sprintf("%-11s %6d %6d", "Est. Elo", c.summary.White.Elo, c.summary.Black.Elo),
	)
	return lines
}

func qualityColor(q types.Quality) string {
	if c, ok := qualityColors[q]; ok {
		return c
	}
	return "white"
}

// Draw renders the card with rounded borders.
func (c *SummaryCard) Draw(screen tcell.Screen) {
	c.Box.DrawForSubclass(screen, c)

	x, y, width, height := c.GetInnerRect()
	if width < 10 || height < 5 {
		return
	}

	borderStyle := tcell.StyleDefault.Foreground(MenuColors.Border).Background(MenuColors.CardBG)
	bgStyle := tcell.StyleDefault.Background(MenuColors.CardBG)

	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, bgStyle)
		}
	}

	// Top border: ╭───╮
	screen.SetContent(x, y, '╭', nil, borderStyle)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, y, '─', nil, borderStyle)
	}
	screen.SetContent(x+width-1, y, '╮', nil, borderStyle)

	for row := y + 1; row < y+height-1; row++ {
		screen.SetContent(x, row, '│', nil, borderStyle)
		screen.SetContent(x+width-1, row, '│', nil, borderStyle)
	}

	// Bottom border: ╰───╯
	screen.SetContent(x, y+height-1, '╰', nil, borderStyle)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, y+height-1, '─', nil, borderStyle)
	}
	screen.SetContent(x+width-1, y+height-1, '╯', nil, borderStyle)

	titleStyle := tcell.StyleDefault.Foreground(MenuColors.Title).Background(MenuColors.CardBG).Bold(true)
	accentStyle := tcell.StyleDefault.Foreground(MenuColors.TitleAccent).Background(MenuColors.CardBG)
	title := "Summary"
	titleX := x + (width-len(title)-3)/2
	screen.SetContent(titleX, y+1, '◈', nil, accentStyle)
	for i, ch := range title {
		screen.SetContent(titleX+3+i, y+1, ch, nil, titleStyle)
	}

	// Divider: ├───┤
	screen.SetContent(x, y+2, '├', nil, borderStyle)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, y+2, '─', nil, borderStyle)
	}
	screen.SetContent(x+width-1, y+2, '┤', nil, borderStyle)

	for i, line := range c.Lines() {
		row := y + 3 + i
		if row >= y+height-1 {
			break
		}
		tview.Print(screen, line, x+2, row, width-4, tview.AlignLeft, MenuColors.Label)
	}
}
