package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"kibitz/replay"
	"kibitz/types"
)

// linesPerRow is how many screen lines one move-number row takes: the moves
// and their detail line.
const linesPerRow = 2

// columnW is the width of one side's column in the move list.
const columnW = 18

// qualityColors maps move quality to a tview color tag.
var qualityColors = map[types.Quality]string{
	types.BestMove:   "green",
	types.Excellent:  "lightgreen",
	types.Inaccuracy: "yellow",
	types.Mistake:    "orange",
	types.Blunder:    "red",
}

// MoveListUI shows one row per move number with a detail line under it.
// It implements replay.MoveListView.
type MoveListUI struct {
	*tview.Box
	pairs    []replay.MovePair
	selected int
	offset   int
	onSelect func(index int)
}

var _ replay.MoveListView = (*MoveListUI)(nil)

func NewMoveList() *MoveListUI {
	l := &MoveListUI{
		Box:      tview.NewBox(),
		selected: -1,
	}
	l.SetBorder(true)
	l.SetTitle(" Moves ")
	l.SetTitleAlign(tview.AlignLeft)
	return l
}

// OnSelect registers fn to be called with the play index of a clicked move.
func (l *MoveListUI) OnSelect(fn func(index int)) {
	l.onSelect = fn
}

func (l *MoveListUI) SetMoves(pairs []replay.MovePair) {
	l.pairs = append([]replay.MovePair(nil), pairs...)
	l.selected = -1
	l.offset = 0
}

func (l *MoveListUI) Select(i int) { l.selected = i }

func (l *MoveListUI) ScrollTo(row int) {
	if row < 0 {
		row = 0
	}
	l.offset = row
}

// Offset returns the first visible row.
func (l *MoveListUI) Offset() int { return l.offset }

// Draw renders the visible rows.
func (l *MoveListUI) Draw(screen tcell.Screen) {
	l.Box.DrawForSubclass(screen, l)
	x, y, width, height := l.GetInnerRect()
	if len(l.pairs) == 0 {
		tview.Print(screen, "[gray]No moves[-]", x+1, y, width-1, tview.AlignLeft, tcell.ColorDefault)
		return
	}

	for line := 0; line < height; line += linesPerRow {
		row := l.offset + line/linesPerRow
		if row >= len(l.pairs) {
			break
		}
		p := l.pairs[row]
		tview.Print(screen, fmt.Sprintf("[gray]%3d.[-]", p.Number), x, y+line, 5, tview.AlignLeft, tcell.ColorDefault)
		l.drawMove(screen, p.White, p.WhiteIndex, x+5, y+line, width-5)
		l.drawMove(screen, p.Black, p.BlackIndex, x+5+columnW, y+line, width-5-columnW)
	}
}

func (l *MoveListUI) drawMove(screen tcell.Screen, rec *types.MoveRecord, index, x, y, width int) {
	if rec == nil || width <= 0 {
		return
	}
	w := columnW
	if width < w {
		w = width
	}
	text := moveText(rec)
	if index == l.selected {
		text = "[black:white]" + text + "[-:-]"
	}
	tview.Print(screen, text, x, y, w, tview.AlignLeft, tcell.ColorDefault)
	tview.Print(screen, detailText(rec), x, y+1, w, tview.AlignLeft, tcell.ColorDefault)
}

// moveText is the escaped SAN with the white win rate after it.
func moveText(rec *types.MoveRecord) string {
	return fmt.Sprintf("%s [gray]%d%%[-]", tview.Escape(rec.SAN), rec.WinRateWhite)
}

// detailText is "<Quality>! Best: <SAN>" for inaccuracies, mistakes and
// blunders, "<Quality>!" for best and excellent moves, and empty otherwise.
func detailText(rec *types.MoveRecord) string {
	tag := "[" + qualityColors[rec.Quality] + "]" + rec.Quality.String() + "![-]"
	switch rec.Quality {
	case types.Inaccuracy, types.Mistake, types.Blunder:
		if rec.BestMoveSAN == "" || rec.BestMoveSAN == "N/A" {
			return tag
		}
		return tag + " [gray]Best: " + tview.Escape(rec.BestMoveSAN) + "[-]"
	case types.BestMove, types.Excellent:
		return tag
	default:
		return ""
	}
}

// IndexAt returns the play index of the move drawn at screen position
// (sx, sy), or -1.
func (l *MoveListUI) IndexAt(sx, sy int) int {
	x, y, _, height := l.GetInnerRect()
	if sy < y || sy >= y+height || sx < x+5 {
		return -1
	}
	row := l.offset + (sy-y)/linesPerRow
	if row >= len(l.pairs) {
		return -1
	}
	p := l.pairs[row]
	if sx < x+5+columnW {
		if p.White != nil {
			return p.WhiteIndex
		}
		return -1
	}
	if sx < x+5+2*columnW && p.Black != nil {
		return p.BlackIndex
	}
	return -1
}

// MouseHandler selects the clicked move.
func (l *MoveListUI) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return l.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
		if !l.InRect(event.Position()) {
			return false, nil
		}
		switch action {
		case tview.MouseLeftClick:
			if i := l.IndexAt(event.Position()); i >= 0 && l.onSelect != nil {
				l.onSelect(i)
			}
			return true, nil
		case tview.MouseScrollUp:
			l.ScrollTo(l.offset - 1)
			return true, nil
		case tview.MouseScrollDown:
			if l.offset < len(l.pairs)-1 {
				l.offset++
			}
			return true, nil
		}
		return false, nil
	})
}
