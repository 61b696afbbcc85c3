package ui

import (
	"github.com/rivo/tview"

	"kibitz/replay"
)

const keyHint = "[gray]←/→ move  Home/End  f flip  m sound  s summary  t themes  n new  o open  e image  w save  q quit[-]"

// StatusBar shows the latest status or error above the key hint. Every
// message is escaped, so backend text cannot inject color tags.
type StatusBar struct {
	*tview.TextView
	line string
}

var _ replay.StatusView = (*StatusBar)(nil)

func NewStatusBar() *StatusBar {
	s := &StatusBar{TextView: tview.NewTextView()}
	s.SetDynamicColors(true)
	s.SetBorder(true)
	s.SetBorderPadding(0, 0, 1, 1)
	s.SetTitle(" Status ")
	s.SetTitleAlign(tview.AlignLeft)
	s.refresh()
	return s
}

func (s *StatusBar) ShowStatus(msg string) {
	s.line = tview.Escape(msg)
	s.refresh()
}

func (s *StatusBar) ShowError(title, msg string) {
	s.line = "[red::b]" + tview.Escape(title) + "[-:-:-] " + tview.Escape(msg)
	s.refresh()
}

// Line returns the current status markup.
func (s *StatusBar) Line() string { return s.line }

func (s *StatusBar) refresh() {
	s.SetText(s.line + "\n" + keyHint)
}
