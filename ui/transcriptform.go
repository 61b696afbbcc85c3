package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"kibitz/pgn"
)

const (
	analyzeLabel = "Analyze"
	pendingLabel = "Analyzing…"
)

// TranscriptFormUI collects a game to analyze, either as a PGN file path or
// as pasted movetext.
type TranscriptFormUI struct {
	form      *tview.Form
	flex      *tview.Flex
	path      string
	moves     string
	pending   bool
	onAnalyze func()
}

// NewTranscriptForm creates the new-analysis form.
func NewTranscriptForm(onAnalyze func(), onLibrary func(), onCancel func()) *TranscriptFormUI {
	tf := &TranscriptFormUI{onAnalyze: onAnalyze}

	form := tview.NewForm()
	form.AddInputField("PGN file", "", 48, nil, func(text string) {
		tf.path = text
	})
	form.AddInputField("or moves", "", 48, nil, func(text string) {
		tf.moves = text
	})

	form.AddButton(analyzeLabel, func() {
		if tf.pending || tf.onAnalyze == nil {
			return
		}
		tf.onAnalyze()
	})
	form.AddButton("Library", func() {
		if onLibrary != nil {
			onLibrary()
		}
	})
	form.AddButton("Cancel", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Analysis ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(tcell.ColorDarkCyan)
	form.SetButtonTextColor(tcell.ColorWhite)

	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Enter: confirm  |  Esc: back").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(tcell.ColorGray)

	tf.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(helpText, 1, 0, false)
	tf.form = form
	return tf
}

// Form returns the flex container with form and help text.
func (tf *TranscriptFormUI) Form() *tview.Flex {
	return tf.flex
}

func (tf *TranscriptFormUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	tf.form.SetInputCapture(capture)
}

// Transcript returns the game to analyze. A file path wins over pasted moves.
func (tf *TranscriptFormUI) Transcript() (string, error) {
	if p := strings.TrimSpace(tf.path); p != "" {
		return pgn.ReadTranscript(p)
	}
	return strings.TrimSpace(tf.moves), nil
}

// SetPending disables the analyze button while a request is outstanding.
func (tf *TranscriptFormUI) SetPending(pending bool) {
	tf.pending = pending
	label := analyzeLabel
	if pending {
		label = pendingLabel
	}
	tf.form.GetButton(0).SetLabel(label)
}

func (tf *TranscriptFormUI) Pending() bool { return tf.pending }
