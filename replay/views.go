// Package replay is the move navigation and annotation state machine. It owns
// which move is on screen and keeps every dependent view consistent with it.
package replay

import (
	"time"

	"kibitz/types"
)

// Orientation is which side sits at the bottom of the board.
type Orientation int

const (
	WhiteBottom Orientation = iota
	BlackBottom
)

// Flipped returns the opposite orientation.
func (o Orientation) Flipped() Orientation {
	if o == WhiteBottom {
		return BlackBottom
	}
	return WhiteBottom
}

func (o Orientation) String() string {
	if o == BlackBottom {
		return "black"
	}
	return "white"
}

// Cue is an audio cue played on navigation.
type Cue int

const (
	CueNone Cue = iota
	CueMove
	CueCheck
)

// BoardWidget paints a position.
type BoardWidget interface {
	SetPosition(fen string) error
	Orientation() Orientation
	Flip()
	// Rebuild swaps the piece glyph set, keeping the current position.
	Rebuild(pieceTheme string) error
	ApplyBoardTheme(name string) error
}

// MarkLayer draws square highlights and arrows on top of the board.
type MarkLayer interface {
	// CellSize is the size of one board square in layer units.
	CellSize() (w, h int)
	SetHighlights(squares []types.Square)
	SetAutoArrows(arrows []ArrowMark)
	SetManualArrows(arrows []ArrowMark)
}

type WinRateView interface {
	SetWinRate(white, black int)
}

// MoveListView shows the moves grouped per move number.
type MoveListView interface {
	SetMoves(pairs []MovePair)
	// Select marks the entry for play index i; -1 clears the selection.
	Select(i int)
	// ScrollTo makes row the first visible row.
	ScrollTo(row int)
}

// CuePlayer plays audio cues. Play restarts the cue from the beginning and
// never reports failure.
type CuePlayer interface {
	Play(c Cue)
}

type StatusView interface {
	ShowStatus(msg string)
	ShowError(title, msg string)
}

type SummaryView interface {
	ShowSummary(summary types.Summary, opening types.OpeningName)
	SetVisible(visible bool)
}

// PrefsStore persists theme choices.
type PrefsStore interface {
	SetBoardTheme(name string) error
	SetPieceTheme(name string) error
}

// Scheduler runs callbacks on the UI goroutine.
type Scheduler interface {
	Post(fn func())
	After(d time.Duration, fn func())
}

// Views groups everything the viewer draws into.
type Views struct {
	Board   BoardWidget
	Marks   MarkLayer
	WinRate WinRateView
	List    MoveListView
	Audio   CuePlayer
	Status  StatusView
	Summary SummaryView
}
