package replay

import (
	"errors"
	"testing"
)

func TestNewDisplayFallsBackToDefaults(t *testing.T) {
	b := &fakeBoard{}
	d := NewDisplay(b, testThemes(), &fakePrefs{}, "neon", "emoji")
	if d.BoardTheme() != "brown" || d.PieceTheme() != "unicode" {
		t.Errorf("themes = %q %q", d.BoardTheme(), d.PieceTheme())
	}
	if len(b.rebuilds) != 1 || b.rebuilds[0] != "unicode" {
		t.Errorf("rebuilds = %v", b.rebuilds)
	}
}

func TestBoardThemeNeverRerenders(t *testing.T) {
	h := newHarness(t)
	h.load(t, scholarsMate())
	h.goTo(t, 2)
	calls := h.board.highlightCalls

	if err := h.viewer.Dispatch(SetBoardTheme{Name: "blue"}); err != nil {
		t.Fatalf("SetBoardTheme: %v", err)
	}
	if h.board.highlightCalls != calls {
		t.Error("board theme change re-rendered move data")
	}
	if h.prefs.board != "blue" || h.viewer.Display().BoardTheme() != "blue" {
		t.Errorf("prefs = %q", h.prefs.board)
	}
	if last := h.board.boardThemes[len(h.board.boardThemes)-1]; last != "blue" {
		t.Errorf("applied theme = %q", last)
	}
}

func TestUnknownThemeRejected(t *testing.T) {
	h := newHarness(t)
	for _, cmd := range []Command{SetBoardTheme{Name: "neon"}, SetPieceTheme{Name: "emoji"}} {
		err := h.viewer.Dispatch(cmd)
		if !errors.Is(err, ErrUnknownTheme) {
			t.Errorf("%+v: err = %v", cmd, err)
		}
	}
	if h.prefs.board != "" || h.prefs.piece != "" {
		t.Error("rejected theme was persisted")
	}
	if len(h.board.rebuilds) != 1 {
		t.Errorf("rejected piece theme rebuilt the board: %v", h.board.rebuilds)
	}
}

func TestPieceThemeSchedulesSilentRerender(t *testing.T) {
	h := newHarness(t)
	h.load(t, scholarsMate())
	h.goTo(t, 5)
	cues := len(h.audio.cues)
	calls := h.board.highlightCalls

	if err := h.viewer.Dispatch(SetPieceTheme{Name: "letters"}); err != nil {
		t.Fatalf("SetPieceTheme: %v", err)
	}
	if got := h.board.rebuilds[len(h.board.rebuilds)-1]; got != "letters" {
		t.Errorf("rebuilt with %q", got)
	}
	if got := h.board.boardThemes[len(h.board.boardThemes)-1]; got != "brown" {
		t.Errorf("board theme not re-applied after rebuild: %q", got)
	}
	if h.prefs.piece != "letters" {
		t.Errorf("prefs = %q", h.prefs.piece)
	}
	if len(h.sched.after) != 1 || h.sched.after[0].d != PieceThemeSettle || PieceThemeSettle <= 0 {
		t.Fatalf("scheduled = %+v", h.sched.after)
	}
	if h.board.highlightCalls != calls {
		t.Error("re-render ran before the settle delay")
	}

	h.sched.runAfter()
	if h.board.highlightCalls != calls+1 {
		t.Error("settle callback did not re-render")
	}
	if len(h.audio.cues) != cues {
		t.Error("piece theme re-render played audio")
	}
	if h.board.fen != fenNf6 {
		t.Errorf("board = %q", h.board.fen)
	}
}

func TestPieceThemeAtStartDoesNotSchedule(t *testing.T) {
	h := newHarness(t)
	if err := h.viewer.Dispatch(SetPieceTheme{Name: "letters"}); err != nil {
		t.Fatal(err)
	}
	if len(h.sched.after) != 0 {
		t.Errorf("scheduled %d renders at the starting position", len(h.sched.after))
	}
}

func TestPersistFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.prefs.err = errors.New("read-only")
	if err := h.viewer.Dispatch(SetBoardTheme{Name: "blue"}); err != nil {
		t.Errorf("persist failure surfaced: %v", err)
	}
	if h.viewer.Display().BoardTheme() != "blue" {
		t.Error("theme not applied")
	}
}

func TestFlipTogglesOrientation(t *testing.T) {
	h := newHarness(t)
	h.viewer.Dispatch(Flip{})
	if h.board.orientation != BlackBottom || h.viewer.Geometry().Orientation != BlackBottom {
		t.Error("flip did not reach the board")
	}
	h.viewer.Dispatch(Flip{})
	if h.board.orientation != WhiteBottom || h.board.flips != 2 {
		t.Errorf("orientation = %v flips = %d", h.board.orientation, h.board.flips)
	}
}
