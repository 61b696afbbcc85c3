package replay

import (
	"errors"
	"testing"

	"kibitz/analysis"
	"kibitz/types"
)

func TestNewViewerShowsStartingPosition(t *testing.T) {
	h := newHarness(t)
	if h.board.fen != types.StartFEN {
		t.Errorf("board = %q", h.board.fen)
	}
	if h.win.white != 50 || h.win.black != 50 {
		t.Errorf("win rate = %d/%d", h.win.white, h.win.black)
	}
	if len(h.audio.cues) != 0 {
		t.Errorf("startup played audio: %v", h.audio.cues)
	}
}

func TestLoadContract(t *testing.T) {
	h := newHarness(t)
	h.load(t, scholarsMate())
	h.goTo(t, 4)
	h.viewer.Dispatch(ManualGesture{From: types.MustSquare("a2"), To: types.MustSquare("a4")})

	next := &analysis.Result{Records: types.AnalysisSet{
		rec(1, types.White, "e4", fenE4, types.BestMove, "e2", "e4", "", "", 55, 45),
	}, Opening: types.OpeningName{EN: "King's Pawn"}}
	h.load(t, next)

	if h.viewer.Index() != -1 {
		t.Errorf("cursor = %d, want -1", h.viewer.Index())
	}
	if h.viewer.ManualArrows() != 0 || len(h.board.manual) != 0 {
		t.Errorf("manual arrows survived load: %d", h.viewer.ManualArrows())
	}
	if len(h.list.pairs) != 1 {
		t.Errorf("list pairs = %d, want 1", len(h.list.pairs))
	}
	if h.board.fen != types.StartFEN || h.list.selected != -1 {
		t.Errorf("after load board = %q selected = %d", h.board.fen, h.list.selected)
	}
	if h.summary.opening.EN != "King's Pawn" {
		t.Errorf("summary opening = %+v", h.summary.opening)
	}
}

func TestManualArrowsSurviveNavigation(t *testing.T) {
	h := newHarness(t)
	h.load(t, scholarsMate())
	h.goTo(t, 1)
	h.viewer.Dispatch(ManualGesture{From: types.MustSquare("d1"), To: types.MustSquare("h5")})
	if len(h.board.manual) != 1 || h.board.manual[0].Kind != ManualArrow {
		t.Fatalf("manual arrows = %v", h.board.manual)
	}

	for _, i := range []int{2, 5, 0, 6} {
		h.goTo(t, i)
		if len(h.board.manual) != 1 {
			t.Errorf("index %d: manual arrows = %v", i, h.board.manual)
		}
	}

	h.goTo(t, -1)
	if len(h.board.manual) != 0 {
		t.Errorf("starting position drew manual arrows: %v", h.board.manual)
	}
	if h.viewer.ManualArrows() != 1 {
		t.Fatalf("overlay holds %d arrows after visiting the start, want 1", h.viewer.ManualArrows())
	}
	h.viewer.Dispatch(Flip{})
	h.viewer.Dispatch(Flip{})
	if len(h.board.manual) != 0 {
		t.Errorf("flip at the start drew hidden manual arrows: %v", h.board.manual)
	}
	h.goTo(t, 2)
	if len(h.board.manual) != 1 || h.board.manual[0].Arrow != (types.Arrow{From: types.MustSquare("d1"), To: types.MustSquare("h5")}) {
		t.Errorf("manual arrow not restored after the start: %v", h.board.manual)
	}
}

func TestManualClickClears(t *testing.T) {
	h := newHarness(t)
	h.load(t, scholarsMate())
	h.goTo(t, 0)
	h.viewer.Dispatch(ManualGesture{From: types.MustSquare("d1"), To: types.MustSquare("h5")})
	h.viewer.Dispatch(ManualGesture{From: types.MustSquare("b1"), To: types.MustSquare("c3")})
	h.viewer.Dispatch(ManualGesture{From: types.MustSquare("c3"), To: types.MustSquare("c3")})
	if len(h.board.manual) != 0 {
		t.Errorf("click left %v", h.board.manual)
	}
}

func TestManualArrowsAtStartFollowFlip(t *testing.T) {
	h := newHarness(t)
	h.viewer.Dispatch(ManualGesture{From: types.MustSquare("e2"), To: types.MustSquare("e4")})
	before := h.board.manual[0]
	h.viewer.Dispatch(Flip{})
	after := h.board.manual[0]
	if before.Arrow != after.Arrow || before.From == after.From {
		t.Errorf("manual arrow not reprojected: %+v -> %+v", before, after)
	}
	if h.board.fen != types.StartFEN {
		t.Errorf("flip at start changed the board: %q", h.board.fen)
	}
}

func TestEmptyAnalysis(t *testing.T) {
	h := newHarness(t)
	h.load(t, &analysis.Result{})
	if h.status.status != EmptyMessage {
		t.Errorf("status = %q, want %q", h.status.status, EmptyMessage)
	}
	for _, cmd := range []Command{NavigateTo(3), NavigateBy(1), NavigateLast, NavigateTo(-4)} {
		h.viewer.Dispatch(cmd)
		if h.viewer.Index() != -1 {
			t.Errorf("%+v on empty analysis: index = %d", cmd, h.viewer.Index())
		}
	}
	if h.board.fen != types.StartFEN {
		t.Errorf("board = %q", h.board.fen)
	}
}

func TestLoadRefusedKeepsView(t *testing.T) {
	h := newHarness(t)
	h.load(t, scholarsMate())
	h.goTo(t, 3)

	bad := &analysis.Result{Records: types.AnalysisSet{{MoveNumber: 1, Color: types.White, FEN: "junk"}}}
	err := h.viewer.Dispatch(Load{Result: bad})
	var appErr *analysis.ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %v, want *ApplicationError", err)
	}
	if h.viewer.Index() != 3 || h.board.fen != fenNc6 {
		t.Errorf("refused load changed view: index %d fen %q", h.viewer.Index(), h.board.fen)
	}
	if h.status.errTitle != "Backend error" {
		t.Errorf("status title = %q", h.status.errTitle)
	}
}

func TestNavigateFirstLast(t *testing.T) {
	h := newHarness(t)
	h.load(t, scholarsMate())
	h.viewer.Dispatch(NavigateLast)
	if h.viewer.Index() != 6 || h.board.fen != fenQxf7m {
		t.Errorf("Last: index %d", h.viewer.Index())
	}
	h.viewer.Dispatch(NavigateFirst)
	if h.viewer.Index() != -1 {
		t.Errorf("First: index %d", h.viewer.Index())
	}
}

func TestToggleSummary(t *testing.T) {
	h := newHarness(t)
	if h.summary.visible {
		t.Fatal("summary visible at start")
	}
	h.viewer.Dispatch(ToggleSummary{})
	if !h.summary.visible || !h.viewer.SummaryVisible() {
		t.Error("summary not shown")
	}
	h.viewer.Dispatch(ToggleSummary{})
	if h.summary.visible {
		t.Error("summary not hidden")
	}
}

func TestExportUsesLastFrame(t *testing.T) {
	h := newHarness(t)
	h.load(t, scholarsMate())
	h.goTo(t, 5)
	h.viewer.Dispatch(ManualGesture{From: types.MustSquare("h5"), To: types.MustSquare("f7")})

	if err := h.viewer.Dispatch(Export{Dir: "/tmp/out"}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	f := h.exporter.frame
	if f.Index != 5 || f.FEN != fenNf6 || len(f.AutoArrows) != 1 || len(f.ManualArrows) != 1 {
		t.Errorf("exported frame = %+v", f)
	}
	if h.status.status != "Saved image to /tmp/out/frame.png" {
		t.Errorf("status = %q", h.status.status)
	}

	h.exporter.err = errors.New("disk full")
	if err := h.viewer.Dispatch(Export{Dir: "/tmp/out"}); err == nil {
		t.Error("expected export error")
	}
}

func TestSaveAnnotated(t *testing.T) {
	h := newHarness(t)
	if err := h.viewer.Dispatch(SaveAnnotated{Dir: "/tmp"}); !errors.Is(err, ErrNothingLoaded) {
		t.Errorf("save with nothing loaded = %v", err)
	}
	h.load(t, scholarsMate())
	if err := h.viewer.Dispatch(SaveAnnotated{Dir: "/tmp"}); err != nil {
		t.Fatalf("SaveAnnotated: %v", err)
	}
	if len(h.writer.records) != 7 {
		t.Errorf("wrote %d records", len(h.writer.records))
	}
}

type bogusCommand struct{ Navigate }

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	if err := h.viewer.Dispatch(bogusCommand{}); err == nil {
		t.Error("expected error for unknown command")
	}
}
