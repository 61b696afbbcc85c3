package replay

import (
	"errors"
	"sync"
	"testing"
	"time"

	"kibitz/analysis"
	"kibitz/config"
	"kibitz/types"
)

const (
	fenE4    = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	fenE5    = "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2"
	fenQh5   = "rnbqkbnr/pppp1ppp/8/4p2Q/4P3/8/PPPP1PPP/RNB1KBNR b KQkq - 1 2"
	fenNc6   = "r1bqkbnr/pppp1ppp/2n5/4p2Q/4P3/8/PPPP1PPP/RNB1KBNR w KQkq - 2 3"
	fenBc4   = "r1bqkbnr/pppp1ppp/2n5/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 3 3"
	fenNf6   = "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4"
	fenQxf7m = "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4"
)

func rec(num int, c types.Color, san, fen string, q types.Quality, from, to, bestFrom, bestTo string, ww, wb int) types.MoveRecord {
	sq := func(s string) types.Square {
		if s == "" {
			return types.NoSquare
		}
		return types.MustSquare(s)
	}
	return types.MoveRecord{
		MoveNumber: num, Color: c, SAN: san, FEN: fen, Quality: q,
		ActualFrom: sq(from), ActualTo: sq(to), BestFrom: sq(bestFrom), BestTo: sq(bestTo),
		WinRateWhite: ww, WinRateBlack: wb,
	}
}

// scholarsMate is seven half-moves ending in Qxf7#.
func scholarsMate() *analysis.Result {
	mate := rec(4, types.White, "Qxf7#", fenQxf7m, types.BestMove, "h5", "f7", "N/A", "N/A", 100, 0)
	mate.IsCheck = true
	return &analysis.Result{
		Records: types.AnalysisSet{
			rec(1, types.White, "e4", fenE4, types.BestMove, "e2", "e4", "N/A", "N/A", 55, 45),
			rec(1, types.Black, "e5", fenE5, types.Good, "e7", "e5", "c7", "c5", 56, 44),
			rec(2, types.White, "Qh5", fenQh5, types.Inaccuracy, "d1", "h5", "g1", "f3", 50, 50),
			rec(2, types.Black, "Nc6", fenNc6, types.BestMove, "b8", "c6", "N/A", "N/A", 50, 50),
			rec(3, types.White, "Bc4", fenBc4, types.Excellent, "f1", "c4", "b1", "c3", 52, 48),
			rec(3, types.Black, "Nf6", fenNf6, types.Blunder, "g8", "f6", "g7", "g6", 95, 5),
			mate,
		},
		Summary:    types.Summary{White: types.SummaryStats{BestMove: 2}, Black: types.SummaryStats{Blunder: 1}},
		Opening:    types.OpeningName{EN: "C23 Bishop's Opening"},
		Transcript: "1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7#",
	}
}

type fakeBoard struct {
	fen         string
	orientation Orientation
	flips       int
	rebuilds    []string
	boardThemes []string
	rebuildErr  error

	highlights     []types.Square
	highlightCalls int
	auto           []ArrowMark
	manual         []ArrowMark
}

func (b *fakeBoard) SetPosition(fen string) error { b.fen = fen; return nil }
func (b *fakeBoard) Orientation() Orientation     { return b.orientation }
func (b *fakeBoard) Flip()                        { b.orientation = b.orientation.Flipped(); b.flips++ }
func (b *fakeBoard) Rebuild(theme string) error {
	if b.rebuildErr != nil {
		return b.rebuildErr
	}
	b.rebuilds = append(b.rebuilds, theme)
	return nil
}
func (b *fakeBoard) ApplyBoardTheme(name string) error {
	b.boardThemes = append(b.boardThemes, name)
	return nil
}
func (b *fakeBoard) CellSize() (int, int) { return 6, 3 }
func (b *fakeBoard) SetHighlights(sqs []types.Square) {
	b.highlights = sqs
	b.highlightCalls++
}
func (b *fakeBoard) SetAutoArrows(a []ArrowMark)   { b.auto = a }
func (b *fakeBoard) SetManualArrows(a []ArrowMark) { b.manual = a }

type fakeWinRate struct{ white, black int }

func (w *fakeWinRate) SetWinRate(white, black int) { w.white, w.black = white, black }

type fakeList struct {
	pairs    []MovePair
	selected int
	scroll   int
}

func (l *fakeList) SetMoves(p []MovePair) { l.pairs = p }
func (l *fakeList) Select(i int)          { l.selected = i }
func (l *fakeList) ScrollTo(row int)      { l.scroll = row }

type fakeAudio struct{ cues []Cue }

func (a *fakeAudio) Play(c Cue) { a.cues = append(a.cues, c) }

type fakeStatus struct {
	mu       sync.Mutex
	status   string
	errTitle string
	errMsg   string
}

func (s *fakeStatus) ShowStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.errTitle, s.errMsg = msg, "", ""
}
func (s *fakeStatus) ShowError(title, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.errTitle, s.errMsg = "", title, msg
}

type fakeSummary struct {
	visible bool
	shown   int
	opening types.OpeningName
}

func (s *fakeSummary) ShowSummary(_ types.Summary, o types.OpeningName) { s.shown++; s.opening = o }
func (s *fakeSummary) SetVisible(v bool)                                 { s.visible = v }

type delayed struct {
	d  time.Duration
	fn func()
}

// fakeScheduler queues callbacks until the test runs them.
type fakeScheduler struct {
	posted chan func()
	after  []delayed
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{posted: make(chan func(), 8)}
}

func (s *fakeScheduler) Post(fn func())                   { s.posted <- fn }
func (s *fakeScheduler) After(d time.Duration, fn func()) { s.after = append(s.after, delayed{d, fn}) }

func (s *fakeScheduler) runPosted(t *testing.T) {
	t.Helper()
	select {
	case fn := <-s.posted:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("nothing posted to the UI goroutine")
	}
}

func (s *fakeScheduler) runAfter() {
	pending := s.after
	s.after = nil
	for _, p := range pending {
		p.fn()
	}
}

type fakePrefs struct {
	board, piece string
	err          error
}

func (p *fakePrefs) SetBoardTheme(n string) error { p.board = n; return p.err }
func (p *fakePrefs) SetPieceTheme(n string) error { p.piece = n; return p.err }

type fakeExporter struct {
	frame Frame
	dir   string
	err   error
}

func (e *fakeExporter) ExportFrame(dir string, f Frame, _, _ string) (string, error) {
	e.dir, e.frame = dir, f
	return dir + "/frame.png", e.err
}

type fakeWriter struct {
	records types.AnalysisSet
}

func (w *fakeWriter) WriteAnnotated(dir, _ string, records types.AnalysisSet, _ types.OpeningName) (string, error) {
	if len(records) == 0 {
		return "", errors.New("nothing to write")
	}
	w.records = records
	return dir + "/game.pgn", nil
}

func testThemes() *config.ThemeCatalog {
	return &config.ThemeCatalog{
		Boards: []config.BoardTheme{{Name: "brown", Light: 180, Dark: 137}, {Name: "blue", Light: 153, Dark: 67}},
		Pieces: []config.PieceTheme{
			{Name: "unicode", White: "♔♕♖♗♘♙", Black: "♚♛♜♝♞♟"},
			{Name: "letters", White: "KQRBNP", Black: "kqrbnp"},
		},
	}
}

type harness struct {
	viewer   *Viewer
	board    *fakeBoard
	win      *fakeWinRate
	list     *fakeList
	audio    *fakeAudio
	status   *fakeStatus
	summary  *fakeSummary
	sched    *fakeScheduler
	prefs    *fakePrefs
	exporter *fakeExporter
	writer   *fakeWriter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		board:    &fakeBoard{},
		win:      &fakeWinRate{},
		list:     &fakeList{selected: -1},
		audio:    &fakeAudio{},
		status:   &fakeStatus{},
		summary:  &fakeSummary{},
		sched:    newFakeScheduler(),
		prefs:    &fakePrefs{},
		exporter: &fakeExporter{},
		writer:   &fakeWriter{},
	}
	views := Views{
		Board: h.board, Marks: h.board, WinRate: h.win, List: h.list,
		Audio: h.audio, Status: h.status, Summary: h.summary,
	}
	display := NewDisplay(h.board, testThemes(), h.prefs, "brown", "unicode")
	h.viewer = NewViewer(views, display, h.sched, Options{Exporter: h.exporter, Writer: h.writer})
	return h
}

func (h *harness) load(t *testing.T, res *analysis.Result) {
	t.Helper()
	if err := h.viewer.Dispatch(Load{Result: res}); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func (h *harness) goTo(t *testing.T, i int) {
	t.Helper()
	if err := h.viewer.Dispatch(NavigateTo(i)); err != nil {
		t.Fatalf("NavigateTo(%d): %v", i, err)
	}
}
