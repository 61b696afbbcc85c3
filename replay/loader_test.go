package replay

import (
	"context"
	"errors"
	"testing"

	"kibitz/analysis"
	"kibitz/types"
)

// gateAnalyzer blocks until the test releases it.
type gateAnalyzer struct {
	release chan struct{}
	res     *analysis.Result
	err     error
	calls   int
}

func newGate(res *analysis.Result, err error) *gateAnalyzer {
	return &gateAnalyzer{release: make(chan struct{}), res: res, err: err}
}

func (g *gateAnalyzer) Analyze(ctx context.Context, _ string) (*analysis.Result, error) {
	g.calls++
	select {
	case <-g.release:
		return g.res, g.err
	case <-ctx.Done():
		return nil, &analysis.TransportError{Err: ctx.Err()}
	}
}

func TestLoaderSuccess(t *testing.T) {
	h := newHarness(t)
	gate := newGate(scholarsMate(), nil)
	l := NewLoader(gate, h.viewer, h.sched, h.status)
	var pendingStates []bool
	l.OnPending(func(p bool) { pendingStates = append(pendingStates, p) })

	if err := l.Request("1. e4 e5"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if !l.Pending() || h.status.status != AnalyzingMessage {
		t.Errorf("pending = %v status = %q", l.Pending(), h.status.status)
	}
	if h.viewer.Store().Loaded() {
		t.Error("store mutated before the response")
	}

	close(gate.release)
	h.sched.runPosted(t)

	if l.Pending() {
		t.Error("still pending after completion")
	}
	if h.viewer.Store().Len() != 7 {
		t.Errorf("store len = %d", h.viewer.Store().Len())
	}
	if h.status.status == AnalyzingMessage {
		t.Error("status still shows the analyzing placeholder")
	}
	if len(pendingStates) != 2 || !pendingStates[0] || pendingStates[1] {
		t.Errorf("pending transitions = %v", pendingStates)
	}
}

func TestLoaderRejectsWhilePending(t *testing.T) {
	h := newHarness(t)
	gate := newGate(scholarsMate(), nil)
	l := NewLoader(gate, h.viewer, h.sched, h.status)

	if err := l.Request("1. e4"); err != nil {
		t.Fatal(err)
	}
	if err := l.Request("1. d4"); !errors.Is(err, ErrAnalysisPending) {
		t.Errorf("second Request = %v, want ErrAnalysisPending", err)
	}
	close(gate.release)
	h.sched.runPosted(t)
	if gate.calls != 1 {
		t.Errorf("analyzer calls = %d, want 1", gate.calls)
	}
}

func TestLoaderInputError(t *testing.T) {
	h := newHarness(t)
	gate := newGate(nil, nil)
	l := NewLoader(gate, h.viewer, h.sched, h.status)

	err := l.Request("   ")
	var inputErr *analysis.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("err = %v, want *InputError", err)
	}
	if l.Pending() || gate.calls != 0 {
		t.Error("input error started a request")
	}
	if h.status.errTitle != "Input error" {
		t.Errorf("status title = %q", h.status.errTitle)
	}
}

func TestLoaderErrorsKeepPreviousAnalysis(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		title string
		msg   string
	}{
		{"application", &analysis.ApplicationError{Message: "<b>bad pgn</b>"}, "Backend error", "<b>bad pgn</b>"},
		{"http status", &analysis.TransportError{Status: 500, Err: errors.New("boom")}, "Server error", "Server error: HTTP 500"},
		{"network", &analysis.TransportError{Err: errors.New("connection refused")}, "Connection error",
			"Cannot reach the analysis backend: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.load(t, scholarsMate())
			h.goTo(t, 2)

			gate := newGate(nil, tt.err)
			l := NewLoader(gate, h.viewer, h.sched, h.status)
			if err := l.Request("1. e4"); err != nil {
				t.Fatal(err)
			}
			close(gate.release)
			h.sched.runPosted(t)

			if h.status.errTitle != tt.title || h.status.errMsg != tt.msg {
				t.Errorf("status = %q / %q, want %q / %q", h.status.errTitle, h.status.errMsg, tt.title, tt.msg)
			}
			if h.viewer.Store().Len() != 7 || h.viewer.Index() != 2 || h.board.fen != fenQh5 {
				t.Error("error replaced the previous analysis")
			}
			if l.Pending() {
				t.Error("still pending after error")
			}
		})
	}
}

func TestLoaderCancel(t *testing.T) {
	h := newHarness(t)
	gate := newGate(nil, nil)
	l := NewLoader(gate, h.viewer, h.sched, h.status)
	if err := l.Request("1. e4"); err != nil {
		t.Fatal(err)
	}
	l.Cancel()
	h.sched.runPosted(t)
	if l.Pending() {
		t.Error("still pending after cancel")
	}
	if h.status.errTitle != "Canceled" {
		t.Errorf("status title = %q", h.status.errTitle)
	}
}

func TestDescribe(t *testing.T) {
	title, msg := Describe(errors.New("plain"))
	if title != "Error" || msg != "plain" {
		t.Errorf("Describe = %q %q", title, msg)
	}
	title, _ = Describe(&analysis.ApplicationError{Message: "x"})
	if title != "Backend error" {
		t.Errorf("title = %q", title)
	}
}

func TestLoaderResultWithNoMoves(t *testing.T) {
	h := newHarness(t)
	gate := newGate(&analysis.Result{Records: types.AnalysisSet{}}, nil)
	l := NewLoader(gate, h.viewer, h.sched, h.status)
	if err := l.Request("*"); err != nil {
		t.Fatal(err)
	}
	close(gate.release)
	h.sched.runPosted(t)
	if h.status.status != EmptyMessage {
		t.Errorf("status = %q, want %q", h.status.status, EmptyMessage)
	}
}
