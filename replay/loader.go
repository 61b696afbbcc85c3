package replay

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"kibitz/analysis"
	"kibitz/obslog"
)

// AnalyzingMessage is shown while a request is outstanding.
const AnalyzingMessage = "Analyzing…"

// ErrAnalysisPending is returned when a request is made while another is
// still outstanding.
var ErrAnalysisPending = errors.New("an analysis is already running")

// Loader runs analysis requests off the UI goroutine and hands results back
// to the viewer.
type Loader struct {
	analyzer analysis.Analyzer
	viewer   *Viewer
	sched    Scheduler
	status   StatusView

	pending   bool
	cancel    context.CancelFunc
	onPending func(pending bool)
}

func NewLoader(analyzer analysis.Analyzer, viewer *Viewer, sched Scheduler, status StatusView) *Loader {
	return &Loader{analyzer: analyzer, viewer: viewer, sched: sched, status: status}
}

// OnPending registers fn to be told when the pending state changes, so the
// UI can disable the analyze action.
func (l *Loader) OnPending(fn func(pending bool)) {
	l.onPending = fn
}

func (l *Loader) Pending() bool { return l.pending }

// Request starts analyzing transcript. It must be called on the UI goroutine.
// The outcome always replaces the "Analyzing…" status.
func (l *Loader) Request(transcript string) error {
	if err := analysis.ValidateTranscript(transcript); err != nil {
		title, msg := Describe(err)
		l.status.ShowError(title, msg)
		return err
	}
	if l.pending {
		return ErrAnalysisPending
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.setPending(true)
	l.status.ShowStatus(AnalyzingMessage)

	go func() {
		res, err := l.analyzer.Analyze(ctx, transcript)
		l.sched.Post(func() { l.finish(res, err) })
	}()
	return nil
}

// Cancel aborts the outstanding request, if any.
func (l *Loader) Cancel() {
	if l.cancel != nil {
		l.cancel()
	}
}

func (l *Loader) finish(res *analysis.Result, err error) {
	l.Cancel()
	l.cancel = nil
	l.setPending(false)

	if err != nil {
		obslog.L().Warn("analysis failed", zap.Error(err))
		title, msg := Describe(err)
		l.status.ShowError(title, msg)
		return
	}
	_ = l.viewer.Dispatch(Load{Result: res})
}

func (l *Loader) setPending(p bool) {
	l.pending = p
	if l.onPending != nil {
		l.onPending(p)
	}
}

// Describe turns an error into a status title and message. Messages are raw
// text; the status view escapes them.
func Describe(err error) (title, msg string) {
	var (
		inputErr *analysis.InputError
		appErr   *analysis.ApplicationError
		trErr    *analysis.TransportError
	)
	switch {
	case errors.As(err, &inputErr):
		return "Input error", inputErr.Reason
	case errors.As(err, &appErr):
		return "Backend error", appErr.Message
	case errors.As(err, &trErr) && errors.Is(trErr, context.Canceled):
		return "Canceled", "The analysis request was canceled"
	case errors.As(err, &trErr) && trErr.Status != 0:
		return "Server error", fmt.Sprintf("Server error: HTTP %d", trErr.Status)
	case errors.As(err, &trErr):
		return "Connection error", fmt.Sprintf("Cannot reach the analysis backend: %v", trErr.Err)
	case errors.Is(err, ErrUnknownTheme):
		return "Theme", err.Error()
	default:
		return "Error", err.Error()
	}
}
