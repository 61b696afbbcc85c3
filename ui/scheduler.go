package ui

import (
	"time"

	"github.com/rivo/tview"

	"kibitz/replay"
)

// AppScheduler runs callbacks on the tview event loop.
type AppScheduler struct {
	app *tview.Application
}

var _ replay.Scheduler = (*AppScheduler)(nil)

func NewAppScheduler(app *tview.Application) *AppScheduler {
	return &AppScheduler{app: app}
}

// Post queues fn and redraws. It may be called from any goroutine,
// including the event loop itself.
func (s *AppScheduler) Post(fn func()) {
	// Spawn goroutine to avoid deadlock when called from main thread
	go s.app.QueueUpdateDraw(fn)
}

func (s *AppScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { s.app.QueueUpdateDraw(fn) })
}
