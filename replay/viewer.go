package replay

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"kibitz/analysis"
	"kibitz/obslog"
	"kibitz/types"
)

// EmptyMessage is shown when an analysis has no moves.
const EmptyMessage = "No moves found"

// Command is a user intent applied by Viewer.Dispatch.
type Command interface {
	command()
}

type (
	// Load replaces the analysis.
	Load struct{ Result *analysis.Result }
	// Navigate moves the cursor. See NavigateBy, NavigateTo, NavigateFirst and NavigateLast.
	Navigate struct {
		Kind  NavKind
		Delta int
		Index int
	}
	Flip          struct{}
	ToggleMute    struct{}
	ToggleSummary struct{}
	SetBoardTheme struct{ Name string }
	SetPieceTheme struct{ Name string }
	// ManualGesture is a drag on the board; off-board ends are NoSquare.
	ManualGesture struct{ From, To types.Square }
	// Export writes the current frame as a PNG into Dir.
	Export struct{ Dir string }
	// SaveAnnotated writes the game with annotations as PGN into Dir.
	SaveAnnotated struct{ Dir string }
)

func (Load) command()          {}
func (Navigate) command()      {}
func (Flip) command()          {}
func (ToggleMute) command()    {}
func (ToggleSummary) command() {}
func (SetBoardTheme) command() {}
func (SetPieceTheme) command() {}
func (ManualGesture) command() {}
func (Export) command()        {}
func (SaveAnnotated) command() {}

type NavKind int

const (
	NavDelta NavKind = iota
	NavIndex
	NavFirst
	NavLast
)

func NavigateBy(delta int) Navigate { return Navigate{Kind: NavDelta, Delta: delta} }
func NavigateTo(index int) Navigate { return Navigate{Kind: NavIndex, Index: index} }

var (
	NavigateFirst = Navigate{Kind: NavFirst}
	NavigateLast  = Navigate{Kind: NavLast}
)

// FrameExporter renders a frame to an image file and returns its path.
type FrameExporter interface {
	ExportFrame(dir string, f Frame, boardTheme, pieceTheme string) (string, error)
}

// AnnotatedWriter writes an annotated game file and returns its path.
type AnnotatedWriter interface {
	WriteAnnotated(dir, transcript string, records types.AnalysisSet, opening types.OpeningName) (string, error)
}

var ErrNothingLoaded = errors.New("no analysis loaded")

type Options struct {
	Muted    bool
	Exporter FrameExporter
	Writer   AnnotatedWriter
}

// Viewer is the application state. All methods run on the UI goroutine.
type Viewer struct {
	store   *Store
	cursor  *Cursor
	overlay *Overlay
	display *Display
	coord   *Coordinator
	views   Views
	sched   Scheduler

	muted          bool
	summaryVisible bool
	exporter       FrameExporter
	writer         AnnotatedWriter
}

// NewViewer wires the state machine to views and shows the starting position.
func NewViewer(views Views, display *Display, sched Scheduler, opts Options) *Viewer {
	store := NewStore()
	overlay := NewOverlay()
	v := &Viewer{
		store:    store,
		cursor:   NewCursor(store),
		overlay:  overlay,
		display:  display,
		views:    views,
		sched:    sched,
		muted:    opts.Muted,
		exporter: opts.Exporter,
		writer:   opts.Writer,
	}
	v.coord = NewCoordinator(store, overlay, views, func() bool { return v.muted })
	views.Summary.SetVisible(false)
	v.coord.Render(-1, CauseForce)
	return v
}

func (v *Viewer) Store() *Store            { return v.store }
func (v *Viewer) Index() int               { return v.cursor.Index() }
func (v *Viewer) Muted() bool              { return v.muted }
func (v *Viewer) SummaryVisible() bool     { return v.summaryVisible }
func (v *Viewer) Display() *Display        { return v.display }
func (v *Viewer) Geometry() Geometry       { return v.coord.Geometry() }
func (v *Viewer) ManualArrows() int        { return v.overlay.Len() }
func (v *Viewer) LastFrame() (Frame, bool) { return v.coord.LastFrame() }

// Dispatch applies cmd. Errors are also shown in the status view.
func (v *Viewer) Dispatch(cmd Command) error {
	err := v.dispatch(cmd)
	if err != nil {
		obslog.L().Debug("command failed", zap.String("command", fmt.Sprintf("%T", cmd)), zap.Error(err))
		title, msg := Describe(err)
		v.views.Status.ShowError(title, msg)
	}
	return err
}

func (v *Viewer) dispatch(cmd Command) error {
	switch c := cmd.(type) {
	case Load:
		return v.load(c.Result)
	case Navigate:
		v.navigate(c)
	case Flip:
		v.flip()
	case ToggleMute:
		v.muted = !v.muted
		if v.muted {
			v.views.Status.ShowStatus("Sound off")
		} else {
			v.views.Status.ShowStatus("Sound on")
		}
	case ToggleSummary:
		v.summaryVisible = !v.summaryVisible
		v.views.Summary.SetVisible(v.summaryVisible)
	case SetBoardTheme:
		return v.display.SetBoardTheme(c.Name)
	case SetPieceTheme:
		return v.setPieceTheme(c.Name)
	case ManualGesture:
		if v.overlay.Gesture(c.From, c.To) != GestureIgnored {
			v.coord.RevealManual()
		}
	case Export:
		return v.export(c.Dir)
	case SaveAnnotated:
		return v.saveAnnotated(c.Dir)
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
	return nil
}

func (v *Viewer) load(res *analysis.Result) error {
	if err := v.store.Load(res); err != nil {
		return err
	}
	v.cursor.Reset()
	v.overlay.Clear()
	v.views.List.SetMoves(v.store.PairByNumber())
	v.views.Summary.ShowSummary(v.store.Summary(), v.store.Opening())
	v.coord.Render(-1, CauseNavigate)

	obslog.L().Info("analysis loaded", zap.Int("records", v.store.Len()), zap.String("opening", v.store.Opening().EN))
	if v.store.Empty() {
		v.views.Status.ShowStatus(EmptyMessage)
		return nil
	}
	v.views.Status.ShowStatus(fmt.Sprintf("%d moves analyzed", v.store.Len()))
	return nil
}

func (v *Viewer) navigate(n Navigate) {
	var step Step
	switch n.Kind {
	case NavIndex:
		step = v.cursor.GoTo(n.Index, false)
	case NavFirst:
		step = v.cursor.First()
	case NavLast:
		step = v.cursor.Last()
	default:
		step = v.cursor.GoTo(v.cursor.Index()+n.Delta, false)
	}
	if step.Render {
		v.coord.Render(step.Index, step.Cause)
	}
}

// rerender repaints the current move silently.
func (v *Viewer) rerender() {
	step := v.cursor.GoTo(v.cursor.Index(), true)
	if step.Render {
		v.coord.Render(step.Index, step.Cause)
	}
}

func (v *Viewer) flip() {
	v.display.SetOrientation(v.display.Orientation().Flipped())
	if v.cursor.Index() >= 0 {
		v.rerender()
		return
	}
	v.coord.Reproject()
}

func (v *Viewer) setPieceTheme(name string) error {
	if err := v.display.SetPieceTheme(name); err != nil {
		return err
	}
	if v.cursor.Index() < 0 {
		v.coord.Reproject()
		return nil
	}
	v.sched.After(PieceThemeSettle, v.rerender)
	return nil
}

func (v *Viewer) export(dir string) error {
	if v.exporter == nil {
		return errors.New("image export is not available")
	}
	f, ok := v.coord.LastFrame()
	if !ok {
		return ErrNothingLoaded
	}
	path, err := v.exporter.ExportFrame(dir, f, v.display.BoardTheme(), v.display.PieceTheme())
	if err != nil {
		return fmt.Errorf("export image: %w", err)
	}
	v.views.Status.ShowStatus("Saved image to " + path)
	return nil
}

func (v *Viewer) saveAnnotated(dir string) error {
	if v.writer == nil {
		return errors.New("annotated PGN output is not available")
	}
	if v.store.Empty() {
		return ErrNothingLoaded
	}
	path, err := v.writer.WriteAnnotated(dir, v.store.Transcript(), v.store.Records(), v.store.Opening())
	if err != nil {
		return fmt.Errorf("write annotated game: %w", err)
	}
	v.views.Status.ShowStatus("Saved annotated game to " + path)
	return nil
}
