// kibitz is a terminal viewer for engine-annotated chess games.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"kibitz/analysis"
	"kibitz/analysis/backend"
	"kibitz/analysis/cache"
	"kibitz/audio"
	"kibitz/config"
	"kibitz/export"
	"kibitz/obslog"
	"kibitz/pgn"
	"kibitz/prefs"
	"kibitz/replay"
	"kibitz/types"
	"kibitz/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagPGN     = flag.String("pgn", "", "Analyze this PGN file on start")
	flagBackend = flag.String("backend", "", "Analysis backend URL")
	flagMute    = flag.Bool("mute", false, "Start with sound off")
	flagBlack   = flag.Bool("black", false, "Start with Black at the bottom")
	flagVersion = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var cfg *config.Config

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("kibitz %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kibitz: %s\n", err)
		os.Exit(1)
	}
	if *flagBackend != "" {
		cfg.Backend.URL = *flagBackend
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "kibitz: %s\n", err)
			os.Exit(1)
		}
	}

	if err := obslog.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "kibitz: logging disabled: %s\n", err)
	}
	defer obslog.Sync()

	themes, err := config.LoadThemes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kibitz: %s\n", err)
		os.Exit(1)
	}
	prefsStore := prefs.Open(prefs.DefaultPath())
	saved := prefsStore.Prefs()

	obslog.L().Info("starting",
		zap.String("version", Version),
		zap.String("backend", cfg.Backend.URL),
		zap.String("board_theme", saved.BoardTheme),
		zap.String("piece_theme", saved.PieceTheme))

	analyzer := newAnalyzer()

	app = tview.NewApplication()
	app.EnableMouse(true)
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ♞ kibitz ")

	board := ui.NewChessBoard(cfg, themes)
	winRate := ui.NewWinRateBar(cfg)
	moveList := ui.NewMoveList()
	summary := ui.NewSummaryCard()
	status := ui.NewStatusBar()
	layout := ui.NewViewerLayout(board, winRate, moveList, summary, status)

	var cues replay.CuePlayer = audio.Silent{}
	if cfg.Audio.Volume > 0 {
		cues = audio.NewPlayer(cfg.Audio.Volume)
	}

	display := replay.NewDisplay(board, themes, prefsStore, saved.BoardTheme, saved.PieceTheme)
	if *flagBlack {
		display.SetOrientation(replay.BlackBottom)
	}

	sched := ui.NewAppScheduler(app)
	viewer := replay.NewViewer(replay.Views{
		Board:   board,
		Marks:   board,
		WinRate: winRate,
		List:    moveList,
		Audio:   cues,
		Status:  status,
		Summary: summary,
	}, display, sched, replay.Options{
		Muted:    cfg.Audio.Muted || *flagMute,
		Exporter: export.NewExporter(themes, cfg.Theme),
		Writer:   pgn.NewWriter(),
	})
	loader := replay.NewLoader(analyzer, viewer, sched, status)

	board.OnGesture(func(from, to types.Square) {
		viewer.Dispatch(replay.ManualGesture{From: from, To: to})
	})
	moveList.OnSelect(func(index int) {
		viewer.Dispatch(replay.NavigateTo(index))
	})

	// analyze starts a request and returns to the replay screen once it is
	// accepted.
	analyze := func(transcript string) {
		err := loader.Request(transcript)
		switch {
		case errors.Is(err, replay.ErrAnalysisPending):
			status.ShowError(replay.Describe(err))
		case err == nil:
			rootPage.SwitchToPage("viewer")
		}
	}

	// Transcript entry screen
	var form *ui.TranscriptFormUI
	var browser *ui.GameBrowserUI
	form = ui.NewTranscriptForm(
		func() {
			transcript, err := form.Transcript()
			if err != nil {
				status.ShowError("Input error", err.Error())
				rootPage.SwitchToPage("viewer")
				return
			}
			analyze(transcript)
		},
		func() {
			browser.Refresh()
			rootPage.SwitchToPage("library")
		},
		func() {
			rootPage.SwitchToPage("viewer")
		},
	)
	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			rootPage.SwitchToPage("viewer")
			return nil
		}
		return event
	})
	loader.OnPending(form.SetPending)

	// Game library
	glyphs, _ := themes.Piece(saved.PieceTheme)
	browser = ui.NewGameBrowser(cfg.LibraryDir(), glyphs,
		func(path string) {
			transcript, err := pgn.ReadTranscript(path)
			if err != nil {
				status.ShowError("Library", err.Error())
				rootPage.SwitchToPage("viewer")
				return
			}
			analyze(transcript)
		},
		func() {
			rootPage.SwitchToPage("viewer")
		},
	)

	// Theme picker
	picker := ui.NewThemePicker(themes, display.BoardTheme(), display.PieceTheme(),
		func(name string) { viewer.Dispatch(replay.SetBoardTheme{Name: name}) },
		func(name string) { viewer.Dispatch(replay.SetPieceTheme{Name: name}) },
		func() { rootPage.SwitchToPage("viewer") },
	)

	layout.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft:
			viewer.Dispatch(replay.NavigateBy(-1))
			return nil
		case tcell.KeyRight:
			viewer.Dispatch(replay.NavigateBy(1))
			return nil
		case tcell.KeyHome:
			viewer.Dispatch(replay.NavigateFirst)
			return nil
		case tcell.KeyEnd:
			viewer.Dispatch(replay.NavigateLast)
			return nil
		case tcell.KeyEsc:
			loader.Cancel()
			return nil
		case tcell.KeyRune:
		default:
			return event
		}
		switch event.Rune() {
		case 'h':
			viewer.Dispatch(replay.NavigateBy(-1))
		case 'l':
			viewer.Dispatch(replay.NavigateBy(1))
		case 'f':
			viewer.Dispatch(replay.Flip{})
		case 'm':
			viewer.Dispatch(replay.ToggleMute{})
		case 's':
			viewer.Dispatch(replay.ToggleSummary{})
		case 't':
			picker.Sync(display.BoardTheme(), display.PieceTheme())
			rootPage.SwitchToPage("themes")
		case 'n':
			rootPage.SwitchToPage("new")
		case 'o':
			browser.Refresh()
			rootPage.SwitchToPage("library")
		case 'e':
			viewer.Dispatch(replay.Export{Dir: cfg.LibraryDir()})
		case 'w':
			viewer.Dispatch(replay.SaveAnnotated{Dir: cfg.LibraryDir()})
		case 'q':
			loader.Cancel()
			app.Stop()
		default:
			return event
		}
		return nil
	})

	rootPage.AddPage("viewer", layout, true, true)
	rootPage.AddPage("new", ui.CreateCenteredForm(form.Form(), 60), true, false)
	rootPage.AddPage("library", browser.Flex(), true, false)
	rootPage.AddPage("themes", picker.Flex(), true, false)

	if *flagPGN != "" {
		transcript, err := pgn.ReadTranscript(*flagPGN)
		if err != nil {
			status.ShowError("Input error", err.Error())
		} else {
			analyze(transcript)
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		obslog.L().Error("ui exited", zap.Error(err))
		panic(err)
	}
}

// newAnalyzer builds the backend client, wrapped in the Redis cache when one
// is configured and in the opening-book fallback.
func newAnalyzer() analysis.Analyzer {
	var a analysis.Analyzer = backend.New(cfg.Backend.URL,
		backend.WithTimeout(time.Duration(cfg.Backend.TimeoutSec)*time.Second),
		backend.WithRetry(cfg.Backend.Retries))

	if cfg.Cache.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		rdb, err := cache.Dial(ctx, cfg.Cache.RedisURL)
		if err != nil {
			obslog.L().Warn("analysis cache unavailable", zap.Error(err))
		} else {
			a = cache.New(rdb, a, time.Duration(cfg.Cache.TTLSec)*time.Second)
		}
	}
	return analysis.OpeningFallback{Next: a}
}
