package replay

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"kibitz/config"
	"kibitz/obslog"
)

// PieceThemeSettle is how long a rebuilt board gets before the current move
// is re-rendered onto it.
const PieceThemeSettle = 50 * time.Millisecond

var ErrUnknownTheme = errors.New("unknown theme")

// Display owns orientation and theme choices.
type Display struct {
	board  BoardWidget
	themes *config.ThemeCatalog
	prefs  PrefsStore

	boardTheme string
	pieceTheme string
}

// NewDisplay applies the initial themes to board. Unknown names fall back to
// the defaults.
func NewDisplay(board BoardWidget, themes *config.ThemeCatalog, prefs PrefsStore, boardTheme, pieceTheme string) *Display {
	if _, ok := themes.Board(boardTheme); !ok {
		boardTheme = config.DefaultBoardTheme
	}
	if _, ok := themes.Piece(pieceTheme); !ok {
		pieceTheme = config.DefaultPieceTheme
	}
	d := &Display{board: board, themes: themes, prefs: prefs, boardTheme: boardTheme, pieceTheme: pieceTheme}
	if err := board.Rebuild(pieceTheme); err != nil {
		obslog.L().Warn("initial piece theme", zap.Error(err))
	}
	if err := board.ApplyBoardTheme(boardTheme); err != nil {
		obslog.L().Warn("initial board theme", zap.Error(err))
	}
	return d
}

func (d *Display) Orientation() Orientation { return d.board.Orientation() }
func (d *Display) BoardTheme() string       { return d.boardTheme }
func (d *Display) PieceTheme() string       { return d.pieceTheme }

// SetOrientation flips the board if needed and reports whether it did.
func (d *Display) SetOrientation(o Orientation) bool {
	if d.board.Orientation() == o {
		return false
	}
	d.board.Flip()
	return true
}

// SetBoardTheme swaps square colors. Move data is not re-rendered.
func (d *Display) SetBoardTheme(name string) error {
	if _, ok := d.themes.Board(name); !ok {
		return fmt.Errorf("board theme %q: %w", name, ErrUnknownTheme)
	}
	if err := d.board.ApplyBoardTheme(name); err != nil {
		return err
	}
	d.boardTheme = name
	d.persist(d.prefs.SetBoardTheme, name)
	return nil
}

// SetPieceTheme rebuilds the board with a new glyph set and re-applies the
// board theme. The caller re-renders the current move afterwards.
func (d *Display) SetPieceTheme(name string) error {
	if _, ok := d.themes.Piece(name); !ok {
		return fmt.Errorf("piece theme %q: %w", name, ErrUnknownTheme)
	}
	if err := d.board.Rebuild(name); err != nil {
		return err
	}
	d.pieceTheme = name
	if err := d.board.ApplyBoardTheme(d.boardTheme); err != nil {
		obslog.L().Warn("re-apply board theme", zap.Error(err))
	}
	d.persist(d.prefs.SetPieceTheme, name)
	return nil
}

func (d *Display) persist(set func(string) error, name string) {
	if d.prefs == nil {
		return
	}
	if err := set(name); err != nil {
		obslog.L().Warn("save preferences", zap.String("theme", name), zap.Error(err))
	}
}
