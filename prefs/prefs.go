// Package prefs persists the viewer's theme choices.
// Preferences are stored in kibitz/prefs.toml under the XDG config dir.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"

	"kibitz/config"
)

// Prefs holds user preferences.
type Prefs struct {
	BoardTheme string `toml:"board_theme"`
	PieceTheme string `toml:"piece_theme"`
}

const prefsFile = "kibitz/prefs.toml"

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{BoardTheme: config.DefaultBoardTheme, PieceTheme: config.DefaultPieceTheme}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, prefsFile)
}

// Load reads preferences from path, falling back to defaults if the file is
// missing or unreadable. An empty path means DefaultPath.
func Load(path string) Prefs {
	p := Defaults()
	data, err := os.ReadFile(resolvePath(path))
	if err != nil {
		return p
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults()
	}
	if strings.TrimSpace(p.BoardTheme) == "" {
		p.BoardTheme = config.DefaultBoardTheme
	}
	if strings.TrimSpace(p.PieceTheme) == "" {
		p.PieceTheme = config.DefaultPieceTheme
	}
	return p
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved := resolvePath(path)
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return DefaultPath()
	}
	return path
}

// Store is a file-backed preference store. Every change is written through.
type Store struct {
	mu    sync.Mutex
	path  string
	prefs Prefs
}

// Open loads the preferences at path into a Store.
func Open(path string) *Store {
	return &Store{path: path, prefs: Load(path)}
}

// Prefs returns the current preferences.
func (s *Store) Prefs() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *Store) SetBoardTheme(name string) error {
	return s.update(func(p *Prefs) { p.BoardTheme = name })
}

func (s *Store) SetPieceTheme(name string) error {
	return s.update(func(p *Prefs) { p.PieceTheme = name })
}

func (s *Store) update(fn func(p *Prefs)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.prefs
	fn(&next)
	if err := Save(s.path, next); err != nil {
		return err
	}
	s.prefs = next
	return nil
}
