package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBoardTheme = "brown"
	DefaultPieceTheme = "unicode"
)

var themesFile = "kibitz/themes.yaml"

//go:embed themes.yaml
var builtinThemes []byte

// pieceOrder is the glyph order used by PieceTheme.White and PieceTheme.Black.
const pieceOrder = "KQRBNP"

// BoardTheme is a pair of square colors.
type BoardTheme struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Light int    `yaml:"light"`
	Dark  int    `yaml:"dark"`
}

// PieceTheme maps each piece kind to a glyph per side.
type PieceTheme struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	White string `yaml:"white"`
	Black string `yaml:"black"`
}

// Glyph returns the rune for kind (one of KQRBNP) on the given side.
func (p PieceTheme) Glyph(kind rune, white bool) rune {
	i := strings.IndexRune(pieceOrder, kind)
	if i < 0 {
		return '?'
	}
	set := []rune(p.Black)
	if white {
		set = []rune(p.White)
	}
	return set[i]
}

// ThemeCatalog is the list of selectable board and piece themes.
type ThemeCatalog struct {
	Boards []BoardTheme `yaml:"board_themes"`
	Pieces []PieceTheme `yaml:"piece_themes"`
}

// LoadThemes reads kibitz/themes.yaml from the XDG config dirs, falling back
// to the built-in catalog.
func LoadThemes() (*ThemeCatalog, error) {
	data := builtinThemes
	if absPath, err := xdg.SearchConfigFile(themesFile); err == nil {
		if userData, err := os.ReadFile(absPath); err == nil {
			data = userData
		}
	}
	return ParseThemes(data)
}

// ParseThemes decodes and validates a theme catalog.
func ParseThemes(data []byte) (*ThemeCatalog, error) {
	var c ThemeCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &InvalidConfig{fmt.Sprintf("themes: %s", err)}
	}
	if len(c.Boards) == 0 || len(c.Pieces) == 0 {
		return nil, &InvalidConfig{"themes: need at least one board and one piece theme"}
	}
	seen := make(map[string]bool)
	for _, b := range c.Boards {
		if b.Name == "" || seen["b:"+b.Name] {
			return nil, &InvalidConfig{fmt.Sprintf("themes: bad or duplicate board theme %q", b.Name)}
		}
		seen["b:"+b.Name] = true
	}
	for _, p := range c.Pieces {
		if p.Name == "" || seen["p:"+p.Name] {
			return nil, &InvalidConfig{fmt.Sprintf("themes: bad or duplicate piece theme %q", p.Name)}
		}
		if len([]rune(p.White)) != len(pieceOrder) || len([]rune(p.Black)) != len(pieceOrder) {
			return nil, &InvalidConfig{fmt.Sprintf("themes: piece theme %q needs %d glyphs per side", p.Name, len(pieceOrder))}
		}
		seen["p:"+p.Name] = true
	}
	return &c, nil
}

func (c *ThemeCatalog) Board(name string) (BoardTheme, bool) {
	for _, b := range c.Boards {
		if b.Name == name {
			return b, true
		}
	}
	return BoardTheme{}, false
}

func (c *ThemeCatalog) Piece(name string) (PieceTheme, bool) {
	for _, p := range c.Pieces {
		if p.Name == name {
			return p, true
		}
	}
	return PieceTheme{}, false
}

// BoardNames lists board theme names in catalog order.
func (c *ThemeCatalog) BoardNames() []string {
	names := make([]string, len(c.Boards))
	for i, b := range c.Boards {
		names[i] = b.Name
	}
	return names
}

// PieceNames lists piece theme names in catalog order.
func (c *ThemeCatalog) PieceNames() []string {
	names := make([]string, len(c.Pieces))
	for i, p := range c.Pieces {
		names[i] = p.Name
	}
	return names
}
