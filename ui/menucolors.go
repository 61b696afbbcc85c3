package ui

import "github.com/gdamore/tcell/v2"

// MenuColors defines the Nord-inspired color palette for panels and menus.
var MenuColors = struct {
	Border      tcell.Color // Muted blue-gray for borders
	BorderFocus tcell.Color // Brighter blue for focused borders
	CardBG      tcell.Color // Dark gray background
	Title       tcell.Color // Bright white for title
	TitleAccent tcell.Color // Blue accent for decoration
	Label       tcell.Color // Light gray for labels
	Hint        tcell.Color // Dim gray for hints
	ButtonFocus tcell.Color // Focused button and list selection
	ButtonText  tcell.Color // Button text
	Error       tcell.Color // Modal and error text
}{
	Border:      tcell.PaletteColor(60),
	BorderFocus: tcell.PaletteColor(109),
	CardBG:      tcell.PaletteColor(236),
	Title:       tcell.PaletteColor(255),
	TitleAccent: tcell.PaletteColor(109),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(245),
	ButtonFocus: tcell.PaletteColor(109),
	ButtonText:  tcell.PaletteColor(255),
	Error:       tcell.PaletteColor(167),
}
