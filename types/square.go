package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Algebraic coordinate system:
// - Files: a-h (left to right from White's side)
// - Ranks: 1-8 (from White's side of the board)
// - Example: e4, d2, h8
//
// Square is stored as 1 + rank*8 + file so that the zero value means
// "no square" and never aliases a1.

// Square is a board coordinate, or one of the two placeholder values.
type Square int8

const (
	// NoSquare marks an absent coordinate, or a point outside the board.
	NoSquare Square = 0
	// NotApplicable is the backend's "N/A" placeholder for a best move that
	// has no better alternative or no coordinate form.
	NotApplicable Square = -1
)

// notApplicableText is how the backend spells NotApplicable on the wire.
const notApplicableText = "N/A"

// NewSquare builds a square from 0-indexed file (0=a) and rank (0=first rank).
// Out-of-range input yields NoSquare.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(1 + rank*8 + file)
}

// ParseSquare converts algebraic notation like "e4" to a Square.
// "N/A" yields NotApplicable and an empty string yields NoSquare.
func ParseSquare(s string) (Square, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return NoSquare, nil
	case strings.EqualFold(s, notApplicableText):
		return NotApplicable, nil
	}

	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	file := int(strings.ToLower(s[:1])[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("square out of bounds: %q", s)
	}
	return NewSquare(file, rank), nil
}

// MustSquare is ParseSquare for literals known to be valid.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// Valid reports whether s is a real board coordinate.
func (s Square) Valid() bool {
	return s >= 1 && s <= 64
}

// File returns the 0-indexed file (0=a). Only meaningful for valid squares.
func (s Square) File() int {
	return int(s-1) % 8
}

// Rank returns the 0-indexed rank (0=first rank). Only meaningful for valid squares.
func (s Square) Rank() int {
	return int(s-1) / 8
}

func (s Square) String() string {
	switch {
	case s == NotApplicable:
		return notApplicableText
	case !s.Valid():
		return ""
	}
	return fmt.Sprintf("%c%d", 'a'+rune(s.File()), s.Rank()+1)
}

// MarshalJSON writes the square as "e4", "N/A", or null.
func (s Square) MarshalJSON() ([]byte, error) {
	if s == NoSquare {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts "e4", "N/A", "" and null.
func (s *Square) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoSquare
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	sq, err := ParseSquare(v)
	if err != nil {
		return err
	}
	*s = sq
	return nil
}

// Arrow is an annotation drawn from one square to another.
type Arrow struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Valid reports whether both ends are real, distinct squares.
func (a Arrow) Valid() bool {
	return a.From.Valid() && a.To.Valid() && a.From != a.To
}

func (a Arrow) String() string {
	return a.From.String() + a.To.String()
}
