// Package types contains shared data structures for kibitz.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Color is the side that played a half-move.
type Color int

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return ""
	}
}

// MarshalJSON writes "White" or "Black".
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts "White"/"Black" in any case, plus "w"/"b".
func (c *Color) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "white", "w":
		*c = White
	case "black", "b":
		*c = Black
	default:
		return fmt.Errorf("invalid color: %q", v)
	}
	return nil
}

// Quality is the engine's categorical judgment of a played move.
type Quality int

const (
	QualityNone Quality = iota
	BestMove
	Excellent
	Good
	Inaccuracy
	Mistake
	Blunder
	BookMove
)

var qualityNames = map[Quality]string{
	BestMove:   "Best Move",
	Excellent:  "Excellent",
	Good:       "Good",
	Inaccuracy: "Inaccuracy",
	Mistake:    "Mistake",
	Blunder:    "Blunder",
	BookMove:   "Book Move",
}

// ParseQuality maps a wire label to a Quality. Spacing and case are ignored,
// so "Best Move" and "BestMove" are the same. Unknown labels yield QualityNone.
func ParseQuality(s string) Quality {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for q, name := range qualityNames {
		if key == strings.ToLower(strings.ReplaceAll(name, " ", "")) {
			return q
		}
	}
	return QualityNone
}

func (q Quality) String() string {
	return qualityNames[q]
}

// Optimal reports whether the move needs no suggested alternative.
func (q Quality) Optimal() bool {
	return q == BestMove || q == BookMove || q == QualityNone
}

// MarshalJSON writes the backend label, or null for QualityNone.
func (q Quality) MarshalJSON() ([]byte, error) {
	if q == QualityNone {
		return []byte("null"), nil
	}
	return json.Marshal(q.String())
}

// UnmarshalJSON accepts any backend label; null and unknown labels become QualityNone.
func (q *Quality) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*q = QualityNone
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*q = ParseQuality(v)
	return nil
}

// MoveRecord is one half-move's analysis: position, evaluation and classification.
type MoveRecord struct {
	MoveNumber   int
	Color        Color
	SAN          string
	FEN          string
	ScoreCP      int
	WinRateWhite int // 0-100
	WinRateBlack int // 0-100
	IsCheck      bool
	ActualFrom   Square
	ActualTo     Square
	Quality      Quality
	BestMoveSAN  string
	BestFrom     Square
	BestTo       Square
}

// wireRecord mirrors the backend's snake_case record.
type wireRecord struct {
	MoveNumber   int     `json:"move_number"`
	Color        Color   `json:"color"`
	Move         string  `json:"move"`
	FEN          string  `json:"fen"`
	ScoreCP      int     `json:"score_cp"`
	WinRateWhite float64 `json:"win_rate_white"`
	WinRateBlack float64 `json:"win_rate_black"`
	Quality      Quality `json:"move_quality"`
	BestMove     string  `json:"best_move"`
	BestFrom     Square  `json:"best_move_from"`
	BestTo       Square  `json:"best_move_to"`
	ActualFrom   Square  `json:"actual_move_from"`
	ActualTo     Square  `json:"actual_move_to"`
	IsCheck      bool    `json:"is_check"`
}

// UnmarshalJSON decodes the backend record format. Win rates arrive as
// percentages with one decimal and are rounded to whole percents.
func (m *MoveRecord) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = MoveRecord{
		MoveNumber:   w.MoveNumber,
		Color:        w.Color,
		SAN:          w.Move,
		FEN:          w.FEN,
		ScoreCP:      w.ScoreCP,
		WinRateWhite: percent(w.WinRateWhite),
		WinRateBlack: percent(w.WinRateBlack),
		IsCheck:      w.IsCheck,
		ActualFrom:   w.ActualFrom,
		ActualTo:     w.ActualTo,
		Quality:      w.Quality,
		BestMoveSAN:  w.BestMove,
		BestFrom:     w.BestFrom,
		BestTo:       w.BestTo,
	}
	return nil
}

// MarshalJSON writes the backend record format.
func (m MoveRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRecord{
		MoveNumber:   m.MoveNumber,
		Color:        m.Color,
		Move:         m.SAN,
		FEN:          m.FEN,
		ScoreCP:      m.ScoreCP,
		WinRateWhite: float64(m.WinRateWhite),
		WinRateBlack: float64(m.WinRateBlack),
		Quality:      m.Quality,
		BestMove:     m.BestMoveSAN,
		BestFrom:     m.BestFrom,
		BestTo:       m.BestTo,
		ActualFrom:   m.ActualFrom,
		ActualTo:     m.ActualTo,
		IsCheck:      m.IsCheck,
	})
}

// Label returns the move-list text, e.g. "12. Nf3" or "12. ...Nc6".
func (m MoveRecord) Label() string {
	if m.Color == Black {
		return fmt.Sprintf("%d. ...%s", m.MoveNumber, m.SAN)
	}
	return fmt.Sprintf("%d. %s", m.MoveNumber, m.SAN)
}

// SuggestedArrow returns the engine's preferred move as an arrow, and whether
// one should be drawn: only for non-optimal moves with a real best move.
func (m MoveRecord) SuggestedArrow() (Arrow, bool) {
	if m.Quality.Optimal() {
		return Arrow{}, false
	}
	a := Arrow{From: m.BestFrom, To: m.BestTo}
	if !a.Valid() {
		return Arrow{}, false
	}
	return a, true
}

func percent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	n := int(math.Floor(v + 0.5))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// AnalysisSet is the ordered sequence of records, indexed by play order.
type AnalysisSet []MoveRecord

// ValidateRecords checks game order: move numbers are positive and
// non-decreasing and each number has at most one White and one Black record.
func ValidateRecords(set AnalysisSet) error {
	seen := make(map[int]map[Color]bool)
	prev := 0
	for i, r := range set {
		if r.MoveNumber <= 0 {
			return fmt.Errorf("record %d: move number %d is not positive", i, r.MoveNumber)
		}
		if r.MoveNumber < prev {
			return fmt.Errorf("record %d: move number %d after %d", i, r.MoveNumber, prev)
		}
		if r.Color != White && r.Color != Black {
			return fmt.Errorf("record %d: missing color", i)
		}
		if seen[r.MoveNumber] == nil {
			seen[r.MoveNumber] = make(map[Color]bool)
		}
		if seen[r.MoveNumber][r.Color] {
			return fmt.Errorf("record %d: duplicate %s move for number %d", i, r.Color, r.MoveNumber)
		}
		seen[r.MoveNumber][r.Color] = true
		prev = r.MoveNumber
	}
	return nil
}

// SummaryStats aggregates one player's move classifications.
type SummaryStats struct {
	BestMove   int `json:"Best Move"`
	Excellent  int `json:"Excellent"`
	Good       int `json:"Good"`
	Inaccuracy int `json:"Inaccuracy"`
	Mistake    int `json:"Mistake"`
	Blunder    int `json:"Blunder"`
	TotalLoss  int `json:"total_loss"`
	MoveCount  int `json:"move_count"`
	ACPL       int `json:"acpl"`
	Elo        int `json:"elo"`
}

// Count returns the number of moves classified as q.
func (s SummaryStats) Count(q Quality) int {
	switch q {
	case BestMove:
		return s.BestMove
	case Excellent:
		return s.Excellent
	case Good:
		return s.Good
	case Inaccuracy:
		return s.Inaccuracy
	case Mistake:
		return s.Mistake
	case Blunder:
		return s.Blunder
	default:
		return 0
	}
}

// Summary holds both players' aggregates.
type Summary struct {
	White SummaryStats `json:"White"`
	Black SummaryStats `json:"Black"`
}

// OpeningName is the opening label in English and, optionally, Chinese.
type OpeningName struct {
	EN string `json:"en"`
	ZH string `json:"zh,omitempty"`
}

// Empty reports whether no name is known.
func (o OpeningName) Empty() bool {
	return strings.TrimSpace(o.EN) == "" && strings.TrimSpace(o.ZH) == ""
}
