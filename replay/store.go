package replay

import (
	"fmt"

	"github.com/corentings/chess/v2"

	"kibitz/analysis"
	"kibitz/types"
)

// MovePair groups the White and Black half-moves sharing a move number.
// Indexes are play-order positions, -1 when the side has no record.
type MovePair struct {
	Number     int
	White      *types.MoveRecord
	Black      *types.MoveRecord
	WhiteIndex int
	BlackIndex int
}

// Store holds the loaded analysis. A loaded set is never mutated; Load
// replaces it wholesale.
type Store struct {
	records    types.AnalysisSet
	summary    types.Summary
	opening    types.OpeningName
	transcript string
	loaded     bool

	pairs []MovePair
	rowOf []int
}

func NewStore() *Store {
	return &Store{}
}

// Load replaces the stored analysis. A result with no records is accepted and
// leaves the store empty. Records that break game order or carry an
// undecodable FEN are refused with an *analysis.ApplicationError and the
// previous analysis is kept.
func (s *Store) Load(res *analysis.Result) error {
	if res == nil {
		res = &analysis.Result{}
	}
	if err := types.ValidateRecords(res.Records); err != nil {
		return &analysis.ApplicationError{Message: fmt.Sprintf("malformed analysis: %v", err)}
	}
	for i, r := range res.Records {
		if _, err := chess.FEN(r.FEN); err != nil {
			return &analysis.ApplicationError{Message: fmt.Sprintf("malformed analysis: record %d: %v", i, err)}
		}
	}

	records := make(types.AnalysisSet, len(res.Records))
	copy(records, res.Records)
	s.records = records
	s.summary = res.Summary
	s.opening = res.Opening
	s.transcript = res.Transcript
	s.loaded = true
	s.pairs, s.rowOf = pairByNumber(records)
	return nil
}

// Loaded reports whether any analysis has been loaded.
func (s *Store) Loaded() bool { return s.loaded }

// Empty reports whether the loaded analysis has no moves.
func (s *Store) Empty() bool { return len(s.records) == 0 }

func (s *Store) Len() int { return len(s.records) }

// At returns the record at play index i.
func (s *Store) At(i int) (types.MoveRecord, bool) {
	if i < 0 || i >= len(s.records) {
		return types.MoveRecord{}, false
	}
	return s.records[i], true
}

// Records returns a copy of the loaded records.
func (s *Store) Records() types.AnalysisSet {
	out := make(types.AnalysisSet, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Summary() types.Summary     { return s.summary }
func (s *Store) Opening() types.OpeningName { return s.opening }
func (s *Store) Transcript() string         { return s.transcript }

// PairByNumber groups records by move number in first-seen order.
func (s *Store) PairByNumber() []MovePair {
	out := make([]MovePair, len(s.pairs))
	copy(out, s.pairs)
	return out
}

// RowOf returns the move list row showing play index i, or 0 if out of range.
func (s *Store) RowOf(i int) int {
	if i < 0 || i >= len(s.rowOf) {
		return 0
	}
	return s.rowOf[i]
}

func pairByNumber(records types.AnalysisSet) ([]MovePair, []int) {
	var pairs []MovePair
	rowOf := make([]int, len(records))
	rowByNumber := make(map[int]int)
	for i := range records {
		r := &records[i]
		row, ok := rowByNumber[r.MoveNumber]
		if !ok {
			row = len(pairs)
			rowByNumber[r.MoveNumber] = row
			pairs = append(pairs, MovePair{Number: r.MoveNumber, WhiteIndex: -1, BlackIndex: -1})
		}
		if r.Color == types.White {
			pairs[row].White = r
			pairs[row].WhiteIndex = i
		} else {
			pairs[row].Black = r
			pairs[row].BlackIndex = i
		}
		rowOf[i] = row
	}
	return pairs, rowOf
}
