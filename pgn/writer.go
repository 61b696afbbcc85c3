package pgn

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kibitz/types"
)

const lineWidth = 79

// nags maps move quality to the standard numeric annotation glyph.
var nags = map[types.Quality]string{
	types.Inaccuracy: "$6",
	types.Mistake:    "$2",
	types.Blunder:    "$4",
}

// Writer saves analyzed games as annotated PGN files.
type Writer struct {
	now func() time.Time
}

func NewWriter() *Writer {
	return &Writer{now: time.Now}
}

// WriteAnnotated writes the analyzed game to a new file in dir and returns its path.
// Tags are carried over from the transcript when it has them.
func (w *Writer) WriteAnnotated(dir, transcript string, records types.AnalysisSet, opening types.OpeningName) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no moves to write")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create library dir: %w", err)
	}
	now := w.now()
	path := filepath.Join(dir, now.Format("2006-01-02_150405")+"_annotated.pgn")
	if err := os.WriteFile(path, []byte(Annotate(transcript, records, opening, now)), 0o644); err != nil {
		return "", fmt.Errorf("write pgn: %w", err)
	}
	return path, nil
}

// tagOrder is the seven tag roster followed by the tags this writer adds.
var tagOrder = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result", "ECO", "Opening", "Annotator"}

// Annotate renders records as PGN with NAGs on inaccuracies, mistakes and
// blunders and a {Best: ...} comment wherever a better move was known.
func Annotate(transcript string, records types.AnalysisSet, opening types.OpeningName, now time.Time) string {
	tags := parseTags(transcript)
	defaults := map[string]string{
		"Event":  "?",
		"Site":   "?",
		"Date":   now.Format("2006.01.02"),
		"Round":  "?",
		"White":  "?",
		"Black":  "?",
		"Result": "*",
	}
	for k, v := range defaults {
		if tags[k] == "" {
			tags[k] = v
		}
	}
	if strings.TrimSpace(opening.EN) != "" {
		tags["Opening"] = opening.EN
	}
	tags["Annotator"] = "kibitz"

	var b strings.Builder
	for _, k := range tagOrder {
		if v, ok := tags[k]; ok {
			fmt.Fprintf(&b, "[%s \"%s\"]\n", k, strings.ReplaceAll(v, `"`, `\"`))
		}
	}
	if fen, ok := tags["FEN"]; ok {
		fmt.Fprintf(&b, "[SetUp \"1\"]\n[FEN \"%s\"]\n", fen)
	}
	b.WriteString("\n")

	var tokens []string
	needNumber := true
	for _, r := range records {
		switch {
		case r.Color == types.White:
			tokens = append(tokens, fmt.Sprintf("%d.", r.MoveNumber))
		case needNumber:
			tokens = append(tokens, fmt.Sprintf("%d...", r.MoveNumber))
		}
		tokens = append(tokens, r.SAN)
		needNumber = false
		if nag, ok := nags[r.Quality]; ok {
			tokens = append(tokens, nag)
		}
		if best := bestComment(r); best != "" {
			tokens = append(tokens, best)
			needNumber = true
		}
	}
	tokens = append(tokens, tags["Result"])

	b.WriteString(wrap(tokens))
	b.WriteString("\n")
	return b.String()
}

func bestComment(r types.MoveRecord) string {
	if r.Quality.Optimal() {
		return ""
	}
	best := strings.TrimSpace(r.BestMoveSAN)
	if best == "" || strings.EqualFold(best, "N/A") || best == r.SAN {
		return ""
	}
	return "{Best: " + strings.ReplaceAll(best, "}", "") + "}"
}

func wrap(tokens []string) string {
	var b strings.Builder
	width := 0
	for _, t := range tokens {
		if width > 0 && width+1+len(t) > lineWidth {
			b.WriteString("\n")
			width = 0
		}
		if width > 0 {
			b.WriteString(" ")
			width++
		}
		b.WriteString(t)
		width += len(t)
	}
	return b.String()
}
