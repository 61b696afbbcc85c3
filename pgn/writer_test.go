package pgn

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kibitz/types"
)

func annotatedGame() types.AnalysisSet {
	return types.AnalysisSet{
		{MoveNumber: 1, Color: types.White, SAN: "e4", Quality: types.BookMove},
		{MoveNumber: 1, Color: types.Black, SAN: "e5", Quality: types.BookMove},
		{MoveNumber: 2, Color: types.White, SAN: "Bc4", Quality: types.Inaccuracy, BestMoveSAN: "Nf3"},
		{MoveNumber: 2, Color: types.Black, SAN: "Nc6", Quality: types.Good, BestMoveSAN: "Nf6"},
		{MoveNumber: 3, Color: types.White, SAN: "Qh5", Quality: types.Mistake, BestMoveSAN: "N/A"},
		{MoveNumber: 3, Color: types.Black, SAN: "Nf6", Quality: types.Blunder, BestMoveSAN: "g6"},
		{MoveNumber: 4, Color: types.White, SAN: "Qxf7#", Quality: types.BestMove},
	}
}

var fixedNow = time.Date(2024, 5, 4, 9, 8, 7, 0, time.UTC)

func TestAnnotateMovetext(t *testing.T) {
	out := Annotate("1. e4 e5 2. Bc4 Nc6 3. Qh5 Nf6 4. Qxf7#", annotatedGame(), types.OpeningName{EN: "Bishop's Opening"}, fixedNow)

	want := "1. e4 e5 2. Bc4 $6 {Best: Nf3} 2... Nc6 {Best: Nf6} 3. Qh5 $2 Nf6 $4 {Best: g6}\n4. Qxf7# *"
	if !strings.Contains(out, want) {
		t.Errorf("movetext mismatch\ngot:\n%s\nwant substring:\n%s", out, want)
	}
	for _, tag := range []string{
		`[Date "2024.05.04"]`,
		`[Result "*"]`,
		`[Opening "Bishop's Opening"]`,
		`[Annotator "kibitz"]`,
	} {
		if !strings.Contains(out, tag) {
			t.Errorf("missing tag %s in\n%s", tag, out)
		}
	}
}

func TestAnnotateKeepsTranscriptTags(t *testing.T) {
	transcript := "[White \"Alice\"]\n[Black \"Bob \\\"B\\\"\"]\n[Result \"1-0\"]\n\n1. e4 1-0"
	out := Annotate(transcript, annotatedGame()[:1], types.OpeningName{}, fixedNow)

	if !strings.Contains(out, `[White "Alice"]`) || !strings.Contains(out, `[Black "Bob \"B\""]`) {
		t.Errorf("player tags lost:\n%s", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "1. e4 1-0") {
		t.Errorf("result should end the movetext:\n%s", out)
	}
	if strings.Contains(out, "[Opening") {
		t.Error("empty opening should not be written")
	}
	if strings.Index(out, "[Event") > strings.Index(out, "[White") {
		t.Error("tags should follow roster order")
	}
}

func TestAnnotateRoundTrip(t *testing.T) {
	out := Annotate("", annotatedGame(), types.OpeningName{}, fixedNow)
	got := Moves(out)
	if len(got) != len(annotatedGame()) {
		t.Fatalf("Moves(annotated) = %v", got)
	}
	for i, r := range annotatedGame() {
		if got[i] != r.SAN {
			t.Errorf("move %d = %q, want %q", i, got[i], r.SAN)
		}
	}
}

func TestWriteAnnotated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "library")
	w := &Writer{now: func() time.Time { return fixedNow }}

	path, err := w.WriteAnnotated(dir, "", annotatedGame(), types.OpeningName{})
	if err != nil {
		t.Fatalf("WriteAnnotated: %v", err)
	}
	if filepath.Base(path) != "2024-05-04_090807_annotated.pgn" {
		t.Errorf("file name = %q", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	info, err := ParseHeader(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.MoveCount != 7 {
		t.Errorf("written game has %d moves, want 7", info.MoveCount)
	}

	if _, err := w.WriteAnnotated(dir, "", nil, types.OpeningName{}); err == nil {
		t.Error("expected error for an empty game")
	}
}
