// Package pgn reads game headers from the PGN library and writes analyzed
// games back out with annotations.
package pgn

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corentings/chess/v2"
)

// GameInfo holds metadata parsed from a PGN file's tag section.
type GameInfo struct {
	FilePath  string
	FileName  string
	Event     string
	White     string
	Black     string
	Date      string
	Result    string
	ECO       string
	MoveCount int // half-moves
	ModTime   int64
}

// ParseHeader reads a PGN file and extracts its tags and move count.
func ParseHeader(filePath string) (*GameInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}

	content := string(data)
	tags := parseTags(content)
	return &GameInfo{
		FilePath:  filePath,
		FileName:  filepath.Base(filePath),
		Event:     tags["Event"],
		White:     tags["White"],
		Black:     tags["Black"],
		Date:      tags["Date"],
		Result:    tags["Result"],
		ECO:       tags["ECO"],
		MoveCount: len(Moves(content)),
		ModTime:   st.ModTime().Unix(),
	}, nil
}

// ListGames returns the headers of every *.pgn file in dir, newest first.
// Unreadable files are skipped. A missing dir is an empty library.
func ListGames(dir string) ([]*GameInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var games []*GameInfo
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pgn") {
			continue
		}
		info, err := ParseHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		games = append(games, info)
	}
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].ModTime != games[j].ModTime {
			return games[i].ModTime > games[j].ModTime
		}
		return games[i].FileName > games[j].FileName
	})
	return games, nil
}

// ReadTranscript returns the raw text of a PGN file, ready to send for analysis.
func ReadTranscript(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s: empty file", filepath.Base(filePath))
	}
	return text, nil
}

// ReplayToEnd plays a PGN file's main line and returns the final FEN and the
// number of half-moves applied. Replay stops at the first illegal move.
func ReplayToEnd(filePath string) (string, int, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", 0, err
	}
	content := string(data)

	opts := []func(*chess.Game){}
	if fen, ok := parseTags(content)["FEN"]; ok && fen != "" {
		opt, err := chess.FEN(fen)
		if err != nil {
			return "", 0, fmt.Errorf("FEN tag: %w", err)
		}
		opts = append(opts, opt)
	}
	game := chess.NewGame(opts...)

	n := 0
	for _, san := range Moves(content) {
		if err := game.PushNotationMove(san, chess.AlgebraicNotation{}, nil); err != nil {
			return game.FEN(), n, fmt.Errorf("move %d (%s): %w", n+1, san, err)
		}
		n++
	}
	return game.FEN(), n, nil
}

// parseTags extracts [Key "Value"] pairs from the tag section.
func parseTags(content string) map[string]string {
	tags := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] != '[' {
			if len(tags) > 0 {
				break
			}
			continue
		}
		line = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
		sp := strings.IndexByte(line, ' ')
		if sp <= 0 {
			continue
		}
		key := line[:sp]
		val := strings.TrimSpace(line[sp+1:])
		val = strings.TrimSuffix(strings.TrimPrefix(val, `"`), `"`)
		tags[key] = strings.ReplaceAll(val, `\"`, `"`)
	}
	return tags
}

// Moves returns the main-line SAN tokens of the movetext, without move
// numbers, comments, variations, NAGs, annotation marks and the result.
func Moves(content string) []string {
	body := movetext(content)
	var moves []string
	i := 0
	for i < len(body) {
		switch c := body[i]; {
		case c == '{':
			for i < len(body) && body[i] != '}' {
				i++
			}
			i++
		case c == ';':
			for i < len(body) && body[i] != '\n' {
				i++
			}
		case c == '(':
			depth := 0
			for i < len(body) {
				if body[i] == '(' {
					depth++
				} else if body[i] == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
				i++
			}
			i++
		case c == ' ' || c == '\n' || c == '\r' || c == '\t':
			i++
		default:
			start := i
			for i < len(body) && !strings.ContainsRune(" \n\r\t{(;", rune(body[i])) {
				i++
			}
			if tok := sanToken(body[start:i]); tok != "" {
				moves = append(moves, tok)
			}
		}
	}
	return moves
}

// movetext strips the tag section.
func movetext(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" || t[0] == '[' {
			continue
		}
		return strings.Join(lines[i:], "\n")
	}
	return ""
}

func sanToken(tok string) string {
	if tok == "" || tok[0] == '$' {
		return ""
	}
	switch tok {
	case "1-0", "0-1", "1/2-1/2", "*":
		return ""
	case "0-0", "0-0+", "0-0#":
		return strings.Replace(tok, "0-0", "O-O", 1)
	case "0-0-0", "0-0-0+", "0-0-0#":
		return strings.Replace(tok, "0-0-0", "O-O-O", 1)
	}
	// "12." "12..." or "12.e4"
	if tok[0] >= '0' && tok[0] <= '9' {
		j := 0
		for j < len(tok) && tok[j] >= '0' && tok[j] <= '9' {
			j++
		}
		if j == len(tok) || tok[j] != '.' {
			return ""
		}
		tok = strings.TrimLeft(tok[j:], ".")
	}
	return strings.TrimRight(tok, "!?")
}
