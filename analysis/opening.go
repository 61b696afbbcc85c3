package analysis

import (
	"context"
	"strings"

	"github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
	"go.uber.org/zap"

	"kibitz/obslog"
	"kibitz/types"
)

// OpeningFromMoves replays the records' SAN and looks the line up in the ECO
// book. Replay stops at the first move the rules reject.
func OpeningFromMoves(records types.AnalysisSet) (types.OpeningName, bool) {
	if len(records) == 0 {
		return types.OpeningName{}, false
	}
	game := chess.NewGame()
	for _, r := range records {
		if err := game.PushNotationMove(r.SAN, chess.AlgebraicNotation{}, nil); err != nil {
			break
		}
	}
	if len(game.Moves()) == 0 {
		return types.OpeningName{}, false
	}
	book := opening.NewBookECO()
	if book == nil {
		return types.OpeningName{}, false
	}
	eco := book.Find(game.Moves())
	if eco == nil {
		return types.OpeningName{}, false
	}
	name := strings.TrimSpace(eco.Code() + " " + eco.Title())
	return types.OpeningName{EN: name}, true
}

// OpeningFallback fills in the opening name when the backend leaves it out.
type OpeningFallback struct {
	Next Analyzer
}

func (o OpeningFallback) Analyze(ctx context.Context, transcript string) (*Result, error) {
	res, err := o.Next.Analyze(ctx, transcript)
	if err != nil || !res.Opening.Empty() {
		return res, err
	}
	if name, ok := OpeningFromMoves(res.Records); ok {
		obslog.L().Debug("opening from ECO book", zap.String("opening", name.EN))
		res.Opening = name
	}
	return res, nil
}
