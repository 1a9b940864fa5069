package game

import (
	nchess "github.com/notnil/chess"
	"github.com/pkg/errors"

	"negachess/internal/chess"
)

// PGN 用 notnil/chess 从起始局面重放一遍，顺便校验历史
func PGN(startFEN string, history []chess.Move) (string, error) {
	opt, err := nchess.FEN(startFEN)
	if err != nil {
		return "", errors.Wrap(err, "start position")
	}
	g := nchess.NewGame(opt)
	uci := nchess.UCINotation{}
	for i, mv := range history {
		m, err := uci.Decode(g.Position(), mv.UCI())
		if err != nil {
			return "", errors.Wrapf(err, "decode ply %d (%s)", i+1, mv.UCI())
		}
		if err := g.Move(m); err != nil {
			return "", errors.Wrapf(err, "replay ply %d (%s)", i+1, mv.UCI())
		}
	}
	return g.String(), nil
}
