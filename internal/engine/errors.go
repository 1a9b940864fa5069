package engine

import "github.com/pkg/errors"

var (
	ErrNoLegalMoves    = errors.New("no legal moves")
	ErrNoResult        = errors.New("search produced no move")
	ErrUnknownStrategy = errors.New("unknown strategy")
)
