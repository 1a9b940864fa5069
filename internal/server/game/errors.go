package game

import "github.com/pkg/errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrIllegalMove       = errors.New("illegal move")
	ErrNotHumanTurn      = errors.New("not a human player's turn")
	ErrPromotionRequired = errors.New("promotion piece required")
	ErrGameOver          = errors.New("game is over")
)
