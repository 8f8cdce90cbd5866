package board

import "errors"

var (
	// ErrIllegalMove is returned when a requested move is not among the
	// legal moves of the side making it.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidPromotion is returned for a promotion choice outside
	// queen, rook, bishop and knight.
	ErrInvalidPromotion = errors.New("invalid promotion piece")

	// ErrInvalidFEN is returned when a FEN string cannot be parsed.
	ErrInvalidFEN = errors.New("invalid FEN")

	// ErrInvalidSquare is returned for malformed square names.
	ErrInvalidSquare = errors.New("invalid square")
)
