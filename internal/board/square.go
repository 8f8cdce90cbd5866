// Package board implements the chess rules: a mailbox position, per-piece
// move rules, reversible move application and legal move filtering.
package board

import "fmt"

// Square addresses a cell of the 8x8 grid.
// Row 0 is the eighth rank (Black's back rank), row 7 the first rank.
// Col 0 is the a-file.
type Square struct {
	Row, Col int
}

// NoSquare is returned where no square applies.
var NoSquare = Square{Row: -1, Col: -1}

// Sq is shorthand for Square{row, col}.
func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// InBounds returns true if the square lies on the board.
func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// Rank returns the chess rank (1-8).
func (s Square) Rank() int {
	return 8 - s.Row
}

// String returns the algebraic notation for the square (e.g., "e4").
func (s Square) String() string {
	if !s.InBounds() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, s.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	col := int(s[0]) - 'a'
	rank := int(s[1]) - '0'

	sq := Square{Row: 8 - rank, Col: col}
	if !sq.InBounds() {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return sq, nil
}
