package board

import "fmt"

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// forward is the row delta of a pawn advance. Row 0 is the eighth rank.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

// pawnRow is the row a color's pawns start on.
func (c Color) pawnRow() int {
	if c == White {
		return 6
	}
	return 1
}

// backRow is the row a color's pieces start on.
func (c Color) backRow() int {
	if c == White {
		return 7
	}
	return 0
}

// promotionRow is the farthest row for a color's pawns.
func (c Color) promotionRow() int {
	return c.Other().backRow()
}

// Kind is the closed set of chess piece kinds.
type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoKind Kind = 6
)

// String returns the piece kind name.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the kind (lowercase).
func (k Kind) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if k > NoKind {
		return ' '
	}
	return chars[k]
}

// IsPromotionChoice reports whether a pawn may be promoted to k.
func (k Kind) IsPromotionChoice() bool {
	return k == Queen || k == Rook || k == Bishop || k == Knight
}

// ParseKind converts a FEN letter of either case to a Kind.
func ParseKind(c byte) (Kind, error) {
	switch c {
	case 'p', 'P':
		return Pawn, nil
	case 'n', 'N':
		return Knight, nil
	case 'b', 'B':
		return Bishop, nil
	case 'r', 'R':
		return Rook, nil
	case 'q', 'Q':
		return Queen, nil
	case 'k', 'K':
		return King, nil
	}
	return NoKind, fmt.Errorf("unknown piece letter %q", c)
}

// Piece is a single piece on (or captured from) a Position. The Position
// owns every Piece; other structures only hold references.
type Piece struct {
	Kind     Kind
	Color    Color
	Row, Col int
	HasMoved bool
}

// Square returns the square the piece currently stands on.
func (pc *Piece) Square() Square {
	return Square{Row: pc.Row, Col: pc.Col}
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (pc *Piece) String() string {
	if pc == nil {
		return " "
	}
	c := pc.Kind.Char()
	if pc.Color == White {
		c -= 'a' - 'A'
	}
	return string(c)
}
