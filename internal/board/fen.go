package board

import (
	"fmt"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns the position and the side to
// move. Has-moved flags are derived from the castling field and pawn
// ranks: a king or rook is unmoved only when a castling right needs it,
// a pawn is unmoved only on its starting rank. The en passant field,
// clocks and move number are accepted but not used.
func ParseFEN(fen string) (*Position, Color, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, NoColor, fmt.Errorf("%w: need at least 2 fields, got %d", ErrInvalidFEN, len(parts))
	}

	pos := NewEmptyPosition()
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, NoColor, err
	}

	var side Color
	switch parts[1] {
	case "w":
		side = White
	case "b":
		side = Black
	default:
		return nil, NoColor, fmt.Errorf("%w: invalid side to move %q", ErrInvalidFEN, parts[1])
	}

	castling := "-"
	if len(parts) > 2 {
		castling = parts[2]
	}
	if err := applyCastlingRights(pos, castling); err != nil {
		return nil, NoColor, err
	}

	for _, c := range []Color{White, Black} {
		if pos.kings[c] == nil {
			return nil, NoColor, fmt.Errorf("%w: no %s king", ErrInvalidFEN, c)
		}
	}
	return pos, side, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for row, rankStr := range ranks {
		col := 0
		for i := 0; i < len(rankStr); i++ {
			ch := rankStr[i]
			if col > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, 8-row)
			}
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			k, err := ParseKind(ch)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidFEN, err)
			}
			c := Black
			if ch >= 'A' && ch <= 'Z' {
				c = White
			}
			if k == King && pos.kings[c] != nil {
				return fmt.Errorf("%w: two %s kings", ErrInvalidFEN, c)
			}
			pc := pos.Place(k, c, Sq(row, col))
			// Everything counts as moved until castling rights or the
			// pawn rank say otherwise.
			pc.HasMoved = k != Pawn || row != c.pawnRow()
			col++
		}
		if col != 8 {
			return fmt.Errorf("%w: invalid number of squares in rank %d: got %d", ErrInvalidFEN, 8-row, col)
		}
	}
	return nil
}

// applyCastlingRights clears the has-moved flag of kings and rooks that
// a castling right depends on.
func applyCastlingRights(pos *Position, field string) error {
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		var c Color
		var rookCol int
		switch field[i] {
		case 'K':
			c, rookCol = White, 7
		case 'Q':
			c, rookCol = White, 0
		case 'k':
			c, rookCol = Black, 7
		case 'q':
			c, rookCol = Black, 0
		default:
			return fmt.Errorf("%w: invalid castling flag %q", ErrInvalidFEN, field[i])
		}
		row := c.backRow()
		king := pos.grid[row][4]
		rook := pos.grid[row][rookCol]
		if king == nil || king.Kind != King || king.Color != c ||
			rook == nil || rook.Kind != Rook || rook.Color != c {
			return fmt.Errorf("%w: castling flag %q without king and rook in place", ErrInvalidFEN, field[i])
		}
		king.HasMoved = false
		rook.HasMoved = false
	}
	return nil
}

// castlingRights derives the FEN castling field from has-moved flags.
func (p *Position) castlingRights() string {
	var sb strings.Builder
	for _, c := range []Color{White, Black} {
		row := c.backRow()
		king := p.grid[row][4]
		if king == nil || king.Kind != King || king.Color != c || king.HasMoved {
			continue
		}
		for _, side := range [2]struct {
			col  int
			flag byte
		}{{7, 'K'}, {0, 'Q'}} {
			rook := p.grid[row][side.col]
			if rook == nil || rook.Kind != Rook || rook.Color != c || rook.HasMoved {
				continue
			}
			flag := side.flag
			if c == Black {
				flag += 'a' - 'A'
			}
			sb.WriteByte(flag)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// FEN returns the FEN string of the position with the given side to move.
// The en passant field is always "-" and the clocks are not tracked.
func (p *Position) FEN(side Color) string {
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			pc := p.grid[row][col]
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	if side == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(p.castlingRights())
	fmt.Fprintf(&sb, " - 0 %d", 1+p.Plies()/2)
	return sb.String()
}
