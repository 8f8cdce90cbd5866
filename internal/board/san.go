package board

import (
	"strings"
)

// SAN returns the Standard Algebraic Notation of a legal move that has not
// been applied yet. promo is the promotion choice (NoKind means queen).
func (p *Position) SAN(m Move, promo Kind) string {
	if m.IsNull() {
		return "-"
	}

	pc := m.Piece
	var sb strings.Builder

	switch {
	case m.IsCastling():
		if m.To.Col > m.From.Col {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}

	default:
		if pc.Kind != Pawn {
			sb.WriteByte("PNBRQK"[pc.Kind])
			sb.WriteString(p.disambiguation(m))
		}

		if m.IsCapture(p) {
			if pc.Kind == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte(byte('a' + m.From.Col))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(m.To.String())

		if m.IsPromotion() {
			if promo == NoKind {
				promo = Queen
			}
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[promo])
		}
	}

	// Play the move to see whether it checks or mates.
	applied := p.apply(m, promoOrQueen(promo))
	them := applied.Piece.Color.Other()
	if p.InCheck(them) {
		if p.HasLegalMoves(them) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	p.UnmakeMove()

	return sb.String()
}

func promoOrQueen(k Kind) Kind {
	if k.IsPromotionChoice() {
		return k
	}
	return Queen
}

// disambiguation returns the file, rank or square needed to tell m apart
// from moves of other same-kind pieces to the same square.
func (p *Position) disambiguation(m Move) string {
	pc := m.Piece
	sameFile, sameRank, ambiguous := false, false, false

	for _, other := range p.snapshot(pc.Color) {
		if other == pc || other.Kind != pc.Kind {
			continue
		}
		if _, ok := p.FindLegalMove(pc.Color, other.Square(), m.To); !ok {
			continue
		}
		ambiguous = true
		if other.Col == m.From.Col {
			sameFile = true
		}
		if other.Row == m.From.Row {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + m.From.Col))
	case !sameRank:
		return string(rune('0' + m.From.Rank()))
	default:
		return m.From.String()
	}
}
