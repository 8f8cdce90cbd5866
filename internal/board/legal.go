package board

import "fmt"

// GameStatus is the outcome of a position for the side to move.
type GameStatus uint8

const (
	Ongoing GameStatus = iota
	Checkmate
	Stalemate
)

// String returns the status name.
func (s GameStatus) String() string {
	switch s {
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	default:
		return "Ongoing"
	}
}

// legalTargets filters the candidates of pc by simulating each one and
// keeping those that do not leave its own king attacked.
func (p *Position) legalTargets(pc *Piece) []Square {
	cands := p.Candidates(pc)
	legal := cands[:0]
	for _, to := range cands {
		p.apply(NewMove(pc, to), Queen)
		ok := !p.InCheck(pc.Color)
		p.UnmakeMove()
		if ok {
			legal = append(legal, to)
		}
	}
	return legal
}

// snapshot copies the piece list of c so callers can simulate moves while
// iterating.
func (p *Position) snapshot(c Color) []*Piece {
	return append([]*Piece(nil), p.pieces[c]...)
}

// LegalMoves maps each piece of color c that has at least one legal move
// to its legal destinations.
func (p *Position) LegalMoves(c Color) map[*Piece][]Square {
	out := make(map[*Piece][]Square)
	for _, pc := range p.snapshot(c) {
		if targets := p.legalTargets(pc); len(targets) > 0 {
			out[pc] = targets
		}
	}
	return out
}

// LegalMoveList returns the legal moves of color c in collection order.
// A promotion appears once; its kind is chosen when it is applied.
func (p *Position) LegalMoveList(c Color) []Move {
	moves := make([]Move, 0, 48)
	for _, pc := range p.snapshot(c) {
		for _, to := range p.legalTargets(pc) {
			moves = append(moves, NewMove(pc, to))
		}
	}
	return moves
}

// HasLegalMoves returns true if color c can move at all.
func (p *Position) HasLegalMoves(c Color) bool {
	for _, pc := range p.snapshot(c) {
		if len(p.legalTargets(pc)) > 0 {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if c is in check and has no legal move.
func (p *Position) IsCheckmate(c Color) bool {
	return p.InCheck(c) && !p.HasLegalMoves(c)
}

// IsStalemate returns true if c is not in check but has no legal move.
func (p *Position) IsStalemate(c Color) bool {
	return !p.InCheck(c) && !p.HasLegalMoves(c)
}

// Status reports whether color c to move is checkmated, stalemated or
// still playing.
func (p *Position) Status(c Color) GameStatus {
	if p.HasLegalMoves(c) {
		return Ongoing
	}
	if p.InCheck(c) {
		return Checkmate
	}
	return Stalemate
}

// FindLegalMove returns the legal move of color c from one square to
// another, if there is one.
func (p *Position) FindLegalMove(c Color, from, to Square) (Move, bool) {
	pc := p.PieceAt(from)
	if pc == nil || pc.Color != c {
		return NoMove, false
	}
	for _, sq := range p.legalTargets(pc) {
		if sq == to {
			return NewMove(pc, to), true
		}
	}
	return NoMove, false
}

// Play validates and applies a move for color c. It is the entry point
// for moves coming from outside the engine: nothing is changed unless the
// move is legal and the promotion choice valid.
func (p *Position) Play(c Color, from, to Square, promo Kind) (Move, error) {
	if promo != NoKind && !promo.IsPromotionChoice() {
		return NoMove, fmt.Errorf("%w: %s", ErrInvalidPromotion, promo)
	}
	m, ok := p.FindLegalMove(c, from, to)
	if !ok {
		return NoMove, fmt.Errorf("%w: %s%s for %s", ErrIllegalMove, from, to, c)
	}
	return p.MakeMove(m, promo)
}

// PlayUCI plays a move given in UCI notation (e.g., "e2e4", "a7a8n").
func (p *Position) PlayUCI(c Color, s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	promo := NoKind
	if len(s) == 5 {
		if promo, err = ParseKind(s[4]); err != nil {
			return NoMove, fmt.Errorf("%w: %v", ErrInvalidPromotion, err)
		}
	}
	return p.Play(c, from, to, promo)
}
