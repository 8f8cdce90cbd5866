package board

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// MakeMove applies m, which must come from the legal moves of the moving
// side, and returns the recorded primary move.
//
// For a pawn reaching the last rank, promo is the replacement kind; NoKind
// promotes to a queen, as the automated side always does. Any other kind
// outside queen, rook, bishop and knight is rejected before the position
// is touched. promo is ignored for every other move.
func (p *Position) MakeMove(m Move, promo Kind) (Move, error) {
	if m.IsNull() {
		return NoMove, ErrIllegalMove
	}
	if m.IsPromotion() {
		if promo == NoKind {
			promo = Queen
		} else if !promo.IsPromotionChoice() {
			return NoMove, fmt.Errorf("%w: %s", ErrInvalidPromotion, promo)
		}
	}
	return p.apply(m, promo), nil
}

// MakeLegalMove applies a move taken from LegalMoveList or LegalMoves,
// promoting to a queen. It is the automated side's path and cannot fail.
func (p *Position) MakeLegalMove(m Move) Move {
	return p.apply(m, Queen)
}

// apply performs the move without validation. promo must be a valid
// promotion kind whenever m is a promotion.
func (p *Position) apply(m Move, promo Kind) Move {
	pc := m.Piece
	m.Captured = nil
	m.Promotion = NoKind
	m.Aux = false
	m.Replaced = nil

	if target := p.grid[m.To.Row][m.To.Col]; target != nil && target.Color != pc.Color {
		m.Captured = target
		m.colorIdx, m.allIdx = p.detach(target)
		p.captured = append(p.captured, target)
	}

	m.prevMoved = pc.HasMoved
	p.relocate(pc, m.To)
	pc.HasMoved = true

	isPromotion := m.IsPromotion()
	if isPromotion {
		m.Promotion = promo
	}
	p.history = append(p.history, m)

	switch {
	case pc.Kind == King && abs(m.To.Col-m.From.Col) == 2:
		p.castleRook(m)
	case isPromotion:
		p.substitute(pc, promo)
	}
	return m
}

// castleRook moves the rook next to the king after a castling king move
// and records the relocation as an auxiliary entry.
func (p *Position) castleRook(king Move) {
	row := king.From.Row
	from, to := Sq(row, 7), Sq(row, 5)
	if king.To.Col < king.From.Col {
		from, to = Sq(row, 0), Sq(row, 3)
	}
	rook := p.grid[from.Row][from.Col]

	aux := Move{Piece: rook, From: from, To: to, Promotion: NoKind, Aux: true, prevMoved: rook.HasMoved}
	p.relocate(rook, to)
	rook.HasMoved = true
	p.history = append(p.history, aux)
}

// substitute replaces a pawn on the last rank with a new piece of kind k
// and records the swap as an auxiliary entry with From == To.
func (p *Position) substitute(pawn *Piece, k Kind) {
	sq := pawn.Square()
	promoted := &Piece{Kind: k, Color: pawn.Color, Row: sq.Row, Col: sq.Col, HasMoved: true}

	aux := Move{Piece: promoted, From: sq, To: sq, Promotion: NoKind, Aux: true, Replaced: pawn}
	aux.colorIdx, aux.allIdx = p.detach(pawn)
	p.grid[sq.Row][sq.Col] = promoted
	p.pieces[pawn.Color] = append(p.pieces[pawn.Color], promoted)
	p.all = append(p.all, promoted)
	p.history = append(p.history, aux)
}

// UnmakeMove reverts the most recent logical move, including its
// auxiliary entry. It is a no-op on an empty history.
func (p *Position) UnmakeMove() {
	for len(p.history) > 0 {
		m := p.history[len(p.history)-1]
		p.history = p.history[:len(p.history)-1]
		p.revert(m)
		if !m.Aux {
			return
		}
	}
}

func (p *Position) revert(m Move) {
	if m.Replaced != nil {
		promoted := m.Piece
		p.pieces[promoted.Color] = removeAt(p.pieces[promoted.Color], indexOf(p.pieces[promoted.Color], promoted))
		p.all = removeAt(p.all, indexOf(p.all, promoted))
		p.grid[m.To.Row][m.To.Col] = m.Replaced
		p.attach(m.Replaced, m.colorIdx, m.allIdx)
		return
	}

	pc := m.Piece
	p.relocate(pc, m.From)
	pc.HasMoved = m.prevMoved

	if c := m.Captured; c != nil {
		p.captured = p.captured[:len(p.captured)-1]
		p.grid[m.To.Row][m.To.Col] = c
		p.attach(c, m.colorIdx, m.allIdx)
	}
}

// relocate moves pc to another square, overwriting the grid cell.
func (p *Position) relocate(pc *Piece, to Square) {
	p.grid[pc.Row][pc.Col] = nil
	p.grid[to.Row][to.Col] = pc
	pc.Row, pc.Col = to.Row, to.Col
}

func indexOf(s []*Piece, pc *Piece) int {
	return slices.Index(s, pc)
}

func removeAt(s []*Piece, i int) []*Piece {
	return slices.Delete(s, i, i+1)
}

func insertAt(s []*Piece, i int, pc *Piece) []*Piece {
	return slices.Insert(s, i, pc)
}
