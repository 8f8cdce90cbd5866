package board

// IsSquareAttacked returns true if any piece of color by could capture
// on sq. It scans outward from sq instead of generating the attacker's
// moves, so it never recurses into castling generation.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	// A pawn of color by attacks from one row behind sq, relative to its
	// own direction of travel.
	pawnRow := sq.Row - by.forward()
	for _, dc := range [2]int{-1, 1} {
		if pc := p.PieceAt(Sq(pawnRow, sq.Col+dc)); pc != nil && pc.Color == by && pc.Kind == Pawn {
			return true
		}
	}

	if p.attackedByStep(sq, by, knightJumps, Knight) || p.attackedByStep(sq, by, royalDirs, King) {
		return true
	}

	return p.attackedByRay(sq, by, straightDirs, Rook) || p.attackedByRay(sq, by, diagonalDirs, Bishop)
}

func (p *Position) attackedByStep(sq Square, by Color, offsets []direction, k Kind) bool {
	for _, d := range offsets {
		if pc := p.PieceAt(Sq(sq.Row+d.dr, sq.Col+d.dc)); pc != nil && pc.Color == by && pc.Kind == k {
			return true
		}
	}
	return false
}

// attackedByRay looks for a slider of kind k (or a queen) at the end of
// each ray.
func (p *Position) attackedByRay(sq Square, by Color, dirs []direction, k Kind) bool {
	for _, d := range dirs {
		r, c := sq.Row+d.dr, sq.Col+d.dc
		for r >= 0 && r < 8 && c >= 0 && c < 8 {
			if pc := p.grid[r][c]; pc != nil {
				if pc.Color == by && (pc.Kind == k || pc.Kind == Queen) {
					return true
				}
				break
			}
			r += d.dr
			c += d.dc
		}
	}
	return false
}

// InCheck returns true if the king of color c is attacked.
func (p *Position) InCheck(c Color) bool {
	k := p.kings[c]
	if k == nil {
		return false
	}
	return p.IsSquareAttacked(k.Square(), c.Other())
}

// AttackersOf returns the pieces of color by attacking sq, in collection
// order. It is used for highlighting checks.
func (p *Position) AttackersOf(sq Square, by Color) []*Piece {
	var out []*Piece
	for _, pc := range p.pieces[by] {
		if pc.Kind == King {
			if abs(pc.Row-sq.Row) <= 1 && abs(pc.Col-sq.Col) <= 1 && pc.Square() != sq {
				out = append(out, pc)
			}
			continue
		}
		for _, to := range p.Candidates(pc) {
			if to == sq && (pc.Kind != Pawn || to.Col != pc.Col) {
				out = append(out, pc)
				break
			}
		}
	}
	return out
}
