package board

// Candidate generation ignores king safety; see legal.go for the filter.

type direction struct{ dr, dc int }

var (
	straightDirs = []direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonalDirs = []direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	royalDirs    = append(append([]direction{}, straightDirs...), diagonalDirs...)
	knightJumps  = []direction{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
)

// generator appends the candidate destinations of pc to dst.
type generator func(p *Position, pc *Piece, dst []Square) []Square

// generators is indexed by Kind.
var generators [6]generator

func init() {
	generators = [6]generator{
		Pawn:   pawnTargets,
		Knight: knightTargets,
		Bishop: bishopTargets,
		Rook:   rookTargets,
		Queen:  queenTargets,
		King:   kingTargets,
	}
}

// Candidates returns the pseudo-legal destinations of pc: squares its
// movement rule reaches, not checked for leaving its own king in check.
func (p *Position) Candidates(pc *Piece) []Square {
	return generators[pc.Kind](p, pc, make([]Square, 0, 16))
}

// slide walks each direction until leaving the board or meeting a
// piece. An enemy piece is included, a friendly one is not.
func slide(p *Position, pc *Piece, dirs []direction, dst []Square) []Square {
	for _, d := range dirs {
		r, c := pc.Row+d.dr, pc.Col+d.dc
		for r >= 0 && r < 8 && c >= 0 && c < 8 {
			occ := p.grid[r][c]
			if occ == nil {
				dst = append(dst, Sq(r, c))
			} else {
				if occ.Color != pc.Color {
					dst = append(dst, Sq(r, c))
				}
				break
			}
			r += d.dr
			c += d.dc
		}
	}
	return dst
}

// step tries each offset once.
func step(p *Position, pc *Piece, offsets []direction, dst []Square) []Square {
	for _, d := range offsets {
		to := Sq(pc.Row+d.dr, pc.Col+d.dc)
		if !to.InBounds() {
			continue
		}
		if occ := p.grid[to.Row][to.Col]; occ == nil || occ.Color != pc.Color {
			dst = append(dst, to)
		}
	}
	return dst
}

func knightTargets(p *Position, pc *Piece, dst []Square) []Square {
	return step(p, pc, knightJumps, dst)
}

func bishopTargets(p *Position, pc *Piece, dst []Square) []Square {
	return slide(p, pc, diagonalDirs, dst)
}

func rookTargets(p *Position, pc *Piece, dst []Square) []Square {
	return slide(p, pc, straightDirs, dst)
}

func queenTargets(p *Position, pc *Piece, dst []Square) []Square {
	return slide(p, pc, royalDirs, dst)
}

func pawnTargets(p *Position, pc *Piece, dst []Square) []Square {
	fwd := pc.Color.forward()

	one := Sq(pc.Row+fwd, pc.Col)
	if one.InBounds() && p.IsEmpty(one) {
		dst = append(dst, one)
		two := Sq(pc.Row+2*fwd, pc.Col)
		if !pc.HasMoved && two.InBounds() && p.IsEmpty(two) {
			dst = append(dst, two)
		}
	}

	for _, dc := range [2]int{-1, 1} {
		to := Sq(pc.Row+fwd, pc.Col+dc)
		if !to.InBounds() {
			continue
		}
		if occ := p.grid[to.Row][to.Col]; occ != nil && occ.Color != pc.Color {
			dst = append(dst, to)
		}
	}
	return dst
}

func kingTargets(p *Position, pc *Piece, dst []Square) []Square {
	dst = step(p, pc, royalDirs, dst)
	return p.castlingTargets(pc, dst)
}

// castlingTargets adds the two-file king destinations. Castling needs an
// unmoved king and an unmoved rook of the same color in the corner, empty
// squares between them, and a king that neither starts in, passes
// through nor lands on an attacked square.
func (p *Position) castlingTargets(king *Piece, dst []Square) []Square {
	// Only from the home square, where the rooks start in the corners.
	if king.HasMoved || king.Row != king.Color.backRow() || king.Col != 4 {
		return dst
	}
	them := king.Color.Other()
	row := king.Row

	for _, side := range [2]struct{ rookCol, dir int }{{7, 1}, {0, -1}} {
		rook := p.grid[row][side.rookCol]
		if rook == nil || rook.Kind != Rook || rook.Color != king.Color || rook.HasMoved {
			continue
		}
		clear := true
		for c := king.Col + side.dir; c != side.rookCol; c += side.dir {
			if p.grid[row][c] != nil {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		if p.IsSquareAttacked(king.Square(), them) ||
			p.IsSquareAttacked(Sq(row, king.Col+side.dir), them) ||
			p.IsSquareAttacked(Sq(row, king.Col+2*side.dir), them) {
			continue
		}
		dst = append(dst, Sq(row, king.Col+2*side.dir))
	}
	return dst
}
