package board

import (
	"fmt"
	"strings"
)

// backRank is the piece order on each side's first rank.
var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Position is the mutable game state: the grid, the per-color and
// aggregate piece collections, captured pieces, the move history and
// the king cache. It changes only through MakeMove and UnmakeMove.
//
// A Position is not safe for concurrent use. Clone it to search on
// another goroutine.
type Position struct {
	grid     [8][8]*Piece
	pieces   [2][]*Piece
	all      []*Piece
	captured []*Piece
	history  []Move
	kings    [2]*Piece
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p := NewEmptyPosition()
	for _, c := range []Color{White, Black} {
		for col, k := range backRank {
			p.Place(k, c, Sq(c.backRow(), col))
		}
		for col := 0; col < 8; col++ {
			p.Place(Pawn, c, Sq(c.pawnRow(), col))
		}
	}
	return p
}

// NewEmptyPosition returns a position with no pieces. It is only valid
// once both kings have been placed.
func NewEmptyPosition() *Position {
	return &Position{
		history: make([]Move, 0, 64),
	}
}

// Place puts a new unmoved piece on an empty square and returns it.
// It is meant for setting up positions, not for playing moves.
func (p *Position) Place(k Kind, c Color, sq Square) *Piece {
	pc := &Piece{Kind: k, Color: c, Row: sq.Row, Col: sq.Col}
	p.grid[sq.Row][sq.Col] = pc
	p.pieces[c] = append(p.pieces[c], pc)
	p.all = append(p.all, pc)
	if k == King {
		p.kings[c] = pc
	}
	return pc
}

// PieceAt returns the piece on a square, or nil.
func (p *Position) PieceAt(sq Square) *Piece {
	if !sq.InBounds() {
		return nil
	}
	return p.grid[sq.Row][sq.Col]
}

// IsEmpty returns true if the square has no piece.
func (p *Position) IsEmpty(sq Square) bool {
	return p.grid[sq.Row][sq.Col] == nil
}

// Pieces returns the live pieces of a color. The slice must not be
// modified.
func (p *Position) Pieces(c Color) []*Piece {
	return p.pieces[c]
}

// AllPieces returns every live piece. The slice must not be modified.
func (p *Position) AllPieces() []*Piece {
	return p.all
}

// Captured returns captured pieces in capture order.
func (p *Position) Captured() []*Piece {
	return p.captured
}

// History returns the move history stack, oldest first, including
// auxiliary entries.
func (p *Position) History() []Move {
	return p.history
}

// LastMove returns the most recent primary move, or NoMove.
func (p *Position) LastMove() Move {
	for i := len(p.history) - 1; i >= 0; i-- {
		if !p.history[i].Aux {
			return p.history[i]
		}
	}
	return NoMove
}

// Plies returns the number of primary moves played.
func (p *Position) Plies() int {
	n := 0
	for i := range p.history {
		if !p.history[i].Aux {
			n++
		}
	}
	return n
}

// King returns the king of a color.
func (p *Position) King(c Color) *Piece {
	return p.kings[c]
}

// Clone returns a deep copy. Every piece, including captured and
// promoted-away pawns referenced from history, is duplicated so the copy
// shares no state with p.
func (p *Position) Clone() *Position {
	seen := make(map[*Piece]*Piece, len(p.all)+len(p.captured))
	dup := func(pc *Piece) *Piece {
		if pc == nil {
			return nil
		}
		if c, ok := seen[pc]; ok {
			return c
		}
		c := *pc
		seen[pc] = &c
		return &c
	}
	dupAll := func(src []*Piece) []*Piece {
		out := make([]*Piece, len(src))
		for i, pc := range src {
			out[i] = dup(pc)
		}
		return out
	}

	np := &Position{
		all:      dupAll(p.all),
		captured: dupAll(p.captured),
		history:  make([]Move, len(p.history), cap(p.history)),
	}
	for c := range p.pieces {
		np.pieces[c] = dupAll(p.pieces[c])
		np.kings[c] = dup(p.kings[c])
	}
	for r := range p.grid {
		for c := range p.grid[r] {
			np.grid[r][c] = dup(p.grid[r][c])
		}
	}
	for i, m := range p.history {
		m.Piece = dup(m.Piece)
		m.Captured = dup(m.Captured)
		m.Replaced = dup(m.Replaced)
		np.history[i] = m
	}
	return np
}

// detach removes a piece from its color collection and the aggregate
// collection, returning the indices it occupied.
func (p *Position) detach(pc *Piece) (colorIdx, allIdx int) {
	colorIdx = indexOf(p.pieces[pc.Color], pc)
	allIdx = indexOf(p.all, pc)
	p.pieces[pc.Color] = removeAt(p.pieces[pc.Color], colorIdx)
	p.all = removeAt(p.all, allIdx)
	return colorIdx, allIdx
}

// attach reinserts a piece at the indices returned by detach.
func (p *Position) attach(pc *Piece, colorIdx, allIdx int) {
	p.pieces[pc.Color] = insertAt(p.pieces[pc.Color], colorIdx, pc)
	p.all = insertAt(p.all, allIdx, pc)
}

// String returns an ASCII diagram of the board.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for col := 0; col < 8; col++ {
			if pc := p.grid[row][col]; pc != nil {
				sb.WriteString(pc.String() + " ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Moves played: %d\n", p.Plies())
	fmt.Fprintf(&sb, "Captured: %d\n", len(p.captured))
	return sb.String()
}

// Validate checks the structural invariants of the position: every live
// piece sits on the grid cell matching its coordinates and belongs to
// exactly one collection of its color, captured pieces are off the grid,
// and each king cache entry points at a live king.
func (p *Position) Validate() error {
	onGrid := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			pc := p.grid[row][col]
			if pc == nil {
				continue
			}
			onGrid++
			if pc.Row != row || pc.Col != col {
				return fmt.Errorf("%s on %s records square %s", pc.Kind, Sq(row, col), pc.Square())
			}
			if indexOf(p.pieces[pc.Color], pc) < 0 {
				return fmt.Errorf("%s %s on %s missing from its collection", pc.Color, pc.Kind, Sq(row, col))
			}
		}
	}

	if n := len(p.pieces[White]) + len(p.pieces[Black]); n != len(p.all) || n != onGrid {
		return fmt.Errorf("collections hold %d pieces, aggregate %d, grid %d", n, len(p.all), onGrid)
	}

	for _, c := range []Color{White, Black} {
		for _, pc := range p.pieces[c] {
			if pc.Color != c {
				return fmt.Errorf("%s piece in %s collection", pc.Color, c)
			}
			if p.PieceAt(pc.Square()) != pc {
				return fmt.Errorf("%s %s not on its square %s", c, pc.Kind, pc.Square())
			}
		}
		k := p.kings[c]
		if k == nil || k.Kind != King || k.Color != c || p.PieceAt(k.Square()) != k {
			return fmt.Errorf("%s king cache is stale", c)
		}
	}

	for _, pc := range p.captured {
		if p.PieceAt(pc.Square()) == pc || indexOf(p.all, pc) >= 0 {
			return fmt.Errorf("captured %s %s is still live", pc.Color, pc.Kind)
		}
	}
	return nil
}
