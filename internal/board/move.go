package board

import "strings"

// Move is a self-describing history record. A move is built with NewMove,
// which fixes From at the piece's square; MakeMove fills in the rest.
//
// Castling and promotion push a second, auxiliary Move right after the
// primary one: the rook relocation, or the substitution of the pawn by
// its promoted piece (From == To, Replaced set). UnmakeMove always pops
// the pair together.
type Move struct {
	Piece    *Piece
	From, To Square

	// Captured is the piece removed from To, set during application.
	Captured *Piece
	// Promotion is the kind the pawn was promoted to, or NoKind.
	Promotion Kind
	// Aux marks a rook relocation or promotion substitution entry.
	Aux bool
	// Replaced is the pawn swapped out by a substitution entry.
	Replaced *Piece

	prevMoved bool
	// Slice positions of Captured (or Replaced) in the color and aggregate
	// collections, so undo restores the exact order.
	colorIdx, allIdx int
}

// NoMove is the zero Move.
var NoMove = Move{}

// NewMove creates a move of pc to the given square. The source square is
// the piece's location at construction time.
func NewMove(pc *Piece, to Square) Move {
	return Move{Piece: pc, From: pc.Square(), To: to, Promotion: NoKind}
}

// IsNull returns true for NoMove.
func (m Move) IsNull() bool {
	return m.Piece == nil
}

// IsCastling returns true for a king move of two files.
func (m Move) IsCastling() bool {
	return m.Piece != nil && m.Piece.Kind == King && abs(m.To.Col-m.From.Col) == 2
}

// IsPromotion returns true for a pawn move onto the farthest rank.
func (m Move) IsPromotion() bool {
	return m.Piece != nil && m.Piece.Kind == Pawn && m.To.Row == m.Piece.Color.promotionRow()
}

// IsCapture returns true if the move removed (or will remove) a piece.
func (m Move) IsCapture(p *Position) bool {
	if m.Captured != nil {
		return true
	}
	target := p.PieceAt(m.To)
	return target != nil && m.Piece != nil && target.Color != m.Piece.Color && target != m.Piece
}

// String returns the move in UCI long algebraic notation (e.g., "e2e4",
// "e7e8q"). Unapplied promotions are shown as queen promotions.
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	var sb strings.Builder
	sb.WriteString(m.From.String())
	sb.WriteString(m.To.String())
	if m.IsPromotion() {
		promo := m.Promotion
		if promo == NoKind {
			promo = Queen
		}
		sb.WriteByte(promo.Char())
	}
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
