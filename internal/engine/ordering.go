package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Move ordering priorities
const (
	CaptureBase   = 1000000 // Captures go first
	PromotionBase = 900000  // Then quiet promotions
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
// Score = victimValue * 10 - attackerValue
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11}, // Pawn victim
	/* N */ {25, 24, 24, 23, 22, 21}, // Knight victim
	/* B */ {35, 34, 34, 33, 32, 31}, // Bishop victim
	/* R */ {45, 44, 44, 43, 42, 41}, // Rook victim
	/* Q */ {55, 54, 54, 53, 52, 51}, // Queen victim
	/* K */ {0, 0, 0, 0, 0, 0},       // King can't be captured
}

// scoreMove returns the ordering score for a single unapplied move.
func scoreMove(pos *board.Position, m board.Move) int {
	if victim := pos.PieceAt(m.To); victim != nil && victim.Color != m.Piece.Color {
		return CaptureBase + mvvLva[victim.Kind][m.Piece.Kind]*1000
	}
	if m.IsPromotion() {
		return PromotionBase
	}
	return 0
}

// OrderMoves sorts moves so captures of valuable pieces by cheap pieces
// come first. Moves with equal scores keep their generation order, so
// both searches see the same sequence.
func OrderMoves(pos *board.Position, moves []board.Move) {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = scoreMove(pos, m)
	}
	SortMoves(moves, scores)
}

// SortMoves sorts moves by their scores (descending), stable.
func SortMoves(moves []board.Move, scores []int) {
	// Insertion sort (sufficient for ~40 moves)
	for i := 1; i < len(moves); i++ {
		m, s := moves[i], scores[i]
		j := i
		for j > 0 && scores[j-1] < s {
			moves[j], scores[j] = moves[j-1], scores[j-1]
			j--
		}
		moves[j], scores[j] = m, s
	}
}
