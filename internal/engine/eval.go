// Package engine implements the chess AI: a material and pawn-structure
// evaluation, fixed-depth minimax and negamax alpha-beta searches, and
// perft.
package engine

import (
	"golang.org/x/exp/constraints"

	"github.com/hailam/chesscore/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Piece values array for quick lookup
var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// Positional weights. Each is applied to the difference between the two
// sides' counts, so a single term never outweighs a pawn's worth of
// material by much.
const (
	pawnStructurePenalty = 50 // per doubled, blocked or isolated pawn
	mobilityBonus        = 10 // per legal destination
)

// PieceValue returns the material value of a kind in centipawns.
func PieceValue(k board.Kind) int {
	return pieceValues[k]
}

// Evaluate returns the static evaluation in centipawns from White's
// perspective: material, pawn structure and mobility, each as White's
// count minus Black's.
//
// Mobility counts legal moves, so this simulates moves on pos; it is
// restored before returning.
func Evaluate(pos *board.Position) int {
	material := EvaluateMaterial(pos)

	wd, wb, wi := pawnStructure(pos, board.White)
	bd, bb, bi := pawnStructure(pos, board.Black)
	structure := (wd - bd) + (wb - bb) + (wi - bi)

	mobility := len(pos.LegalMoveList(board.White)) - len(pos.LegalMoveList(board.Black))

	return material - pawnStructurePenalty*structure + mobilityBonus*mobility
}

// EvaluateFor returns the evaluation from the perspective of color c.
func EvaluateFor(pos *board.Position, c board.Color) int {
	if c == board.White {
		return Evaluate(pos)
	}
	return -Evaluate(pos)
}

// EvaluateMaterial returns White's material minus Black's.
func EvaluateMaterial(pos *board.Position) int {
	score := 0
	for _, pc := range pos.Pieces(board.White) {
		score += pieceValues[pc.Kind]
	}
	for _, pc := range pos.Pieces(board.Black) {
		score -= pieceValues[pc.Kind]
	}
	return score
}

// pawnStructure counts the doubled, blocked and isolated pawns of c.
// Every pawn sharing its file with another friendly pawn is doubled. A
// pawn is blocked when any piece stands directly in front of it, and
// isolated when no friendly pawn is on an adjacent file.
func pawnStructure(pos *board.Position, c board.Color) (doubled, blocked, isolated int) {
	var files [8]int
	for _, pc := range pos.Pieces(c) {
		if pc.Kind == board.Pawn {
			files[pc.Col]++
		}
	}

	fwd := -1
	if c == board.Black {
		fwd = 1
	}

	for _, pc := range pos.Pieces(c) {
		if pc.Kind != board.Pawn {
			continue
		}
		if files[pc.Col] > 1 {
			doubled++
		}
		if front := board.Sq(pc.Row+fwd, pc.Col); front.InBounds() && !pos.IsEmpty(front) {
			blocked++
		}
		left, right := 0, 0
		if pc.Col > 0 {
			left = files[pc.Col-1]
		}
		if pc.Col < 7 {
			right = files[pc.Col+1]
		}
		if left+right == 0 {
			isolated++
		}
	}
	return doubled, blocked, isolated
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
