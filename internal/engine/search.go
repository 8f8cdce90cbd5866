package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	// MateScore is the score of being checkmated, negated. It leaves
	// plenty of headroom so negation never overflows.
	MateScore = 1000000
	Infinity  = MateScore + 1000
	MaxPly    = 128
)

// Searcher runs fixed-depth searches on one position. Every move it
// applies is undone before the search returns, so the position is left
// exactly as it was given.
type Searcher struct {
	pos   *board.Position
	nodes uint64
}

// NewSearcher creates a searcher over pos. The position must not be
// touched by anything else while a search runs.
func NewSearcher(pos *board.Position) *Searcher {
	return &Searcher{pos: pos}
}

// Nodes returns the number of nodes visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Reset clears the node counter.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// orderedMoves returns the legal moves of side in search order.
func (s *Searcher) orderedMoves(side board.Color) []board.Move {
	moves := s.pos.LegalMoveList(side)
	OrderMoves(s.pos, moves)
	return moves
}

// Minimax searches depth plies with plain minimax and returns the best
// move for side with its score from White's perspective. Ties go to the
// first move in search order. NoMove is returned when side cannot move.
func (s *Searcher) Minimax(depth int, side board.Color) (board.Move, int) {
	s.nodes++
	moves := s.orderedMoves(side)
	if len(moves) == 0 {
		return board.NoMove, s.terminalWhite(side, 0)
	}

	best := moves[0]
	bestScore := -Infinity
	if side == board.Black {
		bestScore = Infinity
	}
	for _, m := range moves {
		s.pos.MakeLegalMove(m)
		score := s.minimax(depth-1, 1, side.Other())
		s.pos.UnmakeMove()

		if (side == board.White && score > bestScore) || (side == board.Black && score < bestScore) {
			best, bestScore = m, score
		}
	}
	return best, bestScore
}

// minimax returns the White-perspective value of the node: the maximum
// over children when White moves, the minimum when Black moves.
func (s *Searcher) minimax(depth, ply int, side board.Color) int {
	s.nodes++
	if depth <= 0 {
		return Evaluate(s.pos)
	}

	moves := s.orderedMoves(side)
	if len(moves) == 0 {
		return s.terminalWhite(side, ply)
	}

	if side == board.White {
		best := -Infinity
		for _, m := range moves {
			s.pos.MakeLegalMove(m)
			best = max(best, s.minimax(depth-1, ply+1, board.Black))
			s.pos.UnmakeMove()
		}
		return best
	}

	best := Infinity
	for _, m := range moves {
		s.pos.MakeLegalMove(m)
		best = min(best, s.minimax(depth-1, ply+1, board.White))
		s.pos.UnmakeMove()
	}
	return best
}

// Negamax searches depth plies with negamax alpha-beta and returns the
// best move for side with its score from side's perspective. It chooses
// the same move as Minimax: ties go to the first move in search order.
func (s *Searcher) Negamax(depth int, side board.Color) (board.Move, int) {
	s.nodes++
	moves := s.orderedMoves(side)
	if len(moves) == 0 {
		return board.NoMove, s.terminal(side, 0)
	}

	best := moves[0]
	alpha, beta := -Infinity, Infinity
	for _, m := range moves {
		s.pos.MakeLegalMove(m)
		score := -s.negamax(depth-1, 1, -beta, -alpha, side.Other())
		s.pos.UnmakeMove()

		if score > alpha {
			best, alpha = m, score
		}
	}
	return best, alpha
}

// negamax is a fail-hard alpha-beta search. Scores are from the
// perspective of side; a child's score is negated on the way up and the
// node is cut off once alpha reaches beta.
func (s *Searcher) negamax(depth, ply, alpha, beta int, side board.Color) int {
	s.nodes++
	if depth <= 0 {
		return EvaluateFor(s.pos, side)
	}

	moves := s.orderedMoves(side)
	if len(moves) == 0 {
		return s.terminal(side, ply)
	}

	for _, m := range moves {
		s.pos.MakeLegalMove(m)
		score := -s.negamax(depth-1, ply+1, -beta, -alpha, side.Other())
		s.pos.UnmakeMove()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// terminal scores a node where side has no legal move, from side's
// perspective: checkmate is the worst outcome (sooner is worse), and
// stalemate is a draw.
func (s *Searcher) terminal(side board.Color, ply int) int {
	if s.pos.InCheck(side) {
		return -MateScore + ply
	}
	return 0
}

// terminalWhite is terminal from White's perspective.
func (s *Searcher) terminalWhite(side board.Color, ply int) int {
	if side == board.White {
		return s.terminal(side, ply)
	}
	return -s.terminal(side, ply)
}

// IsMateScore returns true if score encodes a forced mate.
func IsMateScore(score int) bool {
	return abs(score) > MateScore-MaxPly
}
