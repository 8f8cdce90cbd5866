package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/board"
)

// DefaultDepth is the search depth in plies when none is configured.
const DefaultDepth = 3

// Algorithm selects the search formulation.
type Algorithm int

const (
	Negamax Algorithm = iota // negamax with alpha-beta pruning
	Minimax                  // plain minimax, for validation
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case Minimax:
		return "minimax"
	default:
		return "negamax"
	}
}

// ParseAlgorithm parses an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "negamax", "alphabeta", "alpha-beta":
		return Negamax, nil
	case "minimax":
		return Minimax, nil
	}
	return Negamax, fmt.Errorf("unknown search algorithm %q", s)
}

// Config holds the engine settings.
type Config struct {
	Depth     int
	Algorithm Algorithm
}

// DefaultConfig returns a depth 3 negamax configuration.
func DefaultConfig() Config {
	return Config{Depth: DefaultDepth, Algorithm: Negamax}
}

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth     int
	Score     int
	Nodes     uint64
	Time      time.Duration
	Move      board.Move
	Algorithm Algorithm
}

// SearchResult is the outcome of a search. Score is from the perspective
// of the side that was searched. Move is NoMove when that side had no
// legal move; Status then tells checkmate from stalemate.
type SearchResult struct {
	Move   board.Move
	Score  int
	Nodes  uint64
	Depth  int
	Time   time.Duration
	Status board.GameStatus
}

// Engine is the chess AI engine. An Engine's configuration is fixed; use
// WithConfig to derive one with other settings.
type Engine struct {
	cfg Config
	log logr.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l logr.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates a new chess engine.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, log: logr.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.Depth <= 0 {
		e.cfg.Depth = DefaultDepth
	}
	e.log = e.log.WithName("engine")
	return e
}

// Config returns the engine settings.
func (e *Engine) Config() Config {
	return e.cfg
}

// WithConfig returns a copy of the engine using cfg.
func (e *Engine) WithConfig(cfg Config) *Engine {
	ne := *e
	ne.cfg = cfg
	if ne.cfg.Depth <= 0 {
		ne.cfg.Depth = DefaultDepth
	}
	return &ne
}

// BestMove returns the best move for color at the given depth, or false
// if color has no legal move.
func (e *Engine) BestMove(pos *board.Position, color board.Color, depth int) (board.Move, bool) {
	res := e.SearchDepth(pos, color, depth)
	return res.Move, !res.Move.IsNull()
}

// Search finds the best move for color at the configured depth.
func (e *Engine) Search(pos *board.Position, color board.Color) SearchResult {
	return e.SearchDepth(pos, color, e.cfg.Depth)
}

// SearchDepth runs one fixed-depth search. pos is used as scratch space
// and restored before returning; it must not be shared with another
// goroutine while the search runs.
func (e *Engine) SearchDepth(pos *board.Position, color board.Color, depth int) SearchResult {
	if depth <= 0 {
		depth = e.cfg.Depth
	}
	start := time.Now()
	s := NewSearcher(pos)

	var res SearchResult
	switch e.cfg.Algorithm {
	case Minimax:
		m, score := s.Minimax(depth, color)
		if color == board.Black {
			score = -score
		}
		res.Move, res.Score = m, score
	default:
		res.Move, res.Score = s.Negamax(depth, color)
	}
	res.Nodes = s.Nodes()
	res.Depth = depth
	res.Time = time.Since(start)
	if res.Move.IsNull() {
		res.Status = pos.Status(color)
	}

	e.log.V(1).Info("search finished",
		"algorithm", e.cfg.Algorithm.String(),
		"color", color.String(),
		"depth", depth,
		"move", res.Move.String(),
		"score", ScoreString(res.Score),
		"nodes", res.Nodes,
		"elapsed", res.Time)

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth:     depth,
			Score:     res.Score,
			Nodes:     res.Nodes,
			Time:      res.Time,
			Move:      res.Move,
			Algorithm: e.cfg.Algorithm,
		})
	}
	return res
}

// Evaluate returns the static evaluation of a position from White's side.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// Perft counts the leaf nodes of the legal move tree of the given depth,
// with color to move at the root.
func Perft(pos *board.Position, color board.Color, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.LegalMoveList(color)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		pos.MakeLegalMove(m)
		nodes += Perft(pos, color.Other(), depth-1)
		pos.UnmakeMove()
	}
	return nodes
}

// Divide returns the perft count below each root move, keyed by the
// move in UCI notation.
func Divide(pos *board.Position, color board.Color, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth <= 0 {
		return out
	}
	for _, m := range pos.LegalMoveList(color) {
		pos.MakeLegalMove(m)
		out[m.String()] = Perft(pos, color.Other(), depth-1)
		pos.UnmakeMove()
	}
	return out
}

// ScoreString converts a score to a human-readable string.
func ScoreString(score int) string {
	if IsMateScore(score) {
		plies := MateScore - abs(score)
		moves := (plies + 1) / 2
		if score > 0 {
			return fmt.Sprintf("Mate in %d", moves)
		}
		return fmt.Sprintf("Mated in %d", moves)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}

// UCIScore formats a score for a UCI info line ("cp 35", "mate -2").
func UCIScore(score int) string {
	if IsMateScore(score) {
		moves := (MateScore - abs(score) + 1) / 2
		if score < 0 {
			moves = -moves
		}
		return fmt.Sprintf("mate %d", moves)
	}
	return fmt.Sprintf("cp %d", score)
}
