// Package game orchestrates a single chess game between two humans or a
// human and the engine. It owns the position and enforces turn order;
// the GUI and tests drive it through Play, Undo and the asynchronous
// ThinkAsync/ApplyReply pair.
package game

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	ErrGameOver          = errors.New("game is over")
	ErrNotYourTurn       = errors.New("not the human's turn")
	ErrPromotionRequired = errors.New("promotion piece required")
	ErrStaleReply        = errors.New("engine reply is stale")
)

// Mode selects who controls the two sides.
type Mode int

const (
	HumanVsComputer Mode = iota
	HumanVsHuman
)

// String returns the mode name.
func (m Mode) String() string {
	if m == HumanVsHuman {
		return "human vs human"
	}
	return "human vs computer"
}

// Config describes a new game.
type Config struct {
	Mode       Mode
	HumanColor board.Color
	Engine     engine.Config
	// StartFEN is the initial position; empty means the standard one.
	StartFEN string
	// PlayerName labels the human in archived games.
	PlayerName string
}

// DefaultConfig returns a human (White) vs computer game at depth 3.
func DefaultConfig() Config {
	return Config{
		Mode:       HumanVsComputer,
		HumanColor: board.White,
		Engine:     engine.DefaultConfig(),
		PlayerName: "Player",
	}
}

// Reason explains how a game ended.
type Reason int

const (
	NotOver Reason = iota
	ByCheckmate
	ByStalemate
	ByRepetition
	ByResignation
)

// String returns a short description of the reason.
func (r Reason) String() string {
	switch r {
	case ByCheckmate:
		return "checkmate"
	case ByStalemate:
		return "stalemate"
	case ByRepetition:
		return "threefold repetition"
	case ByResignation:
		return "resignation"
	default:
		return "in progress"
	}
}

// Outcome is the final state of a game. Winner is NoColor for a draw or
// an unfinished game.
type Outcome struct {
	Reason Reason
	Winner board.Color
}

// Result returns the PGN result token.
func (o Outcome) Result() string {
	switch {
	case o.Reason == NotOver:
		return "*"
	case o.Winner == board.White:
		return "1-0"
	case o.Winner == board.Black:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

// String returns a sentence describing the outcome.
func (o Outcome) String() string {
	switch {
	case o.Reason == NotOver:
		return "Game in progress"
	case o.Winner == board.NoColor:
		return "Draw by " + o.Reason.String()
	default:
		return fmt.Sprintf("%s wins by %s", o.Winner, o.Reason)
	}
}

// Reply is an engine search result tagged with the session state it was
// computed for.
type Reply struct {
	engine.SearchResult
	Color      board.Color
	generation uint64
}

// Session is one game. It is not safe for concurrent use; ThinkAsync
// searches a private copy of the position so the owner may keep reading
// the session while the engine runs.
type Session struct {
	cfg Config
	log logr.Logger
	eng *engine.Engine

	pos     *board.Position
	start   board.Color
	side    board.Color
	moves   []string
	sans    []string
	hashes  []uint64
	outcome Outcome
	started time.Time

	// generation changes whenever the position does, invalidating
	// outstanding engine replies.
	generation uint64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger.
func WithLogger(l logr.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithEngine uses eng instead of an engine built from the config.
func WithEngine(eng *engine.Engine) Option {
	return func(s *Session) {
		s.eng = eng
	}
}

// New starts a game.
func New(cfg Config, opts ...Option) (*Session, error) {
	s := &Session{cfg: cfg, log: logr.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithName("game")
	if s.eng == nil {
		s.eng = engine.New(cfg.Engine, engine.WithLogger(s.log))
	}
	if s.cfg.PlayerName == "" {
		s.cfg.PlayerName = "Player"
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset restarts the game from the configured start position.
func (s *Session) Reset() error {
	pos, side := board.NewPosition(), board.White
	if s.cfg.StartFEN != "" {
		var err error
		if pos, side, err = board.ParseFEN(s.cfg.StartFEN); err != nil {
			return err
		}
	}
	s.pos = pos
	s.start = side
	s.side = side
	s.moves = nil
	s.sans = nil
	s.hashes = []uint64{pos.Hash(side)}
	s.outcome = Outcome{Winner: board.NoColor}
	s.started = time.Now()
	s.generation++
	s.updateOutcome()

	s.log.Info("new game", "mode", s.cfg.Mode.String(), "human", s.cfg.HumanColor.String(),
		"depth", s.eng.Config().Depth, "algorithm", s.eng.Config().Algorithm.String())
	return nil
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// SetMode switches between human and computer opponents mid-game.
func (s *Session) SetMode(m Mode) {
	s.cfg.Mode = m
	s.generation++
}

// SetHumanColor changes the side the human plays.
func (s *Session) SetHumanColor(c board.Color) {
	s.cfg.HumanColor = c
	s.generation++
}

// SetEngineConfig replaces the engine settings for later searches.
func (s *Session) SetEngineConfig(cfg engine.Config) {
	s.eng = s.eng.WithConfig(cfg)
	s.cfg.Engine = s.eng.Config()
}

// Engine returns the engine used for computer moves.
func (s *Session) Engine() *engine.Engine {
	return s.eng
}

// Position returns the live position. Callers must not modify it.
func (s *Session) Position() *board.Position {
	return s.pos
}

// Turn returns the side to move.
func (s *Session) Turn() board.Color {
	return s.side
}

// Status returns the rules status of the side to move.
func (s *Session) Status() board.GameStatus {
	return s.pos.Status(s.side)
}

// InCheck reports whether the side to move is in check.
func (s *Session) InCheck() bool {
	return s.pos.InCheck(s.side)
}

// Outcome returns how the game ended, if it has.
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// Result returns the PGN result token.
func (s *Session) Result() string {
	return s.outcome.Result()
}

// IsOver reports whether the game has finished.
func (s *Session) IsOver() bool {
	return s.outcome.Reason != NotOver
}

// IsComputerTurn reports whether the engine should move next.
func (s *Session) IsComputerTurn() bool {
	return s.cfg.Mode == HumanVsComputer && s.side != s.cfg.HumanColor && !s.IsOver()
}

// MoveLog returns the moves played so far in UCI notation.
func (s *Session) MoveLog() []string {
	return s.moves
}

// SANLog returns the moves played so far in SAN.
func (s *Session) SANLog() []string {
	return s.sans
}

// Selectable reports whether the piece on sq may be picked up by the
// player whose turn it is.
func (s *Session) Selectable(sq board.Square) bool {
	if s.IsOver() || s.IsComputerTurn() {
		return false
	}
	pc := s.pos.PieceAt(sq)
	return pc != nil && pc.Color == s.side && len(s.Destinations(sq)) > 0
}

// Destinations returns the legal target squares of the piece on sq, or
// nil if it does not belong to the side to move.
func (s *Session) Destinations(sq board.Square) []board.Square {
	pc := s.pos.PieceAt(sq)
	if pc == nil || pc.Color != s.side {
		return nil
	}
	return s.pos.LegalMoves(s.side)[pc]
}

// NeedsPromotion reports whether moving from one square to another is a
// legal promotion that needs a piece choice.
func (s *Session) NeedsPromotion(from, to board.Square) bool {
	m, ok := s.pos.FindLegalMove(s.side, from, to)
	return ok && m.IsPromotion()
}

// Play makes a human move. A promotion requires an explicit choice.
func (s *Session) Play(from, to board.Square, promo board.Kind) (board.Move, error) {
	if s.IsOver() {
		return board.NoMove, ErrGameOver
	}
	if s.IsComputerTurn() {
		return board.NoMove, ErrNotYourTurn
	}
	m, ok := s.pos.FindLegalMove(s.side, from, to)
	if !ok {
		return board.NoMove, fmt.Errorf("%w: %s%s", board.ErrIllegalMove, from, to)
	}
	if m.IsPromotion() && promo == board.NoKind {
		return board.NoMove, ErrPromotionRequired
	}
	return s.commit(m, promo)
}

// commit applies a legal move and updates logs, hashes and outcome.
func (s *Session) commit(m board.Move, promo board.Kind) (board.Move, error) {
	san := s.pos.SAN(m, promo)
	applied, err := s.pos.MakeMove(m, promo)
	if err != nil {
		return board.NoMove, err
	}
	s.log.V(1).Info("move", "color", s.side.String(), "uci", applied.String(), "san", san)

	s.moves = append(s.moves, applied.String())
	s.sans = append(s.sans, san)
	s.side = s.side.Other()
	s.hashes = append(s.hashes, s.pos.Hash(s.side))
	s.generation++
	s.updateOutcome()
	return applied, nil
}

func (s *Session) updateOutcome() {
	switch s.pos.Status(s.side) {
	case board.Checkmate:
		s.outcome = Outcome{Reason: ByCheckmate, Winner: s.side.Other()}
	case board.Stalemate:
		s.outcome = Outcome{Reason: ByStalemate, Winner: board.NoColor}
	default:
		if s.Repetitions() >= 3 {
			s.outcome = Outcome{Reason: ByRepetition, Winner: board.NoColor}
		} else {
			s.outcome = Outcome{Winner: board.NoColor}
		}
	}
	if s.IsOver() {
		s.log.Info("game over", "result", s.outcome.Result(), "reason", s.outcome.Reason.String(),
			"plies", len(s.moves))
	}
}

// Repetitions returns how many times the current position has occurred.
func (s *Session) Repetitions() int {
	cur := s.hashes[len(s.hashes)-1]
	n := 0
	for _, h := range s.hashes {
		if h == cur {
			n++
		}
	}
	return n
}

// Undo takes back the last move. Against the computer it keeps undoing
// until it is the human's turn again. It returns false if there was
// nothing to undo.
func (s *Session) Undo() bool {
	if len(s.moves) == 0 {
		return false
	}
	s.undoOne()
	if s.cfg.Mode == HumanVsComputer {
		for len(s.moves) > 0 && s.side != s.cfg.HumanColor {
			s.undoOne()
		}
	}
	s.generation++
	s.updateOutcome()
	return true
}

func (s *Session) undoOne() {
	s.pos.UnmakeMove()
	s.moves = s.moves[:len(s.moves)-1]
	s.sans = s.sans[:len(s.sans)-1]
	s.hashes = s.hashes[:len(s.hashes)-1]
	s.side = s.side.Other()
}

// Resign ends the game with c losing.
func (s *Session) Resign(c board.Color) error {
	if s.IsOver() {
		return ErrGameOver
	}
	s.outcome = Outcome{Reason: ByResignation, Winner: c.Other()}
	s.generation++
	s.log.Info("resigned", "color", c.String())
	return nil
}

// ThinkAsync searches the current position for the side to move in a
// background goroutine. The channel receives exactly one reply.
func (s *Session) ThinkAsync() <-chan Reply {
	ch := make(chan Reply, 1)
	pos := s.pos.Clone()
	color := s.side
	gen := s.generation
	eng := s.eng

	s.log.V(1).Info("thinking", "color", color.String(), "depth", eng.Config().Depth)
	go func() {
		res := eng.Search(pos, color)
		ch <- Reply{SearchResult: res, Color: color, generation: gen}
	}()
	return ch
}

// ApplyReply plays the engine's move. Replies computed for an earlier
// state of the game are rejected with ErrStaleReply. The computer always
// promotes to a queen.
func (s *Session) ApplyReply(r Reply) (board.Move, error) {
	if r.generation != s.generation || r.Color != s.side {
		return board.NoMove, ErrStaleReply
	}
	if s.IsOver() || r.Move.IsNull() {
		return board.NoMove, ErrGameOver
	}
	// The reply's pieces belong to the searched copy.
	m, ok := s.pos.FindLegalMove(s.side, r.Move.From, r.Move.To)
	if !ok {
		return board.NoMove, fmt.Errorf("%w: engine move %s", board.ErrIllegalMove, r.Move)
	}
	return s.commit(m, board.NoKind)
}

// PlayComputer searches and plays the engine move synchronously.
func (s *Session) PlayComputer() (board.Move, error) {
	return s.ApplyReply(<-s.ThinkAsync())
}

// Duration returns the time since the game started.
func (s *Session) Duration() time.Duration {
	return time.Since(s.started)
}

// Record returns the game in archive form. IDs sort by start time.
func (s *Session) Record() *storage.GameRecord {
	white, black := s.playerNames()
	rec := &storage.GameRecord{
		ID:         fmt.Sprintf("%019d", s.started.UnixNano()),
		StartedAt:  s.started,
		FinishedAt: time.Now(),
		White:      white,
		Black:      black,
		FEN:        s.cfg.StartFEN,
		Moves:      append([]string(nil), s.moves...),
		Result:     s.Result(),
	}
	return rec
}

func (s *Session) playerNames() (white, black string) {
	if s.cfg.Mode == HumanVsHuman {
		return "White", "Black"
	}
	cfg := s.eng.Config()
	computer := "chesscore " + cfg.Algorithm.String() + " d" + strconv.Itoa(cfg.Depth)
	if s.cfg.HumanColor == board.White {
		return s.cfg.PlayerName, computer
	}
	return computer, s.cfg.PlayerName
}

// StatsResult summarises a finished game from the human's point of view.
// In human vs human games a win is credited to White.
func (s *Session) StatsResult() storage.GameResult {
	human := s.cfg.HumanColor
	if s.cfg.Mode == HumanVsHuman {
		human = board.White
	}
	res := storage.GameResult{
		Draw:     s.IsOver() && s.outcome.Winner == board.NoColor,
		Won:      s.outcome.Winner == human,
		Depth:    s.eng.Config().Depth,
		Duration: s.Duration(),
		Mode:     storage.ModeHumanVsComputer,
	}
	if s.cfg.Mode == HumanVsHuman {
		res.Mode = storage.ModeHumanVsHuman
	}
	return res
}
