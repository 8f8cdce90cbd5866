package ui

import (
	"errors"
	"time"

	"github.com/go-logr/logr"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640 // Match board height to eliminate unused space
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize

	minDepth = 1
	maxDepth = 5
)

// UIScale is the global HiDPI scale factor for all UI drawing.
// Set by Game.Layout() and used by the drawing helpers and input.
var UIScale float64 = 1.0

// Game implements ebiten.Game interface.
type Game struct {
	session *game.Session
	log     logr.Logger

	// Storage, nil when running without persistence
	store *storage.Storage
	prefs *storage.UserPreferences

	// UI state
	selected  board.Square
	dests     []board.Square
	dragging  bool
	dragPiece *board.Piece
	lastMove  board.Move

	// Components
	renderer *Renderer
	input    *InputHandler
	panel    *Panel
	feedback *FeedbackManager
	picker   *PromotionPicker

	// AI engine
	thinking   <-chan game.Reply
	thinkStart time.Time
	eval       int
	hasEval    bool

	// Set once the finished game has been counted in the statistics.
	statsRecorded bool

	// HiDPI scaling
	scale float64
}

// GameOption configures a Game.
type GameOption func(*Game)

// WithStorage persists preferences, statistics and finished games.
func WithStorage(store *storage.Storage, prefs *storage.UserPreferences) GameOption {
	return func(g *Game) {
		g.store = store
		g.prefs = prefs
	}
}

// WithLogger sets the UI logger.
func WithLogger(l logr.Logger) GameOption {
	return func(g *Game) {
		g.log = l
	}
}

// NewGame creates the chess UI for a session.
func NewGame(session *game.Session, opts ...GameOption) (*Game, error) {
	g := &Game{
		session:  session,
		log:      logr.Discard(),
		selected: board.NoSquare,
		input:    NewInputHandler(),
		scale:    1,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.WithName("ui")
	if g.prefs == nil {
		g.prefs = storage.DefaultPreferences()
	}

	if err := loadFonts(); err != nil {
		return nil, err
	}
	g.renderer = NewRenderer(BoardSize, SquareSize, NewSpriteManager(SquareSize, g.log))
	g.feedback = NewFeedbackManager(g.prefs.SoundEnabled)
	g.picker = NewPromotionPicker(g.promote, g.clearSelection)
	g.panel = NewPanel(g)
	g.updateOrientation()
	return g, nil
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update()
	g.feedback.Update()

	// The promotion picker is modal.
	if g.picker.IsVisible() {
		g.picker.Update(g.input)
		g.updateCursor()
		return nil
	}

	if g.panel.HandleInput(g.input) {
		g.updateCursor()
		return nil
	}

	switch {
	case g.input.KeyJustPressed(ebiten.KeyU):
		g.UndoAction()
	case g.input.KeyJustPressed(ebiten.KeyN):
		g.NewGameAction()
	}

	g.handleBoardInput()
	g.checkAIMove()
	g.startAIThinking()
	g.updateCursor()
	return nil
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	if g.panel.AnyButtonHovered() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	pos := g.session.Position()
	screen.Fill(g.renderer.Theme().Background)

	g.renderer.DrawBoard(screen)
	g.renderer.DrawHighlights(screen, pos, g.selected, g.dests, g.lastMove)

	if turn := g.session.Turn(); g.session.InCheck() {
		if king := pos.King(turn); king != nil {
			g.renderer.DrawCheck(screen, king.Square(), pos.AttackersOf(king.Square(), turn.Other()))
		}
	}

	skip := board.NoSquare
	if g.dragging {
		skip = g.selected
	}
	g.renderer.DrawPieces(screen, pos, skip, g.feedback.Animations())
	if g.dragging && g.dragPiece != nil {
		mx, my := g.input.MousePosition()
		g.renderer.DrawDraggedPiece(screen, g.dragPiece, mx, my)
	}

	g.feedback.Draw(screen, g.renderer)
	g.panel.Draw(screen, g.renderer)
	g.picker.Draw(screen, g.renderer)
}

// Layout returns the game's screen dimensions.
// Uses device scale factor for crisp rendering on HiDPI displays.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	// Get and store device scale factor (2.0 on Retina, 1.0 on standard displays)
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0
	}
	UIScale = g.scale
	return int(float64(ScreenWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
}

// humanToMove reports whether board input should be accepted.
func (g *Game) humanToMove() bool {
	return !g.session.IsOver() && !g.session.IsComputerTurn() && g.thinking == nil
}

// handleBoardInput processes mouse interactions with the board.
func (g *Game) handleBoardInput() {
	if !g.humanToMove() {
		return
	}

	mx, my := g.input.MousePosition()
	if mx >= BoardSize || my >= BoardSize {
		if g.dragging && g.input.IsLeftJustReleased() {
			g.dragging = false
		}
		return
	}

	if g.input.IsLeftJustPressed() {
		sq := g.renderer.ScreenToSquare(mx, my)
		if sq == board.NoSquare {
			return
		}

		// Clicking one of our own pieces selects it and starts a drag.
		if g.session.Selectable(sq) {
			g.selectSquare(sq)
			g.dragging = true
			g.dragPiece = g.session.Position().PieceAt(sq)
			return
		}

		if g.selected != board.NoSquare {
			g.tryMove(g.selected, sq)
			return
		}
		g.clearSelection()
	}

	if g.dragging && g.input.IsLeftJustReleased() {
		g.dragging = false
		sq := g.renderer.ScreenToSquare(mx, my)
		if sq != board.NoSquare && sq != g.selected {
			g.tryMove(g.selected, sq)
		}
	}
}

// selectSquare selects a square and collects its legal destinations.
func (g *Game) selectSquare(sq board.Square) {
	g.selected = sq
	g.dests = g.session.Destinations(sq)
}

// clearSelection clears the current selection.
func (g *Game) clearSelection() {
	g.selected = board.NoSquare
	g.dests = nil
	g.dragging = false
	g.dragPiece = nil
}

// tryMove plays from->to if it is legal, asking for the promotion piece
// first when needed.
func (g *Game) tryMove(from, to board.Square) {
	if !slices.Contains(g.dests, to) {
		g.feedback.OnInvalidMove(from, to, invalidMoveReason(g.session.Position(), from, to))
		g.clearSelection()
		return
	}
	if g.session.NeedsPromotion(from, to) {
		g.dragging = false
		g.picker.Show(g.session.Turn(), from, to)
		return
	}
	g.playHuman(from, to, board.NoKind)
}

// promote is called by the promotion picker.
func (g *Game) promote(from, to board.Square, k board.Kind) {
	g.playHuman(from, to, k)
}

func (g *Game) playHuman(from, to board.Square, promo board.Kind) {
	g.clearSelection()
	m, err := g.session.Play(from, to, promo)
	if err != nil {
		g.log.Error(err, "move rejected", "from", from.String(), "to", to.String())
		g.feedback.OnError(err.Error())
		return
	}
	g.afterMove(m)
}

// afterMove updates the UI once a move has been committed.
func (g *Game) afterMove(m board.Move) {
	g.lastMove = m
	g.feedback.OnMoveMade(m)
	if g.session.IsOver() {
		g.finishGame()
		return
	}
	if g.session.InCheck() {
		g.feedback.OnCheck()
	}
}

// startAIThinking starts the engine when it is the computer's turn.
func (g *Game) startAIThinking() {
	if g.thinking != nil || g.picker.IsVisible() || !g.session.IsComputerTurn() {
		return
	}
	g.thinking = g.session.ThinkAsync()
	g.thinkStart = time.Now()
}

// checkAIMove applies the engine reply once it arrives.
func (g *Game) checkAIMove() {
	if g.thinking == nil {
		return
	}

	select {
	case reply := <-g.thinking:
		g.thinking = nil
		m, err := g.session.ApplyReply(reply)
		switch {
		case errors.Is(err, game.ErrStaleReply):
			g.log.V(1).Info("discarding stale engine reply", "move", reply.Move.String())
			return
		case err != nil:
			g.log.Error(err, "engine move failed")
			g.feedback.OnError(err.Error())
			return
		}
		g.eval = reply.Score
		if reply.Color == board.Black {
			g.eval = -g.eval
		}
		g.hasEval = true
		g.log.V(1).Info("engine move", "move", m.String(), "score", engine.ScoreString(reply.Score),
			"nodes", reply.Nodes, "time", reply.Time.String())
		g.afterMove(m)
	default:
		// Still thinking
	}
}

// finishGame announces the result and archives the game. Statistics are
// counted once per game even if an undo reopens it.
func (g *Game) finishGame() {
	g.feedback.OnGameOver(g.session.Outcome())
	if g.store == nil {
		return
	}
	if err := g.store.SaveGame(g.session.Record()); err != nil {
		g.log.Error(err, "failed to archive game")
	}
	if g.statsRecorded {
		return
	}
	g.statsRecorded = true
	if err := g.store.RecordGame(g.session.StatsResult()); err != nil {
		g.log.Error(err, "failed to record statistics")
	}
}

// NewGameAction resets the game to the starting position.
func (g *Game) NewGameAction() {
	if err := g.session.Reset(); err != nil {
		g.feedback.OnError(err.Error())
		return
	}
	g.thinking = nil
	g.hasEval = false
	g.statsRecorded = false
	g.lastMove = board.NoMove
	g.clearSelection()
	g.updateOrientation()
}

// UndoAction takes back the last move, or the last full turn against the
// computer.
func (g *Game) UndoAction() {
	g.thinking = nil
	g.clearSelection()
	if !g.session.Undo() {
		g.feedback.OnInfo("Nothing to undo")
		return
	}
	g.lastMove = g.session.Position().LastMove()
}

// SetMode switches between human and computer opponents.
func (g *Game) SetMode(m game.Mode) {
	if g.session.Config().Mode == m {
		return
	}
	g.session.SetMode(m)
	g.thinking = nil
	g.clearSelection()
	g.updateOrientation()
	g.savePreferences()
}

// SetHumanColor sets which side the human plays against the computer.
func (g *Game) SetHumanColor(c board.Color) {
	if g.session.Config().HumanColor == c {
		return
	}
	g.session.SetHumanColor(c)
	g.thinking = nil
	g.clearSelection()
	g.updateOrientation()
	g.savePreferences()
}

// ChangeDepth adjusts the search depth by delta within the supported range.
func (g *Game) ChangeDepth(delta int) {
	cfg := g.session.Engine().Config()
	depth := max(minDepth, min(maxDepth, cfg.Depth+delta))
	if depth == cfg.Depth {
		return
	}
	cfg.Depth = depth
	g.session.SetEngineConfig(cfg)
	g.savePreferences()
}

// SetAlgorithm selects the search algorithm.
func (g *Game) SetAlgorithm(a engine.Algorithm) {
	cfg := g.session.Engine().Config()
	if cfg.Algorithm == a {
		return
	}
	cfg.Algorithm = a
	g.session.SetEngineConfig(cfg)
	g.savePreferences()
}

// ToggleSound turns sound effects on or off.
func (g *Game) ToggleSound() {
	audio := g.feedback.Audio()
	audio.SetEnabled(!audio.IsEnabled())
	g.savePreferences()
}

// updateOrientation keeps the human's pieces at the bottom.
func (g *Game) updateOrientation() {
	cfg := g.session.Config()
	g.renderer.SetFlipped(cfg.Mode == game.HumanVsComputer && cfg.HumanColor == board.Black)
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	cfg := g.session.Config()
	g.prefs.SearchDepth = cfg.Engine.Depth
	g.prefs.Algorithm = cfg.Engine.Algorithm.String()
	g.prefs.GameMode = storage.ModeHumanVsComputer
	if cfg.Mode == game.HumanVsHuman {
		g.prefs.GameMode = storage.ModeHumanVsHuman
	}
	g.prefs.PlayerColor = storage.ColorWhite
	if cfg.HumanColor == board.Black {
		g.prefs.PlayerColor = storage.ColorBlack
	}
	g.prefs.SoundEnabled = g.feedback.Audio().IsEnabled()
	g.prefs.LastPlayed = time.Now()

	if g.store == nil {
		return
	}
	if err := g.store.SavePreferences(g.prefs); err != nil {
		g.log.Error(err, "failed to save preferences")
	}
}

// Session returns the game being played.
func (g *Game) Session() *game.Session {
	return g.session
}

// IsAIThinking returns true if the AI is currently thinking.
func (g *Game) IsAIThinking() bool {
	return g.thinking != nil
}

// LastEval returns the latest engine score from White's point of view.
func (g *Game) LastEval() (int, bool) {
	return g.eval, g.hasEval
}

// Username returns the current username.
func (g *Game) Username() string {
	return g.session.Config().PlayerName
}

// Close cleans up game resources.
func (g *Game) Close() error {
	if g.store == nil {
		return nil
	}
	return g.store.Close()
}
