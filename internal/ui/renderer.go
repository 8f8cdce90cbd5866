package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chesscore/internal/board"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	AttackerColor  color.RGBA
	Background     color.RGBA
	TextColor      color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:     color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare: color.RGBA{247, 247, 105, 180}, // Yellow highlight
		LegalMoveColor: color.RGBA{130, 151, 105, 200}, // Green dots
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
		CheckColor:     color.RGBA{255, 100, 100, 180}, // Red
		AttackerColor:  color.RGBA{255, 60, 60, 230},
		Background:     color.RGBA{40, 44, 52, 255},
		TextColor:      color.RGBA{220, 220, 220, 255},
	}
}

// Renderer handles all drawing operations. Coordinates passed in are
// logical pixels; the renderer applies UIScale.
type Renderer struct {
	sprites    *SpriteManager
	theme      *Theme
	boardSize  int
	squareSize int
	flipped    bool
}

// NewRenderer creates a new renderer.
func NewRenderer(boardSize, squareSize int, sprites *SpriteManager) *Renderer {
	return &Renderer{
		sprites:    sprites,
		theme:      DefaultTheme(),
		boardSize:  boardSize,
		squareSize: squareSize,
	}
}

// SetFlipped puts Black at the bottom of the board.
func (r *Renderer) SetFlipped(flipped bool) {
	r.flipped = flipped
}

// Flipped reports whether Black is at the bottom.
func (r *Renderer) Flipped() bool {
	return r.flipped
}

// sc scales a logical coordinate for drawing.
func sc(v float64) float32 {
	return float32(v * UIScale)
}

func fillRect(dst *ebiten.Image, x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(dst, sc(x), sc(y), sc(w), sc(h), c, false)
}

func strokeRect(dst *ebiten.Image, x, y, w, h, width float64, c color.Color) {
	vector.StrokeRect(dst, sc(x), sc(y), sc(w), sc(h), sc(width), c, false)
}

func fillCircle(dst *ebiten.Image, cx, cy, radius float64, c color.Color) {
	vector.DrawFilledCircle(dst, sc(cx), sc(cy), sc(radius), c, true)
}

func strokeCircle(dst *ebiten.Image, cx, cy, radius, width float64, c color.Color) {
	vector.StrokeCircle(dst, sc(cx), sc(cy), sc(radius), sc(width), c, true)
}

// DrawBoard draws the chess board squares and coordinates.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	size := float64(r.squareSize)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			c := r.theme.LightSquare
			if (row+col)%2 == 1 {
				c = r.theme.DarkSquare
			}
			x, y := r.SquareToScreen(board.Sq(row, col))
			fillRect(screen, float64(x), float64(y), size, size, c)
		}
	}
	r.drawCoordinates(screen)
}

// drawCoordinates draws file letters along the bottom edge and rank
// numbers along the left edge, in the contrasting square color.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	face := faceOfSize(11)
	size := float64(r.squareSize)
	for i := 0; i < 8; i++ {
		// Bottom row, column i on screen.
		sq := r.ScreenToSquare(i*r.squareSize+1, r.boardSize-1)
		c := r.theme.DarkSquare
		if (sq.Row+sq.Col)%2 == 1 {
			c = r.theme.LightSquare
		}
		drawText(screen, string(rune('a'+sq.Col)), face, float64(i)*size+size-10, size*8-15, c)

		// Left column, row i on screen.
		sq = r.ScreenToSquare(1, i*r.squareSize+1)
		c = r.theme.DarkSquare
		if (sq.Row+sq.Col)%2 == 1 {
			c = r.theme.LightSquare
		}
		drawText(screen, string(rune('1'+sq.Rank()-1)), face, 3, float64(i)*size+2, c)
	}
}

// DrawHighlights draws the last move, the selection and the legal
// destinations of the selected piece.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, pos *board.Position, selected board.Square, dests []board.Square, last board.Move) {
	if !last.IsNull() {
		r.highlightSquare(screen, last.From, r.theme.LastMoveColor)
		r.highlightSquare(screen, last.To, r.theme.LastMoveColor)
	}

	if selected != board.NoSquare {
		r.highlightSquare(screen, selected, r.theme.SelectedSquare)
	}

	for _, sq := range dests {
		r.drawLegalMoveIndicator(screen, sq, !pos.IsEmpty(sq))
	}
}

// DrawCheck highlights the checked king and outlines the checking pieces.
func (r *Renderer) DrawCheck(screen *ebiten.Image, king board.Square, attackers []*board.Piece) {
	r.highlightSquare(screen, king, r.theme.CheckColor)
	size := float64(r.squareSize)
	for _, pc := range attackers {
		x, y := r.SquareToScreen(pc.Square())
		strokeRect(screen, float64(x)+2, float64(y)+2, size-4, size-4, 3, r.theme.AttackerColor)
	}
}

// highlightSquare draws a colored overlay on a square.
func (r *Renderer) highlightSquare(screen *ebiten.Image, sq board.Square, c color.RGBA) {
	if !sq.InBounds() {
		return
	}
	x, y := r.SquareToScreen(sq)
	size := float64(r.squareSize)
	fillRect(screen, float64(x), float64(y), size, size, c)
}

// drawLegalMoveIndicator draws a dot on empty targets and a ring on
// captures.
func (r *Renderer) drawLegalMoveIndicator(screen *ebiten.Image, sq board.Square, capture bool) {
	x, y := r.SquareToScreen(sq)
	size := float64(r.squareSize)
	cx := float64(x) + size/2
	cy := float64(y) + size/2

	if capture {
		strokeCircle(screen, cx, cy, size*0.45, size*0.07, r.theme.LegalMoveColor)
		return
	}
	fillCircle(screen, cx, cy, size*0.15, r.theme.LegalMoveColor)
}

// DrawPieces draws all pieces on the board. The piece on skip is left out
// so it can be drawn under the cursor while dragged.
func (r *Renderer) DrawPieces(screen *ebiten.Image, pos *board.Position, skip board.Square, anims *AnimationManager) {
	size := float64(r.squareSize)
	for _, pc := range pos.AllPieces() {
		sq := pc.Square()
		if sq == skip {
			continue
		}
		x, y := r.SquareToScreen(sq)
		fx, fy := float64(x), float64(y)

		if anims != nil {
			dx, dy := anims.ShakeOffset(sq)
			fx += dx
			fy += dy
		}
		r.sprites.Draw(screen, pc.Color, pc.Kind, fx, fy, size)
	}
}

// DrawDraggedPiece draws a piece centred on the mouse position.
func (r *Renderer) DrawDraggedPiece(screen *ebiten.Image, pc *board.Piece, mouseX, mouseY int) {
	if pc == nil {
		return
	}
	size := float64(r.squareSize)
	r.sprites.Draw(screen, pc.Color, pc.Kind, float64(mouseX)-size/2, float64(mouseY)-size/2, size)
}

// SquareToScreen converts a board square to the logical coordinates of
// its top-left corner.
func (r *Renderer) SquareToScreen(sq board.Square) (int, int) {
	col, row := sq.Col, sq.Row
	if r.flipped {
		col, row = 7-col, 7-row
	}
	return col * r.squareSize, row * r.squareSize
}

// ScreenToSquare converts logical coordinates to a board square.
func (r *Renderer) ScreenToSquare(x, y int) board.Square {
	if x < 0 || x >= r.boardSize || y < 0 || y >= r.boardSize {
		return board.NoSquare
	}
	col := x / r.squareSize
	row := y / r.squareSize
	if r.flipped {
		col, row = 7-col, 7-row
	}
	return board.Sq(row, col)
}

// BoardSize returns the board size in pixels.
func (r *Renderer) BoardSize() int {
	return r.boardSize
}

// SquareSize returns the size of one square in pixels.
func (r *Renderer) SquareSize() int {
	return r.squareSize
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}

// Sprites returns the sprite manager.
func (r *Renderer) Sprites() *SpriteManager {
	return r.sprites
}

// pulse returns a value oscillating between 0 and 1 over period seconds.
func pulse(elapsed, period float64) float64 {
	return 0.5 + 0.5*math.Sin(2*math.Pi*elapsed/period)
}
