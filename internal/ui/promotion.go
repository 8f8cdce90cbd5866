package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/chesscore/internal/board"
)

var promotionChoices = []board.Kind{board.Queen, board.Rook, board.Bishop, board.Knight}

// PromotionPicker is a modal strip of promotion choices shown over the
// board when a human pawn reaches the last rank.
type PromotionPicker struct {
	visible  bool
	color    board.Color
	from, to board.Square
	hovered  int

	onPick   func(from, to board.Square, k board.Kind)
	onCancel func()
}

// NewPromotionPicker creates a hidden picker.
func NewPromotionPicker(onPick func(from, to board.Square, k board.Kind), onCancel func()) *PromotionPicker {
	return &PromotionPicker{hovered: -1, onPick: onPick, onCancel: onCancel}
}

// Show opens the picker for a pawn of color c moving from one square to
// another.
func (pp *PromotionPicker) Show(c board.Color, from, to board.Square) {
	pp.visible = true
	pp.color = c
	pp.from, pp.to = from, to
	pp.hovered = -1
}

// IsVisible reports whether the picker is open.
func (pp *PromotionPicker) IsVisible() bool {
	return pp.visible
}

// layout returns the logical rectangle of choice i.
func (pp *PromotionPicker) layout(i int) (x, y, size int) {
	size = SquareSize
	total := size * len(promotionChoices)
	x = (BoardSize-total)/2 + i*size
	y = (BoardSize - size) / 2
	return x, y, size
}

// Update handles input while the picker is open. It always consumes the
// input.
func (pp *PromotionPicker) Update(input *InputHandler) {
	pp.hovered = -1
	for i := range promotionChoices {
		x, y, size := pp.layout(i)
		if input.IsInBounds(x, y, size, size) {
			pp.hovered = i
		}
	}

	if input.KeyJustPressed(ebiten.KeyEscape) {
		pp.cancel()
		return
	}
	if !input.IsLeftJustPressed() {
		return
	}
	if pp.hovered < 0 {
		pp.cancel()
		return
	}
	pp.visible = false
	pp.onPick(pp.from, pp.to, promotionChoices[pp.hovered])
}

func (pp *PromotionPicker) cancel() {
	pp.visible = false
	if pp.onCancel != nil {
		pp.onCancel()
	}
}

// Draw renders the picker over a dimmed board.
func (pp *PromotionPicker) Draw(screen *ebiten.Image, r *Renderer) {
	if !pp.visible {
		return
	}
	fillRect(screen, 0, 0, BoardSize, BoardSize, color.RGBA{0, 0, 0, 140})

	_, y0, size := pp.layout(0)
	drawTextCentered(screen, "Promote to", boldFace(), float64(BoardSize)/2, float64(y0)-22, textPrimary)

	for i, k := range promotionChoices {
		x, y, _ := pp.layout(i)
		bg := sectionBg
		if i == pp.hovered {
			bg = accentColor
		}
		fillRect(screen, float64(x), float64(y), float64(size), float64(size), bg)
		strokeRect(screen, float64(x), float64(y), float64(size), float64(size), 1, buttonBorder)
		r.Sprites().Draw(screen, pp.color, k, float64(x), float64(y), float64(size))
	}
}
