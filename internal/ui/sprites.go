// Package ui implements the chess game UI using Ebitengine.
package ui

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-logr/logr"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/chesscore/internal/board"
)

// Piece outlines on a 45x45 canvas. %[1]s is the body fill, %[2]s the
// outline and %[3]s the detail color.
var pieceShapes = [6]string{
	board.Pawn: `
<circle cx="22.5" cy="13" r="5.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 17 35 L 19.5 24 L 16.5 21 L 28.5 21 L 25.5 24 L 28 35 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="11" y="35" width="23" height="5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
	board.Knight: `
<path d="M 22 10 C 32.5 11 38.5 18 38 39 L 15 39 C 15 30 25 32.5 23 18 C 21 21 18 23 15 24 C 12 26 10 25 9 22 C 8 19 12 17 14 14 C 16 11 17 9 19 8 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="15" cy="17" r="1.3" fill="%[3]s"/>
<path d="M 24 18 C 26 22 27 26 26 34" fill="none" stroke="%[3]s" stroke-width="1"/>`,
	board.Bishop: `
<rect x="9" y="35" width="27" height="4" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 15 35 C 15 31 17 28 17 28 L 28 28 C 28 28 30 31 30 35 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<ellipse cx="22.5" cy="20" rx="7" ry="9" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="22.5" cy="8.5" r="2.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 20 20 L 25 20 M 22.5 17.5 L 22.5 22.5" fill="none" stroke="%[3]s" stroke-width="1.5"/>`,
	board.Rook: `
<rect x="9" y="36" width="27" height="4" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="12" y="32" width="21" height="4" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="14" y="16" width="17" height="16" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 11 9 L 15 9 L 15 12 L 20 12 L 20 9 L 25 9 L 25 12 L 30 12 L 30 9 L 34 9 L 34 16 L 11 16 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 14 16 L 31 16 M 14 32 L 31 32" fill="none" stroke="%[3]s" stroke-width="1"/>`,
	board.Queen: `
<path d="M 9 26 L 12 13 L 17 24 L 22.5 11 L 28 24 L 33 13 L 36 26 C 33 28 30 29 30 31 L 30 35 L 15 35 L 15 31 C 15 29 12 28 9 26 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="12" cy="12" r="2.2" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="22.5" cy="10" r="2.2" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="33" cy="12" r="2.2" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="11" y="35" width="23" height="4" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 15 31 L 30 31" fill="none" stroke="%[3]s" stroke-width="1"/>`,
	board.King: `
<path d="M 22.5 6 L 22.5 13 M 19.5 9 L 25.5 9" fill="none" stroke="%[2]s" stroke-width="2"/>
<path d="M 12 30 C 8 25 9 18 15 17 C 18 16.5 21 18 22.5 21 C 24 18 27 16.5 30 17 C 36 18 37 25 33 30 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 22.5 14 C 20.5 14 20 16 22.5 21 C 25 16 24.5 14 22.5 14 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="11" y="30" width="23" height="5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="10" y="35" width="25" height="4" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 22.5 21 L 22.5 30" fill="none" stroke="%[3]s" stroke-width="1"/>`,
}

// pieceSVG returns a standalone SVG document for a piece.
func pieceSVG(c board.Color, k board.Kind) string {
	fill, outline, detail := "#ffffff", "#000000", "#000000"
	if c == board.Black {
		fill, detail = "#202020", "#e0e0e0"
	}
	return `<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">` +
		fmt.Sprintf(pieceShapes[k], fill, outline, detail) + `</svg>`
}

// SpriteManager manages piece sprites.
type SpriteManager struct {
	pieces      [2][6]*ebiten.Image
	size        int     // Display size (e.g., 80)
	renderScale float64 // Render at higher resolution for quality (e.g., 3.0)
}

// NewSpriteManager rasterises the piece set at the given display size.
// Pieces that fail to render are logged and drawn as nothing.
func NewSpriteManager(size int, log logr.Logger) *SpriteManager {
	sm := &SpriteManager{
		size:        size,
		renderScale: 3.0, // Render at 3x resolution for sharp scaling
	}
	for _, c := range []board.Color{board.White, board.Black} {
		for k := board.Pawn; k <= board.King; k++ {
			img, err := sm.rasterize(pieceSVG(c, k))
			if err != nil {
				log.Error(err, "piece sprite", "color", c.String(), "kind", k.String())
				continue
			}
			sm.pieces[c][k] = ebiten.NewImageFromImage(img)
		}
	}
	return sm
}

// rasterize renders an SVG document with anti-aliasing.
func (sm *SpriteManager) rasterize(svg string) (*image.RGBA, error) {
	renderSize := int(float64(sm.size) * sm.renderScale)

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg), oksvg.WarnErrorMode)
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

	rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// Draw draws a piece with its top-left corner at logical (x, y), scaled
// to size logical pixels.
func (sm *SpriteManager) Draw(screen *ebiten.Image, c board.Color, k board.Kind, x, y, size float64) {
	if c > board.Black || k > board.King {
		return
	}
	sprite := sm.pieces[c][k]
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	scale := size * UIScale / float64(sprite.Bounds().Dx())
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x*UIScale, y*UIScale)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the display size of piece sprites.
func (sm *SpriteManager) Size() int {
	return sm.size
}
