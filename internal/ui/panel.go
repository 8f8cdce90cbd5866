package ui

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
)

// Panel dimensions
const (
	PanelPadding   = 20
	SectionSpacing = 24
	ButtonHeight   = 40
	TabHeight      = 30
	SectionLabelH  = 20
	StatusBarH     = 70
	CapturedRowH   = 22
)

// Panel colors
var (
	panelBg         = color.RGBA{38, 40, 45, 255}
	sectionBg       = color.RGBA{48, 52, 58, 255}
	tabActiveBg     = color.RGBA{76, 132, 96, 255}
	tabInactiveBg   = color.RGBA{50, 54, 60, 255}
	tabHoverBg      = color.RGBA{65, 70, 78, 255}
	buttonBg        = color.RGBA{50, 54, 60, 255}
	buttonHoverBg   = color.RGBA{65, 70, 78, 255}
	buttonPressedBg = color.RGBA{40, 44, 50, 255}
	buttonBorder    = color.RGBA{70, 75, 82, 255}
	accentColor     = color.RGBA{76, 175, 120, 255}
	accentHover     = color.RGBA{96, 195, 140, 255}
	accentPressed   = color.RGBA{56, 155, 100, 255}
	textPrimary     = color.RGBA{240, 240, 245, 255}
	textSecondary   = color.RGBA{160, 165, 175, 255}
	textMuted       = color.RGBA{120, 125, 135, 255}
	dividerColor    = color.RGBA{60, 65, 72, 255}
	moveRowAlt      = color.RGBA{44, 48, 54, 255}
	statusThinking  = color.RGBA{100, 180, 255, 255}
	statusGameOver  = color.RGBA{255, 200, 80, 255}
)

// buttonStyle selects how a button is drawn.
type buttonStyle int

const (
	stylePrimary buttonStyle = iota
	styleSecondary
	styleTab
)

// Button represents a clickable UI element.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	style      buttonStyle
	// active marks the selected tab of a group.
	active func() bool
	// visible hides the button when it returns false.
	visible func() bool

	hovered bool
	pressed bool
}

func (b *Button) isVisible() bool {
	return b.visible == nil || b.visible()
}

func (b *Button) isActive() bool {
	return b.active != nil && b.active()
}

// Panel is the side panel with controls, move history, captured pieces
// and game status.
type Panel struct {
	game    *Game
	buttons []*Button

	// y of the engine section and the move list
	engineY  int
	historyY int

	scrollY    int
	maxScrollY int
}

// NewPanel creates a new panel for the given game.
func NewPanel(g *Game) *Panel {
	p := &Panel{game: g}
	p.createButtons()
	return p
}

// createButtons lays out all panel buttons.
func (p *Panel) createButtons() {
	g := p.game
	x := BoardSize + PanelPadding
	w := PanelWidth - PanelPadding*2
	vsComputer := func() bool { return g.Session().Config().Mode == game.HumanVsComputer }

	y := PanelPadding
	newW := w * 2 / 3
	p.buttons = []*Button{
		{X: x, Y: y, W: newW - 6, H: ButtonHeight, Label: "New Game", OnClick: g.NewGameAction, style: stylePrimary},
		{X: x + newW, Y: y, W: w - newW, H: ButtonHeight, Label: "Undo", OnClick: g.UndoAction, style: styleSecondary},
	}

	// Mode tabs
	y += ButtonHeight + SectionSpacing + SectionLabelH
	half := w / 2
	p.buttons = append(p.buttons,
		&Button{X: x, Y: y, W: half, H: TabHeight, Label: "vs Human", style: styleTab,
			OnClick: func() { g.SetMode(game.HumanVsHuman) },
			active:  func() bool { return !vsComputer() }},
		&Button{X: x + half, Y: y, W: w - half, H: TabHeight, Label: "vs Computer", style: styleTab,
			OnClick: func() { g.SetMode(game.HumanVsComputer) },
			active:  vsComputer},
	)

	// Side tabs, engine depth and algorithm (vs Computer only)
	y += TabHeight + SectionSpacing + SectionLabelH
	humanIs := func(c board.Color) func() bool {
		return func() bool { return g.Session().Config().HumanColor == c }
	}
	p.buttons = append(p.buttons,
		&Button{X: x, Y: y, W: half, H: TabHeight, Label: "White", style: styleTab, visible: vsComputer,
			OnClick: func() { g.SetHumanColor(board.White) }, active: humanIs(board.White)},
		&Button{X: x + half, Y: y, W: w - half, H: TabHeight, Label: "Black", style: styleTab, visible: vsComputer,
			OnClick: func() { g.SetHumanColor(board.Black) }, active: humanIs(board.Black)},
	)

	y += TabHeight + SectionSpacing + SectionLabelH
	p.engineY = y
	algIs := func(a engine.Algorithm) func() bool {
		return func() bool { return g.Session().Engine().Config().Algorithm == a }
	}
	p.buttons = append(p.buttons,
		&Button{X: x, Y: y, W: TabHeight, H: TabHeight, Label: "-", style: styleSecondary, visible: vsComputer,
			OnClick: func() { g.ChangeDepth(-1) }},
		&Button{X: x + w - TabHeight, Y: y, W: TabHeight, H: TabHeight, Label: "+", style: styleSecondary, visible: vsComputer,
			OnClick: func() { g.ChangeDepth(+1) }},
	)
	y += TabHeight + 6
	p.buttons = append(p.buttons,
		&Button{X: x, Y: y, W: half, H: TabHeight, Label: "Negamax", style: styleTab, visible: vsComputer,
			OnClick: func() { g.SetAlgorithm(engine.Negamax) }, active: algIs(engine.Negamax)},
		&Button{X: x + half, Y: y, W: w - half, H: TabHeight, Label: "Minimax", style: styleTab, visible: vsComputer,
			OnClick: func() { g.SetAlgorithm(engine.Minimax) }, active: algIs(engine.Minimax)},
	)
	p.historyY = y + TabHeight + SectionSpacing - 4

	// Sound toggle in the status bar
	p.buttons = append(p.buttons,
		&Button{X: BoardSize + PanelWidth - PanelPadding - 60, Y: ScreenHeight - StatusBarH + 2, W: 60, H: 22,
			Label: "Sound", style: styleTab, OnClick: g.ToggleSound,
			active: func() bool { return g.feedback.Audio().IsEnabled() }},
	)
}

// getHistoryStartY returns where the move list section begins.
func (p *Panel) getHistoryStartY() int {
	if p.game.Session().Config().Mode == game.HumanVsComputer {
		return p.historyY
	}
	// Directly below the mode tabs.
	return p.buttons[3].Y + TabHeight + SectionSpacing - 4
}

// HandleInput processes input for the panel. Returns true if input was handled.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()

	// Scroll wheel over the move list
	if wheel := input.WheelY(); wheel != 0 && mx >= BoardSize && my >= p.getHistoryStartY() {
		p.scrollY -= int(wheel * 30)
		p.scrollY = max(0, min(p.scrollY, p.maxScrollY))
	}

	var clicked *Button
	for _, btn := range p.buttons {
		btn.hovered = btn.isVisible() && input.IsInBounds(btn.X, btn.Y, btn.W, btn.H)
		btn.pressed = btn.hovered && input.IsLeftPressed()
		if btn.hovered && input.IsLeftJustPressed() {
			clicked = btn
		}
	}
	if clicked != nil {
		clicked.OnClick()
		return true
	}
	return false
}

// AnyButtonHovered returns true if any button in the panel is hovered.
func (p *Panel) AnyButtonHovered() bool {
	for _, btn := range p.buttons {
		if btn.hovered {
			return true
		}
	}
	return false
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image, r *Renderer) {
	g := p.game
	x := float64(BoardSize + PanelPadding)
	fillRect(screen, BoardSize, 0, PanelWidth, ScreenHeight, panelBg)

	for _, btn := range p.buttons {
		if btn.isVisible() {
			p.drawButton(screen, btn)
		}
	}

	p.drawSectionLabel(screen, "Game Mode", x, float64(p.buttons[2].Y-SectionLabelH))
	if g.Session().Config().Mode == game.HumanVsComputer {
		p.drawSectionLabel(screen, "Play As", x, float64(p.buttons[4].Y-SectionLabelH))
		p.drawSectionLabel(screen, "Engine", x, float64(p.engineY-SectionLabelH))
		depth := fmt.Sprintf("Depth %d", g.Session().Engine().Config().Depth)
		drawTextCentered(screen, depth, regularFace(), float64(BoardSize+PanelWidth/2), float64(p.engineY+TabHeight/2), textPrimary)
	}

	historyY := p.getHistoryStartY()
	p.drawSectionLabel(screen, "Moves", x, float64(historyY))
	listBottom := ScreenHeight - StatusBarH - 2*CapturedRowH - 12
	p.drawMoveHistory(screen, historyY+SectionLabelH+4, listBottom)
	p.drawCaptured(screen, r, listBottom+6)
	p.drawStatusBar(screen)
}

func (p *Panel) drawButton(screen *ebiten.Image, btn *Button) {
	x, y, w, h := float64(btn.X), float64(btn.Y), float64(btn.W), float64(btn.H)

	var bg, border color.RGBA
	fg := textSecondary
	switch btn.style {
	case stylePrimary:
		bg, border, fg = accentColor, accentPressed, textPrimary
		if btn.pressed {
			bg = accentPressed
		} else if btn.hovered {
			bg, border = accentHover, color.RGBA{116, 215, 160, 255}
		}
	default:
		bg, border = buttonBg, buttonBorder
		if btn.style == styleTab {
			bg = tabInactiveBg
		}
		switch {
		case btn.isActive():
			bg, border, fg = tabActiveBg, tabActiveBg, textPrimary
		case btn.pressed:
			bg = buttonPressedBg
		case btn.hovered && btn.style == styleTab:
			bg, border = tabHoverBg, accentColor
		case btn.hovered:
			bg = buttonHoverBg
		}
	}

	fillRect(screen, x, y, w, h, bg)
	strokeRect(screen, x, y, w, h, 1, border)
	drawTextCentered(screen, btn.Label, regularFace(), x+w/2, y+h/2, fg)
}

func (p *Panel) drawSectionLabel(screen *ebiten.Image, label string, x, y float64) {
	drawText(screen, label, regularFace(), x, y, textMuted)
}

func (p *Panel) drawMoveHistory(screen *ebiten.Image, startY, maxY int) {
	moves := p.game.Session().SANLog()
	x := float64(BoardSize + PanelPadding)
	face := regularFace()
	if len(moves) == 0 {
		drawText(screen, "No moves yet", face, x, float64(startY+5), textMuted)
		return
	}

	const rowHeight = 22
	visibleHeight := maxY - startY

	totalRows := (len(moves) + 1) / 2
	contentHeight := totalRows * rowHeight
	p.maxScrollY = max(0, contentHeight-visibleHeight)
	p.scrollY = min(p.scrollY, p.maxScrollY)

	startRow := p.scrollY / rowHeight
	y := startY - (p.scrollY % rowHeight)

	for i := startRow * 2; i < len(moves); i += 2 {
		if y+rowHeight > maxY {
			break
		}
		if y >= startY {
			if (i/2)%2 == 1 {
				fillRect(screen, x-4, float64(y-2), float64(PanelWidth-PanelPadding*2+8), rowHeight, moveRowAlt)
			}
			drawText(screen, fmt.Sprintf("%d.", i/2+1), face, x, float64(y), textMuted)
			drawText(screen, moves[i], face, x+36, float64(y), textPrimary)
			if i+1 < len(moves) {
				drawText(screen, moves[i+1], face, x+130, float64(y), textPrimary)
			}
		}
		y += rowHeight
	}

	// Scroll indicator
	if p.maxScrollY > 0 {
		pct := float64(p.scrollY) / float64(p.maxScrollY)
		h := max(20, float64(visibleHeight)*float64(visibleHeight)/float64(contentHeight))
		iy := float64(startY) + pct*(float64(visibleHeight)-h)
		fillRect(screen, float64(BoardSize+PanelWidth-8), iy, 4, h, textMuted)
	}
}

// drawCaptured draws the pieces each side has captured, one row per
// capturing side.
func (p *Panel) drawCaptured(screen *ebiten.Image, r *Renderer, y int) {
	x := float64(BoardSize + PanelPadding)
	var byWhite, byBlack []*board.Piece
	for _, pc := range p.game.Session().Position().Captured() {
		if pc.Color == board.Black {
			byWhite = append(byWhite, pc)
		} else {
			byBlack = append(byBlack, pc)
		}
	}
	for row, pieces := range [][]*board.Piece{byWhite, byBlack} {
		ry := float64(y + row*CapturedRowH)
		for i, pc := range pieces {
			r.Sprites().Draw(screen, pc.Color, pc.Kind, x+float64(i)*14, ry, CapturedRowH-2)
		}
	}
}

func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	g := p.game
	s := g.Session()
	statusY := float64(ScreenHeight - StatusBarH)
	x := float64(BoardSize + PanelPadding)
	face := regularFace()

	fillRect(screen, x, statusY-8, float64(PanelWidth-PanelPadding*2), 1, dividerColor)

	username := g.Username()
	if len(username) > 12 {
		username = username[:12] + "..."
	}
	drawText(screen, username, face, x, statusY+4, textPrimary)
	if eval, ok := g.LastEval(); ok {
		drawText(screen, engine.ScoreString(eval), face, x+120, statusY+4, textSecondary)
	}

	var status string
	var c color.RGBA
	switch {
	case s.IsOver():
		status, c = s.Outcome().String(), statusGameOver
	case g.IsAIThinking():
		status = "Computer thinking..."
		c = statusThinking
		c.A = uint8(155 + 100*pulse(time.Since(g.thinkStart).Seconds(), 1.2))
	default:
		status, c = s.Turn().String()+" to move", textPrimary
		if s.InCheck() {
			status += " (check)"
		}
	}
	drawText(screen, status, face, x, statusY+30, c)
}
