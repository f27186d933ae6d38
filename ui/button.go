package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colorOn       = color.RGBA{40, 80, 40, 255}
	colorOnHover  = color.RGBA{50, 100, 50, 255}
	colorOff      = color.RGBA{80, 40, 40, 255}
	colorOffHover = color.RGBA{100, 50, 50, 255}
	colorOutline  = color.RGBA{100, 100, 100, 255}
)

type Button struct {
	X, Y, W, H float32
	Label      string
	Hovered    bool
}

func (b *Button) Contains(x, y int) bool {
	fx, fy := float32(x), float32(y)
	return fx >= b.X && fx <= b.X+b.W && fy >= b.Y && fy <= b.Y+b.H
}

// Clicked updates the hover state and reports a left click inside the button.
func (b *Button) Clicked(x, y int, pressed bool) bool {
	b.Hovered = b.Contains(x, y)
	return pressed && b.Hovered
}

func (b *Button) Draw(screen *ebiten.Image, bgColor, hoverColor color.RGBA) {
	c := bgColor
	if b.Hovered {
		c = hoverColor
	}
	vector.DrawFilledRect(screen, b.X, b.Y, b.W, b.H, c, false)
	vector.StrokeRect(screen, b.X, b.Y, b.W, b.H, 1, colorOutline, false)
	label := TruncStr(b.Label, int(b.W/6)-1)
	textX := int(b.X) + int(b.W/2) - len(label)*3
	textY := int(b.Y) + int(b.H/2) - 8
	ebitenutil.DebugPrintAt(screen, label, textX, textY)
}

// DrawSwitch draws the button green when on and red when off.
func (b *Button) DrawSwitch(screen *ebiten.Image, on bool) {
	if on {
		b.Draw(screen, colorOn, colorOnHover)
		return
	}
	b.Draw(screen, colorOff, colorOffHover)
}
