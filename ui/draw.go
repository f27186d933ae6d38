package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// LineHeight of the debug font.
const LineHeight = 14

func DrawPanel(screen *ebiten.Image, x, y, w, h float32, bg, border color.RGBA) {
	vector.DrawFilledRect(screen, x, y, w, h, bg, false)
	vector.StrokeRect(screen, x, y, w, h, 1, border, false)
}

// DrawSectionHeader prints a title with a rule under it and returns the y
// where content starts.
func DrawSectionHeader(screen *ebiten.Image, title string, x, y, w float32, rule color.RGBA) float32 {
	ebitenutil.DebugPrintAt(screen, title, int(x), int(y))
	vector.StrokeLine(screen, x, y+LineHeight+2, x+w, y+LineHeight+2, 1, rule, false)
	return y + LineHeight + 6
}

func DrawCenteredText(screen *ebiten.Image, text string, x, y int) {
	textW := len(text) * 6
	ebitenutil.DebugPrintAt(screen, text, x-textW/2, y)
}

func TruncStr(s string, maxLen int) string {
	if maxLen < 1 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "."
}
