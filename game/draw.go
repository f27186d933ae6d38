package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"towersplit/config"
	"towersplit/logger"
	"towersplit/splitter"
	"towersplit/ui"
)

var (
	colorBg     = color.RGBA{20, 25, 30, 255}
	colorPanel  = color.RGBA{25, 30, 38, 255}
	colorBorder = color.RGBA{50, 58, 70, 255}
	colorMode   = color.RGBA{40, 40, 80, 255}
	colorHover  = color.RGBA{50, 50, 100, 255}
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBg)

	leftW := float32(config.SCREEN_WIDTH/2 - 15)
	rightX := float32(config.SCREEN_WIDTH/2 + 5)
	topH := float32(config.SCREEN_HEIGHT - panelH - 20 - 120)

	g.drawStatus(screen, 10, 10, leftW, topH)
	g.drawVariables(screen, rightX, 10, leftW, topH)
	g.drawLog(screen, 10, 10+topH+5, float32(config.SCREEN_WIDTH-20), 110)
	g.drawConfigPanel(screen, float32(config.SCREEN_HEIGHT-panelH))

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %.0f", ebiten.ActualTPS()), config.SCREEN_WIDTH-70, config.SCREEN_HEIGHT-16)
}

func (g *Game) drawStatus(screen *ebiten.Image, x, y, w, h float32) {
	ui.DrawPanel(screen, x, y, w, h, colorPanel, colorBorder)
	cy := ui.DrawSectionHeader(screen, "--- Status ---", x+8, y+6, w-16, colorBorder)

	lines := []string{fmt.Sprintf("Phase: %s", g.runner.Phase())}

	addrs := g.runner.Addresses()
	if g.runner.Phase() != splitter.Searching {
		lines = append(lines,
			fmt.Sprintf("Module: %v", addrs.Module),
			fmt.Sprintf("Room id: +%v", addrs.RoomID),
			fmt.Sprintf("Buffer: %v", addrs.Buffer),
			fmt.Sprintf("Names: %v", addrs.RoomNames),
		)
	}

	if s := g.runner.Session(); s != nil {
		lines = append(lines, fmt.Sprintf("Level: %s", s.Level()))
		if s.Armed() {
			lines = append(lines, "Level end armed")
		}
	}

	lines = append(lines, "", fmt.Sprintf("Sink: %s", g.sink))
	if g.local != nil {
		lines = append(lines,
			fmt.Sprintf("Timer: %s", g.local.State()),
			fmt.Sprintf("Real time: %s", formatDuration(g.local.Elapsed())),
			fmt.Sprintf("Game time: %s", formatDuration(time.Duration(g.local.GameTime()*float64(time.Second)))),
			fmt.Sprintf("Splits: %d", g.local.Splits()),
			"[F1] pause  [F2] reset",
		)
	}

	for _, l := range lines {
		if cy > y+h-ui.LineHeight {
			break
		}
		ebitenutil.DebugPrintAt(screen, ui.TruncStr(l, int(w/6)-2), int(x)+8, int(cy))
		cy += ui.LineHeight
	}
}

func (g *Game) drawVariables(screen *ebiten.Image, x, y, w, h float32) {
	ui.DrawPanel(screen, x, y, w, h, colorPanel, colorBorder)
	cy := ui.DrawSectionHeader(screen, "--- Variables ---", x+8, y+6, w-16, colorBorder)

	vars := g.board.Variables()
	if len(vars) == 0 {
		ebitenutil.DebugPrintAt(screen, "(none)", int(x)+8, int(cy))
		return
	}
	for _, v := range vars {
		if cy > y+h-ui.LineHeight {
			break
		}
		line := fmt.Sprintf("%s: %s", v.Name, v.Value)
		ebitenutil.DebugPrintAt(screen, ui.TruncStr(line, int(w/6)-2), int(x)+8, int(cy))
		cy += ui.LineHeight
	}
}

func (g *Game) drawLog(screen *ebiten.Image, x, y, w, h float32) {
	ui.DrawPanel(screen, x, y, w, h, colorPanel, colorBorder)
	cy := ui.DrawSectionHeader(screen, "--- Log ---", x+8, y+4, w-16, colorBorder)

	n := int((y + h - cy) / ui.LineHeight)
	for _, e := range logger.Tail(n) {
		line := fmt.Sprintf("%s %s", e.Timestamp.Format("15:04:05"), e)
		ebitenutil.DebugPrintAt(screen, ui.TruncStr(line, int(w/6)-2), int(x)+8, int(cy))
		cy += ui.LineHeight
	}
}

func (g *Game) drawConfigPanel(screen *ebiten.Image, y float32) {
	ui.DrawPanel(screen, 5, y-5, float32(config.SCREEN_WIDTH-10), panelH, colorPanel, colorBorder)
	ebitenutil.DebugPrintAt(screen, "=== CONFIGURATION ===  click to toggle, saved to the settings file", 10, int(y))

	settings := g.store.Settings()
	g.modeBtn.Label = "Mode: " + settings.Mode.String()
	g.modeBtn.Draw(screen, colorMode, colorHover)

	values := make(map[string]bool)
	for _, t := range settings.Rules.Toggles() {
		values[t.Key] = *t.Value
	}
	for _, s := range g.switches {
		s.btn.DrawSwitch(screen, values[s.key])
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(10 * time.Millisecond)
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	return fmt.Sprintf("%d:%02d.%02d", m, s, d/(10*time.Millisecond))
}
