package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"towersplit/config"
	"towersplit/logger"
	"towersplit/splitter"
	"towersplit/timer"
	"towersplit/ui"
)

const (
	panelH    = 150
	buttonW   = 170
	buttonH   = 20
	buttonGap = 5
)

type switchButton struct {
	key string
	btn *ui.Button
}

// Game hosts the splitter in an ebiten window. Every Update is one splitter
// tick; the tick rate is changed by the splitter itself.
type Game struct {
	runner *splitter.Runner
	store  *config.Store
	board  *timer.Board
	local  *timer.Local
	sink   string

	modeBtn  *ui.Button
	switches []switchButton

	mouseX, mouseY int
}

// NewGame wires the window to a runner. local is nil when commands go to an
// external timer.
func NewGame(runner *splitter.Runner, store *config.Store, board *timer.Board, local *timer.Local) *Game {
	panelY := float32(config.SCREEN_HEIGHT - panelH)

	g := &Game{
		runner: runner,
		store:  store,
		board:  board,
		local:  local,
		sink:   string(store.Settings().Sink),
		modeBtn: &ui.Button{
			X: 10, Y: panelY + 22, W: buttonW, H: buttonH,
		},
	}

	rules := store.Settings().Rules
	for i, t := range rules.Toggles() {
		col := (i + 1) % 4
		row := (i + 1) / 4
		g.switches = append(g.switches, switchButton{
			key: t.Key,
			btn: &ui.Button{
				X:     10 + float32(col)*(buttonW+buttonGap),
				Y:     panelY + 22 + float32(row)*(buttonH+buttonGap),
				W:     buttonW,
				H:     buttonH,
				Label: t.Label,
			},
		})
	}
	return g
}

func (g *Game) handleInput() {
	g.mouseX, g.mouseY = ebiten.CursorPosition()
	clicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	if g.modeBtn.Clicked(g.mouseX, g.mouseY, clicked) {
		g.store.SetMode(g.store.Settings().Mode.Next())
	}
	for _, s := range g.switches {
		if s.btn.Clicked(g.mouseX, g.mouseY, clicked) {
			if value, ok := g.store.Toggle(s.key); ok {
				logger.Logf("config", "%s: %v", s.key, value)
			}
		}
	}

	// Hotkeys for the built-in timer
	if g.local == nil {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		if g.local.State() == timer.Paused {
			g.local.Resume()
		} else {
			g.local.Pause()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.local.Reset()
	}
}

func (g *Game) Update() error {
	g.handleInput()
	g.runner.Tick()
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.SCREEN_WIDTH, config.SCREEN_HEIGHT
}
