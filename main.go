package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"

	"towersplit/config"
	"towersplit/game"
	"towersplit/logger"
	"towersplit/splitter"
	"towersplit/statsview"
	"towersplit/timer"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	settingsPath := flag.String("config", defaultConfigPath(), "settings file")
	flag.Parse()

	store := config.NewStore(*settingsPath)
	settings := store.Settings()

	var sink timer.Timer
	var local *timer.Local
	switch settings.Sink {
	case config.SinkLiveSplit:
		server := timer.NewServer(settings.LiveSplitServer)
		defer server.Close()
		sink = server
	case config.SinkLiveSplitOne:
		hub := timer.NewHub(settings.LiveSplitOne)
		hub.ListenAndServe()
		defer hub.Close()
		sink = hub
	default:
		local = timer.NewLocal()
		sink = local
	}
	board := timer.NewBoard(sink)

	if settings.StatsView {
		stop := statsview.Launch()
		defer stop()
	}

	ebiten.SetWindowSize(config.SCREEN_WIDTH, config.SCREEN_HEIGHT)
	ebiten.SetWindowTitle("towersplit - Pizza Tower auto splitter")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	runner := splitter.NewRunner(splitter.OpenProcess(config.MAIN_MODULE), store, board, ebiten.SetTPS)
	defer runner.Close()

	g := game.NewGame(runner, store, board, local)
	if err := ebiten.RunGame(g); err != nil {
		logger.Logf("main", "window closed: %v", err)
		fmt.Fprintln(os.Stderr, "error:", err)
	}
}

// defaultConfigPath puts the settings next to the executable.
func defaultConfigPath() string {
	const name = "towersplit.json"
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(exe), name)
}
