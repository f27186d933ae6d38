package autosplit

import (
	"testing"

	"towersplit/config"
	"towersplit/snapshot"
	"towersplit/timer"
)

type frame struct {
	room  string
	file  float64
	level float64
	end   bool
	hp    uint8
}

type run struct {
	t        *testing.T
	values   *snapshot.Values
	session  *Session
	timer    *timer.Local
	board    *timer.Board
	settings config.Settings
	buffer   bool
}

func newRun(t *testing.T, mode config.Mode, rules config.Rules) *run {
	settings := config.Default()
	settings.Mode = mode
	settings.Rules = rules
	l := timer.NewLocal()
	return &run{
		t:        t,
		values:   snapshot.New(),
		session:  NewSession(),
		timer:    l,
		board:    timer.NewBoard(l),
		settings: settings,
		buffer:   true,
	}
}

func (r *run) step(frames ...frame) {
	for _, f := range frames {
		v := r.values
		v.RoomName.Update(f.room)
		v.FileMinutes.Update(0)
		v.FileSeconds.Update(f.file)
		v.LevelMinutes.Update(0)
		v.LevelSeconds.Update(f.level)
		v.EndOfLevel.Update(f.end)
		v.BossHP.Update(f.hp)
		r.session.Update(v, r.buffer, r.settings, r.board)
	}
}

func (r *run) expect(command string, n int) {
	r.t.Helper()
	if got := r.timer.Count(command); got != n {
		r.t.Errorf("%s count = %d, want %d (commands %v)", command, got, n, r.timer.Commands())
	}
}

func TestStartNewFile(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		r := newRun(t, config.FullGame, config.Rules{StartNewFile: enabled})
		r.step(frame{room: config.ROOM_INTRO}, frame{room: config.ROOM_FIRST})
		want := 0
		if enabled {
			want = 1
		}
		r.expect("start", want)
	}
}

func TestStartContinueFile(t *testing.T) {
	r := newRun(t, config.NewGamePlus, config.Rules{StartContinueFile: true})
	r.step(frame{room: config.ROOM_INTRO}, frame{room: config.ROOM_FIRST})
	r.expect("start", 0)
	r.step(frame{room: config.ROOM_LOADING}, frame{room: config.ROOM_FIRST})
	r.expect("start", 1)
}

func TestStartIndividualLevelWindow(t *testing.T) {
	r := newRun(t, config.IndividualLevel, config.DefaultRules(config.IndividualLevel))
	r.step(
		frame{room: "tower_1", level: 3},
		frame{room: "entrance_1", level: 0},
		frame{room: "entrance_1", level: 0.05},
	)
	r.expect("start", 0)
	r.step(frame{room: "entrance_1", level: 0.08}, frame{room: "entrance_1", level: 0.09})
	r.expect("start", 1)
}

func TestStartIndividualLevelNeedsBuffer(t *testing.T) {
	r := newRun(t, config.IndividualLevel, config.Rules{StartIndividualLevel: true})
	r.buffer = false
	r.step(frame{room: "entrance_1", level: 0.08})
	r.expect("start", 0)
}

func TestStartLevelExit(t *testing.T) {
	r := newRun(t, config.IndividualWorld, config.Rules{StartLevelExit: true})
	r.step(frame{room: "entrance_2"}, frame{room: "entrance_1"})
	r.expect("start", 0)
	r.step(frame{room: "tower_1"})
	r.expect("start", 1)
}

func TestBossSplitFiresOnce(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{SplitLevelEnd: true})
	r.step(frame{room: "tower_2"})
	r.timer.Start()

	r.step(frame{room: "boss_pepperman", hp: 5}, frame{room: "boss_pepperman", hp: 5})
	if !r.session.Armed() {
		t.Fatal("boss room did not arm")
	}
	r.step(frame{room: "hub_room1", hp: 0})
	r.expect("split", 1)
	if r.session.Armed() {
		t.Error("still armed after the split")
	}
	if r.session.Level() != Hub {
		t.Errorf("level = %v", r.session.Level())
	}

	r.step(frame{room: "hub_room1", hp: 5}, frame{room: "hub_room1", hp: 0})
	r.expect("split", 1)
}

func TestBossSplitNeedsDefeat(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{SplitLevelEnd: true})
	r.step(frame{room: "tower_2"})
	r.timer.Start()
	r.step(frame{room: "boss_noise", hp: 4}, frame{room: "tower_3", hp: 4})
	r.expect("split", 0)

	// HP reaching zero before leaving the arena counts too
	r.step(
		frame{room: "boss_noise", hp: 4},
		frame{room: "boss_noise", hp: 1},
		frame{room: "boss_noise", hp: 0},
		frame{room: "boss_noise", hp: 0},
		frame{room: "tower_3", hp: 0},
	)
	r.expect("split", 1)
}

func TestFakePeppinoReturn(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{SplitLevelEnd: true})
	r.step(frame{room: "tower_5"})
	r.timer.Start()
	r.step(frame{room: config.ROOM_BOSS_FAKEPEP}, frame{room: config.ROOM_FAKEPEP_RETURN})
	r.expect("split", 1)
}

func TestLevelEndFromEntryRoom(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{SplitLevelEnd: true})
	r.step(frame{room: "tower_1"})
	r.timer.Start()

	// walking in and straight back out is not a level end
	r.step(frame{room: "entrance_1"}, frame{room: "tower_1"})
	r.expect("split", 0)

	r.step(
		frame{room: "entrance_1"},
		frame{room: "entrance_2"},
		frame{room: "entrance_1"},
		frame{room: config.ROOM_RESULTS},
	)
	r.expect("split", 1)
	if r.session.Level() != ResultsScreen {
		t.Errorf("level = %v", r.session.Level())
	}
	r.step(frame{room: "tower_1"})
	r.expect("split", 1)
}

func TestEndFadeSplit(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{SplitEndFade: true})
	r.step(frame{room: config.ROOM_FIRST})
	r.timer.Start()
	r.step(frame{room: config.ROOM_FIRST, end: true}, frame{room: config.ROOM_FIRST, end: true})
	r.expect("split", 1)

	r.buffer = false
	r.step(frame{room: config.ROOM_FIRST}, frame{room: config.ROOM_FIRST, end: true})
	r.expect("split", 1)
}

func TestFinalHallwayOncePerRun(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{SplitFinalHallway: true})
	r.step(frame{room: "tower_4"})
	r.timer.Start()

	hallway := []frame{{room: config.ROOM_TOWER_5}, {room: config.ROOM_FINAL_HALLWAY}}
	r.step(hallway...)
	r.step(hallway...)
	r.expect("split", 1)

	r.timer.Reset()
	r.step(frame{room: "tower_4"})
	r.timer.Start()
	r.step(hallway...)
	r.expect("split", 2)
}

func TestRoomSplitDwell(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{SplitEveryRoom: true})
	r.step(frame{room: "entrance_2"})
	r.timer.Start()

	r.step(
		frame{room: "entrance_2", level: 0},
		frame{room: "entrance_2", level: 1},
		frame{room: "entrance_2", level: 2},
		frame{room: "entrance_2", level: 3},
	)
	r.expect("split", 0)

	r.step(frame{room: "entrance_3", level: 3})
	r.expect("split", 1)

	// a steady end flag in the room just split on waits out the dwell
	r.step(
		frame{room: "entrance_3", level: 3.5, end: true},
		frame{room: "entrance_3", level: 4, end: true},
	)
	r.expect("split", 1)
	r.step(frame{room: "entrance_3", level: 5, end: true})
	r.expect("split", 2)
}

func TestRoomSplitWithoutBuffer(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{SplitEveryRoom: true})
	r.buffer = false
	r.step(frame{room: "medieval_1"})
	r.timer.Start()
	r.step(frame{room: "medieval_2"}, frame{room: "medieval_3"})
	r.expect("split", 2)
}

func TestLevelRestartResetsOnce(t *testing.T) {
	r := newRun(t, config.IndividualLevel, config.Rules{ResetIndividualLevel: true, SplitEveryRoom: true})
	r.step(frame{room: "ruin_1", level: 4})
	r.timer.Start()
	r.step(frame{room: "ruin_2", level: 5}, frame{room: "ruin_2", level: 5.5})
	r.expect("split", 1)

	r.step(frame{room: "ruin_1", level: 0}, frame{room: "ruin_1", level: 0.1}, frame{room: "ruin_1", level: 0.2})
	r.expect("reset", 1)
	if r.session.lastSplitRoom != "" {
		t.Errorf("dwell bookkeeping kept %q", r.session.lastSplitRoom)
	}
}

func TestNoLevelResetInHub(t *testing.T) {
	r := newRun(t, config.IndividualLevel, config.Rules{ResetIndividualLevel: true})
	r.step(frame{room: "tower_1", level: 6})
	r.timer.Start()
	r.step(frame{room: "tower_1", level: 0})
	r.expect("reset", 0)
}

func TestFileResets(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{ResetNewFile: true, ResetAnyFile: true})
	r.step(frame{room: "tower_1"})
	r.timer.Start()
	r.step(frame{room: config.ROOM_INTRO})
	r.expect("reset", 1)

	r.timer.Start()
	r.step(frame{room: config.ROOM_LOADING}, frame{room: config.ROOM_LOADING})
	r.expect("reset", 2)

	// no reset while the timer is not running
	r.step(frame{room: config.ROOM_INTRO})
	r.expect("reset", 2)
}

func TestNewGamePlusAnchor(t *testing.T) {
	r := newRun(t, config.NewGamePlus, config.Rules{})
	r.step(
		frame{room: config.ROOM_INTRO, file: 100},
		frame{room: config.ROOM_FIRST, file: 100.5, level: 0.2},
	)
	if got := r.session.GameTime(config.NewGamePlus); got != 0 {
		t.Fatalf("game time at anchor = %v", got)
	}

	r.timer.Start()
	prev := -1.0
	for _, file := range []float64{101.5, 102.5, 110.5} {
		r.step(frame{room: "tower_1", file: file, level: 1})
		got := r.timer.GameTime()
		if got <= prev {
			t.Errorf("game time %v not after %v", got, prev)
		}
		prev = got
	}
	if prev != 10 {
		t.Errorf("game time = %v, want 10", prev)
	}
	r.expect("pausegametime", 1)
	if v, _ := r.board.Get("Game Time"); v != "10" {
		t.Errorf("Game Time variable = %q", v)
	}

	// anchors only move while the timer is stopped
	r.step(frame{room: config.ROOM_LOADING, file: 111})
	if got := r.session.GameTime(config.NewGamePlus); got != 10.5 {
		t.Errorf("anchor cleared while running, game time %v", got)
	}
	r.timer.Reset()
	r.step(frame{room: "tower_1", file: 112}, frame{room: config.ROOM_LOADING, file: 112})
	if got := r.session.GameTime(config.NewGamePlus); got != 112 {
		t.Errorf("game time after clear = %v", got)
	}
}

func TestNewGamePlusAnchorNotSetOnAttach(t *testing.T) {
	r := newRun(t, config.NewGamePlus, config.Rules{})
	r.step(frame{room: config.ROOM_FIRST, file: 600, level: 0.5})
	if got := r.session.GameTime(config.NewGamePlus); got != 600 {
		t.Errorf("game time after attaching in %s = %v, want 600", config.ROOM_FIRST, got)
	}
}

func TestNoResetOnAttach(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{ResetAnyFile: true})
	r.timer.Start()
	r.step(frame{room: config.ROOM_LOADING, file: 10})
	r.expect("reset", 0)

	r.step(frame{room: "tower_1", file: 11}, frame{room: config.ROOM_LOADING, file: 12})
	r.expect("reset", 1)
}

func TestNewGamePlusThreshold(t *testing.T) {
	r := newRun(t, config.NewGamePlus, config.Rules{})
	r.step(
		frame{room: "tower_1", file: 40},
		frame{room: config.ROOM_FIRST, file: 41, level: 1.5},
	)
	if got := r.session.GameTime(config.NewGamePlus); got != 41 {
		t.Errorf("anchor set with level time over the threshold: %v", got)
	}
}

func TestIndividualWorldAnchor(t *testing.T) {
	r := newRun(t, config.IndividualWorld, config.Rules{})
	r.step(frame{room: "entrance_1", file: 50}, frame{room: "tower_1", file: 60})
	r.step(frame{room: "tower_1", file: 65})
	if got := r.session.GameTime(config.IndividualWorld); got != 5 {
		t.Errorf("game time in hub = %v", got)
	}
	r.step(frame{room: "medieval_1", file: 70})
	if got := r.session.GameTime(config.IndividualWorld); got != 70 {
		t.Errorf("anchor kept after leaving the hub: %v", got)
	}
	if got := r.session.GameTime(config.IndividualLevel); got != 0 {
		t.Errorf("level time = %v", got)
	}
}

func TestGameTimeNotPushedWhenStopped(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{})
	r.step(frame{room: "tower_1", file: 3})
	r.expect("pausegametime", 0)
	if len(r.timer.Commands()) != 0 {
		t.Errorf("commands while stopped: %v", r.timer.Commands())
	}
	if v, _ := r.board.Get("Game Time"); v != "3" {
		t.Errorf("Game Time variable = %q", v)
	}
}

func TestClassificationSticky(t *testing.T) {
	r := newRun(t, config.FullGame, config.Rules{})
	r.step(frame{room: "farm_1"})
	if r.session.Level() != FunFarm {
		t.Fatalf("level = %v", r.session.Level())
	}
	r.step(frame{room: "some_cutscene"})
	if r.session.Level() != FunFarm {
		t.Errorf("unknown room changed the level to %v", r.session.Level())
	}
	if v, _ := r.board.Get("Level"); v != "Fun Farm" {
		t.Errorf("Level variable = %q", v)
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]Level{
		"tower_tutorial1":   Tutorial,
		"tower_3":           Hub,
		"hub_loadingscreen": Hub,
		"rank_room":         ResultsScreen,
		"plage_entrance":    CrustCove,
		"street_intro":      ThePigCity,
		"boss_noise":        Noise,
		"trickytreat_2":     TrickyTreat,
		"Finalintro":        Unknown,
	}
	for room, want := range cases {
		if got := Classify(room); got != want {
			t.Errorf("%s: got %v, want %v", room, got, want)
		}
	}
	if !PizzaFace.IsBoss() || War.IsBoss() {
		t.Error("IsBoss")
	}
}
