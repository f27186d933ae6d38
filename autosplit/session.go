// Package autosplit turns tracked game values into timer commands.
package autosplit

import (
	"strconv"

	"towersplit/config"
	"towersplit/logger"
	"towersplit/snapshot"
	"towersplit/timer"
	"towersplit/watch"
)

// Session is the run state for one attach. It is created after the
// addresses resolve and thrown away when the game closes.
type Session struct {
	level watch.Pair[Level]

	fileTime  watch.Pair[float64]
	levelTime watch.Pair[float64]

	ngAnchor    float64
	ngAnchorSet bool
	ilAnchor    float64
	ilAnchorSet bool

	gameTimePaused bool

	armed       bool
	bossDown    bool
	hallwayDone bool

	lastSplitRoom string
	lastSplitTime float64
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Level() Level {
	return s.level.Current
}

func (s *Session) Armed() bool {
	return s.armed
}

// GameTime is the time reported for mode from the last update.
func (s *Session) GameTime(mode config.Mode) float64 {
	switch mode {
	case config.IndividualLevel:
		return s.levelTime.Current
	case config.NewGamePlus:
		if s.ngAnchorSet {
			return s.fileTime.Current - s.ngAnchor
		}
	case config.IndividualWorld:
		if s.ilAnchorSet {
			return s.fileTime.Current - s.ilAnchor
		}
	}
	return s.fileTime.Current
}

// Update runs every rule once against the values of this tick.
func (s *Session) Update(v *snapshot.Values, hasBuffer bool, settings config.Settings, t timer.Timer) {
	rules := settings.Rules
	state := t.State()
	if state == timer.NotRunning {
		s.hallwayDone = false
		s.gameTimePaused = false
	}

	s.classify(v, t)

	if hasBuffer {
		s.gameTime(v, state, settings.Mode, t)
	}

	started := false
	if state == timer.NotRunning {
		if s.shouldStart(v, hasBuffer, rules) {
			t.Start()
			state = timer.Running
			started = true
		}
	} else if s.shouldReset(v, hasBuffer, rules) {
		t.Reset()
		state = timer.NotRunning
	}

	s.trackArming(v)

	if state == timer.Running && !started {
		if s.shouldSplit(v, hasBuffer, rules) {
			t.Split()
		}
	}
}

func (s *Session) classify(v *snapshot.Values, t timer.Timer) {
	next := s.level.Current
	if v.RoomName.Changed() {
		if l := Classify(v.RoomName.Current); l != Unknown {
			next = l
		}
	}
	s.level.Update(next)
	t.SetVariable("Level", next.String())
}

func (s *Session) gameTime(v *snapshot.Values, state timer.State, mode config.Mode, t timer.Timer) {
	s.fileTime = v.FileTime()
	s.levelTime = v.LevelTime()

	if state == timer.NotRunning {
		room := v.RoomName
		switch {
		case entered(room, config.ROOM_FIRST) && s.levelTime.Current < config.NEW_GAME_THRESHOLD:
			s.ngAnchor = s.fileTime.Current
			s.ngAnchorSet = true
		case room.ChangedTo(config.ROOM_INTRO), room.ChangedTo(config.ROOM_LOADING):
			s.ngAnchor = 0
			s.ngAnchorSet = false
		}

		switch {
		case s.level.ChangedTo(Hub):
			s.ilAnchor = s.fileTime.Current
			s.ilAnchorSet = true
		case s.level.ChangedFrom(Hub):
			s.ilAnchor = 0
			s.ilAnchorSet = false
		}
	}

	reported := s.GameTime(mode)
	t.SetVariable("Game Time", strconv.FormatFloat(reported, 'f', -1, 64))

	if state == timer.Running || state == timer.Paused {
		if !s.gameTimePaused {
			t.PauseGameTime()
			s.gameTimePaused = true
		}
		t.SetGameTime(reported)
	}
}

// entered reports a move into name from a known room. The first reading after
// attach has no previous room and is not a move.
func entered(room watch.Pair[string], name string) bool {
	return room.Old != "" && room.ChangedTo(name)
}

func (s *Session) shouldStart(v *snapshot.Values, hasBuffer bool, rules config.Rules) bool {
	room := v.RoomName
	switch {
	case rules.StartNewFile && room.Old == config.ROOM_INTRO && room.Current == config.ROOM_FIRST:
		logger.Log("autosplit", "start: new file")
		return true
	case rules.StartContinueFile && room.Old == config.ROOM_LOADING && room.Current == config.ROOM_FIRST:
		logger.Log("autosplit", "start: continue file")
		return true
	case rules.StartIndividualLevel && hasBuffer && IsEntryRoom(room.Current) &&
		s.levelTime.Current >= config.IL_START_MIN && s.levelTime.Current <= config.IL_START_MAX:
		logger.Logf("autosplit", "start: entered %s", room.Current)
		return true
	case rules.StartLevelExit && room.Changed() && IsSplitTrigger(room.Old) && s.level.Current == Hub:
		logger.Logf("autosplit", "start: left %s", room.Old)
		return true
	}
	return false
}

func (s *Session) shouldReset(v *snapshot.Values, hasBuffer bool, rules config.Rules) bool {
	room := v.RoomName
	switch {
	case rules.ResetNewFile && entered(room, config.ROOM_INTRO):
		logger.Log("autosplit", "reset: new file")
		return true
	case rules.ResetAnyFile && entered(room, config.ROOM_LOADING):
		logger.Log("autosplit", "reset: file select")
		return true
	case rules.ResetIndividualLevel && hasBuffer && s.level.Current != Hub && watch.Decreased(s.levelTime):
		logger.Log("autosplit", "reset: level restarted")
		s.lastSplitRoom = ""
		s.lastSplitTime = 0
		return true
	}
	return false
}

// trackArming follows the rooms that can end a level. Entry rooms arm when
// reached from inside the level, which is how the escape ends; boss rooms
// arm on entry.
func (s *Session) trackArming(v *snapshot.Values) {
	room := v.RoomName
	if !room.Changed() {
		if IsBossRoom(room.Current) && v.BossHP.Old > 0 && v.BossHP.Current == 0 {
			s.bossDown = true
		}
		return
	}

	switch {
	case IsBossRoom(room.Current):
		s.armed = true
		s.bossDown = false
	case IsEntryRoom(room.Current) && room.Old != "" && Classify(room.Old) != Hub:
		s.armed = true
	}
}

func (s *Session) shouldSplit(v *snapshot.Values, hasBuffer bool, rules config.Rules) bool {
	room := v.RoomName
	split := false

	if rules.SplitLevelEnd && s.levelEnded(v) {
		logger.Logf("autosplit", "split: left %s", room.Old)
		s.armed = false
		split = true
	}

	if rules.SplitEndFade && hasBuffer && room.Current == config.ROOM_FIRST && v.EndOfLevel.ChangedTo(true) {
		logger.Log("autosplit", "split: end fade")
		split = true
	}

	if rules.SplitFinalHallway && !s.hallwayDone &&
		room.Old == config.ROOM_TOWER_5 && room.Current == config.ROOM_FINAL_HALLWAY {
		logger.Log("autosplit", "split: final hallway")
		s.hallwayDone = true
		split = true
	}

	if rules.SplitEveryRoom {
		moved := room.Changed() || (v.EndOfLevel.Old && v.EndOfLevel.Current)
		dwelled := room.Current != s.lastSplitRoom || s.levelTime.Current-s.lastSplitTime >= config.ROOM_SPLIT_DWELL
		if moved && dwelled {
			s.lastSplitRoom = room.Current
			s.lastSplitTime = s.levelTime.Current
			split = true
		}
	}

	return split
}

func (s *Session) levelEnded(v *snapshot.Values) bool {
	room := v.RoomName
	if !s.armed || !room.Changed() || !IsSplitTrigger(room.Old) {
		return false
	}
	if s.level.Current != Hub && s.level.Current != ResultsScreen {
		return false
	}
	if !IsBossRoom(room.Old) {
		return true
	}
	if room.Old == config.ROOM_BOSS_FAKEPEP && room.Current == config.ROOM_FAKEPEP_RETURN {
		return true
	}
	return s.bossDown || (v.BossHP.Old > 0 && v.BossHP.Current == 0)
}
