package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"towersplit/logger"
)

type Mode string

const (
	FullGame        Mode = "full_game"
	IndividualLevel Mode = "individual_level"
	NewGamePlus     Mode = "new_game_plus"
	IndividualWorld Mode = "individual_world"
)

var Modes = []Mode{FullGame, IndividualLevel, NewGamePlus, IndividualWorld}

func (m Mode) Valid() bool {
	for _, v := range Modes {
		if m == v {
			return true
		}
	}
	return false
}

func (m Mode) Next() Mode {
	for i, v := range Modes {
		if m == v {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return FullGame
}

func (m Mode) String() string {
	switch m {
	case FullGame:
		return "Full Game"
	case IndividualLevel:
		return "Individual Level"
	case NewGamePlus:
		return "New Game+"
	case IndividualWorld:
		return "Individual World"
	}
	return string(m)
}

type Sink string

const (
	SinkLocal        Sink = "local"
	SinkLiveSplit    Sink = "livesplit"
	SinkLiveSplitOne Sink = "livesplit_one"
)

// Rules switches every start, reset and split condition on or off.
type Rules struct {
	StartNewFile         bool `json:"start_new_file"`
	StartContinueFile    bool `json:"start_continue_file"`
	StartIndividualLevel bool `json:"start_individual_level"`
	StartLevelExit       bool `json:"start_level_exit"`

	ResetNewFile         bool `json:"reset_new_file"`
	ResetAnyFile         bool `json:"reset_any_file"`
	ResetIndividualLevel bool `json:"reset_individual_level"`

	SplitLevelEnd     bool `json:"split_level_end"`
	SplitEndFade      bool `json:"split_end_fade"`
	SplitFinalHallway bool `json:"split_final_hallway"`
	SplitEveryRoom    bool `json:"split_every_room"`
}

// Toggle is a named switch as shown in the window.
type Toggle struct {
	Key   string
	Label string
	Value *bool
}

func (r *Rules) Toggles() []Toggle {
	return []Toggle{
		{"start_new_file", "Start: new file", &r.StartNewFile},
		{"start_continue_file", "Start: continue file", &r.StartContinueFile},
		{"start_individual_level", "Start: level entry", &r.StartIndividualLevel},
		{"start_level_exit", "Start: level exit", &r.StartLevelExit},
		{"reset_new_file", "Reset: new file", &r.ResetNewFile},
		{"reset_any_file", "Reset: any file", &r.ResetAnyFile},
		{"reset_individual_level", "Reset: level restart", &r.ResetIndividualLevel},
		{"split_level_end", "Split: level end", &r.SplitLevelEnd},
		{"split_end_fade", "Split: end fade", &r.SplitEndFade},
		{"split_final_hallway", "Split: final hallway", &r.SplitFinalHallway},
		{"split_every_room", "Split: every room", &r.SplitEveryRoom},
	}
}

func DefaultRules(m Mode) Rules {
	switch m {
	case IndividualLevel:
		return Rules{
			StartIndividualLevel: true,
			ResetIndividualLevel: true,
			SplitLevelEnd:        true,
		}
	case NewGamePlus:
		return Rules{
			StartContinueFile: true,
			ResetAnyFile:      true,
			SplitLevelEnd:     true,
			SplitEndFade:      true,
			SplitFinalHallway: true,
		}
	case IndividualWorld:
		return Rules{
			StartLevelExit: true,
			ResetAnyFile:   true,
			SplitLevelEnd:  true,
		}
	}
	return Rules{
		StartNewFile:      true,
		ResetNewFile:      true,
		SplitLevelEnd:     true,
		SplitEndFade:      true,
		SplitFinalHallway: true,
	}
}

type Settings struct {
	Mode Mode `json:"mode"`
	Rules

	Sink            Sink   `json:"sink"`
	LiveSplitServer string `json:"livesplit_server"`
	LiveSplitOne    string `json:"livesplit_one"`
	StatsView       bool   `json:"statsview"`
}

func Default() Settings {
	return Settings{
		Mode:            FullGame,
		Rules:           DefaultRules(FullGame),
		Sink:            SinkLocal,
		LiveSplitServer: LIVESPLIT_SERVER_ADDR,
		LiveSplitOne:    LIVESPLIT_ONE_ADDR,
	}
}

func (s *Settings) validate() error {
	if !s.Mode.Valid() {
		return fmt.Errorf("unknown mode %q", s.Mode)
	}
	switch s.Sink {
	case SinkLocal, SinkLiveSplit, SinkLiveSplitOne:
	default:
		return fmt.Errorf("unknown sink %q", s.Sink)
	}
	return nil
}

// Store owns the settings file. The tick loop calls Refresh every tick so
// edits made while running apply on the next tick.
type Store struct {
	path     string
	mutex    sync.RWMutex
	settings Settings
	modTime  time.Time
}

func NewStore(path string) *Store {
	s := &Store{path: path, settings: Default()}
	if err := s.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Logf("config", "%s not found, writing defaults", path)
			s.Save()
		} else {
			logger.Logf("config", "%v, using defaults", err)
		}
	}
	return s
}

func (s *Store) Load() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	settings := Default()
	if err := json.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if err := settings.validate(); err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.settings = settings
	s.modTime = info.ModTime()
	return nil
}

func (s *Store) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		logger.Logf("config", "saving %s: %v", s.path, err)
		return err
	}
	if info, err := os.Stat(s.path); err == nil {
		s.modTime = info.ModTime()
	}
	return nil
}

// Refresh reloads the file when its modification time has moved. It reports
// whether new settings were applied.
func (s *Store) Refresh() bool {
	info, err := os.Stat(s.path)
	if err != nil {
		return false
	}

	s.mutex.RLock()
	same := info.ModTime().Equal(s.modTime)
	s.mutex.RUnlock()
	if same {
		return false
	}

	if err := s.Load(); err != nil {
		logger.Logf("config", "%v, keeping previous settings", err)
		s.mutex.Lock()
		s.modTime = info.ModTime()
		s.mutex.Unlock()
		return false
	}
	logger.Logf("config", "reloaded %s", s.path)
	return true
}

func (s *Store) Settings() Settings {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.settings
}

// SetMode switches the timing mode and loads that mode's default rules.
func (s *Store) SetMode(m Mode) {
	s.mutex.Lock()
	if s.settings.Mode == m {
		s.mutex.Unlock()
		return
	}
	s.settings.Mode = m
	s.settings.Rules = DefaultRules(m)
	s.mutex.Unlock()

	logger.Logf("config", "mode %s", m)
	s.Save()
}

// Toggle flips the rule with the given key and returns its new value.
func (s *Store) Toggle(key string) (bool, bool) {
	s.mutex.Lock()
	var value, found bool
	for _, t := range s.settings.Rules.Toggles() {
		if t.Key == key {
			*t.Value = !*t.Value
			value, found = *t.Value, true
			break
		}
	}
	s.mutex.Unlock()

	if found {
		s.Save()
	}
	return value, found
}
