package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeSettings(t *testing.T, path string, s any, mod time.Time) {
	t.Helper()
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestNewStoreWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "towersplit.json")
	s := NewStore(path)

	if diff := cmp.Diff(Default(), s.Settings()); diff != "" {
		t.Errorf("settings (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults not written: %v", err)
	}
}

func TestRefreshPicksUpEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "towersplit.json")
	s := NewStore(path)

	if s.Refresh() {
		t.Error("nothing changed yet")
	}

	edited := Default()
	edited.Mode = IndividualLevel
	edited.SplitEveryRoom = true
	writeSettings(t, path, edited, time.Now().Add(time.Minute))

	if !s.Refresh() {
		t.Fatal("expected reload")
	}
	if diff := cmp.Diff(edited, s.Settings()); diff != "" {
		t.Errorf("settings (-want +got):\n%s", diff)
	}
	if s.Refresh() {
		t.Error("second refresh without edits must not reload")
	}
}

func TestRefreshKeepsSettingsOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "towersplit.json")
	s := NewStore(path)
	before := s.Settings()

	writeSettings(t, path, map[string]any{"mode": "any%"}, time.Now().Add(time.Minute))
	if s.Refresh() {
		t.Error("invalid mode must not be applied")
	}
	if diff := cmp.Diff(before, s.Settings()); diff != "" {
		t.Errorf("settings changed (-want +got):\n%s", diff)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "towersplit.json")
	writeSettings(t, path, map[string]any{"split_every_room": true}, time.Now())

	got := NewStore(path).Settings()
	want := Default()
	want.SplitEveryRoom = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings (-want +got):\n%s", diff)
	}
}

func TestSetModeLoadsModeDefaults(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "towersplit.json"))

	s.SetMode(IndividualWorld)
	got := s.Settings()
	if got.Mode != IndividualWorld {
		t.Fatalf("mode = %v", got.Mode)
	}
	if diff := cmp.Diff(DefaultRules(IndividualWorld), got.Rules); diff != "" {
		t.Errorf("rules (-want +got):\n%s", diff)
	}
}

func TestToggle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "towersplit.json")
	s := NewStore(path)

	v, ok := s.Toggle("split_every_room")
	if !ok || !v || !s.Settings().SplitEveryRoom {
		t.Fatalf("toggle failed: %v %v", v, ok)
	}
	if _, ok := s.Toggle("split_on_vibes"); ok {
		t.Error("unknown key must not be found")
	}

	reloaded := NewStore(path)
	if !reloaded.Settings().SplitEveryRoom {
		t.Error("toggle was not saved")
	}
}

func TestModeCycle(t *testing.T) {
	m := FullGame
	seen := map[Mode]bool{}
	for i := 0; i < len(Modes); i++ {
		seen[m] = true
		m = m.Next()
	}
	if m != FullGame || len(seen) != len(Modes) {
		t.Errorf("cycle broken: ended on %v, saw %d modes", m, len(seen))
	}
	if Mode("bogus").Next() != FullGame {
		t.Error("unknown mode should restart the cycle")
	}
}
