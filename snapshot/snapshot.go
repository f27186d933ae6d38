// Package snapshot reads the tracked game values once per tick.
package snapshot

import (
	"errors"
	"fmt"
	"strconv"

	"towersplit/config"
	"towersplit/memory"
	"towersplit/resolver"
	"towersplit/watch"
)

var (
	ErrRoomID   = errors.New("could not read the room id")
	ErrRoomName = errors.New("could not read the room name")
)

// Values holds the current and previous reading of every tracked field.
type Values struct {
	GameVersion  watch.Pair[string]
	RoomID       watch.Pair[int32]
	RoomName     watch.Pair[string]
	FileMinutes  watch.Pair[float64]
	FileSeconds  watch.Pair[float64]
	LevelMinutes watch.Pair[float64]
	LevelSeconds watch.Pair[float64]
	EndOfLevel   watch.Pair[bool]
	BossHP       watch.Pair[uint8]

	versionKnown bool
}

func New() *Values {
	return &Values{}
}

// VersionKnown reports whether the game version has been read at least once.
// An empty GameVersion before that means unknown, not empty.
func (v *Values) VersionKnown() bool {
	return v.versionKnown
}

// Refresh reads one tick worth of values. Only an unreadable room id or, on
// the room name table path, an unreadable room name is an error; those end
// the monitoring session. Buffer fields that fail to read keep their last
// value.
func (v *Values) Refresh(src memory.Source, addrs resolver.Addresses, pub resolver.Publisher) error {
	offset, ok := addrs.RoomID.Get()
	if !ok {
		return fmt.Errorf("%w: address not resolved", ErrRoomID)
	}
	id, err := memory.ReadI32(src, addrs.Module+offset)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRoomID, err)
	}
	v.RoomID.Update(id)
	pub.SetVariable("Room ID", strconv.FormatInt(int64(id), 10))

	if buf, ok := addrs.Buffer.Get(); ok {
		v.readBuffer(src, buf, pub)
		return nil
	}

	table, ok := addrs.RoomNames.Get()
	if !ok {
		return fmt.Errorf("%w: no room name source", ErrRoomName)
	}
	return v.readTable(src, table, pub)
}

func (v *Values) readBuffer(src memory.Source, buf memory.Address, pub resolver.Publisher) {
	if !v.versionKnown {
		if s, err := memory.ReadCString(src, buf+config.BUF_GAME_VERSION, config.STRING_CAP); err == nil {
			v.GameVersion.Update(s)
			v.versionKnown = true
			pub.SetVariable("Game Version", s)
		}
	}

	floats := []struct {
		name   string
		offset memory.Address
		pair   *watch.Pair[float64]
	}{
		{"File Minutes", config.BUF_FILE_MINUTES, &v.FileMinutes},
		{"File Seconds", config.BUF_FILE_SECONDS, &v.FileSeconds},
		{"Level Minutes", config.BUF_LEVEL_MINUTES, &v.LevelMinutes},
		{"Level Seconds", config.BUF_LEVEL_SECONDS, &v.LevelSeconds},
	}
	for _, f := range floats {
		if x, err := memory.ReadF64(src, buf+f.offset); err == nil {
			f.pair.Update(x)
			pub.SetVariable(f.name, strconv.FormatFloat(x, 'f', -1, 64))
		}
	}

	if s, err := memory.ReadCString(src, buf+config.BUF_ROOM_NAME, config.STRING_CAP); err == nil {
		v.RoomName.Update(s)
		pub.SetVariable("Room Name (Buffer)", s)
	}

	if b, err := memory.ReadU8(src, buf+config.BUF_END_FADE); err == nil {
		v.EndOfLevel.Update(b != 0)
		pub.SetVariable("End Fade Exists", strconv.FormatUint(uint64(b), 10))
	}

	if b, err := memory.ReadU8(src, buf+config.BUF_BOSS_HP); err == nil {
		v.BossHP.Update(b)
		pub.SetVariable("Boss HP", strconv.FormatUint(uint64(b), 10))
	}
}

func (v *Values) readTable(src memory.Source, table memory.Address, pub resolver.Publisher) error {
	id := v.RoomID.Current
	if id < 0 {
		return fmt.Errorf("%w: negative room id %d", ErrRoomName, id)
	}

	slot := table.Add(int64(id) * config.POINTER_SIZE)
	name, err := memory.ReadPointer(src, slot)
	if err != nil {
		return fmt.Errorf("%w: slot %v: %v", ErrRoomName, slot, err)
	}
	s, err := memory.ReadCString(src, name, config.STRING_CAP)
	if err != nil {
		return fmt.Errorf("%w: name %v: %v", ErrRoomName, name, err)
	}

	v.RoomName.Update(s)
	pub.SetVariable("Room Name (GM Array)", s)
	return nil
}

// FileTime is the file timer in seconds for the current and previous tick.
func (v *Values) FileTime() watch.Pair[float64] {
	return watch.Pair[float64]{
		Old:     v.FileMinutes.Old*60 + v.FileSeconds.Old,
		Current: v.FileMinutes.Current*60 + v.FileSeconds.Current,
	}
}

// LevelTime is the level timer in seconds for the current and previous tick.
func (v *Values) LevelTime() watch.Pair[float64] {
	return watch.Pair[float64]{
		Old:     v.LevelMinutes.Old*60 + v.LevelSeconds.Old,
		Current: v.LevelMinutes.Current*60 + v.LevelSeconds.Current,
	}
}
