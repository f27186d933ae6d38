// Package resolver turns signature matches in the game's code into the
// addresses of the fields the auto-splitter reads.
package resolver

import (
	"errors"
	"fmt"
	"strconv"

	"towersplit/config"
	"towersplit/logger"
	"towersplit/memory"
	"towersplit/signature"
)

var (
	ErrNotFound     = errors.New("signature not found")
	ErrDisplacement = errors.New("could not read displacement")
	ErrTablePointer = errors.New("could not read table pointer")
)

var (
	roomIDSig    = signature.MustParse(config.SIG_ROOM_ID)
	roomNamesSig = signature.MustParse(config.SIG_ROOM_NAMES)
	bufferSig    = signature.MustParse(config.SIG_BUFFER_MAGIC)
)

// Publisher receives named values for display.
type Publisher interface {
	SetVariable(name, value string)
}

// Addresses found for one attached process. Module is always known once
// attached; the others may be missing.
type Addresses struct {
	Module    memory.Address
	RoomID    memory.Optional // relative to Module
	RoomNames memory.Optional
	Buffer    memory.Optional
}

// Usable reports whether the snapshot reader has what it needs: the room id
// and at least one source of room names.
func (a Addresses) Usable() bool {
	return a.RoomID.IsSet() && (a.Buffer.IsSet() || a.RoomNames.IsSet())
}

// ripTarget reads the signed 32-bit displacement at match+dispOff and returns
// the address it points at, relative to the end of the instruction.
func ripTarget(src memory.Source, match memory.Address, dispOff, instrLen int64) (memory.Address, error) {
	disp, err := memory.ReadI32(src, match.Add(dispOff))
	if err != nil {
		return 0, err
	}
	return match.Add(instrLen + int64(disp)), nil
}

// RoomID finds the module-relative offset of the current room id.
func RoomID(src memory.Source, regions []memory.Region, module memory.Address, pub Publisher) (memory.Address, error) {
	logger.Log("resolver", "starting the room id signature scan...")

	match, ok := roomIDSig.Scan(src, regions, signature.Reverse)
	if !ok {
		logger.Log("resolver", "could NOT complete the room id scan")
		return 0, fmt.Errorf("room id: %w", ErrNotFound)
	}

	target, err := ripTarget(src, match, config.SIG_ROOM_ID_DISP, config.SIG_ROOM_ID_INSTR)
	if err != nil {
		logger.Log("resolver", "could not find offset for room id")
		return 0, fmt.Errorf("room id at %v: %w: %v", match, ErrDisplacement, err)
	}

	offset := target - module
	pub.SetVariable("Room Id Address", strconv.FormatUint(uint64(offset), 10))
	logger.Logf("resolver", "room id signature scan complete (module+%v)", offset)
	return offset, nil
}

// Buffer finds the speedrun buffer by its magic bytes. The match is the
// buffer itself.
func Buffer(src memory.Source, regions []memory.Region, pub Publisher) (memory.Address, error) {
	logger.Log("resolver", "starting the helper buffer signature scan...")

	match, ok := bufferSig.Scan(src, regions, signature.Forward)
	if !ok {
		logger.Log("resolver", `could not complete the buffer helper sigscan. Is the "-livesplit" launch option set?`)
		logger.Log("resolver", "continuing with the basic real time and split features")
		return 0, fmt.Errorf("buffer: %w", ErrNotFound)
	}

	pub.SetVariable("Buffer address", strconv.FormatUint(uint64(match), 10))
	logger.Logf("resolver", "buffer sigscan complete (%v)", match)
	return match, nil
}

// RoomNames finds the base of the array mapping room id to room name
// pointer.
func RoomNames(src memory.Source, regions []memory.Region, pub Publisher) (memory.Address, error) {
	logger.Log("resolver", "starting the name array signature scan...")

	match, ok := roomNamesSig.Scan(src, regions, signature.Reverse)
	if !ok {
		logger.Log("resolver", "could not find signature for room names array")
		return 0, fmt.Errorf("room names: %w", ErrNotFound)
	}

	slot, err := ripTarget(src, match, config.SIG_ROOM_NAMES_DISP, config.SIG_ROOM_NAMES_INSTR)
	if err != nil {
		logger.Log("resolver", "could not read offset to find the room names array")
		return 0, fmt.Errorf("room names at %v: %w: %v", match, ErrDisplacement, err)
	}

	table, err := memory.ReadPointer(src, slot)
	if err != nil {
		logger.Log("resolver", "could not read the array address")
		return 0, fmt.Errorf("room names slot %v: %w: %v", slot, ErrTablePointer, err)
	}

	pub.SetVariable("Room names array", strconv.FormatUint(uint64(slot), 10))
	logger.Log("resolver", "room name array signature scan complete")
	return table, nil
}
