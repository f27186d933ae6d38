// Command scan runs the three address resolvers once and dumps what they
// find. It attaches to the running game, replays a raw memory dump, or
// checks itself against a synthetic image.
package main

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"towersplit/config"
	"towersplit/memory"
	"towersplit/process"
	"towersplit/resolver"
	"towersplit/snapshot"
	"towersplit/timer"
)

func main() {
	imagePath := flag.String("image", "", "raw memory dump to scan instead of the running game")
	baseFlag := flag.String("base", "0x140000000", "address the dump starts at, also used as module base")
	selfCheck := flag.Bool("selfcheck", false, "scan a synthetic image and verify the decoded buffer")
	flag.Parse()

	fmt.Println("=== towersplit signature scan ===")
	fmt.Println()

	var (
		src    memory.Source
		module memory.Address
		want   *snapshot.Layout
	)

	switch {
	case *selfCheck:
		img, layout := syntheticGame()
		src, module, want = img, syntheticModule, &layout
	case *imagePath != "":
		base, err := strconv.ParseUint(*baseFlag, 0, 64)
		if err != nil {
			fail("bad -base: %v", err)
		}
		data, err := os.ReadFile(*imagePath)
		if err != nil {
			fail("%v", err)
		}
		img := memory.NewImage()
		img.Map(memory.Address(base), data)
		src, module = img, memory.Address(base)
		fmt.Printf("%s: %d bytes at 0x%X\n", *imagePath, len(data), base)
	default:
		p, err := process.Open(config.MAIN_MODULE)
		if err != nil {
			fail("%v", err)
		}
		defer p.Close()
		src, module = p, p.Module()
		fmt.Printf("%s pid %d, module 0x%X\n", config.MAIN_MODULE, p.Pid(), uint64(module))
	}

	board := timer.NewBoard(timer.NewLocal())
	got, err := scan(src, module, board)

	fmt.Println()
	fmt.Println("--- Variables ---")
	for _, v := range board.Variables() {
		fmt.Printf("%-22s %s\n", v.Name, v.Value)
	}

	if err != nil {
		fail("%v", err)
	}
	if want != nil {
		if got == nil || *got != *want {
			fail("self check: decoded %+v, want %+v", got, want)
		}
		fmt.Println()
		fmt.Println("self check ok")
	}
}

func scan(src memory.Source, module memory.Address, board *timer.Board) (*snapshot.Layout, error) {
	regions, err := src.Regions()
	if err != nil {
		return nil, err
	}
	var total uint64
	for _, r := range regions {
		total += r.Size
	}
	fmt.Printf("%d readable regions, %d MiB\n", len(regions), total>>20)

	addrs := resolver.Addresses{Module: module}
	if off, err := resolver.RoomID(src, regions, module, board); err == nil {
		addrs.RoomID = memory.Some(off)
	}
	if buf, err := resolver.Buffer(src, regions, board); err == nil {
		addrs.Buffer = memory.Some(buf)
	}
	if table, err := resolver.RoomNames(src, regions, board); err == nil {
		addrs.RoomNames = memory.Some(table)
	}

	fmt.Println()
	fmt.Printf("room id:    %v (module relative)\n", addrs.RoomID)
	fmt.Printf("buffer:     %v\n", addrs.Buffer)
	fmt.Printf("room names: %v\n", addrs.RoomNames)

	if !addrs.Usable() {
		return nil, errors.New("not enough addresses to run")
	}

	values := snapshot.New()
	if err := values.Refresh(src, addrs, board); err != nil {
		return nil, err
	}
	fmt.Printf("room:       %d %q\n", values.RoomID.Current, values.RoomName.Current)

	buf, ok := addrs.Buffer.Get()
	if !ok {
		return nil, nil
	}
	raw, err := memory.ReadBytes(src, buf, config.BUF_SIZE)
	if err != nil {
		return nil, fmt.Errorf("reading buffer: %w", err)
	}
	fmt.Println()
	fmt.Println("--- Buffer ---")
	fmt.Print(hex.Dump(raw))

	layout, _ := snapshot.DecodeLayout(raw)
	fmt.Printf("%+v\n", layout)
	return &layout, nil
}

const (
	syntheticModule = memory.Address(0x140000000)
	syntheticRoom   = syntheticModule + 0x2000
	syntheticBuffer = memory.Address(0x10000000)
)

// syntheticGame lays out the instruction the room id resolver looks for and
// a filled speedrun buffer.
func syntheticGame() (*memory.Image, snapshot.Layout) {
	img := memory.NewImage()

	code := make([]byte, 0x40)
	at := syntheticModule + 0x1000
	copy(code[0x10:], []byte{0x89, 0x3D, 0, 0, 0, 0, 0x48, 0x3B, 0x1D})
	disp := int32(int64(syntheticRoom) - int64(at+0x10) - config.SIG_ROOM_ID_INSTR)
	binary.LittleEndian.PutUint32(code[0x10+config.SIG_ROOM_ID_DISP:], uint32(disp))
	img.Map(at, code)

	room := make([]byte, 4)
	binary.LittleEndian.PutUint32(room, 42)
	img.Map(syntheticRoom, room)

	layout := snapshot.Layout{
		GameVersion:  "selfcheck",
		FileMinutes:  12,
		FileSeconds:  34.5,
		LevelMinutes: 1,
		LevelSeconds: 2.25,
		RoomName:     "medieval_3",
		EndFade:      true,
		BossHP:       3,
	}
	img.Map(syntheticBuffer, layout.Encode())
	return img, layout
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "scan: "+format+"\n", args...)
	os.Exit(1)
}
