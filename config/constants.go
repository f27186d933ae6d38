package config

import "time"

const MAIN_MODULE = "PizzaTower.exe"

// Signatures
const (
	// mov [rip+disp32], edi ; cmp rbx, [...]  -- writes the current room id
	SIG_ROOM_ID       = "89 3D ?? ?? ?? ?? 48 3B 1D"
	SIG_ROOM_ID_DISP  = 0x2
	SIG_ROOM_ID_INSTR = 0x6

	// je +0C ; mov rax, [rip+disp32] ; mov rax, [rax+rdx*8]  -- room name array
	SIG_ROOM_NAMES       = "74 0C 48 8B 05 ?? ?? ?? ?? 48 8B 04 D0"
	SIG_ROOM_NAMES_DISP  = 0x5
	SIG_ROOM_NAMES_INSTR = 0x9

	// first 16 of the 32 magic bytes heading the speedrun buffer
	SIG_BUFFER_MAGIC = "C2 5A 17 65 BE 4D DF D6 F2 1C D1 3B A7 A6 1F C3"
)

// Speedrun buffer layout, only present when the game runs with -livesplit
const (
	BUF_GAME_VERSION  = 0x40
	BUF_FILE_MINUTES  = 0x80
	BUF_FILE_SECONDS  = 0x88
	BUF_LEVEL_MINUTES = 0x90
	BUF_LEVEL_SECONDS = 0x98
	BUF_ROOM_NAME     = 0xA0
	BUF_END_FADE      = 0xE0
	BUF_BOSS_HP       = 0xE1
	BUF_SIZE          = 0xE2

	STRING_CAP   = 0x40
	POINTER_SIZE = 0x8
)

// Rooms
const (
	ROOM_INTRO          = "Finalintro"
	ROOM_FIRST          = "tower_entrancehall"
	ROOM_LOADING        = "hub_loadingscreen"
	ROOM_RESULTS        = "rank_room"
	ROOM_TOWER_5        = "tower_5"
	ROOM_FINAL_HALLWAY  = "tower_finalhallway"
	ROOM_BOSS_FAKEPEP   = "boss_fakepep"
	ROOM_FAKEPEP_RETURN = "tower_5"
)

// Rule thresholds, tuned against the game's 60 fps simulation
const (
	ROOM_SPLIT_DWELL   = 2.0
	IL_START_MIN       = 0.07
	IL_START_MAX       = 0.1
	NEW_GAME_THRESHOLD = 1.0
)

// Tick rates
const (
	TPS_SLOW = 10
	TPS_FAST = 60
)

// Timer sinks
const (
	LIVESPLIT_SERVER_ADDR = "localhost:16834"
	LIVESPLIT_ONE_ADDR    = "localhost:16835"
	SINK_TIMEOUT          = 50 * time.Millisecond
	SINK_RETRY            = 3 * time.Second
)

// Screen settings
const (
	SCREEN_WIDTH  = 720
	SCREEN_HEIGHT = 540
)
