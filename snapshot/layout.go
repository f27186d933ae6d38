package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"

	"towersplit/config"
)

var magic = mustMagic()

func mustMagic() []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(config.SIG_BUFFER_MAGIC, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

// Layout is the decoded form of the speedrun buffer the game exposes when
// started with -livesplit.
type Layout struct {
	GameVersion  string
	FileMinutes  float64
	FileSeconds  float64
	LevelMinutes float64
	LevelSeconds float64
	RoomName     string
	EndFade      bool
	BossHP       uint8
}

// Encode returns the buffer bytes, magic included. Strings longer than the
// field capacity are cut so the terminator always fits.
func (l Layout) Encode() []byte {
	buf := make([]byte, config.BUF_SIZE)
	copy(buf, magic)
	putString(buf[config.BUF_GAME_VERSION:], l.GameVersion)
	putFloat(buf[config.BUF_FILE_MINUTES:], l.FileMinutes)
	putFloat(buf[config.BUF_FILE_SECONDS:], l.FileSeconds)
	putFloat(buf[config.BUF_LEVEL_MINUTES:], l.LevelMinutes)
	putFloat(buf[config.BUF_LEVEL_SECONDS:], l.LevelSeconds)
	putString(buf[config.BUF_ROOM_NAME:], l.RoomName)
	if l.EndFade {
		buf[config.BUF_END_FADE] = 1
	}
	buf[config.BUF_BOSS_HP] = l.BossHP
	return buf
}

// DecodeLayout is the inverse of Encode. It does not check the magic.
func DecodeLayout(buf []byte) (Layout, bool) {
	if len(buf) < config.BUF_SIZE {
		return Layout{}, false
	}
	return Layout{
		GameVersion:  getString(buf[config.BUF_GAME_VERSION:]),
		FileMinutes:  getFloat(buf[config.BUF_FILE_MINUTES:]),
		FileSeconds:  getFloat(buf[config.BUF_FILE_SECONDS:]),
		LevelMinutes: getFloat(buf[config.BUF_LEVEL_MINUTES:]),
		LevelSeconds: getFloat(buf[config.BUF_LEVEL_SECONDS:]),
		RoomName:     getString(buf[config.BUF_ROOM_NAME:]),
		EndFade:      buf[config.BUF_END_FADE] != 0,
		BossHP:       buf[config.BUF_BOSS_HP],
	}, true
}

func putString(dst []byte, s string) {
	if len(s) > config.STRING_CAP-1 {
		s = s[:config.STRING_CAP-1]
	}
	copy(dst[:config.STRING_CAP], s)
}

func getString(src []byte) string {
	src = src[:config.STRING_CAP]
	if i := bytes.IndexByte(src, 0); i >= 0 {
		src = src[:i]
	}
	return string(src)
}

func putFloat(dst []byte, f float64) {
	binary.LittleEndian.PutUint64(dst, math.Float64bits(f))
}

func getFloat(src []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(src))
}
