package autosplit

import "strings"

type Level int

const (
	Unknown Level = iota
	Hub
	ResultsScreen
	Tutorial

	JohnGutter
	Pizzascape
	AncientCheese
	BloodsauceDungeon
	OreganoDesert
	Wasteyard
	FunFarm
	FastfoodSaloon
	CrustCove
	GnomeForest
	DeepDish9
	Golf
	ThePigCity
	PeppibotFactory
	OhShit
	Freezerator
	Pizzascare
	DontMakeASound
	War

	Pepperman
	Vigilante
	Noise
	FakePeppino
	PizzaFace

	TrickyTreat
	SecretWorld
)

var levelNames = map[Level]string{
	Unknown:           "Unknown",
	Hub:               "Hub",
	ResultsScreen:     "Results Screen",
	Tutorial:          "Tutorial",
	JohnGutter:        "John Gutter",
	Pizzascape:        "Pizzascape",
	AncientCheese:     "The Ancient Cheese",
	BloodsauceDungeon: "Bloodsauce Dungeon",
	OreganoDesert:     "Oregano Desert",
	Wasteyard:         "Wasteyard",
	FunFarm:           "Fun Farm",
	FastfoodSaloon:    "Fastfood Saloon",
	CrustCove:         "Crust Cove",
	GnomeForest:       "Gnome Forest",
	DeepDish9:         "Deep-Dish 9",
	Golf:              "GOLF",
	ThePigCity:        "The Pig City",
	PeppibotFactory:   "Peppibot Factory",
	OhShit:            "Oh Shit!",
	Freezerator:       "Refrigerator-Refrigerador-Freezerator",
	Pizzascare:        "Pizzascare",
	DontMakeASound:    "Don't Make A Sound",
	War:               "WAR",
	Pepperman:         "Pepperman",
	Vigilante:         "The Vigilante",
	Noise:             "The Noise",
	FakePeppino:       "Fake Peppino",
	PizzaFace:         "Pizzaface",
	TrickyTreat:       "Tricky Treat",
	SecretWorld:       "Secret World",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return levelNames[Unknown]
}

func (l Level) IsBoss() bool {
	return l >= Pepperman && l <= PizzaFace
}

type prefix struct {
	prefix string
	level  Level
}

// Checked in order; the tutorial lives under the hub's prefix.
var prefixes = []prefix{
	{"tower_tutorial", Tutorial},
	{"tower", Hub},
	{"hub_", Hub},
	{"rank_room", ResultsScreen},

	{"entrance_", JohnGutter},
	{"medieval_", Pizzascape},
	{"ruin_", AncientCheese},
	{"dungeon_", BloodsauceDungeon},
	{"badland_", OreganoDesert},
	{"graveyard_", Wasteyard},
	{"farm_", FunFarm},
	{"saloon_", FastfoodSaloon},
	{"plage_", CrustCove},
	{"forest_", GnomeForest},
	{"space_", DeepDish9},
	{"minigolf_", Golf},
	{"street_", ThePigCity},
	{"industrial_", PeppibotFactory},
	{"sewer_", OhShit},
	{"freezer_", Freezerator},
	{"chateau_", Pizzascare},
	{"kidsparty_", DontMakeASound},
	{"war_", War},

	{"boss_pepperman", Pepperman},
	{"boss_vigilante", Vigilante},
	{"boss_noise", Noise},
	{"boss_fakepep", FakePeppino},
	{"boss_pizzaface", PizzaFace},

	{"trickytreat", TrickyTreat},
	{"secretworld", SecretWorld},
}

// Classify returns the level a room belongs to, or Unknown when no prefix
// matches. Callers keep the previous level for Unknown.
func Classify(room string) Level {
	for _, p := range prefixes {
		if strings.HasPrefix(room, p.prefix) {
			return p.level
		}
	}
	return Unknown
}

// Rooms a level is entered through and left from. The escape sequence ends
// back in these rooms.
var entryRooms = map[string]Level{
	"tower_tutorial1": Tutorial,
	"entrance_1":      JohnGutter,
	"medieval_1":      Pizzascape,
	"ruin_1":          AncientCheese,
	"dungeon_1":       BloodsauceDungeon,
	"badland_1":       OreganoDesert,
	"graveyard_1":     Wasteyard,
	"farm_1":          FunFarm,
	"saloon_1":        FastfoodSaloon,
	"plage_entrance":  CrustCove,
	"forest_1":        GnomeForest,
	"space_1":         DeepDish9,
	"minigolf_1":      Golf,
	"street_intro":    ThePigCity,
	"industrial_1":    PeppibotFactory,
	"sewer_1":         OhShit,
	"freezer_1":       Freezerator,
	"chateau_1":       Pizzascare,
	"kidsparty_1":     DontMakeASound,
	"war_1":           War,
	"trickytreat_1":   TrickyTreat,
	"secretworld_1":   SecretWorld,
}

var bossRooms = map[string]Level{
	"boss_pepperman": Pepperman,
	"boss_vigilante": Vigilante,
	"boss_noise":     Noise,
	"boss_fakepep":   FakePeppino,
	"boss_pizzaface": PizzaFace,
}

func IsEntryRoom(room string) bool {
	_, ok := entryRooms[room]
	return ok
}

func IsBossRoom(room string) bool {
	_, ok := bossRooms[room]
	return ok
}

// IsSplitTrigger reports whether leaving room can end a level.
func IsSplitTrigger(room string) bool {
	return IsEntryRoom(room) || IsBossRoom(room)
}
