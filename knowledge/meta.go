package knowledge

import (
	"strings"

	"github.com/nstehr/tackle/model"
)

// ThreatRole is the job a well-known set performs in the metagame.
type ThreatRole string

const (
	SetupSweeper       ThreatRole = "setup_sweeper"
	PhysicalSweeper    ThreatRole = "physical_sweeper"
	SpecialSweeper     ThreatRole = "special_sweeper"
	SpecialWallBreaker ThreatRole = "special_wall_breaker"
)

// CommonSet describes what a species usually runs in Ubers.
type CommonSet struct {
	LikelyMoves []string
	Counters    []string
	Role        ThreatRole
}

var commonSets = map[string]CommonSet{
	"arceus": {
		LikelyMoves: []string{"judgment", "recover", "calmmind", "taunt"},
		Counters:    []string{"kingambit", "yveltal", "zacian"},
		Role:        SetupSweeper,
	},
	"zaciancrowned": {
		LikelyMoves: []string{"behemothblade", "playrough", "swordsdance", "closecombat"},
		Counters:    []string{"necrozmaduskmane", "hooh", "skarmory"},
		Role:        PhysicalSweeper,
	},
	"calyrexshadow": {
		LikelyMoves: []string{"astralbarrage", "nastyplot", "substitute", "psyshock"},
		Counters:    []string{"yveltal", "kingambit", "blissey"},
		Role:        SpecialSweeper,
	},
	"eternatus": {
		LikelyMoves: []string{"dynamaxcannon", "sludgebomb", "meteorbeam", "agility"},
		Counters:    []string{"hooh", "necrozmaduskmane", "blissey"},
		Role:        SpecialWallBreaker,
	},
}

// LookupSet returns the common set for a species, if it is a known threat.
func LookupSet(species string) (CommonSet, bool) {
	s, ok := commonSets[model.ToID(species)]
	return s, ok
}

// hazardPriority ranks entry hazards by value in Ubers.
var hazardPriority = map[string]float64{
	model.Spikes:      3.0,
	model.StealthRock: 2.0,
	model.ToxicSpikes: 1.0,
}

// HazardPriority returns the value of setting a hazard move, 0 if the move
// is not a hazard.
func HazardPriority(moveID string) float64 {
	return hazardPriority[model.ToID(moveID)]
}

func IsHazardMove(moveID string) bool { return HazardPriority(moveID) > 0 }

var speedTiers = map[string]int{
	"deoxysspeed":   504,
	"mewtwo":        438,
	"calyrexshadow": 416,
	"zaciancrowned": 361,
	"arceus":        339,
}

// SpeedTier returns the known max speed of a species.
func SpeedTier(species string) (int, bool) {
	v, ok := speedTiers[model.ToID(species)]
	return v, ok
}

var (
	setupMoves      = set("swordsdance", "calmmind", "nastyplot", "agility")
	priorityMoves   = set("extremespeed", "suckerpunch", "bulletpunch")
	antiSetupMoves  = set("taunt", "roar", "whirlwind")
	healingKeywords = []string{"heal", "recover"}
	passiveWalls    = []string{"blissey", "toxapex", "skarmory"}
)

func IsSetupMove(moveID string) bool     { return setupMoves[model.ToID(moveID)] }
func IsPriorityMove(moveID string) bool  { return priorityMoves[model.ToID(moveID)] }
func IsAntiSetupMove(moveID string) bool { return antiSetupMoves[model.ToID(moveID)] }

// IsHealingMove matches move IDs containing "heal" or "recover". Healing
// moves named otherwise, such as Soft-Boiled or Roost, are not caught.
func IsHealingMove(moveID string) bool {
	id := model.ToID(moveID)
	for _, k := range healingKeywords {
		if strings.Contains(id, k) {
			return true
		}
	}
	return false
}

// IsPassiveWall reports whether a species is a passive wall that setup
// sweepers can boost in front of. Formes count ("toxapex" in "toxapexmega").
func IsPassiveWall(species string) bool {
	id := model.ToID(species)
	for _, w := range passiveWalls {
		if strings.Contains(id, w) {
			return true
		}
	}
	return false
}

// SetupMoves returns the known setup move IDs.
func SetupMoves() []string { return keys(setupMoves) }

// HazardMoves returns the known hazard move IDs.
func HazardMoves() []string {
	out := make([]string, 0, len(hazardPriority))
	for k := range hazardPriority {
		out = append(out, k)
	}
	return out
}

func set(ids ...string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
