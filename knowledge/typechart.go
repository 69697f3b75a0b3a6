// Package knowledge holds the static domain data the rule engine reasons
// over: the type chart, the damage model, and competitive meta tables.
// Everything here is immutable after init and safe to share across sessions.
package knowledge

import "github.com/nstehr/tackle/model"

// typeChart maps attacking type -> defending type -> multiplier.
// Pairs not listed are neutral (1.0).
var typeChart = map[string]map[string]float64{
	"normal":   {"rock": 0.5, "ghost": 0, "steel": 0.5},
	"fire":     {"fire": 0.5, "water": 0.5, "grass": 2, "ice": 2, "bug": 2, "rock": 0.5, "dragon": 0.5, "steel": 2},
	"water":    {"fire": 2, "water": 0.5, "grass": 0.5, "ground": 2, "rock": 2, "dragon": 0.5},
	"electric": {"water": 2, "electric": 0.5, "grass": 0.5, "ground": 0, "flying": 2, "dragon": 0.5},
	"grass":    {"fire": 0.5, "water": 2, "grass": 0.5, "poison": 0.5, "ground": 2, "flying": 0.5, "bug": 0.5, "rock": 2, "dragon": 0.5, "steel": 0.5},
	"ice":      {"fire": 0.5, "water": 0.5, "grass": 2, "ice": 0.5, "ground": 2, "flying": 2, "dragon": 2, "steel": 0.5},
	"fighting": {"normal": 2, "ice": 2, "poison": 0.5, "flying": 0.5, "psychic": 0.5, "bug": 0.5, "rock": 2, "ghost": 0, "dark": 2, "steel": 2, "fairy": 0.5},
	"poison":   {"grass": 2, "poison": 0.5, "ground": 0.5, "rock": 0.5, "ghost": 0.5, "steel": 0, "fairy": 2},
	"ground":   {"fire": 2, "electric": 2, "grass": 0.5, "poison": 2, "flying": 0, "bug": 0.5, "rock": 2, "steel": 2},
	"flying":   {"electric": 0.5, "grass": 2, "ice": 0.5, "fighting": 2, "bug": 2, "rock": 0.5, "steel": 0.5},
	"psychic":  {"fighting": 2, "poison": 2, "psychic": 0.5, "dark": 0, "steel": 0.5},
	"bug":      {"fire": 0.5, "grass": 2, "fighting": 0.5, "poison": 0.5, "flying": 0.5, "psychic": 2, "ghost": 0.5, "dark": 2, "steel": 0.5, "fairy": 0.5},
	"rock":     {"fire": 2, "ice": 2, "fighting": 0.5, "ground": 0.5, "flying": 2, "bug": 2, "steel": 0.5},
	"ghost":    {"normal": 0, "psychic": 2, "ghost": 2, "dark": 0.5},
	"dragon":   {"dragon": 2, "steel": 0.5, "fairy": 0},
	"dark":     {"fighting": 0.5, "psychic": 2, "ghost": 2, "dark": 0.5, "fairy": 0.5},
	"steel":    {"fire": 0.5, "water": 0.5, "electric": 0.5, "ice": 2, "rock": 2, "steel": 0.5, "fairy": 2},
	"fairy":    {"fire": 0.5, "fighting": 2, "poison": 0.5, "dragon": 2, "dark": 2, "steel": 0.5},
}

// Types returns every attacking type in the chart.
func Types() []string {
	out := make([]string, 0, len(typeChart))
	for t := range typeChart {
		out = append(out, t)
	}
	return out
}

// Effectiveness returns the damage multiplier of an attacking type against
// a set of defending types. Unknown attacking types are neutral.
func Effectiveness(attacking string, defending []string) float64 {
	row, ok := typeChart[model.ToID(attacking)]
	if !ok {
		return 1.0
	}
	eff := 1.0
	for _, d := range defending {
		if m, ok := row[model.ToID(d)]; ok {
			eff *= m
		}
	}
	return eff
}

// Category buckets a multiplier for rule conditions and logging.
type Category string

const (
	SuperEffective   Category = "super_effective"
	Effective        Category = "effective"
	Neutral          Category = "neutral"
	NotVeryEffective Category = "not_very_effective"
	NoEffect         Category = "no_effect"
)

func Categorize(multiplier float64) Category {
	switch {
	case multiplier >= 2.0:
		return SuperEffective
	case multiplier > 1.0:
		return Effective
	case multiplier == 1.0:
		return Neutral
	case multiplier > 0.0:
		return NotVeryEffective
	default:
		return NoEffect
	}
}
