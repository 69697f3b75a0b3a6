package knowledge

import (
	"math"

	"github.com/nstehr/tackle/model"
)

// Level is the fixed level assumed by the damage model (competitive standard).
const Level = 50

// Damage roll bounds: the game rolls between 85% and 100% of base damage.
const (
	minRoll = 0.85
	maxRoll = 1.00
)

// EstimateDamage approximates the damage range of a move. It ignores STAB,
// items, abilities, weather and crits; it is a heuristic, not a calculator.
// Unknown stats fall back to model.DefaultStat.
func EstimateDamage(attacker, defender model.Stats, basePower int, effectiveness float64, physical bool) (int, int) {
	if basePower == 0 || effectiveness == 0 {
		return 0, 0
	}
	atk, def := attacker.Resolved(), defender.Resolved()

	a, d := float64(atk.SpecialAttack), float64(def.SpecialDefense)
	if physical {
		a, d = float64(atk.Attack), float64(def.Defense)
	}

	base := ((2.0*Level/5.0+2.0)*float64(basePower)*a/d/50.0 + 2.0) * effectiveness
	return int(math.Floor(base * minRoll)), int(math.Floor(base * maxRoll))
}

// DamagePercentage expresses damage as a percentage of maxHP, capped at 100.
func DamagePercentage(damage, maxHP int) float64 {
	if maxHP == 0 {
		return 0.0
	}
	return math.Min(100.0, float64(damage)/float64(maxHP)*100.0)
}
