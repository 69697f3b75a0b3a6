package rules

import (
	"fmt"
	"sort"

	"github.com/nstehr/tackle/knowledge"
	"github.com/nstehr/tackle/model"
)

// WinCondition is a route to winning the battle that the roster supports.
type WinCondition struct {
	Kind      string   `json:"kind"`
	Viability float64  `json:"viability"`
	Members   []string `json:"members"`
}

func (w WinCondition) String() string {
	return fmt.Sprintf("%s (%.1f) with %v", w.Kind, w.Viability, w.Members)
}

const (
	WinSetupSweep  = "setup_sweep"
	WinHazardStack = "hazard_stack"
	WinRevengeKill = "revenge_kill"

	setupSweepHP = 0.6
	// Level-100 speed above which a member can reliably clean up weakened
	// targets. The speed-tier table is at level 100 too.
	fastSpeed = 300
)

// WinConditions lists the routes to victory the living roster offers,
// most viable first. It is informational and never changes a decision.
func WinConditions(team model.Team) []WinCondition {
	var out []WinCondition
	var setters, fast []string

	for i := range team {
		c := &team[i]
		if c.Fainted {
			continue
		}
		if c.HPFraction > setupSweepHP && knowsAny(c, knowledge.IsSetupMove) {
			viability := 0.5
			if c.Active {
				viability = 0.7
			}
			out = append(out, WinCondition{Kind: WinSetupSweep, Viability: viability, Members: []string{c.Name}})
		}
		if knowsAny(c, knowledge.IsHazardMove) {
			setters = append(setters, c.Name)
		}
		if speedOf(c) > fastSpeed {
			fast = append(fast, c.Name)
		}
	}
	if len(setters) > 0 {
		out = append(out, WinCondition{Kind: WinHazardStack, Viability: 0.6, Members: setters})
	}
	if len(fast) > 0 {
		out = append(out, WinCondition{Kind: WinRevengeKill, Viability: 0.4, Members: fast})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Viability > out[j].Viability
	})
	return out
}

func knowsAny(c *model.Combatant, pred func(string) bool) bool {
	for _, m := range c.Moves {
		if pred(m.ID) {
			return true
		}
	}
	return false
}

// speedOf returns a level-100 speed. It prefers the reported stat and falls
// back to the species' known speed tier. Zero means unknown.
func speedOf(c *model.Combatant) int {
	if c.Stats.Speed > 0 {
		return levelHundredSpeed(c.Stats.Speed)
	}
	if v, ok := knowledge.SpeedTier(c.Species); ok {
		return v
	}
	return 0
}

// levelHundredSpeed rescales a reported speed, taken to be at
// knowledge.Level like every other reported stat, to level 100. The +5 is
// the flat bonus every non-HP stat gets regardless of level.
func levelHundredSpeed(stat int) int {
	return (stat-5)*100/knowledge.Level + 5
}
