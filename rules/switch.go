package rules

import (
	"fmt"

	"github.com/nstehr/tackle/knowledge"
	"github.com/nstehr/tackle/model"
)

// SwitchAdvice is the SwitchAdvisor's verdict. Target is empty unless
// Switch is true.
type SwitchAdvice struct {
	Switch bool   `json:"switch"`
	Reason string `json:"reason"`
	Target string `json:"target,omitempty"`
}

const (
	emergencyHP = 0.25
	// Proactive switches only leave a healthy combatant.
	proactiveHP = 0.8
)

// AdviseSwitch decides whether to retreat the active combatant and to whom.
//
// Both rules take the first roster member that qualifies rather than the
// best one. Roster order is the client's order, so results are stable.
func AdviseSwitch(s Snapshot, team model.Team) SwitchAdvice {
	own, opp := s.OwnActive, s.OpponentActive
	if own == nil || opp == nil {
		return SwitchAdvice{Reason: "no battle state"}
	}

	// Emergency: nearly fainted and the opponent's STAB hits us super
	// effectively. Look for something that resists that type.
	if own.HPFraction < emergencyHP {
		for _, t := range opp.Types {
			if knowledge.Effectiveness(t, own.Types) < 2.0 {
				continue
			}
			for i := range team {
				c := &team[i]
				if c.Fainted || isActive(c, own) {
					continue
				}
				if knowledge.Effectiveness(t, c.Types) <= 0.5 {
					return SwitchAdvice{Switch: true, Reason: fmt.Sprintf("switch to resist %s", t), Target: c.Name}
				}
			}
		}
	}

	// Proactive: bad matchup while still healthy.
	if matchupThreat(opp.Types, own.Types) >= 2 && own.HPFraction > proactiveHP {
		for i := range team {
			c := &team[i]
			if c.Fainted || isActive(c, own) {
				continue
			}
			if resistScore(opp.Types, c.Types) >= 2 {
				return SwitchAdvice{Switch: true, Reason: "better matchup available", Target: c.Name}
			}
		}
	}

	return SwitchAdvice{Reason: "stay in"}
}

// matchupThreat scores how hard the attacking types hit the defender:
// 2 per super effective type, 1 per merely effective one.
func matchupThreat(attacking, defending []string) int {
	score := 0
	for _, t := range attacking {
		eff := knowledge.Effectiveness(t, defending)
		switch {
		case eff >= 2.0:
			score += 2
		case eff > 1.0:
			score++
		}
	}
	return score
}

// resistScore scores how well the defender takes the attacking types:
// 2 per resisted type, 1 per partially resisted one.
func resistScore(attacking, defending []string) int {
	score := 0
	for _, t := range attacking {
		eff := knowledge.Effectiveness(t, defending)
		switch {
		case eff <= 0.5:
			score += 2
		case eff < 1.0:
			score++
		}
	}
	return score
}

// validSwitchTarget reports whether the named member can actually come in:
// on the roster, alive, not already in, and legal when the client listed
// legal switches.
func validSwitchTarget(state model.BattleState, name string) bool {
	if name == "" {
		return false
	}
	c, ok := state.Team.Find(name)
	if !ok || c.Fainted || isActive(c, state.OwnActive) {
		return false
	}
	if len(state.AvailableSwitches) == 0 {
		return true
	}
	want := model.ToID(name)
	for _, s := range state.AvailableSwitches {
		if model.ToID(s) == want {
			return true
		}
	}
	return false
}
