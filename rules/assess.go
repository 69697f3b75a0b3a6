package rules

import "github.com/nstehr/tackle/model"

// ThreatLevel is how much danger our active combatant is in this turn.
type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "low"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
	ThreatUnknown  ThreatLevel = "unknown"
)

// ThreatLevels lists every level in severity order, for histograms.
var ThreatLevels = []ThreatLevel{ThreatLow, ThreatHigh, ThreatCritical, ThreatUnknown}

const (
	criticalHP = 0.25
	highHP     = 0.5
	healthyHP  = 0.5

	// Assumed opponent roster size. The client only reports what has been
	// revealed, so unseen members count as alive.
	fullTeam = 6
)

type TeamStatus struct {
	AliveCount     int      `json:"aliveCount"`
	HealthyCount   int      `json:"healthyCount"`
	SwitchEligible []string `json:"switchEligible"`
}

// Snapshot is the assessed view of one turn. It is rebuilt from scratch
// every turn and never outlives the decision it feeds.
type Snapshot struct {
	Turn           int              `json:"turn"`
	OwnActive      *model.Combatant `json:"ownActive,omitempty"`
	OpponentActive *model.Combatant `json:"opponentActive,omitempty"`
	Team           TeamStatus       `json:"team"`
	OpponentAlive  int              `json:"opponentAlive"`
	Field          model.FieldState `json:"field"`
	Threat         ThreatLevel      `json:"threat"`
}

// Assess derives a Snapshot from the raw battle state.
func Assess(state model.BattleState) Snapshot {
	s := Snapshot{
		Turn:           state.Turn,
		OwnActive:      state.OwnActive,
		OpponentActive: state.OpponentActive,
		Team:           teamStatus(state.Team, state.OwnActive),
		OpponentAlive:  opponentAlive(state.OpponentTeam),
		Field:          state.Field,
		Threat:         assessThreat(state.OwnActive, state.OpponentActive),
	}
	return s
}

// opponentAlive counts the opponent's living members from a possibly partial
// roster: every member not seen fainted is presumed alive.
func opponentAlive(team model.Team) int {
	fainted := len(team) - team.AliveCount()
	return max(fullTeam-fainted, team.AliveCount())
}

func assessThreat(own, opp *model.Combatant) ThreatLevel {
	if own == nil || opp == nil {
		return ThreatUnknown
	}
	switch {
	case own.HPFraction < criticalHP:
		return ThreatCritical
	case own.HPFraction < highHP:
		return ThreatHigh
	default:
		return ThreatLow
	}
}

func teamStatus(team model.Team, active *model.Combatant) TeamStatus {
	ts := TeamStatus{SwitchEligible: []string{}}
	for i := range team {
		c := &team[i]
		if c.Fainted {
			continue
		}
		ts.AliveCount++
		if c.HPFraction > healthyHP {
			ts.HealthyCount++
		}
		if !isActive(c, active) {
			ts.SwitchEligible = append(ts.SwitchEligible, c.Name)
		}
	}
	return ts
}

// isActive treats a roster member as active when it is flagged so or when
// it is the same combatant the client reported as active.
func isActive(c, active *model.Combatant) bool {
	if c.Active {
		return true
	}
	return active != nil && model.ToID(c.Name) == model.ToID(active.Name)
}
