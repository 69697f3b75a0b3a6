package rules

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nstehr/tackle/knowledge"
	"github.com/nstehr/tackle/model"
)

// Score adjustments.
const (
	ScoreLow      = 25.0
	ScoreMedium   = 50.0
	ScoreHigh     = 75.0
	ScoreCritical = 100.0
)

const (
	lowStatusHP = 0.3
	lowPP       = 1
)

// MoveScore is the outcome of scoring one legal move.
type MoveScore struct {
	ID      string   `json:"id"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// Reasoning joins the labels of every rule that fired. It is for logs only.
func (m MoveScore) Reasoning() string {
	if len(m.Reasons) == 0 {
		return "standard move"
	}
	return strings.Join(m.Reasons, "; ")
}

// scoreContext is what every move rule sees. Built once per move.
type scoreContext struct {
	snap Snapshot
	own  *model.Combatant
	opp  *model.Combatant
	move model.Move
	// effectiveness of the move's type against the opponent; 1.0 if typeless.
	eff     float64
	weights Weights
}

// moveRule returns a score delta and a label. An empty label means the
// rule did not fire.
type moveRule func(c *scoreContext) (float64, string)

type scoringLayer struct {
	name    string
	enabled func(RuleToggles) bool
	apply   moveRule
}

// scoringLayers run in order and their deltas are summed.
var scoringLayers = []scoringLayer{
	{"type", func(t RuleToggles) bool { return t.Type }, typeRule},
	{"lethality", func(t RuleToggles) bool { return t.Lethality }, lethalityRule},
	{"status", func(t RuleToggles) bool { return t.Status }, statusRule},
	{"resource", func(t RuleToggles) bool { return t.Resource }, resourceRule},
	{"setup", func(t RuleToggles) bool { return t.Setup }, setupRule},
	{"hazard", func(t RuleToggles) bool { return t.Hazard }, hazardRule},
	{"priority", func(t RuleToggles) bool { return t.Priority }, priorityRule},
	{"meta_counter", func(t RuleToggles) bool { return t.MetaCounter }, metaCounterRule},
}

// ScoreMove scores one move for the current matchup. It has no side
// effects: identical inputs give identical results.
func ScoreMove(s Snapshot, moveID string, rs Ruleset) MoveScore {
	if s.OwnActive == nil || s.OpponentActive == nil {
		return MoveScore{ID: moveID, Reasons: []string{"no active combatant"}}
	}
	move, ok := s.OwnActive.FindMove(moveID)
	if !ok {
		return MoveScore{ID: moveID, Reasons: []string{"move not found"}}
	}

	c := &scoreContext{
		snap:    s,
		own:     s.OwnActive,
		opp:     s.OpponentActive,
		move:    move,
		eff:     1.0,
		weights: rs.Weights,
	}
	if move.Type != "" {
		c.eff = knowledge.Effectiveness(move.Type, c.opp.Types)
	}

	ms := MoveScore{ID: moveID, Score: ScoreMedium}
	for _, l := range scoringLayers {
		if !l.enabled(rs.Rules) {
			continue
		}
		delta, label := l.apply(c)
		if label == "" {
			continue
		}
		slog.Debug("move rule fired", "move", moveID, "rule", l.name, "delta", delta)
		ms.Score += delta
		ms.Reasons = append(ms.Reasons, label)
	}
	return ms
}

func typeRule(c *scoreContext) (float64, string) {
	if c.move.Type == "" {
		return 0, ""
	}
	switch {
	case c.eff >= 2.0:
		return ScoreHigh, "super effective"
	case c.eff <= 0.5:
		return -ScoreMedium, "not very effective"
	}
	return 0, ""
}

func lethalityRule(c *scoreContext) (float64, string) {
	if c.move.BasePower <= 0 {
		return 0, ""
	}
	lo, hi := knowledge.EstimateDamage(c.own.Stats, c.opp.Stats, c.move.BasePower, c.eff, c.move.IsPhysical())
	oppHP := c.opp.HPFraction * float64(c.opp.Stats.Resolved().HP)
	switch {
	case float64(hi) >= oppHP:
		return ScoreCritical, "potential knockout"
	case float64(lo) >= oppHP*0.8:
		return ScoreHigh, "high damage potential"
	}
	return 0, ""
}

func statusRule(c *scoreContext) (float64, string) {
	if !c.move.IsStatus() {
		return 0, ""
	}
	if c.own.HPFraction < lowStatusHP {
		return -ScoreMedium, "avoid status while critical"
	}
	if knowledge.IsHealingMove(c.move.ID) {
		return ScoreHigh, "healing move"
	}
	return 0, ""
}

func resourceRule(c *scoreContext) (float64, string) {
	if c.move.PP != nil && *c.move.PP <= lowPP {
		return -ScoreLow, "low PP"
	}
	return 0, ""
}

func setupRule(c *scoreContext) (float64, string) {
	if !knowledge.IsSetupMove(c.move.ID) {
		return 0, ""
	}
	opportunity, why := setupOpportunity(c)
	if opportunity == 0 {
		return 0, ""
	}
	return opportunity * c.weights.Setup, "setup opportunity: " + strings.Join(why, ", ")
}

func setupOpportunity(c *scoreContext) (float64, []string) {
	var score float64
	var why []string
	if knowledge.IsPassiveWall(c.opp.Species) {
		score += 2.0
		why = append(why, "passive opponent")
	}
	if c.opp.HPFraction < 0.4 {
		score += 1.5
		why = append(why, "weakened opponent")
	}
	if c.own.HPFraction > 0.8 {
		score += 1.0
		why = append(why, "healthy setup")
	}
	if c.snap.Team.AliveCount >= c.snap.OpponentAlive {
		score += 1.0
		why = append(why, "numbers advantage")
	}
	return score, why
}

func hazardRule(c *scoreContext) (float64, string) {
	if !knowledge.IsHazardMove(c.move.ID) {
		return 0, ""
	}
	value, why := hazardValue(c)
	if value == 0 {
		return 0, ""
	}
	return value * c.weights.Hazard, "hazard value: " + strings.Join(why, ", ")
}

// hazardValue rates laying hazards at all, over every hazard move the
// active combatant knows, not just the one being scored.
func hazardValue(c *scoreContext) (float64, []string) {
	var value float64
	var why []string
	if c.snap.Turn <= 2 {
		value += 2.0
		why = append(why, "early game")
	}
	for _, m := range c.own.Moves {
		id := model.ToID(m.ID)
		p := knowledge.HazardPriority(id)
		if p == 0 || c.snap.Field.OpponentHas(id) {
			continue
		}
		value += p
		why = append(why, fmt.Sprintf("need %s", id))
	}
	if c.snap.OpponentAlive >= 4 {
		value += 1.5
		why = append(why, "multiple targets")
	}
	return value, why
}

func priorityRule(c *scoreContext) (float64, string) {
	if knowledge.IsPriorityMove(c.move.ID) && c.snap.Team.AliveCount <= 2 {
		return c.weights.Priority, "priority move in endgame"
	}
	return 0, ""
}

func metaCounterRule(c *scoreContext) (float64, string) {
	if !knowledge.IsAntiSetupMove(c.move.ID) {
		return 0, ""
	}
	set, ok := knowledge.LookupSet(c.opp.Species)
	if !ok || set.Role != knowledge.SetupSweeper {
		return 0, ""
	}
	return c.weights.MetaCounter, "counter setup sweeper"
}
