package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Strategy is the high-level mode chosen for a turn.
type Strategy string

const (
	EmergencySwitch   Strategy = "emergency_switch"
	DesperateAttack   Strategy = "desperate_attack"
	EndgameCareful    Strategy = "endgame_careful"
	EarlyGameSetup    Strategy = "early_game_setup"
	MidGameAggressive Strategy = "mid_game_aggressive"
)

// Strategies lists every label in classifier priority order.
var Strategies = []Strategy{EmergencySwitch, DesperateAttack, EndgameCareful, EarlyGameSetup, MidGameAggressive}

// StrategyRules generates the classifier rules for a ruleset. Conditions
// are built via fmt.Sprintf from validated thresholds, so they always
// compile.
func StrategyRules(rs Ruleset) []*Rule {
	rs.Validate()
	return []*Rule{
		{
			Name:         "emergency-switch",
			Priority:     500,
			ConditionSrc: `Threat == "critical" && SwitchCount > 0`,
			Strategy:     EmergencySwitch,
		},
		{
			Name:         "desperate-attack",
			Priority:     400,
			ConditionSrc: `Threat == "critical"`,
			Strategy:     DesperateAttack,
		},
		{
			Name:         "endgame-careful",
			Priority:     300,
			ConditionSrc: fmt.Sprintf(`AliveCount <= %d`, rs.Thresholds.EndgameAlive),
			Strategy:     EndgameCareful,
		},
		{
			Name:         "early-game-setup",
			Priority:     200,
			ConditionSrc: fmt.Sprintf(`Turn <= %d`, rs.Thresholds.EarlyTurns),
			Strategy:     EarlyGameSetup,
		},
		{
			Name:         "mid-game-aggressive",
			Priority:     100,
			ConditionSrc: `true`,
			Strategy:     MidGameAggressive,
		},
	}
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(StrategyEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}

// classify runs compiled rules in priority order and returns the first
// matching strategy. A rule that fails to evaluate is skipped.
func classify(rules []*Rule, s Snapshot) Strategy {
	env := newStrategyEnv(s)
	for _, r := range rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		if match, ok := result.(bool); ok && match {
			slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "strategy", r.Strategy)
			return r.Strategy
		}
	}
	return MidGameAggressive
}
