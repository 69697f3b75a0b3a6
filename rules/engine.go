package rules

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/nstehr/tackle/model"
)

// Decision is everything the engine worked out for one turn. Only Action
// goes back to the client; the rest feeds logs and the decision recorder.
type Decision struct {
	Snapshot      Snapshot       `json:"snapshot"`
	Strategy      Strategy       `json:"strategy"`
	Advice        *SwitchAdvice  `json:"advice,omitempty"`
	Scores        []MoveScore    `json:"scores,omitempty"`
	WinConditions []WinCondition `json:"winConditions,omitempty"`
	Action        Action         `json:"action"`
}

// Engine turns battle states into actions using a swappable ruleset.
// Decide is safe to call concurrently with Swap.
type Engine struct {
	mu      sync.RWMutex
	ruleset Ruleset
	rules   []*Rule
}

// NewEngine validates the ruleset and compiles its strategy rules.
func NewEngine(rs Ruleset) (*Engine, error) {
	rs.Validate()
	compiled, err := compileRules(StrategyRules(rs))
	if err != nil {
		return nil, err
	}
	return &Engine{ruleset: rs, rules: compiled}, nil
}

// Ruleset returns the active ruleset.
func (e *Engine) Ruleset() Ruleset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ruleset
}

// Swap atomically replaces the ruleset. Compiles first; if compilation
// fails the old rules remain active.
func (e *Engine) Swap(rs Ruleset) error {
	rs.Validate()
	compiled, err := compileRules(StrategyRules(rs))
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.ruleset = rs
	e.rules = compiled
	e.mu.Unlock()
	slog.Info("ruleset swapped", "ruleset", rs.Name, "rules", len(compiled))
	return nil
}

// Decide picks exactly one action for the turn. It never fails: when no
// rule produces an action the fallback decides, and without a fallback
// the client is asked to choose.
func (e *Engine) Decide(state model.BattleState, fallback Fallback) Decision {
	e.mu.RLock()
	rs, rules := e.ruleset, e.rules
	e.mu.RUnlock()

	snap := Assess(state)
	d := Decision{
		Snapshot:      snap,
		Strategy:      classify(rules, snap),
		WinConditions: WinConditions(state.Team),
	}

	if rs.Random {
		d.Action = fallbackAction(fallback, state)
		return d
	}

	if rs.Rules.Switching && (d.Strategy == EmergencySwitch || d.Strategy == EndgameCareful) {
		advice := AdviseSwitch(snap, state.Team)
		d.Advice = &advice
		if advice.Switch && validSwitchTarget(state, advice.Target) {
			d.Action = SwitchTo(advice.Target)
			slog.Debug("switch advised", "target", advice.Target, "reason", advice.Reason)
			return d
		}
	}

	if state.OwnActive != nil && len(state.AvailableMoves) > 0 {
		scores := make([]MoveScore, 0, len(state.AvailableMoves))
		for _, id := range state.AvailableMoves {
			ms := ScoreMove(snap, id, rs)
			slog.Debug("move scored", "move", ms.ID, "score", ms.Score, "reasoning", ms.Reasoning())
			scores = append(scores, ms)
		}
		// Stable: equal scores keep the client's enumeration order.
		sort.SliceStable(scores, func(i, j int) bool {
			return scores[i].Score > scores[j].Score
		})
		d.Scores = scores
		d.Action = UseMove(scores[0].ID)
		return d
	}

	d.Action = fallbackAction(fallback, state)
	return d
}
