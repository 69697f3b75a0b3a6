package rules

import (
	"fmt"
	"math/rand"

	"github.com/nstehr/tackle/model"
)

type ActionKind string

const (
	KindMove   ActionKind = "move"
	KindSwitch ActionKind = "switch"
	// KindDefault asks the client to pick for us (Showdown "/choose default").
	KindDefault ActionKind = "default"
)

// Action is the single order emitted per turn. Exactly one of Move or
// Switch is set, matching Kind; neither is set for KindDefault.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Move   string     `json:"move,omitempty"`
	Switch string     `json:"switch,omitempty"`
}

func UseMove(id string) Action     { return Action{Kind: KindMove, Move: id} }
func SwitchTo(name string) Action { return Action{Kind: KindSwitch, Switch: name} }
func DefaultAction() Action       { return Action{Kind: KindDefault} }

func (a Action) String() string {
	switch a.Kind {
	case KindMove:
		return fmt.Sprintf("move %s", a.Move)
	case KindSwitch:
		return fmt.Sprintf("switch %s", a.Switch)
	default:
		return "default"
	}
}

// Fallback picks an action when the engine has nothing better: no legal
// moves and no switch worth making.
type Fallback func(state model.BattleState) Action

// RandomFallback returns a Fallback choosing uniformly among the legal
// moves and switches the client listed. The rng is not locked; use one
// fallback per session.
func RandomFallback(rng *rand.Rand) Fallback {
	return func(state model.BattleState) Action {
		n := len(state.AvailableMoves) + len(state.AvailableSwitches)
		if n == 0 {
			return DefaultAction()
		}
		i := rng.Intn(n)
		if i < len(state.AvailableMoves) {
			return UseMove(state.AvailableMoves[i])
		}
		return SwitchTo(state.AvailableSwitches[i-len(state.AvailableMoves)])
	}
}

func fallbackAction(fb Fallback, state model.BattleState) Action {
	if fb == nil {
		return DefaultAction()
	}
	return fb(state)
}
