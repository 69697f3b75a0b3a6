package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nstehr/tackle/model"
	"github.com/nstehr/tackle/rules"
)

// EventKind identifies something that changed between two consecutive turns
// of the same battle.
type EventKind string

const (
	EventBattleStarted    EventKind = "battle_started"
	EventOwnFainted       EventKind = "own_fainted"
	EventOpponentFainted  EventKind = "opponent_fainted"
	EventOpponentSwitched EventKind = "opponent_switched"
	EventHazardsSet       EventKind = "hazards_set"
	EventHazardsCleared   EventKind = "hazards_cleared"
	EventThreatEscalated  EventKind = "threat_escalated"
)

// Event is a notable change detected by diffing consecutive turns.
type Event struct {
	Kind   EventKind
	Turn   int
	Detail string
}

// turnSnapshot captures the diffable fields of one turn. The agent keeps the
// previous one per session and compares it against the next turn.
type turnSnapshot struct {
	battleID        string
	turn            int
	ownActive       string
	opponentActive  string
	ownFainted      map[string]bool
	opponentFainted map[string]bool
	ownHazards      map[string]bool
	opponentHazards map[string]bool
	threat          rules.ThreatLevel
}

func takeSnapshot(state model.BattleState, threat rules.ThreatLevel) turnSnapshot {
	snap := turnSnapshot{
		battleID:        state.BattleID,
		turn:            state.Turn,
		ownFainted:      faintedSet(state.Team),
		opponentFainted: faintedSet(state.OpponentTeam),
		ownHazards:      toSet(state.Field.OwnHazards()),
		opponentHazards: toSet(state.Field.OpponentHazards()),
		threat:          threat,
	}
	if state.OwnActive != nil {
		snap.ownActive = state.OwnActive.Name
	}
	if state.OpponentActive != nil {
		snap.opponentActive = state.OpponentActive.Name
	}
	return snap
}

// detectEvents compares the current turn against the previous snapshot. A
// missing snapshot or a different battle ID means a new battle started.
func detectEvents(cur turnSnapshot, prev *turnSnapshot) []Event {
	if prev == nil || prev.battleID != cur.battleID {
		return []Event{{
			Kind:   EventBattleStarted,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("Battle %s started", cur.battleID),
		}}
	}

	var events []Event

	// 1. own_fainted / opponent_fainted: members newly marked fainted
	for _, name := range newlyTrue(prev.ownFainted, cur.ownFainted) {
		events = append(events, Event{
			Kind:   EventOwnFainted,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("Lost %s", name),
		})
	}
	for _, name := range newlyTrue(prev.opponentFainted, cur.opponentFainted) {
		events = append(events, Event{
			Kind:   EventOpponentFainted,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("Knocked out %s", name),
		})
	}

	// 2. opponent_switched: a different opponent is in, and the old one did
	// not just faint (that is a forced replacement, already reported).
	if prev.opponentActive != "" && cur.opponentActive != "" &&
		model.ToID(prev.opponentActive) != model.ToID(cur.opponentActive) &&
		!cur.opponentFainted[prev.opponentActive] {
		events = append(events, Event{
			Kind:   EventOpponentSwitched,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("Opponent switched %s → %s", prev.opponentActive, cur.opponentActive),
		})
	}

	// 3. hazards_set / hazards_cleared on either side
	if set := newlyTrue(prev.opponentHazards, cur.opponentHazards); len(set) > 0 {
		events = append(events, Event{
			Kind:   EventHazardsSet,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("Opponent side: %s", strings.Join(set, ", ")),
		})
	}
	if set := newlyTrue(prev.ownHazards, cur.ownHazards); len(set) > 0 {
		events = append(events, Event{
			Kind:   EventHazardsSet,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("Our side: %s", strings.Join(set, ", ")),
		})
	}
	if gone := newlyTrue(cur.ownHazards, prev.ownHazards); len(gone) > 0 {
		events = append(events, Event{
			Kind:   EventHazardsCleared,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("Our side cleared: %s", strings.Join(gone, ", ")),
		})
	}

	// 4. threat_escalated: same combatant, now in critical danger
	if prev.ownActive == cur.ownActive && prev.threat != rules.ThreatCritical && cur.threat == rules.ThreatCritical {
		events = append(events, Event{
			Kind:   EventThreatEscalated,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("%s is at critical HP", cur.ownActive),
		})
	}

	return events
}

// newlyTrue returns the keys set in cur but not in prev, sorted.
func newlyTrue(prev, cur map[string]bool) []string {
	var out []string
	for k, v := range cur {
		if v && !prev[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func faintedSet(team model.Team) map[string]bool {
	set := make(map[string]bool)
	for _, c := range team {
		if c.Fainted {
			set[c.Name] = true
		}
	}
	return set
}

func toSet(ss []string) map[string]bool {
	set := make(map[string]bool, len(ss))
	for _, s := range ss {
		set[s] = true
	}
	return set
}

// formatEvents renders events on one line for the session log.
func formatEvents(events []Event) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, fmt.Sprintf("[turn %d] %s: %s", e.Turn, e.Kind, e.Detail))
	}
	return strings.Join(parts, "; ")
}
