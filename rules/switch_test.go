package rules

import (
	"strings"
	"testing"

	"github.com/nstehr/tackle/model"
)

func TestAdviseSwitchEmergencyResist(t *testing.T) {
	state := battle(8, mon("Kyogre", 1, "water"),
		mon("Charizard", 0.20, "fire"),
		mon("Groudon", 1, "ground"),
		mon("Venusaur", 1, "grass"),
	)
	advice := AdviseSwitch(Assess(state), state.Team)
	if !advice.Switch {
		t.Fatalf("expected a switch, got %+v", advice)
	}
	if !strings.Contains(advice.Reason, "water") {
		t.Errorf("reason %q should mention the threatening type", advice.Reason)
	}
	if advice.Target != "Venusaur" {
		t.Errorf("target = %q, want Venusaur", advice.Target)
	}
}

func TestAdviseSwitchSkipsFaintedAndActive(t *testing.T) {
	fainted := mon("Ferrothorn", 0, "grass", "steel")
	fainted.Fainted = true
	state := battle(8, mon("Kyogre", 1, "water"),
		mon("Charizard", 0.20, "fire"),
		fainted,
		mon("Toxapex", 1, "poison", "water"),
	)
	advice := AdviseSwitch(Assess(state), state.Team)
	if advice.Target != "Toxapex" {
		t.Errorf("target = %q, want Toxapex", advice.Target)
	}
}

func TestAdviseSwitchProactive(t *testing.T) {
	state := battle(8, mon("Swampert", 1, "water", "ground"),
		mon("Heatran", 0.95, "fire", "steel"),
		mon("Blissey", 1, "normal"),
		mon("Ferrothorn", 1, "grass", "steel"),
		mon("Venusaur", 1, "grass", "poison"),
	)
	advice := AdviseSwitch(Assess(state), state.Team)
	want := SwitchAdvice{Switch: true, Reason: "better matchup available", Target: "Ferrothorn"}
	if advice != want {
		t.Errorf("advice = %+v, want %+v", advice, want)
	}

	// A single super effective type scores exactly 2, which is enough.
	state = battle(8, mon("Kyogre", 1, "water"),
		mon("Heatran", 0.95, "fire", "steel"),
		mon("Ferrothorn", 1, "grass", "steel"),
	)
	if got := matchupThreat([]string{"water"}, []string{"fire", "steel"}); got != 2 {
		t.Errorf("matchupThreat = %d, want 2", got)
	}
	if advice := AdviseSwitch(Assess(state), state.Team); advice != want {
		t.Errorf("threat of exactly 2: advice = %+v, want %+v", advice, want)
	}
}

func TestMatchupThreatNeutralTypes(t *testing.T) {
	// Neutral hits add nothing, however many types the attacker has.
	if got := matchupThreat([]string{"normal", "fighting"}, []string{"water"}); got != 0 {
		t.Errorf("matchupThreat = %d, want 0", got)
	}
	if got := matchupThreat([]string{"electric", "rock"}, []string{"water", "flying"}); got != 4 {
		t.Errorf("matchupThreat = %d, want 4", got)
	}
}

func TestAdviseSwitchStayIn(t *testing.T) {
	tests := []struct {
		name  string
		state model.BattleState
	}{
		{"neutral matchup", battle(3, mon("Blissey", 1, "normal"), mon("Charizard", 1, "fire"), mon("Venusaur", 1, "grass"))},
		{"bad matchup but hurt", battle(3, mon("Kyogre", 1, "water"), mon("Charizard", 0.5, "fire"), mon("Venusaur", 1, "grass"))},
		{"bad matchup at exactly 0.8", battle(3, mon("Swampert", 1, "water", "ground"),
			mon("Heatran", 0.8, "fire", "steel"), mon("Ferrothorn", 1, "grass", "steel"))},
		{"two neutral types", battle(3, mon("Lucario", 1, "fighting", "steel"),
			mon("Suicune", 1, "water"), mon("Ferrothorn", 1, "grass", "steel"))},
		{"no resist on bench", battle(3, mon("Kyogre", 1, "water"), mon("Charizard", 0.1, "fire"), mon("Groudon", 1, "ground"))},
	}
	for _, tc := range tests {
		advice := AdviseSwitch(Assess(tc.state), tc.state.Team)
		if advice != (SwitchAdvice{Reason: "stay in"}) {
			t.Errorf("%s: advice = %+v, want stay in", tc.name, advice)
		}
	}
}

func TestAdviseSwitchNoBattleState(t *testing.T) {
	state := battle(3, mon("Kyogre", 1, "water"), mon("Charizard", 0.1, "fire"), mon("Venusaur", 1, "grass"))
	state.OpponentActive = nil
	advice := AdviseSwitch(Assess(state), state.Team)
	if advice.Switch || advice.Reason != "no battle state" {
		t.Errorf("advice = %+v, want no battle state", advice)
	}
}

func TestValidSwitchTarget(t *testing.T) {
	fainted := mon("Arceus", 0, "normal")
	fainted.Fainted = true
	state := battle(3, mon("Kyogre", 1, "water"), mon("Charizard", 0.1, "fire"), mon("Venusaur", 1, "grass"), fainted)

	tests := []struct {
		target    string
		available []string
		want      bool
	}{
		{"Venusaur", nil, true},
		{"venusaur", []string{"Venusaur"}, true},
		{"Venusaur", []string{"Blissey"}, false},
		{"Arceus", nil, false},
		{"Charizard", nil, false},
		{"Missingno", nil, false},
		{"", nil, false},
	}
	for _, tc := range tests {
		state.AvailableSwitches = tc.available
		if got := validSwitchTarget(state, tc.target); got != tc.want {
			t.Errorf("validSwitchTarget(%q, %v) = %v, want %v", tc.target, tc.available, got, tc.want)
		}
	}
}
