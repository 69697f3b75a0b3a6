package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nstehr/tackle/model"
)

func TestWinConditions(t *testing.T) {
	fainted := withMoves(mon("Glimmora", 0, "rock", "poison"), stealthRock)
	fainted.Fainted = true
	hurt := withMoves(mon("Zacian-Crowned", 0.3, "fairy", "steel"), swordsDance)

	team := model.Team{
		withMoves(mon("Arceus", 0.9, "normal"), swordsDance, recover),
		withMoves(mon("Ting-Lu", 1, "dark", "ground"), stealthRock),
		hurt,
		fainted,
		withMoves(mon("Calyrex-Shadow", 1, "psychic", "ghost"), taunt),
	}
	team[0].Active = true

	want := []WinCondition{
		{Kind: WinSetupSweep, Viability: 0.7, Members: []string{"Arceus"}},
		{Kind: WinHazardStack, Viability: 0.6, Members: []string{"Ting-Lu"}},
		{Kind: WinRevengeKill, Viability: 0.4, Members: []string{"Arceus", "Zacian-Crowned", "Calyrex-Shadow"}},
	}
	if diff := cmp.Diff(want, WinConditions(team)); diff != "" {
		t.Errorf("WinConditions mismatch (-want +got):\n%s", diff)
	}
}

func TestWinConditionsReportedSpeed(t *testing.T) {
	slow := mon("Blissey", 1, "normal")
	slow.Stats.Speed = 150
	fast := mon("Koraidon", 1, "fighting", "dragon")
	fast.Stats.Speed = 405

	got := WinConditions(model.Team{slow, fast})
	if len(got) != 1 || got[0].Kind != WinRevengeKill || !cmp.Equal(got[0].Members, []string{"Koraidon"}) {
		t.Errorf("WinConditions = %v", got)
	}
	if WinConditions(nil) != nil {
		t.Error("empty roster should have no win conditions")
	}
}

func TestWinConditionsLevelFiftySpeed(t *testing.T) {
	tests := []struct {
		speed int
		fast  bool
	}{
		{150, false}, // 295 at level 100
		{152, false}, // 299
		{153, true},  // 301
		{200, true},
	}
	for _, tc := range tests {
		c := mon("Garchomp", 1, "dragon", "ground")
		c.Stats.Speed = tc.speed
		got := WinConditions(model.Team{c})
		if fast := len(got) == 1 && got[0].Kind == WinRevengeKill; fast != tc.fast {
			t.Errorf("speed %d: revenge kill = %v, want %v (%v)", tc.speed, fast, tc.fast, got)
		}
	}
	if got := levelHundredSpeed(155); got != 305 {
		t.Errorf("levelHundredSpeed(155) = %d, want 305", got)
	}
}

func TestWinConditionsEmpty(t *testing.T) {
	if WinConditions(nil) != nil {
		t.Error("empty roster should have no win conditions")
	}
}
