package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPresets(t *testing.T) {
	core := CoreRuleset()
	if core.Random || core.Rules.Setup || core.Rules.Hazard || core.Rules.Priority || core.Rules.MetaCounter {
		t.Errorf("core preset enables advanced layers: %+v", core)
	}
	if !core.Rules.Switching || !core.Rules.Type || !core.Rules.Lethality || !core.Rules.Status || !core.Rules.Resource {
		t.Errorf("core preset missing core rules: %+v", core.Rules)
	}

	adv := AdvancedRuleset()
	want := RuleToggles{true, true, true, true, true, true, true, true, true}
	if diff := cmp.Diff(want, adv.Rules); diff != "" {
		t.Errorf("advanced toggles (-want +got):\n%s", diff)
	}
	if adv.Weights != (Weights{Setup: 20, Hazard: 15, Priority: 30, MetaCounter: 25}) {
		t.Errorf("advanced weights = %+v", adv.Weights)
	}

	if !RandomRuleset().Random {
		t.Error("random preset should set Random")
	}

	if got := PresetNames(); !cmp.Equal(got, []string{"advanced", "core", "random"}) {
		t.Errorf("PresetNames() = %v", got)
	}
	if _, err := Preset("aggressive"); err == nil {
		t.Error("Preset(aggressive) should fail")
	}
}

func TestRulesetValidate(t *testing.T) {
	rs := Ruleset{
		Weights:    Weights{Setup: -5, Hazard: 500, Priority: 30, MetaCounter: 1000},
		Thresholds: Thresholds{EndgameAlive: 9, EarlyTurns: -1},
	}
	rs.Validate()
	if rs.Name != "custom" {
		t.Errorf("Name = %q, want custom", rs.Name)
	}
	want := Weights{Setup: 0, Hazard: 100, Priority: 30, MetaCounter: 200}
	if rs.Weights != want {
		t.Errorf("Weights = %+v, want %+v", rs.Weights, want)
	}
	if rs.Thresholds != (Thresholds{EndgameAlive: 6, EarlyTurns: 0}) {
		t.Errorf("Thresholds = %+v", rs.Thresholds)
	}
}

func TestParseRulesetOverridesBase(t *testing.T) {
	doc := []byte(`
base: advanced
name: ubers-ladder
rules:
  hazard: false
weights:
  setup: 10
thresholds:
  endgame_alive: 3
`)
	rs, err := ParseRuleset(doc)
	if err != nil {
		t.Fatalf("ParseRuleset: %v", err)
	}
	want := AdvancedRuleset()
	want.Name = "ubers-ladder"
	want.Rules.Hazard = false
	want.Weights.Setup = 10
	want.Thresholds.EndgameAlive = 3
	if diff := cmp.Diff(want, rs); diff != "" {
		t.Errorf("ruleset mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRulesetDefaultsToCore(t *testing.T) {
	rs, err := ParseRuleset([]byte("thresholds:\n  early_turns: 5\n"))
	if err != nil {
		t.Fatalf("ParseRuleset: %v", err)
	}
	if rs.Name != PresetCore || rs.Rules.Setup || rs.Thresholds.EarlyTurns != 5 {
		t.Errorf("ruleset = %+v", rs)
	}
}

func TestParseRulesetErrors(t *testing.T) {
	if _, err := ParseRuleset([]byte("base: turbo\n")); err == nil {
		t.Error("unknown base should fail")
	}
	if _, err := ParseRuleset([]byte("rules: [oops\n")); err == nil {
		t.Error("malformed yaml should fail")
	}
}

func TestLoadRuleset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ruleset.yaml")
	if err := os.WriteFile(path, []byte("base: random\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rs, err := LoadRuleset(path)
	if err != nil {
		t.Fatalf("LoadRuleset: %v", err)
	}
	if !rs.Random {
		t.Errorf("ruleset = %+v, want random", rs)
	}
	if _, err := LoadRuleset(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
