package rules

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// RuleToggles switch individual decision rules on or off.
type RuleToggles struct {
	Switching   bool `yaml:"switching" json:"switching"`
	Type        bool `yaml:"type" json:"type"`
	Lethality   bool `yaml:"lethality" json:"lethality"`
	Status      bool `yaml:"status" json:"status"`
	Resource    bool `yaml:"resource" json:"resource"`
	Setup       bool `yaml:"setup" json:"setup"`
	Hazard      bool `yaml:"hazard" json:"hazard"`
	Priority    bool `yaml:"priority" json:"priority"`
	MetaCounter bool `yaml:"meta_counter" json:"meta_counter"`
}

// Weights scale the advanced scoring layers.
type Weights struct {
	Setup       float64 `yaml:"setup" json:"setup"`
	Hazard      float64 `yaml:"hazard" json:"hazard"`
	Priority    float64 `yaml:"priority" json:"priority"`
	MetaCounter float64 `yaml:"meta_counter" json:"meta_counter"`
}

type Thresholds struct {
	EndgameAlive int `yaml:"endgame_alive" json:"endgame_alive"`
	EarlyTurns   int `yaml:"early_turns" json:"early_turns"`
}

// Ruleset configures the whole decision pipeline. The presets cover the
// common cases; custom rulesets start from a preset and override fields.
type Ruleset struct {
	Name string `yaml:"name" json:"name"`
	// Random skips assessment-driven selection and always defers to the
	// fallback. Used as a baseline opponent.
	Random     bool        `yaml:"random" json:"random"`
	Rules      RuleToggles `yaml:"rules" json:"rules"`
	Weights    Weights     `yaml:"weights" json:"weights"`
	Thresholds Thresholds  `yaml:"thresholds" json:"thresholds"`
}

const (
	PresetCore     = "core"
	PresetAdvanced = "advanced"
	PresetRandom   = "random"
)

var coreToggles = RuleToggles{
	Switching: true,
	Type:      true,
	Lethality: true,
	Status:    true,
	Resource:  true,
}

func defaultWeights() Weights {
	return Weights{Setup: 20, Hazard: 15, Priority: 30, MetaCounter: 25}
}

func defaultThresholds() Thresholds {
	return Thresholds{EndgameAlive: 2, EarlyTurns: 3}
}

// CoreRuleset returns the baseline expert rules: type, lethality, status
// and resource scoring with emergency and endgame switching.
func CoreRuleset() Ruleset {
	return Ruleset{
		Name:       PresetCore,
		Rules:      coreToggles,
		Weights:    defaultWeights(),
		Thresholds: defaultThresholds(),
	}
}

// AdvancedRuleset layers setup, hazard, priority and meta-counter bonuses
// on top of the core rules. The core scores are unchanged.
func AdvancedRuleset() Ruleset {
	rs := CoreRuleset()
	rs.Name = PresetAdvanced
	rs.Rules.Setup = true
	rs.Rules.Hazard = true
	rs.Rules.Priority = true
	rs.Rules.MetaCounter = true
	return rs
}

func RandomRuleset() Ruleset {
	rs := CoreRuleset()
	rs.Name = PresetRandom
	rs.Random = true
	return rs
}

var presets = map[string]func() Ruleset{
	PresetCore:     CoreRuleset,
	PresetAdvanced: AdvancedRuleset,
	PresetRandom:   RandomRuleset,
}

// Preset returns the named preset ruleset.
func Preset(name string) (Ruleset, error) {
	fn, ok := presets[name]
	if !ok {
		return Ruleset{}, fmt.Errorf("unknown ruleset %q (have %v)", name, PresetNames())
	}
	return fn(), nil
}

// PresetNames lists the preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate clamps thresholds and weights to their valid ranges.
func (r *Ruleset) Validate() {
	if r.Name == "" {
		r.Name = "custom"
	}
	r.Thresholds.EndgameAlive = clampInt(r.Thresholds.EndgameAlive, 0, fullTeam)
	r.Thresholds.EarlyTurns = clampInt(r.Thresholds.EarlyTurns, 0, 50)
	r.Weights.Setup = clamp(r.Weights.Setup, 0, 100)
	r.Weights.Hazard = clamp(r.Weights.Hazard, 0, 100)
	r.Weights.Priority = clamp(r.Weights.Priority, 0, 200)
	r.Weights.MetaCounter = clamp(r.Weights.MetaCounter, 0, 200)
}

// rulesetFile is the on-disk shape: a ruleset plus the preset it extends.
type rulesetFile struct {
	Base string `yaml:"base"`
}

// ParseRuleset decodes a YAML ruleset. Fields absent from the document
// keep the values of the preset named by its `base` key (core if unset).
func ParseRuleset(data []byte) (Ruleset, error) {
	var head rulesetFile
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Ruleset{}, fmt.Errorf("parse ruleset: %w", err)
	}
	if head.Base == "" {
		head.Base = PresetCore
	}
	rs, err := Preset(head.Base)
	if err != nil {
		return Ruleset{}, fmt.Errorf("ruleset base: %w", err)
	}
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return Ruleset{}, fmt.Errorf("parse ruleset: %w", err)
	}
	rs.Validate()
	return rs, nil
}

// LoadRuleset reads and parses a YAML ruleset file.
func LoadRuleset(path string) (Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ruleset{}, fmt.Errorf("read ruleset: %w", err)
	}
	rs, err := ParseRuleset(data)
	if err != nil {
		return Ruleset{}, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
