package rules

// StrategyEnv is the variable set visible to strategy rule conditions.
// Fields are plain types so conditions can compare against string and
// number literals directly.
type StrategyEnv struct {
	Threat        string
	SwitchCount   int
	AliveCount    int
	HealthyCount  int
	OpponentAlive int
	Turn          int
	OwnHP         float64
	OpponentHP    float64
}

func newStrategyEnv(s Snapshot) StrategyEnv {
	env := StrategyEnv{
		Threat:        string(s.Threat),
		SwitchCount:   len(s.Team.SwitchEligible),
		AliveCount:    s.Team.AliveCount,
		HealthyCount:  s.Team.HealthyCount,
		OpponentAlive: s.OpponentAlive,
		Turn:          s.Turn,
	}
	if s.OwnActive != nil {
		env.OwnHP = s.OwnActive.HPFraction
	}
	if s.OpponentActive != nil {
		env.OpponentHP = s.OpponentActive.HPFraction
	}
	return env
}

// HasSwitch is callable from conditions: `HasSwitch() && OwnHP < 0.1`.
func (e StrategyEnv) HasSwitch() bool { return e.SwitchCount > 0 }
