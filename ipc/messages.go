package ipc

// Message types. Clients send hello, turn, battle_end, metrics and ruleset;
// the sidecar answers with ack, action, metrics or error.
const (
	TypeHello     = "hello"
	TypeAck       = "ack"
	TypeTurn      = "turn"
	TypeAction    = "action"
	TypeBattleEnd = "battle_end"
	TypeMetrics   = "metrics"
	TypeRuleset   = "ruleset"
	TypeError     = "error"
)

type HelloMessage struct {
	Client  string `json:"client"`
	Format  string `json:"format,omitempty"`
	Ruleset string `json:"ruleset,omitempty"` // preset name; empty keeps the server default
}

type AckMessage struct {
	Status  string `json:"status"`
	Session string `json:"session,omitempty"`
	Ruleset string `json:"ruleset,omitempty"`
}

// ActionMessage answers a turn. Kind is move, switch or default; default
// asks the client to let the game pick.
type ActionMessage struct {
	BattleID string `json:"battleId"`
	Turn     int    `json:"turn"`
	Kind     string `json:"kind"`
	Move     string `json:"move,omitempty"`
	Switch   string `json:"switch,omitempty"`
	Strategy string `json:"strategy"`
	Reason   string `json:"reason,omitempty"`
}

type BattleEndMessage struct {
	BattleID string `json:"battleId"`
	Won      bool   `json:"won"`
}

type MetricsMessage struct {
	TotalDecisions        int            `json:"totalDecisions"`
	BattlesPlayed         int            `json:"battlesPlayed"`
	Wins                  int            `json:"wins"`
	Losses                int            `json:"losses"`
	StrategyDistribution  map[string]int `json:"strategyDistribution"`
	ThreatDistribution    map[string]int `json:"threatDistribution"`
	AvgDecisionsPerBattle float64        `json:"avgDecisionsPerBattle"`
}

type RulesetMessage struct {
	Name string `json:"name"`
}

type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
