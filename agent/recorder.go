package agent

import (
	"sync"

	"github.com/nstehr/tackle/rules"
)

// Recorder window: once the log exceeds maxRecords it is cut back to the
// most recent keepRecords entries.
const (
	maxRecords  = 1000
	keepRecords = 500
)

// DecisionRecord is one turn's decision, kept for metrics only.
type DecisionRecord struct {
	BattleID   string
	Turn       int
	Threat     rules.ThreatLevel
	Strategy   rules.Strategy
	ActionKind rules.ActionKind
	OwnHP      float64
	OpponentHP float64
}

// Metrics aggregates the recorded decisions of a session.
type Metrics struct {
	TotalDecisions        int
	BattlesPlayed         int
	Wins                  int
	Losses                int
	StrategyDistribution  map[rules.Strategy]int
	ThreatDistribution    map[rules.ThreatLevel]int
	AvgDecisionsPerBattle float64
}

// Recorder is the session's bounded decision log. The engine never reads it.
type Recorder struct {
	mu      sync.Mutex
	records []DecisionRecord
	battles map[string]bool
	results map[string]bool // battle ID → won
}

func NewRecorder() *Recorder {
	return &Recorder{
		battles: make(map[string]bool),
		results: make(map[string]bool),
	}
}

// Record appends a decision, compacting the log when it outgrows the cap.
func (r *Recorder) Record(rec DecisionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
	r.battles[rec.BattleID] = true
	if len(r.records) > maxRecords {
		kept := make([]DecisionRecord, keepRecords)
		copy(kept, r.records[len(r.records)-keepRecords:])
		r.records = kept
	}
}

// EndBattle records a battle's outcome. Repeated calls overwrite.
func (r *Recorder) EndBattle(battleID string, won bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.battles[battleID] = true
	r.results[battleID] = won
}

// Records returns a copy of the current log, oldest first.
func (r *Recorder) Records() []DecisionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DecisionRecord, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Metrics summarises the log. Battle counts cover every battle seen, even
// ones whose decisions were compacted away.
func (r *Recorder) Metrics() Metrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := Metrics{
		TotalDecisions:       len(r.records),
		BattlesPlayed:        len(r.battles),
		StrategyDistribution: make(map[rules.Strategy]int),
		ThreatDistribution:   make(map[rules.ThreatLevel]int, len(rules.ThreatLevels)),
	}
	for _, lvl := range rules.ThreatLevels {
		m.ThreatDistribution[lvl] = 0
	}
	for _, rec := range r.records {
		m.StrategyDistribution[rec.Strategy]++
		m.ThreatDistribution[rec.Threat]++
	}
	for _, won := range r.results {
		if won {
			m.Wins++
		} else {
			m.Losses++
		}
	}
	m.AvgDecisionsPerBattle = float64(m.TotalDecisions) / float64(max(1, m.BattlesPlayed))
	return m
}
