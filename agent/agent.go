package agent

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/nstehr/tackle/ipc"
	"github.com/nstehr/tackle/model"
	"github.com/nstehr/tackle/rules"
)

// Agent owns the decision-making for a single client session. Handlers run
// on the connection's read loop, one message at a time.
type Agent struct {
	Conn     *ipc.Connection
	Session  string
	Client   string
	Engine   *rules.Engine
	Recorder *Recorder

	fallback rules.Fallback
	prev     *turnSnapshot
}

// New creates an agent with a fresh session ID. rng drives the random
// fallback and is owned by the agent from here on.
func New(conn *ipc.Connection, engine *rules.Engine, rng *rand.Rand) *Agent {
	a := &Agent{
		Conn:     conn,
		Session:  uuid.NewString(),
		Engine:   engine,
		Recorder: NewRecorder(),
		fallback: rules.RandomFallback(rng),
	}
	if conn != nil {
		conn.Session = a.Session
	}
	return a
}

// Register installs the agent's handlers on its connection.
func (a *Agent) Register() {
	a.Conn.RegisterHandler(ipc.TypeHello, a.HandleHello)
	a.Conn.RegisterHandler(ipc.TypeTurn, a.HandleTurn)
	a.Conn.RegisterHandler(ipc.TypeBattleEnd, a.HandleBattleEnd)
	a.Conn.RegisterHandler(ipc.TypeMetrics, a.HandleMetrics)
	a.Conn.RegisterHandler(ipc.TypeRuleset, a.HandleRuleset)
}

// HandleHello completes the handshake so the client knows the sidecar is ready.
// The client may pick a preset ruleset for the session.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}

	a.Client = hello.Client
	if a.Conn != nil {
		a.Conn.Client = hello.Client
	}
	if hello.Ruleset != "" {
		if err := a.useRuleset(hello.Ruleset); err != nil {
			return nil, err
		}
	}
	slog.Info("client identified", "session", a.Session, "client", a.Client, "format", hello.Format, "ruleset", a.Engine.Ruleset().Name)
	return a.ack()
}

// HandleTurn decides one action for the turn in the envelope.
func (a *Agent) HandleTurn(env ipc.Envelope) (*ipc.Envelope, error) {
	var state model.BattleState
	if err := env.Decode(&state); err != nil {
		return nil, err
	}

	d := a.Engine.Decide(state, a.fallback)

	cur := takeSnapshot(state, d.Snapshot.Threat)
	if events := detectEvents(cur, a.prev); len(events) > 0 {
		slog.Info("battle events", "session", a.Session, "battle", state.BattleID, "events", formatEvents(events))
		if events[0].Kind == EventBattleStarted && len(d.WinConditions) > 0 {
			slog.Info("win conditions", "session", a.Session, "battle", state.BattleID, "routes", d.WinConditions)
		}
	}
	a.prev = &cur

	a.Recorder.Record(recordOf(state, d))

	msg := ipc.ActionMessage{
		BattleID: state.BattleID,
		Turn:     state.Turn,
		Kind:     string(d.Action.Kind),
		Move:     d.Action.Move,
		Switch:   d.Action.Switch,
		Strategy: string(d.Strategy),
		Reason:   reasonOf(d),
	}
	slog.Info("turn decided",
		"session", a.Session,
		"battle", state.BattleID,
		"turn", state.Turn,
		"threat", d.Snapshot.Threat,
		"strategy", d.Strategy,
		"action", d.Action.String(),
		"reason", msg.Reason,
	)

	resp, err := ipc.NewEnvelope(ipc.TypeAction, msg)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// HandleBattleEnd records the result and forgets the battle's last turn.
func (a *Agent) HandleBattleEnd(env ipc.Envelope) (*ipc.Envelope, error) {
	var end ipc.BattleEndMessage
	if err := env.Decode(&end); err != nil {
		return nil, err
	}
	if end.BattleID == "" {
		return nil, fmt.Errorf("battle_end: missing battleId")
	}
	a.Recorder.EndBattle(end.BattleID, end.Won)
	if a.prev != nil && a.prev.battleID == end.BattleID {
		a.prev = nil
	}
	slog.Info("battle ended", "session", a.Session, "battle", end.BattleID, "won", end.Won)
	return a.ack()
}

func (a *Agent) HandleMetrics(ipc.Envelope) (*ipc.Envelope, error) {
	m := a.Recorder.Metrics()
	msg := ipc.MetricsMessage{
		TotalDecisions:        m.TotalDecisions,
		BattlesPlayed:         m.BattlesPlayed,
		Wins:                  m.Wins,
		Losses:                m.Losses,
		StrategyDistribution:  make(map[string]int, len(m.StrategyDistribution)),
		ThreatDistribution:    make(map[string]int, len(m.ThreatDistribution)),
		AvgDecisionsPerBattle: m.AvgDecisionsPerBattle,
	}
	for k, v := range m.StrategyDistribution {
		msg.StrategyDistribution[string(k)] = v
	}
	for k, v := range m.ThreatDistribution {
		msg.ThreatDistribution[string(k)] = v
	}
	resp, err := ipc.NewEnvelope(ipc.TypeMetrics, msg)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// HandleRuleset swaps the session to another preset mid-session.
func (a *Agent) HandleRuleset(env ipc.Envelope) (*ipc.Envelope, error) {
	var msg ipc.RulesetMessage
	if err := env.Decode(&msg); err != nil {
		return nil, err
	}
	if err := a.useRuleset(msg.Name); err != nil {
		return nil, err
	}
	return a.ack()
}

func (a *Agent) useRuleset(name string) error {
	rs, err := rules.Preset(name)
	if err != nil {
		return err
	}
	if err := a.Engine.Swap(rs); err != nil {
		return fmt.Errorf("swap ruleset %q: %w", name, err)
	}
	return nil
}

func (a *Agent) ack() (*ipc.Envelope, error) {
	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{
		Status:  "ok",
		Session: a.Session,
		Ruleset: a.Engine.Ruleset().Name,
	})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

func recordOf(state model.BattleState, d rules.Decision) DecisionRecord {
	rec := DecisionRecord{
		BattleID:   state.BattleID,
		Turn:       state.Turn,
		Threat:     d.Snapshot.Threat,
		Strategy:   d.Strategy,
		ActionKind: d.Action.Kind,
	}
	if state.OwnActive != nil {
		rec.OwnHP = state.OwnActive.HPFraction
	}
	if state.OpponentActive != nil {
		rec.OpponentHP = state.OpponentActive.HPFraction
	}
	return rec
}

// reasonOf explains the chosen action for the client's logs.
func reasonOf(d rules.Decision) string {
	switch {
	case d.Action.Kind == rules.KindSwitch && d.Advice != nil && d.Advice.Switch:
		return d.Advice.Reason
	case d.Action.Kind == rules.KindMove && len(d.Scores) > 0:
		return d.Scores[0].Reasoning()
	case d.Action.Kind == rules.KindDefault:
		return "no legal action"
	}
	return "fallback"
}
