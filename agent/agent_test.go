package agent

import (
	"math/rand"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nstehr/tackle/ipc"
	"github.com/nstehr/tackle/model"
	"github.com/nstehr/tackle/rules"
)

func newTestAgent(t *testing.T, conn *ipc.Connection) *Agent {
	t.Helper()
	engine, err := rules.NewEngine(rules.CoreRuleset())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return New(conn, engine, rand.New(rand.NewSource(1)))
}

func charizardTurn(turn int) model.BattleState {
	flamethrower := model.Move{ID: "flamethrower", Type: "fire", BasePower: 90, Category: model.Special}
	tackle := model.Move{ID: "tackle", Type: "normal", BasePower: 40, Category: model.Physical}
	own := model.Combatant{Name: "Charizard", Species: "Charizard", Types: []string{"fire", "flying"}, HPFraction: 1, Active: true,
		Moves: []model.Move{tackle, flamethrower}}
	opp := model.Combatant{Name: "Venusaur", Species: "Venusaur", Types: []string{"grass", "poison"}, HPFraction: 1, Active: true}
	return model.BattleState{
		BattleID:       "battle-gen9ou-7",
		Turn:           turn,
		OwnActive:      &own,
		OpponentActive: &opp,
		Team: model.Team{
			own,
			{Name: "Blastoise", Types: []string{"water"}, HPFraction: 1},
			{Name: "Pikachu", Types: []string{"electric"}, HPFraction: 1},
		},
		OpponentTeam:      model.Team{opp},
		AvailableMoves:    []string{"tackle", "flamethrower"},
		AvailableSwitches: []string{"Blastoise", "Pikachu"},
	}
}

func TestNewAssignsSession(t *testing.T) {
	conn := ipc.NewConnection(nil, nil)
	a := newTestAgent(t, conn)
	b := newTestAgent(t, nil)
	if a.Session == "" || a.Session == b.Session {
		t.Errorf("sessions %q and %q should be distinct and non-empty", a.Session, b.Session)
	}
	if conn.Session != a.Session {
		t.Errorf("connection session = %q, want %q", conn.Session, a.Session)
	}
}

func TestHandleTurn(t *testing.T) {
	a := newTestAgent(t, nil)
	env, _ := ipc.NewEnvelope(ipc.TypeTurn, charizardTurn(1))

	resp, err := a.HandleTurn(env)
	if err != nil {
		t.Fatalf("HandleTurn: %v", err)
	}
	var got ipc.ActionMessage
	if err := resp.Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := ipc.ActionMessage{
		BattleID: "battle-gen9ou-7",
		Turn:     1,
		Kind:     "move",
		Move:     "flamethrower",
		Strategy: string(rules.EarlyGameSetup),
		Reason:   got.Reason,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("action mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(got.Reason, "super effective") {
		t.Errorf("reason = %q, want it to mention super effectiveness", got.Reason)
	}
	if a.prev == nil || a.prev.battleID != "battle-gen9ou-7" {
		t.Errorf("previous turn not kept: %+v", a.prev)
	}
	if a.Recorder.Len() != 1 {
		t.Errorf("recorded %d decisions, want 1", a.Recorder.Len())
	}
}

func TestHandleTurnRejectsBadPayload(t *testing.T) {
	a := newTestAgent(t, nil)
	if _, err := a.HandleTurn(ipc.Envelope{Type: ipc.TypeTurn, Data: []byte(`[1,2]`)}); err == nil {
		t.Error("expected a decode error")
	}
	if a.Recorder.Len() != 0 {
		t.Error("a rejected turn must not be recorded")
	}
}

func TestHandleBattleEnd(t *testing.T) {
	a := newTestAgent(t, nil)
	turn, _ := ipc.NewEnvelope(ipc.TypeTurn, charizardTurn(1))
	if _, err := a.HandleTurn(turn); err != nil {
		t.Fatal(err)
	}

	end, _ := ipc.NewEnvelope(ipc.TypeBattleEnd, ipc.BattleEndMessage{BattleID: "battle-gen9ou-7", Won: true})
	resp, err := a.HandleBattleEnd(end)
	if err != nil {
		t.Fatalf("HandleBattleEnd: %v", err)
	}
	if resp.Type != ipc.TypeAck {
		t.Errorf("reply type = %s, want ack", resp.Type)
	}
	if a.prev != nil {
		t.Error("last turn should be forgotten after the battle ends")
	}
	if m := a.Recorder.Metrics(); m.Wins != 1 || m.BattlesPlayed != 1 {
		t.Errorf("metrics = %+v", m)
	}

	missing, _ := ipc.NewEnvelope(ipc.TypeBattleEnd, ipc.BattleEndMessage{})
	if _, err := a.HandleBattleEnd(missing); err == nil {
		t.Error("battle_end without an ID should fail")
	}
}

func TestHandleRuleset(t *testing.T) {
	a := newTestAgent(t, nil)

	env, _ := ipc.NewEnvelope(ipc.TypeRuleset, ipc.RulesetMessage{Name: rules.PresetAdvanced})
	resp, err := a.HandleRuleset(env)
	if err != nil {
		t.Fatalf("HandleRuleset: %v", err)
	}
	var ack ipc.AckMessage
	if err := resp.Decode(&ack); err != nil || ack.Ruleset != rules.PresetAdvanced {
		t.Errorf("ack = %+v, err %v", ack, err)
	}

	bad, _ := ipc.NewEnvelope(ipc.TypeRuleset, ipc.RulesetMessage{Name: "chaos"})
	if _, err := a.HandleRuleset(bad); err == nil {
		t.Error("unknown preset should fail")
	}
	if got := a.Engine.Ruleset().Name; got != rules.PresetAdvanced {
		t.Errorf("a failed swap changed the ruleset to %q", got)
	}
}

// TestSessionOverPipe drives a full session through the connection read loop.
func TestSessionOverPipe(t *testing.T) {
	srv, cli := net.Pipe()
	conn := ipc.NewConnection(ipc.NewStreamFramer(srv), nil)
	a := newTestAgent(t, conn)
	a.Register()

	done := make(chan struct{})
	go func() {
		conn.ReadLoop()
		close(done)
	}()

	client := ipc.NewStreamFramer(cli)
	send := func(msgType string, data any) ipc.Envelope {
		t.Helper()
		env, err := ipc.NewEnvelope(msgType, data)
		if err != nil {
			t.Fatal(err)
		}
		if err := client.WriteEnvelope(env); err != nil {
			t.Fatalf("write %s: %v", msgType, err)
		}
		resp, err := client.ReadEnvelope()
		if err != nil {
			t.Fatalf("read reply to %s: %v", msgType, err)
		}
		return resp
	}

	resp := send(ipc.TypeHello, ipc.HelloMessage{Client: "harness", Format: "gen9ou", Ruleset: rules.PresetAdvanced})
	var ack ipc.AckMessage
	if resp.Type != ipc.TypeAck || resp.Decode(&ack) != nil {
		t.Fatalf("hello reply = %s %s", resp.Type, resp.Data)
	}
	if ack.Session != a.Session || ack.Ruleset != rules.PresetAdvanced {
		t.Errorf("ack = %+v", ack)
	}
	if conn.Client != "harness" {
		t.Errorf("connection client = %q", conn.Client)
	}

	for turn := 1; turn <= 2; turn++ {
		resp = send(ipc.TypeTurn, charizardTurn(turn))
		var action ipc.ActionMessage
		if resp.Type != ipc.TypeAction || resp.Decode(&action) != nil {
			t.Fatalf("turn %d reply = %s %s", turn, resp.Type, resp.Data)
		}
		if action.Kind != "move" || action.Move != "flamethrower" {
			t.Errorf("turn %d action = %+v", turn, action)
		}
	}

	if resp = send(ipc.TypeBattleEnd, ipc.BattleEndMessage{BattleID: "battle-gen9ou-7", Won: false}); resp.Type != ipc.TypeAck {
		t.Errorf("battle_end reply = %s", resp.Type)
	}

	resp = send(ipc.TypeMetrics, struct{}{})
	var m ipc.MetricsMessage
	if resp.Type != ipc.TypeMetrics || resp.Decode(&m) != nil {
		t.Fatalf("metrics reply = %s %s", resp.Type, resp.Data)
	}
	if m.TotalDecisions != 2 || m.BattlesPlayed != 1 || m.Losses != 1 || m.AvgDecisionsPerBattle != 2 {
		t.Errorf("metrics = %+v", m)
	}
	if m.StrategyDistribution[string(rules.EarlyGameSetup)] != 2 {
		t.Errorf("strategy distribution = %v", m.StrategyDistribution)
	}

	if resp = send(ipc.TypeRuleset, ipc.RulesetMessage{Name: "chaos"}); resp.Type != ipc.TypeError {
		t.Errorf("unknown preset reply = %s", resp.Type)
	}

	client.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ReadLoop did not exit after the client closed")
	}
}
