package rules

import "github.com/nstehr/tackle/model"

func pp(n int) *int { return &n }

func mon(name string, hp float64, types ...string) model.Combatant {
	return model.Combatant{Name: name, Species: name, Types: types, HPFraction: hp}
}

func withMoves(c model.Combatant, moves ...model.Move) model.Combatant {
	c.Moves = moves
	return c
}

// battle builds a state with own[0] active against opp.
func battle(turn int, opp model.Combatant, own ...model.Combatant) model.BattleState {
	team := make(model.Team, len(own))
	copy(team, own)
	team[0].Active = true
	opp.Active = true
	active := team[0]
	var moves []string
	for _, m := range active.Moves {
		moves = append(moves, m.ID)
	}
	return model.BattleState{
		BattleID:       "battle-gen9ubers-1",
		Turn:           turn,
		OwnActive:      &active,
		OpponentActive: &opp,
		Team:           team,
		AvailableMoves: moves,
	}
}

var (
	tackle       = model.Move{ID: "tackle", Type: "normal", BasePower: 40, Category: model.Physical}
	surf         = model.Move{ID: "surf", Type: "water", BasePower: 90, Category: model.Special}
	flamethrower = model.Move{ID: "flamethrower", Type: "fire", BasePower: 90, Category: model.Special}
	recover      = model.Move{ID: "recover", Type: "normal", Category: model.Status}
	swordsDance  = model.Move{ID: "swordsdance", Type: "normal", Category: model.Status}
	stealthRock  = model.Move{ID: "stealthrock", Type: "rock", Category: model.Status}
	extremeSpeed = model.Move{ID: "extremespeed", Type: "normal", BasePower: 80, Category: model.Physical}
	taunt        = model.Move{ID: "taunt", Type: "dark", Category: model.Status}
)
