package model

// BattleState is the per-turn snapshot sent by the battle client. The
// client owns the roster; the sidecar only reads what arrives here.
type BattleState struct {
	BattleID          string     `json:"battleId"`
	Turn              int        `json:"turn"`
	OwnActive         *Combatant `json:"ownActive,omitempty"`
	OpponentActive    *Combatant `json:"opponentActive,omitempty"`
	Team              Team       `json:"team"`
	OpponentTeam      Team       `json:"opponentTeam"`
	Field             FieldState `json:"field"`
	AvailableMoves    []string   `json:"availableMoves"`
	AvailableSwitches []string   `json:"availableSwitches"`
}

type Combatant struct {
	Name       string   `json:"name"`
	Species    string   `json:"species"`
	Types      []string `json:"types"`
	HPFraction float64  `json:"hpFraction"`
	Fainted    bool     `json:"fainted"`
	Active     bool     `json:"active"`
	Stats      Stats    `json:"stats"`
	Moves      []Move   `json:"moves"`
}

// FindMove resolves a move identifier against the combatant's known moves.
func (c *Combatant) FindMove(id string) (Move, bool) {
	want := ToID(id)
	for _, m := range c.Moves {
		if ToID(m.ID) == want {
			return m, true
		}
	}
	return Move{}, false
}

// HasMove reports whether any known move matches one of ids.
func (c *Combatant) HasMove(ids ...string) bool {
	for _, id := range ids {
		if _, ok := c.FindMove(id); ok {
			return true
		}
	}
	return false
}

// Stats are battle stats as far as they are known. A zero field means the
// client did not report it.
type Stats struct {
	HP             int `json:"hp,omitempty"`
	Attack         int `json:"atk,omitempty"`
	Defense        int `json:"def,omitempty"`
	SpecialAttack  int `json:"spa,omitempty"`
	SpecialDefense int `json:"spd,omitempty"`
	Speed          int `json:"spe,omitempty"`
}

// DefaultStat stands in for any stat the client did not report.
const DefaultStat = 100

// Resolved returns a copy with every unknown stat replaced by DefaultStat.
func (s Stats) Resolved() Stats {
	return Stats{
		HP:             orDefault(s.HP),
		Attack:         orDefault(s.Attack),
		Defense:        orDefault(s.Defense),
		SpecialAttack:  orDefault(s.SpecialAttack),
		SpecialDefense: orDefault(s.SpecialDefense),
		Speed:          orDefault(s.Speed),
	}
}

func orDefault(v int) int {
	if v <= 0 {
		return DefaultStat
	}
	return v
}

type MoveCategory string

const (
	Physical MoveCategory = "physical"
	Special  MoveCategory = "special"
	Status   MoveCategory = "status"
)

type Move struct {
	ID        string       `json:"id"`
	Type      string       `json:"type,omitempty"` // empty for typeless moves
	BasePower int          `json:"basePower"`
	PP        *int         `json:"pp,omitempty"` // nil when unknown
	Category  MoveCategory `json:"category"`
}

func (m Move) IsStatus() bool   { return m.BasePower == 0 }
func (m Move) IsPhysical() bool { return m.Category == Physical }

// Team is an ordered roster. Order matters: switch advice takes the first
// member that qualifies.
type Team []Combatant

// Find returns the member whose name matches (Showdown ID comparison).
func (t Team) Find(name string) (*Combatant, bool) {
	want := ToID(name)
	for i := range t {
		if ToID(t[i].Name) == want {
			return &t[i], true
		}
	}
	return nil, false
}

// Active returns the member flagged active, if any.
func (t Team) Active() (*Combatant, bool) {
	for i := range t {
		if t[i].Active {
			return &t[i], true
		}
	}
	return nil, false
}

func (t Team) AliveCount() int {
	n := 0
	for _, c := range t {
		if !c.Fainted {
			n++
		}
	}
	return n
}
