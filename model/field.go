package model

// Entry hazard side-condition IDs.
const (
	Spikes      = "spikes"
	StealthRock = "stealthrock"
	ToxicSpikes = "toxicspikes"
	StickyWeb   = "stickyweb"
)

var hazardConditions = []string{Spikes, StealthRock, ToxicSpikes, StickyWeb}

// FieldState holds weather and the side conditions on each side of the
// field. Side conditions map a condition ID to its layer count.
type FieldState struct {
	Weather      string         `json:"weather,omitempty"`
	OwnSide      map[string]int `json:"ownSide,omitempty"`
	OpponentSide map[string]int `json:"opponentSide,omitempty"`
}

// OpponentHas reports whether the condition is up on the opponent's side.
func (f FieldState) OpponentHas(condition string) bool {
	return f.OpponentSide[ToID(condition)] > 0
}

// OwnHas reports whether the condition is up on our side.
func (f FieldState) OwnHas(condition string) bool {
	return f.OwnSide[ToID(condition)] > 0
}

// OwnHazards lists the entry hazards currently on our side.
func (f FieldState) OwnHazards() []string { return hazardsIn(f.OwnSide) }

// OpponentHazards lists the entry hazards currently on the opponent's side.
func (f FieldState) OpponentHazards() []string { return hazardsIn(f.OpponentSide) }

func hazardsIn(side map[string]int) []string {
	var out []string
	for _, h := range hazardConditions {
		if side[h] > 0 {
			out = append(out, h)
		}
	}
	return out
}
