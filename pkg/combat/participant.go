package combat

import (
	"github.com/ravenholt/encounter-engine/pkg/bestiary"
	"github.com/ravenholt/encounter-engine/pkg/checks"
)

// Participant is one combatant tracked by the turn machine: a player
// character projection or a synthesized threat. Threats are copied by
// value on adoption so template mutation never reaches a live combatant.
type Participant struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Hostile    bool     `json:"hostile"`
	Active     bool     `json:"active"`
	HP         int      `json:"hp"`
	MaxHP      int      `json:"max_hp"`
	ArmorClass int      `json:"armor_class,omitempty"`
	Initiative int      `json:"initiative"`
	Conditions []string `json:"conditions,omitempty"`

	LastRollResult *checks.Result `json:"last_roll_result,omitempty"`
}

// FromThreat adopts a synthesized threat as a hostile participant.
func FromThreat(t bestiary.Threat) *Participant {
	return &Participant{
		ID:         t.ID.String(),
		Name:       t.Name,
		Hostile:    true,
		HP:         t.HP,
		MaxHP:      t.MaxHP,
		ArmorClass: t.ArmorClass,
		Initiative: t.Initiative,
	}
}

// IsDown reports whether the participant has dropped to 0 HP.
func (p *Participant) IsDown() bool {
	return p.HP <= 0
}

// HasCondition reports whether the named condition is present.
func (p *Participant) HasCondition(condition string) bool {
	for _, c := range p.Conditions {
		if c == condition {
			return true
		}
	}
	return false
}
