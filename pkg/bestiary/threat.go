// Package bestiary extracts hostile-creature mentions from narrative
// text and synthesizes stat blocks for them. Known creature types live
// in a plain data table so the template set can grow without touching
// control flow.
package bestiary

import (
	"github.com/google/uuid"

	"github.com/ravenholt/encounter-engine/pkg/actor"
	"github.com/ravenholt/encounter-engine/pkg/loot"
)

// Threat is a synthesized hostile creature. Once adopted as a combat
// participant it is copied by value; later mutation of a Threat never
// affects an already-spawned participant.
type Threat struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	HP             int           `json:"hp"`
	MaxHP          int           `json:"max_hp"`
	ArmorClass     int           `json:"armor_class,omitempty"`
	Initiative     int           `json:"initiative,omitempty"`
	Stats          actor.Stats5e `json:"stats,omitempty"`
	Weapons        []string      `json:"weapons,omitempty"`
	SpecialAttacks []string      `json:"special_attacks,omitempty"`
	Spells         []string      `json:"spells,omitempty"`
	Loot           []loot.Item   `json:"loot,omitempty"`
}
