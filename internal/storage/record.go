package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/ravenholt/encounter-engine/pkg/actor"
	"github.com/ravenholt/encounter-engine/pkg/combat"
)

// SessionRecord is the persisted form of one engine session: the
// party roster, the live combat state and the per-session toggles.
type SessionRecord struct {
	ID    uuid.UUID               `json:"id"`
	Party []*actor.CharacterSheet `json:"party,omitempty"`

	// Combat holds the serialized turn machine. Nil means the
	// session has never entered combat.
	Combat *combat.Session `json:"combat,omitempty"`

	AutoResolve     bool `json:"auto_resolve"`
	BracketNotation bool `json:"bracket_notation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSessionRecord creates a record with a fresh id and timestamps.
func NewSessionRecord(party []*actor.CharacterSheet) *SessionRecord {
	now := time.Now().UTC()
	return &SessionRecord{
		ID:        uuid.New(),
		Party:     party,
		Combat:    combat.NewSession(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
