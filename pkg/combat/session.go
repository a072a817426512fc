// Package combat owns round and turn bookkeeping for an encounter.
// The machine is driven by best-effort text classification, so every
// operation is a total function: unknown participant ids and
// out-of-range values are silently ignored, never raised as errors.
package combat

import (
	"sort"

	"github.com/ravenholt/encounter-engine/pkg/loot"
)

// Session is the turn-ordered state of one encounter. While InCombat
// is true and the roster is non-empty, exactly one participant is
// active.
type Session struct {
	InCombat        bool           `json:"in_combat"`
	Round           int            `json:"round"`
	TurnIndex       int            `json:"turn_index"`
	Participants    []*Participant `json:"participants,omitempty"`
	AccumulatedLoot []loot.Item    `json:"accumulated_loot,omitempty"`
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{}
}

// Initialize enters combat with the given roster, sorted descending by
// initiative (stable: ties keep input order). Round starts at 1 with
// the first participant active, unless the caller pre-marked one
// active, in which case that flag is respected.
func (s *Session) Initialize(participants []*Participant) {
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].Initiative > participants[j].Initiative
	})

	s.InCombat = true
	s.Round = 1
	s.TurnIndex = 0
	s.Participants = participants

	if len(participants) == 0 {
		return
	}

	marked := -1
	for i, p := range participants {
		if p.Active && marked == -1 {
			marked = i
		} else {
			p.Active = false
		}
	}
	if marked >= 0 {
		s.TurnIndex = marked
	} else {
		participants[0].Active = true
	}
}

// NextTurn advances the active pointer by one, wrapping past the last
// participant back to index 0 and incrementing the round.
func (s *Session) NextTurn() {
	if !s.InCombat || len(s.Participants) == 0 {
		return
	}

	s.Participants[s.TurnIndex].Active = false
	s.TurnIndex++
	if s.TurnIndex >= len(s.Participants) {
		s.TurnIndex = 0
		s.Round++
	}
	s.Participants[s.TurnIndex].Active = true
}

// ActiveParticipant returns the participant whose turn it is, or nil
// when idle or empty.
func (s *Session) ActiveParticipant() *Participant {
	if !s.InCombat || s.TurnIndex < 0 || s.TurnIndex >= len(s.Participants) {
		return nil
	}
	return s.Participants[s.TurnIndex]
}

// Participant finds a combatant by id. Returns nil when unknown.
func (s *Session) Participant(id string) *Participant {
	for _, p := range s.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ApplyDamage reduces a participant's HP, clamped at 0. Non-positive
// amounts and unknown ids are no-ops.
func (s *Session) ApplyDamage(id string, amount int) {
	p := s.Participant(id)
	if p == nil || amount <= 0 {
		return
	}
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
}

// ApplyHealing raises a participant's HP, clamped at MaxHP.
// Non-positive amounts and unknown ids are no-ops.
func (s *Session) ApplyHealing(id string, amount int) {
	p := s.Participant(id)
	if p == nil || amount <= 0 {
		return
	}
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

// AddCondition adds a condition with set semantics: adding one already
// present is a no-op.
func (s *Session) AddCondition(id, condition string) {
	p := s.Participant(id)
	if p == nil || condition == "" || p.HasCondition(condition) {
		return
	}
	p.Conditions = append(p.Conditions, condition)
}

// RemoveCondition removes a condition if present.
func (s *Session) RemoveCondition(id, condition string) {
	p := s.Participant(id)
	if p == nil {
		return
	}
	kept := p.Conditions[:0]
	for _, c := range p.Conditions {
		if c != condition {
			kept = append(kept, c)
		}
	}
	p.Conditions = kept
}

// AddLoot appends items to the session's accumulated loot list.
func (s *Session) AddLoot(items ...loot.Item) {
	s.AccumulatedLoot = append(s.AccumulatedLoot, items...)
}

// End clears the encounter and returns the session to idle.
func (s *Session) End() {
	s.InCombat = false
	s.Round = 0
	s.TurnIndex = 0
	s.Participants = nil
	s.AccumulatedLoot = nil
}
