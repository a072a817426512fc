// Package actor holds the character projection handed to the engine by
// the character-record subsystem, and its runtime d20 representation.
package actor

import (
	"fmt"

	"github.com/jwebster45206/d20"

	"github.com/ravenholt/encounter-engine/pkg/rules"
)

// Stats5e represents the six core D&D 5e ability scores.
type Stats5e struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// ToAttributes converts Stats5e to a map for d20.Actor compatibility.
func (s *Stats5e) ToAttributes() map[string]int {
	return map[string]int{
		"strength":     s.Strength,
		"dexterity":    s.Dexterity,
		"constitution": s.Constitution,
		"intelligence": s.Intelligence,
		"wisdom":       s.Wisdom,
		"charisma":     s.Charisma,
	}
}

// CharacterSheet is the projection of a player character supplied by
// the character-record subsystem. Any field may be absent; accessors
// degrade to sensible defaults rather than erroring.
type CharacterSheet struct {
	ID    string  `json:"id"`
	Name  string  `json:"name,omitempty"`
	Class string  `json:"class,omitempty"`
	Level int     `json:"level,omitempty"`
	Stats Stats5e `json:"stats,omitempty"`
	HP    int     `json:"hp,omitempty"`
	MaxHP int     `json:"max_hp,omitempty"`
	AC    int     `json:"ac,omitempty"`
}

const (
	defaultScore = 10
	defaultMaxHP = 10
	defaultAC    = 10
)

// Score returns the character's score for the named ability. Missing
// or unset scores default to 10 (modifier 0).
func (cs *CharacterSheet) Score(ability string) int {
	if cs == nil {
		return defaultScore
	}
	var score int
	switch rules.Normalize(ability) {
	case "strength":
		score = cs.Stats.Strength
	case "dexterity":
		score = cs.Stats.Dexterity
	case "constitution":
		score = cs.Stats.Constitution
	case "intelligence":
		score = cs.Stats.Intelligence
	case "wisdom":
		score = cs.Stats.Wisdom
	case "charisma":
		score = cs.Stats.Charisma
	default:
		return defaultScore
	}
	if score == 0 {
		return defaultScore
	}
	return score
}

// EffectiveLevel returns the character's level, defaulting to 1.
func (cs *CharacterSheet) EffectiveLevel() int {
	if cs == nil || cs.Level < 1 {
		return 1
	}
	return cs.Level
}

// BuildActor constructs the runtime d20.Actor for a sheet. Missing HP
// and AC are defaulted so a partial projection still yields a usable
// combatant.
func (cs *CharacterSheet) BuildActor() (*d20.Actor, error) {
	if cs == nil {
		return nil, fmt.Errorf("character sheet cannot be nil")
	}

	maxHP := cs.MaxHP
	if maxHP <= 0 {
		maxHP = defaultMaxHP
	}
	ac := cs.AC
	if ac <= 0 {
		ac = defaultAC
	}

	attrs := make(map[string]int, len(rules.Abilities))
	for _, ability := range rules.Abilities {
		attrs[ability] = cs.Score(ability)
	}

	a, err := d20.NewActor(cs.ID).
		WithHP(maxHP).
		WithAC(ac).
		WithAttributes(attrs).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	if cs.HP > 0 && cs.HP != maxHP {
		hp := cs.HP
		if hp > maxHP {
			hp = maxHP
		}
		if err := a.SetHP(hp); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}

	return a, nil
}
