// Package checks resolves skill and ability checks extracted from
// narrative text against a character's ability scores. Resolution is
// total: unrecognized skills and missing character data degrade to a
// zero ability modifier rather than erroring, because a live session
// must never halt on a heuristic miss.
package checks

import (
	"github.com/ravenholt/encounter-engine/pkg/actor"
	"github.com/ravenholt/encounter-engine/pkg/dice"
	"github.com/ravenholt/encounter-engine/pkg/rules"
	"github.com/ravenholt/encounter-engine/pkg/scanner"
)

// Result is the outcome of one resolved check. Success is nil when the
// prompt carried no difficulty class: without a target there is no
// pass/fail judgment to make.
type Result struct {
	Prompt         scanner.SkillCheckPrompt `json:"prompt"`
	CharacterID    string                   `json:"character_id,omitempty"`
	SkillOrAbility string                   `json:"skill_or_ability"`
	Roll           int                      `json:"roll"`
	Modifier       int                      `json:"modifier"`
	Total          int                      `json:"total"`
	Success        *bool                    `json:"success,omitempty"`
}

// Resolver performs randomized check resolution.
type Resolver struct {
	src dice.Source
}

// NewResolver creates a resolver drawing rolls from src.
func NewResolver(src dice.Source) *Resolver {
	return &Resolver{src: src}
}

// ModifierFor computes the modifier a character applies to the named
// skill or ability. Raw abilities use the plain ability modifier;
// skills resolve their governing ability and add the flat proficiency
// bonus (every skill is treated as proficient). Unknown names yield 0.
func (r *Resolver) ModifierFor(skillOrAbility string, sheet *actor.CharacterSheet) int {
	name := rules.Normalize(skillOrAbility)

	if rules.IsAbility(name) {
		return rules.AbilityModifier(sheet.Score(name))
	}

	if ability, ok := rules.GoverningAbility(name); ok {
		return rules.AbilityModifier(sheet.Score(ability)) +
			rules.ProficiencyBonus(sheet.EffectiveLevel())
	}

	return 0
}

// Resolve draws a d20, applies the character's modifier and, when the
// prompt carries a difficulty class, judges success as total >= DC.
func (r *Resolver) Resolve(prompt scanner.SkillCheckPrompt, sheet *actor.CharacterSheet) Result {
	roll := dice.D20(r.src)
	modifier := r.ModifierFor(prompt.SkillOrAbility, sheet)

	res := Result{
		Prompt:         prompt,
		SkillOrAbility: prompt.SkillOrAbility,
		Roll:           roll,
		Modifier:       modifier,
		Total:          roll + modifier,
	}
	if sheet != nil {
		res.CharacterID = sheet.ID
	}
	if prompt.DifficultyClass != nil {
		success := res.Total >= *prompt.DifficultyClass
		res.Success = &success
	}
	return res
}
