// Package rules holds the d20 SRD lookup tables shared by the text
// scanner and the skill-check resolver: which names are skills, which
// are abilities, and how scores turn into modifiers.
package rules

import "strings"

// Abilities are the six core ability scores.
var Abilities = []string{
	"strength", "dexterity", "constitution",
	"intelligence", "wisdom", "charisma",
}

// SkillAbilities maps each skill to its governing ability.
var SkillAbilities = map[string]string{
	"acrobatics":      "dexterity",
	"animal handling": "wisdom",
	"arcana":          "intelligence",
	"athletics":       "strength",
	"deception":       "charisma",
	"history":         "intelligence",
	"insight":         "wisdom",
	"intimidation":    "charisma",
	"investigation":   "intelligence",
	"medicine":        "wisdom",
	"nature":          "intelligence",
	"perception":      "wisdom",
	"performance":     "charisma",
	"persuasion":      "charisma",
	"religion":        "intelligence",
	"sleight of hand": "dexterity",
	"stealth":         "dexterity",
	"survival":        "wisdom",
}

var abilitySet = func() map[string]bool {
	m := make(map[string]bool, len(Abilities))
	for _, a := range Abilities {
		m[a] = true
	}
	return m
}()

// Normalize lowercases and trims a skill or ability name for table lookup.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsAbility reports whether name is one of the six ability scores.
func IsAbility(name string) bool {
	return abilitySet[Normalize(name)]
}

// IsSkill reports whether name is a known skill.
func IsSkill(name string) bool {
	_, ok := SkillAbilities[Normalize(name)]
	return ok
}

// GoverningAbility resolves a skill or ability name to an ability.
// Raw ability names resolve to themselves.
func GoverningAbility(name string) (string, bool) {
	n := Normalize(name)
	if abilitySet[n] {
		return n, true
	}
	if ability, ok := SkillAbilities[n]; ok {
		return ability, true
	}
	return "", false
}

// AbilityModifier converts an ability score to its modifier,
// floor((score-10)/2). Correct for scores below 10 as well.
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// ProficiencyBonus is ceil(1 + level/4). Every check is treated as
// proficient; per-skill proficiency lists are outside this engine's
// scope. Levels below 1 are treated as level 1.
func ProficiencyBonus(level int) int {
	if level < 1 {
		level = 1
	}
	return 1 + (level+3)/4
}
