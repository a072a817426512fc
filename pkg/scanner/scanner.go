// Package scanner classifies narrative text fragments for combat
// transitions and locates skill-check mentions. It is a best-effort
// heuristic matcher over fixed trigger phrases and patterns: a miss is
// reported as an empty result, never as an error, and scanning has no
// internal state, so repeated calls on the same text agree.
package scanner

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ravenholt/encounter-engine/pkg/rules"
)

// Trigger phrases whose presence in a fragment signals a combat
// transition. Tested as case-insensitive substrings.
var combatStartPhrases = []string{
	"combat begins",
	"combat starts",
	"roll for initiative",
	"initiative order",
	"you are ambushed",
	"enemies appear",
	"battle begins",
	"attacks you",
	"lunges at you",
	"charges at you",
	"springs to attack",
	"draws its weapon",
	"draw their weapons",
}

var combatEndPhrases = []string{
	"combat ends",
	"combat is over",
	"battle is over",
	"the battle ends",
	"fight is over",
	"you are victorious",
	"victory is yours",
	"enemies are defeated",
	"last enemy falls",
	"loot the fallen",
	"dust settles",
}

// inlineCheckPattern matches prose of the shape
// "[make a] [DC n] [Ability (]Skill[)] check/saving throw".
var inlineCheckPattern = regexp.MustCompile(
	`(?i)(?:(?:make|makes|roll|rolls|attempt|attempts)\s+(?:a|an)\s+)?` +
		`(?:dc\s*(\d+)\s+)?` +
		`([a-z]+(?:\s+[a-z]+){0,2}?)` +
		`(?:\s*\(([a-z ]+)\))?` +
		`\s+(?:check|saving\s+throw|save)\b`)

// bracketCheckPattern matches roll notation like
// "[Roll: d20+Intelligence modifier vs DC 12]".
var bracketCheckPattern = regexp.MustCompile(
	`(?i)\[\s*roll:\s*d20\s*` +
		`(?:\+\s*([a-z]+(?:\s[a-z]+)*?)(?:\s+modifier)?)?` +
		`\s*(?:vs\.?\s+dc\s*(\d+))?\s*\]`)

// Classification reports the combat signals found in a fragment. Both
// flags are reported independently; start/end precedence is the
// caller's decision.
type Classification struct {
	StartsCombat bool `json:"starts_combat"`
	EndsCombat   bool `json:"ends_combat"`
}

// SkillCheckPrompt is one detected skill or ability check mention.
// Prompts are ephemeral: recreated on every scan, never persisted
// across fragments.
type SkillCheckPrompt struct {
	ID              uuid.UUID `json:"id"`
	SkillOrAbility  string    `json:"skill_or_ability"`
	SourceText      string    `json:"source_text"`
	DifficultyClass *int      `json:"difficulty_class,omitempty"`
}

// Scanner locates combat triggers and skill-check mentions in
// narrative text.
type Scanner struct {
	bracketNotation bool
}

// NewScanner creates a scanner. bracketNotation enables the
// "[Roll: ...]" pattern in addition to inline phrasing.
func NewScanner(bracketNotation bool) *Scanner {
	return &Scanner{bracketNotation: bracketNotation}
}

// Classify tests the fragment against the fixed trigger-phrase lists.
func (s *Scanner) Classify(text string) Classification {
	lower := strings.ToLower(text)
	var c Classification
	for _, phrase := range combatStartPhrases {
		if strings.Contains(lower, phrase) {
			c.StartsCombat = true
			break
		}
	}
	for _, phrase := range combatEndPhrases {
		if strings.Contains(lower, phrase) {
			c.EndsCombat = true
			break
		}
	}
	return c
}

// FindSkillChecks scans the fragment for skill-check mentions. Each
// pattern is evaluated independently and results are concatenated;
// identical phrasing appearing twice yields two prompts. A match is
// kept only when the captured name is a known skill or ability.
func (s *Scanner) FindSkillChecks(text string) []SkillCheckPrompt {
	var prompts []SkillCheckPrompt

	for _, m := range inlineCheckPattern.FindAllStringSubmatch(text, -1) {
		name := rules.Normalize(m[2])
		if m[3] != "" {
			// Parenthesized form: the skill inside the parens is the
			// captured name, e.g. "Wisdom (Perception) check".
			name = rules.Normalize(m[3])
			if !rules.IsSkill(name) {
				continue
			}
		} else if !rules.IsSkill(name) && !rules.IsAbility(name) {
			continue
		}
		prompts = append(prompts, newPrompt(name, m[0], m[1]))
	}

	if s.bracketNotation {
		for _, m := range bracketCheckPattern.FindAllStringSubmatch(text, -1) {
			name := rules.Normalize(m[1])
			if !rules.IsSkill(name) && !rules.IsAbility(name) {
				continue
			}
			prompts = append(prompts, newPrompt(name, m[0], m[2]))
		}
	}

	return prompts
}

func newPrompt(name, source, dcCapture string) SkillCheckPrompt {
	p := SkillCheckPrompt{
		ID:             uuid.New(),
		SkillOrAbility: name,
		SourceText:     strings.TrimSpace(source),
	}
	if dcCapture != "" {
		if dc, err := strconv.Atoi(dcCapture); err == nil {
			p.DifficultyClass = &dc
		}
	}
	return p
}
