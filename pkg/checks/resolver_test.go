package checks

import (
	"testing"

	"github.com/ravenholt/encounter-engine/pkg/actor"
	"github.com/ravenholt/encounter-engine/pkg/dice"
	"github.com/ravenholt/encounter-engine/pkg/scanner"
)

func sheet() *actor.CharacterSheet {
	return &actor.CharacterSheet{
		ID:    "mira",
		Name:  "Mira",
		Level: 5,
		Stats: actor.Stats5e{
			Strength:     8,
			Dexterity:    16,
			Constitution: 12,
			Intelligence: 14,
			Wisdom:       10,
			Charisma:     13,
		},
	}
}

func TestModifierFor(t *testing.T) {
	r := NewResolver(dice.New(1))
	cs := sheet()

	tests := []struct {
		name     string
		expected int
	}{
		{"strength", -1},     // raw ability, no proficiency
		{"dexterity", 3},     // raw ability
		{"intelligence", 2},  // raw ability
		{"stealth", 6},       // dex 3 + proficiency 3 at level 5
		{"arcana", 5},        // int 2 + proficiency 3
		{"perception", 3},    // wis 0 + proficiency 3
		{"Perception", 3},    // case-insensitive
		{"luck", 0},          // unrecognized degrades to 0
		{"", 0},              // empty degrades to 0
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ModifierFor(tt.name, cs); got != tt.expected {
				t.Errorf("ModifierFor(%q) = %d, want %d", tt.name, got, tt.expected)
			}
		})
	}
}

func TestModifierFor_MissingCharacter(t *testing.T) {
	r := NewResolver(dice.New(1))

	// Missing sheet: scores default to 10, level defaults to 1.
	if got := r.ModifierFor("strength", nil); got != 0 {
		t.Errorf("nil sheet ability modifier = %d, want 0", got)
	}
	if got := r.ModifierFor("athletics", nil); got != 2 {
		t.Errorf("nil sheet skill modifier = %d, want 2 (proficiency only)", got)
	}
}

func TestResolve_SuccessAgainstDC(t *testing.T) {
	dc := 10
	prompt := scanner.SkillCheckPrompt{
		SkillOrAbility:  "intelligence",
		DifficultyClass: &dc,
	}
	cs := sheet() // int modifier +2

	// A modifier of +2 against DC 10 succeeds iff the roll is >= 8.
	for rollMinusOne := 0; rollMinusOne < 20; rollMinusOne++ {
		src := &dice.Scripted{Rolls: []int{rollMinusOne}}
		res := NewResolver(src).Resolve(prompt, cs)

		roll := rollMinusOne + 1
		if res.Roll != roll {
			t.Fatalf("Roll = %d, want %d", res.Roll, roll)
		}
		if res.Modifier != 2 {
			t.Fatalf("Modifier = %d, want 2", res.Modifier)
		}
		if res.Total != roll+2 {
			t.Fatalf("Total = %d, want %d", res.Total, roll+2)
		}
		if res.Success == nil {
			t.Fatal("Success should be judged when the prompt has a DC")
		}
		if want := roll >= 8; *res.Success != want {
			t.Errorf("roll %d: Success = %v, want %v", roll, *res.Success, want)
		}
	}
}

func TestResolve_NoDCLeavesSuccessUndefined(t *testing.T) {
	prompt := scanner.SkillCheckPrompt{SkillOrAbility: "stealth"}
	res := NewResolver(dice.New(4)).Resolve(prompt, sheet())

	if res.Success != nil {
		t.Errorf("Success = %v, want nil without a DC", *res.Success)
	}
	if res.Roll < 1 || res.Roll > 20 {
		t.Errorf("Roll = %d, want 1..20", res.Roll)
	}
	if res.CharacterID != "mira" {
		t.Errorf("CharacterID = %q, want mira", res.CharacterID)
	}
}

func TestResolve_NilSheet(t *testing.T) {
	dc := 15
	prompt := scanner.SkillCheckPrompt{SkillOrAbility: "wisdom", DifficultyClass: &dc}
	res := NewResolver(dice.New(8)).Resolve(prompt, nil)

	if res.Modifier != 0 {
		t.Errorf("Modifier = %d, want 0 for missing character", res.Modifier)
	}
	if res.CharacterID != "" {
		t.Errorf("CharacterID = %q, want empty", res.CharacterID)
	}
	if res.Success == nil {
		t.Error("Success should still be judged against the DC")
	}
}
