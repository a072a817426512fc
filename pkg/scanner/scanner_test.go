package scanner

import "testing"

func TestClassify(t *testing.T) {
	s := NewScanner(false)

	tests := []struct {
		name   string
		text   string
		starts bool
		ends   bool
	}{
		{"plain narration", "You walk through the quiet forest.", false, false},
		{"initiative call", "Roll for initiative!", true, false},
		{"ambush", "You are ambushed by shapes in the dark.", true, false},
		{"enemies appear", "Suddenly, enemies appear from behind the rocks.", true, false},
		{"battle over", "The battle is over and you loot the fallen.", false, true},
		{"combat ends", "Combat ends as the last goblin flees.", false, true},
		{"victory", "You are victorious. The cave falls silent.", false, true},
		{"case insensitive", "COMBAT BEGINS NOW", true, false},
		{"empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := s.Classify(tt.text)
			if c.StartsCombat != tt.starts || c.EndsCombat != tt.ends {
				t.Errorf("Classify(%q) = %+v, want starts=%v ends=%v", tt.text, c, tt.starts, tt.ends)
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	s := NewScanner(false)
	text := "Roll for initiative! The battle is over."
	first := s.Classify(text)
	second := s.Classify(text)
	if first != second {
		t.Errorf("Classify not idempotent: %+v vs %+v", first, second)
	}
}

func TestFindSkillChecks_ParenthesizedWithDC(t *testing.T) {
	s := NewScanner(false)

	prompts := s.FindSkillChecks("Everyone must pass a DC 15 Wisdom (Perception) check to spot the trap.")
	if len(prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(prompts))
	}
	p := prompts[0]
	if p.SkillOrAbility != "perception" {
		t.Errorf("SkillOrAbility = %q, want perception", p.SkillOrAbility)
	}
	if p.DifficultyClass == nil || *p.DifficultyClass != 15 {
		t.Errorf("DifficultyClass = %v, want 15", p.DifficultyClass)
	}
}

func TestFindSkillChecks_AbilityWithoutDC(t *testing.T) {
	s := NewScanner(false)

	prompts := s.FindSkillChecks("Make an Intelligence check to recall the sigil's meaning.")
	if len(prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(prompts))
	}
	p := prompts[0]
	if p.SkillOrAbility != "intelligence" {
		t.Errorf("SkillOrAbility = %q, want intelligence", p.SkillOrAbility)
	}
	if p.DifficultyClass != nil {
		t.Errorf("DifficultyClass = %d, want nil", *p.DifficultyClass)
	}
}

func TestFindSkillChecks_SavingThrow(t *testing.T) {
	s := NewScanner(false)

	prompts := s.FindSkillChecks("The gas fills the room. Roll a DC 12 Constitution saving throw.")
	if len(prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(prompts))
	}
	if prompts[0].SkillOrAbility != "constitution" {
		t.Errorf("SkillOrAbility = %q, want constitution", prompts[0].SkillOrAbility)
	}
	if prompts[0].DifficultyClass == nil || *prompts[0].DifficultyClass != 12 {
		t.Errorf("DifficultyClass = %v, want 12", prompts[0].DifficultyClass)
	}
}

func TestFindSkillChecks_MultiWordSkill(t *testing.T) {
	s := NewScanner(false)

	prompts := s.FindSkillChecks("Make an Animal Handling check to calm the horse.")
	if len(prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(prompts))
	}
	if prompts[0].SkillOrAbility != "animal handling" {
		t.Errorf("SkillOrAbility = %q, want animal handling", prompts[0].SkillOrAbility)
	}
}

func TestFindSkillChecks_UnrecognizedNameDiscarded(t *testing.T) {
	s := NewScanner(false)

	prompts := s.FindSkillChecks("The guard will check your papers. Make a vigilance check.")
	if len(prompts) != 0 {
		t.Errorf("expected no prompts, got %d: %+v", len(prompts), prompts)
	}
}

func TestFindSkillChecks_DuplicatesNotSuppressed(t *testing.T) {
	s := NewScanner(false)

	prompts := s.FindSkillChecks("Make a Stealth check. Later, make a Stealth check again.")
	if len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(prompts))
	}
	for _, p := range prompts {
		if p.SkillOrAbility != "stealth" {
			t.Errorf("SkillOrAbility = %q, want stealth", p.SkillOrAbility)
		}
	}
	if prompts[0].ID == prompts[1].ID {
		t.Error("prompts should have distinct IDs")
	}
}

func TestFindSkillChecks_BracketNotation(t *testing.T) {
	text := "You study the runes. [Roll: d20+Intelligence modifier vs DC 12]"

	// Disabled by default.
	if prompts := NewScanner(false).FindSkillChecks(text); len(prompts) != 0 {
		t.Fatalf("bracket notation should be off, got %d prompts", len(prompts))
	}

	prompts := NewScanner(true).FindSkillChecks(text)
	if len(prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(prompts))
	}
	p := prompts[0]
	if p.SkillOrAbility != "intelligence" {
		t.Errorf("SkillOrAbility = %q, want intelligence", p.SkillOrAbility)
	}
	if p.DifficultyClass == nil || *p.DifficultyClass != 12 {
		t.Errorf("DifficultyClass = %v, want 12", p.DifficultyClass)
	}
}

func TestFindSkillChecks_BracketNotationWithoutDC(t *testing.T) {
	prompts := NewScanner(true).FindSkillChecks("[Roll: d20+Dexterity modifier]")
	if len(prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(prompts))
	}
	if prompts[0].SkillOrAbility != "dexterity" {
		t.Errorf("SkillOrAbility = %q, want dexterity", prompts[0].SkillOrAbility)
	}
	if prompts[0].DifficultyClass != nil {
		t.Errorf("DifficultyClass should be nil, got %d", *prompts[0].DifficultyClass)
	}
}

func TestFindSkillChecks_NoMatch(t *testing.T) {
	s := NewScanner(true)
	if prompts := s.FindSkillChecks("The innkeeper pours you an ale."); len(prompts) != 0 {
		t.Errorf("expected no prompts, got %d", len(prompts))
	}
}
