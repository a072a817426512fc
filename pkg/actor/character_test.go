package actor

import "testing"

func TestStats5e_ToAttributes(t *testing.T) {
	stats := Stats5e{
		Strength:     16,
		Dexterity:    14,
		Constitution: 15,
		Intelligence: 10,
		Wisdom:       12,
		Charisma:     8,
	}

	attrs := stats.ToAttributes()

	tests := []struct {
		key      string
		expected int
	}{
		{"strength", 16},
		{"dexterity", 14},
		{"constitution", 15},
		{"intelligence", 10},
		{"wisdom", 12},
		{"charisma", 8},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := attrs[tt.key]; got != tt.expected {
				t.Errorf("ToAttributes()[%q] = %d, want %d", tt.key, got, tt.expected)
			}
		})
	}
}

func TestCharacterSheet_Score(t *testing.T) {
	cs := &CharacterSheet{
		Stats: Stats5e{Strength: 16, Dexterity: 14},
	}

	if got := cs.Score("strength"); got != 16 {
		t.Errorf("Score(strength) = %d, want 16", got)
	}
	if got := cs.Score("Dexterity"); got != 14 {
		t.Errorf("Score(Dexterity) = %d, want 14", got)
	}
	// Unset scores default to 10.
	if got := cs.Score("wisdom"); got != 10 {
		t.Errorf("Score(wisdom) = %d, want 10", got)
	}
	// Unknown names default to 10.
	if got := cs.Score("luck"); got != 10 {
		t.Errorf("Score(luck) = %d, want 10", got)
	}
	// Nil sheets default to 10.
	var nilSheet *CharacterSheet
	if got := nilSheet.Score("strength"); got != 10 {
		t.Errorf("nil sheet Score = %d, want 10", got)
	}
}

func TestCharacterSheet_EffectiveLevel(t *testing.T) {
	if got := (&CharacterSheet{Level: 5}).EffectiveLevel(); got != 5 {
		t.Errorf("EffectiveLevel = %d, want 5", got)
	}
	if got := (&CharacterSheet{}).EffectiveLevel(); got != 1 {
		t.Errorf("default EffectiveLevel = %d, want 1", got)
	}
	var nilSheet *CharacterSheet
	if got := nilSheet.EffectiveLevel(); got != 1 {
		t.Errorf("nil sheet EffectiveLevel = %d, want 1", got)
	}
}

func TestCharacterSheet_BuildActor(t *testing.T) {
	cs := &CharacterSheet{
		ID:    "thorin",
		Name:  "Thorin",
		Class: "Fighter",
		Level: 3,
		Stats: Stats5e{Strength: 16, Dexterity: 13, Constitution: 14},
		HP:    20,
		MaxHP: 28,
		AC:    16,
	}

	a, err := cs.BuildActor()
	if err != nil {
		t.Fatalf("BuildActor failed: %v", err)
	}

	if a.MaxHP() != 28 {
		t.Errorf("MaxHP = %d, want 28", a.MaxHP())
	}
	if a.HP() != 20 {
		t.Errorf("HP = %d, want 20", a.HP())
	}
	if a.AC() != 16 {
		t.Errorf("AC = %d, want 16", a.AC())
	}
	if str, ok := a.Attribute("strength"); !ok || str != 16 {
		t.Errorf("strength attribute = %d (ok=%v), want 16", str, ok)
	}
}

func TestCharacterSheet_BuildActorDefaults(t *testing.T) {
	// A near-empty projection still builds.
	cs := &CharacterSheet{ID: "mystery"}

	a, err := cs.BuildActor()
	if err != nil {
		t.Fatalf("BuildActor failed: %v", err)
	}

	if a.MaxHP() != 10 {
		t.Errorf("default MaxHP = %d, want 10", a.MaxHP())
	}
	if a.AC() != 10 {
		t.Errorf("default AC = %d, want 10", a.AC())
	}
	if wis, ok := a.Attribute("wisdom"); !ok || wis != 10 {
		t.Errorf("default wisdom = %d (ok=%v), want 10", wis, ok)
	}
}

func TestCharacterSheet_BuildActorNil(t *testing.T) {
	var cs *CharacterSheet
	if _, err := cs.BuildActor(); err == nil {
		t.Error("expected error for nil sheet")
	}
}
