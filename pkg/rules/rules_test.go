package rules

import "testing"

func TestAbilityModifier(t *testing.T) {
	tests := []struct {
		score    int
		expected int
	}{
		{1, -5},
		{7, -2},
		{8, -1},
		{9, -1},
		{10, 0},
		{11, 0},
		{12, 1},
		{14, 2},
		{15, 2},
		{18, 4},
		{20, 5},
	}
	for _, tt := range tests {
		if got := AbilityModifier(tt.score); got != tt.expected {
			t.Errorf("AbilityModifier(%d) = %d, want %d", tt.score, got, tt.expected)
		}
	}
}

func TestProficiencyBonus(t *testing.T) {
	tests := []struct {
		level    int
		expected int
	}{
		{0, 2}, // missing level defaults to 1
		{1, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
		{12, 4},
		{13, 5},
		{17, 6},
		{20, 6},
	}
	for _, tt := range tests {
		if got := ProficiencyBonus(tt.level); got != tt.expected {
			t.Errorf("ProficiencyBonus(%d) = %d, want %d", tt.level, got, tt.expected)
		}
	}
}

func TestGoverningAbility(t *testing.T) {
	tests := []struct {
		name    string
		ability string
		ok      bool
	}{
		{"perception", "wisdom", true},
		{"Perception", "wisdom", true},
		{"  Stealth ", "dexterity", true},
		{"sleight of hand", "dexterity", true},
		{"intelligence", "intelligence", true},
		{"luck", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := GoverningAbility(tt.name)
		if got != tt.ability || ok != tt.ok {
			t.Errorf("GoverningAbility(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.ability, tt.ok)
		}
	}
}

func TestIsSkillIsAbility(t *testing.T) {
	if !IsSkill("Athletics") {
		t.Error("athletics should be a skill")
	}
	if IsSkill("strength") {
		t.Error("strength is an ability, not a skill")
	}
	if !IsAbility("Wisdom") {
		t.Error("wisdom should be an ability")
	}
	if IsAbility("perception") {
		t.Error("perception is a skill, not an ability")
	}
}
