package bestiary

import (
	"testing"

	"github.com/ravenholt/encounter-engine/pkg/dice"
	"github.com/ravenholt/encounter-engine/pkg/loot"
)

func TestSynthesizeThreat_KnownType(t *testing.T) {
	g := NewGenerator(dice.New(42))

	for i := 0; i < 100; i++ {
		threat := g.SynthesizeThreat("goblin")

		if threat.Name != "goblin" {
			t.Fatalf("Name = %q, want goblin", threat.Name)
		}
		if threat.HP < 7 || threat.HP > 10 {
			t.Fatalf("goblin HP = %d, want [7,10]", threat.HP)
		}
		if threat.HP != threat.MaxHP {
			t.Fatalf("fresh threat HP %d != MaxHP %d", threat.HP, threat.MaxHP)
		}
		if threat.ArmorClass != 15 {
			t.Fatalf("goblin AC = %d, want 15", threat.ArmorClass)
		}
		// d20 + dex modifier (+2 for dex 14)
		if threat.Initiative < 3 || threat.Initiative > 22 {
			t.Fatalf("goblin initiative = %d, want [3,22]", threat.Initiative)
		}
		if len(threat.Weapons) == 0 {
			t.Fatal("goblin should carry template weapons")
		}
		if len(threat.Loot) == 0 {
			t.Fatal("threat should carry a speculative loot list")
		}
	}
}

func TestSynthesizeThreat_CaseAndSpacing(t *testing.T) {
	g := NewGenerator(dice.New(1))

	threat := g.SynthesizeThreat("  Goblin ")
	if threat.Name != "goblin" || threat.ArmorClass != 15 {
		t.Errorf("normalized lookup failed: %+v", threat)
	}
}

func TestSynthesizeThreat_UnknownType(t *testing.T) {
	g := NewGenerator(dice.New(17))

	for i := 0; i < 100; i++ {
		threat := g.SynthesizeThreat("Black Knight")

		if threat.Name != "Black Knight" {
			t.Fatalf("Name = %q, want Black Knight", threat.Name)
		}
		if threat.HP < 10 || threat.HP > 29 {
			t.Fatalf("unknown HP = %d, want [10,29]", threat.HP)
		}
		if threat.ArmorClass < 10 || threat.ArmorClass > 14 {
			t.Fatalf("unknown AC = %d, want [10,14]", threat.ArmorClass)
		}
		if threat.Initiative < 1 || threat.Initiative > 20 {
			t.Fatalf("unknown initiative = %d, want plain d20", threat.Initiative)
		}
		if len(threat.Weapons) != 0 || len(threat.SpecialAttacks) != 0 {
			t.Fatal("unknown threats carry no weapons or attacks")
		}
	}
}

func TestSynthesizeThreat_TemplateSlicesAreCopied(t *testing.T) {
	g := NewGenerator(dice.New(2))

	a := g.SynthesizeThreat("goblin")
	a.Weapons[0] = "rubber chicken"

	b := g.SynthesizeThreat("goblin")
	if b.Weapons[0] == "rubber chicken" {
		t.Error("mutating one threat's weapons leaked into the template")
	}
}

func TestSynthesizeThreat_DistinctIDs(t *testing.T) {
	g := NewGenerator(dice.New(3))
	if g.SynthesizeThreat("orc").ID == g.SynthesizeThreat("orc").ID {
		t.Error("threats should have distinct IDs")
	}
}

func TestSynthesizeLoot(t *testing.T) {
	g := NewGenerator(dice.New(23))

	items := g.SynthesizeLoot("dragon")
	if len(items) == 0 {
		t.Fatal("expected loot")
	}
	gold := items[0]
	if gold.Category != loot.CategoryGold {
		t.Fatalf("first item = %s, want gold", gold.Category)
	}
	if gold.Quantity < 100 || gold.Quantity > 399 {
		t.Errorf("dragon gold = %d, want [100,399]", gold.Quantity)
	}

	items = g.SynthesizeLoot("unknown")
	if len(items) == 0 {
		t.Fatal("expected loot for unknown type")
	}
	if items[0].Quantity < 1 || items[0].Quantity > 10 {
		t.Errorf("unknown gold = %d, want weak tier [1,10]", items[0].Quantity)
	}
}

func TestKnownTypes(t *testing.T) {
	types := KnownTypes()
	if len(types) != len(templates) {
		t.Fatalf("KnownTypes returned %d names for %d templates", len(types), len(templates))
	}
	for _, name := range types {
		if _, ok := TemplateFor(name); !ok {
			t.Errorf("KnownTypes name %q has no template", name)
		}
	}
}
