package bestiary

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ravenholt/encounter-engine/pkg/dice"
	"github.com/ravenholt/encounter-engine/pkg/loot"
	"github.com/ravenholt/encounter-engine/pkg/rules"
)

// Stat ranges for enemies the dictionary does not know.
const (
	unknownHPMin = 10
	unknownHPMax = 29
	unknownACMin = 10
	unknownACMax = 14
)

var nameCaser = cases.Title(language.English)

// Generator synthesizes stat blocks and loot from the template table.
type Generator struct {
	src  dice.Source
	loot *loot.Generator
}

// NewGenerator creates a generator drawing from src.
func NewGenerator(src dice.Source) *Generator {
	return &Generator{
		src:  src,
		loot: loot.NewGenerator(src),
	}
}

// SynthesizeThreat builds a stat block for the named creature type.
// Known types draw HP uniformly from the template range and roll
// initiative as d20 plus the dexterity modifier. Unknown names get a
// generic block: HP in [10,29], AC in [10,14], a plain d20 initiative
// and no weapons or attacks.
func (g *Generator) SynthesizeThreat(typeName string) Threat {
	key := rules.Normalize(typeName)

	tmpl, ok := templates[key]
	if !ok {
		return g.unknownThreat(typeName)
	}

	hp := dice.Between(g.src, tmpl.HPMin, tmpl.HPMax)
	return Threat{
		ID:             uuid.New(),
		Name:           tmpl.Name,
		Description:    tmpl.Description,
		HP:             hp,
		MaxHP:          hp,
		ArmorClass:     tmpl.ArmorClass,
		Initiative:     dice.D20(g.src) + rules.AbilityModifier(tmpl.Stats.Dexterity),
		Stats:          tmpl.Stats,
		Weapons:        copyStrings(tmpl.Weapons),
		SpecialAttacks: copyStrings(tmpl.SpecialAttacks),
		Spells:         copyStrings(tmpl.Spells),
		Loot:           g.loot.ForCreature(tmpl.GoldTier, tmpl.Weapons),
	}
}

func (g *Generator) unknownThreat(name string) Threat {
	display := nameCaser.String(rules.Normalize(name))
	hp := dice.Between(g.src, unknownHPMin, unknownHPMax)
	return Threat{
		ID:          uuid.New(),
		Name:        display,
		Description: fmt.Sprintf("%s, an unfamiliar foe sized up on the fly.", display),
		HP:          hp,
		MaxHP:       hp,
		ArmorClass:  dice.Between(g.src, unknownACMin, unknownACMax),
		Initiative:  dice.D20(g.src),
		Loot:        g.loot.ForCreature(loot.TierWeak, nil),
	}
}

// SynthesizeLoot rolls a drop list for the named creature type without
// building the full stat block. Unknown names use the weak gold tier
// and no weapon pool.
func (g *Generator) SynthesizeLoot(typeName string) []loot.Item {
	if tmpl, ok := templates[rules.Normalize(typeName)]; ok {
		return g.loot.ForCreature(tmpl.GoldTier, tmpl.Weapons)
	}
	return g.loot.ForCreature(loot.TierWeak, nil)
}

// LootFromText scans post-combat narrative for loot-shaped phrases.
func (g *Generator) LootFromText(text string) []loot.Item {
	return g.loot.FromText(text)
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
