package loot

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ravenholt/encounter-engine/pkg/dice"
)

const (
	weaponDropChance   = 0.5
	magicWeaponChance  = 0.1
	potionDropChance   = 0.2
	magicValueMultiple = 10
)

// magicAdjectives prefix magical weapon names.
var magicAdjectives = []string{
	"gleaming", "runed", "ancient", "blazing", "frostbound",
	"shadowed", "singing", "thunderous", "venomous", "radiant",
}

// potionEffects name the randomly chosen potion drops.
var potionEffects = []string{
	"healing", "greater healing", "strength", "invisibility",
	"speed", "fire resistance", "water breathing", "heroism",
}

var titleCaser = cases.Title(language.English)

// Generator rolls loot from an injected random source.
type Generator struct {
	src dice.Source
}

// NewGenerator creates a loot generator.
func NewGenerator(src dice.Source) *Generator {
	return &Generator{src: src}
}

// ForCreature rolls the speculative drop list for one threat: gold
// from the tier's range, a 50% chance of a weapon from the creature's
// pool (itself 10% likely to be magical), and a 20% chance of a
// potion. An empty weapon pool skips the weapon branch.
func (g *Generator) ForCreature(tier GoldTier, weaponPool []string) []Item {
	var items []Item

	r, ok := goldRanges[tier]
	if !ok {
		r = goldRanges[TierWeak]
	}
	gold := dice.Between(g.src, r[0], r[1])
	items = append(items, Item{
		ID:       uuid.New(),
		Name:     "gold pieces",
		Category: CategoryGold,
		Value:    gold,
		Weight:   0.02 * float64(gold),
		Rarity:   RarityCommon,
		Quantity: gold,
	})

	if len(weaponPool) > 0 && dice.Chance(g.src, weaponDropChance) {
		items = append(items, g.weapon(weaponPool))
	}

	if dice.Chance(g.src, potionDropChance) {
		effect := potionEffects[g.src.Intn(len(potionEffects))]
		items = append(items, Item{
			ID:          uuid.New(),
			Name:        "potion of " + effect,
			Description: fmt.Sprintf("A stoppered vial that grants %s when drunk.", effect),
			Category:    CategoryPotion,
			Value:       dice.Between(g.src, 25, 75),
			Weight:      0.5,
			Rarity:      RarityCommon,
			Magical:     true,
			Quantity:    1,
		})
	}

	return items
}

func (g *Generator) weapon(pool []string) Item {
	name := pool[g.src.Intn(len(pool))]
	item := Item{
		ID:       uuid.New(),
		Name:     name,
		Category: CategoryWeapon,
		Value:    dice.Between(g.src, 5, 25),
		Weight:   3,
		Rarity:   RarityCommon,
		Quantity: 1,
	}
	if dice.Chance(g.src, magicWeaponChance) {
		adj := magicAdjectives[g.src.Intn(len(magicAdjectives))]
		item.Name = titleCaser.String(adj + " " + name)
		item.Description = fmt.Sprintf("A %s %s humming with faint enchantment.", adj, name)
		item.Rarity = RarityUncommon
		item.Magical = true
		item.Value *= magicValueMultiple
	}
	return item
}
