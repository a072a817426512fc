package bestiary

import (
	"github.com/ravenholt/encounter-engine/pkg/actor"
	"github.com/ravenholt/encounter-engine/pkg/loot"
)

// Template is the static stat block for one known creature type.
type Template struct {
	Name           string
	Description    string
	HPMin, HPMax   int
	ArmorClass     int
	Stats          actor.Stats5e
	Weapons        []string
	SpecialAttacks []string
	Spells         []string
	GoldTier       loot.GoldTier
}

// templateOrder preserves a stable iteration order for the dictionary
// scan (Go map iteration is randomized).
var templateOrder = []string{
	"goblin", "orc", "bandit", "wolf", "zombie", "skeleton",
	"ogre", "troll", "dragon", "demon", "cultist", "giant spider",
	"kobold", "guard", "mage",
}

var templates = map[string]Template{
	"goblin": {
		Name:        "goblin",
		Description: "A small, wiry humanoid with a cruel grin and a crueler blade.",
		HPMin:       7, HPMax: 10,
		ArmorClass: 15,
		Stats:      actor.Stats5e{Strength: 8, Dexterity: 14, Constitution: 10, Intelligence: 10, Wisdom: 8, Charisma: 8},
		Weapons:    []string{"scimitar", "shortbow"},
		GoldTier:   loot.TierWeak,
	},
	"orc": {
		Name:        "orc",
		Description: "A broad-shouldered brute in piecemeal armor, eager for violence.",
		HPMin:       13, HPMax: 18,
		ArmorClass:     13,
		Stats:          actor.Stats5e{Strength: 16, Dexterity: 12, Constitution: 16, Intelligence: 7, Wisdom: 11, Charisma: 10},
		Weapons:        []string{"greataxe", "javelin"},
		SpecialAttacks: []string{"aggressive charge"},
		GoldTier:       loot.TierWeak,
	},
	"bandit": {
		Name:        "bandit",
		Description: "A road-worn cutthroat with a scarf over the face.",
		HPMin:       9, HPMax: 14,
		ArmorClass: 12,
		Stats:      actor.Stats5e{Strength: 11, Dexterity: 12, Constitution: 12, Intelligence: 10, Wisdom: 10, Charisma: 10},
		Weapons:    []string{"scimitar", "light crossbow"},
		GoldTier:   loot.TierWeak,
	},
	"wolf": {
		Name:        "wolf",
		Description: "A lean grey predator circling at the edge of the light.",
		HPMin:       9, HPMax: 13,
		ArmorClass:     13,
		Stats:          actor.Stats5e{Strength: 12, Dexterity: 15, Constitution: 12, Intelligence: 3, Wisdom: 12, Charisma: 6},
		SpecialAttacks: []string{"bite", "pack tactics"},
		GoldTier:       loot.TierWeak,
	},
	"zombie": {
		Name:        "zombie",
		Description: "A shambling corpse animated by foul magic.",
		HPMin:       15, HPMax: 22,
		ArmorClass:     8,
		Stats:          actor.Stats5e{Strength: 13, Dexterity: 6, Constitution: 16, Intelligence: 3, Wisdom: 6, Charisma: 5},
		SpecialAttacks: []string{"slam", "undead fortitude"},
		GoldTier:       loot.TierWeak,
	},
	"skeleton": {
		Name:        "skeleton",
		Description: "Yellowed bones bound together by a lingering curse.",
		HPMin:       10, HPMax: 15,
		ArmorClass: 13,
		Stats:      actor.Stats5e{Strength: 10, Dexterity: 14, Constitution: 15, Intelligence: 6, Wisdom: 8, Charisma: 5},
		Weapons:    []string{"shortsword", "shortbow"},
		GoldTier:   loot.TierWeak,
	},
	"ogre": {
		Name:        "ogre",
		Description: "A hulking giant-kin dragging a club the size of a sapling.",
		HPMin:       50, HPMax: 70,
		ArmorClass: 11,
		Stats:      actor.Stats5e{Strength: 19, Dexterity: 8, Constitution: 16, Intelligence: 5, Wisdom: 7, Charisma: 7},
		Weapons:    []string{"greatclub", "javelin"},
		GoldTier:   loot.TierBrute,
	},
	"troll": {
		Name:        "troll",
		Description: "A rangy, rubbery horror whose wounds knit shut as you watch.",
		HPMin:       70, HPMax: 90,
		ArmorClass:     15,
		Stats:          actor.Stats5e{Strength: 18, Dexterity: 13, Constitution: 20, Intelligence: 7, Wisdom: 9, Charisma: 7},
		SpecialAttacks: []string{"claw", "bite", "regeneration"},
		GoldTier:       loot.TierBrute,
	},
	"dragon": {
		Name:        "dragon",
		Description: "An ancient wyrm, scales like shield-plate, eyes like coals.",
		HPMin:       150, HPMax: 200,
		ArmorClass:     18,
		Stats:          actor.Stats5e{Strength: 23, Dexterity: 10, Constitution: 21, Intelligence: 14, Wisdom: 11, Charisma: 19},
		SpecialAttacks: []string{"bite", "claw", "fire breath", "frightful presence"},
		GoldTier:       loot.TierApex,
	},
	"demon": {
		Name:        "demon",
		Description: "A fiend of the lower planes wreathed in sulfurous smoke.",
		HPMin:       80, HPMax: 120,
		ArmorClass:     16,
		Stats:          actor.Stats5e{Strength: 18, Dexterity: 15, Constitution: 18, Intelligence: 11, Wisdom: 12, Charisma: 13},
		SpecialAttacks: []string{"claw", "hellfire"},
		Spells:         []string{"darkness", "fear"},
		GoldTier:       loot.TierApex,
	},
	"cultist": {
		Name:        "cultist",
		Description: "A robed fanatic muttering praises to something best unnamed.",
		HPMin:       9, HPMax: 13,
		ArmorClass: 12,
		Stats:      actor.Stats5e{Strength: 11, Dexterity: 12, Constitution: 10, Intelligence: 10, Wisdom: 11, Charisma: 10},
		Weapons:    []string{"dagger", "sickle"},
		Spells:     []string{"inflict wounds"},
		GoldTier:   loot.TierElite,
	},
	"giant spider": {
		Name:        "giant spider",
		Description: "A horse-sized spider descending silently on a cable of silk.",
		HPMin:       20, HPMax: 30,
		ArmorClass:     14,
		Stats:          actor.Stats5e{Strength: 14, Dexterity: 16, Constitution: 12, Intelligence: 2, Wisdom: 11, Charisma: 4},
		SpecialAttacks: []string{"bite", "web"},
		GoldTier:       loot.TierWeak,
	},
	"kobold": {
		Name:        "kobold",
		Description: "A yapping reptilian scavenger, dangerous chiefly in numbers.",
		HPMin:       5, HPMax: 8,
		ArmorClass: 12,
		Stats:      actor.Stats5e{Strength: 7, Dexterity: 15, Constitution: 9, Intelligence: 8, Wisdom: 7, Charisma: 8},
		Weapons:    []string{"dagger", "sling"},
		GoldTier:   loot.TierWeak,
	},
	"guard": {
		Name:        "guard",
		Description: "A professional soldier in a mail shirt, spear leveled.",
		HPMin:       11, HPMax: 16,
		ArmorClass: 16,
		Stats:      actor.Stats5e{Strength: 13, Dexterity: 12, Constitution: 12, Intelligence: 10, Wisdom: 11, Charisma: 10},
		Weapons:    []string{"spear", "shortsword"},
		GoldTier:   loot.TierWeak,
	},
	"mage": {
		Name:        "mage",
		Description: "A thin figure in travel-stained robes, fingers already weaving.",
		HPMin:       35, HPMax: 44,
		ArmorClass: 12,
		Stats:      actor.Stats5e{Strength: 9, Dexterity: 14, Constitution: 11, Intelligence: 17, Wisdom: 12, Charisma: 11},
		Weapons:    []string{"quarterstaff"},
		Spells:     []string{"fireball", "magic missile", "shield", "misty step"},
		GoldTier:   loot.TierElite,
	},
}

// KnownTypes returns the dictionary of creature type names in their
// fixed scan order.
func KnownTypes() []string {
	out := make([]string, len(templateOrder))
	copy(out, templateOrder)
	return out
}

// TemplateFor returns the template for a known creature type name.
func TemplateFor(name string) (Template, bool) {
	t, ok := templates[name]
	return t, ok
}
