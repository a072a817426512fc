package loot

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ravenholt/encounter-engine/pkg/dice"
)

// Post-combat narrative patterns, one per loot category.
var (
	gemPattern    = regexp.MustCompile(`(?i)\bgems?\s+worth\s+(\d+)\s+gold\b`)
	goldPattern   = regexp.MustCompile(`(?i)\b(\d+)\s+gold(?:\s+(?:pieces|coins))?\b`)
	gearPattern   = regexp.MustCompile(`(?i)\b([a-z]+\s+(?:[a-z]+\s+)?(?:sword|axe|dagger|mace|bow|spear|hammer|blade|staff|armor|shield|helm|mail))\b`)
	potionPattern = regexp.MustCompile(`(?i)\bpotion of ([a-z]+(?: [a-z]+)?)`)
	scrollPattern = regexp.MustCompile(`(?i)\bscroll of ([a-z]+(?: [a-z]+)?)`)
	amuletPattern = regexp.MustCompile(`(?i)\bamulet of ([a-z]+(?: [a-z]+)?)`)
)

var armorNouns = map[string]bool{
	"armor": true, "shield": true, "helm": true, "mail": true,
}

// Words that precede gear nouns without describing them.
var gearStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "and": true,
	"with": true, "your": true, "their": true, "his": true,
	"her": true, "its": true, "this": true, "that": true,
	"some": true, "any": true, "no": true,
}

const textMagicChance = 0.7

// Category defaults for items scanned from text, where the narrative
// gives no numbers to work with.
var scanDefaults = map[Category]struct {
	value  int
	weight float64
}{
	CategoryWeapon:   {25, 3},
	CategoryArmor:    {40, 20},
	CategoryPotion:   {50, 0.5},
	CategoryScroll:   {60, 0.1},
	CategoryWondrous: {120, 1},
}

// FromText scans post-combat narrative for loot-shaped phrases. Each
// category's pattern is evaluated independently. Rarity derives from
// value; non-gold, non-gem hits are flagged magical with 70%
// probability.
func (g *Generator) FromText(text string) []Item {
	var items []Item

	// Gems first: their spans are excluded from the plain gold
	// pattern so "a gem worth 150 gold" is not also counted as coin.
	gemSpans := gemPattern.FindAllStringSubmatchIndex(text, -1)
	for _, span := range gemSpans {
		value, err := strconv.Atoi(text[span[2]:span[3]])
		if err != nil {
			continue
		}
		items = append(items, Item{
			ID:       uuid.New(),
			Name:     "gem",
			Category: CategoryGem,
			Value:    value,
			Weight:   0.1,
			Rarity:   rarityForValue(value),
			Quantity: 1,
		})
	}

	for _, span := range goldPattern.FindAllStringSubmatchIndex(text, -1) {
		if withinAny(span[0], gemSpans) {
			continue
		}
		qty, err := strconv.Atoi(text[span[2]:span[3]])
		if err != nil || qty <= 0 {
			continue
		}
		items = append(items, Item{
			ID:       uuid.New(),
			Name:     "gold pieces",
			Category: CategoryGold,
			Value:    qty,
			Weight:   0.02 * float64(qty),
			Rarity:   rarityForValue(qty),
			Quantity: qty,
		})
	}

	for _, m := range gearPattern.FindAllStringSubmatch(text, -1) {
		phrase := trimGearStopwords(m[1])
		words := strings.Fields(phrase)
		if len(words) < 2 {
			// Bare noun with no adjective is too weak a signal.
			continue
		}
		category := CategoryWeapon
		if armorNouns[strings.ToLower(words[len(words)-1])] {
			category = CategoryArmor
		}
		items = append(items, g.scanned(strings.ToLower(phrase), category))
	}

	for _, m := range potionPattern.FindAllStringSubmatch(text, -1) {
		items = append(items, g.scanned("potion of "+strings.ToLower(m[1]), CategoryPotion))
	}
	for _, m := range scrollPattern.FindAllStringSubmatch(text, -1) {
		items = append(items, g.scanned("scroll of "+strings.ToLower(m[1]), CategoryScroll))
	}
	for _, m := range amuletPattern.FindAllStringSubmatch(text, -1) {
		items = append(items, g.scanned("amulet of "+strings.ToLower(m[1]), CategoryWondrous))
	}

	return items
}

func (g *Generator) scanned(name string, category Category) Item {
	d := scanDefaults[category]
	return Item{
		ID:       uuid.New(),
		Name:     name,
		Category: category,
		Value:    d.value,
		Weight:   d.weight,
		Rarity:   rarityForValue(d.value),
		Magical:  dice.Chance(g.src, textMagicChance),
		Quantity: 1,
	}
}

func trimGearStopwords(phrase string) string {
	words := strings.Fields(phrase)
	for len(words) > 1 && gearStopwords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// withinAny reports whether pos falls inside any [start,end) span in
// spans (as returned by FindAllStringSubmatchIndex).
func withinAny(pos int, spans [][]int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos < s[1] {
			return true
		}
	}
	return false
}
