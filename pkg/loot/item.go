// Package loot produces treasure: speculative drops rolled per threat
// at synthesis time, and items recovered from post-combat narrative.
package loot

import (
	"github.com/google/uuid"
)

// Category classifies a loot item.
type Category string

const (
	CategoryWeapon   Category = "weapon"
	CategoryArmor    Category = "armor"
	CategoryPotion   Category = "potion"
	CategoryScroll   Category = "scroll"
	CategoryWondrous Category = "wondrous"
	CategoryGold     Category = "gold"
	CategoryGem      Category = "gem"
	CategoryOther    Category = "other"
)

// Rarity tiers for loot items.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

// Item is a single piece of loot. Items are never mutated after
// creation, only appended to a session's accumulated loot list.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	Value       int       `json:"value,omitempty"`
	Weight      float64   `json:"weight,omitempty"`
	Rarity      Rarity    `json:"rarity,omitempty"`
	Magical     bool      `json:"magical,omitempty"`
	Quantity    int       `json:"quantity"`
}

// GoldTier buckets creature types into gold-drop ranges.
type GoldTier int

const (
	// TierWeak covers weak humanoids and vermin (goblins, kobolds, wolves).
	TierWeak GoldTier = iota
	// TierElite covers elite fighters and casters (cultists, mages).
	TierElite
	// TierBrute covers large brutes (ogres, trolls).
	TierBrute
	// TierApex covers dragons and demons.
	TierApex
)

// goldRanges holds the inclusive gold-piece drop range per tier.
var goldRanges = map[GoldTier][2]int{
	TierWeak:  {1, 10},
	TierElite: {15, 44},
	TierBrute: {20, 69},
	TierApex:  {100, 399},
}

// rarityForValue derives a rarity tier from an item's value.
func rarityForValue(value int) Rarity {
	if value > 100 {
		return RarityUncommon
	}
	return RarityCommon
}
