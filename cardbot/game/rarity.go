package game

import "fmt"

// Rarity is the closed set of card rarity tiers.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RaritySuperRare Rarity = "super_rare"
	RarityEpic      Rarity = "epic"
	RarityMythic    Rarity = "mythic"
	RarityLegendary Rarity = "legendary"
	RarityDivine    Rarity = "divine"
)

// rarityOrder lists all tiers in canonical display order, highest point
// value first.
var rarityOrder = []Rarity{
	RarityDivine,
	RarityLegendary,
	RarityMythic,
	RarityEpic,
	RaritySuperRare,
	RarityRare,
	RarityCommon,
}

// RarityOrder returns the display order divine→common as a fresh slice.
func RarityOrder() []Rarity {
	out := make([]Rarity, len(rarityOrder))
	copy(out, rarityOrder)
	return out
}

// ParseRarity validates a raw rarity string against the closed enum.
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(s)
	for _, known := range rarityOrder {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown rarity %q", s)
}

func (r Rarity) String() string {
	return string(r)
}
