package game

import "time"

const (
	// DefaultCooldown is the minimum time between two successful draws.
	DefaultCooldown = time.Hour

	// DefaultLeaderboardLimit caps the ranking output.
	DefaultLeaderboardLimit = 35

	// PromoCodeLength is the fixed length of generated promo codes.
	PromoCodeLength = 8

	fallbackDrawWeight = 1.0
)

// Config carries all game tuning. It is immutable after construction and
// passed into each engine explicitly; there is no package-level state.
type Config struct {
	Cooldown         time.Duration
	LeaderboardLimit int

	// StandingPromoCode is seeded as a permanent code at startup when
	// non-empty.
	StandingPromoCode string

	DrawWeights map[Rarity]float64
	PointValues map[Rarity]int
}

// DefaultConfig returns the tuning used in production: one-hour cooldown
// and the canonical rarity weight/point tables.
func DefaultConfig() Config {
	return Config{
		Cooldown:         DefaultCooldown,
		LeaderboardLimit: DefaultLeaderboardLimit,
		DrawWeights: map[Rarity]float64{
			RarityCommon:    60,
			RarityRare:      25,
			RaritySuperRare: 10,
			RarityEpic:      5,
			RarityMythic:    3,
			RarityLegendary: 1,
			RarityDivine:    0.2,
		},
		PointValues: map[Rarity]int{
			RarityCommon:    1,
			RarityRare:      2,
			RaritySuperRare: 3,
			RarityEpic:      5,
			RarityMythic:    7,
			RarityLegendary: 10,
			RarityDivine:    15,
		},
	}
}

// WeightFor returns the draw weight of a rarity. A rarity missing from
// the table falls back to weight 1 so new tiers stay drawable.
func (c Config) WeightFor(r Rarity) float64 {
	if w, ok := c.DrawWeights[r]; ok {
		return w
	}
	return fallbackDrawWeight
}

// PointsFor returns the collection point value of a rarity, 0 when the
// rarity has no configured value.
func (c Config) PointsFor(r Rarity) int {
	return c.PointValues[r]
}
