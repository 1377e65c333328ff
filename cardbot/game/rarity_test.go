package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRarity(t *testing.T) {
	for _, r := range RarityOrder() {
		parsed, err := ParseRarity(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	for _, bad := range []string{"", "Common", "ultra_rare", "divine "} {
		_, err := ParseRarity(bad)
		assert.Errorf(t, err, "expected %q to be rejected", bad)
	}
}

func TestWeightForFallback(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 60.0, cfg.WeightFor(RarityCommon))
	assert.Equal(t, 0.2, cfg.WeightFor(RarityDivine))

	// Tiers missing from the table stay drawable at weight 1.
	assert.Equal(t, 1.0, cfg.WeightFor(Rarity("event_exclusive")))

	cfg.DrawWeights = nil
	assert.Equal(t, 1.0, cfg.WeightFor(RarityCommon))
}

func TestPointsFor(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.PointsFor(RarityCommon))
	assert.Equal(t, 15, cfg.PointsFor(RarityDivine))
	assert.Equal(t, 0, cfg.PointsFor(Rarity("event_exclusive")))
}

func TestRarityOrderIsCopy(t *testing.T) {
	order := RarityOrder()
	require.Equal(t, RarityDivine, order[0])
	order[0] = RarityCommon
	assert.Equal(t, RarityDivine, RarityOrder()[0])
}
