package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdcards/cardbot/cardbot/database/models"
)

func searchFixture() *fakeCards {
	cards := &fakeCards{}
	for _, name := range []string{
		"Golden Goldfish",
		"Crimson Dragon",
		"Ancient Crimson Wyrm",
		"Phoenix Hatchling",
	} {
		_ = cards.Create(context.Background(), &models.Card{Name: name, Rarity: "common"})
	}
	return cards
}

func TestSearchCardsFuzzy(t *testing.T) {
	svc := NewSearchService(searchFixture())

	results, err := svc.SearchCards(context.Background(), "crimson drag", 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Crimson Dragon", results[0].Name)

	results, err = svc.SearchCards(context.Background(), "goldfsh", 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Golden Goldfish", results[0].Name)
}

func TestSearchCardsEmptyQuery(t *testing.T) {
	svc := NewSearchService(searchFixture())

	results, err := svc.SearchCards(context.Background(), "   ", 0)
	require.NoError(t, err)
	assert.Len(t, results, 4)

	results, err = svc.SearchCards(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchCardsLimit(t *testing.T) {
	svc := NewSearchService(searchFixture())

	results, err := svc.SearchCards(context.Background(), "crimson", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchCardsNoMatch(t *testing.T) {
	svc := NewSearchService(searchFixture())

	results, err := svc.SearchCards(context.Background(), "zzzzqqqq", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}
