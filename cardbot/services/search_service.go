package services

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/gdcards/cardbot/cardbot/database/models"
	"github.com/gdcards/cardbot/cardbot/database/repositories"
)

// cardSearchItems implements fuzzy.Source over normalized card names.
type cardSearchItems []cardSearchItem

type cardSearchItem struct {
	card *models.Card
	name string
}

func (items cardSearchItems) Len() int            { return len(items) }
func (items cardSearchItems) String(i int) string { return items[i].name }

// SearchService finds catalog cards by approximate name match.
type SearchService struct {
	cards repositories.CardRepository
}

func NewSearchService(cards repositories.CardRepository) *SearchService {
	return &SearchService{cards: cards}
}

// SearchCards returns catalog cards whose names fuzzy-match the query,
// best matches first. An empty query returns the whole catalog.
func (s *SearchService) SearchCards(ctx context.Context, query string, limit int) ([]*models.Card, error) {
	catalog, err := s.cards.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	query = normalizeName(query)
	if query == "" {
		if limit > 0 && len(catalog) > limit {
			catalog = catalog[:limit]
		}
		return catalog, nil
	}

	items := make(cardSearchItems, len(catalog))
	for i, card := range catalog {
		items[i] = cardSearchItem{card: card, name: normalizeName(card.Name)}
	}

	matches := fuzzy.FindFrom(query, items)
	results := make([]*models.Card, 0, len(matches))
	for _, m := range matches {
		results = append(results, items[m.Index].card)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), " ")
}
