package game

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/gdcards/cardbot/cardbot/database/models"
	"github.com/gdcards/cardbot/cardbot/database/repositories"
)

// RarityGroup is the slice of a collection belonging to one rarity tier.
type RarityGroup struct {
	Rarity    Rarity
	CardNames []string
	Owned     int
	Total     int
	Points    int
}

// CollectionView is a user's full collection grouped by rarity, rarest
// first.
type CollectionView struct {
	Nickname    string
	Groups      []RarityGroup
	OwnedTotal  int
	CatalogSize int
	Points      int
}

// ProfileView summarizes a user's standing without listing every card.
type ProfileView struct {
	Nickname    string
	Username    string
	OwnedTotal  int
	CatalogSize int
	Points      int
	Rank        int
}

// CollectionEngine serves read-only views over a user's owned cards.
type CollectionEngine struct {
	users   repositories.UserRepository
	cards   repositories.CardRepository
	owned   repositories.UserCardRepository
	ranking *RankingEngine
	cfg     Config
}

func NewCollectionEngine(
	users repositories.UserRepository,
	cards repositories.CardRepository,
	owned repositories.UserCardRepository,
	ranking *RankingEngine,
	cfg Config,
) *CollectionEngine {
	return &CollectionEngine{users: users, cards: cards, owned: owned, ranking: ranking, cfg: cfg}
}

// Collection returns the registered user's cards grouped by rarity.
// Tiers the user owns nothing in still appear so the view always shows
// the full rarity ladder.
func (c *CollectionEngine) Collection(ctx context.Context, externalID string) (*CollectionView, error) {
	user, err := c.users.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, storageErr(err)
	}
	if !user.Registered() {
		return nil, ErrNotRegistered
	}

	var (
		owned    []models.OwnedCard
		byRarity []models.RarityCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = c.owned.OwnedCards(gctx, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		byRarity, err = c.cards.CountByRarity(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storageErr(err)
	}

	totals := make(map[Rarity]int, len(byRarity))
	catalogSize := 0
	for _, rc := range byRarity {
		totals[Rarity(rc.Rarity)] = rc.Count
		catalogSize += rc.Count
	}

	grouped := make(map[Rarity][]string)
	for _, card := range owned {
		r := Rarity(card.Rarity)
		grouped[r] = append(grouped[r], card.Name)
	}

	view := &CollectionView{
		Nickname:    user.Nickname,
		CatalogSize: catalogSize,
	}
	for _, r := range RarityOrder() {
		names := grouped[r]
		points := len(names) * c.cfg.PointsFor(r)
		view.Groups = append(view.Groups, RarityGroup{
			Rarity:    r,
			CardNames: names,
			Owned:     len(names),
			Total:     totals[r],
			Points:    points,
		})
		view.OwnedTotal += len(names)
		view.Points += points
	}
	return view, nil
}

// Profile returns a summary for any user, including unregistered ones.
// Drawing is gated on registration but the profile is not.
func (c *CollectionEngine) Profile(ctx context.Context, externalID, username string) (*ProfileView, error) {
	user, err := c.users.GetOrCreate(ctx, externalID, username)
	if err != nil {
		return nil, storageErr(err)
	}

	ownedCards, err := c.owned.OwnedCards(ctx, user.ID)
	if err != nil {
		return nil, storageErr(err)
	}
	catalogSize, err := c.cards.Count(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	points := 0
	for _, card := range ownedCards {
		points += c.cfg.PointsFor(Rarity(card.Rarity))
	}

	rank := 0
	if c.ranking != nil {
		rank, err = c.ranking.RankOf(ctx, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ProfileView{
		Nickname:    user.Nickname,
		Username:    user.Username,
		OwnedTotal:  len(ownedCards),
		CatalogSize: catalogSize,
		Points:      points,
		Rank:        rank,
	}, nil
}
