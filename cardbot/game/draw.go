package game

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gdcards/cardbot/cardbot/database/models"
	"github.com/gdcards/cardbot/cardbot/database/repositories"
)

// DrawEngine decides draw eligibility, performs the weighted random pick
// and commits the result.
type DrawEngine struct {
	users repositories.UserRepository
	cards repositories.CardRepository
	owned repositories.UserCardRepository
	locks *LockManager
	rng   Rand
	cfg   Config
}

func NewDrawEngine(
	users repositories.UserRepository,
	cards repositories.CardRepository,
	owned repositories.UserCardRepository,
	locks *LockManager,
	cfg Config,
	rng Rand,
) *DrawEngine {
	if rng == nil {
		rng = SystemRand()
	}
	return &DrawEngine{
		users: users,
		cards: cards,
		owned: owned,
		locks: locks,
		rng:   rng,
		cfg:   cfg,
	}
}

// DrawResult is the structured outcome of a successful draw. The
// transport layer owns rendering it to user-visible text.
type DrawResult struct {
	Card   *models.Card
	Rarity Rarity

	// How many catalog cards share the drawn rarity, the catalog size,
	// and the share as a percentage.
	RarityCount   int
	RarityTotal   int
	RarityPercent float64

	// Owned-card count before this draw, and the catalog size.
	CollectionSize  int
	CollectionTotal int

	// False when the pick landed on a card the user already owned; the
	// draw still consumed the cooldown.
	NewlyOwned bool
}

// Draw runs one cooldown-gated draw attempt for the given user at the
// given wall-clock time. Requests for the same user are serialized; a
// concurrent second attempt observes the charged cooldown.
func (e *DrawEngine) Draw(ctx context.Context, externalID, username string, now time.Time) (*DrawResult, error) {
	key := userLockKey(externalID)
	e.locks.Lock(key)
	defer e.locks.Unlock(key)

	user, err := e.users.GetOrCreate(ctx, externalID, username)
	if err != nil {
		return nil, storageErr(err)
	}

	if !user.Registered() {
		return nil, ErrNotRegistered
	}

	cooldown := int64(e.cfg.Cooldown.Seconds())
	if remaining := cooldown - (now.Unix() - user.LastDrawAt); remaining > 0 {
		return nil, &CooldownError{Remaining: time.Duration(remaining) * time.Second}
	}

	catalog, err := e.cards.GetAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	if len(catalog) == 0 {
		return nil, ErrCatalogEmpty
	}

	ownedCount, err := e.owned.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, storageErr(err)
	}
	if ownedCount >= len(catalog) {
		return nil, ErrCollectionComplete
	}

	lastCardID, err := e.owned.LastObtainedCardID(ctx, user.ID)
	if err != nil {
		return nil, storageErr(err)
	}

	// Only the literal last draw is excluded; any other previously owned
	// card may come up again.
	eligible := catalog[:0:0]
	for _, card := range catalog {
		if card.ID != lastCardID {
			eligible = append(eligible, card)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleCard
	}

	card := e.pickWeighted(eligible)

	newlyOwned, err := e.owned.AwardCard(ctx, user.ID, card.ID, now.Unix())
	if err != nil {
		return nil, storageErr(err)
	}

	rarityCount := 0
	for _, c := range catalog {
		if c.Rarity == card.Rarity {
			rarityCount++
		}
	}

	slog.Info("Card drawn",
		slog.String("type", "cmd"),
		slog.String("external_id", externalID),
		slog.Int64("card_id", card.ID),
		slog.String("rarity", card.Rarity),
		slog.Bool("newly_owned", newlyOwned))

	return &DrawResult{
		Card:            card,
		Rarity:          Rarity(card.Rarity),
		RarityCount:     rarityCount,
		RarityTotal:     len(catalog),
		RarityPercent:   float64(rarityCount) / float64(len(catalog)) * 100,
		CollectionSize:  ownedCount,
		CollectionTotal: len(catalog),
		NewlyOwned:      newlyOwned,
	}, nil
}

// pickWeighted draws one card with probability proportional to its
// rarity weight. Weights need not sum to 1.
func (e *DrawEngine) pickWeighted(cards []*models.Card) *models.Card {
	var total float64
	for _, card := range cards {
		total += e.cfg.WeightFor(Rarity(card.Rarity))
	}

	roll := e.rng.Float64() * total
	for _, card := range cards {
		roll -= e.cfg.WeightFor(Rarity(card.Rarity))
		if roll < 0 {
			return card
		}
	}
	// Float accumulation can leave roll at a hair above zero.
	return cards[len(cards)-1]
}

// IsDomainError reports whether err belongs to the draw/redeem taxonomy
// and should be surfaced to the end user verbatim.
func IsDomainError(err error) bool {
	var cooldown *CooldownError
	if errors.As(err, &cooldown) {
		return true
	}
	for _, known := range []error{
		ErrNotRegistered,
		ErrCatalogEmpty,
		ErrCollectionComplete,
		ErrNoEligibleCard,
		ErrCodeNotFound,
		ErrCodeAlreadyUsed,
		ErrCodeExhausted,
		ErrCardNotFound,
		ErrNicknameTooShort,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
