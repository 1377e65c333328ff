package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	lru "github.com/hashicorp/golang-lru"

	"github.com/gdcards/cardbot/cardbot/database/models"
	"github.com/gdcards/cardbot/cardbot/database/repositories"
	"github.com/gdcards/cardbot/cardbot/game"
)

const (
	statsCacheSize   = 8
	statsCacheExpiry = 5 * time.Minute
	statsCacheKey    = "rarity_stats"

	minNicknameLen = 3
)

// cachedStats is a timestamped rarity breakdown entry.
type cachedStats struct {
	counts    []models.RarityCount
	timestamp time.Time
}

// CatalogService handles card catalog administration and the
// registration nickname flow.
type CatalogService struct {
	cards repositories.CardRepository
	users repositories.UserRepository
	cache *lru.Cache
}

func NewCatalogService(cards repositories.CardRepository, users repositories.UserRepository) *CatalogService {
	cache, _ := lru.New(statsCacheSize)
	return &CatalogService{cards: cards, users: users, cache: cache}
}

// AddCard validates and persists a new catalog entry. The card is
// immediately eligible for draws.
func (s *CatalogService) AddCard(ctx context.Context, name, rarity, description, assetRef string) (*models.Card, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("card name must not be empty")
	}
	parsed, err := game.ParseRarity(rarity)
	if err != nil {
		return nil, err
	}

	card := &models.Card{
		Name:        name,
		Rarity:      string(parsed),
		Description: strings.TrimSpace(description),
		AssetRef:    strings.TrimSpace(assetRef),
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}

	s.cache.Purge()
	slog.Info("Card added to catalog",
		slog.String("type", "cmd"),
		slog.Int64("card_id", card.ID),
		slog.String("name", card.Name),
		slog.String("rarity", card.Rarity))
	return card, nil
}

// ListCards returns the full catalog in insertion order.
func (s *CatalogService) ListCards(ctx context.Context) ([]*models.Card, error) {
	return s.cards.GetAll(ctx)
}

// GetCard fetches a single catalog entry.
func (s *CatalogService) GetCard(ctx context.Context, cardID int64) (*models.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, game.ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

// DeleteCard removes a card and every ownership row referencing it in
// one transaction, so collection counts and rankings shrink together.
func (s *CatalogService) DeleteCard(ctx context.Context, cardID int64) (*models.DeletionReport, error) {
	report, err := s.cards.SafeDelete(ctx, cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, game.ErrCardNotFound
		}
		return nil, err
	}

	s.cache.Purge()
	slog.Info("Card deleted from catalog",
		slog.String("type", "cmd"),
		slog.Int64("card_id", cardID),
		slog.Int("ownerships_deleted", report.OwnershipsDeleted))
	return report, nil
}

// RarityStats returns the per-rarity catalog breakdown, cached briefly
// since the catalog changes far less often than it is read.
func (s *CatalogService) RarityStats(ctx context.Context) ([]models.RarityCount, error) {
	if v, ok := s.cache.Get(statsCacheKey); ok {
		entry := v.(cachedStats)
		if time.Since(entry.timestamp) < statsCacheExpiry {
			return entry.counts, nil
		}
		s.cache.Remove(statsCacheKey)
	}

	counts, err := s.cards.CountByRarity(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Add(statsCacheKey, cachedStats{counts: counts, timestamp: time.Now()})
	return counts, nil
}

// ResetCooldown clears a user's draw cooldown, letting them draw again
// immediately. Support escape hatch for botched draws.
func (s *CatalogService) ResetCooldown(ctx context.Context, externalID string) error {
	user, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return game.ErrNotRegistered
		}
		return err
	}
	if err := s.users.ResetLastDraw(ctx, user.ID); err != nil {
		return err
	}

	slog.Info("Cooldown reset",
		slog.String("type", "cmd"),
		slog.String("external_id", externalID))
	return nil
}

// SetNickname registers a user by assigning a display nickname. A user
// with no nickname cannot draw cards.
func (s *CatalogService) SetNickname(ctx context.Context, externalID, username, nickname string) (*models.User, error) {
	nickname = strings.TrimSpace(nickname)
	if len([]rune(nickname)) < minNicknameLen {
		return nil, game.ErrNicknameTooShort
	}

	user, err := s.users.GetOrCreate(ctx, externalID, username)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetNickname(ctx, externalID, nickname); err != nil {
		return nil, err
	}
	user.Nickname = nickname

	slog.Info("User registered",
		slog.String("type", "cmd"),
		slog.String("external_id", externalID),
		slog.String("nickname", nickname))
	return user, nil
}
