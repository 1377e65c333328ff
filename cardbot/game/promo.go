package game

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/gdcards/cardbot/cardbot/database/models"
	"github.com/gdcards/cardbot/cardbot/database/repositories"
)

const (
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts = 5
)

// PromoLedger handles promo code redemption and generation.
type PromoLedger struct {
	users  repositories.UserRepository
	promos repositories.PromoRepository
	locks  *LockManager
}

func NewPromoLedger(
	users repositories.UserRepository,
	promos repositories.PromoRepository,
	locks *LockManager,
) *PromoLedger {
	return &PromoLedger{users: users, promos: promos, locks: locks}
}

type RedeemResult struct {
	Code          string
	RemainingUses int
	Permanent     bool
}

// Redeem applies a promo code for the given user: on success the code
// records the redeemer, loses one use and the user's draw cooldown is
// cleared immediately. The whole mutation is a single transaction in the
// storage layer; redemptions of the same code are serialized here so a
// finite-use code can never be decremented past zero by a race.
func (l *PromoLedger) Redeem(ctx context.Context, externalID, username, rawCode string) (*RedeemResult, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if code == "" {
		return nil, ErrCodeNotFound
	}

	userKey := userLockKey(externalID)
	codeKey := codeLockKey(code)
	l.locks.Lock(userKey)
	defer l.locks.Unlock(userKey)
	l.locks.Lock(codeKey)
	defer l.locks.Unlock(codeKey)

	user, err := l.users.GetOrCreate(ctx, externalID, username)
	if err != nil {
		return nil, storageErr(err)
	}

	promo, err := l.promos.Get(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrPromoNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, storageErr(err)
	}

	remaining, err := l.promos.Redeem(ctx, code, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPromoNotFound):
			return nil, ErrCodeNotFound
		case errors.Is(err, repositories.ErrPromoAlreadyRedeemed):
			return nil, ErrCodeAlreadyUsed
		case errors.Is(err, repositories.ErrPromoExhausted):
			return nil, ErrCodeExhausted
		default:
			return nil, storageErr(err)
		}
	}

	slog.Info("Promo code redeemed",
		slog.String("type", "cmd"),
		slog.String("external_id", externalID),
		slog.String("code", code),
		slog.Int("remaining_uses", remaining))

	return &RedeemResult{
		Code:          code,
		RemainingUses: remaining,
		Permanent:     promo.Permanent,
	}, nil
}

// GenerateOneTimeCode creates a fresh unpredictable code with the given
// use count. Collisions with existing codes are detected and retried.
func (l *PromoLedger) GenerateOneTimeCode(ctx context.Context, uses int) (string, error) {
	if uses <= 0 {
		return "", fmt.Errorf("promo code use count must be positive, got %d", uses)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode(PromoCodeLength)
		if err != nil {
			return "", err
		}

		created, err := l.promos.CreateIfAbsent(ctx, &models.PromoCode{
			Code:     code,
			UsesLeft: uses,
		})
		if err != nil {
			return "", storageErr(err)
		}
		if created {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique promo code after %d attempts", maxCodeAttempts)
}

// EnsureStandingCode seeds a permanent code at startup; existing codes
// are left untouched.
func (l *PromoLedger) EnsureStandingCode(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}

	created, err := l.promos.CreateIfAbsent(ctx, &models.PromoCode{
		Code:      code,
		UsesLeft:  1,
		Permanent: true,
	})
	if err != nil {
		return storageErr(err)
	}
	if created {
		slog.Info("Standing promo code seeded",
			slog.String("type", "sys"),
			slog.String("code", code))
	}
	return nil
}

func randomCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
