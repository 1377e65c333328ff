package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gdcards/cardbot/cardbot/database/models"
	"github.com/uptrace/bun"
)

var (
	ErrPromoNotFound        = errors.New("promo code not found")
	ErrPromoAlreadyRedeemed = errors.New("promo code already redeemed by user")
	ErrPromoExhausted       = errors.New("promo code exhausted")
)

type PromoRepository interface {
	Get(ctx context.Context, code string) (*models.PromoCode, error)
	// CreateIfAbsent inserts the code and reports whether a new row was
	// created; false signals a collision with an existing code.
	CreateIfAbsent(ctx context.Context, promo *models.PromoCode) (bool, error)
	// Redeem applies the full redemption as one transaction: record the
	// redeemer, decrement the use counter, clear the user's cooldown.
	// Returns the remaining uses.
	Redeem(ctx context.Context, code string, userID int64) (int, error)
}

type promoRepository struct {
	db *bun.DB
}

func NewPromoRepository(db *bun.DB) PromoRepository {
	return &promoRepository{db: db}
}

func (r *promoRepository) Get(ctx context.Context, code string) (*models.PromoCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	promo := new(models.PromoCode)
	err := r.db.NewSelect().
		Model(promo).
		Where("code = ?", code).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	return promo, nil
}

func (r *promoRepository) CreateIfAbsent(ctx context.Context, promo *models.PromoCode) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	promo.CreatedAt = time.Now()
	promo.UpdatedAt = time.Now()

	res, err := r.db.NewInsert().
		Model(promo).
		On("CONFLICT (code) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *promoRepository) Redeem(ctx context.Context, code string, userID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	var remaining int
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		promo := new(models.PromoCode)
		err := tx.NewSelect().
			Model(promo).
			Where("code = ?", code).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPromoNotFound
			}
			return err
		}

		redeemed, err := tx.NewSelect().
			Model((*models.PromoRedemption)(nil)).
			Where("code = ? AND user_id = ?", code, userID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if redeemed {
			return ErrPromoAlreadyRedeemed
		}

		if promo.UsesLeft <= 0 && !promo.Permanent {
			return ErrPromoExhausted
		}

		redemption := &models.PromoRedemption{
			Code:       code,
			UserID:     userID,
			RedeemedAt: time.Now(),
		}
		if _, err := tx.NewInsert().Model(redemption).Exec(ctx); err != nil {
			return fmt.Errorf("failed to record redemption: %w", err)
		}

		// uses_left floors at zero; permanent codes keep working once
		// depleted but the counter never goes negative.
		_, err = tx.NewUpdate().
			Model((*models.PromoCode)(nil)).
			Set("uses_left = CASE WHEN uses_left > 0 THEN uses_left - 1 ELSE 0 END").
			Set("updated_at = ?", time.Now()).
			Where("code = ?", code).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to decrement uses: %w", err)
		}

		_, err = tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("last_draw_at = 0").
			Set("updated_at = ?", time.Now()).
			Where("id = ?", userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to reset cooldown: %w", err)
		}

		remaining = promo.UsesLeft - 1
		if remaining < 0 {
			remaining = 0
		}
		return nil
	})
	return remaining, err
}
