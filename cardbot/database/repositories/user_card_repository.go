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

type UserCardRepository interface {
	// AwardCard inserts the ownership row and charges the cooldown as one
	// atomic unit. The returned bool reports whether the card was newly
	// owned; an already-owned card is a silent no-op on the collection
	// but still consumes the cooldown.
	AwardCard(ctx context.Context, userID, cardID, drawnAt int64) (bool, error)
	CountByUserID(ctx context.Context, userID int64) (int, error)
	LastObtainedCardID(ctx context.Context, userID int64) (int64, error)
	OwnedCards(ctx context.Context, userID int64) ([]models.OwnedCard, error)
	TallyByRarity(ctx context.Context) ([]models.RarityTally, error)
}

type userCardRepository struct {
	db *bun.DB
}

func NewUserCardRepository(db *bun.DB) UserCardRepository {
	return &userCardRepository{db: db}
}

func (r *userCardRepository) AwardCard(ctx context.Context, userID, cardID, drawnAt int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	var newlyOwned bool
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		userCard := &models.UserCard{
			UserID:   userID,
			CardID:   cardID,
			Obtained: time.Now(),
		}

		res, err := tx.NewInsert().
			Model(userCard).
			On("CONFLICT (user_id, card_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert ownership: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		newlyOwned = affected > 0

		_, err = tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("last_draw_at = ?", drawnAt).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to charge cooldown: %w", err)
		}
		return nil
	})
	return newlyOwned, err
}

func (r *userCardRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	return r.db.NewSelect().
		Model((*models.UserCard)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
}

// LastObtainedCardID returns the card id of the user's most recent draw,
// 0 when the user owns nothing yet.
func (r *userCardRepository) LastObtainedCardID(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	var cardID int64
	err := r.db.NewSelect().
		Model((*models.UserCard)(nil)).
		Column("card_id").
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(1).
		Scan(ctx, &cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return cardID, nil
}

func (r *userCardRepository) OwnedCards(ctx context.Context, userID int64) ([]models.OwnedCard, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	var owned []models.OwnedCard
	err := r.db.NewSelect().
		Model((*models.UserCard)(nil)).
		ColumnExpr("uc.card_id AS card_id").
		ColumnExpr("c.name AS name").
		ColumnExpr("c.rarity AS rarity").
		Join("JOIN cards AS c ON c.id = uc.card_id").
		Where("uc.user_id = ?", userID).
		Order("uc.id ASC").
		Scan(ctx, &owned)
	return owned, err
}

// TallyByRarity feeds the leaderboard: one row per (user, rarity) with
// the owned-card count, over the whole ownership table.
func (r *userCardRepository) TallyByRarity(ctx context.Context) ([]models.RarityTally, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	var tallies []models.RarityTally
	err := r.db.NewSelect().
		Model((*models.UserCard)(nil)).
		ColumnExpr("u.id AS user_id").
		ColumnExpr("u.external_id AS external_id").
		ColumnExpr("u.nickname AS nickname").
		ColumnExpr("u.username AS username").
		ColumnExpr("c.rarity AS rarity").
		ColumnExpr("COUNT(*) AS count").
		Join("JOIN users AS u ON u.id = uc.user_id").
		Join("JOIN cards AS c ON c.id = uc.card_id").
		GroupExpr("u.id, u.external_id, u.nickname, u.username, c.rarity").
		Scan(ctx, &tallies)
	return tallies, err
}
