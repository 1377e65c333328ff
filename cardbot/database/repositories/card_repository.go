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

var ErrCardNotFound = errors.New("card not found")

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	GetAll(ctx context.Context) ([]*models.Card, error)
	Count(ctx context.Context) (int, error)
	CountByRarity(ctx context.Context) ([]models.RarityCount, error)
	SafeDelete(ctx context.Context, cardID int64) (*models.DeletionReport, error)
}

type cardRepository struct {
	db *bun.DB
}

func NewCardRepository(db *bun.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	card.CreatedAt = time.Now()
	card.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(card).
		Returning("id").
		Exec(ctx)
	return err
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	card := new(models.Card)
	err := r.db.NewSelect().
		Model(card).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

func (r *cardRepository) GetAll(ctx context.Context) ([]*models.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Order("id ASC").
		Scan(ctx)
	return cards, err
}

func (r *cardRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	return r.db.NewSelect().Model((*models.Card)(nil)).Count(ctx)
}

func (r *cardRepository) CountByRarity(ctx context.Context) ([]models.RarityCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	var counts []models.RarityCount
	err := r.db.NewSelect().
		Model((*models.Card)(nil)).
		ColumnExpr("rarity").
		ColumnExpr("COUNT(*) AS count").
		Group("rarity").
		Scan(ctx, &counts)
	return counts, err
}

// SafeDelete removes a card and every ownership row referencing it in a
// single transaction so collection sizes never point at a missing card.
func (r *cardRepository) SafeDelete(ctx context.Context, cardID int64) (*models.DeletionReport, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	report := &models.DeletionReport{CardID: cardID}

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.UserCard)(nil)).
			Where("card_id = ?", cardID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete ownership rows: %w", err)
		}

		affected, _ := res.RowsAffected()
		report.OwnershipsDeleted = int(affected)

		res, err = tx.NewDelete().
			Model((*models.Card)(nil)).
			Where("id = ?", cardID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}

		cardAffected, _ := res.RowsAffected()
		report.CardDeleted = cardAffected > 0
		return nil
	})
	if err != nil {
		return report, err
	}

	if !report.CardDeleted {
		return report, ErrCardNotFound
	}
	return report, nil
}
