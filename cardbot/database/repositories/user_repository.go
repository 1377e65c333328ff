package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdcards/cardbot/cardbot/database/models"
	"github.com/uptrace/bun"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetOrCreate(ctx context.Context, externalID, username string) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	SetNickname(ctx context.Context, externalID, nickname string) error
	ResetLastDraw(ctx context.Context, userID int64) error
	Count(ctx context.Context) (int, error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetOrCreate(ctx context.Context, externalID, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	user, err := r.getByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	fresh := &models.User{
		ExternalID: externalID,
		Username:   username,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	// A concurrent first interaction may insert the same user; the
	// conflict clause makes the create idempotent and the re-select
	// returns whichever row won.
	_, err = r.db.NewInsert().
		Model(fresh).
		On("CONFLICT (external_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Debug("Created user on first interaction",
		slog.String("type", "db"),
		slog.String("external_id", externalID))

	return r.getByExternalID(ctx, externalID)
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	return r.getByExternalID(ctx, externalID)
}

func (r *userRepository) getByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("external_id = ?", externalID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) SetNickname(ctx context.Context, externalID, nickname string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("nickname = ?", nickname).
		Set("updated_at = ?", time.Now()).
		Where("external_id = ?", externalID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set nickname: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) ResetLastDraw(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("last_draw_at = 0").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	return r.db.NewSelect().Model((*models.User)(nil)).Count(ctx)
}
