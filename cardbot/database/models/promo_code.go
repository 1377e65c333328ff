package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PromoCode struct {
	bun.BaseModel `bun:"table:promo_codes,alias:pc"`

	Code      string `bun:"code,pk"`
	UsesLeft  int    `bun:"uses_left,notnull,default:1"`
	Permanent bool   `bun:"permanent,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// PromoRedemption records a single user's redemption of a code. The
// unique (code, user_id) pair enforces one redemption per user.
type PromoRedemption struct {
	bun.BaseModel `bun:"table:promo_redemptions,alias:pr"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Code       string    `bun:"code,notnull"`
	UserID     int64     `bun:"user_id,notnull"`
	RedeemedAt time.Time `bun:"redeemed_at,notnull,default:current_timestamp"`
}
