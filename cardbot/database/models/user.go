package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         int64  `bun:"id,pk,autoincrement"`
	ExternalID string `bun:"external_id,notnull,unique"`
	Username   string `bun:"username"`
	Nickname   string `bun:"nickname"`

	// Epoch seconds of the last successful draw; 0 means the user has
	// never drawn (or had the cooldown reset by a promo code).
	LastDrawAt int64 `bun:"last_draw_at,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Registered reports whether the user has completed registration by
// picking a nickname. Unregistered users cannot draw cards.
func (u *User) Registered() bool {
	return u.Nickname != ""
}
