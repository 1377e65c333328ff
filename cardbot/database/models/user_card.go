package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserCard records that a user owns a card. One row per (user, card)
// pair; the highest id per user marks the most recently obtained card.
type UserCard struct {
	bun.BaseModel `bun:"table:user_cards,alias:uc"`

	ID       int64     `bun:"id,pk,autoincrement"`
	UserID   int64     `bun:"user_id,notnull"`
	CardID   int64     `bun:"card_id,notnull"`
	Obtained time.Time `bun:"obtained,notnull,default:current_timestamp"`
}

// OwnedCard is a joined view of an ownership row with its card data.
type OwnedCard struct {
	CardID int64  `bun:"card_id"`
	Name   string `bun:"name"`
	Rarity string `bun:"rarity"`
}

// RarityTally is one row of the leaderboard aggregation: how many cards
// of a given rarity a user owns.
type RarityTally struct {
	UserID     int64  `bun:"user_id"`
	ExternalID string `bun:"external_id"`
	Nickname   string `bun:"nickname"`
	Username   string `bun:"username"`
	Rarity     string `bun:"rarity"`
	Count      int    `bun:"count"`
}
