package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID          int64  `bun:"id,pk,autoincrement"`
	Name        string `bun:"name,notnull"`
	Rarity      string `bun:"rarity,notnull"`
	Description string `bun:"description"`
	AssetRef    string `bun:"asset_ref"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// DeletionReport describes the outcome of a cascading card deletion.
type DeletionReport struct {
	CardID            int64
	OwnershipsDeleted int
	CardDeleted       bool
}

// RarityCount is one row of the per-rarity catalog breakdown.
type RarityCount struct {
	Rarity string `bun:"rarity"`
	Count  int    `bun:"count"`
}
