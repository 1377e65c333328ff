package game

import (
	"context"
	"sort"

	"github.com/gdcards/cardbot/cardbot/database/repositories"
)

// PlayerRank is one leaderboard row.
type PlayerRank struct {
	UserID     int64
	ExternalID string
	Nickname   string
	Username   string
	CardCount  int
	Points     int
}

// RankingEngine builds the collection leaderboard from per-rarity
// ownership tallies.
type RankingEngine struct {
	owned repositories.UserCardRepository
	cfg   Config
}

func NewRankingEngine(owned repositories.UserCardRepository, cfg Config) *RankingEngine {
	return &RankingEngine{owned: owned, cfg: cfg}
}

// TopPlayers returns up to limit players ordered by unique card count,
// then by points, with user ID as a stable final tiebreaker. A limit of
// zero or less falls back to the configured leaderboard size.
func (r *RankingEngine) TopPlayers(ctx context.Context, limit int) ([]PlayerRank, error) {
	if limit <= 0 {
		limit = r.cfg.LeaderboardLimit
	}

	ranks, err := r.allRanks(ctx)
	if err != nil {
		return nil, err
	}
	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks, nil
}

// RankOf returns the 1-based leaderboard position of the given user, or
// 0 if the user owns no cards.
func (r *RankingEngine) RankOf(ctx context.Context, userID int64) (int, error) {
	ranks, err := r.allRanks(ctx)
	if err != nil {
		return 0, err
	}
	for i, rank := range ranks {
		if rank.UserID == userID {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (r *RankingEngine) allRanks(ctx context.Context) ([]PlayerRank, error) {
	tallies, err := r.owned.TallyByRarity(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	byUser := make(map[int64]*PlayerRank)
	order := make([]int64, 0, len(tallies))
	for _, t := range tallies {
		rank, ok := byUser[t.UserID]
		if !ok {
			rank = &PlayerRank{
				UserID:     t.UserID,
				ExternalID: t.ExternalID,
				Nickname:   t.Nickname,
				Username:   t.Username,
			}
			byUser[t.UserID] = rank
			order = append(order, t.UserID)
		}
		rank.CardCount += t.Count
		rank.Points += t.Count * r.cfg.PointsFor(Rarity(t.Rarity))
	}

	ranks := make([]PlayerRank, 0, len(order))
	for _, id := range order {
		ranks = append(ranks, *byUser[id])
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].CardCount != ranks[j].CardCount {
			return ranks[i].CardCount > ranks[j].CardCount
		}
		if ranks[i].Points != ranks[j].Points {
			return ranks[i].Points > ranks[j].Points
		}
		return ranks[i].UserID < ranks[j].UserID
	})
	return ranks, nil
}
