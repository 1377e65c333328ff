package services

import (
	"context"

	"github.com/gdcards/cardbot/cardbot/database/models"
	"github.com/gdcards/cardbot/cardbot/database/repositories"
)

type fakeCards struct {
	cards  []*models.Card
	nextID int64

	countByRarityCalls int
}

func (f *fakeCards) Create(_ context.Context, card *models.Card) error {
	f.nextID++
	card.ID = f.nextID
	cp := *card
	f.cards = append(f.cards, &cp)
	return nil
}

func (f *fakeCards) GetByID(_ context.Context, id int64) (*models.Card, error) {
	for _, c := range f.cards {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrCardNotFound
}

func (f *fakeCards) GetAll(_ context.Context) ([]*models.Card, error) {
	out := make([]*models.Card, len(f.cards))
	copy(out, f.cards)
	return out, nil
}

func (f *fakeCards) Count(_ context.Context) (int, error) {
	return len(f.cards), nil
}

func (f *fakeCards) CountByRarity(_ context.Context) ([]models.RarityCount, error) {
	f.countByRarityCalls++
	byRarity := make(map[string]int)
	for _, c := range f.cards {
		byRarity[c.Rarity]++
	}
	out := make([]models.RarityCount, 0, len(byRarity))
	for r, n := range byRarity {
		out = append(out, models.RarityCount{Rarity: r, Count: n})
	}
	return out, nil
}

func (f *fakeCards) SafeDelete(_ context.Context, cardID int64) (*models.DeletionReport, error) {
	for i, c := range f.cards {
		if c.ID == cardID {
			f.cards = append(f.cards[:i], f.cards[i+1:]...)
			return &models.DeletionReport{CardID: cardID, CardDeleted: true}, nil
		}
	}
	return nil, repositories.ErrCardNotFound
}

type fakeUsers struct {
	users  map[string]*models.User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*models.User)}
}

func (f *fakeUsers) GetOrCreate(_ context.Context, externalID, username string) (*models.User, error) {
	if u, ok := f.users[externalID]; ok {
		cp := *u
		return &cp, nil
	}
	f.nextID++
	u := &models.User{ID: f.nextID, ExternalID: externalID, Username: username}
	f.users[externalID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByExternalID(_ context.Context, externalID string) (*models.User, error) {
	u, ok := f.users[externalID]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) SetNickname(_ context.Context, externalID, nickname string) error {
	u, ok := f.users[externalID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Nickname = nickname
	return nil
}

func (f *fakeUsers) ResetLastDraw(_ context.Context, userID int64) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.LastDrawAt = 0
		}
	}
	return nil
}

func (f *fakeUsers) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}
