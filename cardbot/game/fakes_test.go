package game

import (
	"context"
	"sync"

	"github.com/gdcards/cardbot/cardbot/database/models"
	"github.com/gdcards/cardbot/cardbot/database/repositories"
)

// fakeStore is an in-memory implementation of all four repositories,
// safe for concurrent use.
type fakeStore struct {
	mu sync.Mutex

	users      map[string]*models.User
	nextUserID int64

	cards      []*models.Card
	nextCardID int64

	// owned holds card IDs per user in obtain order.
	owned map[int64][]int64

	promos   map[string]*models.PromoCode
	redeemed map[string]map[int64]bool

	// lastOverride forces LastObtainedCardID for a user when set.
	lastOverride map[int64]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[string]*models.User),
		owned:        make(map[int64][]int64),
		promos:       make(map[string]*models.PromoCode),
		redeemed:     make(map[string]map[int64]bool),
		lastOverride: make(map[int64]int64),
	}
}

func (s *fakeStore) addUser(externalID, nickname string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	u := &models.User{ID: s.nextUserID, ExternalID: externalID, Nickname: nickname}
	s.users[externalID] = u
	return u
}

func (s *fakeStore) addCard(name, rarity string) *models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCardID++
	c := &models.Card{ID: s.nextCardID, Name: name, Rarity: rarity}
	s.cards = append(s.cards, c)
	return c
}

func (s *fakeStore) userByID(id int64) *models.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// UserRepository

func (s *fakeStore) GetOrCreate(_ context.Context, externalID, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[externalID]; ok {
		cp := *u
		return &cp, nil
	}
	s.nextUserID++
	u := &models.User{ID: s.nextUserID, ExternalID: externalID, Username: username}
	s.users[externalID] = u
	cp := *u
	return &cp, nil
}

func (s *fakeStore) GetByExternalID(_ context.Context, externalID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[externalID]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) SetNickname(_ context.Context, externalID, nickname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[externalID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Nickname = nickname
	return nil
}

func (s *fakeStore) ResetLastDraw(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.userByID(userID); u != nil {
		u.LastDrawAt = 0
	}
	return nil
}

func (s *fakeStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards), nil
}

// CardRepository

func (s *fakeStore) Create(_ context.Context, card *models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCardID++
	card.ID = s.nextCardID
	cp := *card
	s.cards = append(s.cards, &cp)
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrCardNotFound
}

func (s *fakeStore) GetAll(_ context.Context) ([]*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Card, len(s.cards))
	for i, c := range s.cards {
		cp := *c
		out[i] = &cp
	}
	return out, nil
}

func (s *fakeStore) CountByRarity(_ context.Context) ([]models.RarityCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byRarity := make(map[string]int)
	for _, c := range s.cards {
		byRarity[c.Rarity]++
	}
	out := make([]models.RarityCount, 0, len(byRarity))
	for r, n := range byRarity {
		out = append(out, models.RarityCount{Rarity: r, Count: n})
	}
	return out, nil
}

func (s *fakeStore) SafeDelete(_ context.Context, cardID int64) (*models.DeletionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report := &models.DeletionReport{CardID: cardID}
	for userID, cards := range s.owned {
		kept := cards[:0]
		for _, id := range cards {
			if id == cardID {
				report.OwnershipsDeleted++
			} else {
				kept = append(kept, id)
			}
		}
		s.owned[userID] = kept
	}
	for i, c := range s.cards {
		if c.ID == cardID {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			report.CardDeleted = true
			break
		}
	}
	if !report.CardDeleted {
		return nil, repositories.ErrCardNotFound
	}
	return report, nil
}

// UserCardRepository

func (s *fakeStore) AwardCard(_ context.Context, userID, cardID, drawnAt int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	newlyOwned := true
	for _, id := range s.owned[userID] {
		if id == cardID {
			newlyOwned = false
			break
		}
	}
	if newlyOwned {
		s.owned[userID] = append(s.owned[userID], cardID)
	}
	if u := s.userByID(userID); u != nil {
		u.LastDrawAt = drawnAt
	}
	return newlyOwned, nil
}

func (s *fakeStore) CountByUserID(_ context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.owned[userID]), nil
}

func (s *fakeStore) LastObtainedCardID(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.lastOverride[userID]; ok {
		return id, nil
	}
	cards := s.owned[userID]
	if len(cards) == 0 {
		return 0, nil
	}
	return cards[len(cards)-1], nil
}

func (s *fakeStore) OwnedCards(_ context.Context, userID int64) ([]models.OwnedCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.OwnedCard
	for _, id := range s.owned[userID] {
		for _, c := range s.cards {
			if c.ID == id {
				out = append(out, models.OwnedCard{CardID: c.ID, Name: c.Name, Rarity: c.Rarity})
			}
		}
	}
	return out, nil
}

func (s *fakeStore) TallyByRarity(_ context.Context) ([]models.RarityTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RarityTally
	for userID, cardIDs := range s.owned {
		u := s.userByID(userID)
		if u == nil {
			continue
		}
		byRarity := make(map[string]int)
		for _, id := range cardIDs {
			for _, c := range s.cards {
				if c.ID == id {
					byRarity[c.Rarity]++
				}
			}
		}
		for r, n := range byRarity {
			out = append(out, models.RarityTally{
				UserID:     u.ID,
				ExternalID: u.ExternalID,
				Nickname:   u.Nickname,
				Username:   u.Username,
				Rarity:     r,
				Count:      n,
			})
		}
	}
	return out, nil
}

// PromoRepository

func (s *fakeStore) Get(_ context.Context, code string) (*models.PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.promos[code]
	if !ok {
		return nil, repositories.ErrPromoNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) CreateIfAbsent(_ context.Context, promo *models.PromoCode) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.promos[promo.Code]; ok {
		return false, nil
	}
	cp := *promo
	s.promos[promo.Code] = &cp
	return true, nil
}

func (s *fakeStore) Redeem(_ context.Context, code string, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.promos[code]
	if !ok {
		return 0, repositories.ErrPromoNotFound
	}
	if s.redeemed[code][userID] {
		return 0, repositories.ErrPromoAlreadyRedeemed
	}
	if p.UsesLeft <= 0 && !p.Permanent {
		return 0, repositories.ErrPromoExhausted
	}
	if s.redeemed[code] == nil {
		s.redeemed[code] = make(map[int64]bool)
	}
	s.redeemed[code][userID] = true
	if p.UsesLeft > 0 {
		p.UsesLeft--
	}
	if u := s.userByID(userID); u != nil {
		u.LastDrawAt = 0
	}
	return p.UsesLeft, nil
}

// fixedRand always returns the same roll.
type fixedRand struct{ val float64 }

func (r fixedRand) Float64() float64 { return r.val }
