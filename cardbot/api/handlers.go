package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gdcards/cardbot/cardbot/game"
	"github.com/gdcards/cardbot/cardbot/services"
)

type Handlers struct {
	draw       *game.DrawEngine
	promos     *game.PromoLedger
	ranking    *game.RankingEngine
	collection *game.CollectionEngine
	catalog    *services.CatalogService
	search     *services.SearchService
}

func NewHandlers(
	draw *game.DrawEngine,
	promos *game.PromoLedger,
	ranking *game.RankingEngine,
	collection *game.CollectionEngine,
	catalog *services.CatalogService,
	search *services.SearchService,
) *Handlers {
	return &Handlers{
		draw:       draw,
		promos:     promos,
		ranking:    ranking,
		collection: collection,
		catalog:    catalog,
		search:     search,
	}
}

type playerRequest struct {
	ExternalID string `json:"external_id"`
	Username   string `json:"username"`
}

func (r *playerRequest) validate() error {
	if r.ExternalID == "" {
		return errors.New("external_id is required")
	}
	return nil
}

// Draw handles POST /v1/draw.
func (h *Handlers) Draw(c *fiber.Ctx) error {
	var req playerRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return SendBadRequest(c, err.Error())
	}

	result, err := h.draw.Draw(c.Context(), req.ExternalID, req.Username, time.Now())
	if err != nil {
		return sendGameError(c, err)
	}

	return SendSuccess(c, fiber.Map{
		"card_id":          result.Card.ID,
		"name":             result.Card.Name,
		"rarity":           result.Rarity,
		"rarity_count":     result.RarityCount,
		"rarity_total":     result.RarityTotal,
		"rarity_percent":   result.RarityPercent,
		"collection_size":  result.CollectionSize,
		"collection_total": result.CollectionTotal,
		"newly_owned":      result.NewlyOwned,
	}, "card drawn")
}

type redeemRequest struct {
	playerRequest
	Code string `json:"code"`
}

// Redeem handles POST /v1/promo/redeem.
func (h *Handlers) Redeem(c *fiber.Ctx) error {
	var req redeemRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return SendBadRequest(c, err.Error())
	}

	result, err := h.promos.Redeem(c.Context(), req.ExternalID, req.Username, req.Code)
	if err != nil {
		return sendGameError(c, err)
	}

	return SendSuccess(c, fiber.Map{
		"code":           result.Code,
		"remaining_uses": result.RemainingUses,
		"permanent":      result.Permanent,
	}, "promo code redeemed, cooldown cleared")
}

type nicknameRequest struct {
	playerRequest
	Nickname string `json:"nickname"`
}

// SetNickname handles POST /v1/nickname.
func (h *Handlers) SetNickname(c *fiber.Ctx) error {
	var req nicknameRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return SendBadRequest(c, err.Error())
	}

	user, err := h.catalog.SetNickname(c.Context(), req.ExternalID, req.Username, req.Nickname)
	if err != nil {
		return sendGameError(c, err)
	}
	return SendSuccess(c, fiber.Map{"nickname": user.Nickname}, "nickname set")
}

// Profile handles GET /v1/players/:external_id/profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	externalID := c.Params("external_id")
	profile, err := h.collection.Profile(c.Context(), externalID, c.Query("username"))
	if err != nil {
		return sendGameError(c, err)
	}
	return SendSuccess(c, profile, "")
}

// Collection handles GET /v1/players/:external_id/collection.
func (h *Handlers) Collection(c *fiber.Ctx) error {
	view, err := h.collection.Collection(c.Context(), c.Params("external_id"))
	if err != nil {
		return sendGameError(c, err)
	}
	return SendSuccess(c, view, "")
}

// Leaderboard handles GET /v1/leaderboard.
func (h *Handlers) Leaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	ranks, err := h.ranking.TopPlayers(c.Context(), limit)
	if err != nil {
		return sendGameError(c, err)
	}
	return SendSuccess(c, ranks, "")
}

type addCardRequest struct {
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	Description string `json:"description"`
	AssetRef    string `json:"asset_ref"`
}

// AddCard handles POST /v1/admin/cards.
func (h *Handlers) AddCard(c *fiber.Ctx) error {
	var req addCardRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "invalid request body")
	}

	card, err := h.catalog.AddCard(c.Context(), req.Name, req.Rarity, req.Description, req.AssetRef)
	if err != nil {
		if errors.Is(err, game.ErrStorageUnavailable) {
			return sendGameError(c, err)
		}
		return SendBadRequest(c, err.Error())
	}
	return SendCreated(c, card, "card added")
}

// ListCards handles GET /v1/admin/cards.
func (h *Handlers) ListCards(c *fiber.Ctx) error {
	cards, err := h.catalog.ListCards(c.Context())
	if err != nil {
		return sendGameError(c, err)
	}
	return SendSuccess(c, cards, "")
}

// DeleteCard handles DELETE /v1/admin/cards/:id.
func (h *Handlers) DeleteCard(c *fiber.Ctx) error {
	cardID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return SendBadRequest(c, "invalid card id")
	}

	report, err := h.catalog.DeleteCard(c.Context(), cardID)
	if err != nil {
		return sendGameError(c, err)
	}
	return SendSuccess(c, report, "card deleted")
}

// SearchCards handles GET /v1/admin/cards/search.
func (h *Handlers) SearchCards(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	cards, err := h.search.SearchCards(c.Context(), c.Query("q"), limit)
	if err != nil {
		return sendGameError(c, err)
	}
	return SendSuccess(c, cards, "")
}

// RarityStats handles GET /v1/admin/stats/rarities.
func (h *Handlers) RarityStats(c *fiber.Ctx) error {
	stats, err := h.catalog.RarityStats(c.Context())
	if err != nil {
		return sendGameError(c, err)
	}
	return SendSuccess(c, stats, "")
}

// ResetCooldown handles POST /v1/admin/players/:external_id/reset-cooldown.
func (h *Handlers) ResetCooldown(c *fiber.Ctx) error {
	if err := h.catalog.ResetCooldown(c.Context(), c.Params("external_id")); err != nil {
		return sendGameError(c, err)
	}
	return SendSuccess(c, nil, "cooldown reset")
}

type generateCodeRequest struct {
	Uses int `json:"uses"`
}

// GenerateCode handles POST /v1/admin/promo/codes.
func (h *Handlers) GenerateCode(c *fiber.Ctx) error {
	var req generateCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "invalid request body")
	}
	if req.Uses <= 0 {
		req.Uses = 1
	}

	code, err := h.promos.GenerateOneTimeCode(c.Context(), req.Uses)
	if err != nil {
		return sendGameError(c, err)
	}
	return SendCreated(c, fiber.Map{"code": code, "uses": req.Uses}, "promo code generated")
}
