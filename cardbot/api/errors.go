package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gdcards/cardbot/cardbot/game"
)

// sendGameError maps domain errors onto HTTP status codes and stable
// machine-readable error codes.
func sendGameError(c *fiber.Ctx, err error) error {
	var cooldown *game.CooldownError
	if errors.As(err, &cooldown) {
		m, s := cooldown.MinutesSeconds()
		return SendError(c, http.StatusTooManyRequests, "ON_COOLDOWN",
			fmt.Sprintf("next draw available in %dm %ds", m, s))
	}

	switch {
	case errors.Is(err, game.ErrNotRegistered):
		return SendError(c, http.StatusForbidden, "NOT_REGISTERED", "register a nickname before playing")
	case errors.Is(err, game.ErrCatalogEmpty):
		return SendError(c, http.StatusConflict, "CATALOG_EMPTY", "no cards exist yet")
	case errors.Is(err, game.ErrCollectionComplete):
		return SendError(c, http.StatusConflict, "COLLECTION_COMPLETE", "every card is already collected")
	case errors.Is(err, game.ErrNoEligibleCard):
		return SendError(c, http.StatusConflict, "NO_ELIGIBLE_CARD", "no card is currently drawable")
	case errors.Is(err, game.ErrCodeNotFound):
		return SendNotFound(c, "promo code not found")
	case errors.Is(err, game.ErrCodeAlreadyUsed):
		return SendError(c, http.StatusConflict, "CODE_ALREADY_USED", "promo code already redeemed by this user")
	case errors.Is(err, game.ErrCodeExhausted):
		return SendError(c, http.StatusConflict, "CODE_EXHAUSTED", "promo code has no uses left")
	case errors.Is(err, game.ErrCardNotFound):
		return SendNotFound(c, "card not found")
	case errors.Is(err, game.ErrNicknameTooShort):
		return SendBadRequest(c, "nickname must be at least 3 characters")
	case errors.Is(err, game.ErrStorageUnavailable):
		return SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "storage temporarily unavailable, try again")
	default:
		return SendInternalServerError(c, "internal error")
	}
}

// CustomErrorHandler handles errors that escape the route handlers.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return SendError(c, fiberErr.Code, "HTTP_ERROR", fiberErr.Message)
	}
	return SendInternalServerError(c, "internal error")
}
