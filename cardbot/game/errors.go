package game

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotRegistered      = errors.New("user has not set a nickname")
	ErrCatalogEmpty       = errors.New("card catalog is empty")
	ErrCollectionComplete = errors.New("collection is already complete")
	ErrNoEligibleCard     = errors.New("no eligible card to draw")

	ErrCodeNotFound    = errors.New("promo code not found")
	ErrCodeAlreadyUsed = errors.New("promo code already used by this user")
	ErrCodeExhausted   = errors.New("promo code has no uses left")

	ErrCardNotFound     = errors.New("card not found")
	ErrNicknameTooShort = errors.New("nickname must be at least 3 characters")

	// ErrStorageUnavailable wraps transient storage failures; callers may
	// retry a bounded number of times.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

// CooldownError reports that a draw came too early and how long the user
// still has to wait.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	mins, secs := e.MinutesSeconds()
	return fmt.Sprintf("next draw available in %d min %d sec", mins, secs)
}

// MinutesSeconds splits the remaining wait for display.
func (e *CooldownError) MinutesSeconds() (int, int) {
	total := int(e.Remaining.Round(time.Second).Seconds())
	return total / 60, total % 60
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
