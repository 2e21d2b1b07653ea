package cashgame

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidBuyinRange = errors.New("cash game buy-in range is invalid")
	// ErrDuplicate is returned by Create when a game with the same room and
	// blinds is already stored.
	ErrDuplicate = errors.New("cash game already exists for room and stakes")
)

type CashGame struct {
	ID              string
	RoomID          string
	Variant         string
	SmallBlind      int64
	BigBlind        int64
	MinBuyin        int64
	MaxBuyin        int64
	UsualDaysOfWeek []string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (c CashGame) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("cash game id is required")
	}
	if c.RoomID == "" {
		return fmt.Errorf("cash game room id is required")
	}
	if c.SmallBlind <= 0 || c.BigBlind <= 0 {
		return fmt.Errorf("cash game blinds must be > 0")
	}
	return ValidateBuyinRange(c.MinBuyin, c.MaxBuyin)
}

// ValidateBuyinRange requires a positive minimum not above the maximum.
func ValidateBuyinRange(minBuyin, maxBuyin int64) error {
	if minBuyin <= 0 || maxBuyin < minBuyin {
		return fmt.Errorf("%w: min=%d max=%d", ErrInvalidBuyinRange, minBuyin, maxBuyin)
	}
	return nil
}
