package tournament

import (
	"errors"
	"fmt"
	"time"
)

// ErrDuplicate is returned by Create when a tournament with the same room,
// buy-in and start time is already stored.
var ErrDuplicate = errors.New("tournament already exists for room, buy-in and start time")

type Tournament struct {
	ID                 string
	RoomID             string
	Variant            string
	StartTime          time.Time
	BuyinAmount        int64
	RakeAmount         *int64
	StartingStack      *int64
	BlindLevelMinutes  *int
	ReentryPolicy      string
	BountyAmount       *int64
	RecurringRule      string
	EstimatedPrizePool *int64
	TypicalFieldSize   *int
	ExternalID         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (t Tournament) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tournament id is required")
	}
	if t.RoomID == "" {
		return fmt.Errorf("tournament room id is required")
	}
	if t.StartTime.IsZero() {
		return fmt.Errorf("tournament start time is required")
	}
	if t.BuyinAmount < 0 {
		return fmt.Errorf("tournament buy-in must be >= 0")
	}

	return nil
}
