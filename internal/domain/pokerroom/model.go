package pokerroom

import (
	"fmt"
	"strings"
	"time"
)

// Room is a persisted poker room, online site or physical venue.
type Room struct {
	ID        string
	Name      string
	Brand     string
	Category  string
	City      string
	State     string
	Country   string
	Timezone  string
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Room) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("room id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("room name is required")
	}
	switch r.Category {
	case CategoryOnline, CategoryIRL:
	default:
		return fmt.Errorf("invalid room category %q", r.Category)
	}

	return nil
}
