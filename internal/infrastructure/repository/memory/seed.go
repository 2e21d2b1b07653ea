package memory

import (
	"strings"
	"time"

	"github.com/KingBodhi/jungleverse/internal/domain/pokerroom"
)

// RoomID derives a stable identifier from a room name, e.g.
// "bestbet St. Augustine" -> "room-bestbet-st-augustine".
func RoomID(name string) string {
	var b strings.Builder
	b.WriteString("room-")
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > len("room-"):
			b.WriteByte('-')
			dash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

func SeedPokerRooms() []pokerroom.Room {
	seededAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rooms := pokerroom.KnownRooms()
	for idx := range rooms {
		rooms[idx].ID = RoomID(rooms[idx].Name)
		rooms[idx].CreatedAt = seededAt
		rooms[idx].UpdatedAt = seededAt
	}

	return rooms
}
