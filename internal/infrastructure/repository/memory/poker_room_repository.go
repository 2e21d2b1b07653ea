package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/KingBodhi/jungleverse/internal/domain/pokerroom"
)

type PokerRoomRepository struct {
	mu     sync.RWMutex
	byName map[string]pokerroom.Room
	now    func() time.Time
}

func NewPokerRoomRepository(rooms []pokerroom.Room) *PokerRoomRepository {
	byName := make(map[string]pokerroom.Room, len(rooms))
	for _, item := range rooms {
		byName[item.Name] = item
	}

	return &PokerRoomRepository{byName: byName, now: time.Now}
}

func (r *PokerRoomRepository) FindByName(_ context.Context, name string) (pokerroom.Room, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byName[name]
	return item, ok, nil
}

func (r *PokerRoomRepository) List(_ context.Context) ([]pokerroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pokerroom.Room, 0, len(r.byName))
	for _, item := range r.byName {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *PokerRoomRepository) Upsert(_ context.Context, room pokerroom.Room) (pokerroom.Room, error) {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return pokerroom.Room{}, fmt.Errorf("room name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	if existing, ok := r.byName[room.Name]; ok {
		room.ID = existing.ID
		room.CreatedAt = existing.CreatedAt
	} else {
		if strings.TrimSpace(room.ID) == "" {
			room.ID = RoomID(room.Name)
		}
		room.CreatedAt = now
	}
	room.UpdatedAt = now
	if err := room.Validate(); err != nil {
		return pokerroom.Room{}, fmt.Errorf("validate room: %w", err)
	}
	r.byName[room.Name] = room

	return room, nil
}
