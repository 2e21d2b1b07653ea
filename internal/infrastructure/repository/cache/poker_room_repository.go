package cache

import (
	"context"
	"strings"

	"github.com/KingBodhi/jungleverse/internal/domain/pokerroom"
	basecache "github.com/KingBodhi/jungleverse/internal/platform/cache"
)

const roomKeyPrefix = "room:"

// PokerRoomRepository caches room lookups in front of another repository.
// Misses are cached too; Upsert drops every cached room entry.
type PokerRoomRepository struct {
	next  pokerroom.Repository
	cache *basecache.Store
}

func NewPokerRoomRepository(next pokerroom.Repository, cache *basecache.Store) *PokerRoomRepository {
	return &PokerRoomRepository{next: next, cache: cache}
}

func (r *PokerRoomRepository) List(ctx context.Context) ([]pokerroom.Room, error) {
	v, err := r.cache.GetOrLoad(ctx, roomKeyPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]pokerroom.Room(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]pokerroom.Room)
	return append([]pokerroom.Room(nil), items...), nil
}

func (r *PokerRoomRepository) FindByName(ctx context.Context, name string) (pokerroom.Room, bool, error) {
	key := roomKeyPrefix + "name:" + strings.TrimSpace(name)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		return cachedRoom{value: item, exists: exists}, nil
	})
	if err != nil {
		return pokerroom.Room{}, false, err
	}

	cached, _ := v.(cachedRoom)
	return cached.value, cached.exists, nil
}

func (r *PokerRoomRepository) Upsert(ctx context.Context, room pokerroom.Room) (pokerroom.Room, error) {
	saved, err := r.next.Upsert(ctx, room)
	if err != nil {
		return pokerroom.Room{}, err
	}
	r.cache.DeletePrefix(ctx, roomKeyPrefix)
	return saved, nil
}

type cachedRoom struct {
	value  pokerroom.Room
	exists bool
}
