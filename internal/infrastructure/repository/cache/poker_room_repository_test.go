package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/KingBodhi/jungleverse/internal/domain/pokerroom"
	pokerroommock "github.com/KingBodhi/jungleverse/internal/mocks/domain/pokerroom"
	basecache "github.com/KingBodhi/jungleverse/internal/platform/cache"
)

func TestPokerRoomRepository_FindByNameCachesHitsAndMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := pokerroommock.NewRepository(t)
	next.On("FindByName", mock.Anything, "Pokerstars").
		Return(pokerroom.Room{ID: "room-1", Name: "Pokerstars"}, true, nil).Once()
	next.On("FindByName", mock.Anything, "Nowhere").
		Return(pokerroom.Room{}, false, nil).Once()

	repo := NewPokerRoomRepository(next, basecache.NewStore(time.Minute))

	for range 3 {
		room, ok, err := repo.FindByName(ctx, "Pokerstars")
		if err != nil || !ok || room.ID != "room-1" {
			t.Fatalf("unexpected lookup: room=%+v ok=%v err=%v", room, ok, err)
		}
		if _, ok, err := repo.FindByName(ctx, "Nowhere"); err != nil || ok {
			t.Fatalf("expected cached miss: ok=%v err=%v", ok, err)
		}
	}
}

func TestPokerRoomRepository_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := pokerroommock.NewRepository(t)
	next.On("FindByName", mock.Anything, "GGpoker").
		Return(pokerroom.Room{}, false, errors.New("connection reset")).Once()
	next.On("FindByName", mock.Anything, "GGpoker").
		Return(pokerroom.Room{ID: "room-gg", Name: "GGpoker"}, true, nil).Once()

	repo := NewPokerRoomRepository(next, basecache.NewStore(time.Minute))

	if _, _, err := repo.FindByName(ctx, "GGpoker"); err == nil {
		t.Fatalf("expected first lookup to fail")
	}
	room, ok, err := repo.FindByName(ctx, "GGpoker")
	if err != nil || !ok || room.ID != "room-gg" {
		t.Fatalf("unexpected retry lookup: room=%+v ok=%v err=%v", room, ok, err)
	}
}

func TestPokerRoomRepository_UpsertInvalidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := pokerroommock.NewRepository(t)
	next.On("List", mock.Anything).Return([]pokerroom.Room{{ID: "room-1", Name: "Pokerstars"}}, nil).Once()
	next.On("FindByName", mock.Anything, "WSOP").Return(pokerroom.Room{}, false, nil).Once()
	next.On("Upsert", mock.Anything, mock.AnythingOfType("pokerroom.Room")).
		Return(pokerroom.Room{ID: "room-2", Name: "WSOP"}, nil).Once()
	next.On("List", mock.Anything).Return([]pokerroom.Room{
		{ID: "room-1", Name: "Pokerstars"},
		{ID: "room-2", Name: "WSOP"},
	}, nil).Once()
	next.On("FindByName", mock.Anything, "WSOP").Return(pokerroom.Room{ID: "room-2", Name: "WSOP"}, true, nil).Once()

	store := basecache.NewStore(time.Minute)
	repo := NewPokerRoomRepository(next, store)

	if rooms, err := repo.List(ctx); err != nil || len(rooms) != 1 {
		t.Fatalf("unexpected first list: rooms=%v err=%v", rooms, err)
	}
	if _, ok, _ := repo.FindByName(ctx, "WSOP"); ok {
		t.Fatalf("expected WSOP to be missing before upsert")
	}

	if _, err := repo.Upsert(ctx, pokerroom.Room{Name: "WSOP"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if rooms, err := repo.List(ctx); err != nil || len(rooms) != 2 {
		t.Fatalf("expected refreshed list: rooms=%v err=%v", rooms, err)
	}
	if _, ok, _ := repo.FindByName(ctx, "WSOP"); !ok {
		t.Fatalf("expected WSOP after upsert")
	}
}
