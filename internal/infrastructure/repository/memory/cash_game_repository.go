package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KingBodhi/jungleverse/internal/domain/cashgame"
)

type CashGameRepository struct {
	mu     sync.RWMutex
	byRoom map[string][]cashgame.CashGame
	now    func() time.Time
}

func NewCashGameRepository() *CashGameRepository {
	return &CashGameRepository{
		byRoom: make(map[string][]cashgame.CashGame),
		now:    time.Now,
	}
}

func (r *CashGameRepository) FindExisting(_ context.Context, roomID string, smallBlind, bigBlind int64) (cashgame.CashGame, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.byRoom[roomID] {
		if item.SmallBlind == smallBlind && item.BigBlind == bigBlind {
			return cloneCashGame(item), true, nil
		}
	}

	return cashgame.CashGame{}, false, nil
}

func (r *CashGameRepository) Create(_ context.Context, item cashgame.CashGame) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate cash game: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byRoom[item.RoomID] {
		if existing.ID == item.ID {
			return fmt.Errorf("cash game %s already exists", item.ID)
		}
		if existing.SmallBlind == item.SmallBlind && existing.BigBlind == item.BigBlind {
			return fmt.Errorf("%w: %d/%d", cashgame.ErrDuplicate, item.SmallBlind, item.BigBlind)
		}
	}
	r.byRoom[item.RoomID] = append(r.byRoom[item.RoomID], cloneCashGame(item))

	return nil
}

func (r *CashGameRepository) UpdateBuyins(_ context.Context, id string, minBuyin, maxBuyin int64, notes string) error {
	if err := cashgame.ValidateBuyinRange(minBuyin, maxBuyin); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID, items := range r.byRoom {
		for idx := range items {
			if items[idx].ID != id {
				continue
			}
			items[idx].MinBuyin = minBuyin
			items[idx].MaxBuyin = maxBuyin
			items[idx].Notes = notes
			items[idx].UpdatedAt = r.now().UTC()
			r.byRoom[roomID] = items
			return nil
		}
	}

	return fmt.Errorf("cash game %s not found", id)
}

func (r *CashGameRepository) ListByRoom(_ context.Context, roomID string) ([]cashgame.CashGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byRoom[roomID]
	out := make([]cashgame.CashGame, 0, len(items))
	for _, item := range items {
		out = append(out, cloneCashGame(item))
	}
	return out, nil
}

func cloneCashGame(item cashgame.CashGame) cashgame.CashGame {
	item.UsualDaysOfWeek = append([]string(nil), item.UsualDaysOfWeek...)
	return item
}
