package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KingBodhi/jungleverse/internal/domain/tournament"
)

type TournamentRepository struct {
	mu     sync.RWMutex
	byRoom map[string][]tournament.Tournament
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{byRoom: make(map[string][]tournament.Tournament)}
}

func (r *TournamentRepository) FindExisting(_ context.Context, roomID string, buyinAmount int64, startTime time.Time) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.byRoom[roomID] {
		if item.BuyinAmount == buyinAmount && item.StartTime.Equal(startTime) {
			return item, true, nil
		}
	}

	return tournament.Tournament{}, false, nil
}

func (r *TournamentRepository) Create(_ context.Context, item tournament.Tournament) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate tournament: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byRoom[item.RoomID] {
		if existing.ID == item.ID {
			return fmt.Errorf("tournament %s already exists", item.ID)
		}
		if existing.BuyinAmount == item.BuyinAmount && existing.StartTime.Equal(item.StartTime) {
			return fmt.Errorf("%w: buyin=%d start=%s", tournament.ErrDuplicate, item.BuyinAmount, item.StartTime.UTC().Format(time.RFC3339))
		}
	}
	r.byRoom[item.RoomID] = append(r.byRoom[item.RoomID], item)

	return nil
}

func (r *TournamentRepository) ListByRoom(_ context.Context, roomID string) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byRoom[roomID]
	out := make([]tournament.Tournament, 0, len(items))
	out = append(out, items...)
	return out, nil
}
