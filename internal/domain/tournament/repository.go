package tournament

import (
	"context"
	"time"
)

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	FindExisting(ctx context.Context, roomID string, buyinAmount int64, startTime time.Time) (Tournament, bool, error)
	Create(ctx context.Context, item Tournament) error
	ListByRoom(ctx context.Context, roomID string) ([]Tournament, error)
}
