package cashgame

import "context"

// Repository describes cash game persistence needs from use cases.
type Repository interface {
	FindExisting(ctx context.Context, roomID string, smallBlind, bigBlind int64) (CashGame, bool, error)
	Create(ctx context.Context, item CashGame) error
	UpdateBuyins(ctx context.Context, id string, minBuyin, maxBuyin int64, notes string) error
	ListByRoom(ctx context.Context, roomID string) ([]CashGame, error)
}
