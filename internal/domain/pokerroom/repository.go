package pokerroom

import "context"

// Repository describes poker room persistence needs from use cases.
type Repository interface {
	FindByName(ctx context.Context, name string) (Room, bool, error)
	List(ctx context.Context) ([]Room, error)
	Upsert(ctx context.Context, room Room) (Room, error)
}
