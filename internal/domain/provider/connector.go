package provider

import "context"

// FetchOptions tunes a single connector fetch.
type FetchOptions struct {
	// SkipCache forces a live fetch and leaves the cache untouched.
	SkipCache bool
}

// Connector describes a data source for one provider. Fetch capabilities are
// expressed by TournamentSource and CashGameSource; a connector that does not
// implement one of them simply does not offer that data.
type Connector interface {
	Name() string
	Category() Category
	PokerRooms() []string
}

type TournamentSource interface {
	Connector
	FetchTournaments(ctx context.Context, opts FetchOptions) ([]NormalizedTournament, error)
}

type CashGameSource interface {
	Connector
	FetchCashGames(ctx context.Context, opts FetchOptions) ([]NormalizedCashGame, error)
}

// Capabilities reports which data types a connector can produce.
func Capabilities(c Connector) (tournaments bool, cashGames bool) {
	_, tournaments = c.(TournamentSource)
	_, cashGames = c.(CashGameSource)
	return tournaments, cashGames
}
