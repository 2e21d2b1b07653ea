package usecase

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

type stubRegistry struct {
	connectors []provider.Connector
}

func newStubRegistry(connectors ...provider.Connector) *stubRegistry {
	return &stubRegistry{connectors: connectors}
}

func (r *stubRegistry) All() []provider.Connector {
	return append([]provider.Connector(nil), r.connectors...)
}

func (r *stubRegistry) Find(name string) (provider.Connector, bool) {
	for _, connector := range r.connectors {
		if strings.EqualFold(connector.Name(), strings.TrimSpace(name)) {
			return connector, true
		}
	}
	return nil, false
}

type stubTournamentConnector struct {
	name        string
	tournaments []provider.NormalizedTournament
	err         error
	panicMsg    string

	calls    atomic.Int32
	mu       sync.Mutex
	lastOpts provider.FetchOptions
}

func (c *stubTournamentConnector) Name() string                { return c.name }
func (c *stubTournamentConnector) Category() provider.Category { return provider.CategoryOnline }
func (c *stubTournamentConnector) PokerRooms() []string        { return []string{c.name} }

func (c *stubTournamentConnector) FetchTournaments(_ context.Context, opts provider.FetchOptions) ([]provider.NormalizedTournament, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.lastOpts = opts
	c.mu.Unlock()

	if c.panicMsg != "" {
		panic(c.panicMsg)
	}
	if c.err != nil {
		return nil, c.err
	}
	return append([]provider.NormalizedTournament(nil), c.tournaments...), nil
}

func (c *stubTournamentConnector) options() provider.FetchOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOpts
}

type stubCashGameConnector struct {
	name      string
	cashGames []provider.NormalizedCashGame
	err       error
}

func (c *stubCashGameConnector) Name() string                { return c.name }
func (c *stubCashGameConnector) Category() provider.Category { return provider.CategoryIRL }
func (c *stubCashGameConnector) PokerRooms() []string        { return []string{c.name} }

func (c *stubCashGameConnector) FetchCashGames(_ context.Context, _ provider.FetchOptions) ([]provider.NormalizedCashGame, error) {
	if c.err != nil {
		return nil, c.err
	}
	return append([]provider.NormalizedCashGame(nil), c.cashGames...), nil
}

type sequenceIDGenerator struct {
	prefix string
	next   atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return g.prefix + "-" + strconv.FormatInt(g.next.Add(1), 10), nil
}
