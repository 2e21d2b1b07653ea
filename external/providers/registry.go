package providers

import (
	"strings"

	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

// Registry is the fixed, ordered set of connectors the service ingests from.
type Registry struct {
	connectors []provider.Connector
}

type RegistryConfig struct {
	PokerAtlasRooms []PokerAtlasRoom
}

// NewRegistry builds every known connector, online sites first.
func NewRegistry(deps Deps, cfg RegistryConfig) *Registry {
	return NewRegistryOf(
		NewGGPoker(deps),
		NewPokerStars(deps),
		NewPoker888(deps),
		NewWSOP(deps),
		NewPartyPoker(deps),
		NewWPTGlobal(deps),
		NewBestbet(deps),
		NewPokerAtlas(deps, cfg.PokerAtlasRooms),
	)
}

func NewRegistryOf(connectors ...provider.Connector) *Registry {
	out := make([]provider.Connector, len(connectors))
	copy(out, connectors)
	return &Registry{connectors: out}
}

func (r *Registry) All() []provider.Connector {
	out := make([]provider.Connector, len(r.connectors))
	copy(out, r.connectors)
	return out
}

// Find matches a connector name case-insensitively.
func (r *Registry) Find(name string) (provider.Connector, bool) {
	name = strings.TrimSpace(name)
	for _, c := range r.connectors {
		if strings.EqualFold(c.Name(), name) {
			return c, true
		}
	}
	return nil, false
}
