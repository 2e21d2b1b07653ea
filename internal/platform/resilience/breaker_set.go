package resilience

import (
	"sort"
	"strings"
	"sync"
)

// BreakerSet hands out one circuit breaker per upstream key. A disabled set
// returns nil breakers, which callers treat as always closed.
type BreakerSet struct {
	mu       sync.Mutex
	cfg      CircuitBreakerConfig
	breakers map[string]*CircuitBreaker
}

func NewBreakerSet(cfg CircuitBreakerConfig) *BreakerSet {
	return &BreakerSet{
		cfg:      NormalizeCircuitBreakerConfig(cfg),
		breakers: make(map[string]*CircuitBreaker),
	}
}

func (s *BreakerSet) Get(key string) *CircuitBreaker {
	if s == nil || !s.cfg.Enabled {
		return nil
	}

	key = strings.ToLower(strings.TrimSpace(key))
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.breakers[key]
	if !ok {
		b = NewCircuitBreaker(key, s.cfg)
		s.breakers[key] = b
	}
	return b
}

func (s *BreakerSet) Snapshots() []BreakerSnapshot {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	breakers := make([]*CircuitBreaker, 0, len(s.breakers))
	for _, b := range s.breakers {
		breakers = append(breakers, b)
	}
	s.mu.Unlock()

	out := make([]BreakerSnapshot, 0, len(breakers))
	for _, b := range breakers {
		out = append(out, b.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
