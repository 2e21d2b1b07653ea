package providers

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
	"github.com/KingBodhi/jungleverse/internal/platform/cache"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
	"github.com/KingBodhi/jungleverse/internal/platform/ratelimit"
)

const (
	defaultThrottle     = 3 * time.Second
	tournamentCacheTTL  = time.Hour
	liveCashGameTTL     = 10 * time.Minute
	maxLoggedSkipReason = 5
)

// Deps are the collaborators shared by every connector.
type Deps struct {
	Client  *Client
	Cache   *cache.Store
	Limiter *ratelimit.Limiter
	Logger  *logging.Logger
	// Throttle overrides the minimum spacing between fetches of one provider.
	Throttle time.Duration
	Now      func() time.Time
}

type base struct {
	name     string
	category provider.Category
	rooms    []string
	deps     Deps
	throttle time.Duration
	logger   *logging.Logger
}

func newBase(name string, category provider.Category, rooms []string, deps Deps, throttle time.Duration) base {
	if deps.Throttle > 0 {
		throttle = deps.Throttle
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Client == nil {
		deps.Client = NewClient(ClientConfig{Logger: deps.Logger})
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return base{
		name:     name,
		category: category,
		rooms:    rooms,
		deps:     deps,
		throttle: throttle,
		logger:   logger.With("provider", name),
	}
}

func (b *base) Name() string                { return b.name }
func (b *base) Category() provider.Category { return b.category }

func (b *base) PokerRooms() []string {
	out := make([]string, len(b.rooms))
	copy(out, b.rooms)
	return out
}

func (b *base) now() time.Time {
	return b.deps.Now().UTC()
}

func (b *base) wait(ctx context.Context, key string) error {
	if b.deps.Limiter == nil {
		return nil
	}
	return b.deps.Limiter.Throttle(ctx, key, b.throttle)
}

// source is one way of obtaining a provider's listing, e.g. its JSON API or
// its public schedule page.
type source[T any] struct {
	name  string
	fetch func(ctx context.Context) ([]T, error)
}

// fetchCached serves the provider's listing from cache when possible and
// otherwise tries each source in order. The first non-empty result wins and
// is cached. An error is returned only when the last source tried failed.
func fetchCached[T any](ctx context.Context, b *base, dataType provider.DataType, ttl time.Duration, opts provider.FetchOptions, sources ...source[T]) ([]T, error) {
	key := cache.Key(b.name, string(dataType), b.now())
	if !opts.SkipCache && b.deps.Cache != nil {
		if cached, ok := b.deps.Cache.Get(ctx, key); ok {
			if items, ok := cached.([]T); ok {
				b.logger.DebugContext(ctx, "provider cache hit", "key", key, "count", len(items))
				return items, nil
			}
		}
	}

	if err := b.wait(ctx, b.name); err != nil {
		return nil, err
	}

	var lastErr error
	for _, src := range sources {
		items, err := src.fetch(ctx)
		if err != nil {
			lastErr = err
			b.logger.WarnContext(ctx, "provider source failed", "source", src.name, "error", err)
			continue
		}
		lastErr = nil
		if len(items) == 0 {
			b.logger.DebugContext(ctx, "provider source returned no rows", "source", src.name)
			continue
		}

		if !opts.SkipCache && b.deps.Cache != nil {
			b.deps.Cache.SetWithTTL(ctx, key, items, ttl)
		}
		return items, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return []T{}, nil
}

// collectRows runs parseRow over every candidate and keeps the successes.
// Rows that cannot be parsed are skipped; a few reasons are logged.
func collectRows[T any](ctx context.Context, b *base, rows *goquery.Selection, parseRow func(row *goquery.Selection) (T, error)) []T {
	out := make([]T, 0, rows.Length())
	skipped := 0
	rows.Each(func(_ int, row *goquery.Selection) {
		item, err := parseRow(row)
		if err != nil {
			skipped++
			if skipped <= maxLoggedSkipReason {
				b.logger.DebugContext(ctx, "skipped provider row", "reason", err)
			}
			return
		}
		out = append(out, item)
	})
	if skipped > 0 {
		b.logger.DebugContext(ctx, "provider rows skipped", "skipped", skipped, "kept", len(out))
	}
	return out
}

// textOf returns the collapsed text of the first element matching selector.
func textOf(row *goquery.Selection, selector string) string {
	return parse.SanitizeText(row.Find(selector).First().Text())
}
