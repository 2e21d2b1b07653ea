package providers

import (
	"context"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

const (
	wsopOnlineURL      = "https://www.wsop.com/online-poker/tournaments/"
	wsopCircuitURL     = "https://www.wsop.com/tournaments/"
	wsopRoom           = "WSOP"
	wsopCircuitDefault = "WSOP Circuit"
)

var (
	wsopOnlineLayout = scheduleLayout{
		rows:      ".tournament-item, .tourney-card, [data-tournament]",
		name:      ".tournament-name, .event-name, h3",
		buyin:     ".buy-in, .buyin, .entry",
		guarantee: ".guarantee, .gtd",
		start:     ".start-time, .time",
	}
	wsopCircuitLayout = scheduleLayout{
		rows:     ".circuit-event, .event-card",
		name:     ".event-name, h3, h4",
		buyin:    ".buy-in, .buyin",
		location: ".location, .venue",
	}
)

// WSOP combines the online schedule with live circuit events. Circuit rows
// are keyed by their venue when one is listed.
type WSOP struct {
	base
	onlineURL  string
	circuitURL string
}

func NewWSOP(deps Deps) *WSOP {
	return &WSOP{
		base:       newBase("WSOP", provider.CategoryOnline, []string{wsopRoom}, deps, defaultThrottle),
		onlineURL:  wsopOnlineURL,
		circuitURL: wsopCircuitURL,
	}
}

func (w *WSOP) FetchTournaments(ctx context.Context, opts provider.FetchOptions) ([]provider.NormalizedTournament, error) {
	return fetchCached(ctx, &w.base, provider.DataTypeTournaments, tournamentCacheTTL, opts,
		source[provider.NormalizedTournament]{name: "scrape", fetch: w.scrapeBoth},
	)
}

// scrapeBoth loads both schedules concurrently. A failing page contributes
// no rows rather than failing the fetch.
func (w *WSOP) scrapeBoth(ctx context.Context) ([]provider.NormalizedTournament, error) {
	var online, circuit []provider.NormalizedTournament

	var wg conc.WaitGroup
	wg.Go(func() {
		rows, err := w.scrapeOnline(ctx)
		if err != nil {
			w.logger.WarnContext(ctx, "wsop online schedule failed", "error", err)
			return
		}
		online = rows
	})
	wg.Go(func() {
		rows, err := w.scrapeCircuit(ctx)
		if err != nil {
			w.logger.WarnContext(ctx, "wsop circuit schedule failed", "error", err)
			return
		}
		circuit = rows
	})
	wg.Wait()

	out := make([]provider.NormalizedTournament, 0, len(online)+len(circuit))
	out = append(out, online...)
	return append(out, circuit...), nil
}

func (w *WSOP) scrapeOnline(ctx context.Context) ([]provider.NormalizedTournament, error) {
	now := w.now()
	return scrapeSchedule(ctx, &w.base, w.onlineURL, wsopOnlineLayout, func(row scheduleRow) provider.NormalizedTournament {
		return provider.NormalizedTournament{
			PokerRoom:          wsopRoom,
			Variant:            parse.Variant(row.name),
			StartTime:          clockStart(now, row.start),
			BuyinAmount:        row.buyin,
			EstimatedPrizePool: parse.CurrencyPtr(row.guarantee),
			RecurringRule:      wsopRecurringRule(row.name),
			Metadata:           map[string]any{"source": "online", "name": row.name},
		}
	})
}

func (w *WSOP) scrapeCircuit(ctx context.Context) ([]provider.NormalizedTournament, error) {
	// circuit listings carry no start time; assume the event runs tomorrow
	start := w.now().Add(24 * time.Hour)
	return scrapeSchedule(ctx, &w.base, w.circuitURL, wsopCircuitLayout, func(row scheduleRow) provider.NormalizedTournament {
		return provider.NormalizedTournament{
			PokerRoom:   firstNonEmpty(row.location, wsopCircuitDefault),
			Variant:     provider.VariantNLHE,
			StartTime:   start,
			BuyinAmount: row.buyin,
			Metadata: map[string]any{
				"source":   "circuit",
				"name":     row.name,
				"location": row.location,
			},
		}
	})
}

func wsopRecurringRule(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "daily"):
		return "Daily"
	case strings.Contains(lower, "weekly"):
		return "Weekly"
	default:
		return ""
	}
}
