package providers

import (
	"context"
	"strings"
	"time"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

const (
	wptGlobalScheduleURL = "https://wptglobal.com/tournaments"
	wptGlobalRoom        = "WPT Global"
)

var wptGlobalLayout = scheduleLayout{
	rows:      ".tournament-item, .event-card, [data-event]",
	name:      ".tournament-name, .event-name, h3, h4",
	buyin:     ".buy-in, .buyin, .entry-fee",
	guarantee: ".guarantee, .gtd, .prize-pool",
	start:     ".start-time, .time, .when",
}

type WPTGlobal struct {
	base
	scheduleURL string
}

func NewWPTGlobal(deps Deps) *WPTGlobal {
	return &WPTGlobal{
		base:        newBase("WPT Global", provider.CategoryOnline, []string{wptGlobalRoom}, deps, defaultThrottle),
		scheduleURL: wptGlobalScheduleURL,
	}
}

func (w *WPTGlobal) FetchTournaments(ctx context.Context, opts provider.FetchOptions) ([]provider.NormalizedTournament, error) {
	return fetchCached(ctx, &w.base, provider.DataTypeTournaments, tournamentCacheTTL, opts,
		source[provider.NormalizedTournament]{name: "scrape", fetch: w.scrape},
	)
}

func (w *WPTGlobal) scrape(ctx context.Context) ([]provider.NormalizedTournament, error) {
	now := w.now()
	return scrapeSchedule(ctx, &w.base, w.scheduleURL, wptGlobalLayout, func(row scheduleRow) provider.NormalizedTournament {
		return provider.NormalizedTournament{
			PokerRoom:          wptGlobalRoom,
			Variant:            parse.Variant(row.name),
			StartTime:          clockStart(now, row.start),
			BuyinAmount:        row.buyin,
			EstimatedPrizePool: parse.CurrencyPtr(row.guarantee),
			RecurringRule:      wptGlobalRecurringRule(row.name),
			Metadata:           map[string]any{"source": "scraping", "name": row.name},
		}
	})
}

func wptGlobalRecurringRule(name string) string {
	if strings.Contains(strings.ToLower(name), "daily") {
		return "Daily"
	}
	return weeklyRule(name, []time.Weekday{time.Sunday, time.Saturday})
}
