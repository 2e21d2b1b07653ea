package providers

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

const (
	bestbetDailyURL        = "https://bestbetjax.com/pull/daily-tournaments"
	bestbetStAugustineRoom = "bestbet St. Augustine"
	bestbetStAugustineKey  = "b44fbb67-283c-4c92-9617-458bb82cf0e5"
)

type bestbetLocation struct {
	slug string
	room string
}

var bestbetLocations = []bestbetLocation{
	{slug: "jax", room: "bestbet Jacksonville"},
	{slug: "op", room: "bestbet Orange Park"},
	{slug: "sa", room: bestbetStAugustineRoom},
}

// Bestbet covers the three bestbet rooms in north Florida. Tournament
// schedules come from the rooms' own daily pull endpoint and list Eastern
// wall-clock times; cash games come from the St. Augustine PokerAtlas feed.
type Bestbet struct {
	base
	dailyURL      string
	pokerAtlasURL string
}

func NewBestbet(deps Deps) *Bestbet {
	rooms := make([]string, 0, len(bestbetLocations))
	for _, loc := range bestbetLocations {
		rooms = append(rooms, loc.room)
	}
	return &Bestbet{
		base:          newBase("bestbet", provider.CategoryIRL, rooms, deps, defaultThrottle),
		dailyURL:      bestbetDailyURL,
		pokerAtlasURL: pokerAtlasBaseURL,
	}
}

func (b *Bestbet) FetchTournaments(ctx context.Context, opts provider.FetchOptions) ([]provider.NormalizedTournament, error) {
	return fetchCached(ctx, &b.base, provider.DataTypeTournaments, tournamentCacheTTL, opts,
		source[provider.NormalizedTournament]{name: "daily-pull", fetch: b.fetchSchedules},
	)
}

func (b *Bestbet) FetchCashGames(ctx context.Context, opts provider.FetchOptions) ([]provider.NormalizedCashGame, error) {
	return fetchCached(ctx, &b.base, provider.DataTypeCashGames, liveCashGameTTL, opts,
		source[provider.NormalizedCashGame]{name: "pokeratlas", fetch: b.fetchCashGames},
	)
}

// fetchSchedules fails only when no location could be read.
func (b *Bestbet) fetchSchedules(ctx context.Context) ([]provider.NormalizedTournament, error) {
	out := make([]provider.NormalizedTournament, 0)
	var lastErr error
	failed := 0

	for _, loc := range bestbetLocations {
		rows, err := b.fetchLocation(ctx, loc)
		if err != nil {
			failed++
			lastErr = err
			b.logger.WarnContext(ctx, "bestbet location schedule failed", "location", loc.slug, "error", err)
			continue
		}
		out = append(out, rows...)
	}

	if failed == len(bestbetLocations) {
		return nil, lastErr
	}
	return out, nil
}

func (b *Bestbet) fetchLocation(ctx context.Context, loc bestbetLocation) ([]provider.NormalizedTournament, error) {
	req := Request{
		Provider:  b.name,
		URL:       b.dailyURL + "/" + loc.slug,
		UserAgent: DefaultUserAgent,
		Headers:   map[string]string{"X-Requested-With": "XMLHttpRequest"},
	}
	// the endpoint returns bare <tr> rows
	doc, err := b.deps.Client.GetDocument(ctx, req, "<table>%s</table>")
	if err != nil {
		return nil, crerr.Wrapf(err, "location %s", loc.slug)
	}

	return collectRows(ctx, &b.base, doc.Find("tr"), func(row *goquery.Selection) (provider.NormalizedTournament, error) {
		return bestbetRow(loc.room, row)
	}), nil
}

func bestbetRow(room string, row *goquery.Selection) (provider.NormalizedTournament, error) {
	cells := row.Find("td").Map(func(_ int, td *goquery.Selection) string {
		return parse.SanitizeText(td.Text())
	})
	if len(cells) < 5 {
		return provider.NormalizedTournament{}, crerr.Wrapf(errRowSkipped, "expected 5 cells, got %d", len(cells))
	}
	dateLabel, timeLabel, eventLabel, buyinLabel := cells[0], cells[1], cells[2], cells[4]

	date, err := parse.USDate(dateLabel)
	if err != nil {
		return provider.NormalizedTournament{}, err
	}
	clock, err := parse.MeridianClock(timeLabel)
	if err != nil {
		return provider.NormalizedTournament{}, err
	}
	buyin, ok := parse.Currency(buyinLabel)
	if !ok {
		return provider.NormalizedTournament{}, crerr.Wrapf(errRowSkipped, "no buy-in in %q", buyinLabel)
	}

	return provider.NormalizedTournament{
		PokerRoom:     room,
		Variant:       parse.Variant(eventLabel),
		StartTime:     parse.EasternToUTC(date, clock),
		BuyinAmount:   buyin,
		RecurringRule: eventLabel,
		Metadata: map[string]any{
			"dateLabel":  dateLabel,
			"timeLabel":  timeLabel,
			"eventLabel": eventLabel,
		},
	}, nil
}

func (b *Bestbet) fetchCashGames(ctx context.Context) ([]provider.NormalizedCashGame, error) {
	rows, err := fetchPokerAtlasFeed(ctx, &b.base, b.pokerAtlasURL, bestbetStAugustineKey)
	if err != nil {
		return nil, err
	}
	return pokerAtlasCashGames(ctx, &b.base, rows, bestbetStAugustineRoom, true), nil
}
