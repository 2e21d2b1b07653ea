package providers

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

const (
	ggPokerScheduleURL = "https://ggpoker.com/tournaments/daily-guarantees/"
	ggPokerRoom        = "GGpoker"
)

// GGPoker reads the daily guarantees tables. Columns are matched by header
// text so column order on the page does not matter.
type GGPoker struct {
	base
	scheduleURL string
}

func NewGGPoker(deps Deps) *GGPoker {
	return &GGPoker{
		base:        newBase("GGpoker", provider.CategoryOnline, []string{ggPokerRoom}, deps, defaultThrottle),
		scheduleURL: ggPokerScheduleURL,
	}
}

func (g *GGPoker) FetchTournaments(ctx context.Context, opts provider.FetchOptions) ([]provider.NormalizedTournament, error) {
	return fetchCached(ctx, &g.base, provider.DataTypeTournaments, tournamentCacheTTL, opts,
		source[provider.NormalizedTournament]{name: "scrape", fetch: g.scrape},
	)
}

func (g *GGPoker) scrape(ctx context.Context) ([]provider.NormalizedTournament, error) {
	doc, err := g.deps.Client.GetDocument(ctx, Request{Provider: g.name, URL: g.scheduleURL, UserAgent: DefaultUserAgent}, "")
	if err != nil {
		return nil, err
	}

	now := g.now()
	out := make([]provider.NormalizedTournament, 0)
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		headers := table.Find("thead th").Map(func(_ int, th *goquery.Selection) string {
			return parse.SanitizeText(th.Text())
		})
		if !slices.Contains(headers, "Event") {
			return
		}

		rows := collectRows(ctx, &g.base, table.Find("tbody tr"), func(row *goquery.Selection) (provider.NormalizedTournament, error) {
			return ggPokerRow(now, headers, row)
		})
		out = append(out, rows...)
	})
	return out, nil
}

func ggPokerRow(now time.Time, headers []string, row *goquery.Selection) (provider.NormalizedTournament, error) {
	cells := row.Find("td").Map(func(_ int, td *goquery.Selection) string {
		return parse.SanitizeText(td.Text())
	})
	if len(cells) == 0 {
		return provider.NormalizedTournament{}, crerr.Wrap(errRowSkipped, "empty row")
	}

	tuple := make(map[string]any, len(cells))
	fields := make(map[string]string, len(cells))
	for i, value := range cells {
		key := fmt.Sprintf("col%d", i)
		if i < len(headers) && headers[i] != "" {
			key = headers[i]
		}
		tuple[key] = value
		fields[key] = value
	}

	eventName := fields["Event"]
	buyin, buyinOK := parse.Currency(fields["Buy-In"])
	timeLabel := firstNonEmpty(fields["UTC"], fields["Time"])
	if eventName == "" || !buyinOK || timeLabel == "" {
		return provider.NormalizedTournament{}, crerr.Wrapf(errRowSkipped, "incomplete row %v", cells)
	}

	clock, err := parse.UTCClock(timeLabel)
	if err != nil {
		return provider.NormalizedTournament{}, err
	}
	days := parse.ExpandDays(fields["Day"])

	return provider.NormalizedTournament{
		PokerRoom:          ggPokerRoom,
		Variant:            parse.Variant(eventName),
		StartTime:          parse.NextUTCOccurrence(now, days, clock),
		BuyinAmount:        buyin,
		EstimatedPrizePool: parse.CurrencyPtr(fields["GTD"]),
		RecurringRule:      firstNonEmpty(fields["Day"], "Daily"),
		Metadata:           tuple,
	}, nil
}
