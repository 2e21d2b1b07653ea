package providers

import (
	"context"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

const (
	partyPokerScheduleURL = "https://www.partypoker.com/en/poker/tournaments"
	partyPokerRoom        = "PartyPoker"
)

var partyPokerLayout = scheduleLayout{
	rows:      ".tournament-card, .tourney-item, [data-tournament-id]",
	name:      ".tournament-name, .event-name, h3",
	buyin:     ".buy-in, .buyin",
	guarantee: ".guarantee, .gtd, .prize",
	start:     ".start-time, .time",
}

type PartyPoker struct {
	base
	scheduleURL string
}

func NewPartyPoker(deps Deps) *PartyPoker {
	return &PartyPoker{
		base:        newBase("PartyPoker", provider.CategoryOnline, []string{partyPokerRoom}, deps, defaultThrottle),
		scheduleURL: partyPokerScheduleURL,
	}
}

func (p *PartyPoker) FetchTournaments(ctx context.Context, opts provider.FetchOptions) ([]provider.NormalizedTournament, error) {
	return fetchCached(ctx, &p.base, provider.DataTypeTournaments, tournamentCacheTTL, opts,
		source[provider.NormalizedTournament]{name: "scrape", fetch: p.scrape},
	)
}

func (p *PartyPoker) scrape(ctx context.Context) ([]provider.NormalizedTournament, error) {
	now := p.now()
	return scrapeSchedule(ctx, &p.base, p.scheduleURL, partyPokerLayout, func(row scheduleRow) provider.NormalizedTournament {
		return provider.NormalizedTournament{
			PokerRoom:          partyPokerRoom,
			Variant:            parse.Variant(row.name),
			StartTime:          clockStart(now, row.start),
			BuyinAmount:        row.buyin,
			EstimatedPrizePool: parse.CurrencyPtr(row.guarantee),
			Metadata:           map[string]any{"source": "scraping", "name": row.name},
		}
	})
}
