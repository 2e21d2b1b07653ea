package providers

import (
	"context"
	"strings"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

const (
	pokerStarsAPIURL      = "https://www.pokerstars.com/api/tournaments/"
	pokerStarsScheduleURL = "https://www.pokerstars.com/poker/tournaments/schedule/"
	pokerStarsRoom        = "Pokerstars"
)

var pokerStarsLayout = scheduleLayout{
	rows:      ".tournament-row, .tournament-item, [data-tournament-id]",
	name:      ".tournament-name, .event-name",
	buyin:     ".buy-in, .buyin",
	guarantee: ".guarantee, .gtd",
	start:     ".start-time, .time",
	gameType:  ".game-type, .variant",
}

type PokerStars struct {
	base
	apiURL      string
	scheduleURL string
}

func NewPokerStars(deps Deps) *PokerStars {
	return &PokerStars{
		base:        newBase("PokerStars", provider.CategoryOnline, []string{pokerStarsRoom}, deps, defaultThrottle),
		apiURL:      pokerStarsAPIURL,
		scheduleURL: pokerStarsScheduleURL,
	}
}

type pokerStarsEnvelope struct {
	Tournaments []pokerStarsTournament `json:"tournaments"`
}

type pokerStarsTournament struct {
	ID              flexValue `json:"id"`
	TournamentID    flexValue `json:"tournamentId"`
	Name            string    `json:"name"`
	GameType        string    `json:"gameType"`
	Variant         string    `json:"variant"`
	StartTime       flexValue `json:"startTime"`
	StartTimeSnake  flexValue `json:"start_time"`
	BuyIn           flexValue `json:"buyIn"`
	Buyin           flexValue `json:"buyin"`
	Rake            flexValue `json:"rake"`
	StartingChips   flexValue `json:"startingChips"`
	StartingStack   flexValue `json:"starting_stack"`
	LevelDuration   flexValue `json:"levelDuration"`
	BlindLevel      flexValue `json:"blind_level"`
	Reentry         string    `json:"reentry"`
	Guarantee       flexValue `json:"guarantee"`
	Guaranteed      flexValue `json:"guaranteed"`
	ExpectedPlayers flexValue `json:"expectedPlayers"`
}

func (p *PokerStars) FetchTournaments(ctx context.Context, opts provider.FetchOptions) ([]provider.NormalizedTournament, error) {
	return fetchCached(ctx, &p.base, provider.DataTypeTournaments, tournamentCacheTTL, opts,
		source[provider.NormalizedTournament]{name: "api", fetch: p.fetchAPI},
		source[provider.NormalizedTournament]{name: "scrape", fetch: p.scrape},
	)
}

func (p *PokerStars) fetchAPI(ctx context.Context) ([]provider.NormalizedTournament, error) {
	var payload pokerStarsEnvelope
	if err := p.deps.Client.GetJSON(ctx, Request{Provider: p.name, URL: p.apiURL}, &payload); err != nil {
		return nil, err
	}

	now := p.now()
	out := make([]provider.NormalizedTournament, 0, len(payload.Tournaments))
	for _, t := range payload.Tournaments {
		start, ok := firstFlex(t.StartTime, t.StartTimeSnake).instant()
		if !ok {
			start = now
		}
		buyin := firstFlex(t.BuyIn, t.Buyin).amount()
		if buyin == nil {
			buyin = provider.Int64Ptr(0)
		}
		externalID := firstFlex(t.TournamentID, t.ID).String()

		out = append(out, provider.NormalizedTournament{
			PokerRoom:          pokerStarsRoom,
			Variant:            pokerStarsVariant(firstNonEmpty(t.GameType, t.Variant)),
			StartTime:          start,
			BuyinAmount:        *buyin,
			RakeAmount:         t.Rake.amount(),
			StartingStack:      firstFlex(t.StartingChips, t.StartingStack).int64Ptr(),
			BlindLevelMinutes:  firstFlex(t.LevelDuration, t.BlindLevel).intPtr(),
			ReentryPolicy:      t.Reentry,
			EstimatedPrizePool: firstFlex(t.Guarantee, t.Guaranteed).amount(),
			TypicalFieldSize:   t.ExpectedPlayers.intPtr(),
			ExternalID:         externalID,
			Metadata: map[string]any{
				"source": "api",
				"name":   t.Name,
			},
		})
	}
	return out, nil
}

func (p *PokerStars) scrape(ctx context.Context) ([]provider.NormalizedTournament, error) {
	now := p.now()
	return scrapeSchedule(ctx, &p.base, p.scheduleURL, pokerStarsLayout, func(row scheduleRow) provider.NormalizedTournament {
		variant := parse.Variant(row.name)
		if row.gameType != "" {
			variant = pokerStarsVariant(row.gameType)
		}
		return provider.NormalizedTournament{
			PokerRoom:          pokerStarsRoom,
			Variant:            variant,
			StartTime:          clockStart(now, row.start),
			BuyinAmount:        row.buyin,
			EstimatedPrizePool: positiveAmount(row.guarantee),
			RecurringRule:      pokerStarsRecurringRule(row.name),
			Metadata: map[string]any{
				"source":        "scraping",
				"name":          row.name,
				"timeText":      row.start,
				"guaranteeText": row.guarantee,
			},
		}
	})
}

func pokerStarsVariant(text string) provider.Variant {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "plo5"), strings.Contains(lower, "5-card plo"):
		return provider.VariantPLO5
	case strings.Contains(lower, "plo"), strings.Contains(lower, "omaha"):
		return provider.VariantPLO
	case strings.Contains(lower, "mixed"), strings.Contains(lower, "horse"), strings.Contains(lower, "8-game"):
		return provider.VariantMixed
	default:
		return provider.VariantNLHE
	}
}

func pokerStarsRecurringRule(name string) string {
	if strings.Contains(strings.ToLower(name), "daily") {
		return "Daily"
	}
	return weeklyRule(name, parse.AllDays)
}

// positiveAmount parses an optional amount, treating zero as absent.
func positiveAmount(text string) *int64 {
	v, ok := parse.Currency(text)
	if !ok || v <= 0 {
		return nil
	}
	return &v
}
