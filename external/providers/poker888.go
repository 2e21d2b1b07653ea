package providers

import (
	"context"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

const (
	poker888APIURL      = "https://www.888poker.com/api/tournaments/schedule"
	poker888ScheduleURL = "https://www.888poker.com/poker-tournaments/"
	poker888Room        = "888Poker"
)

var poker888Layout = scheduleLayout{
	rows:      ".tournament-card, .tournament-item, .tourney-row, [data-tournament]",
	name:      ".tournament-name, .tourney-name, .event-name, h3, h4",
	buyin:     ".buy-in, .buyin, .price, .entry-fee",
	guarantee: ".guarantee, .gtd, .prize-pool",
	start:     ".start-time, .time, .when",
}

type Poker888 struct {
	base
	apiURL      string
	scheduleURL string
}

func NewPoker888(deps Deps) *Poker888 {
	return &Poker888{
		base:        newBase("888poker", provider.CategoryOnline, []string{poker888Room}, deps, defaultThrottle),
		apiURL:      poker888APIURL,
		scheduleURL: poker888ScheduleURL,
	}
}

type poker888Tournament struct {
	ID             flexValue `json:"id"`
	TournamentID   flexValue `json:"tournament_id"`
	Name           string    `json:"name"`
	GameType       string    `json:"game_type"`
	Variant        string    `json:"variant"`
	StartTime      flexValue `json:"start_time"`
	StartTimeCamel flexValue `json:"startTime"`
	BuyIn          flexValue `json:"buy_in"`
	Buyin          flexValue `json:"buyin"`
	Fee            flexValue `json:"fee"`
	Rake           flexValue `json:"rake"`
	StartingChips  flexValue `json:"starting_chips"`
	Chips          flexValue `json:"chips"`
	LevelDuration  flexValue `json:"level_duration"`
	BlindLevel     flexValue `json:"blindLevel"`
	Guaranteed     flexValue `json:"guaranteed"`
	Guarantee      flexValue `json:"guarantee"`
}

func (p *Poker888) FetchTournaments(ctx context.Context, opts provider.FetchOptions) ([]provider.NormalizedTournament, error) {
	return fetchCached(ctx, &p.base, provider.DataTypeTournaments, tournamentCacheTTL, opts,
		source[provider.NormalizedTournament]{name: "api", fetch: p.fetchAPI},
		source[provider.NormalizedTournament]{name: "scrape", fetch: p.scrape},
	)
}

func (p *Poker888) fetchAPI(ctx context.Context) ([]provider.NormalizedTournament, error) {
	raw, err := p.deps.Client.Get(ctx, Request{Provider: p.name, URL: p.apiURL, Accept: "application/json"})
	if err != nil {
		return nil, err
	}
	items, err := decode888Tournaments(raw)
	if err != nil {
		return nil, err
	}

	now := p.now()
	out := make([]provider.NormalizedTournament, 0, len(items))
	for _, t := range items {
		start, ok := firstFlex(t.StartTime, t.StartTimeCamel).instant()
		if !ok {
			start = now
		}
		buyin, _ := parse.Currency(firstFlex(t.BuyIn, t.Buyin).String())

		out = append(out, provider.NormalizedTournament{
			PokerRoom:          poker888Room,
			Variant:            poker888Variant(firstNonEmpty(t.GameType, t.Variant)),
			StartTime:          start,
			BuyinAmount:        buyin,
			RakeAmount:         firstFlex(t.Fee, t.Rake).amount(),
			StartingStack:      firstFlex(t.StartingChips, t.Chips).int64Ptr(),
			BlindLevelMinutes:  firstFlex(t.LevelDuration, t.BlindLevel).intPtr(),
			EstimatedPrizePool: firstFlex(t.Guaranteed, t.Guarantee).amount(),
			ExternalID:         firstFlex(t.TournamentID, t.ID).String(),
			Metadata: map[string]any{
				"source": "api",
				"name":   t.Name,
			},
		})
	}
	return out, nil
}

// decode888Tournaments accepts either {"data":{"tournaments":[...]}} or a
// bare array.
func decode888Tournaments(raw []byte) ([]poker888Tournament, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var items []poker888Tournament
		if err := sonic.UnmarshalString(trimmed, &items); err != nil {
			return nil, crerr.Wrapf(ErrParse, "decode 888poker list: %v", err)
		}
		return items, nil
	}

	var envelope struct {
		Data struct {
			Tournaments []poker888Tournament `json:"tournaments"`
		} `json:"data"`
	}
	if err := sonic.UnmarshalString(trimmed, &envelope); err != nil {
		return nil, crerr.Wrapf(ErrParse, "decode 888poker envelope: %v", err)
	}
	return envelope.Data.Tournaments, nil
}

func (p *Poker888) scrape(ctx context.Context) ([]provider.NormalizedTournament, error) {
	now := p.now()
	return scrapeSchedule(ctx, &p.base, p.scheduleURL, poker888Layout, func(row scheduleRow) provider.NormalizedTournament {
		return provider.NormalizedTournament{
			PokerRoom:          poker888Room,
			Variant:            parse.Variant(row.name),
			StartTime:          clockStart(now, row.start),
			BuyinAmount:        row.buyin,
			EstimatedPrizePool: positiveAmount(row.guarantee),
			RecurringRule:      poker888RecurringRule(row.name, row.start),
			Metadata: map[string]any{
				"source":   "scraping",
				"name":     row.name,
				"timeText": row.start,
			},
		}
	})
}

func poker888Variant(text string) provider.Variant {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "plo5"), strings.Contains(lower, "5-card"):
		return provider.VariantPLO5
	case strings.Contains(lower, "plo"), strings.Contains(lower, "omaha"):
		return provider.VariantPLO
	case strings.Contains(lower, "mixed"), strings.Contains(lower, "horse"):
		return provider.VariantMixed
	default:
		return provider.VariantNLHE
	}
}

func poker888RecurringRule(name, timeText string) string {
	combined := name + " " + timeText
	if rule := weeklyRule(combined, parse.AllDays); rule != "" {
		return rule
	}
	lower := strings.ToLower(combined)
	switch {
	case strings.Contains(lower, "daily"):
		return "Daily"
	case strings.Contains(lower, "hourly"):
		return "Hourly"
	default:
		return ""
	}
}
