package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
	"github.com/KingBodhi/jungleverse/internal/platform/cache"
)

const (
	pokerAtlasBaseURL  = "https://www.pokeratlas.com/api"
	pokerAtlasThrottle = 2 * time.Second
	// Without a listed buy-in range, assume 50 to 200 big blinds.
	defaultMinBuyinBB = 50
	defaultMaxBuyinBB = 200
)

// PokerAtlasRoom pairs a poker room name with its live cash game feed key.
type PokerAtlasRoom struct {
	Name string
	Key  string
}

var DefaultPokerAtlasRooms = []PokerAtlasRoom{
	{Name: "bestbet St. Augustine", Key: "b44fbb67-283c-4c92-9617-458bb82cf0e5"},
}

type PokerAtlas struct {
	base
	baseURL string
	rooms   []PokerAtlasRoom
}

func NewPokerAtlas(deps Deps, rooms []PokerAtlasRoom) *PokerAtlas {
	if len(rooms) == 0 {
		rooms = DefaultPokerAtlasRooms
	}
	names := make([]string, 0, len(rooms))
	for _, room := range rooms {
		names = append(names, room.Name)
	}
	return &PokerAtlas{
		base:    newBase("PokerAtlas", provider.CategoryIRL, names, deps, pokerAtlasThrottle),
		baseURL: pokerAtlasBaseURL,
		rooms:   rooms,
	}
}

// FetchCashGames reads every configured room's feed. Rooms are cached
// individually and only cache misses are throttled. A failing room is skipped
// unless all rooms fail.
func (p *PokerAtlas) FetchCashGames(ctx context.Context, opts provider.FetchOptions) ([]provider.NormalizedCashGame, error) {
	out := make([]provider.NormalizedCashGame, 0)
	var lastErr error
	failed := 0

	for _, room := range p.rooms {
		key := cache.Key(p.name, string(provider.DataTypeCashGames), time.Time{}) + ":" + room.Key
		if !opts.SkipCache && p.deps.Cache != nil {
			if cached, ok := p.deps.Cache.Get(ctx, key); ok {
				if games, ok := cached.([]provider.NormalizedCashGame); ok {
					out = append(out, games...)
					continue
				}
			}
		}

		if err := p.wait(ctx, p.name); err != nil {
			return nil, err
		}

		rows, err := fetchPokerAtlasFeed(ctx, &p.base, p.baseURL, room.Key)
		if err != nil {
			failed++
			lastErr = err
			p.logger.WarnContext(ctx, "pokeratlas room feed failed", "room", room.Name, "error", err)
			continue
		}

		games := pokerAtlasCashGames(ctx, &p.base, rows, room.Name, false)
		if len(games) > 0 && !opts.SkipCache && p.deps.Cache != nil {
			p.deps.Cache.SetWithTTL(ctx, key, games, liveCashGameTTL)
		}
		out = append(out, games...)
	}

	if failed > 0 && failed == len(p.rooms) {
		return nil, lastErr
	}
	return out, nil
}

type pokerAtlasGame struct {
	GameName string  `json:"game_name"`
	Tables   int     `json:"tables"`
	Waiting  int     `json:"waiting"`
	Notes1   *string `json:"notes1"`
	Active   *bool   `json:"active"`
}

func fetchPokerAtlasFeed(ctx context.Context, b *base, baseURL, key string) ([]pokerAtlasGame, error) {
	endpoint := strings.TrimRight(baseURL, "/") + "/live_cash_games?key=" + url.QueryEscape(key)
	var rows []pokerAtlasGame
	if err := b.deps.Client.GetJSON(ctx, Request{Provider: b.name, URL: endpoint}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// pokerAtlasCashGames keeps running games only. In strict mode a game must
// be explicitly active and list its buy-in range.
func pokerAtlasCashGames(ctx context.Context, b *base, rows []pokerAtlasGame, room string, strict bool) []provider.NormalizedCashGame {
	out := make([]provider.NormalizedCashGame, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		game, err := pokerAtlasCashGame(row, room, strict)
		if err != nil {
			skipped++
			if skipped <= maxLoggedSkipReason {
				b.logger.DebugContext(ctx, "skipped provider row", "reason", err)
			}
			continue
		}
		out = append(out, game)
	}
	return out
}

func pokerAtlasCashGame(row pokerAtlasGame, room string, strict bool) (provider.NormalizedCashGame, error) {
	active := row.Active == nil || *row.Active
	if strict {
		active = row.Active != nil && *row.Active
	}
	if !active || row.Tables <= 0 {
		return provider.NormalizedCashGame{}, crerr.Wrapf(errRowSkipped, "%q is not running", row.GameName)
	}

	smallBlind, bigBlind, err := parse.Stakes(row.GameName)
	if err != nil {
		return provider.NormalizedCashGame{}, err
	}

	notes := ""
	if row.Notes1 != nil {
		notes = *row.Notes1
	}
	minBuyin, maxBuyin, ok := parse.BuyinRange(notes)
	if !ok {
		if strict {
			return provider.NormalizedCashGame{}, crerr.Wrapf(errRowSkipped, "%q has no buy-in range", row.GameName)
		}
		minBuyin, maxBuyin = bigBlind*defaultMinBuyinBB, bigBlind*defaultMaxBuyinBB
	}

	return provider.NormalizedCashGame{
		PokerRoom:  room,
		Variant:    parse.Variant(row.GameName),
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		MinBuyin:   minBuyin,
		MaxBuyin:   maxBuyin,
		Notes:      fmt.Sprintf("Tables: %d · Waiting: %d", row.Tables, row.Waiting),
		Metadata:   map[string]any{"source": "pokeratlas", "gameName": row.GameName},
	}, nil
}
