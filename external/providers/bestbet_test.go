package providers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

func TestBestbet_FetchTournamentsConvertsEasternTime(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			t.Errorf("missing ajax header")
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/jax"):
			writeBody(w, "text/html", `
<tr><td>July 10, 2025</td><td>12:00pm</td><td>Daily Deepstack</td><td>NLH</td><td>$120</td></tr>
<tr><td>December 10, 2025</td><td>7:05 PM</td><td>Omaha Night</td><td>PLO</td><td>$80</td></tr>
<tr><td>Date</td><td>Time</td><td>Event</td></tr>`)
		case strings.HasSuffix(r.URL.Path, "/op"):
			w.WriteHeader(http.StatusInternalServerError)
		default:
			writeBody(w, "text/html", `<tr><td>Someday</td><td>12:00pm</td><td>Bad Date</td><td>NLH</td><td>$50</td></tr>`)
		}
	})

	bb := NewBestbet(newTestDeps())
	bb.dailyURL = srv.URL + "/pull/daily-tournaments"

	got, err := bb.FetchTournaments(context.Background(), provider.FetchOptions{})
	if err != nil {
		t.Fatalf("fetch tournaments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows from jax, got %d: %+v", len(got), got)
	}

	summer := got[0]
	if summer.PokerRoom != "bestbet Jacksonville" || summer.BuyinAmount != 120 {
		t.Fatalf("unexpected summer row: %+v", summer)
	}
	if want := time.Date(2025, 7, 10, 16, 0, 0, 0, time.UTC); !summer.StartTime.Equal(want) {
		t.Fatalf("summer start = %s want %s", summer.StartTime, want)
	}
	if summer.RecurringRule != "Daily Deepstack" {
		t.Fatalf("unexpected rule %q", summer.RecurringRule)
	}

	winter := got[1]
	if winter.Variant != provider.VariantPLO {
		t.Fatalf("unexpected variant %s", winter.Variant)
	}
	if want := time.Date(2025, 12, 11, 0, 5, 0, 0, time.UTC); !winter.StartTime.Equal(want) {
		t.Fatalf("winter start = %s want %s", winter.StartTime, want)
	}
}

func TestBestbet_FetchCashGamesRequiresActiveAndBuyins(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != bestbetStAugustineKey {
			t.Errorf("unexpected feed key %q", r.URL.Query().Get("key"))
		}
		writeBody(w, "application/json", `[
			{"game_name":"$1/$2 NL Hold'em","tables":3,"waiting":4,"notes1":"$100-$300 buy-in","active":true},
			{"game_name":"$2/$5 NL Hold'em","tables":1,"waiting":0,"notes1":null,"active":true},
			{"game_name":"$1/$3 PLO","tables":2,"waiting":1,"notes1":"$200-$500"},
			{"game_name":"$5/$10 NL","tables":0,"waiting":6,"notes1":"$500-$2,000","active":true}
		]`)
	})

	bb := NewBestbet(newTestDeps())
	bb.pokerAtlasURL = srv.URL

	got, err := bb.FetchCashGames(context.Background(), provider.FetchOptions{})
	if err != nil {
		t.Fatalf("fetch cash games: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected a single game, got %d: %+v", len(got), got)
	}
	game := got[0]
	if game.PokerRoom != "bestbet St. Augustine" || game.SmallBlind != 1 || game.BigBlind != 2 {
		t.Fatalf("unexpected game: %+v", game)
	}
	if game.MinBuyin != 100 || game.MaxBuyin != 300 {
		t.Fatalf("unexpected buy-ins %d-%d", game.MinBuyin, game.MaxBuyin)
	}
	if game.Notes != "Tables: 3 · Waiting: 4" {
		t.Fatalf("unexpected notes %q", game.Notes)
	}
}
