package fetchlog

import (
	"errors"
	"testing"
	"time"

	"github.com/KingBodhi/jungleverse/internal/domain/provider"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
)

func TestLog_DropsOldestWhenFull(t *testing.T) {
	t.Parallel()

	l := New(3, logging.NewNop())
	for i := 0; i < 5; i++ {
		l.LogSuccess("p", provider.DataTypeTournaments, i, time.Millisecond)
	}

	recent := l.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("unexpected entry count: %d", len(recent))
	}
	if got := *recent[0].RecordCount; got != 2 {
		t.Fatalf("oldest retained record count = %d, want 2", got)
	}
	if got := *recent[2].RecordCount; got != 4 {
		t.Fatalf("newest record count = %d, want 4", got)
	}
}

func TestLog_ProviderStats(t *testing.T) {
	t.Parallel()

	l := New(10, logging.NewNop())
	base := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	tick := 0
	l.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	l.LogSuccess("GGpoker", provider.DataTypeTournaments, 12, 100*time.Millisecond)
	l.LogError("ggpoker", provider.DataTypeTournaments, errors.New("HTTP 503"), 300*time.Millisecond)
	l.LogSuccess("PokerStars", provider.DataTypeTournaments, 1, 50*time.Millisecond)

	stats := l.ProviderStats("GGPOKER")
	if stats.TotalFetches != 2 || stats.SuccessCount != 1 || stats.ErrorCount != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.SuccessRate != 0.5 {
		t.Fatalf("success rate = %v, want 0.5", stats.SuccessRate)
	}
	if stats.AvgDuration == nil || *stats.AvgDuration != 200 {
		t.Fatalf("unexpected avg duration: %v", stats.AvgDuration)
	}
	if stats.LastFetch == nil || !stats.LastFetch.Timestamp.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("unexpected last fetch: %+v", stats.LastFetch)
	}
	if stats.LastFetch.Success || stats.LastFetch.DataType != provider.DataTypeTournaments || stats.LastFetch.Error != "HTTP 503" {
		t.Fatalf("last fetch should be the failed entry: %+v", stats.LastFetch)
	}
	if stats.LastError != "HTTP 503" {
		t.Fatalf("unexpected last error: %q", stats.LastError)
	}
	if stats.LastSuccess == nil || !stats.LastSuccess.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected last success: %v", stats.LastSuccess)
	}

	if empty := l.ProviderStats("WSOP"); empty.TotalFetches != 0 || empty.SuccessRate != 0 {
		t.Fatalf("expected zero stats for unknown provider, got %+v", empty)
	}
}

func TestLog_ErrorsAndProviderLogs(t *testing.T) {
	t.Parallel()

	l := New(10, logging.NewNop())
	l.LogError("A", provider.DataTypeCashGames, errors.New("boom"), 0)
	l.LogSuccess("B", provider.DataTypeTournaments, 3, 0)
	l.LogError("B", provider.DataTypeTournaments, nil, 0)

	errs := l.Errors(10)
	if len(errs) != 2 {
		t.Fatalf("unexpected error count: %d", len(errs))
	}
	if errs[1].Error != "unknown error" {
		t.Fatalf("unexpected error text: %q", errs[1].Error)
	}

	if logs := l.ProviderLogs("b", 1); len(logs) != 1 || logs[0].Success {
		t.Fatalf("expected latest B entry to be the failure, got %+v", logs)
	}

	all := l.AllProviderStats()
	if len(all) != 2 || all["A"].ErrorCount != 1 || all["B"].TotalFetches != 2 {
		t.Fatalf("unexpected all stats: %+v", all)
	}

	l.Clear()
	if len(l.Recent(50)) != 0 {
		t.Fatalf("expected empty log after Clear")
	}
}
