package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/KingBodhi/jungleverse/internal/domain/cashgame"
	"github.com/KingBodhi/jungleverse/internal/domain/pokerroom"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
	"github.com/KingBodhi/jungleverse/internal/domain/tournament"
	"github.com/KingBodhi/jungleverse/internal/infrastructure/repository/memory"
	cashgamemock "github.com/KingBodhi/jungleverse/internal/mocks/domain/cashgame"
	pokerroommock "github.com/KingBodhi/jungleverse/internal/mocks/domain/pokerroom"
	tournamentmock "github.com/KingBodhi/jungleverse/internal/mocks/domain/tournament"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type ingestionFixture struct {
	service     *IngestionService
	rooms       *memory.PokerRoomRepository
	tournaments *memory.TournamentRepository
	cashGames   *memory.CashGameRepository
}

func newMemoryIngestion(t *testing.T) ingestionFixture {
	t.Helper()

	rooms := memory.NewPokerRoomRepository(memory.SeedPokerRooms())
	tournaments := memory.NewTournamentRepository()
	cashGames := memory.NewCashGameRepository()
	service := NewIngestionService(rooms, tournaments, cashGames, &sequenceIDGenerator{prefix: "row"}, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }

	return ingestionFixture{
		service:     service,
		rooms:       rooms,
		tournaments: tournaments,
		cashGames:   cashGames,
	}
}

func sampleTournaments() []provider.NormalizedTournament {
	start := time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)
	return []provider.NormalizedTournament{
		{
			PokerRoom:   "Pokerstars",
			Variant:     provider.VariantNLHE,
			StartTime:   start,
			BuyinAmount: 109,
			ExternalID:  "ps-1",
		},
		{
			PokerRoom:          "Pokerstars",
			Variant:            provider.VariantPLO,
			StartTime:          start.Add(time.Hour),
			BuyinAmount:        55,
			EstimatedPrizePool: provider.Int64Ptr(25000),
		},
	}
}

func TestIngestRun_IngestTournaments_IsIdempotent(t *testing.T) {
	t.Parallel()

	fx := newMemoryIngestion(t)
	ctx := t.Context()

	first := fx.service.NewRun().IngestTournaments(ctx, sampleTournaments())
	if first.Created != 2 || first.Skipped != 0 {
		t.Fatalf("unexpected first run stats: %+v", first)
	}

	second := fx.service.NewRun().IngestTournaments(ctx, sampleTournaments())
	if second.Created != 0 || second.Skipped != 2 {
		t.Fatalf("unexpected second run stats: %+v", second)
	}

	stored, err := fx.tournaments.ListByRoom(ctx, memory.RoomID("Pokerstars"))
	if err != nil {
		t.Fatalf("list tournaments: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("unexpected stored tournament count: got=%d want=2", len(stored))
	}
	if stored[1].EstimatedPrizePool == nil || *stored[1].EstimatedPrizePool != 25000 {
		t.Fatalf("optional fields not carried over: %+v", stored[1])
	}
}

func TestIngestRun_IngestCashGames_UpdatesBuyinRangeInPlace(t *testing.T) {
	t.Parallel()

	fx := newMemoryIngestion(t)
	ctx := t.Context()
	game := provider.NormalizedCashGame{
		PokerRoom:  "bestbet Jacksonville",
		Variant:    provider.VariantNLHE,
		SmallBlind: 1,
		BigBlind:   2,
		MinBuyin:   100,
		MaxBuyin:   400,
	}

	first := fx.service.NewRun().IngestCashGames(ctx, []provider.NormalizedCashGame{game})
	if first.Created != 1 {
		t.Fatalf("unexpected first run stats: %+v", first)
	}

	game.MaxBuyin = 500
	game.Notes = "Tables: 4 · Waiting: 2"
	second := fx.service.NewRun().IngestCashGames(ctx, []provider.NormalizedCashGame{game})
	if second.Updated != 1 || second.Created != 0 {
		t.Fatalf("unexpected second run stats: %+v", second)
	}

	stored, err := fx.cashGames.ListByRoom(ctx, memory.RoomID("bestbet Jacksonville"))
	if err != nil {
		t.Fatalf("list cash games: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("unexpected stored cash game count: got=%d want=1", len(stored))
	}
	if stored[0].MaxBuyin != 500 || stored[0].Notes != game.Notes {
		t.Fatalf("cash game not updated in place: %+v", stored[0])
	}
}

func TestIngestRun_InvalidCashGameCountedAsFailed(t *testing.T) {
	t.Parallel()

	fx := newMemoryIngestion(t)
	stats := fx.service.NewRun().IngestCashGames(t.Context(), []provider.NormalizedCashGame{{
		PokerRoom:  "bestbet Orange Park",
		Variant:    provider.VariantNLHE,
		SmallBlind: 2,
		BigBlind:   5,
		MinBuyin:   500,
		MaxBuyin:   100,
	}})
	if stats.Failed != 1 || stats.Created != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestIngestRun_InvalidBuyinsKeepStoredCashGame(t *testing.T) {
	t.Parallel()

	fx := newMemoryIngestion(t)
	ctx := t.Context()
	game := provider.NormalizedCashGame{
		PokerRoom:  "bestbet Jacksonville",
		Variant:    provider.VariantNLHE,
		SmallBlind: 1,
		BigBlind:   2,
		MinBuyin:   100,
		MaxBuyin:   400,
	}
	if first := fx.service.NewRun().IngestCashGames(ctx, []provider.NormalizedCashGame{game}); first.Created != 1 {
		t.Fatalf("unexpected first run stats: %+v", first)
	}

	game.MinBuyin = 600
	game.MaxBuyin = 500
	second := fx.service.NewRun().IngestCashGames(ctx, []provider.NormalizedCashGame{game})
	if second.Failed != 1 || second.Updated != 0 {
		t.Fatalf("unexpected second run stats: %+v", second)
	}

	stored, err := fx.cashGames.ListByRoom(ctx, memory.RoomID("bestbet Jacksonville"))
	if err != nil {
		t.Fatalf("list cash games: %v", err)
	}
	if len(stored) != 1 || stored[0].MinBuyin != 100 || stored[0].MaxBuyin != 400 {
		t.Fatalf("stored buy-in range changed: %+v", stored)
	}
}

func TestIngestRun_SharedRunStoresSameCashGameOnce(t *testing.T) {
	t.Parallel()

	fx := newMemoryIngestion(t)
	ctx := t.Context()
	run := fx.service.NewRun()
	games := []provider.NormalizedCashGame{
		{PokerRoom: "bestbet St. Augustine", Variant: provider.VariantNLHE, SmallBlind: 1, BigBlind: 2, MinBuyin: 100, MaxBuyin: 400},
		{PokerRoom: "bestbet St. Augustine", Variant: provider.VariantNLHE, SmallBlind: 2, BigBlind: 5, MinBuyin: 250, MaxBuyin: 1000},
	}

	const workers = 8
	results := make(chan IngestStats, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- run.IngestCashGames(ctx, games)
		}()
	}
	wg.Wait()
	close(results)

	var total IngestStats
	for stats := range results {
		total = total.Add(stats)
	}
	if total.Created != 2 || total.Updated != 2*(workers-1) || total.Failed != 0 {
		t.Fatalf("unexpected totals: %+v", total)
	}

	stored, err := fx.cashGames.ListByRoom(ctx, memory.RoomID("bestbet St. Augustine"))
	if err != nil {
		t.Fatalf("list cash games: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("unexpected stored cash game count: got=%d want=2", len(stored))
	}
}

func TestIngestRun_DuplicateOnCreateIsSkipped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	roomRepo := pokerroommock.NewRepository(t)
	tournamentRepo := tournamentmock.NewRepository(t)
	cashGameRepo := cashgamemock.NewRepository(t)

	roomRepo.
		On("FindByName", mock.Anything, "bestbet St. Augustine").
		Return(pokerroom.Room{ID: "room-sta"}, true, nil).
		Once()
	cashGameRepo.
		On("FindExisting", mock.Anything, "room-sta", int64(1), int64(2)).
		Return(cashgame.CashGame{}, false, nil).
		Once()
	cashGameRepo.
		On("Create", mock.Anything, mock.AnythingOfType("cashgame.CashGame")).
		Return(fmt.Errorf("insert cash game: %w", cashgame.ErrDuplicate)).
		Once()

	service := NewIngestionService(roomRepo, tournamentRepo, cashGameRepo, &sequenceIDGenerator{prefix: "row"}, logging.NewNop())
	stats := service.NewRun().IngestCashGames(ctx, []provider.NormalizedCashGame{{
		PokerRoom:  "bestbet St. Augustine",
		Variant:    provider.VariantNLHE,
		SmallBlind: 1,
		BigBlind:   2,
		MinBuyin:   100,
		MaxBuyin:   400,
	}})
	if stats.Skipped != 1 || stats.Failed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestIngestRun_UnresolvedRoomIsLookedUpOnceAndSkipped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	roomRepo := pokerroommock.NewRepository(t)
	tournamentRepo := tournamentmock.NewRepository(t)
	cashGameRepo := cashgamemock.NewRepository(t)

	roomRepo.
		On("FindByName", mock.Anything, "Unknown Casino").
		Return(pokerroom.Room{}, false, nil).
		Once()

	service := NewIngestionService(roomRepo, tournamentRepo, cashGameRepo, &sequenceIDGenerator{prefix: "row"}, logging.NewNop())
	items := sampleTournaments()
	for idx := range items {
		items[idx].PokerRoom = "Unknown Casino"
	}

	stats := service.NewRun().IngestTournaments(ctx, items)
	if stats.Unresolved != 2 || stats.Created != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestIngestRun_RepositoryErrorDoesNotStopBatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	roomRepo := pokerroommock.NewRepository(t)
	tournamentRepo := tournamentmock.NewRepository(t)
	cashGameRepo := cashgamemock.NewRepository(t)
	items := sampleTournaments()

	roomRepo.
		On("FindByName", mock.Anything, "Pokerstars").
		Return(pokerroom.Room{ID: "room-pokerstars", Name: "Pokerstars"}, true, nil).
		Once()
	tournamentRepo.
		On("FindExisting", mock.Anything, "room-pokerstars", int64(109), items[0].StartTime).
		Return(tournament.Tournament{}, false, errors.New("connection reset")).
		Once()
	tournamentRepo.
		On("FindExisting", mock.Anything, "room-pokerstars", int64(55), items[1].StartTime).
		Return(tournament.Tournament{}, false, nil).
		Once()
	tournamentRepo.
		On("Create", mock.Anything, mock.MatchedBy(func(v tournament.Tournament) bool {
			return v.ID == "row-1" && v.RoomID == "room-pokerstars" && v.Variant == "PLO" && v.BuyinAmount == 55
		})).
		Return(nil).
		Once()

	service := NewIngestionService(roomRepo, tournamentRepo, cashGameRepo, &sequenceIDGenerator{prefix: "row"}, logging.NewNop())
	stats := service.NewRun().IngestTournaments(ctx, items)
	if stats.Failed != 1 || stats.Created != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestIngestRun_RoomLookupErrorIsNotMemoized(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	roomRepo := pokerroommock.NewRepository(t)
	tournamentRepo := tournamentmock.NewRepository(t)
	cashGameRepo := cashgamemock.NewRepository(t)

	roomRepo.
		On("FindByName", mock.Anything, "bestbet Jacksonville").
		Return(pokerroom.Room{}, false, errors.New("db down")).
		Once()
	roomRepo.
		On("FindByName", mock.Anything, "bestbet Jacksonville").
		Return(pokerroom.Room{ID: "room-jax"}, true, nil).
		Once()
	cashGameRepo.
		On("FindExisting", mock.Anything, "room-jax", int64(1), int64(3)).
		Return(cashgameFixture("cg-1"), true, nil).
		Once()
	cashGameRepo.
		On("UpdateBuyins", mock.Anything, "cg-1", int64(100), int64(300), "").
		Return(nil).
		Once()

	service := NewIngestionService(roomRepo, tournamentRepo, cashGameRepo, &sequenceIDGenerator{prefix: "row"}, logging.NewNop())
	game := provider.NormalizedCashGame{
		PokerRoom:  "bestbet Jacksonville",
		Variant:    provider.VariantNLHE,
		SmallBlind: 1,
		BigBlind:   3,
		MinBuyin:   100,
		MaxBuyin:   300,
	}

	stats := service.NewRun().IngestCashGames(ctx, []provider.NormalizedCashGame{game, game})
	if stats.Failed != 1 || stats.Updated != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestIngestStats_Add(t *testing.T) {
	t.Parallel()

	got := IngestStats{Created: 1, Skipped: 2}.Add(IngestStats{Created: 3, Updated: 1, Failed: 1, Unresolved: 4})
	want := IngestStats{Created: 4, Updated: 1, Skipped: 2, Unresolved: 4, Failed: 1}
	if got != want {
		t.Fatalf("unexpected sum: got=%+v want=%+v", got, want)
	}
}

func cashgameFixture(id string) cashgame.CashGame {
	return cashgame.CashGame{
		ID:         id,
		RoomID:     "room-jax",
		Variant:    "NLHE",
		SmallBlind: 1,
		BigBlind:   3,
		MinBuyin:   100,
		MaxBuyin:   200,
	}
}
