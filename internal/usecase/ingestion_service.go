package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/KingBodhi/jungleverse/internal/domain/cashgame"
	"github.com/KingBodhi/jungleverse/internal/domain/pokerroom"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
	"github.com/KingBodhi/jungleverse/internal/domain/tournament"
	"github.com/KingBodhi/jungleverse/internal/platform/id"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
)

// IngestStats counts what happened to each normalized record of a batch.
type IngestStats struct {
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Skipped    int `json:"skipped"`
	Unresolved int `json:"unresolved"`
	Failed     int `json:"failed"`
}

func (s IngestStats) Add(other IngestStats) IngestStats {
	return IngestStats{
		Created:    s.Created + other.Created,
		Updated:    s.Updated + other.Updated,
		Skipped:    s.Skipped + other.Skipped,
		Unresolved: s.Unresolved + other.Unresolved,
		Failed:     s.Failed + other.Failed,
	}
}

type IngestionService struct {
	roomRepo       pokerroom.Repository
	tournamentRepo tournament.Repository
	cashGameRepo   cashgame.Repository
	idGen          id.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewIngestionService(
	roomRepo pokerroom.Repository,
	tournamentRepo tournament.Repository,
	cashGameRepo cashgame.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}

	return &IngestionService{
		roomRepo:       roomRepo,
		tournamentRepo: tournamentRepo,
		cashGameRepo:   cashGameRepo,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

// IngestRun memoizes room lookups for the lifetime of one fetch cycle. It is
// safe for concurrent use by several connectors: the lookup and write of one
// dedup key are serialized, so two connectors reporting the same game store
// it once.
type IngestRun struct {
	service *IngestionService

	mu    sync.Mutex
	rooms map[string]roomLookup
	keys  map[string]*sync.Mutex
}

type roomLookup struct {
	id    string
	found bool
}

type ingestOutcome int

const (
	outcomeCreated ingestOutcome = iota
	outcomeUpdated
	outcomeSkipped
	outcomeUnresolved
	outcomeFailed
)

func (s *IngestStats) record(outcome ingestOutcome) {
	switch outcome {
	case outcomeCreated:
		s.Created++
	case outcomeUpdated:
		s.Updated++
	case outcomeSkipped:
		s.Skipped++
	case outcomeUnresolved:
		s.Unresolved++
	default:
		s.Failed++
	}
}

func (s *IngestionService) NewRun() *IngestRun {
	return &IngestRun{
		service: s,
		rooms:   make(map[string]roomLookup),
		keys:    make(map[string]*sync.Mutex),
	}
}

func (r *IngestRun) IngestTournaments(ctx context.Context, items []provider.NormalizedTournament) IngestStats {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestTournaments")
	defer span.End()

	var stats IngestStats
	for _, item := range items {
		stats.record(r.ingestTournament(ctx, item))
	}
	return stats
}

func (r *IngestRun) ingestTournament(ctx context.Context, item provider.NormalizedTournament) ingestOutcome {
	roomID, err := r.resolveRoom(ctx, item.PokerRoom)
	if errors.Is(err, ErrRoomUnresolved) {
		return outcomeUnresolved
	}
	if err != nil {
		r.service.logger.ErrorContext(ctx, "resolve poker room failed", "room", item.PokerRoom, "error", err)
		return outcomeFailed
	}

	startTime := item.StartTime.UTC()
	unlock := r.lockKey(fmt.Sprintf("tournament:%s:%d:%d", roomID, item.BuyinAmount, startTime.UnixNano()))
	defer unlock()

	_, exists, err := r.service.tournamentRepo.FindExisting(ctx, roomID, item.BuyinAmount, startTime)
	if err != nil {
		r.service.logger.ErrorContext(ctx, "lookup tournament failed",
			"room", item.PokerRoom,
			"buyin", item.BuyinAmount,
			"start_time", startTime,
			"error", err,
		)
		return outcomeFailed
	}
	if exists {
		return outcomeSkipped
	}

	created, err := r.buildTournament(roomID, item)
	if err == nil {
		err = r.service.tournamentRepo.Create(ctx, created)
	}
	if errors.Is(err, tournament.ErrDuplicate) {
		// stored by another process between lookup and insert
		return outcomeSkipped
	}
	if err != nil {
		r.service.logger.ErrorContext(ctx, "create tournament failed",
			"room", item.PokerRoom,
			"buyin", item.BuyinAmount,
			"start_time", startTime,
			"error", err,
		)
		return outcomeFailed
	}
	return outcomeCreated
}

func (r *IngestRun) IngestCashGames(ctx context.Context, items []provider.NormalizedCashGame) IngestStats {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestCashGames")
	defer span.End()

	var stats IngestStats
	for _, item := range items {
		stats.record(r.ingestCashGame(ctx, item))
	}
	return stats
}

func (r *IngestRun) ingestCashGame(ctx context.Context, item provider.NormalizedCashGame) ingestOutcome {
	roomID, err := r.resolveRoom(ctx, item.PokerRoom)
	if errors.Is(err, ErrRoomUnresolved) {
		return outcomeUnresolved
	}
	if err != nil {
		r.service.logger.ErrorContext(ctx, "resolve poker room failed", "room", item.PokerRoom, "error", err)
		return outcomeFailed
	}

	stakes := stakesLabel(item.SmallBlind, item.BigBlind)
	unlock := r.lockKey("cash_game:" + roomID + ":" + stakes)
	defer unlock()

	existing, exists, err := r.service.cashGameRepo.FindExisting(ctx, roomID, item.SmallBlind, item.BigBlind)
	if err != nil {
		r.service.logger.ErrorContext(ctx, "lookup cash game failed",
			"room", item.PokerRoom,
			"stakes", stakes,
			"error", err,
		)
		return outcomeFailed
	}

	if exists {
		if err := cashgame.ValidateBuyinRange(item.MinBuyin, item.MaxBuyin); err != nil {
			r.service.logger.WarnContext(ctx, "invalid cash game buy-ins, keeping stored range",
				"room", item.PokerRoom,
				"cash_game_id", existing.ID,
				"error", err,
			)
			return outcomeFailed
		}
		if err := r.service.cashGameRepo.UpdateBuyins(ctx, existing.ID, item.MinBuyin, item.MaxBuyin, item.Notes); err != nil {
			r.service.logger.ErrorContext(ctx, "update cash game failed",
				"room", item.PokerRoom,
				"cash_game_id", existing.ID,
				"error", err,
			)
			return outcomeFailed
		}
		return outcomeUpdated
	}

	created, err := r.buildCashGame(roomID, item)
	if err == nil {
		err = r.service.cashGameRepo.Create(ctx, created)
	}
	if errors.Is(err, cashgame.ErrDuplicate) {
		return outcomeSkipped
	}
	if err != nil {
		r.service.logger.ErrorContext(ctx, "create cash game failed",
			"room", item.PokerRoom,
			"stakes", stakes,
			"error", err,
		)
		return outcomeFailed
	}
	return outcomeCreated
}

// lockKey locks the mutex for one dedup key and returns its unlock.
func (r *IngestRun) lockKey(key string) func() {
	r.mu.Lock()
	m, ok := r.keys[key]
	if !ok {
		m = &sync.Mutex{}
		r.keys[key] = m
	}
	r.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (r *IngestRun) resolveRoom(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty room name", ErrRoomUnresolved)
	}

	r.mu.Lock()
	cached, ok := r.rooms[name]
	r.mu.Unlock()
	if ok {
		if !cached.found {
			return "", fmt.Errorf("%w: %s", ErrRoomUnresolved, name)
		}
		return cached.id, nil
	}

	room, found, err := r.service.roomRepo.FindByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("find poker room %q: %w", name, err)
	}

	r.mu.Lock()
	r.rooms[name] = roomLookup{id: room.ID, found: found}
	r.mu.Unlock()

	if !found {
		r.service.logger.WarnContext(ctx, "poker room not found, skipping its records", "room", name)
		return "", fmt.Errorf("%w: %s", ErrRoomUnresolved, name)
	}

	return room.ID, nil
}

func (r *IngestRun) buildTournament(roomID string, item provider.NormalizedTournament) (tournament.Tournament, error) {
	rowID, err := r.service.idGen.NewID()
	if err != nil {
		return tournament.Tournament{}, err
	}

	now := r.service.now().UTC()
	out := tournament.Tournament{
		ID:                 rowID,
		RoomID:             roomID,
		Variant:            string(item.Variant),
		StartTime:          item.StartTime.UTC(),
		BuyinAmount:        item.BuyinAmount,
		RakeAmount:         item.RakeAmount,
		StartingStack:      item.StartingStack,
		BlindLevelMinutes:  item.BlindLevelMinutes,
		ReentryPolicy:      item.ReentryPolicy,
		BountyAmount:       item.BountyAmount,
		RecurringRule:      item.RecurringRule,
		EstimatedPrizePool: item.EstimatedPrizePool,
		TypicalFieldSize:   item.TypicalFieldSize,
		ExternalID:         item.ExternalID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := out.Validate(); err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return out, nil
}

func (r *IngestRun) buildCashGame(roomID string, item provider.NormalizedCashGame) (cashgame.CashGame, error) {
	rowID, err := r.service.idGen.NewID()
	if err != nil {
		return cashgame.CashGame{}, err
	}

	now := r.service.now().UTC()
	out := cashgame.CashGame{
		ID:              rowID,
		RoomID:          roomID,
		Variant:         string(item.Variant),
		SmallBlind:      item.SmallBlind,
		BigBlind:        item.BigBlind,
		MinBuyin:        item.MinBuyin,
		MaxBuyin:        item.MaxBuyin,
		UsualDaysOfWeek: append([]string(nil), item.UsualDaysOfWeek...),
		Notes:           item.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := out.Validate(); err != nil {
		return cashgame.CashGame{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return out, nil
}

func stakesLabel(smallBlind, bigBlind int64) string {
	return fmt.Sprintf("%d/%d", smallBlind, bigBlind)
}
