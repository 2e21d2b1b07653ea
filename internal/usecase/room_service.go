package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/KingBodhi/jungleverse/internal/domain/pokerroom"
	"github.com/KingBodhi/jungleverse/internal/platform/id"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
)

type SeedRoomsResult struct {
	Created  []string `json:"created"`
	Existing []string `json:"existing"`
}

type RoomService struct {
	roomRepo pokerroom.Repository
	idGen    id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewRoomService(roomRepo pokerroom.Repository, idGen id.Generator, logger *logging.Logger) *RoomService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}

	return &RoomService{
		roomRepo: roomRepo,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *RoomService) List(ctx context.Context) ([]pokerroom.Room, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoomService.List")
	defer span.End()

	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list poker rooms: %w", err)
	}
	return rooms, nil
}

// SeedKnownRooms inserts every known room that is not stored yet. Rooms that
// already exist are left untouched, so repeated runs are no-ops.
func (s *RoomService) SeedKnownRooms(ctx context.Context) (SeedRoomsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoomService.SeedKnownRooms")
	defer span.End()

	result := SeedRoomsResult{
		Created:  make([]string, 0),
		Existing: make([]string, 0),
	}
	for _, room := range pokerroom.KnownRooms() {
		_, exists, err := s.roomRepo.FindByName(ctx, room.Name)
		if err != nil {
			return result, fmt.Errorf("find poker room %q: %w", room.Name, err)
		}
		if exists {
			result.Existing = append(result.Existing, room.Name)
			continue
		}

		roomID, err := s.idGen.NewID()
		if err != nil {
			return result, fmt.Errorf("generate poker room id: %w", err)
		}
		now := s.now().UTC()
		room.ID = roomID
		room.CreatedAt = now
		room.UpdatedAt = now
		if _, err := s.roomRepo.Upsert(ctx, room); err != nil {
			return result, fmt.Errorf("insert poker room %q: %w", room.Name, err)
		}
		result.Created = append(result.Created, room.Name)
		s.logger.InfoContext(ctx, "poker room seeded", "room", room.Name, "category", room.Category)
	}

	return result, nil
}
