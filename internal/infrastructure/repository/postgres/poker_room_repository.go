package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KingBodhi/jungleverse/internal/domain/pokerroom"
	qb "github.com/KingBodhi/jungleverse/internal/platform/querybuilder"
)

const pokerRoomUpsertSuffix = `ON CONFLICT (name) DO UPDATE SET
	brand = EXCLUDED.brand,
	category = EXCLUDED.category,
	city = EXCLUDED.city,
	state = EXCLUDED.state,
	country = EXCLUDED.country,
	timezone = EXCLUDED.timezone,
	website = EXCLUDED.website,
	updated_at = EXCLUDED.updated_at
RETURNING *`

type PokerRoomRepository struct {
	db *sqlx.DB
}

func NewPokerRoomRepository(db *sqlx.DB) *PokerRoomRepository {
	return &PokerRoomRepository{db: db}
}

func (r *PokerRoomRepository) FindByName(ctx context.Context, name string) (pokerroom.Room, bool, error) {
	query, args, err := qb.Select("*").From("poker_rooms").
		Where(qb.Eq("name", name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return pokerroom.Room{}, false, fmt.Errorf("build select poker room by name query: %w", err)
	}

	var row pokerRoomTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pokerroom.Room{}, false, nil
		}
		return pokerroom.Room{}, false, fmt.Errorf("select poker room by name: %w", err)
	}

	return pokerRoomFromRow(row), true, nil
}

func (r *PokerRoomRepository) List(ctx context.Context) ([]pokerroom.Room, error) {
	query, args, err := qb.Select("*").From("poker_rooms").
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select poker rooms query: %w", err)
	}

	var rows []pokerRoomTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select poker rooms: %w", err)
	}

	out := make([]pokerroom.Room, 0, len(rows))
	for _, row := range rows {
		out = append(out, pokerRoomFromRow(row))
	}
	return out, nil
}

// Upsert inserts the room or refreshes the descriptive columns of the row
// with the same name. The stored id of an existing row is kept.
func (r *PokerRoomRepository) Upsert(ctx context.Context, room pokerroom.Room) (pokerroom.Room, error) {
	room.Name = strings.TrimSpace(room.Name)
	if err := room.Validate(); err != nil {
		return pokerroom.Room{}, fmt.Errorf("validate poker room: %w", err)
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now

	query, args, err := qb.InsertModel("poker_rooms", pokerRoomTableModel{
		ID:        room.ID,
		Name:      room.Name,
		Brand:     nullString(room.Brand),
		Category:  room.Category,
		City:      nullString(room.City),
		State:     nullString(room.State),
		Country:   nullString(room.Country),
		Timezone:  nullString(room.Timezone),
		Website:   nullString(room.Website),
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}, pokerRoomUpsertSuffix)
	if err != nil {
		return pokerroom.Room{}, fmt.Errorf("build upsert poker room query: %w", err)
	}

	var row pokerRoomTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return pokerroom.Room{}, fmt.Errorf("upsert poker room %q: %w", room.Name, err)
	}

	return pokerRoomFromRow(row), nil
}

func pokerRoomFromRow(row pokerRoomTableModel) pokerroom.Room {
	return pokerroom.Room{
		ID:        row.ID,
		Name:      row.Name,
		Brand:     stringFromNull(row.Brand),
		Category:  row.Category,
		City:      stringFromNull(row.City),
		State:     stringFromNull(row.State),
		Country:   stringFromNull(row.Country),
		Timezone:  stringFromNull(row.Timezone),
		Website:   stringFromNull(row.Website),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
