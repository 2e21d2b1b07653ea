package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/KingBodhi/jungleverse/internal/domain/cashgame"
	qb "github.com/KingBodhi/jungleverse/internal/platform/querybuilder"
)

type CashGameRepository struct {
	db *sqlx.DB
}

func NewCashGameRepository(db *sqlx.DB) *CashGameRepository {
	return &CashGameRepository{db: db}
}

func (r *CashGameRepository) FindExisting(ctx context.Context, roomID string, smallBlind, bigBlind int64) (cashgame.CashGame, bool, error) {
	query, args, err := qb.Select("*").From("cash_games").
		Where(
			qb.Eq("room_id", roomID),
			qb.Eq("small_blind", smallBlind),
			qb.Eq("big_blind", bigBlind),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return cashgame.CashGame{}, false, fmt.Errorf("build select existing cash game query: %w", err)
	}

	var row cashGameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return cashgame.CashGame{}, false, nil
		}
		return cashgame.CashGame{}, false, fmt.Errorf("select existing cash game: %w", err)
	}

	return cashGameFromRow(row), true, nil
}

func (r *CashGameRepository) Create(ctx context.Context, item cashgame.CashGame) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate cash game: %w", err)
	}

	days := item.UsualDaysOfWeek
	if days == nil {
		days = []string{}
	}
	query, args, err := qb.InsertModel("cash_games", cashGameTableModel{
		ID:              item.ID,
		RoomID:          item.RoomID,
		Variant:         item.Variant,
		SmallBlind:      item.SmallBlind,
		BigBlind:        item.BigBlind,
		MinBuyin:        item.MinBuyin,
		MaxBuyin:        item.MaxBuyin,
		UsualDaysOfWeek: pq.StringArray(days),
		Notes:           nullString(item.Notes),
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}, "ON CONFLICT (room_id, small_blind, big_blind) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert cash game query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert cash game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected cash game rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %d/%d", cashgame.ErrDuplicate, item.SmallBlind, item.BigBlind)
	}
	return nil
}

func (r *CashGameRepository) UpdateBuyins(ctx context.Context, id string, minBuyin, maxBuyin int64, notes string) error {
	if err := cashgame.ValidateBuyinRange(minBuyin, maxBuyin); err != nil {
		return err
	}

	query, args, err := qb.Update("cash_games").
		Set("min_buyin", minBuyin).
		Set("max_buyin", maxBuyin).
		Set("notes", nullString(notes)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update cash game buy-ins query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update cash game buy-ins: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected cash game rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("cash game %s not found", id)
	}
	return nil
}

func (r *CashGameRepository) ListByRoom(ctx context.Context, roomID string) ([]cashgame.CashGame, error) {
	query, args, err := qb.Select("*").From("cash_games").
		Where(qb.Eq("room_id", roomID)).
		OrderBy("big_blind", "small_blind").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select cash games by room query: %w", err)
	}

	var rows []cashGameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select cash games by room: %w", err)
	}

	out := make([]cashgame.CashGame, 0, len(rows))
	for _, row := range rows {
		out = append(out, cashGameFromRow(row))
	}
	return out, nil
}

func cashGameFromRow(row cashGameTableModel) cashgame.CashGame {
	return cashgame.CashGame{
		ID:              row.ID,
		RoomID:          row.RoomID,
		Variant:         row.Variant,
		SmallBlind:      row.SmallBlind,
		BigBlind:        row.BigBlind,
		MinBuyin:        row.MinBuyin,
		MaxBuyin:        row.MaxBuyin,
		UsualDaysOfWeek: []string(row.UsualDaysOfWeek),
		Notes:           stringFromNull(row.Notes),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
