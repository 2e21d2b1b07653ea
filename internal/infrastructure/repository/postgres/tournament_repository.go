package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KingBodhi/jungleverse/internal/domain/tournament"
	qb "github.com/KingBodhi/jungleverse/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) FindExisting(ctx context.Context, roomID string, buyinAmount int64, startTime time.Time) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(
			qb.Eq("room_id", roomID),
			qb.Eq("buyin_amount", buyinAmount),
			qb.Eq("start_time", startTime.UTC()),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build select existing tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("select existing tournament: %w", err)
	}

	return tournamentFromRow(row), true, nil
}

func (r *TournamentRepository) Create(ctx context.Context, item tournament.Tournament) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate tournament: %w", err)
	}

	query, args, err := qb.InsertModel("tournaments", tournamentTableModel{
		ID:                 item.ID,
		RoomID:             item.RoomID,
		Variant:            item.Variant,
		StartTime:          item.StartTime.UTC(),
		BuyinAmount:        item.BuyinAmount,
		RakeAmount:         nullInt64(item.RakeAmount),
		StartingStack:      nullInt64(item.StartingStack),
		BlindLevelMinutes:  nullInt(item.BlindLevelMinutes),
		ReentryPolicy:      nullString(item.ReentryPolicy),
		BountyAmount:       nullInt64(item.BountyAmount),
		RecurringRule:      nullString(item.RecurringRule),
		EstimatedPrizePool: nullInt64(item.EstimatedPrizePool),
		TypicalFieldSize:   nullInt(item.TypicalFieldSize),
		ExternalID:         nullString(item.ExternalID),
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}, "ON CONFLICT (room_id, buyin_amount, start_time) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert tournament query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert tournament: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected tournament rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: buyin=%d start=%s", tournament.ErrDuplicate, item.BuyinAmount, item.StartTime.UTC().Format(time.RFC3339))
	}
	return nil
}

func (r *TournamentRepository) ListByRoom(ctx context.Context, roomID string) ([]tournament.Tournament, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(qb.Eq("room_id", roomID)).
		OrderBy("start_time", "buyin_amount").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tournaments by room query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments by room: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}

func tournamentFromRow(row tournamentTableModel) tournament.Tournament {
	return tournament.Tournament{
		ID:                 row.ID,
		RoomID:             row.RoomID,
		Variant:            row.Variant,
		StartTime:          row.StartTime.UTC(),
		BuyinAmount:        row.BuyinAmount,
		RakeAmount:         int64FromNull(row.RakeAmount),
		StartingStack:      int64FromNull(row.StartingStack),
		BlindLevelMinutes:  intFromNull(row.BlindLevelMinutes),
		ReentryPolicy:      stringFromNull(row.ReentryPolicy),
		BountyAmount:       int64FromNull(row.BountyAmount),
		RecurringRule:      stringFromNull(row.RecurringRule),
		EstimatedPrizePool: int64FromNull(row.EstimatedPrizePool),
		TypicalFieldSize:   intFromNull(row.TypicalFieldSize),
		ExternalID:         stringFromNull(row.ExternalID),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}
