package postgres

import (
	"database/sql"
	"time"
)

type tournamentTableModel struct {
	ID                 string         `db:"id"`
	RoomID             string         `db:"room_id"`
	Variant            string         `db:"variant"`
	StartTime          time.Time      `db:"start_time"`
	BuyinAmount        int64          `db:"buyin_amount"`
	RakeAmount         sql.NullInt64  `db:"rake_amount"`
	StartingStack      sql.NullInt64  `db:"starting_stack"`
	BlindLevelMinutes  sql.NullInt64  `db:"blind_level_minutes"`
	ReentryPolicy      sql.NullString `db:"reentry_policy"`
	BountyAmount       sql.NullInt64  `db:"bounty_amount"`
	RecurringRule      sql.NullString `db:"recurring_rule"`
	EstimatedPrizePool sql.NullInt64  `db:"estimated_prize_pool"`
	TypicalFieldSize   sql.NullInt64  `db:"typical_field_size"`
	ExternalID         sql.NullString `db:"external_id"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}
