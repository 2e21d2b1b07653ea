package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type cashGameTableModel struct {
	ID              string         `db:"id"`
	RoomID          string         `db:"room_id"`
	Variant         string         `db:"variant"`
	SmallBlind      int64          `db:"small_blind"`
	BigBlind        int64          `db:"big_blind"`
	MinBuyin        int64          `db:"min_buyin"`
	MaxBuyin        int64          `db:"max_buyin"`
	UsualDaysOfWeek pq.StringArray `db:"usual_days_of_week"`
	Notes           sql.NullString `db:"notes"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}
