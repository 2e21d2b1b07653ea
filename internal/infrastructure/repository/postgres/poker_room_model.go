package postgres

import (
	"database/sql"
	"time"
)

type pokerRoomTableModel struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Brand     sql.NullString `db:"brand"`
	Category  string         `db:"category"`
	City      sql.NullString `db:"city"`
	State     sql.NullString `db:"state"`
	Country   sql.NullString `db:"country"`
	Timezone  sql.NullString `db:"timezone"`
	Website   sql.NullString `db:"website"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}
