package models

import "time"

// Goal is a user-owned tracked objective. UserID is fixed at creation and
// never updated. Targets are always loaded in id (creation) order.
type Goal struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Private     bool      `db:"private" json:"private"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Targets     []Target  `db:"-" json:"targets"`
}
