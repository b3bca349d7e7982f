package models

// Target is a numeric milestone under a goal. Progress never exceeds Target
// in a committed row; GoalID is fixed at creation.
type Target struct {
	ID       int64  `db:"id" json:"id"`
	GoalID   int64  `db:"goal_id" json:"goal_id"`
	Title    string `db:"title" json:"title"`
	Target   int64  `db:"target" json:"target"`
	Progress int64  `db:"progress" json:"progress"`
}
