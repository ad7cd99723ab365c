package model

import (
	"time"
)

type SubGoal struct {
	ID          string    `db:"id"`
	GoalID      string    `db:"goal_id"`
	Title       string    `db:"title"`
	IsCompleted bool      `db:"is_completed"`
	CreatedAt   time.Time `db:"created_at"`
}
