package model

import (
	"time"
)

const (
	MaxGoalsPerProfile = 10
	MaxSubGoalsPooled  = 30
	MaxTitleLength     = 100
)

type Goal struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Title       string     `db:"title"`
	IsPublic    bool       `db:"is_public"`
	IsCompleted bool       `db:"is_completed"`
	Position    int        `db:"position"`
	CreatedAt   time.Time  `db:"created_at"`
	LastEdited  *time.Time `db:"last_edited"`

	// Computed fields (not in database)
	SubGoals []*SubGoal `db:"-"`
}

// IsComplete reports whether the goal counts as done: either the owner marked
// it complete, or it has sub-goals and every one of them is completed.
func (g *Goal) IsComplete() bool {
	if g.IsCompleted {
		return true
	}
	if len(g.SubGoals) == 0 {
		return false
	}
	for _, sg := range g.SubGoals {
		if !sg.IsCompleted {
			return false
		}
	}
	return true
}

// IsEdited reports whether the goal was changed after creation. last_edited
// equal to created_at means the goal is untouched since the insert.
func (g *Goal) IsEdited() bool {
	return g.LastEdited != nil && !g.LastEdited.Equal(g.CreatedAt)
}

func (g *Goal) CompletedSubGoals() int {
	n := 0
	for _, sg := range g.SubGoals {
		if sg.IsCompleted {
			n++
		}
	}
	return n
}
