// Package goalstate holds the session view of a profile's goal list and keeps
// it in lockstep with the persistence layer. Every mutation pairs exactly one
// remote call with a local state transition: toggles apply optimistically and
// roll back when the remote write fails, inserts wait for the server-assigned
// row, deletes remove locally only after the remote delete succeeds. After a
// failed mutation the list is always identical to the last confirmed remote
// state.
package goalstate

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/resolved-app/resolved/internal/model"
)

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleTooLong        = errors.New("title is too long (max 100 characters)")
	ErrGoalLimitReached    = errors.New("goal limit reached (max 10 goals)")
	ErrSubGoalLimitReached = errors.New("sub-goal limit reached (max 30 across all goals)")
	ErrOutsideEditWindow   = errors.New("structural changes are only allowed during an edit window")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrSubGoalNotFound     = errors.New("sub-goal not found")
)

// Remote is the persistence surface mutations write through. Implementations
// must return the canonical row on inserts so the store never has to invent
// ids or timestamps.
type Remote interface {
	InsertGoal(ctx context.Context, userID, title string) (*model.Goal, error)
	RenameGoal(ctx context.Context, userID, goalID, title string) (lastEdited time.Time, err error)
	SetGoalCompletion(ctx context.Context, userID, goalID string, completed bool) error
	DeleteGoal(ctx context.Context, userID, goalID string) error
	InsertSubGoal(ctx context.Context, userID, goalID, title string) (*model.SubGoal, error)
	SetSubGoalCompletion(ctx context.Context, userID, subGoalID string, completed bool) error
	DeleteSubGoal(ctx context.Context, userID, subGoalID string) error
}

// Store is the authoritative-for-the-session goal list of a single owner.
// It is not safe for concurrent use; mutations are human-paced UI events and
// each request works on its own store.
type Store struct {
	userID string
	goals  []*model.Goal
	remote Remote
	now    func() time.Time
}

// New builds a store over the given goals, ordered by position ascending with
// created_at as tie-break. The slice is taken over by the store.
func New(userID string, goals []*model.Goal, remote Remote, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].Position != goals[j].Position {
			return goals[i].Position < goals[j].Position
		}
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	for _, g := range goals {
		if g.SubGoals == nil {
			g.SubGoals = []*model.SubGoal{}
		}
	}
	return &Store{userID: userID, goals: goals, remote: remote, now: now}
}

// Goals returns the current ordered list.
func (s *Store) Goals() []*model.Goal {
	return s.goals
}

// Goal returns the goal with the given id, or nil.
func (s *Store) Goal(goalID string) *model.Goal {
	for _, g := range s.goals {
		if g.ID == goalID {
			return g
		}
	}
	return nil
}

// TotalSubGoals counts sub-goals across all goals; the 30 sub-goal cap is a
// shared pool, not per-goal.
func (s *Store) TotalSubGoals() int {
	n := 0
	for _, g := range s.goals {
		n += len(g.SubGoals)
	}
	return n
}

// Progress summarizes completion for the profile page.
type Progress struct {
	TotalGoals        int     `json:"total_goals"`
	CompletedGoals    int     `json:"completed_goals"`
	TotalSubGoals     int     `json:"total_sub_goals"`
	CompletedSubGoals int     `json:"completed_sub_goals"`
	Overall           float64 `json:"overall"`
}

// Progress computes the summary. Overall is the 40/60 weighted average of
// goal and sub-goal completion, 0 when there are no goals.
func (s *Store) Progress() Progress {
	p := Progress{TotalGoals: len(s.goals)}
	for _, g := range s.goals {
		if g.IsComplete() {
			p.CompletedGoals++
		}
		p.TotalSubGoals += len(g.SubGoals)
		p.CompletedSubGoals += g.CompletedSubGoals()
	}
	if p.TotalGoals == 0 {
		return p
	}
	goalPct := float64(p.CompletedGoals) / float64(p.TotalGoals) * 100
	subPct := 0.0
	if p.TotalSubGoals > 0 {
		subPct = float64(p.CompletedSubGoals) / float64(p.TotalSubGoals) * 100
	}
	p.Overall = goalPct*0.4 + subPct*0.6
	return p
}
