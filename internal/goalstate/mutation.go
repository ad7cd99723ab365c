package goalstate

import (
	"context"
	"strings"
	"time"

	"github.com/resolved-app/resolved/internal/editwindow"
	"github.com/resolved-app/resolved/internal/model"
)

// mutation describes one state change as a value: validation runs before any
// side effect, apply is the optimistic local change, remote is the single
// persistence call, rollback is the exact inverse of apply and runs only when
// remote fails, confirm runs only after remote success (used by inserts that
// need the server-assigned row before touching local state).
type mutation struct {
	validate func() error
	apply    func()
	remote   func(ctx context.Context) error
	rollback func()
	confirm  func()
}

// run executes a mutation. On validation failure nothing is touched and no
// remote call is made. On remote failure the optimistic change is reverted,
// leaving the list equal to the last confirmed remote state.
func (s *Store) run(ctx context.Context, m mutation) error {
	if m.validate != nil {
		if err := m.validate(); err != nil {
			return err
		}
	}
	if m.apply != nil {
		m.apply()
	}
	if err := m.remote(ctx); err != nil {
		if m.rollback != nil {
			m.rollback()
		}
		return err
	}
	if m.confirm != nil {
		m.confirm()
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > model.MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func (s *Store) requireEditWindow() error {
	if !editwindow.CanEdit(s.now()) {
		return ErrOutsideEditWindow
	}
	return nil
}

// AddGoal creates a goal and appends the canonical server row. There is no
// optimistic insert: the goal needs the server-generated id first.
func (s *Store) AddGoal(ctx context.Context, title string) (*model.Goal, error) {
	title = strings.TrimSpace(title)

	var created *model.Goal
	err := s.run(ctx, mutation{
		validate: func() error {
			if err := validateTitle(title); err != nil {
				return err
			}
			if len(s.goals) >= model.MaxGoalsPerProfile {
				return ErrGoalLimitReached
			}
			return s.requireEditWindow()
		},
		remote: func(ctx context.Context) error {
			goal, err := s.remote.InsertGoal(ctx, s.userID, title)
			if err != nil {
				return err
			}
			created = goal
			return nil
		},
		confirm: func() {
			if created.SubGoals == nil {
				created.SubGoals = []*model.SubGoal{}
			}
			s.goals = append(s.goals, created)
		},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RenameGoal changes a goal's title. Renames are structural, so they are
// window-gated and bump last_edited to the server's timestamp.
func (s *Store) RenameGoal(ctx context.Context, goalID, title string) error {
	title = strings.TrimSpace(title)
	goal := s.Goal(goalID)

	var lastEdited time.Time
	return s.run(ctx, mutation{
		validate: func() error {
			if goal == nil {
				return ErrGoalNotFound
			}
			if err := validateTitle(title); err != nil {
				return err
			}
			return s.requireEditWindow()
		},
		remote: func(ctx context.Context) error {
			var err error
			lastEdited, err = s.remote.RenameGoal(ctx, s.userID, goalID, title)
			return err
		},
		confirm: func() {
			goal.Title = title
			goal.LastEdited = &lastEdited
		},
	})
}

// ToggleGoalCompletion flips the owner-set completion flag. Toggles are never
// window-gated; the flip is optimistic and reverted if the remote write fails.
func (s *Store) ToggleGoalCompletion(ctx context.Context, goalID string) error {
	goal := s.Goal(goalID)

	return s.run(ctx, mutation{
		validate: func() error {
			if goal == nil {
				return ErrGoalNotFound
			}
			return nil
		},
		apply: func() {
			goal.IsCompleted = !goal.IsCompleted
		},
		remote: func(ctx context.Context) error {
			return s.remote.SetGoalCompletion(ctx, s.userID, goalID, goal.IsCompleted)
		},
		rollback: func() {
			goal.IsCompleted = !goal.IsCompleted
		},
	})
}

// DeleteGoal removes a goal and, through the schema's cascade, its sub-goals.
// The remote delete runs first; local state changes only on success.
func (s *Store) DeleteGoal(ctx context.Context, goalID string) error {
	return s.run(ctx, mutation{
		validate: func() error {
			if s.Goal(goalID) == nil {
				return ErrGoalNotFound
			}
			return s.requireEditWindow()
		},
		remote: func(ctx context.Context) error {
			return s.remote.DeleteGoal(ctx, s.userID, goalID)
		},
		confirm: func() {
			goals := s.goals[:0]
			for _, g := range s.goals {
				if g.ID != goalID {
					goals = append(goals, g)
				}
			}
			s.goals = goals
		},
	})
}

// AddSubGoal creates a sub-goal under the given goal. Like AddGoal there is
// no optimistic insert, and the 30 sub-goal cap pools across all goals.
func (s *Store) AddSubGoal(ctx context.Context, goalID, title string) (*model.SubGoal, error) {
	title = strings.TrimSpace(title)
	goal := s.Goal(goalID)

	var created *model.SubGoal
	err := s.run(ctx, mutation{
		validate: func() error {
			if goal == nil {
				return ErrGoalNotFound
			}
			if err := validateTitle(title); err != nil {
				return err
			}
			if s.TotalSubGoals() >= model.MaxSubGoalsPooled {
				return ErrSubGoalLimitReached
			}
			return s.requireEditWindow()
		},
		remote: func(ctx context.Context) error {
			subGoal, err := s.remote.InsertSubGoal(ctx, s.userID, goalID, title)
			if err != nil {
				return err
			}
			created = subGoal
			return nil
		},
		confirm: func() {
			goal.SubGoals = append(goal.SubGoals, created)
		},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ToggleSubGoalCompletion optimistically flips a sub-goal's completion and
// reverts the flip when the remote write fails.
func (s *Store) ToggleSubGoalCompletion(ctx context.Context, goalID, subGoalID string) error {
	subGoal := s.subGoal(goalID, subGoalID)

	return s.run(ctx, mutation{
		validate: func() error {
			if subGoal == nil {
				return ErrSubGoalNotFound
			}
			return nil
		},
		apply: func() {
			subGoal.IsCompleted = !subGoal.IsCompleted
		},
		remote: func(ctx context.Context) error {
			return s.remote.SetSubGoalCompletion(ctx, s.userID, subGoalID, subGoal.IsCompleted)
		},
		rollback: func() {
			subGoal.IsCompleted = !subGoal.IsCompleted
		},
	})
}

// DeleteSubGoal removes a sub-goal, remote first.
func (s *Store) DeleteSubGoal(ctx context.Context, goalID, subGoalID string) error {
	goal := s.Goal(goalID)

	return s.run(ctx, mutation{
		validate: func() error {
			if s.subGoal(goalID, subGoalID) == nil {
				return ErrSubGoalNotFound
			}
			return s.requireEditWindow()
		},
		remote: func(ctx context.Context) error {
			return s.remote.DeleteSubGoal(ctx, s.userID, subGoalID)
		},
		confirm: func() {
			subGoals := goal.SubGoals[:0]
			for _, sg := range goal.SubGoals {
				if sg.ID != subGoalID {
					subGoals = append(subGoals, sg)
				}
			}
			goal.SubGoals = subGoals
		},
	})
}

func (s *Store) subGoal(goalID, subGoalID string) *model.SubGoal {
	goal := s.Goal(goalID)
	if goal == nil {
		return nil
	}
	for _, sg := range goal.SubGoals {
		if sg.ID == subGoalID {
			return sg
		}
	}
	return nil
}
