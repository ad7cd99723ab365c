package service

import (
	"context"
	"fmt"
	"time"

	"github.com/resolved-app/resolved/internal/goalstate"
	"github.com/resolved-app/resolved/internal/model"
	"github.com/resolved-app/resolved/internal/repository"
)

// GoalService loads a profile's goal list into a goalstate.Store and runs
// mutations through it, with the sqlx repositories as the store's remote.
// Each request gets a fresh store; the database is the source of truth
// between requests.
type GoalService struct {
	goalRepo    repository.GoalRepository
	subGoalRepo repository.SubGoalRepository
	now         func() time.Time
}

func NewGoalService(goalRepo repository.GoalRepository, subGoalRepo repository.SubGoalRepository) *GoalService {
	return &GoalService{
		goalRepo:    goalRepo,
		subGoalRepo: subGoalRepo,
		now:         time.Now,
	}
}

// Store loads the user's goals with nested sub-goals into a session store.
func (s *GoalService) Store(userID string) (*goalstate.Store, error) {
	goals, err := s.goalRepo.Goals(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	subGoals, err := s.subGoalRepo.ByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sub-goals: %w", err)
	}

	byGoal := map[string][]*model.SubGoal{}
	for _, sg := range subGoals {
		byGoal[sg.GoalID] = append(byGoal[sg.GoalID], sg)
	}
	for _, g := range goals {
		g.SubGoals = byGoal[g.ID]
	}

	return goalstate.New(userID, goals, &repoRemote{s.goalRepo, s.subGoalRepo, s.now}, s.now), nil
}

// Goals returns the current list without building a mutable store, for
// read-only page loads.
func (s *GoalService) Goals(userID string) ([]*model.Goal, error) {
	store, err := s.Store(userID)
	if err != nil {
		return nil, err
	}
	return store.Goals(), nil
}

func (s *GoalService) AddGoal(ctx context.Context, userID, title string) (*model.Goal, error) {
	store, err := s.Store(userID)
	if err != nil {
		return nil, err
	}
	return store.AddGoal(ctx, title)
}

func (s *GoalService) RenameGoal(ctx context.Context, userID, goalID, title string) (*model.Goal, error) {
	store, err := s.Store(userID)
	if err != nil {
		return nil, err
	}
	err = store.RenameGoal(ctx, goalID, title)
	if err != nil {
		return nil, err
	}
	return store.Goal(goalID), nil
}

func (s *GoalService) ToggleGoalCompletion(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	store, err := s.Store(userID)
	if err != nil {
		return nil, err
	}
	err = store.ToggleGoalCompletion(ctx, goalID)
	if err != nil {
		return nil, err
	}
	return store.Goal(goalID), nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	store, err := s.Store(userID)
	if err != nil {
		return err
	}
	return store.DeleteGoal(ctx, goalID)
}

func (s *GoalService) AddSubGoal(ctx context.Context, userID, goalID, title string) (*model.SubGoal, error) {
	store, err := s.Store(userID)
	if err != nil {
		return nil, err
	}
	return store.AddSubGoal(ctx, goalID, title)
}

func (s *GoalService) ToggleSubGoalCompletion(ctx context.Context, userID, goalID, subGoalID string) (*model.SubGoal, error) {
	store, err := s.Store(userID)
	if err != nil {
		return nil, err
	}
	err = store.ToggleSubGoalCompletion(ctx, goalID, subGoalID)
	if err != nil {
		return nil, err
	}
	for _, sg := range store.Goal(goalID).SubGoals {
		if sg.ID == subGoalID {
			return sg, nil
		}
	}
	return nil, goalstate.ErrSubGoalNotFound
}

func (s *GoalService) DeleteSubGoal(ctx context.Context, userID, goalID, subGoalID string) error {
	store, err := s.Store(userID)
	if err != nil {
		return err
	}
	return store.DeleteSubGoal(ctx, goalID, subGoalID)
}

// repoRemote adapts the repositories to goalstate.Remote. Every write guards
// on the owning user's id, so ownership is enforced here and not only in the
// presentation layer.
type repoRemote struct {
	goals    repository.GoalRepository
	subGoals repository.SubGoalRepository
	now      func() time.Time
}

func (r *repoRemote) InsertGoal(_ context.Context, userID, title string) (*model.Goal, error) {
	goal := &model.Goal{
		UserID:    userID,
		Title:     title,
		IsPublic:  true,
		CreatedAt: r.now(),
	}
	err := r.goals.Create(goal)
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *repoRemote) RenameGoal(_ context.Context, userID, goalID, title string) (time.Time, error) {
	lastEdited := r.now()
	err := r.goals.Rename(userID, goalID, title, lastEdited)
	if err != nil {
		return time.Time{}, err
	}
	return lastEdited, nil
}

func (r *repoRemote) SetGoalCompletion(_ context.Context, userID, goalID string, completed bool) error {
	return r.goals.SetCompletion(userID, goalID, completed)
}

func (r *repoRemote) DeleteGoal(_ context.Context, userID, goalID string) error {
	return r.goals.Delete(userID, goalID)
}

func (r *repoRemote) InsertSubGoal(_ context.Context, userID, goalID, title string) (*model.SubGoal, error) {
	subGoal := &model.SubGoal{
		GoalID:    goalID,
		Title:     title,
		CreatedAt: r.now(),
	}
	err := r.subGoals.Create(userID, subGoal)
	if err != nil {
		return nil, err
	}
	return subGoal, nil
}

func (r *repoRemote) SetSubGoalCompletion(_ context.Context, userID, subGoalID string, completed bool) error {
	return r.subGoals.SetCompletion(userID, subGoalID, completed)
}

func (r *repoRemote) DeleteSubGoal(_ context.Context, userID, subGoalID string) error {
	return r.subGoals.Delete(userID, subGoalID)
}
