package goalstate_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/resolved-app/resolved/internal/goalstate"
	"github.com/resolved-app/resolved/internal/model"
	"github.com/stretchr/testify/require"
)

var errRemote = errors.New("remote unavailable")

// fakeRemote records every call and can be told to fail.
type fakeRemote struct {
	calls []string
	fail  bool
	now   time.Time
}

func (f *fakeRemote) record(name string) error {
	f.calls = append(f.calls, name)
	if f.fail {
		return errRemote
	}
	return nil
}

func (f *fakeRemote) InsertGoal(_ context.Context, userID, title string) (*model.Goal, error) {
	if err := f.record("InsertGoal"); err != nil {
		return nil, err
	}
	now := f.now
	return &model.Goal{
		ID:         uuid.New().String(),
		UserID:     userID,
		Title:      title,
		IsPublic:   true,
		Position:   len(f.calls),
		CreatedAt:  now,
		LastEdited: &now,
	}, nil
}

func (f *fakeRemote) RenameGoal(_ context.Context, _, _, _ string) (time.Time, error) {
	if err := f.record("RenameGoal"); err != nil {
		return time.Time{}, err
	}
	return f.now.Add(time.Hour), nil
}

func (f *fakeRemote) SetGoalCompletion(_ context.Context, _, _ string, _ bool) error {
	return f.record("SetGoalCompletion")
}

func (f *fakeRemote) DeleteGoal(_ context.Context, _, _ string) error {
	return f.record("DeleteGoal")
}

func (f *fakeRemote) InsertSubGoal(_ context.Context, _, goalID, title string) (*model.SubGoal, error) {
	if err := f.record("InsertSubGoal"); err != nil {
		return nil, err
	}
	return &model.SubGoal{
		ID:        uuid.New().String(),
		GoalID:    goalID,
		Title:     title,
		CreatedAt: f.now,
	}, nil
}

func (f *fakeRemote) SetSubGoalCompletion(_ context.Context, _, _ string, _ bool) error {
	return f.record("SetSubGoalCompletion")
}

func (f *fakeRemote) DeleteSubGoal(_ context.Context, _, _ string) error {
	return f.record("DeleteSubGoal")
}

const owner = "user-1"

// inWindow is Apr 2, inside the Q1 review; outsideWindow is Apr 5.
var (
	inWindow      = time.Date(2026, time.April, 2, 10, 0, 0, 0, time.UTC)
	outsideWindow = time.Date(2026, time.April, 5, 10, 0, 0, 0, time.UTC)
)

func newStore(t *testing.T, goals []*model.Goal, at time.Time) (*goalstate.Store, *fakeRemote) {
	t.Helper()
	remote := &fakeRemote{now: at}
	return goalstate.New(owner, goals, remote, func() time.Time { return at }), remote
}

func goalFixture(title string, position int, subTitles ...string) *model.Goal {
	created := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	g := &model.Goal{
		ID:        uuid.New().String(),
		UserID:    owner,
		Title:     title,
		IsPublic:  true,
		Position:  position,
		CreatedAt: created,
		SubGoals:  []*model.SubGoal{},
	}
	for _, st := range subTitles {
		g.SubGoals = append(g.SubGoals, &model.SubGoal{
			ID:        uuid.New().String(),
			GoalID:    g.ID,
			Title:     st,
			CreatedAt: created,
		})
	}
	return g
}

func TestNewOrdersByPositionThenCreatedAt(t *testing.T) {
	a := goalFixture("third", 3)
	b := goalFixture("first", 1)
	c := goalFixture("second", 2)
	d := goalFixture("tie older", 2)
	d.CreatedAt = d.CreatedAt.Add(-time.Hour)

	store, _ := newStore(t, []*model.Goal{a, b, c, d}, inWindow)

	titles := []string{}
	for _, g := range store.Goals() {
		titles = append(titles, g.Title)
	}
	require.Equal(t, []string{"first", "tie older", "second", "third"}, titles)
}

func TestAddGoal(t *testing.T) {
	store, remote := newStore(t, nil, inWindow)

	goal, err := store.AddGoal(context.Background(), "  Learn Rust  ")
	require.NoError(t, err)
	require.Equal(t, "Learn Rust", goal.Title)
	require.False(t, goal.IsCompleted)
	require.Empty(t, goal.SubGoals)
	require.False(t, goal.IsComplete())
	require.Len(t, store.Goals(), 1)
	require.Equal(t, []string{"InsertGoal"}, remote.calls)
}

func TestAddGoalValidation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		at      time.Time
		prior   int
		wantErr error
	}{
		{"empty title", "   ", inWindow, 0, goalstate.ErrTitleRequired},
		{"too long", strings.Repeat("x", 101), inWindow, 0, goalstate.ErrTitleTooLong},
		{"outside window", "Run a marathon", outsideWindow, 0, goalstate.ErrOutsideEditWindow},
		{"at cap", "One more", inWindow, 10, goalstate.ErrGoalLimitReached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goals := []*model.Goal{}
			for i := 0; i < tt.prior; i++ {
				goals = append(goals, goalFixture("goal", i+1))
			}
			store, remote := newStore(t, goals, tt.at)

			_, err := store.AddGoal(context.Background(), tt.title)
			require.ErrorIs(t, err, tt.wantErr)
			require.Len(t, store.Goals(), tt.prior, "local state must not change")
			require.Empty(t, remote.calls, "no remote call on validation failure")
		})
	}
}

func TestAddGoalRemoteFailureLeavesListUnchanged(t *testing.T) {
	store, remote := newStore(t, nil, inWindow)
	remote.fail = true

	_, err := store.AddGoal(context.Background(), "Learn Rust")
	require.ErrorIs(t, err, errRemote)
	require.Empty(t, store.Goals())
}

func TestToggleGoalCompletionIdempotence(t *testing.T) {
	goal := goalFixture("Learn Rust", 1)
	store, remote := newStore(t, []*model.Goal{goal}, outsideWindow)

	require.NoError(t, store.ToggleGoalCompletion(context.Background(), goal.ID))
	require.True(t, goal.IsCompleted)

	require.NoError(t, store.ToggleGoalCompletion(context.Background(), goal.ID))
	require.False(t, goal.IsCompleted)

	require.Equal(t, []string{"SetGoalCompletion", "SetGoalCompletion"}, remote.calls)
}

func TestToggleGoalCompletionRollback(t *testing.T) {
	for _, initial := range []bool{false, true} {
		goal := goalFixture("Learn Rust", 1)
		goal.IsCompleted = initial
		store, remote := newStore(t, []*model.Goal{goal}, outsideWindow)
		remote.fail = true

		err := store.ToggleGoalCompletion(context.Background(), goal.ID)
		require.ErrorIs(t, err, errRemote)
		require.Equal(t, initial, goal.IsCompleted, "optimistic flip must be reverted")
	}
}

func TestDeleteGoal(t *testing.T) {
	goal := goalFixture("Learn Rust", 1, "ch1", "ch2")
	keep := goalFixture("Run more", 2)
	store, remote := newStore(t, []*model.Goal{goal, keep}, inWindow)

	require.NoError(t, store.DeleteGoal(context.Background(), goal.ID))
	require.Len(t, store.Goals(), 1)
	require.Equal(t, keep.ID, store.Goals()[0].ID)
	require.Equal(t, []string{"DeleteGoal"}, remote.calls)
}

func TestDeleteGoalGatedAndRemoteFirst(t *testing.T) {
	goal := goalFixture("Learn Rust", 1)

	store, remote := newStore(t, []*model.Goal{goal}, outsideWindow)
	require.ErrorIs(t, store.DeleteGoal(context.Background(), goal.ID), goalstate.ErrOutsideEditWindow)
	require.Empty(t, remote.calls)
	require.Len(t, store.Goals(), 1)

	store, remote = newStore(t, []*model.Goal{goal}, inWindow)
	remote.fail = true
	require.ErrorIs(t, store.DeleteGoal(context.Background(), goal.ID), errRemote)
	require.Len(t, store.Goals(), 1, "goal stays until remote delete succeeds")
}

func TestRenameGoal(t *testing.T) {
	goal := goalFixture("Learn Rust", 1)
	store, remote := newStore(t, []*model.Goal{goal}, inWindow)

	require.NoError(t, store.RenameGoal(context.Background(), goal.ID, "Master Rust"))
	require.Equal(t, "Master Rust", goal.Title)
	require.True(t, goal.IsEdited())
	require.Equal(t, []string{"RenameGoal"}, remote.calls)
}

func TestRenameGoalOutsideWindow(t *testing.T) {
	goal := goalFixture("Learn Rust", 1)
	store, remote := newStore(t, []*model.Goal{goal}, outsideWindow)

	require.ErrorIs(t, store.RenameGoal(context.Background(), goal.ID, "Master Rust"), goalstate.ErrOutsideEditWindow)
	require.Equal(t, "Learn Rust", goal.Title)
	require.Empty(t, remote.calls)
}

func TestAddSubGoalPooledCap(t *testing.T) {
	// 30 sub-goals spread over three goals exhausts the shared pool.
	a := goalFixture("a", 1)
	b := goalFixture("b", 2)
	c := goalFixture("c", 3)
	for i := 0; i < 10; i++ {
		for _, g := range []*model.Goal{a, b, c} {
			g.SubGoals = append(g.SubGoals, &model.SubGoal{ID: uuid.New().String(), GoalID: g.ID})
		}
	}
	store, remote := newStore(t, []*model.Goal{a, b, c}, inWindow)
	require.Equal(t, 30, store.TotalSubGoals())

	_, err := store.AddSubGoal(context.Background(), a.ID, "one too many")
	require.ErrorIs(t, err, goalstate.ErrSubGoalLimitReached)
	require.Equal(t, 30, store.TotalSubGoals())
	require.Empty(t, remote.calls)
}

func TestToggleSubGoalRollback(t *testing.T) {
	goal := goalFixture("Learn Rust", 1, "ch1")
	sub := goal.SubGoals[0]
	store, remote := newStore(t, []*model.Goal{goal}, outsideWindow)
	remote.fail = true

	err := store.ToggleSubGoalCompletion(context.Background(), goal.ID, sub.ID)
	require.ErrorIs(t, err, errRemote)
	require.False(t, sub.IsCompleted)
}

func TestDeleteSubGoal(t *testing.T) {
	goal := goalFixture("Learn Rust", 1, "ch1", "ch2")
	doomed := goal.SubGoals[0]
	store, _ := newStore(t, []*model.Goal{goal}, inWindow)

	require.NoError(t, store.DeleteSubGoal(context.Background(), goal.ID, doomed.ID))
	require.Len(t, goal.SubGoals, 1)
	require.Equal(t, "ch2", goal.SubGoals[0].Title)
}

func TestEndToEndScenario(t *testing.T) {
	// Apr 2: inside Q1 review, everything structural is allowed.
	store, _ := newStore(t, nil, inWindow)

	goal, err := store.AddGoal(context.Background(), "Learn Rust")
	require.NoError(t, err)
	require.Len(t, store.Goals(), 1)
	require.False(t, goal.IsCompleted)
	require.Empty(t, goal.SubGoals)
	require.False(t, goal.IsComplete())

	sub, err := store.AddSubGoal(context.Background(), goal.ID, "Finish chapter 1")
	require.NoError(t, err)
	require.Equal(t, 1, store.TotalSubGoals())

	// Apr 5: window closed. Structural edits rejected without a remote call,
	// completion toggles still go through.
	later, remote := newStore(t, store.Goals(), outsideWindow)

	_, err = later.AddSubGoal(context.Background(), goal.ID, "Finish chapter 2")
	require.ErrorIs(t, err, goalstate.ErrOutsideEditWindow)
	require.Equal(t, 1, later.TotalSubGoals())
	require.Empty(t, remote.calls)

	require.NoError(t, later.ToggleSubGoalCompletion(context.Background(), goal.ID, sub.ID))
	require.True(t, sub.IsCompleted)
	require.True(t, goal.IsComplete(), "all sub-goals done makes the goal complete")
}

func TestDerivedCompletion(t *testing.T) {
	noSubs := goalFixture("a", 1)
	require.False(t, noSubs.IsComplete())
	noSubs.IsCompleted = true
	require.True(t, noSubs.IsComplete())

	withSubs := goalFixture("b", 2, "one", "two")
	require.False(t, withSubs.IsComplete())
	withSubs.SubGoals[0].IsCompleted = true
	require.False(t, withSubs.IsComplete())
	withSubs.SubGoals[1].IsCompleted = true
	require.True(t, withSubs.IsComplete(), "all sub-goals completed")
	require.False(t, withSubs.IsCompleted, "derived, not stored")
}

func TestIsEdited(t *testing.T) {
	goal := goalFixture("a", 1)
	require.False(t, goal.IsEdited())

	created := goal.CreatedAt
	goal.LastEdited = &created
	require.False(t, goal.IsEdited(), "last_edited == created_at means untouched")

	edited := created.Add(time.Hour)
	goal.LastEdited = &edited
	require.True(t, goal.IsEdited())
}

func TestProgress(t *testing.T) {
	store, _ := newStore(t, nil, inWindow)
	require.Zero(t, store.Progress().Overall)

	done := goalFixture("done", 1)
	done.IsCompleted = true
	half := goalFixture("half", 2, "one", "two")
	half.SubGoals[0].IsCompleted = true

	store, _ = newStore(t, []*model.Goal{done, half}, inWindow)
	p := store.Progress()
	require.Equal(t, 2, p.TotalGoals)
	require.Equal(t, 1, p.CompletedGoals)
	require.Equal(t, 2, p.TotalSubGoals)
	require.Equal(t, 1, p.CompletedSubGoals)
	// 40% weight on goals (50% done) + 60% weight on sub-goals (50% done).
	require.InDelta(t, 50.0, p.Overall, 0.001)
}
