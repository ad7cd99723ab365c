package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/resolved-app/resolved/internal/model"
)

var (
	ErrSubGoalNotFound = errors.New("sub-goal not found")
)

type SubGoalRepository interface {
	ByUser(userID string) ([]*model.SubGoal, error)
	Create(userID string, subGoal *model.SubGoal) error
	SetCompletion(userID, subGoalID string, completed bool) error
	Delete(userID, subGoalID string) error
}

type subGoalRepository struct {
	db *sqlx.DB
}

func NewSubGoalRepository(db *sqlx.DB) SubGoalRepository {
	return &subGoalRepository{db: db}
}

// ByUser returns every sub-goal under any of the user's goals, oldest first,
// so callers can nest them under their goals in one pass.
func (r *subGoalRepository) ByUser(userID string) ([]*model.SubGoal, error) {
	var subGoals []*model.SubGoal
	err := r.db.Select(&subGoals, `
		SELECT sub_goals.* FROM sub_goals
		JOIN goals ON goals.id = sub_goals.goal_id
		WHERE goals.user_id = $1
		ORDER BY sub_goals.created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	return subGoals, nil
}

// Create inserts the sub-goal. The parent goal must belong to userID; the
// guarded sub-select makes a cross-owner insert affect zero rows.
func (r *subGoalRepository) Create(userID string, subGoal *model.SubGoal) error {
	if subGoal.ID == "" {
		subGoal.ID = uuid.New().String()
	}
	if subGoal.CreatedAt.IsZero() {
		subGoal.CreatedAt = time.Now()
	}

	result, err := r.db.Exec(`
		INSERT INTO sub_goals (id, goal_id, title, is_completed, created_at)
		SELECT $1, goals.id, $2, $3, $4 FROM goals
		WHERE goals.id = $5 AND goals.user_id = $6
	`,
		subGoal.ID,
		subGoal.Title,
		subGoal.IsCompleted,
		subGoal.CreatedAt,
		subGoal.GoalID,
		userID,
	)
	if err != nil {
		return err
	}
	return requireRow(result, ErrGoalNotFound)
}

func (r *subGoalRepository) SetCompletion(userID, subGoalID string, completed bool) error {
	result, err := r.db.Exec(`
		UPDATE sub_goals SET is_completed = $1
		WHERE id = $2 AND goal_id IN (SELECT id FROM goals WHERE user_id = $3)
	`, completed, subGoalID, userID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrSubGoalNotFound)
}

func (r *subGoalRepository) Delete(userID, subGoalID string) error {
	result, err := r.db.Exec(`
		DELETE FROM sub_goals
		WHERE id = $1 AND goal_id IN (SELECT id FROM goals WHERE user_id = $2)
	`, subGoalID, userID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrSubGoalNotFound)
}
