package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/resolved-app/resolved/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Goals(userID string) ([]*model.Goal, error)
	ByID(userID, goalID string) (*model.Goal, error)
	Create(goal *model.Goal) error
	Rename(userID, goalID, title string, lastEdited time.Time) error
	SetCompletion(userID, goalID string, completed bool) error
	Delete(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

// Goals returns all of a user's goals ordered by position, created_at as
// tie-break. Positions are never compacted after deletes.
func (r *goalRepository) Goals(userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	err := r.db.Select(&goals,
		`SELECT * FROM goals WHERE user_id = $1 ORDER BY position ASC, created_at ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	err := r.db.Get(goal, `SELECT * FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// Create inserts the goal, assigning the next position for the user and
// seeding last_edited with created_at so a fresh goal never shows as edited.
func (r *goalRepository) Create(goal *model.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	if goal.LastEdited == nil {
		created := goal.CreatedAt
		goal.LastEdited = &created
	}

	err := r.db.QueryRow(
		`SELECT COALESCE(MAX(position), 0) + 1 FROM goals WHERE user_id = $1`,
		goal.UserID,
	).Scan(&goal.Position)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO goals (id, user_id, title, is_public, is_completed, position, created_at, last_edited)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.IsPublic,
		goal.IsCompleted,
		goal.Position,
		goal.CreatedAt,
		goal.LastEdited,
	)

	return err
}

func (r *goalRepository) Rename(userID, goalID, title string, lastEdited time.Time) error {
	result, err := r.db.Exec(`
		UPDATE goals SET title = $1, last_edited = $2 WHERE id = $3 AND user_id = $4
	`, title, lastEdited, goalID, userID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrGoalNotFound)
}

func (r *goalRepository) SetCompletion(userID, goalID string, completed bool) error {
	result, err := r.db.Exec(`
		UPDATE goals SET is_completed = $1 WHERE id = $2 AND user_id = $3
	`, completed, goalID, userID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrGoalNotFound)
}

// Delete removes the goal; sub_goals go with it via ON DELETE CASCADE.
func (r *goalRepository) Delete(userID, goalID string) error {
	result, err := r.db.Exec(`DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrGoalNotFound)
}

// requireRow converts a zero-rows-affected write into notFound. Writes guard
// on user_id, so a miss means either a missing row or a non-owner.
func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
