package repository

import (
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrFollowNotFound = errors.New("follow not found")
	ErrAlreadyFollows = errors.New("already following")
)

type FollowRepository interface {
	Create(followerID, followingID string) error
	Delete(followerID, followingID string) error
	Exists(followerID, followingID string) (bool, error)
	CountFollowers(userID string) (int, error)
	CountFollowing(userID string) (int, error)
}

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(followerID, followingID string) error {
	exists, err := r.Exists(followerID, followingID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollows
	}

	_, err = r.db.Exec(`
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES ($1, $2, $3)
	`, followerID, followingID, time.Now())
	return err
}

func (r *followRepository) Delete(followerID, followingID string) error {
	result, err := r.db.Exec(`
		DELETE FROM follows WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrFollowNotFound)
}

func (r *followRepository) Exists(followerID, followingID string) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM follows WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID).Scan(&count)
	return count > 0, err
}

func (r *followRepository) CountFollowers(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE following_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *followRepository) CountFollowing(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID).Scan(&count)
	return count, err
}
