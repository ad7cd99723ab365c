package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/resolved-app/resolved/internal/model"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileRepository interface {
	ByID(userID string) (*model.Profile, error)
	ByUsername(username string) (*model.Profile, error)
	UsernameTaken(username, excludeUserID string) (bool, error)
	Create(profile *model.Profile) error
	Update(profile *model.Profile) error
	UpdateAvatarURL(userID, avatarURL string) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByID(userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, `SELECT * FROM profiles WHERE id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) ByUsername(username string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, `SELECT * FROM profiles WHERE username = $1`, username)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UsernameTaken reports whether another user already claimed the name.
// excludeUserID lets profile edits keep the caller's own username.
func (r *profileRepository) UsernameTaken(username, excludeUserID string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM profiles WHERE username = $1 AND id != $2`,
		username, excludeUserID,
	).Scan(&count)
	return count > 0, err
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = profile.CreatedAt
	}

	_, err := r.db.Exec(`
		INSERT INTO profiles (id, username, full_name, profession, location, bio, social_link, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		profile.ID,
		profile.Username,
		profile.FullName,
		profile.Profession,
		profile.Location,
		profile.Bio,
		profile.SocialLink,
		profile.AvatarURL,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	return err
}

func (r *profileRepository) Update(profile *model.Profile) error {
	result, err := r.db.Exec(`
		UPDATE profiles
		SET username = $1, full_name = $2, profession = $3, location = $4, bio = $5, social_link = $6, updated_at = $7
		WHERE id = $8
	`,
		profile.Username,
		profile.FullName,
		profile.Profession,
		profile.Location,
		profile.Bio,
		profile.SocialLink,
		time.Now(),
		profile.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) UpdateAvatarURL(userID, avatarURL string) error {
	result, err := r.db.Exec(`
		UPDATE profiles SET avatar_url = $1, updated_at = $2 WHERE id = $3
	`, avatarURL, time.Now(), userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}
