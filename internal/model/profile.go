package model

import "time"

// Profile is the public identity a user claims at onboarding. Its ID is the
// owning user's ID; exactly one profile exists per user and it is never
// deleted.
type Profile struct {
	ID         string    `db:"id"` // same as users.id
	Username   string    `db:"username"`
	FullName   string    `db:"full_name"`
	Profession *string   `db:"profession"`
	Location   *string   `db:"location"`
	Bio        *string   `db:"bio"`
	SocialLink *string   `db:"social_link"`
	AvatarURL  *string   `db:"avatar_url"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
