package model

import (
	"time"
)

type User struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	GoogleID  *string   `db:"google_id"`
	CreatedAt time.Time `db:"created_at"`
}
