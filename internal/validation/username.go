package validation

import (
	"errors"
	"strings"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooLong  = errors.New("username is too long (max 20 characters)")
	ErrUsernameFormat   = errors.New("username may only contain lowercase letters, numbers, and underscores")
	ErrUsernameReserved = errors.New("this username is reserved")
)

// reservedUsernames are route and system paths that must never resolve as a
// profile URL. Checked case-insensitively.
var reservedUsernames = map[string]bool{
	"auth":       true,
	"callback":   true,
	"onboarding": true,
	"api":        true,
	"home":       true,
	"_next":      true,
	"static":     true,
	"favicon":    true,
	"login":      true,
	"logout":     true,
	"settings":   true,
	"admin":      true,
	"dashboard":  true,
}

// IsReservedUsername reports whether the name collides with a system route.
func IsReservedUsername(username string) bool {
	return reservedUsernames[strings.ToLower(username)]
}

// ValidateUsername validates the URL-claiming rules: non-empty, at most 20
// characters, lowercase alphanumeric plus underscore, and not a reserved
// route name.
func ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if len(username) > 20 {
		return ErrUsernameTooLong
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return ErrUsernameFormat
		}
	}
	if IsReservedUsername(username) {
		return ErrUsernameReserved
	}
	return nil
}
