package validation

import (
	"errors"
	"strings"
)

// ValidateFullName validates the display name shown on the profile page.
func ValidateFullName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 50 {
		return errors.New("name is too long (max 50 characters)")
	}

	return nil
}

// ValidateBio validates the optional profile bio.
func ValidateBio(bio string) error {
	if len(bio) > 160 {
		return errors.New("bio is too long (max 160 characters)")
	}
	return nil
}
