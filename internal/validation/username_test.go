package validation_test

import (
	"testing"

	"github.com/resolved-app/resolved/internal/validation"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{"valid", "jane_doe42", nil},
		{"valid single char", "j", nil},
		{"valid 20 chars", "abcdefghij0123456789", nil},
		{"empty", "", validation.ErrUsernameRequired},
		{"too long", "abcdefghij01234567890", validation.ErrUsernameTooLong},
		{"uppercase", "Jane", validation.ErrUsernameFormat},
		{"space", "jane doe", validation.ErrUsernameFormat},
		{"hyphen", "jane-doe", validation.ErrUsernameFormat},
		{"unicode", "jané", validation.ErrUsernameFormat},
		{"reserved dashboard", "dashboard", validation.ErrUsernameReserved},
		{"reserved auth", "auth", validation.ErrUsernameReserved},
		{"reserved underscore route", "_next", validation.ErrUsernameReserved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.ValidateUsername(tt.username)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIsReservedUsernameCaseInsensitive(t *testing.T) {
	require.True(t, validation.IsReservedUsername("Admin"))
	require.True(t, validation.IsReservedUsername("DASHBOARD"))
	require.False(t, validation.IsReservedUsername("jane"))
}

func TestValidateBio(t *testing.T) {
	require.NoError(t, validation.ValidateBio(""))
	long := make([]byte, 161)
	for i := range long {
		long[i] = 'a'
	}
	require.Error(t, validation.ValidateBio(string(long)))
}
