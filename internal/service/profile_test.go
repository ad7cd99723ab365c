package service

import (
	"testing"

	"github.com/resolved-app/resolved/internal/model"
	"github.com/resolved-app/resolved/internal/repository"
	"github.com/resolved-app/resolved/internal/validation"
	"github.com/stretchr/testify/require"
)

type fakeProfileRepo struct {
	profiles map[string]*model.Profile // keyed by user id
	taken    map[string]string         // username -> user id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: map[string]*model.Profile{},
		taken:    map[string]string{},
	}
}

func (f *fakeProfileRepo) ByID(userID string) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) ByUsername(username string) (*model.Profile, error) {
	userID, ok := f.taken[username]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return f.profiles[userID], nil
}

func (f *fakeProfileRepo) UsernameTaken(username, excludeUserID string) (bool, error) {
	owner, ok := f.taken[username]
	return ok && owner != excludeUserID, nil
}

func (f *fakeProfileRepo) Create(profile *model.Profile) error {
	f.profiles[profile.ID] = profile
	f.taken[profile.Username] = profile.ID
	return nil
}

func (f *fakeProfileRepo) Update(profile *model.Profile) error {
	old := f.profiles[profile.ID]
	if old != nil {
		delete(f.taken, old.Username)
	}
	f.profiles[profile.ID] = profile
	f.taken[profile.Username] = profile.ID
	return nil
}

func (f *fakeProfileRepo) UpdateAvatarURL(userID, avatarURL string) error {
	p, ok := f.profiles[userID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	p.AvatarURL = &avatarURL
	return nil
}

func newTestProfileService(repo repository.ProfileRepository) *ProfileService {
	email := NewEmailService("", "noreply@test.local", "http://localhost", "Resolved", true)
	return NewProfileService(repo, email)
}

func TestCompleteOnboarding(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestProfileService(repo)
	user := &model.User{ID: "u1", Email: "anna@example.com"}

	profile, err := svc.CompleteOnboarding(user, ProfileInput{
		Username: "  Anna_2026  ",
		FullName: "Anna Jones",
		Bio:      "Runner",
	}, "https://lh3.example.com/photo.jpg")
	require.NoError(t, err)

	require.Equal(t, "anna_2026", profile.Username, "username is lowercased and trimmed")
	require.Equal(t, "u1", profile.ID)
	require.NotNil(t, profile.AvatarURL)
	require.Equal(t, "https://lh3.example.com/photo.jpg", *profile.AvatarURL)
	require.NotNil(t, profile.Bio)
	require.Equal(t, "Runner", *profile.Bio)
	require.Nil(t, profile.Profession, "empty optional fields stay NULL")
}

func TestCompleteOnboardingSecondProfile(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestProfileService(repo)
	user := &model.User{ID: "u1", Email: "anna@example.com"}

	_, err := svc.CompleteOnboarding(user, ProfileInput{Username: "anna", FullName: "Anna"}, "")
	require.NoError(t, err)

	_, err = svc.CompleteOnboarding(user, ProfileInput{Username: "anna2", FullName: "Anna"}, "")
	require.ErrorIs(t, err, ErrProfileExists)
}

func TestCompleteOnboardingValidation(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestProfileService(repo)
	require.NoError(t, repo.Create(&model.Profile{ID: "other", Username: "taken", FullName: "Other"}))

	tests := []struct {
		name  string
		input ProfileInput
		want  error
	}{
		{"reserved username", ProfileInput{Username: "admin", FullName: "A"}, validation.ErrUsernameReserved},
		{"reserved case-insensitive", ProfileInput{Username: "Dashboard", FullName: "A"}, validation.ErrUsernameReserved},
		{"invalid characters", ProfileInput{Username: "anna-jones", FullName: "A"}, validation.ErrUsernameFormat},
		{"empty username", ProfileInput{Username: "", FullName: "A"}, validation.ErrUsernameRequired},
		{"taken username", ProfileInput{Username: "taken", FullName: "A"}, ErrUsernameTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &model.User{ID: "u1", Email: "a@example.com"}
			_, err := svc.CompleteOnboarding(user, tt.input, "")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateKeepsOwnUsername(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestProfileService(repo)
	user := &model.User{ID: "u1", Email: "anna@example.com"}

	_, err := svc.CompleteOnboarding(user, ProfileInput{Username: "anna", FullName: "Anna"}, "")
	require.NoError(t, err)

	// Re-submitting the same username must not collide with itself
	profile, err := svc.Update("u1", ProfileInput{
		Username:   "anna",
		FullName:   "Anna Jones",
		Profession: "Engineer",
	})
	require.NoError(t, err)
	require.Equal(t, "Anna Jones", profile.FullName)
	require.NotNil(t, profile.Profession)
}

func TestUpdateRejectsForeignUsername(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestProfileService(repo)

	require.NoError(t, repo.Create(&model.Profile{ID: "u1", Username: "anna", FullName: "Anna"}))
	require.NoError(t, repo.Create(&model.Profile{ID: "u2", Username: "ben", FullName: "Ben"}))

	_, err := svc.Update("u2", ProfileInput{Username: "anna", FullName: "Ben"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}
