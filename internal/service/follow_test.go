package service

import (
	"testing"

	"github.com/resolved-app/resolved/internal/model"
	"github.com/resolved-app/resolved/internal/repository"
	"github.com/stretchr/testify/require"
)

type fakeFollowRepo struct {
	edges map[[2]string]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: map[[2]string]bool{}}
}

func (f *fakeFollowRepo) Create(followerID, followingID string) error {
	key := [2]string{followerID, followingID}
	if f.edges[key] {
		return repository.ErrAlreadyFollows
	}
	f.edges[key] = true
	return nil
}

func (f *fakeFollowRepo) Delete(followerID, followingID string) error {
	key := [2]string{followerID, followingID}
	if !f.edges[key] {
		return repository.ErrFollowNotFound
	}
	delete(f.edges, key)
	return nil
}

func (f *fakeFollowRepo) Exists(followerID, followingID string) (bool, error) {
	return f.edges[[2]string{followerID, followingID}], nil
}

func (f *fakeFollowRepo) CountFollowers(userID string) (int, error) {
	n := 0
	for key := range f.edges {
		if key[1] == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFollowRepo) CountFollowing(userID string) (int, error) {
	n := 0
	for key := range f.edges {
		if key[0] == userID {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) ByID(userID string) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) Create(user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func newTestFollowService(t *testing.T) (*FollowService, *fakeFollowRepo) {
	t.Helper()

	followRepo := newFakeFollowRepo()
	userRepo := &fakeUserRepo{users: map[string]*model.User{
		"u1": {ID: "u1", Email: "anna@example.com"},
		"u2": {ID: "u2", Email: "ben@example.com"},
	}}
	profileRepo := newFakeProfileRepo()
	require.NoError(t, profileRepo.Create(&model.Profile{ID: "u1", Username: "anna", FullName: "Anna"}))
	require.NoError(t, profileRepo.Create(&model.Profile{ID: "u2", Username: "ben", FullName: "Ben"}))

	email := NewEmailService("", "noreply@test.local", "http://localhost", "Resolved", true)
	return NewFollowService(followRepo, userRepo, profileRepo, email), followRepo
}

func TestFollow(t *testing.T) {
	svc, _ := newTestFollowService(t)

	require.NoError(t, svc.Follow("u1", "u2"))

	following, err := svc.IsFollowing("u1", "u2")
	require.NoError(t, err)
	require.True(t, following)

	// The edge is directed
	following, err = svc.IsFollowing("u2", "u1")
	require.NoError(t, err)
	require.False(t, following)

	followers, followingCount, err := svc.Counts("u2")
	require.NoError(t, err)
	require.Equal(t, 1, followers)
	require.Equal(t, 0, followingCount)
}

func TestFollowSelf(t *testing.T) {
	svc, repo := newTestFollowService(t)

	err := svc.Follow("u1", "u1")
	require.ErrorIs(t, err, ErrSelfFollow)
	require.Empty(t, repo.edges)
}

func TestFollowTwice(t *testing.T) {
	svc, _ := newTestFollowService(t)

	require.NoError(t, svc.Follow("u1", "u2"))
	err := svc.Follow("u1", "u2")
	require.ErrorIs(t, err, repository.ErrAlreadyFollows)
}

func TestFollowUnprofiledTarget(t *testing.T) {
	svc, _ := newTestFollowService(t)

	err := svc.Follow("u1", "u3")
	require.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestUnfollow(t *testing.T) {
	svc, _ := newTestFollowService(t)

	require.NoError(t, svc.Follow("u1", "u2"))
	require.NoError(t, svc.Unfollow("u1", "u2"))

	following, err := svc.IsFollowing("u1", "u2")
	require.NoError(t, err)
	require.False(t, following)

	err = svc.Unfollow("u1", "u2")
	require.ErrorIs(t, err, repository.ErrFollowNotFound)
}
