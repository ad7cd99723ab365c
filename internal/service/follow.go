package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/resolved-app/resolved/internal/repository"
)

var (
	ErrSelfFollow = errors.New("cannot follow yourself")
)

type FollowService struct {
	followRepo   repository.FollowRepository
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	emailService *EmailService
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	emailService *EmailService,
) *FollowService {
	return &FollowService{
		followRepo:   followRepo,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		emailService: emailService,
	}
}

// Follow creates the directed edge and notifies the followed user. Following
// someone twice is a no-op at the API level but surfaces as ErrAlreadyFollows
// from the repository.
func (s *FollowService) Follow(followerID, followingID string) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	// The target must have claimed a profile; bare users aren't followable.
	followed, err := s.profileRepo.ByID(followingID)
	if err != nil {
		return err
	}

	err = s.followRepo.Create(followerID, followingID)
	if err != nil {
		return err
	}

	s.notify(followerID, followed.FullName, followingID)
	return nil
}

func (s *FollowService) Unfollow(followerID, followingID string) error {
	return s.followRepo.Delete(followerID, followingID)
}

func (s *FollowService) IsFollowing(followerID, followingID string) (bool, error) {
	return s.followRepo.Exists(followerID, followingID)
}

// Counts returns follower and following totals for a profile page.
func (s *FollowService) Counts(userID string) (followers, following int, err error) {
	followers, err = s.followRepo.CountFollowers(userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count followers: %w", err)
	}
	following, err = s.followRepo.CountFollowing(userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count following: %w", err)
	}
	return followers, following, nil
}

// notify emails the followed user. Failures are logged, never surfaced; the
// follow itself already succeeded.
func (s *FollowService) notify(followerID, followedName, followingID string) {
	follower, err := s.profileRepo.ByID(followerID)
	if err != nil {
		slog.Warn("follow notification skipped", "error", err, "follower_id", followerID)
		return
	}

	followedUser, err := s.userRepo.ByID(followingID)
	if err != nil {
		slog.Warn("follow notification skipped", "error", err, "user_id", followingID)
		return
	}

	err = s.emailService.SendFollowNotification(followedUser.Email, followedName, follower.FullName, follower.Username)
	if err != nil {
		slog.Warn("failed to send follow notification", "error", err, "user_id", followingID)
	}
}
