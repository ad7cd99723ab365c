package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/resolved-app/resolved/internal/model"
	"github.com/resolved-app/resolved/internal/repository"
	"github.com/resolved-app/resolved/internal/validation"
)

var (
	ErrUsernameTaken = errors.New("this username is already taken")
	ErrProfileExists = errors.New("profile already exists")
)

// ProfileInput carries the onboarding/edit form. Optional fields are empty
// strings when unset and stored as NULL.
type ProfileInput struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Profession string `json:"profession"`
	Location   string `json:"location"`
	Bio        string `json:"bio"`
	SocialLink string `json:"social_link"`
}

type ProfileService struct {
	profileRepository repository.ProfileRepository
	emailService      *EmailService
}

func NewProfileService(profileRepository repository.ProfileRepository, emailService *EmailService) *ProfileService {
	return &ProfileService{
		profileRepository: profileRepository,
		emailService:      emailService,
	}
}

func (s *ProfileService) ByID(userID string) (*model.Profile, error) {
	return s.profileRepository.ByID(userID)
}

func (s *ProfileService) ByUsername(username string) (*model.Profile, error) {
	return s.profileRepository.ByUsername(strings.ToLower(username))
}

// CompleteOnboarding claims the profile URL. Exactly one profile exists per
// user; a second attempt fails. avatarURL is seeded from the Google account
// and may be empty.
func (s *ProfileService) CompleteOnboarding(user *model.User, input ProfileInput, avatarURL string) (*model.Profile, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))

	err := s.validateInput(input, user.ID)
	if err != nil {
		return nil, err
	}

	_, err = s.profileRepository.ByID(user.ID)
	if err == nil {
		return nil, ErrProfileExists
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to check profile: %w", err)
	}

	profile := &model.Profile{
		ID:         user.ID,
		Username:   input.Username,
		FullName:   strings.TrimSpace(input.FullName),
		Profession: optional(input.Profession),
		Location:   optional(input.Location),
		Bio:        optional(input.Bio),
		SocialLink: optional(input.SocialLink),
		AvatarURL:  optional(avatarURL),
	}

	err = s.profileRepository.Create(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(user.Email, profile.FullName, profile.Username)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "email", user.Email)
	}

	return profile, nil
}

// Update edits the owner's profile. Username changes follow the same rules as
// onboarding; keeping the current name is always allowed.
func (s *ProfileService) Update(userID string, input ProfileInput) (*model.Profile, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))

	err := s.validateInput(input, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	profile.Username = input.Username
	profile.FullName = strings.TrimSpace(input.FullName)
	profile.Profession = optional(input.Profession)
	profile.Location = optional(input.Location)
	profile.Bio = optional(input.Bio)
	profile.SocialLink = optional(input.SocialLink)

	err = s.profileRepository.Update(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

func (s *ProfileService) UpdateAvatarURL(userID, avatarURL string) error {
	return s.profileRepository.UpdateAvatarURL(userID, avatarURL)
}

func (s *ProfileService) validateInput(input ProfileInput, userID string) error {
	err := validation.ValidateUsername(input.Username)
	if err != nil {
		return err
	}
	err = validation.ValidateFullName(input.FullName)
	if err != nil {
		return err
	}
	err = validation.ValidateBio(input.Bio)
	if err != nil {
		return err
	}

	taken, err := s.profileRepository.UsernameTaken(input.Username, userID)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return ErrUsernameTaken
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
