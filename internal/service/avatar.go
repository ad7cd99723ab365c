package service

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/resolved-app/resolved/internal/repository"
	"github.com/resolved-app/resolved/internal/storage"
)

// AvatarService stores profile pictures in S3-compatible storage and points
// the profile's avatar_url at them. Avatars seeded from Google stay as plain
// external URLs until the first upload replaces them.
type AvatarService struct {
	profileRepo repository.ProfileRepository
	storage     storage.Storage
}

func NewAvatarService(profileRepo repository.ProfileRepository, storage storage.Storage) *AvatarService {
	return &AvatarService{
		profileRepo: profileRepo,
		storage:     storage,
	}
}

// Upload saves the image under a fresh key and updates the profile. The
// caller validates the file first. Returns the new public URL.
func (s *AvatarService) Upload(userID string, file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := fmt.Sprintf("avatars/%s%s", uuid.New().String(), ext)

	err := s.storage.Save(path, file)
	if err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}

	url := s.storage.URL(path)
	err = s.profileRepo.UpdateAvatarURL(userID, url)
	if err != nil {
		// Keep storage consistent with the profile row.
		delErr := s.storage.Delete(path)
		if delErr != nil {
			return "", fmt.Errorf("failed to update avatar url: %w (cleanup also failed: %v)", err, delErr)
		}
		return "", fmt.Errorf("failed to update avatar url: %w", err)
	}

	return url, nil
}
