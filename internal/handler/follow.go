package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/resolved-app/resolved/internal/api"
	"github.com/resolved-app/resolved/internal/ctxkeys"
	"github.com/resolved-app/resolved/internal/repository"
	"github.com/resolved-app/resolved/internal/service"
)

type followHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *followHandler {
	return &followHandler{followService: followService}
}

// Create follows the given user. Following someone who is already followed
// returns the same shape as a fresh follow.
func (h *followHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	followingID := r.PathValue("userID")

	err := h.followService.Follow(user.ID, followingID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrAlreadyFollows):
		// Idempotent from the client's point of view
	case errors.Is(err, service.ErrSelfFollow):
		api.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, repository.ErrProfileNotFound):
		api.Error(w, http.StatusNotFound, "profile not found")
		return
	default:
		slog.Error("follow failed", "error", err, "user_id", user.ID, "following_id", followingID)
		api.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	followers, _, countErr := h.followService.Counts(followingID)
	if countErr != nil {
		slog.Warn("failed to load follower count", "error", countErr, "user_id", followingID)
	}

	api.JSON(w, http.StatusOK, map[string]any{
		"is_followed": true,
		"followers":   followers,
	})
}

// Delete unfollows the given user.
func (h *followHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	followingID := r.PathValue("userID")

	err := h.followService.Unfollow(user.ID, followingID)
	if err != nil && !errors.Is(err, repository.ErrFollowNotFound) {
		slog.Error("unfollow failed", "error", err, "user_id", user.ID, "following_id", followingID)
		api.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	followers, _, countErr := h.followService.Counts(followingID)
	if countErr != nil {
		slog.Warn("failed to load follower count", "error", countErr, "user_id", followingID)
	}

	api.JSON(w, http.StatusOK, map[string]any{
		"is_followed": false,
		"followers":   followers,
	})
}
