package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/resolved-app/resolved/internal/api"
	"github.com/resolved-app/resolved/internal/ctxkeys"
	"github.com/resolved-app/resolved/internal/goalstate"
	"github.com/resolved-app/resolved/internal/repository"
	"github.com/resolved-app/resolved/internal/service"
	"github.com/resolved-app/resolved/internal/validation"
)

type profileHandler struct {
	profileService *service.ProfileService
	goalService    *service.GoalService
	followService  *service.FollowService
	avatarService  *service.AvatarService
}

func NewProfileHandler(
	profileService *service.ProfileService,
	goalService *service.GoalService,
	followService *service.FollowService,
	avatarService *service.AvatarService,
) *profileHandler {
	return &profileHandler{
		profileService: profileService,
		goalService:    goalService,
		followService:  followService,
		avatarService:  avatarService,
	}
}

type profilePageView struct {
	Profile    profileView        `json:"profile"`
	Goals      []goalView         `json:"goals"`
	Progress   goalstate.Progress `json:"progress"`
	Followers  int                `json:"followers"`
	Following  int                `json:"following"`
	IsOwner    bool               `json:"is_owner"`
	IsFollowed bool               `json:"is_followed"`
	EditWindow editWindowView     `json:"edit_window"`
	CSRFToken  string             `json:"csrf_token"`
}

// Show renders the public profile page payload. The viewer may be anonymous,
// a visitor, or the owner; non-owners only see goals marked public.
func (h *profileHandler) Show(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	if validation.IsReservedUsername(username) {
		api.Error(w, http.StatusNotFound, "profile not found")
		return
	}

	profile, err := h.profileService.ByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			api.Error(w, http.StatusNotFound, "profile not found")
			return
		}
		slog.Error("failed to load profile", "error", err, "username", username)
		api.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	viewer := ctxkeys.User(r.Context())
	isOwner := viewer != nil && viewer.ID == profile.ID

	store, err := h.goalService.Store(profile.ID)
	if err != nil {
		slog.Error("failed to load goals", "error", err, "user_id", profile.ID)
		api.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	goals := make([]goalView, 0, len(store.Goals()))
	for _, g := range store.Goals() {
		if !isOwner && !g.IsPublic {
			continue
		}
		goals = append(goals, newGoalView(g))
	}

	followers, following, err := h.followService.Counts(profile.ID)
	if err != nil {
		slog.Warn("failed to load follow counts", "error", err, "user_id", profile.ID)
	}

	isFollowed := false
	if viewer != nil && !isOwner {
		isFollowed, err = h.followService.IsFollowing(viewer.ID, profile.ID)
		if err != nil {
			slog.Warn("failed to check follow state", "error", err, "user_id", viewer.ID)
		}
	}

	api.JSON(w, http.StatusOK, profilePageView{
		Profile:    newProfileView(profile),
		Goals:      goals,
		Progress:   store.Progress(),
		Followers:  followers,
		Following:  following,
		IsOwner:    isOwner,
		IsFollowed: isFollowed,
		EditWindow: newEditWindowView(time.Now()),
		CSRFToken:  ctxkeys.CSRFToken(r.Context()),
	})
}

// Update edits the profile fields. Unlike goals, profile details are editable
// at any time; the edit windows only gate goal structure.
func (h *profileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.ProfileInput
	err := api.Decode(r, &input)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.profileService.Update(user.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			api.Error(w, http.StatusConflict, err.Error())
		case errors.Is(err, repository.ErrProfileNotFound):
			api.Error(w, http.StatusNotFound, "profile not found")
		default:
			api.Error(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}

	slog.Info("profile updated", "user_id", user.ID, "username", profile.Username)
	api.JSON(w, http.StatusOK, newProfileView(profile))
}

// UploadAvatar stores a new avatar image and returns its public URL.
func (h *profileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := r.ParseMultipartForm(validation.AvatarConstraints.MaxSize)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid upload")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close uploaded file", "error", closeErr)
		}
	}()

	err = validation.ValidateFile(header, validation.AvatarConstraints)
	if err != nil {
		api.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	url, err := h.avatarService.Upload(user.ID, file, header)
	if err != nil {
		slog.Error("avatar upload failed", "error", err, "user_id", user.ID)
		api.Error(w, http.StatusInternalServerError, "failed to upload avatar")
		return
	}

	slog.Info("avatar uploaded", "user_id", user.ID)
	api.JSON(w, http.StatusOK, map[string]string{"avatar_url": url})
}
