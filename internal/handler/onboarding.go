package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/resolved-app/resolved/internal/api"
	"github.com/resolved-app/resolved/internal/ctxkeys"
	"github.com/resolved-app/resolved/internal/service"
	"github.com/resolved-app/resolved/internal/validation"
)

type onboardingHandler struct {
	profileService *service.ProfileService
}

func NewOnboardingHandler(profileService *service.ProfileService) *onboardingHandler {
	return &onboardingHandler{profileService: profileService}
}

// Prefill returns the Google-sourced name and avatar for the onboarding form.
func (h *onboardingHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	p := readPrefillCookie(r)
	api.JSON(w, http.StatusOK, map[string]any{
		"email":      user.Email,
		"full_name":  p.FullName,
		"avatar_url": p.AvatarURL,
		"csrf_token": ctxkeys.CSRFToken(r.Context()),
	})
}

// Complete claims the username and creates the profile.
func (h *onboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.ProfileInput
	err := api.Decode(r, &input)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	avatarURL := readPrefillCookie(r).AvatarURL

	profile, err := h.profileService.CompleteOnboarding(user, input, avatarURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken),
			errors.Is(err, validation.ErrUsernameReserved),
			errors.Is(err, validation.ErrUsernameRequired),
			errors.Is(err, validation.ErrUsernameTooLong),
			errors.Is(err, validation.ErrUsernameFormat):
			api.Error(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrProfileExists):
			api.Error(w, http.StatusConflict, err.Error())
		default:
			slog.Error("onboarding failed", "error", err, "user_id", user.ID)
			api.Error(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}

	clearPrefillCookie(w)

	slog.Info("onboarding completed", "user_id", user.ID, "username", profile.Username)
	api.JSON(w, http.StatusCreated, newProfileView(profile))
}
