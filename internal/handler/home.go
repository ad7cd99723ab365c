package handler

import (
	"net/http"

	"github.com/resolved-app/resolved/internal/api"
	"github.com/resolved-app/resolved/internal/ctxkeys"
	"github.com/resolved-app/resolved/internal/service"
)

type homeHandler struct {
	profileService *service.ProfileService
}

func NewHomeHandler(profileService *service.ProfileService) *homeHandler {
	return &homeHandler{profileService: profileService}
}

// Home routes the root URL: profiled users land on their profile page,
// authenticated users without a profile go to onboarding, guests get the
// landing payload.
func (h *homeHandler) Home(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		api.JSON(w, http.StatusOK, map[string]string{
			"login_url":  "/auth/google",
			"csrf_token": ctxkeys.CSRFToken(r.Context()),
		})
		return
	}

	profile, err := h.profileService.ByID(user.ID)
	if err != nil {
		http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/"+profile.Username, http.StatusSeeOther)
}

// Health is the load balancer probe.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
