package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/resolved-app/resolved/internal/api"
	"github.com/resolved-app/resolved/internal/config"
	"github.com/resolved-app/resolved/internal/ctxkeys"
	"github.com/resolved-app/resolved/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// onboardingPrefillCookie carries the Google-sourced name and avatar from the
// OAuth callback to the onboarding form. Short lived, not a credential.
const onboardingPrefillCookie = "onboarding_prefill"

type authHandler struct {
	authService       *service.AuthService
	profileService    *service.ProfileService
	googleOAuthConfig *oauth2.Config
}

func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService, cfg *config.Config) *authHandler {
	return &authHandler{
		authService:    authService,
		profileService: profileService,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GoogleAuth redirects the user to the Google OAuth consent screen.
func (h *authHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	// Generate secure state token for CSRF protection
	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	// Store state in secure cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction, // Secure flag based on APP_ENV (safer than r.TLS behind load balancers)
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	url := h.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback handles the OAuth callback from Google.
func (h *authHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	// Validate state parameter for CSRF protection
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("google oauth state validation failed", "error", err)
		api.Error(w, http.StatusBadRequest, "OAuth authentication failed. Please try again.")
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		api.Error(w, http.StatusBadRequest, "OAuth authentication failed. Please try again.")
		return
	}

	// Exchange code for token
	token, err := h.googleOAuthConfig.Exchange(context.Background(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		api.Error(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}

	// Get user info from Google
	client := h.googleOAuthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		api.Error(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	var userInfo struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		slog.Error("failed to decode google user info", "error", err)
		api.Error(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}

	// Authenticate or create user
	user, err := h.authService.AuthenticateGoogle(userInfo.Email, userInfo.ID)
	if err != nil {
		slog.Error("google authentication failed", "error", err, "email", userInfo.Email)
		api.Error(w, http.StatusInternalServerError, "Authentication failed. Please try again.")
		return
	}

	// Generate JWT
	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		api.Error(w, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(h.authService.JWTExpiry()))

	// Check if user needs onboarding
	needsOnboarding, err := h.authService.NeedsOnboarding(user.ID)
	if err != nil {
		slog.Warn("failed to check onboarding status", "error", err, "user_id", user.ID)
	}

	if needsOnboarding {
		slog.Info("new user needs onboarding", "user_id", user.ID, "email", user.Email)
		setPrefillCookie(w, r, userInfo.Name, userInfo.Picture)
		http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
		return
	}

	slog.Info("user logged in with google oauth", "user_id", user.ID, "email", user.Email)

	profile, err := h.profileService.ByID(user.ID)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/"+profile.Username, http.StatusSeeOther)
}

// prefill is the Google-sourced data shown on the onboarding form.
type prefill struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

func setPrefillCookie(w http.ResponseWriter, r *http.Request, name, picture string) {
	data, err := json.Marshal(prefill{FullName: name, AvatarURL: picture})
	if err != nil {
		return
	}

	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     onboardingPrefillCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   1800, // 30 minutes
	})
}

func readPrefillCookie(r *http.Request) prefill {
	cookie, err := r.Cookie(onboardingPrefillCookie)
	if err != nil {
		return prefill{}
	}

	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return prefill{}
	}

	var p prefill
	err = json.Unmarshal(data, &p)
	if err != nil {
		return prefill{}
	}
	return p
}

func clearPrefillCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   onboardingPrefillCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// generateOAuthState creates cryptographically secure random state token for OAuth CSRF protection
func generateOAuthState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
