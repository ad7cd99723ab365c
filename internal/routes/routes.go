package routes

import (
	"net/http"

	"github.com/resolved-app/resolved/internal/app"
	"github.com/resolved-app/resolved/internal/handler"
	"github.com/resolved-app/resolved/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(a.ProfileService)
	auth := handler.NewAuthHandler(a.AuthService, a.ProfileService, a.Cfg)
	onboarding := handler.NewOnboardingHandler(a.ProfileService)
	profile := handler.NewProfileHandler(a.ProfileService, a.GoalService, a.FollowService, a.AvatarService)
	goal := handler.NewGoalHandler(a.GoalService)
	follow := handler.NewFollowHandler(a.FollowService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.Home)
	mux.HandleFunc("GET /healthz", handler.Health)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("GET /auth/google", rateLimiter(auth.GoogleAuth))
	mux.HandleFunc("GET /auth/google/callback", rateLimiter(auth.GoogleCallback))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// Onboarding (authenticated, profile not yet claimed)
	mux.HandleFunc("GET /onboarding", middleware.RequireUser(onboarding.Prefill))
	mux.HandleFunc("POST /onboarding", middleware.RequireUser(onboarding.Complete))

	// Public profile page. Registered last among literal routes; the mux
	// prefers more specific patterns, and reserved usernames 404 in the
	// handler as a second line of defense.
	mux.HandleFunc("GET /{username}", profile.Show)

	// ============================================================================
	// PROTECTED ROUTES (/app/*)
	// ============================================================================

	// Profile
	mux.HandleFunc("PATCH /app/profile", middleware.RequireAuth(profile.Update))
	mux.HandleFunc("POST /app/profile/avatar", middleware.RequireAuth(profile.UploadAvatar))

	// Goals
	mux.HandleFunc("POST /app/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("PATCH /app/goals/{id}/title", middleware.RequireAuth(goal.Rename))
	mux.HandleFunc("POST /app/goals/{id}/toggle", middleware.RequireAuth(goal.Toggle))
	mux.HandleFunc("DELETE /app/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Sub-goals
	mux.HandleFunc("POST /app/goals/{id}/subgoals", middleware.RequireAuth(goal.CreateSubGoal))
	mux.HandleFunc("POST /app/goals/{id}/subgoals/{subGoalID}/toggle", middleware.RequireAuth(goal.ToggleSubGoal))
	mux.HandleFunc("DELETE /app/goals/{id}/subgoals/{subGoalID}", middleware.RequireAuth(goal.DeleteSubGoal))

	// Follows
	mux.HandleFunc("POST /app/follows/{userID}", middleware.RequireAuth(follow.Create))
	mux.HandleFunc("DELETE /app/follows/{userID}", middleware.RequireAuth(follow.Delete))

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.Config(a.Cfg), // Config must be first (needed by SecurityHeaders and cookies)
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection, // CSRF protection for all state-changing requests
		middleware.AuthMiddleware(a.AuthService, a.UserService, a.ProfileService),
	)

	return h
}
