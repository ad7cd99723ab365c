package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/resolved-app/resolved/internal/api"
	"github.com/resolved-app/resolved/internal/ctxkeys"
	"github.com/resolved-app/resolved/internal/goalstate"
	"github.com/resolved-app/resolved/internal/repository"
	"github.com/resolved-app/resolved/internal/service"
)

type goalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *goalHandler {
	return &goalHandler{goalService: goalService}
}

type titleInput struct {
	Title string `json:"title"`
}

// Create adds a new goal. Structural change, so it only succeeds during an
// edit window.
func (h *goalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input titleInput
	err := api.Decode(r, &input)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := h.goalService.AddGoal(r.Context(), user.ID, input.Title)
	if err != nil {
		goalError(w, err, user.ID)
		return
	}

	slog.Info("goal created", "user_id", user.ID, "goal_id", goal.ID)
	api.JSON(w, http.StatusCreated, newGoalView(goal))
}

// Rename changes a goal's title and stamps last_edited server-side.
func (h *goalHandler) Rename(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	var input titleInput
	err := api.Decode(r, &input)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := h.goalService.RenameGoal(r.Context(), user.ID, goalID, input.Title)
	if err != nil {
		goalError(w, err, user.ID)
		return
	}

	api.JSON(w, http.StatusOK, newGoalView(goal))
}

// Toggle flips a goal's completion. Allowed at any time of year.
func (h *goalHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	goal, err := h.goalService.ToggleGoalCompletion(r.Context(), user.ID, goalID)
	if err != nil {
		goalError(w, err, user.ID)
		return
	}

	api.JSON(w, http.StatusOK, newGoalView(goal))
}

func (h *goalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	err := h.goalService.DeleteGoal(r.Context(), user.ID, goalID)
	if err != nil {
		goalError(w, err, user.ID)
		return
	}

	slog.Info("goal deleted", "user_id", user.ID, "goal_id", goalID)
	api.NoContent(w)
}

// CreateSubGoal adds a sub-goal under a goal. The 30 sub-goal cap is shared
// across all of the owner's goals.
func (h *goalHandler) CreateSubGoal(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	var input titleInput
	err := api.Decode(r, &input)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subGoal, err := h.goalService.AddSubGoal(r.Context(), user.ID, goalID, input.Title)
	if err != nil {
		goalError(w, err, user.ID)
		return
	}

	slog.Info("sub-goal created", "user_id", user.ID, "goal_id", goalID, "sub_goal_id", subGoal.ID)
	api.JSON(w, http.StatusCreated, newSubGoalView(subGoal))
}

func (h *goalHandler) ToggleSubGoal(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")
	subGoalID := r.PathValue("subGoalID")

	subGoal, err := h.goalService.ToggleSubGoalCompletion(r.Context(), user.ID, goalID, subGoalID)
	if err != nil {
		goalError(w, err, user.ID)
		return
	}

	api.JSON(w, http.StatusOK, newSubGoalView(subGoal))
}

func (h *goalHandler) DeleteSubGoal(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")
	subGoalID := r.PathValue("subGoalID")

	err := h.goalService.DeleteSubGoal(r.Context(), user.ID, goalID, subGoalID)
	if err != nil {
		goalError(w, err, user.ID)
		return
	}

	slog.Info("sub-goal deleted", "user_id", user.ID, "goal_id", goalID, "sub_goal_id", subGoalID)
	api.NoContent(w)
}

// goalError maps goal state errors to HTTP statuses.
func goalError(w http.ResponseWriter, err error, userID string) {
	switch {
	case errors.Is(err, goalstate.ErrGoalNotFound),
		errors.Is(err, goalstate.ErrSubGoalNotFound),
		errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrSubGoalNotFound):
		api.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, goalstate.ErrOutsideEditWindow):
		api.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, goalstate.ErrTitleRequired),
		errors.Is(err, goalstate.ErrTitleTooLong),
		errors.Is(err, goalstate.ErrGoalLimitReached),
		errors.Is(err, goalstate.ErrSubGoalLimitReached):
		api.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("goal operation failed", "error", err, "user_id", userID)
		api.Error(w, http.StatusInternalServerError, "something went wrong")
	}
}
