package handler

import (
	"time"

	"github.com/resolved-app/resolved/internal/editwindow"
	"github.com/resolved-app/resolved/internal/model"
)

// View types shape the JSON payloads. Models stay free of json tags; what the
// client sees is decided here, including derived fields like is_complete.

type profileView struct {
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	Profession *string   `json:"profession,omitempty"`
	Location   *string   `json:"location,omitempty"`
	Bio        *string   `json:"bio,omitempty"`
	SocialLink *string   `json:"social_link,omitempty"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func newProfileView(p *model.Profile) profileView {
	return profileView{
		Username:   p.Username,
		FullName:   p.FullName,
		Profession: p.Profession,
		Location:   p.Location,
		Bio:        p.Bio,
		SocialLink: p.SocialLink,
		AvatarURL:  p.AvatarURL,
		CreatedAt:  p.CreatedAt,
	}
}

type subGoalView struct {
	ID          string    `json:"id"`
	GoalID      string    `json:"goal_id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

type goalView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	IsPublic    bool          `json:"is_public"`
	IsCompleted bool          `json:"is_completed"`
	IsComplete  bool          `json:"is_complete"`
	IsEdited    bool          `json:"is_edited"`
	Position    int           `json:"position"`
	CreatedAt   time.Time     `json:"created_at"`
	LastEdited  *time.Time    `json:"last_edited,omitempty"`
	SubGoals    []subGoalView `json:"sub_goals"`
}

func newGoalView(g *model.Goal) goalView {
	subGoals := make([]subGoalView, 0, len(g.SubGoals))
	for _, sg := range g.SubGoals {
		subGoals = append(subGoals, newSubGoalView(sg))
	}
	return goalView{
		ID:          g.ID,
		Title:       g.Title,
		IsPublic:    g.IsPublic,
		IsCompleted: g.IsCompleted,
		IsComplete:  g.IsComplete(),
		IsEdited:    g.IsEdited(),
		Position:    g.Position,
		CreatedAt:   g.CreatedAt,
		LastEdited:  g.LastEdited,
		SubGoals:    subGoals,
	}
}

func newSubGoalView(sg *model.SubGoal) subGoalView {
	return subGoalView{
		ID:          sg.ID,
		GoalID:      sg.GoalID,
		Title:       sg.Title,
		IsCompleted: sg.IsCompleted,
		CreatedAt:   sg.CreatedAt,
	}
}

type editWindowView struct {
	Open        bool       `json:"open"`
	Window      string     `json:"window,omitempty"`
	Description string     `json:"description,omitempty"`
	NextWindow  string     `json:"next_window,omitempty"`
	NextStart   *time.Time `json:"next_start,omitempty"`
}

func newEditWindowView(now time.Time) editWindowView {
	current := editwindow.Current(now)
	if current != editwindow.None {
		return editWindowView{
			Open:        true,
			Window:      current.String(),
			Description: current.Description(),
		}
	}

	next := editwindow.Next(now)
	return editWindowView{
		Open:       false,
		NextWindow: next.Label(),
		NextStart:  &next.Start,
	}
}
