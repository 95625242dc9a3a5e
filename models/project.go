package models

import (
	"math"
	"time"
)

// Project is a portfolio entry.
type Project struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Overview    *string   `json:"overview,omitempty" db:"overview"`
	Link        *string   `json:"link,omitempty" db:"link"`
	Description string    `json:"description" db:"description"`
	Image       *string   `json:"image,omitempty" db:"image"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// ProjectComment is a registered user's comment on a project.
// UserID is the owner checked by the access policy.
type ProjectComment struct {
	ID        int64     `json:"id" db:"id"`
	ProjectID int64     `json:"project_id" db:"project_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Username  string    `json:"username,omitempty" db:"username"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the ProjectComment model
func (ProjectComment) TableName() string {
	return "project_comments"
}

// OwnerID returns the comment's owner as the nullable id the policy expects.
func (c *ProjectComment) OwnerID() *int64 {
	id := c.UserID
	return &id
}

// NewProjectComment creates a new comment owned by userID
func NewProjectComment(projectID, userID int64, text string) *ProjectComment {
	return &ProjectComment{
		ProjectID: projectID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

// ProjectRating is one user's 1-5 score for a project.
// (project_id, user_id) is unique.
type ProjectRating struct {
	ID        int64     `json:"id" db:"id"`
	ProjectID int64     `json:"project_id" db:"project_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the ProjectRating model
func (ProjectRating) TableName() string {
	return "project_ratings"
}

// RatingSummary aggregates the ratings of a project.
type RatingSummary struct {
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

// NewRatingSummary builds a summary from a raw average.
// The average is rounded to one decimal and is nil when there are no ratings.
func NewRatingSummary(avg *float64, count int) RatingSummary {
	if avg == nil || count == 0 {
		return RatingSummary{Count: count}
	}
	rounded := math.Round(*avg*10) / 10
	return RatingSummary{Average: &rounded, Count: count}
}

// ProjectDetail is the project page: the project, its comments and ratings.
type ProjectDetail struct {
	Project  *Project          `json:"project"`
	Comments []*ProjectComment `json:"comments"`
	Rating   RatingSummary     `json:"rating"`
	MyRating *int              `json:"my_rating"`
}
