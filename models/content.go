package models

import "time"

// About is the single biography record shown on the home and about pages.
type About struct {
	ID         int64     `json:"id" db:"id"`
	Bio        string    `json:"bio" db:"bio"`
	ProfilePic *string   `json:"profile_pic,omitempty" db:"profile_pic"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the About model
func (About) TableName() string {
	return "about"
}

// SocialLink points at one of the owner's profiles elsewhere.
type SocialLink struct {
	ID        int64     `json:"id" db:"id"`
	Platform  string    `json:"platform" db:"platform"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the SocialLink model
func (SocialLink) TableName() string {
	return "social_links"
}

// Education is one entry of the education timeline.
type Education struct {
	ID          int64  `json:"id" db:"id"`
	Year        string `json:"year" db:"year"`
	Institution string `json:"institution" db:"institution"`
	Degree      string `json:"degree" db:"degree"`
	Description string `json:"description" db:"description"`
}

// TableName returns the table name for the Education model
func (Education) TableName() string {
	return "education"
}

// Experience is one entry of the work history.
type Experience struct {
	ID           int64  `json:"id" db:"id"`
	Role         string `json:"role" db:"role"`
	Organisation string `json:"organisation" db:"organisation"`
	Duration     string `json:"duration" db:"duration"`
	Description  string `json:"description" db:"description"`
}

// TableName returns the table name for the Experience model
func (Experience) TableName() string {
	return "experience"
}

// Skill is a named skill badge.
type Skill struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// TableName returns the table name for the Skill model
func (Skill) TableName() string {
	return "skills"
}

// SiteStats holds the counters shown on the home page.
type SiteStats struct {
	Projects   int `json:"projects"`
	Skills     int `json:"skills"`
	Education  int `json:"education"`
	Experience int `json:"experience"`
}

// HomePage aggregates everything the landing page renders.
type HomePage struct {
	About          *About        `json:"about"`
	LatestProjects []*Project    `json:"latest_projects"`
	Stats          SiteStats     `json:"stats"`
	SocialLinks    []*SocialLink `json:"social_links"`
}
