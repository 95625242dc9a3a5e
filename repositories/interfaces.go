package repositories

import (
	"context"
	"errors"

	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// The context passed to fn carries the transaction, so repositories
	// called with it join the transaction.
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// UserRepository handles registered user accounts
type UserRepository interface {
	// Create inserts the user and sets its ID.
	// Returns ErrDuplicate when the username or email is taken.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AboutRepository handles the biography record
type AboutRepository interface {
	// Get returns the first about record, or ErrNotFound when none exists
	Get(ctx context.Context) (*models.About, error)

	// Create inserts a new record and sets its ID
	Create(ctx context.Context, about *models.About) error

	// Update overwrites bio and profile picture of an existing record
	Update(ctx context.Context, about *models.About) error
}

// SocialLinkRepository handles social profile links
type SocialLinkRepository interface {
	List(ctx context.Context) ([]*models.SocialLink, error)
	Create(ctx context.Context, link *models.SocialLink) error
	Delete(ctx context.Context, id int64) error
}

// EducationRepository handles the education timeline
type EducationRepository interface {
	List(ctx context.Context) ([]*models.Education, error)
	GetByID(ctx context.Context, id int64) (*models.Education, error)
	Create(ctx context.Context, e *models.Education) error
	Update(ctx context.Context, e *models.Education) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// ExperienceRepository handles the work history
type ExperienceRepository interface {
	List(ctx context.Context) ([]*models.Experience, error)
	GetByID(ctx context.Context, id int64) (*models.Experience, error)
	Create(ctx context.Context, e *models.Experience) error
	Update(ctx context.Context, e *models.Experience) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// SkillRepository handles skill badges
type SkillRepository interface {
	List(ctx context.Context) ([]*models.Skill, error)
	Create(ctx context.Context, skill *models.Skill) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// ProjectRepository handles portfolio projects
type ProjectRepository interface {
	// List returns projects newest first. A non-empty query filters
	// case-insensitively on title, overview and description.
	List(ctx context.Context, query string) ([]*models.Project, error)

	// Latest returns at most limit projects, newest first
	Latest(ctx context.Context, limit int) ([]*models.Project, error)

	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// ProjectCommentRepository handles comments on projects
type ProjectCommentRepository interface {
	// ListByProject returns comments newest first, with the author's username
	ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectComment, error)

	GetByID(ctx context.Context, id int64) (*models.ProjectComment, error)
	Create(ctx context.Context, c *models.ProjectComment) error
	UpdateText(ctx context.Context, id int64, text string) error
	Delete(ctx context.Context, id int64) error
	DeleteByProject(ctx context.Context, projectID int64) error
}

// ProjectRatingRepository handles project ratings
type ProjectRatingRepository interface {
	// Upsert stores the user's rating for the project. A second rating by the
	// same user on the same project updates the existing row.
	Upsert(ctx context.Context, r *models.ProjectRating) error

	// Summary returns the raw average (nil when unrated) and rating count
	Summary(ctx context.Context, projectID int64) (*float64, int, error)

	// GetForUser returns the user's rating, or ErrNotFound
	GetForUser(ctx context.Context, projectID, userID int64) (*models.ProjectRating, error)

	DeleteByProject(ctx context.Context, projectID int64) error
}

// ContactMessageRepository handles contact page messages
type ContactMessageRepository interface {
	// List returns messages newest first
	List(ctx context.Context) ([]*models.ContactMessage, error)

	GetByID(ctx context.Context, id int64) (*models.ContactMessage, error)
	Create(ctx context.Context, m *models.ContactMessage) error
	UpdateMessage(ctx context.Context, id int64, message string) error

	// SetReply stores the admin reply; nil clears it
	SetReply(ctx context.Context, id int64, reply *string) error

	Delete(ctx context.Context, id int64) error
}

// Repositories holds all repository instances
type Repositories struct {
	Users           UserRepository
	About           AboutRepository
	SocialLinks     SocialLinkRepository
	Education       EducationRepository
	Experience      ExperienceRepository
	Skills          SkillRepository
	Projects        ProjectRepository
	ProjectComments ProjectCommentRepository
	ProjectRatings  ProjectRatingRepository
	Messages        ContactMessageRepository
}
