package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories"
	"go.uber.org/zap"
)

const projectColumns = `id, title, overview, link, description, image, created_at`

// ProjectRepository implements repositories.ProjectRepository
type ProjectRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB, logger *zap.Logger) repositories.ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

// List returns projects newest first, optionally filtered by query
func (r *ProjectRepository) List(ctx context.Context, query string) ([]*models.Project, error) {
	if query == "" {
		return r.query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id DESC`)
	}
	return r.query(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE title ILIKE $1 OR overview ILIKE $1 OR description ILIKE $1
		ORDER BY id DESC
	`, "%"+query+"%")
}

// Latest returns the newest projects
func (r *ProjectRepository) Latest(ctx context.Context, limit int) ([]*models.Project, error) {
	return r.query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id DESC LIMIT $1`, limit)
}

func (r *ProjectRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Project, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(s rowScanner) (*models.Project, error) {
	p := &models.Project{}
	err := s.Scan(&p.ID, &p.Title, &p.Overview, &p.Link, &p.Description, &p.Image, &p.CreatedAt)
	return p, err
}

// GetByID retrieves a project
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	row := GetExecutor(ctx, r.db).QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, mapError("get project", err)
	}
	return p, nil
}

// Create inserts a project
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (title, overview, link, description, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		p.Title, p.Overview, p.Link, p.Description, p.Image, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return mapError("create project", err)
	}

	r.logger.Debug("project created", zap.Int64("id", p.ID))
	return nil
}

// Update overwrites a project
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	query := `
		UPDATE projects
		SET title = $2,
		    overview = $3,
		    link = $4,
		    description = $5,
		    image = $6
		WHERE id = $1
	`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		p.ID, p.Title, p.Overview, p.Link, p.Description, p.Image,
	)
	if err != nil {
		return mapError("update project", err)
	}
	return requireAffected(result)
}

// Delete removes a project
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "projects", id)
}

// Count returns the number of projects
func (r *ProjectRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "projects")
}

// ProjectCommentRepository implements repositories.ProjectCommentRepository
type ProjectCommentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProjectCommentRepository creates a new comment repository
func NewProjectCommentRepository(db *DB, logger *zap.Logger) repositories.ProjectCommentRepository {
	return &ProjectCommentRepository{db: db, logger: logger}
}

// ListByProject returns a project's comments newest first
func (r *ProjectCommentRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectComment, error) {
	query := `
		SELECT c.id, c.project_id, c.user_id, u.username, c.text, c.created_at
		FROM project_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.project_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.ProjectComment{}
	for rows.Next() {
		c := &models.ProjectComment{}
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.UserID, &c.Username, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}

// GetByID retrieves a comment
func (r *ProjectCommentRepository) GetByID(ctx context.Context, id int64) (*models.ProjectComment, error) {
	query := `
		SELECT c.id, c.project_id, c.user_id, u.username, c.text, c.created_at
		FROM project_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`
	c := &models.ProjectComment{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.ProjectID, &c.UserID, &c.Username, &c.Text, &c.CreatedAt,
	)
	if err != nil {
		return nil, mapError("get comment", err)
	}
	return c, nil
}

// Create inserts a comment
func (r *ProjectCommentRepository) Create(ctx context.Context, c *models.ProjectComment) error {
	query := `
		INSERT INTO project_comments (project_id, user_id, text, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, c.ProjectID, c.UserID, c.Text, c.CreatedAt).Scan(&c.ID); err != nil {
		return mapError("create comment", err)
	}
	return nil
}

// UpdateText replaces a comment's text
func (r *ProjectCommentRepository) UpdateText(ctx context.Context, id int64, text string) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `UPDATE project_comments SET text = $2 WHERE id = $1`, id, text)
	if err != nil {
		return mapError("update comment", err)
	}
	return requireAffected(result)
}

// Delete removes a comment
func (r *ProjectCommentRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "project_comments", id)
}

// DeleteByProject removes every comment on a project
func (r *ProjectCommentRepository) DeleteByProject(ctx context.Context, projectID int64) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM project_comments WHERE project_id = $1`, projectID); err != nil {
		return mapError("delete project comments", err)
	}
	return nil
}

// ProjectRatingRepository implements repositories.ProjectRatingRepository
type ProjectRatingRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProjectRatingRepository creates a new rating repository
func NewProjectRatingRepository(db *DB, logger *zap.Logger) repositories.ProjectRatingRepository {
	return &ProjectRatingRepository{db: db, logger: logger}
}

// Upsert stores or replaces the user's rating. The unique constraint settles races.
func (r *ProjectRatingRepository) Upsert(ctx context.Context, pr *models.ProjectRating) error {
	query := `
		INSERT INTO project_ratings (project_id, user_id, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (project_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		pr.ProjectID, pr.UserID, pr.Rating, pr.UpdatedAt,
	).Scan(&pr.ID, &pr.CreatedAt)
	if err != nil {
		return mapError("upsert rating", err)
	}

	r.logger.Debug("rating stored",
		zap.Int64("project_id", pr.ProjectID),
		zap.Int64("user_id", pr.UserID),
		zap.Int("rating", pr.Rating))
	return nil
}

// Summary returns the average and count of a project's ratings
func (r *ProjectRatingRepository) Summary(ctx context.Context, projectID int64) (*float64, int, error) {
	query := `SELECT AVG(rating)::float8, COUNT(*) FROM project_ratings WHERE project_id = $1`

	var avg sql.NullFloat64
	var count int
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, projectID).Scan(&avg, &count); err != nil {
		return nil, 0, fmt.Errorf("failed to summarize ratings: %w", err)
	}
	if !avg.Valid {
		return nil, count, nil
	}
	v := avg.Float64
	return &v, count, nil
}

// GetForUser returns the user's rating of a project
func (r *ProjectRatingRepository) GetForUser(ctx context.Context, projectID, userID int64) (*models.ProjectRating, error) {
	query := `
		SELECT id, project_id, user_id, rating, created_at, updated_at
		FROM project_ratings
		WHERE project_id = $1 AND user_id = $2
	`
	pr := &models.ProjectRating{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, projectID, userID).Scan(
		&pr.ID, &pr.ProjectID, &pr.UserID, &pr.Rating, &pr.CreatedAt, &pr.UpdatedAt,
	)
	if err != nil {
		return nil, mapError("get rating", err)
	}
	return pr, nil
}

// DeleteByProject removes every rating of a project
func (r *ProjectRatingRepository) DeleteByProject(ctx context.Context, projectID int64) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM project_ratings WHERE project_id = $1`, projectID); err != nil {
		return mapError("delete project ratings", err)
	}
	return nil
}
