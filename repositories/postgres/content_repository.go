package postgres

import (
	"context"
	"fmt"

	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories"
	"go.uber.org/zap"
)

// AboutRepository implements repositories.AboutRepository
type AboutRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAboutRepository creates a new about repository
func NewAboutRepository(db *DB, logger *zap.Logger) repositories.AboutRepository {
	return &AboutRepository{db: db, logger: logger}
}

// Get returns the first about record
func (r *AboutRepository) Get(ctx context.Context) (*models.About, error) {
	query := `SELECT id, bio, profile_pic, updated_at FROM about ORDER BY id ASC LIMIT 1`

	a := &models.About{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query).Scan(&a.ID, &a.Bio, &a.ProfilePic, &a.UpdatedAt)
	if err != nil {
		return nil, mapError("get about", err)
	}
	return a, nil
}

// Create inserts the about record
func (r *AboutRepository) Create(ctx context.Context, a *models.About) error {
	query := `INSERT INTO about (bio, profile_pic, updated_at) VALUES ($1, $2, $3) RETURNING id`

	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, a.Bio, a.ProfilePic, a.UpdatedAt).Scan(&a.ID); err != nil {
		return mapError("create about", err)
	}
	r.logger.Debug("about created", zap.Int64("id", a.ID))
	return nil
}

// Update overwrites the about record
func (r *AboutRepository) Update(ctx context.Context, a *models.About) error {
	query := `UPDATE about SET bio = $2, profile_pic = $3, updated_at = $4 WHERE id = $1`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, a.ID, a.Bio, a.ProfilePic, a.UpdatedAt)
	if err != nil {
		return mapError("update about", err)
	}
	return requireAffected(result)
}

// SocialLinkRepository implements repositories.SocialLinkRepository
type SocialLinkRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSocialLinkRepository creates a new social link repository
func NewSocialLinkRepository(db *DB, logger *zap.Logger) repositories.SocialLinkRepository {
	return &SocialLinkRepository{db: db, logger: logger}
}

// List returns links in insertion order
func (r *SocialLinkRepository) List(ctx context.Context) ([]*models.SocialLink, error) {
	query := `SELECT id, platform, url, created_at FROM social_links ORDER BY id ASC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query social links: %w", err)
	}
	defer rows.Close()

	links := []*models.SocialLink{}
	for rows.Next() {
		l := &models.SocialLink{}
		if err := rows.Scan(&l.ID, &l.Platform, &l.URL, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan social link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating social link rows: %w", err)
	}
	return links, nil
}

// Create inserts a link
func (r *SocialLinkRepository) Create(ctx context.Context, l *models.SocialLink) error {
	query := `INSERT INTO social_links (platform, url, created_at) VALUES ($1, $2, $3) RETURNING id`

	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, l.Platform, l.URL, l.CreatedAt).Scan(&l.ID); err != nil {
		return mapError("create social link", err)
	}
	return nil
}

// Delete removes a link
func (r *SocialLinkRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "social_links", id)
}

// EducationRepository implements repositories.EducationRepository
type EducationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewEducationRepository creates a new education repository
func NewEducationRepository(db *DB, logger *zap.Logger) repositories.EducationRepository {
	return &EducationRepository{db: db, logger: logger}
}

// List returns entries newest first
func (r *EducationRepository) List(ctx context.Context) ([]*models.Education, error) {
	query := `SELECT id, year, institution, degree, description FROM education ORDER BY id DESC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query education: %w", err)
	}
	defer rows.Close()

	out := []*models.Education{}
	for rows.Next() {
		e := &models.Education{}
		if err := rows.Scan(&e.ID, &e.Year, &e.Institution, &e.Degree, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating education rows: %w", err)
	}
	return out, nil
}

// GetByID retrieves one entry
func (r *EducationRepository) GetByID(ctx context.Context, id int64) (*models.Education, error) {
	query := `SELECT id, year, institution, degree, description FROM education WHERE id = $1`

	e := &models.Education{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Year, &e.Institution, &e.Degree, &e.Description)
	if err != nil {
		return nil, mapError("get education", err)
	}
	return e, nil
}

// Create inserts an entry
func (r *EducationRepository) Create(ctx context.Context, e *models.Education) error {
	query := `INSERT INTO education (year, institution, degree, description) VALUES ($1, $2, $3, $4) RETURNING id`

	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, e.Year, e.Institution, e.Degree, e.Description).Scan(&e.ID); err != nil {
		return mapError("create education", err)
	}
	return nil
}

// Update overwrites an entry
func (r *EducationRepository) Update(ctx context.Context, e *models.Education) error {
	query := `UPDATE education SET year = $2, institution = $3, degree = $4, description = $5 WHERE id = $1`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, e.ID, e.Year, e.Institution, e.Degree, e.Description)
	if err != nil {
		return mapError("update education", err)
	}
	return requireAffected(result)
}

// Delete removes an entry
func (r *EducationRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "education", id)
}

// Count returns the number of entries
func (r *EducationRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "education")
}

// ExperienceRepository implements repositories.ExperienceRepository
type ExperienceRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewExperienceRepository creates a new experience repository
func NewExperienceRepository(db *DB, logger *zap.Logger) repositories.ExperienceRepository {
	return &ExperienceRepository{db: db, logger: logger}
}

// List returns entries newest first
func (r *ExperienceRepository) List(ctx context.Context) ([]*models.Experience, error) {
	query := `SELECT id, role, organisation, duration, description FROM experience ORDER BY id DESC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query experience: %w", err)
	}
	defer rows.Close()

	out := []*models.Experience{}
	for rows.Next() {
		e := &models.Experience{}
		if err := rows.Scan(&e.ID, &e.Role, &e.Organisation, &e.Duration, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating experience rows: %w", err)
	}
	return out, nil
}

// GetByID retrieves one entry
func (r *ExperienceRepository) GetByID(ctx context.Context, id int64) (*models.Experience, error) {
	query := `SELECT id, role, organisation, duration, description FROM experience WHERE id = $1`

	e := &models.Experience{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Role, &e.Organisation, &e.Duration, &e.Description)
	if err != nil {
		return nil, mapError("get experience", err)
	}
	return e, nil
}

// Create inserts an entry
func (r *ExperienceRepository) Create(ctx context.Context, e *models.Experience) error {
	query := `INSERT INTO experience (role, organisation, duration, description) VALUES ($1, $2, $3, $4) RETURNING id`

	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, e.Role, e.Organisation, e.Duration, e.Description).Scan(&e.ID); err != nil {
		return mapError("create experience", err)
	}
	return nil
}

// Update overwrites an entry
func (r *ExperienceRepository) Update(ctx context.Context, e *models.Experience) error {
	query := `UPDATE experience SET role = $2, organisation = $3, duration = $4, description = $5 WHERE id = $1`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, e.ID, e.Role, e.Organisation, e.Duration, e.Description)
	if err != nil {
		return mapError("update experience", err)
	}
	return requireAffected(result)
}

// Delete removes an entry
func (r *ExperienceRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "experience", id)
}

// Count returns the number of entries
func (r *ExperienceRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "experience")
}

// SkillRepository implements repositories.SkillRepository
type SkillRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSkillRepository creates a new skill repository
func NewSkillRepository(db *DB, logger *zap.Logger) repositories.SkillRepository {
	return &SkillRepository{db: db, logger: logger}
}

// List returns skills in insertion order
func (r *SkillRepository) List(ctx context.Context) ([]*models.Skill, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, `SELECT id, name FROM skills ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	out := []*models.Skill{}
	for rows.Next() {
		s := &models.Skill{}
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skill rows: %w", err)
	}
	return out, nil
}

// Create inserts a skill
func (r *SkillRepository) Create(ctx context.Context, s *models.Skill) error {
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, `INSERT INTO skills (name) VALUES ($1) RETURNING id`, s.Name).Scan(&s.ID); err != nil {
		return mapError("create skill", err)
	}
	return nil
}

// Delete removes a skill
func (r *SkillRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "skills", id)
}

// Count returns the number of skills
func (r *SkillRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "skills")
}

// deleteByID deletes a row by primary key. table is always a package constant.
func deleteByID(ctx context.Context, db *DB, table string, id int64) error {
	result, err := GetExecutor(ctx, db).ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return mapError("delete from "+table, err)
	}
	return requireAffected(result)
}

func countRows(ctx context.Context, db *DB, table string) (int, error) {
	var n int
	if err := GetExecutor(ctx, db).QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
