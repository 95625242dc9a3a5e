// Package projects manages portfolio projects together with the comments and
// ratings registered users leave on them.
package projects

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/uploads"
	"go.uber.org/zap"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ImageSaver stores uploaded images
type ImageSaver interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(name string) error
}

// ProjectInput is the project form
type ProjectInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Overview    string `json:"overview" validate:"max=300"`
	Link        string `json:"link" validate:"max=300"`
	Description string `json:"description" validate:"required"`
}

// CommentInput is the comment form
type CommentInput struct {
	Text string `json:"text" validate:"required,min=2"`
}

// RatingInput is the rating form
type RatingInput struct {
	Rating int `json:"rating" validate:"min=1,max=5"`
}

// Service handles projects, comments and ratings
type Service struct {
	projects repositories.ProjectRepository
	comments repositories.ProjectCommentRepository
	ratings  repositories.ProjectRatingRepository
	txMgr    repositories.TransactionManager
	images   ImageSaver
	logger   *zap.Logger
}

// NewService creates a new project service
func NewService(
	repos *repositories.Repositories,
	txMgr repositories.TransactionManager,
	images ImageSaver,
	logger *zap.Logger,
) *Service {
	return &Service{
		projects: repos.Projects,
		comments: repos.ProjectComments,
		ratings:  repos.ProjectRatings,
		txMgr:    txMgr,
		images:   images,
		logger:   logger,
	}
}

// List returns projects newest first, filtered by q when it is not blank
func (s *Service) List(ctx context.Context, q string) ([]*models.Project, error) {
	out, err := s.projects.List(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, services.WrapInternal("failed to list projects", err)
	}
	return out, nil
}

// Get returns the project page. MyRating is set only for a user who has rated the project.
func (s *Service) Get(ctx context.Context, session policy.Session, id int64) (*models.ProjectDetail, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByProject(ctx, id)
	if err != nil {
		return nil, services.WrapInternal("failed to list comments", err)
	}

	avg, count, err := s.ratings.Summary(ctx, id)
	if err != nil {
		return nil, services.WrapInternal("failed to summarise ratings", err)
	}

	detail := &models.ProjectDetail{
		Project:  project,
		Comments: comments,
		Rating:   models.NewRatingSummary(avg, count),
	}

	if session.UserID != nil {
		mine, err := s.ratings.GetForUser(ctx, id, *session.UserID)
		switch {
		case err == nil:
			detail.MyRating = &mine.Rating
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, services.WrapInternal("failed to load rating", err)
		}
	}

	return detail, nil
}

// Create adds a project with an optional image
func (s *Service) Create(ctx context.Context, session policy.Session, input ProjectInput, image *uploads.Image) (*models.Project, error) {
	if err := policy.RequireAdmin(session); err != nil {
		return nil, err
	}
	input = input.trimmed()
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	pic, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}

	p := &models.Project{
		Title:       input.Title,
		Overview:    optional(input.Overview),
		Link:        optional(input.Link),
		Description: input.Description,
		Image:       pic,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.projects.Create(ctx, p); err != nil {
		s.discardImage(pic)
		return nil, services.WrapInternal("failed to create project", err)
	}

	s.logger.Info("project created", zap.Int64("project_id", p.ID), zap.String("title", p.Title))
	return p, nil
}

// Update overwrites a project. The image is replaced only when a new file is given.
func (s *Service) Update(ctx context.Context, session policy.Session, id int64, input ProjectInput, image *uploads.Image) (*models.Project, error) {
	if err := policy.RequireAdmin(session); err != nil {
		return nil, err
	}
	input = input.trimmed()
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	p, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}

	pic, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}

	p.Title = input.Title
	p.Overview = optional(input.Overview)
	p.Link = optional(input.Link)
	p.Description = input.Description
	if pic != nil {
		p.Image = pic
	}

	if err := s.projects.Update(ctx, p); err != nil {
		s.discardImage(pic)
		return nil, translate(err, services.ErrProjectNotFound, "failed to update project")
	}

	s.logger.Info("project updated", zap.Int64("project_id", p.ID))
	return p, nil
}

// Delete removes a project with its comments and ratings in one transaction
func (s *Service) Delete(ctx context.Context, session policy.Session, id int64) error {
	if err := policy.RequireAdmin(session); err != nil {
		return err
	}

	err := services.WithTransaction(ctx, s.txMgr, func(txCtx context.Context) error {
		if err := s.comments.DeleteByProject(txCtx, id); err != nil {
			return services.WrapInternal("failed to delete comments", err)
		}
		if err := s.ratings.DeleteByProject(txCtx, id); err != nil {
			return services.WrapInternal("failed to delete ratings", err)
		}
		return translate(s.projects.Delete(txCtx, id), services.ErrProjectNotFound, "failed to delete project")
	})
	if err != nil {
		return err
	}

	s.logger.Info("project deleted", zap.Int64("project_id", id))
	return nil
}

// AddComment posts a comment as the logged-in user
func (s *Service) AddComment(ctx context.Context, session policy.Session, projectID int64, input CommentInput) (*models.ProjectComment, error) {
	userID, err := policy.RequireUser(session)
	if err != nil {
		return nil, err
	}
	input.Text = strings.TrimSpace(input.Text)
	if err := services.Validate(input); err != nil {
		return nil, err
	}
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}

	c := models.NewProjectComment(projectID, userID, input.Text)
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, services.WrapInternal("failed to add comment", err)
	}
	return c, nil
}

// UpdateComment edits a comment. Only its author or the admin may do so.
func (s *Service) UpdateComment(ctx context.Context, session policy.Session, commentID int64, input CommentInput) (*models.ProjectComment, error) {
	c, err := s.authorizeComment(ctx, session, commentID)
	if err != nil {
		return nil, err
	}
	input.Text = strings.TrimSpace(input.Text)
	if input.Text == "" {
		return nil, services.FieldError("text", "comment cannot be empty")
	}

	if err := s.comments.UpdateText(ctx, commentID, input.Text); err != nil {
		return nil, translate(err, services.ErrCommentNotFound, "failed to update comment")
	}
	c.Text = input.Text
	return c, nil
}

// DeleteComment removes a comment. Only its author or the admin may do so.
func (s *Service) DeleteComment(ctx context.Context, session policy.Session, commentID int64) error {
	if _, err := s.authorizeComment(ctx, session, commentID); err != nil {
		return err
	}
	return translate(s.comments.Delete(ctx, commentID), services.ErrCommentNotFound, "failed to delete comment")
}

func (s *Service) authorizeComment(ctx context.Context, session policy.Session, commentID int64) (*models.ProjectComment, error) {
	if !policy.CanPossiblyManage(session) {
		return nil, services.ErrForbidden
	}
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, translate(err, services.ErrCommentNotFound, "failed to load comment")
	}
	if err := policy.Authorize(session, c.OwnerID()); err != nil {
		s.logger.Warn("comment access denied",
			zap.Int64("comment_id", commentID),
			zap.Int64("owner_id", c.UserID))
		return nil, err
	}
	return c, nil
}

// Rate records the logged-in user's rating, replacing an earlier one
func (s *Service) Rate(ctx context.Context, session policy.Session, projectID int64, input RatingInput) (*models.ProjectRating, error) {
	userID, err := policy.RequireUser(session)
	if err != nil {
		return nil, err
	}
	if input.Rating < MinRating || input.Rating > MaxRating {
		return nil, services.FieldError("rating", "rating must be between 1 and 5")
	}
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &models.ProjectRating{
		ProjectID: projectID,
		UserID:    userID,
		Rating:    input.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.ratings.Upsert(ctx, r); err != nil {
		return nil, services.WrapInternal("failed to save rating", err)
	}
	return r, nil
}

func (s *Service) getProject(ctx context.Context, id int64) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, services.ErrProjectNotFound, "failed to load project")
	}
	return p, nil
}

func (s *Service) storeImage(ctx context.Context, image *uploads.Image) (*string, error) {
	if !image.Present() {
		return nil, nil
	}
	name, err := s.images.Save(ctx, image.Name, image.Body)
	if err != nil {
		return nil, err
	}
	return optional(name), nil
}

// discardImage removes an image stored for a write that did not persist
func (s *Service) discardImage(pic *string) {
	if pic == nil {
		return
	}
	if err := s.images.Remove(*pic); err != nil {
		s.logger.Warn("failed to remove orphaned image", zap.String("stored_name", *pic), zap.Error(err))
	}
}

func (in ProjectInput) trimmed() ProjectInput {
	return ProjectInput{
		Title:       strings.TrimSpace(in.Title),
		Overview:    strings.TrimSpace(in.Overview),
		Link:        strings.TrimSpace(in.Link),
		Description: strings.TrimSpace(in.Description),
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func translate(err error, notFound error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return services.WrapInternal(msg, err)
}
