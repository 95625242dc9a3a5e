// Package content manages the profile sections of the site: about, social links,
// education, experience and skills. Reads are public; every write is admin-only.
package content

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

// HomeProjectCount is how many projects the home page shows
const HomeProjectCount = 3

// ImageSaver stores uploaded images
type ImageSaver interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(name string) error
}

// AboutInput is the about form
type AboutInput struct {
	Bio string `json:"bio" validate:"required"`
}

// SocialLinkInput is the social link form
type SocialLinkInput struct {
	Platform string `json:"platform" validate:"required,max=80"`
	URL      string `json:"url" validate:"required,max=300"`
}

// EducationInput is the education form
type EducationInput struct {
	Year        string `json:"year" validate:"required,max=50"`
	Institution string `json:"institution" validate:"required,max=200"`
	Degree      string `json:"degree" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
}

// ExperienceInput is the experience form
type ExperienceInput struct {
	Role         string `json:"role" validate:"required,max=200"`
	Organisation string `json:"organisation" validate:"required,max=200"`
	Duration     string `json:"duration" validate:"required,max=100"`
	Description  string `json:"description" validate:"required"`
}

// SkillInput is the skill form
type SkillInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Service serves and edits profile content
type Service struct {
	repos  *repositories.Repositories
	images ImageSaver
	logger *zap.Logger
}

// NewService creates a new content service
func NewService(repos *repositories.Repositories, images ImageSaver, logger *zap.Logger) *Service {
	return &Service{
		repos:  repos,
		images: images,
		logger: logger,
	}
}

// Home aggregates the landing page
func (s *Service) Home(ctx context.Context) (*models.HomePage, error) {
	about, err := s.GetAbout(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.repos.Projects.Latest(ctx, HomeProjectCount)
	if err != nil {
		return nil, services.WrapInternal("failed to load latest projects", err)
	}

	var stats models.SiteStats
	counters := []struct {
		dst   *int
		count func(context.Context) (int, error)
	}{
		{&stats.Projects, s.repos.Projects.Count},
		{&stats.Skills, s.repos.Skills.Count},
		{&stats.Education, s.repos.Education.Count},
		{&stats.Experience, s.repos.Experience.Count},
	}
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return nil, services.WrapInternal("failed to count content", err)
		}
		*c.dst = n
	}

	links, err := s.repos.SocialLinks.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to load social links", err)
	}

	return &models.HomePage{
		About:          about,
		LatestProjects: latest,
		Stats:          stats,
		SocialLinks:    links,
	}, nil
}

// GetAbout returns the about record, or nil when none has been written
func (s *Service) GetAbout(ctx context.Context) (*models.About, error) {
	about, err := s.repos.About.Get(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, services.WrapInternal("failed to load about", err)
	}
	return about, nil
}

// SaveAbout updates the about record, creating it on first save.
// A submitted image replaces the profile picture.
func (s *Service) SaveAbout(ctx context.Context, session policy.Session, input AboutInput, image *uploads.Image) (*models.About, error) {
	if err := policy.RequireAdmin(session); err != nil {
		return nil, err
	}
	input.Bio = strings.TrimSpace(input.Bio)
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	about, err := s.GetAbout(ctx)
	if err != nil {
		return nil, err
	}

	pic, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}

	if about == nil {
		about = &models.About{Bio: input.Bio, ProfilePic: pic, UpdatedAt: time.Now().UTC()}
		if err := s.repos.About.Create(ctx, about); err != nil {
			s.discardImage(pic)
			return nil, services.WrapInternal("failed to create about", err)
		}
		s.logger.Info("about created", zap.Int64("id", about.ID))
		return about, nil
	}

	about.Bio = input.Bio
	if pic != nil {
		about.ProfilePic = pic
	}
	about.UpdatedAt = time.Now().UTC()
	if err := s.repos.About.Update(ctx, about); err != nil {
		s.discardImage(pic)
		return nil, services.WrapInternal("failed to update about", err)
	}
	s.logger.Info("about updated", zap.Int64("id", about.ID))
	return about, nil
}

func (s *Service) storeImage(ctx context.Context, image *uploads.Image) (*string, error) {
	if !image.Present() {
		return nil, nil
	}
	name, err := s.images.Save(ctx, image.Name, image.Body)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	return &name, nil
}

func (s *Service) discardImage(pic *string) {
	if pic == nil {
		return
	}
	if err := s.images.Remove(*pic); err != nil {
		s.logger.Warn("failed to remove orphaned image", zap.String("stored_name", *pic), zap.Error(err))
	}
}

// ListSocialLinks returns all social links
func (s *Service) ListSocialLinks(ctx context.Context) ([]*models.SocialLink, error) {
	links, err := s.repos.SocialLinks.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list social links", err)
	}
	return links, nil
}

// AddSocialLink adds a social link
func (s *Service) AddSocialLink(ctx context.Context, session policy.Session, input SocialLinkInput) (*models.SocialLink, error) {
	if err := policy.RequireAdmin(session); err != nil {
		return nil, err
	}
	input.Platform = strings.TrimSpace(input.Platform)
	input.URL = strings.TrimSpace(input.URL)
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	link := &models.SocialLink{Platform: input.Platform, URL: input.URL, CreatedAt: time.Now().UTC()}
	if err := s.repos.SocialLinks.Create(ctx, link); err != nil {
		return nil, services.WrapInternal("failed to add social link", err)
	}
	return link, nil
}

// DeleteSocialLink removes a social link
func (s *Service) DeleteSocialLink(ctx context.Context, session policy.Session, id int64) error {
	if err := policy.RequireAdmin(session); err != nil {
		return err
	}
	return translate(s.repos.SocialLinks.Delete(ctx, id), services.ErrSocialLinkNotFound, "failed to delete social link")
}

// ListEducation returns education entries newest first
func (s *Service) ListEducation(ctx context.Context) ([]*models.Education, error) {
	out, err := s.repos.Education.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list education", err)
	}
	return out, nil
}

// GetEducation returns one education entry
func (s *Service) GetEducation(ctx context.Context, id int64) (*models.Education, error) {
	e, err := s.repos.Education.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, services.ErrEducationNotFound, "failed to load education")
	}
	return e, nil
}

// CreateEducation adds an education entry
func (s *Service) CreateEducation(ctx context.Context, session policy.Session, input EducationInput) (*models.Education, error) {
	if err := policy.RequireAdmin(session); err != nil {
		return nil, err
	}
	input = input.trimmed()
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	e := &models.Education{Year: input.Year, Institution: input.Institution, Degree: input.Degree, Description: input.Description}
	if err := s.repos.Education.Create(ctx, e); err != nil {
		return nil, services.WrapInternal("failed to create education", err)
	}
	return e, nil
}

// UpdateEducation overwrites an education entry
func (s *Service) UpdateEducation(ctx context.Context, session policy.Session, id int64, input EducationInput) (*models.Education, error) {
	if err := policy.RequireAdmin(session); err != nil {
		return nil, err
	}
	input = input.trimmed()
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	e := &models.Education{ID: id, Year: input.Year, Institution: input.Institution, Degree: input.Degree, Description: input.Description}
	if err := s.repos.Education.Update(ctx, e); err != nil {
		return nil, translate(err, services.ErrEducationNotFound, "failed to update education")
	}
	return e, nil
}

// DeleteEducation removes an education entry
func (s *Service) DeleteEducation(ctx context.Context, session policy.Session, id int64) error {
	if err := policy.RequireAdmin(session); err != nil {
		return err
	}
	return translate(s.repos.Education.Delete(ctx, id), services.ErrEducationNotFound, "failed to delete education")
}

func (in EducationInput) trimmed() EducationInput {
	return EducationInput{
		Year:        strings.TrimSpace(in.Year),
		Institution: strings.TrimSpace(in.Institution),
		Degree:      strings.TrimSpace(in.Degree),
		Description: strings.TrimSpace(in.Description),
	}
}

// ListExperience returns experience entries newest first
func (s *Service) ListExperience(ctx context.Context) ([]*models.Experience, error) {
	out, err := s.repos.Experience.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list experience", err)
	}
	return out, nil
}

// GetExperience returns one experience entry
func (s *Service) GetExperience(ctx context.Context, id int64) (*models.Experience, error) {
	e, err := s.repos.Experience.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, services.ErrExperienceNotFound, "failed to load experience")
	}
	return e, nil
}

// CreateExperience adds an experience entry
func (s *Service) CreateExperience(ctx context.Context, session policy.Session, input ExperienceInput) (*models.Experience, error) {
	if err := policy.RequireAdmin(session); err != nil {
		return nil, err
	}
	input = input.trimmed()
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	e := &models.Experience{Role: input.Role, Organisation: input.Organisation, Duration: input.Duration, Description: input.Description}
	if err := s.repos.Experience.Create(ctx, e); err != nil {
		return nil, services.WrapInternal("failed to create experience", err)
	}
	return e, nil
}

// UpdateExperience overwrites an experience entry
func (s *Service) UpdateExperience(ctx context.Context, session policy.Session, id int64, input ExperienceInput) (*models.Experience, error) {
	if err := policy.RequireAdmin(session); err != nil {
		return nil, err
	}
	input = input.trimmed()
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	e := &models.Experience{ID: id, Role: input.Role, Organisation: input.Organisation, Duration: input.Duration, Description: input.Description}
	if err := s.repos.Experience.Update(ctx, e); err != nil {
		return nil, translate(err, services.ErrExperienceNotFound, "failed to update experience")
	}
	return e, nil
}

// DeleteExperience removes an experience entry
func (s *Service) DeleteExperience(ctx context.Context, session policy.Session, id int64) error {
	if err := policy.RequireAdmin(session); err != nil {
		return err
	}
	return translate(s.repos.Experience.Delete(ctx, id), services.ErrExperienceNotFound, "failed to delete experience")
}

func (in ExperienceInput) trimmed() ExperienceInput {
	return ExperienceInput{
		Role:         strings.TrimSpace(in.Role),
		Organisation: strings.TrimSpace(in.Organisation),
		Duration:     strings.TrimSpace(in.Duration),
		Description:  strings.TrimSpace(in.Description),
	}
}

// ListSkills returns skills in the order they were added
func (s *Service) ListSkills(ctx context.Context) ([]*models.Skill, error) {
	out, err := s.repos.Skills.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list skills", err)
	}
	return out, nil
}

// AddSkill adds a skill. A blank name is a validation error.
func (s *Service) AddSkill(ctx context.Context, session policy.Session, input SkillInput) (*models.Skill, error) {
	if err := policy.RequireAdmin(session); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	skill := &models.Skill{Name: input.Name}
	if err := s.repos.Skills.Create(ctx, skill); err != nil {
		return nil, services.WrapInternal("failed to add skill", err)
	}
	return skill, nil
}

// DeleteSkill removes a skill
func (s *Service) DeleteSkill(ctx context.Context, session policy.Session, id int64) error {
	if err := policy.RequireAdmin(session); err != nil {
		return err
	}
	return translate(s.repos.Skills.Delete(ctx, id), services.ErrSkillNotFound, "failed to delete skill")
}

// translate maps repositories.ErrNotFound to notFound and wraps anything else as internal
func translate(err error, notFound error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return services.WrapInternal(msg, err)
}
