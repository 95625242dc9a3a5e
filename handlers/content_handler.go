package handlers

import (
	"context"
	"net/http"

	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/content"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/uploads"
	"github.com/Ritu-90/c25077715-cmt120-cw2/utils"
	"go.uber.org/zap"
)

// ContentService defines the profile content operations
type ContentService interface {
	Home(ctx context.Context) (*models.HomePage, error)
	GetAbout(ctx context.Context) (*models.About, error)
	SaveAbout(ctx context.Context, s policy.Session, input content.AboutInput, image *uploads.Image) (*models.About, error)

	ListSocialLinks(ctx context.Context) ([]*models.SocialLink, error)
	AddSocialLink(ctx context.Context, s policy.Session, input content.SocialLinkInput) (*models.SocialLink, error)
	DeleteSocialLink(ctx context.Context, s policy.Session, id int64) error

	ListEducation(ctx context.Context) ([]*models.Education, error)
	GetEducation(ctx context.Context, id int64) (*models.Education, error)
	CreateEducation(ctx context.Context, s policy.Session, input content.EducationInput) (*models.Education, error)
	UpdateEducation(ctx context.Context, s policy.Session, id int64, input content.EducationInput) (*models.Education, error)
	DeleteEducation(ctx context.Context, s policy.Session, id int64) error

	ListExperience(ctx context.Context) ([]*models.Experience, error)
	GetExperience(ctx context.Context, id int64) (*models.Experience, error)
	CreateExperience(ctx context.Context, s policy.Session, input content.ExperienceInput) (*models.Experience, error)
	UpdateExperience(ctx context.Context, s policy.Session, id int64, input content.ExperienceInput) (*models.Experience, error)
	DeleteExperience(ctx context.Context, s policy.Session, id int64) error

	ListSkills(ctx context.Context) ([]*models.Skill, error)
	AddSkill(ctx context.Context, s policy.Session, input content.SkillInput) (*models.Skill, error)
	DeleteSkill(ctx context.Context, s policy.Session, id int64) error
}

// ContentHandler serves the home page and profile sections
type ContentHandler struct {
	content        ContentService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(content ContentService, maxUploadBytes int64, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		content:        content,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// HandleHome handles GET /api/v1/home
func (h *ContentHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.content.Home(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, home)
}

// HandleGetAbout handles GET /api/v1/about
func (h *ContentHandler) HandleGetAbout(w http.ResponseWriter, r *http.Request) {
	about, err := h.content.GetAbout(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, about)
}

// HandleSaveAbout handles PUT /api/v1/about.
// Accepts JSON, or multipart with a bio field and an optional profile_pic file.
func (h *ContentHandler) HandleSaveAbout(w http.ResponseWriter, r *http.Request) {
	var (
		input content.AboutInput
		image *uploads.Image
	)

	if isMultipart(r) {
		form, err := parseUpload(w, r, h.maxUploadBytes, "profile_pic")
		if err != nil {
			HandleServiceError(w, err, h.logger)
			return
		}
		defer form.Close()
		input.Bio = form.Values.Get("bio")
		image = form.Image
	} else if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	about, err := h.content.SaveAbout(r.Context(), sessionOf(r), input, image)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, about)
}

// HandleListSocialLinks handles GET /api/v1/social
func (h *ContentHandler) HandleListSocialLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.content.ListSocialLinks(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, links)
}

// HandleAddSocialLink handles POST /api/v1/social
func (h *ContentHandler) HandleAddSocialLink(w http.ResponseWriter, r *http.Request) {
	var input content.SocialLinkInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	link, err := h.content.AddSocialLink(r.Context(), sessionOf(r), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, link)
}

// HandleDeleteSocialLink handles DELETE /api/v1/social/{id}
func (h *ContentHandler) HandleDeleteSocialLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteSocialLink(r.Context(), sessionOf(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleListEducation handles GET /api/v1/education
func (h *ContentHandler) HandleListEducation(w http.ResponseWriter, r *http.Request) {
	out, err := h.content.ListEducation(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, out)
}

// HandleGetEducation handles GET /api/v1/education/{id}
func (h *ContentHandler) HandleGetEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	e, err := h.content.GetEducation(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, e)
}

// HandleCreateEducation handles POST /api/v1/education
func (h *ContentHandler) HandleCreateEducation(w http.ResponseWriter, r *http.Request) {
	var input content.EducationInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	e, err := h.content.CreateEducation(r.Context(), sessionOf(r), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, e)
}

// HandleUpdateEducation handles PUT /api/v1/education/{id}
func (h *ContentHandler) HandleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input content.EducationInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	e, err := h.content.UpdateEducation(r.Context(), sessionOf(r), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, e)
}

// HandleDeleteEducation handles DELETE /api/v1/education/{id}
func (h *ContentHandler) HandleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteEducation(r.Context(), sessionOf(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleListExperience handles GET /api/v1/experience
func (h *ContentHandler) HandleListExperience(w http.ResponseWriter, r *http.Request) {
	out, err := h.content.ListExperience(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, out)
}

// HandleGetExperience handles GET /api/v1/experience/{id}
func (h *ContentHandler) HandleGetExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	e, err := h.content.GetExperience(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, e)
}

// HandleCreateExperience handles POST /api/v1/experience
func (h *ContentHandler) HandleCreateExperience(w http.ResponseWriter, r *http.Request) {
	var input content.ExperienceInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	e, err := h.content.CreateExperience(r.Context(), sessionOf(r), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, e)
}

// HandleUpdateExperience handles PUT /api/v1/experience/{id}
func (h *ContentHandler) HandleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input content.ExperienceInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	e, err := h.content.UpdateExperience(r.Context(), sessionOf(r), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, e)
}

// HandleDeleteExperience handles DELETE /api/v1/experience/{id}
func (h *ContentHandler) HandleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteExperience(r.Context(), sessionOf(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleListSkills handles GET /api/v1/skills
func (h *ContentHandler) HandleListSkills(w http.ResponseWriter, r *http.Request) {
	out, err := h.content.ListSkills(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, out)
}

// HandleAddSkill handles POST /api/v1/skills
func (h *ContentHandler) HandleAddSkill(w http.ResponseWriter, r *http.Request) {
	var input content.SkillInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	skill, err := h.content.AddSkill(r.Context(), sessionOf(r), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, skill)
}

// HandleDeleteSkill handles DELETE /api/v1/skills/{id}
func (h *ContentHandler) HandleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteSkill(r.Context(), sessionOf(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
