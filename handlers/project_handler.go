package handlers

import (
	"context"
	"net/http"

	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/projects"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/uploads"
	"github.com/Ritu-90/c25077715-cmt120-cw2/utils"
	"go.uber.org/zap"
)

// ProjectService defines the project, comment and rating operations
type ProjectService interface {
	List(ctx context.Context, q string) ([]*models.Project, error)
	Get(ctx context.Context, s policy.Session, id int64) (*models.ProjectDetail, error)
	Create(ctx context.Context, s policy.Session, input projects.ProjectInput, image *uploads.Image) (*models.Project, error)
	Update(ctx context.Context, s policy.Session, id int64, input projects.ProjectInput, image *uploads.Image) (*models.Project, error)
	Delete(ctx context.Context, s policy.Session, id int64) error

	AddComment(ctx context.Context, s policy.Session, projectID int64, input projects.CommentInput) (*models.ProjectComment, error)
	UpdateComment(ctx context.Context, s policy.Session, commentID int64, input projects.CommentInput) (*models.ProjectComment, error)
	DeleteComment(ctx context.Context, s policy.Session, commentID int64) error

	Rate(ctx context.Context, s policy.Session, projectID int64, input projects.RatingInput) (*models.ProjectRating, error)
}

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	projects       ProjectService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projects ProjectService, maxUploadBytes int64, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects:       projects,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// HandleList handles GET /api/v1/projects?q=
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.projects.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, out)
}

// HandleGet handles GET /api/v1/projects/{id}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.projects.Get(r.Context(), sessionOf(r), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, detail)
}

// HandleCreate handles POST /api/v1/projects
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	input, image, done, ok := h.readProject(w, r)
	if !ok {
		return
	}
	defer done()

	p, err := h.projects.Create(r.Context(), sessionOf(r), input, image)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, p)
}

// HandleUpdate handles PUT /api/v1/projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	input, image, done, ok := h.readProject(w, r)
	if !ok {
		return
	}
	defer done()

	p, err := h.projects.Update(r.Context(), sessionOf(r), id, input, image)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, p)
}

// readProject accepts a JSON body or a multipart form with an optional image file
func (h *ProjectHandler) readProject(w http.ResponseWriter, r *http.Request) (projects.ProjectInput, *uploads.Image, func(), bool) {
	var input projects.ProjectInput

	if !isMultipart(r) {
		if !decodeJSON(w, r, &input, h.logger) {
			return input, nil, nil, false
		}
		return input, nil, func() {}, true
	}

	form, err := parseUpload(w, r, h.maxUploadBytes, "image")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return input, nil, nil, false
	}
	input.Title = form.Values.Get("title")
	input.Overview = form.Values.Get("overview")
	input.Link = form.Values.Get("link")
	input.Description = form.Values.Get("description")
	return input, form.Image, form.Close, true
}

// HandleDelete handles DELETE /api/v1/projects/{id}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.projects.Delete(r.Context(), sessionOf(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleAddComment handles POST /api/v1/projects/{id}/comments
func (h *ProjectHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input projects.CommentInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	c, err := h.projects.AddComment(r.Context(), sessionOf(r), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, c)
}

// HandleUpdateComment handles PUT /api/v1/comments/{id}
func (h *ProjectHandler) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input projects.CommentInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	c, err := h.projects.UpdateComment(r.Context(), sessionOf(r), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, c)
}

// HandleDeleteComment handles DELETE /api/v1/comments/{id}
func (h *ProjectHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.projects.DeleteComment(r.Context(), sessionOf(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleRate handles PUT /api/v1/projects/{id}/rating
func (h *ProjectHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input projects.RatingInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	rating, err := h.projects.Rate(r.Context(), sessionOf(r), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, rating)
}
