package handlers

import (
	"context"
	"net/http"

	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/contact"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"github.com/Ritu-90/c25077715-cmt120-cw2/utils"
	"go.uber.org/zap"
)

// ContactService defines the contact message operations
type ContactService interface {
	List(ctx context.Context) ([]*models.ContactMessage, error)
	Create(ctx context.Context, s policy.Session, input contact.MessageInput) (*models.ContactMessage, error)
	Update(ctx context.Context, s policy.Session, id int64, input contact.EditInput) (*models.ContactMessage, error)
	Delete(ctx context.Context, s policy.Session, id int64) error
	Reply(ctx context.Context, s policy.Session, id int64, input contact.ReplyInput) (*models.ContactMessage, error)
	DeleteReply(ctx context.Context, s policy.Session, id int64) (*models.ContactMessage, error)
}

// ContactHandler handles the contact page endpoints
type ContactHandler struct {
	contact ContactService
	logger  *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contact ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contact: contact,
		logger:  logger,
	}
}

// HandleList handles GET /api/v1/messages
func (h *ContactHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.contact.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, out)
}

// HandleCreate handles POST /api/v1/messages
func (h *ContactHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input contact.MessageInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	msg, err := h.contact.Create(r.Context(), sessionOf(r), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, msg)
}

// HandleUpdate handles PUT /api/v1/messages/{id}
func (h *ContactHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input contact.EditInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	msg, err := h.contact.Update(r.Context(), sessionOf(r), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, msg)
}

// HandleDelete handles DELETE /api/v1/messages/{id}
func (h *ContactHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.contact.Delete(r.Context(), sessionOf(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleReply handles PUT /api/v1/messages/{id}/reply. It both adds and edits the reply.
func (h *ContactHandler) HandleReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input contact.ReplyInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}
	msg, err := h.contact.Reply(r.Context(), sessionOf(r), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, msg)
}

// HandleDeleteReply handles DELETE /api/v1/messages/{id}/reply
func (h *ContactHandler) HandleDeleteReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	msg, err := h.contact.DeleteReply(r.Context(), sessionOf(r), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, msg)
}
