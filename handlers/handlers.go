package handlers

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/Ritu-90/c25077715-cmt120-cw2/middleware"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/uploads"
	"github.com/Ritu-90/c25077715-cmt120-cw2/utils"
	"go.uber.org/zap"
)

// sessionOf returns the session resolved by middleware.LoadSession
func sessionOf(r *http.Request) policy.Session {
	return middleware.GetSessionFromContext(r.Context())
}

func asDomainError(err error) *services.DomainError {
	var de *services.DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// pathID parses a numeric URL parameter, writing 400 when it is invalid
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := utils.ParseIDParam(r, name)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body, writing 400 when it is malformed
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	if err := utils.DecodeJSON(w, r, dst); err != nil {
		logger.Debug("rejected request body",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return false
	}
	return true
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// upload is a parsed multipart form with at most one file
type upload struct {
	Values url.Values
	Image  *uploads.Image
	close  func()
}

// Close releases the uploaded file and any temporary files of the form
func (u *upload) Close() {
	if u != nil && u.close != nil {
		u.close()
	}
}

// parseUpload reads a multipart body capped at maxBytes. fileField may be absent.
func parseUpload(w http.ResponseWriter, r *http.Request, maxBytes int64, fileField string) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, services.ErrFileTooLarge
		}
		return nil, services.WrapError(services.ErrorTypeValidation, "malformed multipart form", err)
	}

	u := &upload{Values: url.Values(r.MultipartForm.Value)}
	cleanups := []func(){func() { _ = r.MultipartForm.RemoveAll() }}

	file, header, err := r.FormFile(fileField)
	switch {
	case err == nil:
		cleanups = append(cleanups, func() { _ = file.Close() })
		u.Image = &uploads.Image{Name: header.Filename, Body: file}
	case !errors.Is(err, http.ErrMissingFile):
		_ = r.MultipartForm.RemoveAll()
		return nil, services.WrapError(services.ErrorTypeValidation, "unreadable file field "+fileField, err)
	}

	u.close = func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return u, nil
}
