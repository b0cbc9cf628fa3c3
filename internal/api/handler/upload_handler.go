package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anhpls/uniflo/internal/service"
	"github.com/anhpls/uniflo/pkg/response"
)

// UploadHandler is the upload module HTTP handler.
type UploadHandler struct {
	uploadSvc service.UploadService
}

// NewUploadHandler builds an UploadHandler.
func NewUploadHandler(uploadSvc service.UploadService) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc}
}

// Store accepts a multipart syllabus upload.
// POST /api/v1/uploads  (form field "file")
func (h *UploadHandler) Store(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 20001, "missing file field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 20001, "unreadable file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	upload, err := h.uploadSvc.Store(c.Request.Context(), file, fileHeader.Filename, contentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadEmptyFilename):
			response.BadRequest(c, 20002, "filename must not be empty")
		case errors.Is(err, service.ErrFileTooLarge):
			response.BadRequest(c, 20003, "file exceeds the size limit")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, upload)
}

// Get returns upload metadata with a fresh signed download URL.
// GET /api/v1/uploads/:id
func (h *UploadHandler) Get(c *gin.Context) {
	upload, err := h.uploadSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUploadNotFound) {
			response.NotFound(c, 20004, "upload not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, upload)
}
