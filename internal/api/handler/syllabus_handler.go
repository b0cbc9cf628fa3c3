package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anhpls/uniflo/internal/dto"
	"github.com/anhpls/uniflo/internal/service"
	"github.com/anhpls/uniflo/pkg/response"
)

// SyllabusHandler is the parse pipeline HTTP handler.
type SyllabusHandler struct {
	syllabusSvc service.SyllabusService
}

// NewSyllabusHandler builds a SyllabusHandler.
func NewSyllabusHandler(syllabusSvc service.SyllabusService) *SyllabusHandler {
	return &SyllabusHandler{syllabusSvc: syllabusSvc}
}

// Parse runs the parse pipeline over a stored upload.
// POST /api/v1/uploads/:id/parse
func (h *SyllabusHandler) Parse(c *gin.Context) {
	var req dto.ParseUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// an empty body means default options
		if c.Request.ContentLength > 0 {
			response.BadRequest(c, 30001, "invalid parse options")
			return
		}
	}

	result, err := h.syllabusSvc.ParseUpload(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleParseError(c, err)
		return
	}

	response.OK(c, result)
}

// Preview runs regex extraction over raw text without persisting.
// POST /api/v1/syllabus/preview
func (h *SyllabusHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 30001, "text is required")
		return
	}

	result, err := h.syllabusSvc.Preview(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

func (h *SyllabusHandler) handleParseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUploadNotFound):
		response.NotFound(c, 30002, "upload not found")
	case errors.Is(err, service.ErrAlreadyParsed):
		response.Error(c, http.StatusConflict, 30003, "upload has already been parsed")
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Error(c, http.StatusUnsupportedMediaType, 30004, "file type cannot be parsed")
	case errors.Is(err, service.ErrEmptyDocument):
		response.Error(c, http.StatusUnprocessableEntity, 30005, "document contains no extractable text")
	case errors.Is(err, service.ErrModelUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 30006, "completion model is not configured")
	case errors.Is(err, service.ErrModelEmptyResponse), errors.Is(err, service.ErrModelBadJSON):
		response.Error(c, http.StatusBadGateway, 30007, "completion model returned an unusable response")
	case errors.Is(err, service.ErrUploadGone):
		response.Error(c, http.StatusGone, 30008, "uploaded file is no longer in storage")
	default:
		response.InternalError(c)
	}
}
