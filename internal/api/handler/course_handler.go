package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/anhpls/uniflo/internal/dto"
	"github.com/anhpls/uniflo/internal/service"
	"github.com/anhpls/uniflo/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CourseHandler is the course module HTTP handler, including exports.
type CourseHandler struct {
	courseSvc service.CourseService
	exportSvc service.ExportService
}

// NewCourseHandler builds a CourseHandler.
func NewCourseHandler(courseSvc service.CourseService, exportSvc service.ExportService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc, exportSvc: exportSvc}
}

// Get returns the full course aggregate.
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courseSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 40001, "course not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, course)
}

// List returns course summaries.
// GET /api/v1/courses?page=1&page_size=20
func (h *CourseHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "invalid pagination")
		return
	}

	courses, total, err := h.courseSvc.List(c.Request.Context(), page.GetPage(), page.GetPageSize())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, courses, total, page.GetPage(), page.GetPageSize())
}

// Delete removes a course and its nested rows.
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courseSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 40001, "course not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ExportXLSX downloads the course as an Excel workbook.
// GET /api/v1/courses/:id/export/xlsx
func (h *CourseHandler) ExportXLSX(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportXLSX(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportICS downloads the course's dated events as an iCalendar feed.
// GET /api/v1/courses/:id/export/ics
func (h *CourseHandler) ExportICS(c *gin.Context) {
	data, filename, err := h.exportSvc.ExportICS(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar", data)
}

func (h *CourseHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 40001, "course not found")
	case errors.Is(err, service.ErrExportNoEvents):
		response.BadRequest(c, 40002, "course has no dated events to export")
	default:
		response.InternalError(c)
	}
}
