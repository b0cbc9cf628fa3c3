package handler

import (
	"github.com/anhpls/uniflo/internal/service"
	"github.com/anhpls/uniflo/pkg/storage"
)

// Handler is the aggregate entry point for all handlers.
type Handler struct {
	Upload   *UploadHandler
	Syllabus *SyllabusHandler
	Course   *CourseHandler
	File     *FileHandler
}

// NewHandler wires all handlers together.
func NewHandler(svc *service.Service, store *storage.Store) *Handler {
	return &Handler{
		Upload:   NewUploadHandler(svc.Upload),
		Syllabus: NewSyllabusHandler(svc.Syllabus),
		Course:   NewCourseHandler(svc.Course, svc.Export),
		File:     NewFileHandler(store),
	}
}
