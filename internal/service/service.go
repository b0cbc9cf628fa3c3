package service

import (
	"go.uber.org/zap"

	"github.com/anhpls/uniflo/internal/repository"
	"github.com/anhpls/uniflo/pkg/redis"
	"github.com/anhpls/uniflo/pkg/storage"
)

// Service is the aggregate entry point for all services.
type Service struct {
	Syllabus SyllabusService
	Upload   UploadService
	Course   CourseService
	Export   ExportService
}

// NewService wires all services together. parser may be a disabled parser
// and rdb may be nil; the syllabus service degrades accordingly.
func NewService(
	repo *repository.Repository,
	store *storage.Store,
	rdb *redis.Client,
	parser ModelParser,
	logger *zap.Logger,
) *Service {
	return &Service{
		Syllabus: NewSyllabusService(repo, store, rdb, parser, logger),
		Upload:   NewUploadService(repo, store, logger),
		Course:   NewCourseService(repo, logger),
		Export:   NewExportService(repo, logger),
	}
}
