package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anhpls/uniflo/internal/dto"
	"github.com/anhpls/uniflo/internal/model"
	"github.com/anhpls/uniflo/internal/repository"
	"github.com/anhpls/uniflo/pkg/storage"
)

// ── upload module business errors ──

var (
	ErrUploadEmptyFilename = errors.New("upload filename must not be empty")
	ErrFileTooLarge        = storage.ErrFileTooLarge
)

// UploadService stores syllabus files and hands out signed download URLs.
type UploadService interface {
	Store(ctx context.Context, file io.Reader, filename, contentType string) (*dto.UploadResponse, error)
	Get(ctx context.Context, id string) (*dto.UploadResponse, error)
}

type uploadService struct {
	repo   *repository.Repository
	store  *storage.Store
	logger *zap.Logger
}

// NewUploadService builds an UploadService.
func NewUploadService(repo *repository.Repository, store *storage.Store, logger *zap.Logger) UploadService {
	return &uploadService{repo: repo, store: store, logger: logger}
}

func (s *uploadService) Store(ctx context.Context, file io.Reader, filename, contentType string) (*dto.UploadResponse, error) {
	if filename == "" {
		return nil, ErrUploadEmptyFilename
	}

	key, size, err := s.store.Save(file, filename)
	if err != nil {
		return nil, err
	}

	upload := &model.Upload{
		ObjectKey:   key,
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   size,
		Status:      model.UploadStatusStored,
	}
	if err := s.repo.Upload.Create(ctx, upload); err != nil {
		// do not leave an orphaned object behind
		if rmErr := s.store.Delete(key); rmErr != nil {
			s.logger.Warn("cleanup of orphaned object failed", zap.String("key", key), zap.Error(rmErr))
		}
		s.logger.Error("record upload failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("syllabus stored",
		zap.String("upload_id", upload.UploadID),
		zap.String("filename", filename),
		zap.Int64("size", size),
	)

	return s.toUploadResponse(upload), nil
}

func (s *uploadService) Get(ctx context.Context, id string) (*dto.UploadResponse, error) {
	upload, err := s.repo.Upload.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		s.logger.Error("load upload failed", zap.String("upload_id", id), zap.Error(err))
		return nil, err
	}
	return s.toUploadResponse(upload), nil
}

// toUploadResponse maps the model and issues a fresh signed URL.
func (s *uploadService) toUploadResponse(upload *model.Upload) *dto.UploadResponse {
	signedURL, err := s.store.SignURL(upload.ObjectKey)
	if err != nil {
		s.logger.Warn("sign download url failed", zap.String("key", upload.ObjectKey), zap.Error(err))
		signedURL = ""
	}

	return &dto.UploadResponse{
		UploadID:    upload.UploadID,
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		SizeBytes:   upload.SizeBytes,
		Status:      upload.Status,
		CourseID:    upload.CourseID,
		SignedURL:   signedURL,
		CreatedAt:   upload.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
