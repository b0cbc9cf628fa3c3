package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anhpls/uniflo/internal/model"
)

// UploadRepository is the uploads data access interface.
type UploadRepository interface {
	Create(ctx context.Context, upload *model.Upload) error
	GetByID(ctx context.Context, id string) (*model.Upload, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AttachCourse(ctx context.Context, id, courseID string) error
}

type uploadRepo struct {
	db *gorm.DB
}

// NewUploadRepo builds an UploadRepository.
func NewUploadRepo(db *gorm.DB) UploadRepository {
	return &uploadRepo{db: db}
}

func (r *uploadRepo) Create(ctx context.Context, upload *model.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *uploadRepo) GetByID(ctx context.Context, id string) (*model.Upload, error) {
	var upload model.Upload
	err := r.db.WithContext(ctx).
		Where("upload_id = ?", id).
		First(&upload).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *uploadRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Upload{}).
		Where("upload_id = ?", id).
		Update("status", status).Error
}

func (r *uploadRepo) AttachCourse(ctx context.Context, id, courseID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Upload{}).
		Where("upload_id = ?", id).
		Updates(map[string]interface{}{
			"course_id": courseID,
			"status":    model.UploadStatusParsed,
		}).Error
}
