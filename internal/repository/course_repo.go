package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anhpls/uniflo/internal/model"
)

// CourseRepository is the courses aggregate data access interface.
type CourseRepository interface {
	// CreateWithChildren inserts a course and all of its nested rows in one
	// transaction.
	CreateWithChildren(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, page, pageSize int) ([]model.Course, int64, error)
	Delete(ctx context.Context, id string) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo builds a CourseRepository.
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) CreateWithChildren(ctx context.Context, course *model.Course) error {
	// gorm cascades associated slices inside the same insert transaction
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC NULLS LAST, created_at ASC")
		}).
		Preload("Textbooks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("GradingWeights", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("ImportantDates").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, page, pageSize int) ([]model.Course, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Events").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&courses).Error
	return courses, total, err
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	// child rows go with the course via ON DELETE CASCADE
	return r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}
