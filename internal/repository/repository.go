package repository

import "gorm.io/gorm"

// Repository aggregates all repositories.
type Repository struct {
	Course CourseRepository
	Upload UploadRepository
}

// NewRepository builds the Repository aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Course: NewCourseRepo(db),
		Upload: NewUploadRepo(db),
	}
}
