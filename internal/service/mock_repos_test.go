package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anhpls/uniflo/config"
	"github.com/anhpls/uniflo/internal/dto"
	"github.com/anhpls/uniflo/internal/model"
	"github.com/anhpls/uniflo/internal/repository"
	"github.com/anhpls/uniflo/pkg/storage"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
	nextID  int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) CreateWithChildren(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		m.nextID++
		course.CourseID = fmt.Sprintf("course-%d", m.nextID)
	}
	for i := range course.Events {
		course.Events[i].CourseID = course.CourseID
		if course.Events[i].EventID == "" {
			course.Events[i].EventID = fmt.Sprintf("%s-evt-%d", course.CourseID, i)
		}
	}
	for i := range course.Textbooks {
		course.Textbooks[i].CourseID = course.CourseID
	}
	for i := range course.GradingWeights {
		course.GradingWeights[i].CourseID = course.CourseID
	}
	for i := range course.ImportantDates {
		course.ImportantDates[i].CourseID = course.CourseID
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, page, pageSize int) ([]model.Course, int64, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	total := int64(len(result))
	start := (page - 1) * pageSize
	if start >= len(result) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.courses, id)
	return nil
}

// ── Mock UploadRepository ──

type mockUploadRepo struct {
	uploads map[string]*model.Upload
	nextID  int
}

func newMockUploadRepo() *mockUploadRepo {
	return &mockUploadRepo{uploads: make(map[string]*model.Upload)}
}

func (m *mockUploadRepo) Create(_ context.Context, upload *model.Upload) error {
	if upload.UploadID == "" {
		m.nextID++
		upload.UploadID = fmt.Sprintf("upload-%d", m.nextID)
	}
	upload.CreatedAt = time.Now()
	m.uploads[upload.UploadID] = upload
	return nil
}

func (m *mockUploadRepo) GetByID(_ context.Context, id string) (*model.Upload, error) {
	if u, ok := m.uploads[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUploadRepo) UpdateStatus(_ context.Context, id, status string) error {
	u, ok := m.uploads[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Status = status
	return nil
}

func (m *mockUploadRepo) AttachCourse(_ context.Context, id, courseID string) error {
	u, ok := m.uploads[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.CourseID = &courseID
	u.Status = model.UploadStatusParsed
	return nil
}

// ── Mock ModelParser ──

type mockParser struct {
	result *dto.ParsedSyllabus
	err    error
	calls  int
}

func (m *mockParser) ParseSyllabus(_ context.Context, _ string) (*dto.ParsedSyllabus, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// ── fixtures ──

func newTestRepo() (*repository.Repository, *mockCourseRepo, *mockUploadRepo) {
	courses := newMockCourseRepo()
	uploads := newMockUploadRepo()
	return &repository.Repository{Course: courses, Upload: uploads}, courses, uploads
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	cfg := &config.StorageConfig{
		Root:         t.TempDir(),
		URLSecret:    "unit-test-secret-0123456789",
		URLTTL:       time.Hour,
		MaxFileBytes: 1 << 20,
	}
	store, err := storage.NewStore(cfg, "http://localhost:8080", zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}
