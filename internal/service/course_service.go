package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anhpls/uniflo/internal/dto"
	"github.com/anhpls/uniflo/internal/model"
	"github.com/anhpls/uniflo/internal/repository"
)

// ── course module business errors ──

var ErrCourseNotFound = errors.New("course not found")

// CourseService reads and removes persisted course aggregates. Courses are
// written by the parse pipeline only; there is no update surface.
type CourseService interface {
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context, page, pageSize int) ([]dto.CourseSummaryResponse, int64, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService builds a CourseService.
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("load course failed", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context, page, pageSize int) ([]dto.CourseSummaryResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	courses, total, err := s.repo.Course.List(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("list courses failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CourseSummaryResponse, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		result = append(result, dto.CourseSummaryResponse{
			CourseID:     c.CourseID,
			Name:         c.Name,
			StartDate:    formatDatePtr(c.StartDate),
			AcademicTerm: c.AcademicTerm,
			Source:       c.Source,
			EventCount:   len(c.Events),
			CreatedAt:    c.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, total, nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("delete course failed", zap.String("course_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── mapping ──

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		CourseID:       c.CourseID,
		Name:           c.Name,
		StartDate:      formatDatePtr(c.StartDate),
		AcademicTerm:   c.AcademicTerm,
		Source:         c.Source,
		Events:         make([]dto.EventResponse, 0, len(c.Events)),
		Textbooks:      make([]dto.TextbookResponse, 0, len(c.Textbooks)),
		GradingWeights: make([]dto.GradingWeightResponse, 0, len(c.GradingWeights)),
		ImportantDates: make([]string, 0, len(c.ImportantDates)),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}

	if c.InstructorName != nil {
		resp.Instructor = &dto.InstructorInfo{Name: *c.InstructorName}
		if c.InstructorEmail != nil {
			resp.Instructor.Email = *c.InstructorEmail
		}
		if c.OfficeHours != nil {
			resp.Instructor.OfficeHours = *c.OfficeHours
		}
	}

	for _, e := range c.Events {
		resp.Events = append(resp.Events, dto.EventResponse{
			EventID:       e.EventID,
			Kind:          e.Kind,
			Title:         e.Title,
			DueDate:       formatDatePtr(e.DueDate),
			WeekReference: e.WeekReference,
		})
	}
	for _, b := range c.Textbooks {
		resp.Textbooks = append(resp.Textbooks, dto.TextbookResponse{
			Kind:   b.Kind,
			Title:  b.Title,
			Author: b.Author,
			ISBN:   b.ISBN,
		})
	}
	for _, g := range c.GradingWeights {
		resp.GradingWeights = append(resp.GradingWeights, dto.GradingWeightResponse{
			Category:      g.Category,
			WeightPercent: g.WeightPercent,
		})
	}
	for _, d := range c.ImportantDates {
		resp.ImportantDates = append(resp.ImportantDates, d.RawText)
	}

	return resp
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
