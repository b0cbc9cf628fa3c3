package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anhpls/uniflo/internal/model"
	"github.com/anhpls/uniflo/internal/repository"
)

// ── export module business errors ──

var (
	ErrExportNoEvents     = errors.New("course has no events to export")
	ErrExportGenerateFail = errors.New("generating export file failed")
)

// ExportService renders a parsed course as downloadable files: an Excel
// workbook with the schedule and grading scheme, and an iCalendar feed of
// the dated events.
type ExportService interface {
	ExportXLSX(ctx context.Context, courseID string) (*bytes.Buffer, string, error)
	ExportICS(ctx context.Context, courseID string) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService builds an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── ExportXLSX ──────────────────────
//
// Workbook layout:
//   - "Schedule" sheet: kind / title / due date / week reference per event
//   - "Grading" sheet: category / weight, when the course has weights
//   - "Textbooks" sheet: kind / title / author / isbn, when present

func (s *exportService) ExportXLSX(ctx context.Context, courseID string) (*bytes.Buffer, string, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const scheduleSheet = "Schedule"
	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}

	headers := []string{"Kind", "Title", "Due Date", "Week Reference"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(scheduleSheet, cell, h)
	}
	for row, evt := range course.Events {
		values := []interface{}{evt.Kind, evt.Title, "", ""}
		if evt.DueDate != nil {
			values[2] = evt.DueDate.Format(dateLayout)
		}
		if evt.WeekReference != nil {
			values[3] = *evt.WeekReference
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(scheduleSheet, cell, v)
		}
	}

	if len(course.GradingWeights) > 0 {
		const gradingSheet = "Grading"
		if _, err := f.NewSheet(gradingSheet); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
		}
		f.SetCellValue(gradingSheet, "A1", "Category")
		f.SetCellValue(gradingSheet, "B1", "Weight %")
		for row, g := range course.GradingWeights {
			f.SetCellValue(gradingSheet, fmt.Sprintf("A%d", row+2), g.Category)
			f.SetCellValue(gradingSheet, fmt.Sprintf("B%d", row+2), g.WeightPercent)
		}
	}

	if len(course.Textbooks) > 0 {
		const textbookSheet = "Textbooks"
		if _, err := f.NewSheet(textbookSheet); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
		}
		for col, h := range []string{"Kind", "Title", "Author", "ISBN"} {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(textbookSheet, cell, h)
		}
		for row, b := range course.Textbooks {
			values := []interface{}{b.Kind, b.Title, "", ""}
			if b.Author != nil {
				values[2] = *b.Author
			}
			if b.ISBN != nil {
				values[3] = *b.ISBN
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(textbookSheet, cell, v)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}

	return buf, exportFilename(course.Name, "xlsx"), nil
}

// ────────────────────── ExportICS ──────────────────────
//
// Emits one all-day VEVENT per dated syllabus event. Undated events have
// nothing to put on a calendar and are skipped; a course with no dated
// events at all is an ErrExportNoEvents.

func (s *exportService) ExportICS(ctx context.Context, courseID string) ([]byte, string, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//UniFLO//Syllabus Export//EN")

	dated := 0
	for _, evt := range course.Events {
		if evt.DueDate == nil {
			continue
		}
		dated++

		e := cal.AddEvent(fmt.Sprintf("%s@uniflo", evt.EventID))
		e.SetCreatedTime(evt.CreatedAt)
		e.SetDtStampTime(time.Now())
		e.SetAllDayStartAt(*evt.DueDate)
		e.SetAllDayEndAt(evt.DueDate.AddDate(0, 0, 1))
		e.SetSummary(fmt.Sprintf("%s: %s", course.Name, evt.Title))
		e.SetDescription(fmt.Sprintf("%s (%s)", evt.Title, evt.Kind))
	}
	if dated == 0 {
		return nil, "", ErrExportNoEvents
	}

	return []byte(cal.Serialize()), exportFilename(course.Name, "ics"), nil
}

// ── helpers ──

func (s *exportService) loadCourse(ctx context.Context, courseID string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("load course for export failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return course, nil
}

// exportFilename keeps the course name filesystem-friendly.
func exportFilename(courseName, ext string) string {
	name := make([]rune, 0, len(courseName))
	for _, r := range courseName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			name = append(name, r)
		case r == ' ', r == '-', r == '_':
			name = append(name, '_')
		}
	}
	if len(name) == 0 {
		name = []rune("course")
	}
	return fmt.Sprintf("%s.%s", string(name), ext)
}
