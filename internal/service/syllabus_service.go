package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anhpls/uniflo/internal/dto"
	"github.com/anhpls/uniflo/internal/model"
	"github.com/anhpls/uniflo/internal/repository"
	"github.com/anhpls/uniflo/pkg/redis"
	"github.com/anhpls/uniflo/pkg/storage"
)

// ── syllabus module business errors ──

var (
	ErrUploadNotFound = errors.New("upload not found")
	ErrUploadGone     = errors.New("uploaded file is no longer in storage")
	ErrEmptyDocument  = errors.New("document contains no extractable text")
	ErrAlreadyParsed  = errors.New("upload has already been parsed")
)

const parseCacheTTL = 24 * time.Hour

// SyllabusService orchestrates the parse pipeline: stored file → text →
// week-reference annotation → field extraction (regex or completion
// model) → persisted course aggregate.
//
// Extraction degrades rather than aborts: a malformed start date skips
// normalization, an unresolvable week reference leaves an event undated,
// and an extraction that finds nothing still produces a course shell.
type SyllabusService interface {
	ParseUpload(ctx context.Context, uploadID string, req *dto.ParseUploadRequest) (*dto.ParseResultResponse, error)
	Preview(ctx context.Context, req *dto.PreviewRequest) (*dto.PreviewResponse, error)
}

type syllabusService struct {
	repo   *repository.Repository
	store  *storage.Store
	rdb    *redis.Client
	parser ModelParser
	logger *zap.Logger
}

// NewSyllabusService builds a SyllabusService.
func NewSyllabusService(
	repo *repository.Repository,
	store *storage.Store,
	rdb *redis.Client,
	parser ModelParser,
	logger *zap.Logger,
) SyllabusService {
	return &syllabusService{repo: repo, store: store, rdb: rdb, parser: parser, logger: logger}
}

// ────────────────────── ParseUpload ──────────────────────

func (s *syllabusService) ParseUpload(ctx context.Context, uploadID string, req *dto.ParseUploadRequest) (*dto.ParseResultResponse, error) {
	upload, err := s.repo.Upload.GetByID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		s.logger.Error("load upload failed", zap.String("upload_id", uploadID), zap.Error(err))
		return nil, err
	}
	if upload.Status == model.UploadStatusParsed {
		return nil, ErrAlreadyParsed
	}

	data, err := s.store.ReadAll(upload.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrUploadGone
		}
		return nil, err
	}

	kind := ClassifyDocument(upload.ContentType, upload.Filename)
	text, err := ExtractText(data, kind)
	if err != nil {
		s.markFailed(ctx, uploadID)
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		s.markFailed(ctx, uploadID)
		return nil, ErrEmptyDocument
	}

	// A malformed or absent start date skips normalization; it never fails
	// the request.
	var startDate *time.Time
	if req.StartDate != "" {
		if parsed, err := ParseStartDate(req.StartDate); err == nil {
			startDate = &parsed
		} else {
			s.logger.Warn("start date unusable, skipping week annotation",
				zap.String("start_date", req.StartDate))
		}
	}

	normalized := AnnotateWeekReferences(text, startDate)

	var (
		course    *model.Course
		fromCache bool
	)
	if req.UseLLM {
		course, fromCache, err = s.parseWithModel(ctx, normalized, startDate)
		if err != nil {
			s.markFailed(ctx, uploadID)
			return nil, err
		}
	} else {
		course = s.parseWithRegex(normalized, upload.Filename, startDate)
	}

	if err := s.repo.Course.CreateWithChildren(ctx, course); err != nil {
		s.logger.Error("persist course failed", zap.Error(err))
		s.markFailed(ctx, uploadID)
		return nil, err
	}
	if err := s.repo.Upload.AttachCourse(ctx, uploadID, course.CourseID); err != nil {
		s.logger.Error("attach course to upload failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("syllabus parsed",
		zap.String("upload_id", uploadID),
		zap.String("course_id", course.CourseID),
		zap.String("source", course.Source),
		zap.Int("events", len(course.Events)),
	)

	return &dto.ParseResultResponse{
		CourseID:      course.CourseID,
		CourseName:    course.Name,
		Source:        course.Source,
		EventCount:    len(course.Events),
		TextbookCount: len(course.Textbooks),
		GradingCount:  len(course.GradingWeights),
		DateCount:     len(course.ImportantDates),
		FromCache:     fromCache,
	}, nil
}

// ────────────────────── Preview ──────────────────────

func (s *syllabusService) Preview(_ context.Context, req *dto.PreviewRequest) (*dto.PreviewResponse, error) {
	var startDate *time.Time
	if req.StartDate != "" {
		if parsed, err := ParseStartDate(req.StartDate); err == nil {
			startDate = &parsed
		}
	}

	normalized := AnnotateWeekReferences(req.Text, startDate)

	return &dto.PreviewResponse{
		NormalizedText: normalized,
		Instructor:     ExtractInstructor(normalized),
		Textbooks:      ExtractTextbooks(normalized),
		Grading:        ExtractGrading(normalized),
		Dates:          ExtractDates(normalized),
	}, nil
}

// ────────────────────── extraction paths ──────────────────────

// parseWithRegex builds the course aggregate from the pattern matchers.
// The regex path has no notion of a course title, so the upload filename
// stands in for it.
func (s *syllabusService) parseWithRegex(text, filename string, startDate *time.Time) *model.Course {
	course := &model.Course{
		Name:   courseNameFromFilename(filename),
		Source: model.CourseSourceRegex,
	}
	if startDate != nil {
		d := *startDate
		course.StartDate = &d
	}

	if instructor := ExtractInstructor(text); instructor != nil {
		course.InstructorName = &instructor.Name
		course.InstructorEmail = &instructor.Email
		course.OfficeHours = &instructor.OfficeHours
	}

	for i, book := range ExtractTextbooks(text) {
		author := book.Author
		course.Textbooks = append(course.Textbooks, model.Textbook{
			Kind:     book.Kind,
			Title:    book.Title,
			Author:   &author,
			Position: i,
		})
	}

	for i, item := range ExtractGrading(text) {
		course.GradingWeights = append(course.GradingWeights, model.GradingWeight{
			Category:      item.Category,
			WeightPercent: item.WeightPercent,
			Position:      i,
		})
	}

	for _, raw := range ExtractDates(text) {
		course.ImportantDates = append(course.ImportantDates, model.ImportantDate{RawText: raw})
	}

	return course
}

// parseWithModel builds the course aggregate from the completion model,
// consulting the parse cache first so re-uploading the same document does
// not spend another model call.
func (s *syllabusService) parseWithModel(ctx context.Context, text string, reqStart *time.Time) (*model.Course, bool, error) {
	parsed, fromCache := s.cachedParse(ctx, text)
	if parsed == nil {
		var err error
		parsed, err = s.parser.ParseSyllabus(ctx, text)
		if err != nil {
			return nil, false, err
		}
		s.cacheParse(ctx, text, parsed)
	}

	// request-supplied start date wins over the model's guess
	startDate := reqStart
	if startDate == nil && parsed.StartDate != "" {
		if d, err := ParseStartDate(parsed.StartDate); err == nil {
			startDate = &d
		}
	}

	name := strings.TrimSpace(parsed.Course)
	if name == "" {
		name = "Untitled Course"
	}

	course := &model.Course{
		Name:      name,
		StartDate: startDate,
		Source:    model.CourseSourceLLM,
	}
	if term := strings.TrimSpace(parsed.AcademicTerm); term != "" {
		course.AcademicTerm = &term
	}
	if parsed.Instructor != nil && parsed.Instructor.Name != "" {
		course.InstructorName = &parsed.Instructor.Name
		if parsed.Instructor.Email != "" {
			course.InstructorEmail = &parsed.Instructor.Email
		}
		if parsed.Instructor.OfficeHours != "" {
			course.OfficeHours = &parsed.Instructor.OfficeHours
		}
	}

	for i, book := range parsed.Textbooks {
		if strings.TrimSpace(book.Title) == "" {
			continue
		}
		tb := model.Textbook{Kind: model.TextbookUnspecified, Title: book.Title, Position: i}
		if book.Author != "" {
			author := book.Author
			tb.Author = &author
		}
		if book.ISBN != "" {
			isbn := book.ISBN
			tb.ISBN = &isbn
		}
		course.Textbooks = append(course.Textbooks, tb)
	}

	for _, evt := range parsed.Events {
		if strings.TrimSpace(evt.Title) == "" {
			continue
		}
		event := model.SyllabusEvent{
			Kind:  model.NormalizeEventKind(evt.Type),
			Title: strings.TrimSpace(evt.Title),
		}
		if evt.WeekReference != "" {
			ref := evt.WeekReference
			event.WeekReference = &ref
		}
		event.DueDate = resolveEventDueDate(evt, startDate)
		// both absent: kept as an undated event, not dropped
		course.Events = append(course.Events, event)
	}

	return course, fromCache, nil
}

// resolveEventDueDate picks the event's due date. A week reference plus a
// known start date takes precedence over the model's literal date, per the
// product's import behavior; a reference that fails to resolve falls back
// to the literal date.
func resolveEventDueDate(evt dto.ParsedEvent, startDate *time.Time) *time.Time {
	if evt.WeekReference != "" && startDate != nil {
		if d, err := ResolveWeek(evt.WeekReference, *startDate); err == nil {
			return &d
		}
	}
	if evt.DueDate != "" {
		if d, err := ParseStartDate(evt.DueDate); err == nil {
			return &d
		}
	}
	return nil
}

// ────────────────────── parse cache ──────────────────────

func (s *syllabusService) cachedParse(ctx context.Context, text string) (*dto.ParsedSyllabus, bool) {
	if s.rdb == nil {
		return nil, false
	}
	payload, ok := s.rdb.GetParsedSyllabus(ctx, textHash(text))
	if !ok {
		return nil, false
	}
	var parsed dto.ParsedSyllabus
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, false
	}
	return &parsed, true
}

func (s *syllabusService) cacheParse(ctx context.Context, text string, parsed *dto.ParsedSyllabus) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(parsed)
	if err != nil {
		return
	}
	if err := s.rdb.SetParsedSyllabus(ctx, textHash(text), string(payload), parseCacheTTL); err != nil {
		s.logger.Warn("cache parse result failed", zap.Error(err))
	}
}

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ────────────────────── helpers ──────────────────────

func (s *syllabusService) markFailed(ctx context.Context, uploadID string) {
	if err := s.repo.Upload.UpdateStatus(ctx, uploadID, model.UploadStatusFailed); err != nil {
		s.logger.Warn("mark upload failed errored", zap.String("upload_id", uploadID), zap.Error(err))
	}
}

// courseNameFromFilename strips the extension and tidies separators:
// "cs101_fall_syllabus.pdf" -> "cs101 fall syllabus".
func courseNameFromFilename(filename string) string {
	name := filename
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "Untitled Course"
	}
	return name
}
