package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/anhpls/uniflo/config"
	"github.com/anhpls/uniflo/internal/dto"
)

// ── model-backed syllabus parsing ──

var (
	ErrModelUnavailable   = errors.New("completion model is not configured")
	ErrModelEmptyResponse = errors.New("completion model returned no candidates")
	ErrModelBadJSON       = errors.New("completion model returned malformed JSON")
)

// ModelParser turns normalized syllabus text into a structured record via
// an external completion model.
type ModelParser interface {
	ParseSyllabus(ctx context.Context, text string) (*dto.ParsedSyllabus, error)
}

// syllabusPrompt instructs the model to fill the dto.ParsedSyllabus
// schema. Week references are passed through as labels; resolving them to
// absolute dates stays on our side of the boundary.
const syllabusPrompt = `You are an expert academic syllabus parser. Analyze the syllabus text and:

1. Identify the course name (usually at the top of the syllabus).
2. Determine the course start date (phrases like "course begins", "term starts", or the earliest event).
3. Note the academic term (Fall 2024, Spring 2025, ...).
4. Extract the instructor's name, email, and office hours if present.
5. Extract textbooks with title, author, and ISBN if available.
6. Extract all assignments, exams, quizzes, and projects with exact dates
   (YYYY-MM-DD) and/or week references ("Week 5") when given.

Output ONLY valid JSON matching this structure, no markdown, no code fences:
{
  "course": "Course Name",
  "startDate": "YYYY-MM-DD or empty string",
  "academicTerm": "Term or empty string",
  "instructor": {"name": "", "email": "", "officeHours": ""},
  "textbooks": [{"title": "", "author": "", "isbn": ""}],
  "events": [{"type": "Assignment|Exam|Quiz|Project", "title": "", "dueDate": "YYYY-MM-DD or empty", "weekReference": "Week X or empty"}]
}

Do not fabricate information. Leave fields empty when the syllabus does not
contain them. Be thorough but only include what is actually found.`

// geminiParser is the Gemini-backed ModelParser.
type geminiParser struct {
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeminiParser builds the Gemini client. An empty API key returns a
// parser whose calls fail with ErrModelUnavailable, so the regex path
// keeps working without credentials.
func NewGeminiParser(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (ModelParser, error) {
	if cfg.APIKey == "" {
		logger.Warn("gemini api key not set, LLM parse path disabled")
		return &geminiParser{logger: logger}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	logger.Info("gemini client initialized", zap.String("model", cfg.Model))

	return &geminiParser{model: model, timeout: cfg.Timeout, logger: logger}, nil
}

func (p *geminiParser) ParseSyllabus(ctx context.Context, text string) (*dto.ParsedSyllabus, error) {
	if p.model == nil {
		return nil, ErrModelUnavailable
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.model.GenerateContent(ctx,
		genai.Text(syllabusPrompt),
		genai.Text(text),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrModelEmptyResponse
	}

	raw, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, ErrModelEmptyResponse
	}

	var parsed dto.ParsedSyllabus
	if err := json.Unmarshal([]byte(stripCodeFences(string(raw))), &parsed); err != nil {
		p.logger.Warn("gemini returned unparseable JSON", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrModelBadJSON, err)
	}

	return &parsed, nil
}

// stripCodeFences removes the ```json fences models add despite being told
// not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
