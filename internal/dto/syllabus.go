package dto

// ── parse requests ──

// ParseUploadRequest triggers parsing of a stored upload.
// StartDate (YYYY-MM-DD) is optional; when present, week references in the
// document are annotated with absolute dates before extraction and week
// references on events are resolved to due dates.
type ParseUploadRequest struct {
	UseLLM    bool   `json:"use_llm"`
	StartDate string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
}

// PreviewRequest runs the regex extraction path over raw text without
// persisting anything.
type PreviewRequest struct {
	Text      string `json:"text" binding:"required"`
	StartDate string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
}

// ── extraction results ──

// InstructorInfo is a matched instructor block. OfficeHours carries an
// explicit placeholder when the optional group is absent, never an empty
// sentinel.
type InstructorInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	OfficeHours string `json:"office_hours"`
}

// TextbookMatch is one matched "Required/Optional Textbook:" citation.
type TextbookMatch struct {
	Kind   string `json:"kind"` // required | optional
	Title  string `json:"title"`
	Author string `json:"author"`
}

// GradingItem is one matched "<category>: N%" entry.
type GradingItem struct {
	Category      string `json:"category"`
	WeightPercent int    `json:"weight_percent"`
}

// PreviewResponse is the non-persisting extraction result.
type PreviewResponse struct {
	NormalizedText string          `json:"normalized_text"`
	Instructor     *InstructorInfo `json:"instructor"`
	Textbooks      []TextbookMatch `json:"textbooks"`
	Grading        []GradingItem   `json:"grading"`
	Dates          []string        `json:"dates"`
}

// ParseResultResponse summarizes a persisted parse run.
type ParseResultResponse struct {
	CourseID      string `json:"course_id"`
	CourseName    string `json:"course_name"`
	Source        string `json:"source"` // llm | regex
	EventCount    int    `json:"event_count"`
	TextbookCount int    `json:"textbook_count"`
	GradingCount  int    `json:"grading_count"`
	DateCount     int    `json:"date_count"`
	FromCache     bool   `json:"from_cache"`
}

// ── LLM response schema ──
//
// ParsedSyllabus is the JSON contract the completion model is prompted to
// fill. It is the superset of the schemas the product has used: course
// metadata, instructor, textbooks, and typed events carrying either an
// absolute due date, a week reference, or both.

type ParsedSyllabus struct {
	Course       string            `json:"course"`
	StartDate    string            `json:"startDate"`
	AcademicTerm string            `json:"academicTerm"`
	Instructor   *ParsedInstructor `json:"instructor"`
	Textbooks    []ParsedTextbook  `json:"textbooks"`
	Events       []ParsedEvent     `json:"events"`
}

type ParsedInstructor struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	OfficeHours string `json:"officeHours"`
}

type ParsedTextbook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

type ParsedEvent struct {
	Type          string `json:"type"` // Assignment | Exam | Quiz | Project
	Title         string `json:"title"`
	DueDate       string `json:"dueDate"`       // YYYY-MM-DD or empty
	WeekReference string `json:"weekReference"` // "Week 5" or empty
}
