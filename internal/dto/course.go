package dto

// CourseResponse is the full course aggregate returned by the API.
type CourseResponse struct {
	CourseID       string                  `json:"course_id"`
	Name           string                  `json:"name"`
	StartDate      *string                 `json:"start_date,omitempty"` // YYYY-MM-DD
	AcademicTerm   *string                 `json:"academic_term,omitempty"`
	Instructor     *InstructorInfo         `json:"instructor,omitempty"`
	Source         string                  `json:"source"`
	Events         []EventResponse         `json:"events"`
	Textbooks      []TextbookResponse      `json:"textbooks"`
	GradingWeights []GradingWeightResponse `json:"grading_weights"`
	ImportantDates []string                `json:"important_dates"`
	CreatedAt      string                  `json:"created_at"`
}

// CourseSummaryResponse is the list-view shape.
type CourseSummaryResponse struct {
	CourseID     string  `json:"course_id"`
	Name         string  `json:"name"`
	StartDate    *string `json:"start_date,omitempty"`
	AcademicTerm *string `json:"academic_term,omitempty"`
	Source       string  `json:"source"`
	EventCount   int     `json:"event_count"`
	CreatedAt    string  `json:"created_at"`
}

// EventResponse is one syllabus event.
type EventResponse struct {
	EventID       string  `json:"event_id"`
	Kind          string  `json:"kind"`
	Title         string  `json:"title"`
	DueDate       *string `json:"due_date,omitempty"` // YYYY-MM-DD
	WeekReference *string `json:"week_reference,omitempty"`
}

// TextbookResponse is one textbook row.
type TextbookResponse struct {
	Kind   string  `json:"kind"`
	Title  string  `json:"title"`
	Author *string `json:"author,omitempty"`
	ISBN   *string `json:"isbn,omitempty"`
}

// GradingWeightResponse is one grading category row.
type GradingWeightResponse struct {
	Category      string `json:"category"`
	WeightPercent int    `json:"weight_percent"`
}
