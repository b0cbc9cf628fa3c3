package model

import "time"

// Course source values.
const (
	CourseSourceLLM   = "llm"
	CourseSourceRegex = "regex"
)

// Course is one parsed syllabus, maps to courses.
// A course and its nested rows are written once per uploaded document and
// never mutated by the parsing pipeline afterwards.
type Course struct {
	CourseID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Name            string     `gorm:"type:varchar(255);not null"                     json:"name"`
	StartDate       *time.Time `gorm:"type:date"                                      json:"start_date,omitempty"`
	AcademicTerm    *string    `gorm:"type:varchar(100)"                              json:"academic_term,omitempty"`
	InstructorName  *string    `gorm:"type:varchar(255)"                              json:"instructor_name,omitempty"`
	InstructorEmail *string    `gorm:"type:varchar(255)"                              json:"instructor_email,omitempty"`
	OfficeHours     *string    `gorm:"type:varchar(255)"                              json:"office_hours,omitempty"`
	Source          string     `gorm:"type:varchar(10);not null;default:'regex'"      json:"source"` // llm | regex
	BaseModel

	// associations
	Events         []SyllabusEvent `gorm:"foreignKey:CourseID;references:CourseID" json:"events,omitempty"`
	Textbooks      []Textbook      `gorm:"foreignKey:CourseID;references:CourseID" json:"textbooks,omitempty"`
	GradingWeights []GradingWeight `gorm:"foreignKey:CourseID;references:CourseID" json:"grading_weights,omitempty"`
	ImportantDates []ImportantDate `gorm:"foreignKey:CourseID;references:CourseID" json:"important_dates,omitempty"`
}

// TableName names the table.
func (Course) TableName() string { return "courses" }
