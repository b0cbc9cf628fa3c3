package model

import (
	"strings"
	"time"
)

// Syllabus event kinds.
const (
	EventKindAssignment = "assignment"
	EventKindExam       = "exam"
	EventKindQuiz       = "quiz"
	EventKindProject    = "project"
)

// SyllabusEvent is one schedulable item from a syllabus, maps to
// syllabus_events. DueDate and WeekReference may both be nil: the event
// degrades to an undated one rather than being rejected.
type SyllabusEvent struct {
	EventID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	CourseID      string     `gorm:"type:uuid;not null"                             json:"course_id"`
	Kind          string     `gorm:"type:varchar(20);not null;default:'assignment'" json:"kind"`
	Title         string     `gorm:"type:varchar(255);not null"                     json:"title"`
	DueDate       *time.Time `gorm:"type:date"                                      json:"due_date,omitempty"`
	WeekReference *string    `gorm:"type:varchar(50)"                               json:"week_reference,omitempty"`
	BaseModel
}

// TableName names the table.
func (SyllabusEvent) TableName() string { return "syllabus_events" }

// NormalizeEventKind maps free-form kind labels (model output is not
// trusted to match the enum exactly) onto the four known kinds; anything
// unrecognized falls back to assignment.
func NormalizeEventKind(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case EventKindExam, "final", "midterm":
		return EventKindExam
	case EventKindQuiz:
		return EventKindQuiz
	case EventKindProject:
		return EventKindProject
	default:
		return EventKindAssignment
	}
}
