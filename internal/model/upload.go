package model

// Upload status values.
const (
	UploadStatusStored = "stored"
	UploadStatusParsed = "parsed"
	UploadStatusFailed = "failed"
)

// Upload is one stored syllabus file, maps to uploads. CourseID stays nil
// until a parse run attaches the resulting course.
type Upload struct {
	UploadID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"upload_id"`
	ObjectKey   string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"object_key"`
	Filename    string  `gorm:"type:varchar(255);not null"                     json:"filename"`
	ContentType string  `gorm:"type:varchar(100);not null"                     json:"content_type"`
	SizeBytes   int64   `gorm:"not null"                                       json:"size_bytes"`
	Status      string  `gorm:"type:varchar(20);not null;default:'stored'"     json:"status"` // stored | parsed | failed
	CourseID    *string `gorm:"type:uuid"                                      json:"course_id,omitempty"`
	BaseModel
}

// TableName names the table.
func (Upload) TableName() string { return "uploads" }
