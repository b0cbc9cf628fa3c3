package model

// Textbook kinds.
const (
	TextbookRequired    = "required"
	TextbookOptional    = "optional"
	TextbookUnspecified = "unspecified"
)

// Textbook maps to textbooks. Position preserves the order of appearance
// in the source document; duplicates are kept as-is.
type Textbook struct {
	TextbookID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"textbook_id"`
	CourseID   string  `gorm:"type:uuid;not null"                              json:"course_id"`
	Kind       string  `gorm:"type:varchar(20);not null;default:'unspecified'" json:"kind"` // required | optional | unspecified
	Title      string  `gorm:"type:varchar(255);not null"                      json:"title"`
	Author     *string `gorm:"type:varchar(255)"                               json:"author,omitempty"`
	ISBN       *string `gorm:"type:varchar(20)"                                json:"isbn,omitempty"`
	Position   int     `gorm:"not null;default:0"                              json:"position"`
	BaseModel
}

// TableName names the table.
func (Textbook) TableName() string { return "textbooks" }
