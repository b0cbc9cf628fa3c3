package model

// GradingWeight maps to grading_weights. One row per matched
// "<category>: N%" occurrence, in order of appearance. Weights are not
// deduplicated and are not required to sum to 100.
type GradingWeight struct {
	GradingWeightID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"grading_weight_id"`
	CourseID        string `gorm:"type:uuid;not null"                             json:"course_id"`
	Category        string `gorm:"type:varchar(100);not null"                     json:"category"`
	WeightPercent   int    `gorm:"not null"                                       json:"weight_percent"`
	Position        int    `gorm:"not null;default:0"                             json:"position"`
	BaseModel
}

// TableName names the table.
func (GradingWeight) TableName() string { return "grading_weights" }
