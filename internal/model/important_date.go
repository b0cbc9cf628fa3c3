package model

// ImportantDate maps to important_dates. RawText is the literal matched
// substring ("March 3, 2024", "12/15/2024"); no canonicalization happens at
// extraction time.
type ImportantDate struct {
	ImportantDateID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"important_date_id"`
	CourseID        string `gorm:"type:uuid;not null"                             json:"course_id"`
	RawText         string `gorm:"type:varchar(100);not null"                     json:"raw_text"`
	BaseModel
}

// TableName names the table.
func (ImportantDate) TableName() string { return "important_dates" }
