package dto

// UploadResponse is the stored-upload view. SignedURL is a fresh
// time-limited download link, re-issued on every read.
type UploadResponse struct {
	UploadID    string  `json:"upload_id"`
	Filename    string  `json:"filename"`
	ContentType string  `json:"content_type"`
	SizeBytes   int64   `json:"size_bytes"`
	Status      string  `json:"status"`
	CourseID    *string `json:"course_id,omitempty"`
	SignedURL   string  `json:"signed_url"`
	CreatedAt   string  `json:"created_at"`
}
