package models

import "time"

// Document is a stored file (contract, photo, generated PDF) attached to a
// project or billing document. The bytes live in S3-compatible storage; the
// row only records metadata and the object key.
type Document struct {
	ID               int       `json:"id"`
	ProjectID        int       `json:"project_id"`
	Name             string    `json:"name"`
	ContentType      string    `json:"content_type"`
	SizeBytes        int64     `json:"size_bytes"`
	StorageKey       string    `json:"storage_key"`
	Category         string    `json:"category"` // contract, photo, pdf, other
	UploadedByUserID *int      `json:"uploaded_by_user_id"`
	CreatedAt        time.Time `json:"created_at"`
}
