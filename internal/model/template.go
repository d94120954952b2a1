package model

import "time"

// Template represents an uploaded template document held in object storage.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Template struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	StoragePath      string    `json:"storage_path"`
	Size             int64     `json:"size"`
	ContentType      string    `json:"content_type"`
	Format           string    `json:"format"`
	PageCount        int       `json:"page_count,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
