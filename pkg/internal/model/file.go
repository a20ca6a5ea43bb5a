// Package model holds the data records persisted by the vault.
package model

import "time"

// FileRecord is the per-file metadata persisted as a JSON sidecar next to the
// blob. Records are created once and never updated; a transform always
// produces a new record.
type FileRecord struct {
	FileID       string    `json:"fileId"`
	OriginalName string    `json:"originalName"`
	StoredName   string    `json:"filename"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimetype"`
	UploadedAt   time.Time `json:"uploadedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the record's retention window has passed.
func (r *FileRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
