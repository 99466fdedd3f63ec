package model

import "time"

// Document is the metadata kept for a generated gallery stored for later download.
// StoragePath is the blob key, always "<ID>.docx".
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionRecord remembers the last document generated for a browser session.
type SessionRecord struct {
	DocID     string    `json:"doc_id"`
	FileName  string    `json:"file_name"`
	UpdatedAt time.Time `json:"updated_at"`
}
