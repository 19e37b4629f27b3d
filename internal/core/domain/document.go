package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Genre       string         `json:"genre,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	Upvotes     int            `json:"upvotes"`
	Downvotes   int            `json:"downvotes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Enrichment is what the processing pipeline produces for a stored document.
type Enrichment struct {
	Genre   string `json:"genre"`
	Summary string `json:"summary"`
}
