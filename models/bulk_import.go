package models

import (
	"encoding/json"
	"time"
)

// UploadedImage pairs the client-supplied file name with the name the image
// was persisted under. It only lives for the duration of one import batch.
type UploadedImage struct {
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"`
}

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusDone       = "done"
	JobStatusFailed     = "failed"
)

// BulkImportJob is the record kept in Redis for an asynchronous import.
type BulkImportJob struct {
	ID        string          `json:"job_id"`
	Status    string          `json:"status"`
	FilePath  string          `json:"file_path"`
	FileName  string          `json:"file_name"`
	Images    []UploadedImage `json:"images"`
	Error     string          `json:"error,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type BulkImportSummary struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// BulkImportResult is the response body of a synchronous bulk upload.
type BulkImportResult struct {
	Success        bool              `json:"success"`
	Summary        BulkImportSummary `json:"summary"`
	ImagesUploaded int               `json:"imagesUploaded"`
	Errors         []string          `json:"errors"`
}
