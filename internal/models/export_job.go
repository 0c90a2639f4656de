package models

import "time"

// ExportFormat enumerates supported schedule export renderings.
type ExportFormat string

const (
	ExportFormatICS ExportFormat = "ics"
	ExportFormatCSV ExportFormat = "csv"
	// ExportFormatPDF renders the weekly calendar grid.
	ExportFormatPDF ExportFormat = "pdf"
	// ExportFormatPDFList renders a one-row-per-course table instead.
	ExportFormatPDFList ExportFormat = "pdf-list"
)

// ExportStatus tracks the lifecycle of an asynchronous export job.
type ExportStatus string

const (
	ExportStatusPending    ExportStatus = "pending"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusCompleted  ExportStatus = "completed"
	ExportStatusFailed     ExportStatus = "failed"
)

// ExportJob captures an asynchronous schedule export request and its result.
// Jobs live in memory only; the rendered file on disk plus the signed token
// are the durable artifacts.
type ExportJob struct {
	ID        string       `json:"id"`
	Format    ExportFormat `json:"format"`
	CourseIDs []string     `json:"course_ids"`
	Status    ExportStatus `json:"status"`

	FileName    string     `json:"file_name,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
